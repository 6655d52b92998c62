// Package dashboard ties the catalog, the watch list and the target accessor
// together behind the commands a debugger user types.
//
// A Module is the single owner of one catalog and one watch list. It is not
// safe for concurrent use; the command line drives it from one goroutine.
package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/catalog"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/cmdargs"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/format"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/target"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/watch"
)

// Command errors.
var (
	ErrPeripheralNotFound = errors.New("peripheral not found")
	ErrRegisterNotFound   = errors.New("register not found")
	ErrUsage              = errors.New("usage")
	ErrNoDescription      = errors.New("no description loaded")
)

// DefaultPointerBits is used when no accessor is configured.
const DefaultPointerBits = 32

// Options configures a Module.
type Options struct {
	// Loader parses description files (default svd.FileLoader).
	Loader svd.Loader

	// Accessor reads target memory (default target.Detached).
	Accessor target.Accessor

	// Logger receives operational logs (default slog.Default()).
	Logger *slog.Logger

	// Recorder receives watch events (default log.NoopLogger).
	Recorder log.Logger

	// Styles for RefreshLines (default PlainStyles).
	Styles *Styles

	// SessionID stamps recorded events (default a random UUID).
	SessionID string

	// Now returns the current time (default time.Now).
	Now func() time.Time
}

// Module is the register watch dashboard.
type Module struct {
	catalog  *catalog.Catalog
	watches  *watch.List
	loader   svd.Loader
	acc      target.Accessor
	logger   *slog.Logger
	recorder log.Logger
	styles   Styles
	session  string
	now      func() time.Time
}

// New creates a Module with nothing loaded and nothing watched.
func New(opts Options) *Module {
	m := &Module{
		catalog:  catalog.New(),
		watches:  watch.New(),
		loader:   opts.Loader,
		acc:      opts.Accessor,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		session:  opts.SessionID,
		now:      opts.Now,
	}
	if m.loader == nil {
		m.loader = svd.FileLoader{}
	}
	if m.acc == nil {
		m.acc = target.Detached{Bits: DefaultPointerBits}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.recorder == nil {
		m.recorder = log.NoopLogger{}
	}
	if opts.Styles != nil {
		m.styles = *opts.Styles
	} else {
		m.styles = PlainStyles()
	}
	if m.session == "" {
		m.session = uuid.NewString()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// SessionID returns the ID stamped on recorded events.
func (m *Module) SessionID() string {
	return m.session
}

// Catalog returns the loaded descriptions.
func (m *Module) Catalog() *catalog.Catalog {
	return m.catalog
}

// Watches returns the watch list.
func (m *Module) Watches() *watch.List {
	return m.watches
}

// Accessor returns the target accessor in use.
func (m *Module) Accessor() target.Accessor {
	return m.acc
}

// SetAccessor switches to another target, e.g. after attaching.
func (m *Module) SetAccessor(acc target.Accessor) {
	m.acc = acc
}

func (m *Module) pointerBits() uint {
	return m.acc.PointerBits()
}

// Label names the module and the loaded devices, e.g. "SVD [STM32F4,EXT]".
func (m *Module) Label() string {
	names := m.catalog.DeviceNames()
	if len(names) == 0 {
		return "SVD"
	}
	return fmt.Sprintf("SVD [%s]", strings.Join(names, ","))
}

// Load replaces the loaded descriptions with the ones in paths. The watch
// list is cleared because its entries refer to the replaced trees. On error
// nothing changes.
func (m *Module) Load(paths []string) (err error) {
	defer func() { m.recordCommand("load", strings.Join(paths, " "), err) }()

	if len(paths) == 0 {
		return fmt.Errorf("%w: load FILE...: no file specified", ErrUsage)
	}
	if err := m.catalog.Load(m.loader, paths...); err != nil {
		return err
	}
	m.watches.Clear()

	m.logger.Debug("descriptions loaded", "files", paths, "devices", m.catalog.DeviceNames())
	return nil
}

// LoadDevices adopts already parsed descriptions, clearing the watch list.
func (m *Module) LoadDevices(devices ...*svd.Device) {
	m.catalog.Set(devices...)
	m.watches.Clear()
	m.recordCommand("load", strings.Join(m.catalog.DeviceNames(), " "), nil)
}

// resolve looks up a peripheral and one of its registers in the catalog.
func (m *Module) resolve(peripheral, register string) (*svd.Peripheral, *svd.Register, error) {
	p := m.catalog.FindPeripheral(peripheral)
	if p == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPeripheralNotFound, peripheral)
	}
	r := m.catalog.FindRegister(p, register)
	if r == nil {
		return nil, nil, fmt.Errorf("%w: %s %s", ErrRegisterNotFound, peripheral, register)
	}
	return p, r, nil
}

// registerArgs parses "[/fmt] PERIPHERAL REGISTER".
func registerArgs(command, arg string) ([]string, format.Option, error) {
	names, opt, err := cmdargs.Parse(arg)
	if err != nil {
		return nil, format.OptionNone, err
	}
	if len(names) != 2 {
		return nil, format.OptionNone, fmt.Errorf("%w: %s [/FMT] PERIPHERAL REGISTER", ErrUsage, command)
	}
	return names, opt, nil
}

// Add watches the register named by arg, "[/fmt] PERIPHERAL REGISTER".
func (m *Module) Add(arg string) (err error) {
	defer func() { m.recordCommand("add", arg, err) }()

	names, opt, err := registerArgs("add", arg)
	if err != nil {
		return err
	}
	p, r, err := m.resolve(names[0], names[1])
	if err != nil {
		return err
	}

	spec := format.Resolve(r, m.pointerBits(), opt)
	if err := m.watches.Add(p, r, spec); err != nil {
		return err
	}

	m.logger.Debug("watch added", "peripheral", p.Name, "register", r.Label(), "format", spec.String())
	return nil
}

// Remove stops watching the register named by arg. Names are matched
// against the watch list; a format option is accepted and ignored.
func (m *Module) Remove(arg string) (err error) {
	defer func() { m.recordCommand("remove", arg, err) }()

	names, _, err := registerArgs("remove", arg)
	if err != nil {
		return err
	}

	for _, e := range m.watches.Entries() {
		if e.Peripheral.Name == names[0] && e.Register.Label() == names[1] {
			if err := m.watches.Remove(e.Peripheral, e.Register); err != nil {
				return err
			}
			m.logger.Debug("watch removed", "peripheral", names[0], "register", names[1])
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", watch.ErrNotFound, names[0], names[1])
}

// Clear stops watching every register.
func (m *Module) Clear() {
	m.watches.Clear()
	m.logger.Debug("watches cleared")
	m.recordCommand("clear", "", nil)
}

// Watched describes the watched registers in order, e.g. "TIMER0 CTRL (hex/8)".
func (m *Module) Watched() []string {
	out := make([]string, 0, m.watches.Len())
	for _, e := range m.watches.Entries() {
		out = append(out, e.String())
	}
	return out
}

// CompleteAdd completes "[/fmt] PERIPHERAL REGISTER" against the catalog.
func (m *Module) CompleteAdd(text, word string) []string {
	return cmdargs.CompleteHierarchical(text, word, m.catalog.Complete)
}

// CompleteRemove completes against the watched registers only.
func (m *Module) CompleteRemove(text, word string) []string {
	return cmdargs.CompleteHierarchical(text, word, m.completeWatched)
}

func (m *Module) completeWatched(resolved []string, prefix string) []string {
	var names []string
	seen := make(map[string]bool)

	switch len(resolved) {
	case 0:
		for _, e := range m.watches.Entries() {
			if !seen[e.Peripheral.Name] {
				seen[e.Peripheral.Name] = true
				names = append(names, e.Peripheral.Name)
			}
		}
	case 1:
		for _, e := range m.watches.Entries() {
			if e.Peripheral.Name == resolved[0] {
				names = append(names, e.Register.Label())
			}
		}
	default:
		return nil
	}
	return catalog.FilterPrefix(names, prefix)
}

func (m *Module) recordCommand(name, args string, err error) {
	cmd := &log.CommandEvent{Name: name, Args: args}
	if err != nil {
		cmd.Error = err.Error()
	}
	m.recorder.Log(log.Event{
		Timestamp: m.now(),
		SessionID: m.session,
		Category:  log.CategoryCommand,
		Command:   cmd,
	})
}
