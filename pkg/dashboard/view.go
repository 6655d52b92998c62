package dashboard

import (
	"fmt"
	"iter"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/cmdargs"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/format"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/render"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/watch"
)

// Info lists, depending on arg:
//
//	""                   devices and their peripherals
//	PERIPHERAL           the registers of a peripheral
//	PERIPHERAL REGISTER  the fields of a register
//
// Names are resolved immediately; the lines are produced lazily, each
// iteration walking the currently loaded tree afresh.
func (m *Module) Info(arg string) (iter.Seq[string], error) {
	tokens, err := cmdargs.Tokenize(arg)
	if err != nil {
		return nil, err
	}

	switch len(tokens) {
	case 0:
		if len(m.catalog.Devices()) == 0 {
			return nil, ErrNoDescription
		}
		return m.infoDevices, nil
	case 1:
		p := m.catalog.FindPeripheral(tokens[0])
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrPeripheralNotFound, tokens[0])
		}
		return func(yield func(string) bool) { m.infoPeripheral(p, yield) }, nil
	case 2:
		p, r, err := m.resolve(tokens[0], tokens[1])
		if err != nil {
			return nil, err
		}
		return func(yield func(string) bool) { m.infoRegister(p, r, yield) }, nil
	default:
		return nil, fmt.Errorf("%w: info [PERIPHERAL [REGISTER]]", ErrUsage)
	}
}

func described(head, description string) string {
	if d := svd.CollapseSpace(description); d != "" {
		return head + ": " + d
	}
	return head
}

func (m *Module) infoDevices(yield func(string) bool) {
	bits := m.pointerBits()
	for _, d := range m.catalog.Devices() {
		if !yield(described(d.Name, d.Description)) {
			return
		}
		for _, p := range d.Peripherals {
			head := fmt.Sprintf("  %s @ %s", p.Name, format.FormatAddress(p.BaseAddress, bits))
			if !yield(described(head, p.Description)) {
				return
			}
		}
	}
}

func (m *Module) registerHead(p *svd.Peripheral, r *svd.Register) string {
	bits := m.pointerBits()
	return fmt.Sprintf("%s @ %s [%d bits, %s]",
		r.Label(), format.FormatAddress(p.Address(r), bits), r.EffectiveSize(bits), r.Access)
}

func (m *Module) infoPeripheral(p *svd.Peripheral, yield func(string) bool) {
	head := fmt.Sprintf("%s @ %s", p.Name, format.FormatAddress(p.BaseAddress, m.pointerBits()))
	if !yield(described(head, p.Description)) {
		return
	}
	for _, r := range p.Registers {
		if !yield(described("  "+m.registerHead(p, r), r.Description)) {
			return
		}
	}
}

func (m *Module) infoRegister(p *svd.Peripheral, r *svd.Register, yield func(string) bool) {
	if !yield(described(p.Name+" "+m.registerHead(p, r), r.Description)) {
		return
	}
	for _, f := range r.Fields {
		if !yield(described(fmt.Sprintf("  %s %s", f.Name, f.Range()), f.Description)) {
			return
		}
	}
}

// Get reads the register named by arg, "[/fmt] PERIPHERAL REGISTER", once
// without watching it. An unreadable value is shown as unavailable.
func (m *Module) Get(arg string) (string, error) {
	names, opt, err := registerArgs("get", arg)
	if err != nil {
		return "", err
	}
	p, r, err := m.resolve(names[0], names[1])
	if err != nil {
		return "", err
	}
	if !r.Access.Readable() {
		return "", fmt.Errorf("%w: %s %s is %s", watch.ErrUnreadableRegister, p.Name, r.Label(), r.Access)
	}

	addr, value := render.Render(p, r, format.Resolve(r, m.pointerBits(), opt), m.acc)
	return fmt.Sprintf("%s %s (%s): %s", p.Name, r.Label(), addr, value), nil
}

// Refresh reads every watched register and records what changed.
func (m *Module) Refresh() []watch.Result {
	results := m.watches.Refresh(m.acc)
	for _, res := range results {
		if !res.Changed {
			continue
		}
		e := res.Entry
		event := log.Event{
			Timestamp:  m.now(),
			SessionID:  m.session,
			Peripheral: e.Peripheral.Name,
			Register:   e.Register.Label(),
			Address:    e.Peripheral.Address(e.Register),
		}
		if res.Err != nil {
			m.logger.Warn("register unavailable", "peripheral", e.Peripheral.Name, "register", e.Register.Label(), "error", res.Err)
			event.Category = log.CategoryUnavailable
			event.Error = &log.ErrorEventData{Message: res.Err.Error(), Context: "refresh"}
		} else {
			event.Category = log.CategoryChange
			event.Value = &log.ValueEvent{Format: e.Format.String(), Previous: res.Previous, Current: e.Value}
		}
		m.recorder.Log(event)
	}
	m.logger.Debug("watches refreshed", "count", len(results))
	return results
}

// RefreshLines refreshes the watch list and formats one line per entry:
//
//	PERIPHERAL   REGISTER (ADDRESS): VALUE
//
// The register name is right aligned to width/4 columns minus the
// peripheral name, never truncated. Values that changed are emphasized.
func (m *Module) RefreshLines(width int) []string {
	results := m.Refresh()
	lines := make([]string, 0, len(results))
	for _, res := range results {
		lines = append(lines, m.formatLine(res, width))
	}
	return lines
}

func (m *Module) formatLine(res watch.Result, width int) string {
	e := res.Entry
	name := e.Register.Label()
	column := max(width/4-len(e.Peripheral.Name), len(name))

	prefix := fmt.Sprintf("%s %*s (%s): ", e.Peripheral.Name, column, name, res.Address)
	value := e.Value
	if res.Changed {
		value = m.styles.Changed.Render(value)
	}
	return m.styles.Low.Render(prefix) + value
}
