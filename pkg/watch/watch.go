// Package watch keeps the ordered list of registers refreshed on every stop
// of the debugged program.
package watch

import (
	"errors"
	"fmt"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/format"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/render"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/target"
)

// Watch list errors.
var (
	// ErrDuplicateEntry is returned when the register is already watched.
	ErrDuplicateEntry = errors.New("register already watched")

	// ErrUnreadableRegister is returned for write-only registers.
	ErrUnreadableRegister = errors.New("register is not readable")

	// ErrNotFound is returned when removing a register that is not watched.
	ErrNotFound = errors.New("register not watched")
)

// Entry is one watched register.
type Entry struct {
	Peripheral *svd.Peripheral
	Register   *svd.Register
	Format     format.Spec

	// Value is the text of the last refresh. It is empty, and Seen false,
	// until the first refresh.
	Value string
	Seen  bool
}

// Name returns "PERIPHERAL REGISTER".
func (e *Entry) Name() string {
	return e.Peripheral.Name + " " + e.Register.Label()
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Name(), e.Format)
}

// Result is the outcome of refreshing one entry.
type Result struct {
	Entry   *Entry
	Address string

	// Previous is the value before this refresh, empty on the first one.
	Previous string

	Changed bool

	// Err is the read failure, if any. The entry value is then
	// render.Unavailable.
	Err error
}

// List is an ordered, duplicate-free set of watched registers.
//
// List is not safe for concurrent use.
type List struct {
	entries []*Entry
}

// New creates an empty List.
func New() *List {
	l := new(List)
	l.Clear()
	return l
}

// Clear removes every entry.
func (l *List) Clear() {
	l.entries = make([]*Entry, 0, 10)
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns the entries in insertion order. The slice must not be
// modified.
func (l *List) Entries() []*Entry {
	return l.entries
}

func (l *List) index(p *svd.Peripheral, r *svd.Register) int {
	for i, e := range l.entries {
		if e.Peripheral == p && e.Register == r {
			return i
		}
	}
	return -1
}

// Contains reports whether the (p, r) pair is watched.
func (l *List) Contains(p *svd.Peripheral, r *svd.Register) bool {
	return l.index(p, r) >= 0
}

// Add appends a new entry with no value yet. Registers that are already
// watched, with whatever format, or that cannot be read are rejected.
func (l *List) Add(p *svd.Peripheral, r *svd.Register, spec format.Spec) error {
	if l.Contains(p, r) {
		return fmt.Errorf("%w: %s %s", ErrDuplicateEntry, p.Name, r.Label())
	}
	if !r.Access.Readable() {
		return fmt.Errorf("%w: %s %s is %s", ErrUnreadableRegister, p.Name, r.Label(), r.Access)
	}
	l.entries = append(l.entries, &Entry{Peripheral: p, Register: r, Format: spec})
	return nil
}

// Remove drops the (p, r) entry. The order of the others is preserved.
func (l *List) Remove(p *svd.Peripheral, r *svd.Register) error {
	i := l.index(p, r)
	if i < 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, p.Name, r.Label())
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return nil
}

// Refresh reads every entry through acc, in list order, and stores the new
// values. An entry is reported changed when it had no value yet or when the
// text differs from the previous one. Read failures never stop the refresh.
func (l *List) Refresh(acc target.Accessor) []Result {
	results := make([]Result, 0, len(l.entries))
	for _, e := range l.entries {
		addr := render.Address(e.Peripheral, e.Register, acc)
		value, err := render.Value(e.Peripheral, e.Register, e.Format, acc)
		if err != nil {
			value = render.Unavailable
		}

		res := Result{
			Entry:    e,
			Address:  addr,
			Previous: e.Value,
			Changed:  !e.Seen || e.Value != value,
			Err:      err,
		}
		e.Value = value
		e.Seen = true
		results = append(results, res)
	}
	return results
}
