package svd

import (
	"fmt"
	"strings"
)

// Device is the root of a loaded hardware description.
type Device struct {
	Name        string
	Description string
	Peripherals []*Peripheral
}

// Peripheral is a base-addressed hardware block.
type Peripheral struct {
	Name        string
	BaseAddress uint64
	Description string
	Registers   []*Register
}

// Register is an offset-addressed storage location inside a peripheral.
type Register struct {
	Name string

	// DisplayName, when set, is used instead of Name for lookup and display.
	DisplayName string

	AddressOffset uint64

	// Size is the register width in bits. Zero means the description did
	// not say; consumers fall back to the target's pointer width.
	Size uint

	Access      Access
	Description string
	Fields      []*Field
}

// Field is a named bit range within a register.
type Field struct {
	Name        string
	BitOffset   uint
	BitWidth    uint
	Description string
}

// Label returns the name a register is looked up and displayed by.
func (r *Register) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// EffectiveSize returns the register width, defaulting to pointerBits.
func (r *Register) EffectiveSize(pointerBits uint) uint {
	if r.Size != 0 {
		return r.Size
	}
	return pointerBits
}

// Address returns the absolute address of r inside p.
func (p *Peripheral) Address(r *Register) uint64 {
	return p.BaseAddress + r.AddressOffset
}

// MSB returns the index of the field's most significant bit.
func (f *Field) MSB() uint {
	return f.BitOffset + f.BitWidth - 1
}

// Range formats the field's bit span as [msb:lsb], or [bit] for single bits.
func (f *Field) Range() string {
	if f.BitWidth <= 1 {
		return fmt.Sprintf("[%d]", f.BitOffset)
	}
	return fmt.Sprintf("[%d:%d]", f.MSB(), f.BitOffset)
}

// CollapseSpace folds runs of whitespace, newlines included, into single
// spaces. Descriptions in vendor files are frequently wrapped.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
