// Package render turns a register into the address and value text shown to
// the user, reading the value through a target accessor.
package render

import (
	"github.com/ccalmels/gdb-dashboard-svd/pkg/format"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/target"
)

// Unavailable replaces the value of a register that could not be read.
const Unavailable = "<unavailable>"

// Address returns the absolute address of r in p, zero padded to the
// accessor's pointer width.
func Address(p *svd.Peripheral, r *svd.Register, acc target.Accessor) string {
	return format.FormatAddress(p.Address(r), acc.PointerBits())
}

// Value reads r and formats it with spec. Read failures are returned.
func Value(p *svd.Peripheral, r *svd.Register, spec format.Spec, acc target.Accessor) (string, error) {
	bits := acc.PointerBits()
	v, err := acc.ReadUnsigned(p.Address(r), r.EffectiveSize(bits))
	if err != nil {
		return "", err
	}
	if spec.Kind == format.KindAddress {
		return format.FormatPointer(v, bits), nil
	}
	return spec.Format(v), nil
}

// Render returns the address and value text of r. A failed read yields
// Unavailable as the value; it is never reported as an error.
func Render(p *svd.Peripheral, r *svd.Register, spec format.Spec, acc target.Accessor) (addr, value string) {
	addr = Address(p, r, acc)
	value, err := Value(p, r, spec, acc)
	if err != nil {
		value = Unavailable
	}
	return addr, value
}
