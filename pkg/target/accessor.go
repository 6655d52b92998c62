// Package target provides access to the memory of the debugged target.
//
// The dashboard only ever reads: an Accessor returns an unsigned integer of
// a given width at an address, or an error wrapping ErrMemoryAccess. Three
// implementations are provided:
//   - Memory, a sparse simulated address space (tests, offline use)
//   - Remote, a GDB remote serial protocol client (gdbserver, OpenOCD, ...)
//   - Detached, which fails every read
package target

import (
	"errors"
	"fmt"
)

// ErrMemoryAccess is wrapped by every read failure.
var ErrMemoryAccess = errors.New("cannot access memory")

// Accessor reads target memory.
type Accessor interface {
	// ReadUnsigned reads an unsigned integer of widthBits at address.
	// Implementations must return, not hang, when the target is unreachable.
	ReadUnsigned(address uint64, widthBits uint) (uint64, error)

	// PointerBits is the target's native pointer width.
	PointerBits() uint
}

// Detached is an Accessor for a session with no target attached.
type Detached struct {
	Bits uint
}

// ReadUnsigned always fails.
func (d Detached) ReadUnsigned(address uint64, widthBits uint) (uint64, error) {
	return 0, fmt.Errorf("%w at %#x: no target attached", ErrMemoryAccess, address)
}

// PointerBits implements Accessor.
func (d Detached) PointerBits() uint {
	return d.Bits
}

// Compile-time interface satisfaction check.
var _ Accessor = Detached{}

// byteWidth converts a read width in bits to bytes.
func byteWidth(widthBits uint) (int, error) {
	if widthBits == 0 || widthBits > 64 || widthBits%8 != 0 {
		return 0, fmt.Errorf("%w: unsupported width %d", ErrMemoryAccess, widthBits)
	}
	return int(widthBits / 8), nil
}
