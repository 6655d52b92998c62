package target

import (
	"fmt"
	"sort"
	"strings"
)

// ByteOrder selects how multi-byte values are laid out in target memory.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// ParseByteOrder parses "little" or "big" (case-insensitive). An empty
// string yields LittleEndian, the common case for Cortex-M parts.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little", "le":
		return LittleEndian, nil
	case "big", "be":
		return BigEndian, nil
	default:
		return LittleEndian, fmt.Errorf("unknown byte order %q", s)
	}
}

// String returns the byte order name.
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

func (o ByteOrder) decode(b []byte) uint64 {
	var v uint64
	for i := range b {
		if o == BigEndian {
			v = v<<8 | uint64(b[i])
		} else {
			v |= uint64(b[i]) << (8 * i)
		}
	}
	return v
}

func (o ByteOrder) encode(b []byte, v uint64) {
	n := len(b)
	for i := 0; i < n; i++ {
		byteVal := byte(v >> (8 * i))
		if o == BigEndian {
			b[n-1-i] = byteVal
		} else {
			b[i] = byteVal
		}
	}
}

type region struct {
	base uint64
	data []byte
}

func (r *region) contains(addr uint64, n int) bool {
	return addr >= r.base && addr-r.base+uint64(n) <= uint64(len(r.data))
}

// Memory is a simulated target address space made of mapped regions.
// Reads outside a region fail like an unmapped bus access would.
type Memory struct {
	bits    uint
	order   ByteOrder
	regions []*region
}

// NewMemory creates an empty address space.
func NewMemory(pointerBits uint, order ByteOrder) *Memory {
	return &Memory{bits: pointerBits, order: order}
}

// Map adds a zero-filled region of size bytes at base.
func (m *Memory) Map(base uint64, size int) error {
	if size <= 0 {
		return fmt.Errorf("invalid region size %d", size)
	}
	end := base + uint64(size)
	for _, r := range m.regions {
		if base < r.base+uint64(len(r.data)) && r.base < end {
			return fmt.Errorf("region %#x+%#x overlaps region at %#x", base, size, r.base)
		}
	}
	m.regions = append(m.regions, &region{base: base, data: make([]byte, size)})
	sort.Slice(m.regions, func(i, j int) bool { return m.regions[i].base < m.regions[j].base })
	return nil
}

func (m *Memory) find(addr uint64, n int) *region {
	for _, r := range m.regions {
		if r.contains(addr, n) {
			return r
		}
	}
	return nil
}

// ReadUnsigned implements Accessor.
func (m *Memory) ReadUnsigned(address uint64, widthBits uint) (uint64, error) {
	n, err := byteWidth(widthBits)
	if err != nil {
		return 0, err
	}
	r := m.find(address, n)
	if r == nil {
		return 0, fmt.Errorf("%w at %#x", ErrMemoryAccess, address)
	}
	off := address - r.base
	return m.order.decode(r.data[off : off+uint64(n)]), nil
}

// WriteUnsigned stores v as a widthBits wide value at address.
func (m *Memory) WriteUnsigned(address uint64, widthBits uint, v uint64) error {
	n, err := byteWidth(widthBits)
	if err != nil {
		return err
	}
	r := m.find(address, n)
	if r == nil {
		return fmt.Errorf("%w at %#x", ErrMemoryAccess, address)
	}
	off := address - r.base
	m.order.encode(r.data[off:off+uint64(n)], v)
	return nil
}

// PointerBits implements Accessor.
func (m *Memory) PointerBits() uint {
	return m.bits
}

// Compile-time interface satisfaction check.
var _ Accessor = (*Memory)(nil)
