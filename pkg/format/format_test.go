package format

import (
	"errors"
	"testing"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOption(t *testing.T) {
	tests := []struct {
		token string
		want  Option
	}{
		{"/a", OptionAddress},
		{"/x", OptionHex},
		{"/u", OptionUnsigned},
		{"/t", OptionBinary},
		{"/_t", OptionGroupedBinary},
	}
	for _, tt := range tests {
		got, err := ParseOption(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.token, got.String())
	}

	for _, bad := range []string{"/", "/X", "/d", "/xx", "/_"} {
		_, err := ParseOption(bad)
		assert.True(t, errors.Is(err, ErrInvalidFormat), bad)
	}
}

func TestResolveDefault(t *testing.T) {
	full := func(w uint) []*svd.Field { return []*svd.Field{{Name: "V", BitWidth: w}} }

	tests := []struct {
		name string
		reg  *svd.Register
		want Spec
	}{
		{"pointer width no fields", &svd.Register{Size: 32}, Address()},
		{"absent size no fields", &svd.Register{}, Address()},
		{"pointer width one full field", &svd.Register{Size: 32, Fields: full(32)}, Address()},
		{"pointer width partial field", &svd.Register{Size: 32, Fields: full(8)}, Hex(8)},
		{"pointer width two fields", &svd.Register{Size: 32, Fields: []*svd.Field{
			{Name: "A", BitWidth: 16}, {Name: "B", BitOffset: 16, BitWidth: 16},
		}}, Hex(8)},
		{"narrow register", &svd.Register{Size: 16}, Hex(4)},
		{"byte register", &svd.Register{Size: 8, Fields: full(8)}, Hex(2)},
		{"odd width rounds up", &svd.Register{Size: 10}, Hex(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDefault(tt.reg, 32))
		})
	}
}

func TestResolveExplicit(t *testing.T) {
	reg := &svd.Register{Size: 16}

	assert.Equal(t, Address(), Resolve(reg, 32, OptionAddress))
	assert.Equal(t, Hex(4), Resolve(reg, 32, OptionHex))
	assert.Equal(t, Unsigned(), Resolve(reg, 32, OptionUnsigned))
	assert.Equal(t, Binary(16), Resolve(reg, 32, OptionBinary))
	assert.Equal(t, GroupedBinary(16), Resolve(reg, 32, OptionGroupedBinary))
	assert.Equal(t, Hex(4), Resolve(reg, 32, OptionNone))

	// width defaults to the pointer width
	assert.Equal(t, Binary(64), Resolve(&svd.Register{}, 64, OptionBinary))
}

func TestSpecFormat(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		v    uint64
		want string
	}{
		{"hex byte", Hex(2), 0x3, "0x03"},
		{"hex word", Hex(8), 0x1, "0x00000001"},
		{"hex full", Hex(8), 0xdeadbeef, "0xdeadbeef"},
		{"unsigned", Unsigned(), 1234, "1234"},
		{"binary pads to width", Binary(32), 0b101, "0b00000000000000000000000000000101"},
		{"binary nibble", Binary(4), 0b101, "0b0101"},
		{"grouped", GroupedBinary(16), 0b1010_0000_1111, "0b0000_1010_0000_1111"},
		{"grouped short", GroupedBinary(4), 0b1, "0b0001"},
		{"grouped uneven", GroupedBinary(10), 0b11_0000_0001, "0b11_0000_0001"},
		{"address", Address(), 0x20001000, "0x20001000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Format(tt.v))
		})
	}
}

func TestFormatPointer(t *testing.T) {
	assert.Equal(t, "0x1", FormatPointer(1, 32))
	assert.Equal(t, "0x0", FormatPointer(0, 32))
	assert.Equal(t, "0x89abcdef", FormatPointer(0x1234567_89abcdef, 32), "masked to pointer width")
	assert.Equal(t, "0x123456789abcdef", FormatPointer(0x123456789abcdef, 64))
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "0x40008000", FormatAddress(0x40008000, 32))
	assert.Equal(t, "0x00001000", FormatAddress(0x1000, 32))
	assert.Equal(t, "0x0000000040008000", FormatAddress(0x40008000, 64))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"/a", "/x", "/u", "/t", "/_t"}, Tokens())
	assert.True(t, IsOption("/x"))
	assert.False(t, IsOption("TIMER0"))
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "hex/8", Hex(8).String())
	assert.Equal(t, "grouped-binary/16", GroupedBinary(16).String())
	assert.Equal(t, "address", Address().String())
}
