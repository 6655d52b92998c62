// Package format negotiates how register values are displayed.
//
// A format is either given explicitly by an option token (/a, /x, /u, /t,
// /_t) or inferred from the register shape. Once resolved for a register, a
// Spec carries its own width so that every rendering is padded identically.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
)

// Format errors.
var (
	ErrInvalidFormat   = errors.New("invalid format option")
	ErrAmbiguousFormat = errors.New("more than one format option")
)

// Marker starts every option token.
const Marker = "/"

// Option is a user-selected rendering mode.
type Option uint8

const (
	// OptionNone means no option was given; the default is inferred.
	OptionNone Option = iota
	OptionAddress
	OptionHex
	OptionUnsigned
	OptionBinary
	OptionGroupedBinary
)

var optionTokens = []struct {
	token  string
	option Option
}{
	{"/a", OptionAddress},
	{"/x", OptionHex},
	{"/u", OptionUnsigned},
	{"/t", OptionBinary},
	{"/_t", OptionGroupedBinary},
}

// Tokens returns the recognized option tokens in a stable order.
func Tokens() []string {
	out := make([]string, len(optionTokens))
	for i, o := range optionTokens {
		out[i] = o.token
	}
	return out
}

// IsOption reports whether token is meant as a format option.
func IsOption(token string) bool {
	return strings.HasPrefix(token, Marker)
}

// ParseOption parses an option token such as "/x".
func ParseOption(token string) (Option, error) {
	for _, o := range optionTokens {
		if o.token == token {
			return o.option, nil
		}
	}
	return OptionNone, fmt.Errorf("%w: %s", ErrInvalidFormat, token)
}

// String returns the option token.
func (o Option) String() string {
	for _, t := range optionTokens {
		if t.option == o {
			return t.token
		}
	}
	return ""
}

// Kind is the rendering variant of a Spec.
type Kind uint8

const (
	KindAddress Kind = iota
	KindHex
	KindUnsigned
	KindBinary
	KindGroupedBinary
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindHex:
		return "hex"
	case KindUnsigned:
		return "unsigned"
	case KindBinary:
		return "binary"
	case KindGroupedBinary:
		return "grouped-binary"
	default:
		return "unknown"
	}
}

// Spec is a resolved display format.
type Spec struct {
	Kind Kind

	// Digits is the hex digit count for KindHex.
	Digits uint

	// Bits is the binary digit count for KindBinary and KindGroupedBinary.
	Bits uint
}

// Address, Hex, Unsigned, Binary and GroupedBinary build Specs.
func Address() Spec                { return Spec{Kind: KindAddress} }
func Hex(digits uint) Spec         { return Spec{Kind: KindHex, Digits: digits} }
func Unsigned() Spec               { return Spec{Kind: KindUnsigned} }
func Binary(bits uint) Spec        { return Spec{Kind: KindBinary, Bits: bits} }
func GroupedBinary(bits uint) Spec { return Spec{Kind: KindGroupedBinary, Bits: bits} }

// HexDigits is the number of hex digits needed for a width in bits.
func HexDigits(bits uint) uint {
	return (bits + 3) / 4
}

// LooksLikeAddress reports whether a register of effective width w holds a
// single pointer-sized value: w matches the pointer width and the register
// has no fields, or one field spanning all of it.
func LooksLikeAddress(r *svd.Register, pointerBits uint) bool {
	w := r.EffectiveSize(pointerBits)
	if w != pointerBits {
		return false
	}
	switch len(r.Fields) {
	case 0:
		return true
	case 1:
		return r.Fields[0].BitWidth == w
	default:
		return false
	}
}

// ResolveDefault returns the inferred format for r.
func ResolveDefault(r *svd.Register, pointerBits uint) Spec {
	if LooksLikeAddress(r, pointerBits) {
		return Address()
	}
	return Hex(HexDigits(r.EffectiveSize(pointerBits)))
}

// Resolve builds the Spec for r. OptionNone falls back to ResolveDefault.
func Resolve(r *svd.Register, pointerBits uint, opt Option) Spec {
	w := r.EffectiveSize(pointerBits)
	switch opt {
	case OptionAddress:
		return Address()
	case OptionHex:
		return Hex(HexDigits(w))
	case OptionUnsigned:
		return Unsigned()
	case OptionBinary:
		return Binary(w)
	case OptionGroupedBinary:
		return GroupedBinary(w)
	default:
		return ResolveDefault(r, pointerBits)
	}
}

// Format renders v. Address specs are rendered as a pointer literal; use
// FormatPointer when the pointer width must be applied.
func (s Spec) Format(v uint64) string {
	switch s.Kind {
	case KindHex:
		return fmt.Sprintf("0x%0*x", int(s.Digits), v)
	case KindUnsigned:
		return strconv.FormatUint(v, 10)
	case KindBinary:
		return fmt.Sprintf("0b%0*b", int(s.Bits), v)
	case KindGroupedBinary:
		return "0b" + groupNibbles(fmt.Sprintf("%0*b", int(s.Bits), v))
	default:
		return fmt.Sprintf("%#x", v)
	}
}

// FormatPointer reinterprets v as a pointer of pointerBits and renders it the
// way a debugger prints a pointer: 0x followed by the significant digits.
func FormatPointer(v uint64, pointerBits uint) string {
	if pointerBits < 64 {
		v &= 1<<pointerBits - 1
	}
	return fmt.Sprintf("0x%x", v)
}

// FormatAddress renders an address zero padded to the pointer width.
func FormatAddress(addr uint64, pointerBits uint) string {
	return fmt.Sprintf("0x%0*x", int(HexDigits(pointerBits)), addr)
}

// String describes the spec, e.g. "hex/8".
func (s Spec) String() string {
	switch s.Kind {
	case KindHex:
		return fmt.Sprintf("%s/%d", s.Kind, s.Digits)
	case KindBinary, KindGroupedBinary:
		return fmt.Sprintf("%s/%d", s.Kind, s.Bits)
	default:
		return s.Kind.String()
	}
}

// groupNibbles inserts an underscore every four digits counting from the
// least significant end.
func groupNibbles(bits string) string {
	if len(bits) <= 4 {
		return bits
	}
	var sb strings.Builder
	lead := len(bits) % 4
	if lead > 0 {
		sb.WriteString(bits[:lead])
	}
	for i := lead; i < len(bits); i += 4 {
		if sb.Len() > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(bits[i : i+4])
	}
	return sb.String()
}
