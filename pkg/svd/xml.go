package svd

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Element names follow the CMSIS-SVD schema. Numbers are kept as text since
// SVD allows 0x, # and decimal spellings.
type xmlDevice struct {
	Name        string          `xml:"name"`
	Description string          `xml:"description"`
	Size        string          `xml:"size"`
	Access      string          `xml:"access"`
	Peripherals []xmlPeripheral `xml:"peripherals>peripheral"`
}

type xmlPeripheral struct {
	DerivedFrom string        `xml:"derivedFrom,attr"`
	Name        string        `xml:"name"`
	Description string        `xml:"description"`
	BaseAddress string        `xml:"baseAddress"`
	Size        string        `xml:"size"`
	Access      string        `xml:"access"`
	Registers   []xmlRegister `xml:"registers>register"`
}

type xmlRegister struct {
	Name          string     `xml:"name"`
	DisplayName   string     `xml:"displayName"`
	Description   string     `xml:"description"`
	AddressOffset string     `xml:"addressOffset"`
	Size          string     `xml:"size"`
	Access        string     `xml:"access"`
	Fields        []xmlField `xml:"fields>field"`
}

type xmlField struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	BitOffset   string `xml:"bitOffset"`
	BitWidth    string `xml:"bitWidth"`
	LSB         string `xml:"lsb"`
	MSB         string `xml:"msb"`
	BitRange    string `xml:"bitRange"`
}

// registerDefaults carries the inheritable register properties down the tree.
type registerDefaults struct {
	size   uint
	access Access
}

var bitRangePattern = regexp.MustCompile(`^\[\s*(\d+)\s*:\s*(\d+)\s*\]$`)

// ParseXML parses a CMSIS-SVD device description.
func ParseXML(data []byte) (*Device, error) {
	var raw xmlDevice
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{
			Message: "failed to parse SVD",
			Cause:   err,
		}
	}
	if raw.Name == "" {
		return nil, &LoadError{Message: "device name is required"}
	}

	defaults, err := inheritDefaults(registerDefaults{}, raw.Size, raw.Access)
	if err != nil {
		return nil, &LoadError{Message: "device", Cause: err}
	}

	dev := &Device{
		Name:        raw.Name,
		Description: raw.Description,
	}
	byName := make(map[string]*Peripheral, len(raw.Peripherals))

	for i := range raw.Peripherals {
		xp := &raw.Peripherals[i]
		p, err := xp.build(defaults, byName)
		if err != nil {
			name := xp.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, &LoadError{
				Message: "peripheral " + name,
				Cause:   err,
			}
		}
		byName[p.Name] = p
		dev.Peripherals = append(dev.Peripherals, p)
	}
	return dev, nil
}

func inheritDefaults(d registerDefaults, size, access string) (registerDefaults, error) {
	if strings.TrimSpace(size) != "" {
		v, err := parseNumber(size)
		if err != nil {
			return d, fmt.Errorf("invalid size %q", size)
		}
		d.size = uint(v)
	}
	if strings.TrimSpace(access) != "" {
		a, err := ParseAccess(access)
		if err != nil {
			return d, err
		}
		d.access = a
	}
	return d, nil
}

func (xp *xmlPeripheral) build(defaults registerDefaults, known map[string]*Peripheral) (*Peripheral, error) {
	var base *Peripheral
	if xp.DerivedFrom != "" {
		var ok bool
		if base, ok = known[xp.DerivedFrom]; !ok {
			return nil, fmt.Errorf("derives from unknown peripheral %s", xp.DerivedFrom)
		}
	}

	p := &Peripheral{
		Name:        xp.Name,
		Description: xp.Description,
	}
	if p.Name == "" {
		return nil, fmt.Errorf("missing name")
	}

	switch {
	case strings.TrimSpace(xp.BaseAddress) != "":
		addr, err := parseNumber(xp.BaseAddress)
		if err != nil {
			return nil, fmt.Errorf("invalid baseAddress %q", xp.BaseAddress)
		}
		p.BaseAddress = addr
	case base != nil:
		p.BaseAddress = base.BaseAddress
	default:
		return nil, fmt.Errorf("missing baseAddress")
	}

	defaults, err := inheritDefaults(defaults, xp.Size, xp.Access)
	if err != nil {
		return nil, err
	}

	for i := range xp.Registers {
		r, err := xp.Registers[i].build(defaults)
		if err != nil {
			return nil, err
		}
		p.Registers = append(p.Registers, r)
	}

	if base != nil {
		inherit(p, base)
	}
	return p, nil
}

func (xr *xmlRegister) build(defaults registerDefaults) (*Register, error) {
	if xr.Name == "" {
		return nil, fmt.Errorf("register without a name")
	}

	offset, err := parseNumber(xr.AddressOffset)
	if err != nil {
		return nil, fmt.Errorf("register %s: invalid addressOffset %q", xr.Name, xr.AddressOffset)
	}

	defaults, err = inheritDefaults(defaults, xr.Size, xr.Access)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", xr.Name, err)
	}

	r := &Register{
		Name:          xr.Name,
		DisplayName:   xr.DisplayName,
		AddressOffset: offset,
		Size:          defaults.size,
		Access:        defaults.access,
		Description:   xr.Description,
	}

	for i := range xr.Fields {
		f, err := xr.Fields[i].build()
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", xr.Name, err)
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}

// build accepts the three ways SVD describes a bit range: bitOffset/bitWidth,
// lsb/msb and bitRange "[msb:lsb]".
func (xf *xmlField) build() (*Field, error) {
	f := &Field{
		Name:        xf.Name,
		Description: xf.Description,
	}

	switch {
	case xf.BitOffset != "":
		off, err := parseNumber(xf.BitOffset)
		if err != nil {
			return nil, fmt.Errorf("field %s: invalid bitOffset %q", xf.Name, xf.BitOffset)
		}
		width := uint64(1)
		if xf.BitWidth != "" {
			if width, err = parseNumber(xf.BitWidth); err != nil {
				return nil, fmt.Errorf("field %s: invalid bitWidth %q", xf.Name, xf.BitWidth)
			}
		}
		f.BitOffset, f.BitWidth = uint(off), uint(width)

	case xf.LSB != "" && xf.MSB != "":
		lsb, err := parseNumber(xf.LSB)
		if err != nil {
			return nil, fmt.Errorf("field %s: invalid lsb %q", xf.Name, xf.LSB)
		}
		msb, err := parseNumber(xf.MSB)
		if err != nil {
			return nil, fmt.Errorf("field %s: invalid msb %q", xf.Name, xf.MSB)
		}
		if msb < lsb {
			return nil, fmt.Errorf("field %s: msb below lsb", xf.Name)
		}
		f.BitOffset, f.BitWidth = uint(lsb), uint(msb-lsb+1)

	case xf.BitRange != "":
		m := bitRangePattern.FindStringSubmatch(strings.TrimSpace(xf.BitRange))
		if m == nil {
			return nil, fmt.Errorf("field %s: invalid bitRange %q", xf.Name, xf.BitRange)
		}
		msb, _ := strconv.ParseUint(m[1], 10, 32)
		lsb, _ := strconv.ParseUint(m[2], 10, 32)
		if msb < lsb {
			return nil, fmt.Errorf("field %s: msb below lsb", xf.Name)
		}
		f.BitOffset, f.BitWidth = uint(lsb), uint(msb-lsb+1)

	default:
		return nil, fmt.Errorf("field %s: no bit range", xf.Name)
	}

	if f.BitWidth == 0 {
		return nil, fmt.Errorf("field %s has zero width", xf.Name)
	}
	return f, nil
}
