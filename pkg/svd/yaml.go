package svd

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RawDevice is a device description loaded from YAML.
type RawDevice struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Size        number          `yaml:"size"` // default register size for the device
	Peripherals []RawPeripheral `yaml:"peripherals"`
}

// RawPeripheral is a peripheral definition.
type RawPeripheral struct {
	Name        string        `yaml:"name"`
	DerivedFrom string        `yaml:"derivedFrom"`
	BaseAddress *number       `yaml:"baseAddress"` // inherited when derivedFrom is set
	Description string        `yaml:"description"`
	Size        number        `yaml:"size"`
	Registers   []RawRegister `yaml:"registers"`
}

// RawRegister is a register definition.
type RawRegister struct {
	Name          string     `yaml:"name"`
	DisplayName   string     `yaml:"displayName"`
	AddressOffset number     `yaml:"addressOffset"`
	Size          number     `yaml:"size"`
	Access        string     `yaml:"access"` // "read-write", "read-only", "write-only", ...
	Description   string     `yaml:"description"`
	Fields        []RawField `yaml:"fields"`
}

// RawField is a bit field definition.
type RawField struct {
	Name        string `yaml:"name"`
	BitOffset   number `yaml:"bitOffset"`
	BitWidth    number `yaml:"bitWidth"`
	Description string `yaml:"description"`
}

// number accepts the numeric spellings parseNumber understands.
type number uint64

func (n *number) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		return nil
	}
	v, err := parseNumber(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", value.Line, value.Value)
	}
	*n = number(v)
	return nil
}

// ParseYAML parses a device description from YAML bytes.
func ParseYAML(data []byte) (*Device, error) {
	var raw RawDevice
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}
	return raw.build()
}

func (raw *RawDevice) build() (*Device, error) {
	if raw.Name == "" {
		return nil, &LoadError{Message: "device name is required"}
	}

	dev := &Device{
		Name:        raw.Name,
		Description: raw.Description,
	}
	byName := make(map[string]*Peripheral, len(raw.Peripherals))

	for i := range raw.Peripherals {
		rp := &raw.Peripherals[i]
		if rp.Name == "" {
			return nil, &LoadError{Message: fmt.Sprintf("peripheral #%d has no name", i)}
		}

		p := &Peripheral{
			Name:        rp.Name,
			Description: rp.Description,
		}
		if rp.BaseAddress != nil {
			p.BaseAddress = uint64(*rp.BaseAddress)
		} else if rp.DerivedFrom == "" {
			return nil, &LoadError{Message: fmt.Sprintf("peripheral %s: missing baseAddress", rp.Name)}
		}

		size := uint(rp.Size)
		if size == 0 {
			size = uint(raw.Size)
		}

		for j := range rp.Registers {
			r, err := rp.Registers[j].build(size)
			if err != nil {
				return nil, &LoadError{
					Message: fmt.Sprintf("peripheral %s", rp.Name),
					Cause:   err,
				}
			}
			p.Registers = append(p.Registers, r)
		}

		if rp.DerivedFrom != "" {
			base, ok := byName[rp.DerivedFrom]
			if !ok {
				return nil, &LoadError{
					Message: fmt.Sprintf("peripheral %s derives from unknown peripheral %s", rp.Name, rp.DerivedFrom),
				}
			}
			if rp.BaseAddress == nil {
				p.BaseAddress = base.BaseAddress
			}
			inherit(p, base)
		}

		byName[p.Name] = p
		dev.Peripherals = append(dev.Peripherals, p)
	}

	return dev, nil
}

func (rr *RawRegister) build(defaultSize uint) (*Register, error) {
	if rr.Name == "" {
		return nil, fmt.Errorf("register without a name")
	}

	access, err := ParseAccess(rr.Access)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", rr.Name, err)
	}

	r := &Register{
		Name:          rr.Name,
		DisplayName:   rr.DisplayName,
		AddressOffset: uint64(rr.AddressOffset),
		Size:          uint(rr.Size),
		Access:        access,
		Description:   rr.Description,
	}
	if r.Size == 0 {
		r.Size = defaultSize
	}

	for _, rf := range rr.Fields {
		if rf.BitWidth == 0 {
			return nil, fmt.Errorf("register %s: field %s has zero width", rr.Name, rf.Name)
		}
		r.Fields = append(r.Fields, &Field{
			Name:        rf.Name,
			BitOffset:   uint(rf.BitOffset),
			BitWidth:    uint(rf.BitWidth),
			Description: rf.Description,
		})
	}
	return r, nil
}

// inherit fills in what a derived peripheral left out from its base.
// Registers are cloned so that every (peripheral, register) pair in a tree is
// distinct.
func inherit(p, base *Peripheral) {
	if p.Description == "" {
		p.Description = base.Description
	}
	if len(p.Registers) > 0 {
		return
	}
	for _, r := range base.Registers {
		clone := *r
		clone.Fields = append([]*Field(nil), r.Fields...)
		p.Registers = append(p.Registers, &clone)
	}
}
