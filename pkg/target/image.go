package target

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Image describes the initial content of a simulated target.
//
//	pointerBits: 32
//	byteOrder: little
//	regions:
//	  - base: 0x40008000
//	    size: 0x400
//	    values:
//	      - {offset: 0x0, width: 32, value: 0x1}
type Image struct {
	PointerBits uint          `yaml:"pointerBits"`
	ByteOrder   string        `yaml:"byteOrder"`
	Regions     []ImageRegion `yaml:"regions"`
}

// ImageRegion is one mapped region of an Image.
type ImageRegion struct {
	Base   uint64       `yaml:"base"`
	Size   int          `yaml:"size"`
	Values []ImageValue `yaml:"values"`
}

// ImageValue is a value stored at Base+Offset.
type ImageValue struct {
	Offset uint64 `yaml:"offset"`
	Width  uint   `yaml:"width"`
	Value  uint64 `yaml:"value"`
}

// LoadImage reads a YAML image file and builds the simulated memory.
func LoadImage(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return ParseImage(data)
}

// ParseImage builds a simulated memory from YAML bytes.
func ParseImage(data []byte) (*Memory, error) {
	var img Image
	if err := yaml.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("failed to parse image: %w", err)
	}
	return img.Build()
}

// Build maps the image regions and stores their values.
func (img *Image) Build() (*Memory, error) {
	order, err := ParseByteOrder(img.ByteOrder)
	if err != nil {
		return nil, err
	}
	bits := img.PointerBits
	if bits == 0 {
		bits = 32
	}

	m := NewMemory(bits, order)
	for _, r := range img.Regions {
		if err := m.Map(r.Base, r.Size); err != nil {
			return nil, err
		}
		for _, v := range r.Values {
			width := v.Width
			if width == 0 {
				width = bits
			}
			if err := m.WriteUnsigned(r.Base+v.Offset, width, v.Value); err != nil {
				return nil, fmt.Errorf("region %#x: %w", r.Base, err)
			}
		}
	}
	return m, nil
}
