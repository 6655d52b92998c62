// Package catalog holds the loaded hardware descriptions and resolves
// peripheral and register names against them.
package catalog

import (
	"strings"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/svd"
)

// Catalog owns zero or more loaded devices. Lookups are exact and
// case-sensitive; devices are searched in load order.
type Catalog struct {
	devices []*svd.Device
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{}
}

// Load parses every path with loader and replaces the catalog content with
// the result. If any path fails, the catalog is left as it was and the
// first error is returned.
func (c *Catalog) Load(loader svd.Loader, paths ...string) error {
	devices := make([]*svd.Device, 0, len(paths))
	for _, path := range paths {
		dev, err := loader.Load(path)
		if err != nil {
			return err
		}
		if dev == nil {
			return &svd.LoadError{File: path, Message: "no device in description"}
		}
		devices = append(devices, dev)
	}
	c.devices = devices
	return nil
}

// Set replaces the catalog content with already parsed devices.
func (c *Catalog) Set(devices ...*svd.Device) {
	c.devices = append([]*svd.Device(nil), devices...)
}

// Devices returns the loaded devices in load order.
func (c *Catalog) Devices() []*svd.Device {
	return c.devices
}

// DeviceNames returns the names of the loaded devices in load order.
func (c *Catalog) DeviceNames() []string {
	names := make([]string, 0, len(c.devices))
	for _, d := range c.devices {
		names = append(names, d.Name)
	}
	return names
}

// FindPeripheral returns the first peripheral called name, or nil.
func (c *Catalog) FindPeripheral(name string) *svd.Peripheral {
	for _, d := range c.devices {
		for _, p := range d.Peripherals {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// FindRegister returns the register of p whose label (display name if set,
// name otherwise) is name, or nil.
func FindRegister(p *svd.Peripheral, name string) *svd.Register {
	for _, r := range p.Registers {
		if r.Label() == name {
			return r
		}
	}
	return nil
}

// FindRegister is a convenience for the package-level FindRegister.
func (c *Catalog) FindRegister(p *svd.Peripheral, name string) *svd.Register {
	return FindRegister(p, name)
}

// Complete returns completion candidates for the next positional argument.
// With no resolved arguments the candidates are peripheral names; with one
// they are the register labels of that peripheral. Anything else, including
// an unknown peripheral, yields nil.
func (c *Catalog) Complete(resolved []string, prefix string) []string {
	var names []string

	switch len(resolved) {
	case 0:
		for _, d := range c.devices {
			for _, p := range d.Peripherals {
				names = append(names, p.Name)
			}
		}
	case 1:
		p := c.FindPeripheral(resolved[0])
		if p == nil {
			return nil
		}
		for _, r := range p.Registers {
			names = append(names, r.Label())
		}
	default:
		return nil
	}

	return FilterPrefix(names, prefix)
}

// FilterPrefix keeps the names starting with prefix, preserving order.
func FilterPrefix(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
