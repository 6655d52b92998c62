package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the dashboard configuration.
type Config struct {
	ConfigFile string `yaml:"-"`

	// Descriptions are loaded at startup.
	Descriptions []string `yaml:"descriptions"`

	// Target selection: a simulated memory image or a GDB remote stub.
	// With neither, reads are unavailable.
	Image   string        `yaml:"image"`
	Remote  string        `yaml:"remote"`
	Timeout time.Duration `yaml:"timeout"`

	PointerBits uint   `yaml:"pointerBits"`
	ByteOrder   string `yaml:"byteOrder"`

	// Record is the path of the watch trace file.
	Record string `yaml:"record"`

	LogLevel string `yaml:"logLevel"`
	NoColor  bool   `yaml:"noColor"`

	// Watch lists registers to add at startup, "[/fmt] PERIPHERAL REGISTER".
	Watch []string `yaml:"watch"`
}

// loadConfigFile reads a YAML configuration file.
func loadConfigFile(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}

// merge fills c with the file values for every setting that was not given
// explicitly on the command line. set holds the names of explicit flags.
func (c *Config) merge(file Config, set map[string]bool) {
	if !set["svd"] && len(file.Descriptions) > 0 {
		c.Descriptions = file.Descriptions
	}
	if !set["image"] && file.Image != "" {
		c.Image = file.Image
	}
	if !set["remote"] && file.Remote != "" {
		c.Remote = file.Remote
	}
	if !set["timeout"] && file.Timeout > 0 {
		c.Timeout = file.Timeout
	}
	if !set["pointer-bits"] && file.PointerBits != 0 {
		c.PointerBits = file.PointerBits
	}
	if !set["byte-order"] && file.ByteOrder != "" {
		c.ByteOrder = file.ByteOrder
	}
	if !set["record"] && file.Record != "" {
		c.Record = file.Record
	}
	if !set["log-level"] && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if !set["no-color"] && file.NoColor {
		c.NoColor = true
	}
	c.Watch = append(file.Watch, c.Watch...)
}

// explicitFlags returns the names of the flags set on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func validateConfig(c Config) error {
	if c.Image != "" && c.Remote != "" {
		return fmt.Errorf("-image and -remote are mutually exclusive")
	}
	switch c.PointerBits {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("pointer width must be 8, 16, 32 or 64 bits, got %d", c.PointerBits)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	return nil
}
