package log

import (
	"fmt"
	"strings"
	"time"
)

// Event is one recorded occurrence during a watch session.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the dashboard session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Peripheral and Register name the watched register, if any.
	Peripheral string `cbor:"4,keyasint,omitempty"`
	Register   string `cbor:"5,keyasint,omitempty"`

	// Address is the register's absolute address.
	Address uint64 `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Value   *ValueEvent     `cbor:"7,keyasint,omitempty"` // Change
	Command *CommandEvent   `cbor:"8,keyasint,omitempty"` // Command
	Error   *ErrorEventData `cbor:"9,keyasint,omitempty"` // Unavailable
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryChange indicates a watched value that changed on refresh.
	CategoryChange Category = 0
	// CategoryUnavailable indicates a watched register that could not be read.
	CategoryUnavailable Category = 1
	// CategoryCommand indicates a command that altered the session.
	CategoryCommand Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryChange:
		return "CHANGE"
	case CategoryUnavailable:
		return "UNAVAILABLE"
	case CategoryCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(s) {
	case "CHANGE":
		return CategoryChange, nil
	case "UNAVAILABLE":
		return CategoryUnavailable, nil
	case "COMMAND":
		return CategoryCommand, nil
	default:
		return 0, fmt.Errorf("unknown category %q (valid: change, unavailable, command)", s)
	}
}

// ValueEvent captures a refreshed register value.
type ValueEvent struct {
	// Format is the display format, e.g. "hex/8".
	Format string `cbor:"1,keyasint"`

	// Previous is the value before the refresh, empty on the first one.
	Previous string `cbor:"2,keyasint,omitempty"`

	// Current is the value after the refresh.
	Current string `cbor:"3,keyasint"`
}

// CommandEvent captures a command issued to the dashboard.
type CommandEvent struct {
	// Name is the command, e.g. "add".
	Name string `cbor:"1,keyasint"`

	// Args is the raw argument text.
	Args string `cbor:"2,keyasint,omitempty"`

	// Error is the failure message if the command failed.
	Error string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a failed register read.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}

// Target returns "PERIPHERAL REGISTER", or "" for events without a register.
func (e Event) Target() string {
	if e.Peripheral == "" {
		return ""
	}
	return e.Peripheral + " " + e.Register
}
