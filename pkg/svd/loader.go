package svd

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Loader turns a description source into a Device tree.
type Loader interface {
	Load(path string) (*Device, error)
}

// LoadError reports a description that could not be loaded.
type LoadError struct {
	// File is the path of the description that failed.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// FileLoader reads descriptions from disk, choosing the decoder from the
// file extension: .yaml/.yml are decoded as YAML, everything else as
// CMSIS-SVD XML.
type FileLoader struct{}

// Load implements Loader.
func (FileLoader) Load(path string) (*Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	var dev *Device
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dev, err = ParseYAML(data)
	default:
		dev, err = ParseXML(data)
	}
	if err != nil {
		return nil, withFile(path, err)
	}
	return dev, nil
}

// withFile attributes a decode error to path. A LoadError anywhere in the
// chain gets the path; anything else is wrapped in a new one.
func withFile(path string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		le.File = path
		return err
	}
	return &LoadError{File: path, Message: "failed to decode description", Cause: err}
}

// Compile-time interface satisfaction check.
var _ Loader = FileLoader{}

// parseNumber parses the scaledNonNegativeInteger forms found in
// descriptions: decimal, 0x/0X hex and #binary.
func parseNumber(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "#"):
		return strconv.ParseUint(s[1:], 2, 64)
	default:
		return strconv.ParseUint(s, 10, 64)
	}
}
