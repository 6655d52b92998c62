package svd

import (
	"fmt"
	"strings"
)

// Access is the access kind declared for a register.
type Access uint8

const (
	// AccessUnspecified means the description did not declare an access kind.
	AccessUnspecified Access = iota
	AccessReadWrite
	AccessReadOnly
	AccessWriteOnly
	AccessWriteOnce
	AccessReadWriteOnce
)

// ParseAccess parses the CMSIS-SVD spelling of an access kind.
// An empty string yields AccessUnspecified.
func ParseAccess(s string) (Access, error) {
	switch strings.TrimSpace(s) {
	case "":
		return AccessUnspecified, nil
	case "read-write":
		return AccessReadWrite, nil
	case "read-only":
		return AccessReadOnly, nil
	case "write-only":
		return AccessWriteOnly, nil
	case "writeOnce":
		return AccessWriteOnce, nil
	case "read-writeOnce":
		return AccessReadWriteOnce, nil
	default:
		return AccessUnspecified, fmt.Errorf("unknown access kind %q", s)
	}
}

// String returns the CMSIS-SVD spelling.
func (a Access) String() string {
	switch a {
	case AccessReadWrite:
		return "read-write"
	case AccessReadOnly:
		return "read-only"
	case AccessWriteOnly:
		return "write-only"
	case AccessWriteOnce:
		return "writeOnce"
	case AccessReadWriteOnce:
		return "read-writeOnce"
	default:
		return "unspecified"
	}
}

// Readable reports whether reading the register returns its content.
func (a Access) Readable() bool {
	return a != AccessWriteOnly && a != AccessWriteOnce
}
