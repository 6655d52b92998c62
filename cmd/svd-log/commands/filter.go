package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
)

// RunFilter copies the events of the trace matching filter to a new trace
// file at output, replacing any file already there. Output must not be the
// input trace. It reports the number of events copied to w.
func RunFilter(path string, filter log.Filter, output string, w io.Writer) error {
	if sameFile(path, output) {
		return fmt.Errorf("output %s is the input trace", output)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := log.CreateFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output trace: %w", err)
	}
	defer logger.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}
	if err := logger.Close(); err != nil {
		return fmt.Errorf("failed to write output trace: %w", err)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", logger.Written(), output)
	return nil
}

// sameFile reports whether a and b name the same existing file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
