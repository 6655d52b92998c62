package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
)

// RunExport exports the matching events of the trace to format, writing to
// output or stdout when output is empty.
func RunExport(path string, filter log.Filter, format, output string) error {
	var export func(*log.Reader, io.Writer) error
	switch format {
	case "jsonl":
		export = exportJSONL
	case "csv":
		export = exportCSV
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"timestamp", "session_id", "category", "peripheral", "register", "address", "format", "previous", "current", "command", "args", "error"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func csvRow(event log.Event) []string {
	row := make([]string, len(csvHeader))
	row[0] = event.Timestamp.UTC().Format(timeLayout)
	row[1] = event.SessionID
	row[2] = event.Category.String()
	row[3] = event.Peripheral
	row[4] = event.Register
	if event.Peripheral != "" {
		row[5] = "0x" + strconv.FormatUint(event.Address, 16)
	}
	if v := event.Value; v != nil {
		row[6], row[7], row[8] = v.Format, v.Previous, v.Current
	}
	if c := event.Command; c != nil {
		row[9], row[10], row[11] = c.Name, c.Args, c.Error
	}
	if e := event.Error; e != nil {
		row[11] = e.Message
	}
	return row
}
