// Package commands implements the svd-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
)

// timeLayout is used for every timestamp printed or exported.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// FilterFlags holds the filter flags shared by view, export and filter.
// Empty fields match every event.
type FilterFlags struct {
	Session    string
	Category   string
	Peripheral string
	Register   string
	TimeStart  string
	TimeEnd    string
}

// Build converts the flags to a log.Filter.
func (f FilterFlags) Build() (log.Filter, error) {
	filter := log.Filter{
		SessionID:  f.Session,
		Peripheral: f.Peripheral,
		Register:   f.Register,
	}

	if f.Category != "" {
		c, err := log.ParseCategory(f.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	if f.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, f.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if f.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, f.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatEvent writes a one-line representation of the event to w.
//
//	2026-01-28T10:15:32.123456Z [sess:1a2b3c4d] CHANGE TIMER0 CTRL @ 0x40008000: 0x1 -> 0x2
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeLayout)
	fmt.Fprintf(w, "%s [sess:%s] %-11s", ts, shortenSessionID(event.SessionID), event.Category)

	if target := event.Target(); target != "" {
		fmt.Fprintf(w, " %s @ %#x", target, event.Address)
	}

	switch {
	case event.Value != nil:
		if event.Value.Previous == "" {
			fmt.Fprintf(w, ": %s", event.Value.Current)
		} else {
			fmt.Fprintf(w, ": %s -> %s", event.Value.Previous, event.Value.Current)
		}
		fmt.Fprintf(w, " (%s)", event.Value.Format)

	case event.Command != nil:
		fmt.Fprintf(w, " %s", event.Command.Name)
		if event.Command.Args != "" {
			fmt.Fprintf(w, " %s", event.Command.Args)
		}
		if event.Command.Error != "" {
			fmt.Fprintf(w, " failed: %s", event.Command.Error)
		}

	case event.Error != nil:
		fmt.Fprintf(w, ": %s", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, " (%s)", event.Error.Context)
		}
	}

	fmt.Fprintln(w)
}

// RunView prints the events of the trace matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
