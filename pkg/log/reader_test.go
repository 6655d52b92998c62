package log

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTrace(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, SessionID: "s1", Category: CategoryCommand, Command: &CommandEvent{Name: "add", Args: "TIMER0 CTRL"}},
		{Timestamp: base.Add(time.Second), SessionID: "s1", Category: CategoryChange, Peripheral: "TIMER0", Register: "CTRL", Value: &ValueEvent{Format: "address", Current: "0x1"}},
		{Timestamp: base.Add(2 * time.Second), SessionID: "s1", Category: CategoryUnavailable, Peripheral: "UART0", Register: "DR", Error: &ErrorEventData{Message: "cannot access memory"}},
		{Timestamp: base.Add(3 * time.Second), SessionID: "s2", Category: CategoryChange, Peripheral: "TIMER0", Register: "CTRL", Value: &ValueEvent{Format: "address", Previous: "0x1", Current: "0x2"}},
	}
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, event)
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	events := readAll(t, reader)
	require.Len(t, events, 4)
	assert.Equal(t, CategoryCommand, events[0].Category)
	assert.Equal(t, "0x2", events[3].Value.Current)
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	path := createTestTrace(t, sampleEvents(base))

	change := CategoryChange
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"session", Filter{SessionID: "s2"}, 1},
		{"category", Filter{Category: &change}, 2},
		{"peripheral", Filter{Peripheral: "TIMER0"}, 2},
		{"register", Filter{Peripheral: "UART0", Register: "DR"}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"no match", Filter{SessionID: "s1", Peripheral: "GPIOA"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			require.NoError(t, err)
			defer reader.Close()

			assert.Len(t, readAll(t, reader), tt.want)
		})
	}
}

func TestReaderEventsStopsEarly(t *testing.T) {
	path := createTestTrace(t, sampleEvents(time.Now()))

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	seen := 0
	for range reader.Events() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)

	// The remaining events are still there.
	assert.Len(t, readAll(t, reader), 2)
}

func TestReaderCorruptTrace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(Event{SessionID: "ok"}))
	buf.Write([]byte{0xa1, 0x01})

	reader := NewStreamReader(&buf, Filter{})

	var errs []error
	count := 0
	for _, err := range reader.Events() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}
	assert.Equal(t, 1, count)
	assert.Len(t, errs, 1)
	assert.NoError(t, reader.Close())
}

func TestNewReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing.wlog"))
	assert.Error(t, err)
}
