package log

import (
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2)
	multi.Log(Event{Timestamp: time.Now(), SessionID: "s1", Category: CategoryChange})
	multi.Log(Event{Timestamp: time.Now(), SessionID: "s1", Category: CategoryCommand})

	for i, m := range []*mockLogger{mock1, mock2} {
		if len(m.events) != 2 {
			t.Errorf("logger %d: got %d events, want 2", i, len(m.events))
		}
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	mock1 := &mockLogger{}
	multi := NewMultiLogger(nil, mock1, nil)

	multi.Log(Event{SessionID: "s1"})

	if len(mock1.events) != 1 {
		t.Errorf("got %d events, want 1", len(mock1.events))
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{})
}
