package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "test-session",
		Category:  CategoryChange,
	}
	logger.Log(event)

	event.Value = &ValueEvent{Format: "hex/8", Current: "0x00000001"}
	logger.Log(event)

	event.Value = nil
	event.Command = &CommandEvent{Name: "clear"}
	logger.Log(event)

	event.Command = nil
	event.Error = &ErrorEventData{Message: "cannot access memory"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
