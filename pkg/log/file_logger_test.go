package log

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("trace file was not created")
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp:  time.Now(),
		SessionID:  "session-123",
		Category:   CategoryChange,
		Peripheral: "UART0",
		Register:   "DR",
		Address:    0x40002000,
		Value:      &ValueEvent{Format: "hex/2", Current: "0x41"},
	}
	logger.Log(event)
	if logger.Written() != 1 {
		t.Errorf("Written = %d, want 1", logger.Written())
	}
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read trace file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("trace file is empty")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if decoded.SessionID != event.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, event.SessionID)
	}
	if decoded.Value == nil || decoded.Value.Current != "0x41" {
		t.Errorf("Value: got %+v", decoded.Value)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wlog")

	for _, id := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), SessionID: id})
		logger.Close()
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var ids []string
	for event, err := range reader.Events() {
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		ids = append(ids, event.SessionID)
	}
	if len(ids) != 2 || ids[0] != "first" || ids[1] != "second" {
		t.Errorf("got sessions %v, want [first second]", ids)
	}
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "test.wlog"))
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Ignored after close.
	logger.Log(Event{SessionID: "late"})
	if logger.Written() != 0 {
		t.Errorf("Written = %d after close, want 0", logger.Written())
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const goroutines, perGoroutine = 8, 25
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perGoroutine {
				logger.Log(Event{Timestamp: time.Now(), SessionID: "s", Address: uint64(g*1000 + i)})
			}
		}()
	}
	wg.Wait()
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for _, err := range reader.Events() {
		if err != nil {
			t.Fatalf("interleaved writes corrupted the trace: %v", err)
		}
		count++
	}
	if count != goroutines*perGoroutine {
		t.Errorf("got %d events, want %d", count, goroutines*perGoroutine)
	}
}

func TestCreateFileLoggerTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(Event{Timestamp: time.Now(), SessionID: "old"})
	logger.Close()

	logger, err = CreateFileLogger(path)
	if err != nil {
		t.Fatalf("CreateFileLogger failed: %v", err)
	}
	logger.Log(Event{Timestamp: time.Now(), SessionID: "new"})
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var ids []string
	for event, err := range reader.Events() {
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		ids = append(ids, event.SessionID)
	}
	if len(ids) != 1 || ids[0] != "new" {
		t.Errorf("got sessions %v, want [new]", ids)
	}
}

func TestNewFileLoggerBadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "test.wlog"))
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
