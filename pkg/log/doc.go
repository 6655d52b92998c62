// Package log records what the register watch saw during a session.
//
// Recording is separate from operational logging (slog): it produces a
// machine-readable trace of every value change, every register that could
// not be read and every command that changed the watch list, for later
// review with the svd-log tool.
//
// # Basic Usage
//
//	// Echo events to the console
//	opts.Recorder = log.NewSlogAdapter(slog.Default())
//
//	// Keep a trace file
//	opts.Recorder, _ = log.NewFileLogger("session.wlog")
//
//	// Both
//	opts.Recorder = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys,
// conventionally with the .wlog extension.
package log
