// Package log provides testing utilities for structured logging.
//
// This file contains helpers for capturing and verifying log output during
// tests without interfering with the normal execution flow.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// TestLogger is a logger implementation designed for testing.
// It captures all log messages in memory for later inspection and verification.
type TestLogger struct {
	// mu is shared with loggers derived via With, since they all write
	// to the same buffer.
	mu     *sync.Mutex
	buffer *bytes.Buffer
	level  Level
	fields map[string]interface{}
}

// NewTestLogger creates a new TestLogger with the specified minimum level.
// All log messages are captured in an internal buffer for later examination.
//
// Example:
//
//	logger, buffer := log.NewTestLogger(log.LevelDebug)
//	logger.Info("test message", "key", "value")
//	output := buffer.String()
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{
		mu:     &sync.Mutex{},
		buffer: buffer,
		level:  level,
		fields: make(map[string]interface{}),
	}, buffer
}

// Debug implements Logger.Debug.
func (t *TestLogger) Debug(msg string, fields ...any) {
	if t.level <= LevelDebug {
		t.writeLog("DEBUG", msg, fields...)
	}
}

// Info implements Logger.Info.
func (t *TestLogger) Info(msg string, fields ...any) {
	if t.level <= LevelInfo {
		t.writeLog("INFO", msg, fields...)
	}
}

// Warn implements Logger.Warn.
func (t *TestLogger) Warn(msg string, fields ...any) {
	if t.level <= LevelWarn {
		t.writeLog("WARN", msg, fields...)
	}
}

// Error implements Logger.Error.
func (t *TestLogger) Error(msg string, fields ...any) {
	if t.level <= LevelError {
		t.writeLog("ERROR", msg, fields...)
	}
}

// With implements Logger.With, returning a logger with pre-populated fields.
func (t *TestLogger) With(fields ...any) Logger {
	newFields := make(map[string]interface{}, len(t.fields)+len(fields)/2)
	for k, v := range t.fields {
		newFields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			newFields[key] = fields[i+1]
		}
	}
	return &TestLogger{
		mu:     t.mu,
		buffer: t.buffer,
		level:  t.level,
		fields: newFields,
	}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

// writeLog serializes one record as a JSON line into the shared buffer.
func (t *TestLogger) writeLog(level, msg string, fields ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record := map[string]interface{}{
		"level":   level,
		"message": msg,
	}
	for k, v := range t.fields {
		record[k] = v
	}
	for i := 0; i < len(fields); i++ {
		if err, ok := fields[i].(error); ok {
			record[ErrAttrKey] = err.Error()
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		if key, ok := fields[i].(string); ok {
			record[key] = fmt.Sprintf("%v", fields[i+1])
			i++
		}
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		fmt.Fprintf(t.buffer, `{"level":%q,"message":%q}`+"\n", level, msg)
		return
	}
	t.buffer.Write(encoded)
	t.buffer.WriteByte('\n')
}

// Contains reports whether any captured record contains the given substring.
func (t *TestLogger) Contains(substr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Contains(t.buffer.String(), substr)
}

// Lines returns all captured records as raw JSON lines.
func (t *TestLogger) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := strings.TrimSuffix(t.buffer.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
