// Package diagnostics provides the concrete service.Sink implementations:
// a log/slog-backed sink for production use, and an in-memory Recorder for
// tests that need to assert on exactly which warnings fired.
package diagnostics

import (
	"fmt"
	"log/slog"
	"sync"
)

// SlogSink wraps a *slog.Logger, tagging every message with
// component=resolver so resolver output is easy to filter out of a larger
// process's logs.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink builds a SlogSink over logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger.With("component", "resolver")}
}

func (s *SlogSink) Warnf(format string, args ...any) {
	s.logger.Warn(fmt.Sprintf(format, args...))
}

func (s *SlogSink) Debugf(format string, args ...any) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

// Recorder buffers every message by level instead of writing it anywhere:
// append now, let the caller filter and format later. Safe for concurrent
// use so a single Recorder can be shared by a watch-mode daemon's repeated
// ResolveAll calls.
type Recorder struct {
	mu     sync.Mutex
	Warns  []string
	Debugs []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warns = append(r.Warns, fmt.Sprintf(format, args...))
}

func (r *Recorder) Debugf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Debugs = append(r.Debugs, fmt.Sprintf(format, args...))
}

// Reset clears all recorded messages, so a single Recorder can be reused
// across an idempotence check (law L1: resolving twice should produce no
// new warnings).
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warns = nil
	r.Debugs = nil
}
