package service

// Sink receives human-readable diagnostics from the validator and resolver
// driver. It never causes an abort: every call a Sink method makes is a
// side effect only, matching the original engine's stance that domain-level
// inconsistencies are reported, not fatal.
//
// The concrete implementations (a slog-backed sink for production, an
// in-memory recorder for tests) live in package diagnostics; this package
// only depends on the interface, so the core resolution engine carries no
// logging-library dependency of its own.
type Sink interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// NopSink discards every message. Useful for callers (and tests) that only
// care about the resolved graph, not the diagnostic trail.
type NopSink struct{}

func (NopSink) Warnf(string, ...any)  {}
func (NopSink) Debugf(string, ...any) {}
