package validator

import (
	"context"
	"log/slog"
)

// Level is the severity of a diagnostic event
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event kinds used in Event.Kind
const (
	KindConversion = "conversion_failure"
	KindOverride   = "cnpj_override"
	KindPanic      = "phase_panic"
	KindSummary    = "summary"
)

// Event is a diagnostic emitted while validating a document
type Event struct {
	Level   Level
	Kind    string
	Phase   string
	Field   string
	Value   string
	Message string
}

// Sink observes diagnostic events. Implementations must be safe for
// concurrent use when a validator is shared across goroutines.
type Sink interface {
	Event(Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event)

// Event implements Sink
func (f SinkFunc) Event(e Event) { f(e) }

// NopSink discards every event
type NopSink struct{}

// Event implements Sink
func (NopSink) Event(Event) {}

// MultiSink fans events out to several sinks
type MultiSink []Sink

// Event implements Sink
func (m MultiSink) Event(e Event) {
	for _, s := range m {
		if s != nil {
			s.Event(e)
		}
	}
}

// SlogSink writes events to a structured logger
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink over logger; nil uses slog.Default()
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Event implements Sink
func (s *SlogSink) Event(e Event) {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind),
		slog.String("phase", e.Phase),
	}
	if e.Field != "" {
		attrs = append(attrs, slog.String("field", e.Field))
	}
	if e.Value != "" {
		attrs = append(attrs, slog.String("value", e.Value))
	}
	s.logger.LogAttrs(context.Background(), slogLevel(e.Level), e.Message, attrs...)
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}
