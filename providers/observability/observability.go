// Package observability defines vendor-neutral tracing, metrics, and logging
// interfaces used across the module. Components hold an optional Provider;
// a nil provider disables observability with zero overhead.
package observability

import (
	"context"
	"fmt"
	"time"
)

// Provider is the main interface for observability (tracing, metrics, logging).
type Provider interface {
	Tracer
	Metrics
	Logger
}

// Tracer provides distributed tracing capabilities.
type Tracer interface {
	// StartSpan starts a new span.
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span represents a single unit of work.
type Span interface {
	// End completes the span.
	End()
	// SetAttributes adds attributes to the span.
	SetAttributes(attrs ...Attribute)
	// SetStatus sets the span status.
	SetStatus(code StatusCode, description string)
	// RecordError records an error.
	RecordError(err error)
	// AddEvent adds an event to the span.
	AddEvent(name string, attrs ...Attribute)
}

// StatusCode represents the status of a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// Metrics provides metrics collection capabilities.
type Metrics interface {
	// Counter creates or retrieves a counter metric.
	Counter(name string) Counter
	// Histogram creates or retrieves a histogram metric.
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution of values.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// Logger provides leveled, structured logging.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// Attribute is a key-value pair attached to spans, metrics, and log records.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute rendered as a string.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.String()}
}

// Error creates an error attribute. A nil error produces an empty value.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: AttrError, Value: ""}
	}
	return Attribute{Key: AttrError, Value: err.Error()}
}

// Any creates an attribute from an arbitrary value, stringified lazily by the
// backing implementation or eagerly here when it has no native representation.
func Any(key string, value any) Attribute {
	switch value.(type) {
	case string, int, int64, float64, bool:
		return Attribute{Key: key, Value: value}
	default:
		return Attribute{Key: key, Value: fmt.Sprintf("%v", value)}
	}
}
