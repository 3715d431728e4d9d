// Package obs defines the ambient observability seams — Clock, Logger, and
// Metrics — shared by the Organizer and its collaborators, plus the
// zerolog- and OpenTelemetry-backed implementations used outside tests.
package obs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Clock abstracts time so ingest timing recorded in metrics is
// deterministic in tests. Document and version timestamps do not come from
// a Clock; they are taken from docstore.NewTime.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Logger is a minimal structured-logging interface satisfied by the
// zerolog-backed ZerologLogger and the in-memory MockLogger used in tests.
type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Debug(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
}

// Metrics is the counters/histograms seam. A concrete implementation can
// adapt to OpenTelemetry, Prometheus, or any other backend.
type Metrics interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// NoopLogger discards everything. Useful as a default when a caller does not
// care about logging.
type NoopLogger struct{}

func (NoopLogger) Info(string, map[string]any)  {}
func (NoopLogger) Error(string, map[string]any) {}
func (NoopLogger) Debug(string, map[string]any) {}
func (NoopLogger) Warn(string, map[string]any)  {}

// NoopMetrics implements Metrics without side effects.
type NoopMetrics struct{}

func (NoopMetrics) IncCounter(string, map[string]string)                {}
func (NoopMetrics) ObserveHistogram(string, float64, map[string]string) {}

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps log to satisfy Logger.
func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (l *ZerologLogger) event(e *zerolog.Event, msg string, fields map[string]any) {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

func (l *ZerologLogger) Info(msg string, fields map[string]any)  { l.event(l.log.Info(), msg, fields) }
func (l *ZerologLogger) Error(msg string, fields map[string]any) { l.event(l.log.Error(), msg, fields) }
func (l *ZerologLogger) Debug(msg string, fields map[string]any) { l.event(l.log.Debug(), msg, fields) }
func (l *ZerologLogger) Warn(msg string, fields map[string]any)  { l.event(l.log.Warn(), msg, fields) }

// InitZerolog configures the global zerolog logger with an RFC3339Nano
// timestamp and the requested level, defaulting to info on an unparseable
// level string.
func InitZerolog(levelName string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := zerolog.InfoLevel
	if levelName != "" {
		if l, err := zerolog.ParseLevel(levelName); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
}

// OtelMetrics is a thin adapter over OpenTelemetry metrics that lazily
// creates and caches instruments by name on first use.
type OtelMetrics struct {
	meter      metric.Meter
	mu         sync.RWMutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

// NewOtelMetrics constructs an OtelMetrics using the global meter provider
// under the instrumentation name "corpusd".
func NewOtelMetrics() *OtelMetrics {
	return &OtelMetrics{
		meter:      otel.Meter("corpusd"),
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

func (o *OtelMetrics) IncCounter(name string, labels map[string]string) {
	if o == nil {
		return
	}
	c, ok := o.getCounter(name)
	if !ok {
		return
	}
	c.Add(context.Background(), 1, metric.WithAttributes(toAttrs(labels)...))
}

func (o *OtelMetrics) ObserveHistogram(name string, value float64, labels map[string]string) {
	if o == nil {
		return
	}
	h, ok := o.getHistogram(name)
	if !ok {
		return
	}
	h.Record(context.Background(), value, metric.WithAttributes(toAttrs(labels)...))
}

func (o *OtelMetrics) getCounter(name string) (metric.Int64Counter, bool) {
	o.mu.RLock()
	c, ok := o.counters[name]
	o.mu.RUnlock()
	if ok {
		return c, true
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok = o.counters[name]; ok {
		return c, true
	}
	ctr, err := o.meter.Int64Counter(name)
	if err != nil {
		return ctr, false
	}
	o.counters[name] = ctr
	return ctr, true
}

func (o *OtelMetrics) getHistogram(name string) (metric.Float64Histogram, bool) {
	o.mu.RLock()
	h, ok := o.histograms[name]
	o.mu.RUnlock()
	if ok {
		return h, true
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if h, ok = o.histograms[name]; ok {
		return h, true
	}
	hist, err := o.meter.Float64Histogram(name)
	if err != nil {
		return hist, false
	}
	o.histograms[name] = hist
	return hist, true
}

func toAttrs(labels map[string]string) []attribute.KeyValue {
	if len(labels) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		out = append(out, attribute.String(k, v))
	}
	return out
}

// MockLogger records every call in memory for test assertions.
type MockLogger struct {
	mu      sync.Mutex
	Entries []MockLogEntry
}

// MockLogEntry is one recorded log call.
type MockLogEntry struct {
	Level  string
	Msg    string
	Fields map[string]any
}

func (m *MockLogger) record(level, msg string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, MockLogEntry{Level: level, Msg: msg, Fields: fields})
}

func (m *MockLogger) Info(msg string, fields map[string]any)  { m.record("info", msg, fields) }
func (m *MockLogger) Error(msg string, fields map[string]any) { m.record("error", msg, fields) }
func (m *MockLogger) Debug(msg string, fields map[string]any) { m.record("debug", msg, fields) }
func (m *MockLogger) Warn(msg string, fields map[string]any)  { m.record("warn", msg, fields) }

// MockMetrics is an in-memory metrics sink for tests.
type MockMetrics struct {
	mu       sync.Mutex
	Counters map[string]int
	Hists    map[string][]float64
}

// NewMockMetrics returns an empty MockMetrics.
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Counters: map[string]int{}, Hists: map[string][]float64{}}
}

func (m *MockMetrics) IncCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[name]++
}

func (m *MockMetrics) ObserveHistogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hists[name] = append(m.Hists[name], value)
}
