package obs

import "testing"

func TestMockLoggerRecordsEntries(t *testing.T) {
	logger := &MockLogger{}
	logger.Info("ingested", map[string]any{"url": "https://example.com"})
	logger.Warn("external unavailable", nil)

	if len(logger.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logger.Entries))
	}
	if logger.Entries[0].Level != "info" || logger.Entries[0].Msg != "ingested" {
		t.Fatalf("unexpected first entry: %+v", logger.Entries[0])
	}
	if logger.Entries[1].Level != "warn" {
		t.Fatalf("expected warn level, got %q", logger.Entries[1].Level)
	}
}

func TestMockMetricsTracksCountersAndHistograms(t *testing.T) {
	m := NewMockMetrics()
	m.IncCounter("ingest_total", map[string]string{"source": "kafka"})
	m.IncCounter("ingest_total", nil)
	m.ObserveHistogram("search_score", 3.0, nil)

	if m.Counters["ingest_total"] != 2 {
		t.Fatalf("expected counter at 2, got %d", m.Counters["ingest_total"])
	}
	if len(m.Hists["search_score"]) != 1 || m.Hists["search_score"][0] != 3.0 {
		t.Fatalf("unexpected histogram values: %v", m.Hists["search_score"])
	}
}

func TestNoopImplementationsDoNotPanic(t *testing.T) {
	var l Logger = NoopLogger{}
	var m Metrics = NoopMetrics{}
	l.Info("msg", nil)
	l.Error("msg", nil)
	l.Debug("msg", nil)
	l.Warn("msg", nil)
	m.IncCounter("x", nil)
	m.ObserveHistogram("x", 1, nil)
}

func TestSystemClockReturnsNonZeroTime(t *testing.T) {
	var c Clock = SystemClock{}
	if c.Now().IsZero() {
		t.Fatalf("expected non-zero time from SystemClock")
	}
}
