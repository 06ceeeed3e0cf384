package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"clausewitz-hq/almanac/pkg/config"
	"clausewitz-hq/almanac/pkg/script/diag"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:              true,
		Namespace:            "test",
		ParseDurationBuckets: []float64{0.001, 0.01, 0.1},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_NilConfig(t *testing.T) {
	collector := NewCollector(nil, nil)
	if collector.config.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("namespace = %q, want %q", collector.config.Namespace, config.DefaultMetricsNamespace)
	}
	if !collector.config.Enabled {
		t.Error("default collector is disabled")
	}
}

func TestCollector_RecordFile(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordFile("ok", 2*time.Millisecond, 12)
	collector.RecordFile("ok", 3*time.Millisecond, 8)
	collector.RecordFile("syntax_error", time.Millisecond, 0)

	if got := testutil.ToFloat64(collector.parseMetrics.filesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("files{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.parseMetrics.filesTotal.WithLabelValues("syntax_error")); got != 1 {
		t.Errorf("files{syntax_error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.parseMetrics.pairsTotal); got != 20 {
		t.Errorf("pairs = %v, want 20", got)
	}
	if got := testutil.CollectAndCount(collector.parseMetrics.parseDuration); got != 1 {
		t.Errorf("parse duration series = %d, want 1", got)
	}
}

func TestCollector_Report(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	var sink diag.Sink = collector
	sink.Report(diag.Diagnostic{Code: diag.CodeUnknownIdentifier, Severity: diag.SeverityDebug})
	sink.Report(diag.Diagnostic{Code: diag.CodeUnknownIdentifier, Severity: diag.SeverityDebug})
	sink.Report(diag.Diagnostic{Code: diag.CodeSyntax, Severity: diag.SeverityError})

	if got := testutil.ToFloat64(collector.parseMetrics.diagnosticsTotal.WithLabelValues("unknown_identifier", "debug")); got != 2 {
		t.Errorf("diagnostics{unknown_identifier} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.parseMetrics.diagnosticsTotal.WithLabelValues("syntax_error", "error")); got != 1 {
		t.Errorf("diagnostics{syntax_error} = %v, want 1", got)
	}
}

func TestCollector_RecordAggregation(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordAggregation("history/countries", time.Second, 5, 1)
	collector.RecordAggregation("history/countries", time.Second, 4, 0)
	collector.RecordAggregation("", time.Second, 1, 0)

	if got := testutil.ToFloat64(collector.aggregateMetrics.entries.WithLabelValues("history/countries")); got != 4 {
		t.Errorf("entries = %v, want 4 (latest)", got)
	}
	if got := testutil.ToFloat64(collector.aggregateMetrics.collisions.WithLabelValues("history/countries")); got != 1 {
		t.Errorf("collisions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.aggregateMetrics.entries.WithLabelValues(".")); got != 1 {
		t.Errorf("entries{.} = %v, want 1", got)
	}
}

func TestCollector_Catalog(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordCatalogWrite("pairs", 120)
	collector.RecordCatalogWrite("pairs", 30)
	collector.RecordCatalogPrune(3)

	if got := testutil.ToFloat64(collector.catalogMetrics.writesTotal.WithLabelValues("pairs")); got != 150 {
		t.Errorf("writes{pairs} = %v, want 150", got)
	}
	if got := testutil.ToFloat64(collector.catalogMetrics.prunedTotal); got != 3 {
		t.Errorf("pruned = %v, want 3", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordFile("ok", time.Millisecond, 3)
	collector.Report(diag.Diagnostic{Code: diag.CodeIO, Severity: diag.SeverityError})
	collector.RecordCatalogWrite("runs", 1)

	if got := testutil.ToFloat64(collector.parseMetrics.pairsTotal); got != 0 {
		t.Errorf("pairs = %v, want 0 when disabled", got)
	}
	if got := testutil.ToFloat64(collector.catalogMetrics.writesTotal.WithLabelValues("runs")); got != 0 {
		t.Errorf("writes = %v, want 0 when disabled", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordFile("ok", time.Millisecond, 2)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `test_files_processed_total{status="ok"} 1`) {
		t.Errorf("metrics output missing files counter:\n%s", rec.Body.String())
	}
}
