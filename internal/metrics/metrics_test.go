package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestCollector_Expose はメトリクスの記録と/metricsでの公開を検証する。
func TestCollector_Expose(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)
	c.RecordRequestDuration(15 * time.Millisecond)
	c.RecordTransactionCreated("expense")
	c.RecordReportGenerated("weekly")
	c.RecordAuthFailure()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`kakeibo_http_status_total{status_code="200"} 2`,
		`kakeibo_http_status_total{status_code="404"} 1`,
		`kakeibo_transactions_created_total{kind="expense"} 1`,
		`kakeibo_reports_generated_total{report="weekly"} 1`,
		`kakeibo_auth_failures_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

// TestCollector_ImplementsInterface はCollectorがインターフェースを満たすことを確認する。
func TestCollector_ImplementsInterface(t *testing.T) {
	var _ MetricsCollector = NewCollector(prometheus.NewRegistry())
}
