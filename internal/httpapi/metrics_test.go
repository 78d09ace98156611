package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"imagebind/internal/fetcher"
	"imagebind/internal/observable"
	"imagebind/pkg/types"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	rr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", rr.Code)
	}
	return rr.Body.Bytes()
}

// TestMetricsMiddleware_UsesRoutePattern ensures request metrics are labeled
// by the chi route pattern instead of the raw URL path.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}
	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "418"))
	if got < 1 {
		t.Fatalf("expected route-pattern counter, got %v", got)
	}
	if !bytes.Contains(scrape(t), []byte("imagebind_http_requests_total")) {
		t.Fatalf("metric family missing from /metrics")
	}
}

func TestIncrementBackpressure_DefaultsReason(t *testing.T) {
	before := testutil.ToFloat64(backpressureTotal.WithLabelValues("unspecified"))
	IncrementBackpressure("")
	if after := testutil.ToFloat64(backpressureTotal.WithLabelValues("unspecified")); after != before+1 {
		t.Fatalf("counter = %v, want %v", after, before+1)
	}
}

func TestStateMetrics_MirrorsStore(t *testing.T) {
	s := observable.NewStore()
	if err := StateMetrics().Bind(s); err != nil {
		t.Fatalf("bind: %v", err)
	}
	_ = s.Set(observable.FieldBusy, true)
	if v := testutil.ToFloat64(stateBusy); v != 1 {
		t.Fatalf("busy gauge = %v", v)
	}
	_ = s.Set(observable.FieldArtifact, &types.Artifact{Size: 123})
	_ = s.Set(observable.FieldBusy, false)
	if v := testutil.ToFloat64(stateBusy); v != 0 {
		t.Fatalf("busy gauge = %v", v)
	}
	if v := testutil.ToFloat64(stateArtifactBytes); v != 123 {
		t.Fatalf("artifact gauge = %v", v)
	}
	before := testutil.ToFloat64(stateErrorsTotal.WithLabelValues("invalid_url"))
	_ = s.Set(observable.FieldArtifact, nil)
	_ = s.Set(observable.FieldError, &fetcher.Error{Kind: fetcher.KindInvalidURL})
	if v := testutil.ToFloat64(stateErrorsTotal.WithLabelValues("invalid_url")); v != before+1 {
		t.Fatalf("errors counter = %v, want %v", v, before+1)
	}
}
