package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sakif/snippetbin/internal/telemetry"
)

func serveThrough(router http.Handler, method, path string) {
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics())
	router.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	templated := telemetry.HTTPRequestsTotal.WithLabelValues("GET", "/things/{id}", "200")
	raw := telemetry.HTTPRequestsTotal.WithLabelValues("GET", "/things/abc123", "200")
	templatedBefore := testutil.ToFloat64(templated)
	rawBefore := testutil.ToFloat64(raw)

	serveThrough(router, http.MethodGet, "/things/abc123")

	if delta := testutil.ToFloat64(templated) - templatedBefore; delta != 1 {
		t.Errorf("route-template counter delta = %.0f, want 1", delta)
	}
	// The raw URL must never become a label value.
	if delta := testutil.ToFloat64(raw) - rawBefore; delta != 0 {
		t.Errorf("raw-path counter delta = %.0f, want 0", delta)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics())
	router.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	counter := telemetry.HTTPRequestsTotal.WithLabelValues("GET", "<no-route>", "404")
	before := testutil.ToFloat64(counter)

	serveThrough(router, http.MethodGet, "/unknown/path/xyz")

	if delta := testutil.ToFloat64(counter) - before; delta != 1 {
		t.Errorf("<no-route> counter delta = %.0f, want 1", delta)
	}
}

func TestMetrics_RecordsStatusCode(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics())
	router.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := telemetry.HTTPRequestsTotal.WithLabelValues("GET", "/teapot", "418")
	before := testutil.ToFloat64(counter)

	serveThrough(router, http.MethodGet, "/teapot")

	if delta := testutil.ToFloat64(counter) - before; delta != 1 {
		t.Errorf("status-labelled counter delta = %.0f, want 1", delta)
	}
}
