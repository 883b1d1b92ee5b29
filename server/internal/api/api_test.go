package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/omegasovereign/omega/server/internal/api"
	"github.com/omegasovereign/omega/server/internal/telemetry"
)

// --- test helpers -----------------------------------------------------------

type stubSampler struct {
	sample telemetry.Sample
	err    error
}

func (s stubSampler) Sample(context.Context) (telemetry.Sample, error) { return s.sample, s.err }

type countingRecorder struct {
	requests map[string]int
	samples  int
	failures int
}

func newRecorder() *countingRecorder { return &countingRecorder{requests: map[string]int{}} }

func (c *countingRecorder) ObserveRequest(route string, code int) {
	c.requests[route+" "+http.StatusText(code)]++
}
func (c *countingRecorder) ObserveSample(telemetry.Sample) { c.samples++ }
func (c *countingRecorder) ObserveFailure()                { c.failures++ }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

var sampleAt = time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)

// --- /telemetry -------------------------------------------------------------

func TestTelemetry_OK(t *testing.T) {
	rec := newRecorder()
	h := api.New(stubSampler{sample: telemetry.Derive(0.75, 0.25, sampleAt)}, rec)
	rr := get(t, h, "/telemetry")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var resp map[string]interface{}
	decode(t, rr, &resp)

	for _, key := range []string{"integrity", "resonance", "leakage", "status", "cpuLoad",
		"memoryUsage", "errorRate", "latency", "timestamp"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("missing key %q in %v", key, resp)
		}
	}
	if resp["errorRate"].(float64) != 0.08 {
		t.Errorf("errorRate: got %v, want 0.08", resp["errorRate"])
	}
	if resp["latency"].(float64) != 375 {
		t.Errorf("latency: got %v, want 375", resp["latency"])
	}
	if resp["status"] != "PROTECTED" {
		t.Errorf("status: got %v, want PROTECTED", resp["status"])
	}
	if resp["resonance"].(float64) != 1.67 {
		t.Errorf("resonance: got %v, want 1.67", resp["resonance"])
	}
	if rec.samples != 1 || rec.requests["/telemetry OK"] != 1 {
		t.Errorf("recorder: samples=%d requests=%v", rec.samples, rec.requests)
	}
}

func TestTelemetry_HostFailure(t *testing.T) {
	rec := newRecorder()
	h := api.New(stubSampler{err: errors.New("secret /proc detail")}, rec)
	rr := get(t, h, "/telemetry")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "secret") {
		t.Errorf("error detail leaked: %s", rr.Body.String())
	}

	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] != "Failed to fetch telemetry" {
		t.Errorf("error: got %q", resp["error"])
	}
	if len(resp) != 1 {
		t.Errorf("expected only the error key, got %v", resp)
	}
	if rec.failures != 1 || rec.samples != 0 {
		t.Errorf("recorder: failures=%d samples=%d", rec.failures, rec.samples)
	}
}

// --- static routes ----------------------------------------------------------

func TestHealth(t *testing.T) {
	h := api.New(stubSampler{}, nil)
	rr := get(t, h, "/telemetry/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["status"] != "OPERATIONAL" {
		t.Errorf("status: got %v, want OPERATIONAL", resp["status"])
	}
	if resp["resonance"].(float64) != 1.67 {
		t.Errorf("resonance: got %v, want 1.67", resp["resonance"])
	}
}

func TestWarfareStatus(t *testing.T) {
	h := api.New(stubSampler{}, nil)
	rr := get(t, h, "/warfare/status")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["status"] != "ACTIVE" || resp["mode"] != "SUPERVISOR" {
		t.Errorf("got %v", resp)
	}
	if resp["coherence_threshold"].(float64) != 1.67 {
		t.Errorf("coherence_threshold: got %v, want 1.67", resp["coherence_threshold"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := api.New(stubSampler{}, nil)
	for _, path := range []string{"/telemetry", "/telemetry/health", "/warfare/status"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
			if rr.Code != http.StatusMethodNotAllowed {
				t.Errorf("status: got %d, want 405", rr.Code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	h := api.New(stubSampler{}, nil)
	if rr := get(t, h, "/telemetry/unknown"); rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

// --- CORS -------------------------------------------------------------------

func TestCORS_Wildcard(t *testing.T) {
	h := api.NewCORS([]string{"*"}).Wrap(api.New(stubSampler{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/telemetry/health", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.com" {
		t.Errorf("Allow-Origin: got %q", got)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := api.NewCORS([]string{"*"}).Wrap(api.New(stubSampler{}, nil))

	req := httptest.NewRequest(http.MethodOptions, "/telemetry", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("missing Allow-Methods on preflight")
	}
}

func TestCORS_PreflightEchoesRequestHeaders(t *testing.T) {
	h := api.NewCORS([]string{"*"}).Wrap(api.New(stubSampler{}, nil))

	req := httptest.NewRequest(http.MethodOptions, "/telemetry", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "authorization, x-trace")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials: got %q, want true", got)
	}
	allow := strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers"))
	if allow == "*" {
		t.Fatal("Allow-Headers is a literal * alongside credentials")
	}
	for _, want := range []string{"authorization", "x-trace"} {
		if !strings.Contains(allow, want) {
			t.Errorf("Allow-Headers %q missing %q", allow, want)
		}
	}
}

func TestCORS_SetOrigins(t *testing.T) {
	c := api.NewCORS([]string{"https://a.example.com"})
	h := c.Wrap(api.New(stubSampler{}, nil))

	call := func(origin string) string {
		req := httptest.NewRequest(http.MethodGet, "/telemetry/health", nil)
		req.Header.Set("Origin", origin)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Header().Get("Access-Control-Allow-Origin")
	}

	if got := call("https://b.example.com"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
	c.SetOrigins([]string{"https://b.example.com"})
	if got := call("https://b.example.com"); got != "https://b.example.com" {
		t.Errorf("after SetOrigins: got %q", got)
	}
	if got := call("https://a.example.com"); got != "" {
		t.Errorf("removed origin still allowed: %q", got)
	}
}
