package probe

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exposition = `# HELP omega_http_requests_total HTTP requests served.
# TYPE omega_http_requests_total counter
omega_http_requests_total{code="200",route="/telemetry"} 7
omega_http_requests_total{code="500",route="/telemetry"} 2
# HELP omega_integrity Last reported integrity.
# TYPE omega_integrity gauge
omega_integrity 97.5
# HELP go_goroutines Number of goroutines.
# TYPE go_goroutines gauge
go_goroutines 12
`

func newServer(t *testing.T, telemetryStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/telemetry", func(w http.ResponseWriter, r *http.Request) {
		if telemetryStatus != http.StatusOK {
			http.Error(w, `{"error":"Failed to fetch telemetry"}`, telemetryStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"integrity":97.5,"resonance":1.67,"leakage":0.05,"status":"PROTECTED","cpuLoad":0.25,"memoryUsage":0.5,"errorRate":0.02,"latency":125,"timestamp":"2026-01-01T00:00:00Z"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(exposition)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProbe_OK(t *testing.T) {
	srv := newServer(t, http.StatusOK)
	res, err := New(srv.URL+"/", nil).Probe(context.Background())
	require.NoError(t, err)

	require.NotNil(t, res.Telemetry)
	assert.NoError(t, res.TelemetryErr)
	assert.Equal(t, "PROTECTED", res.Telemetry.Status)
	assert.Equal(t, 125, res.Telemetry.Latency)
	assert.InDelta(t, 0.25, res.Telemetry.CPULoad, 1e-12)

	assert.Equal(t, map[string]float64{
		"omega_http_requests_total": 9,
		"omega_integrity":           97.5,
	}, res.Metrics)
	assert.Equal(t, srv.URL, res.Server)
}

func TestProbe_TelemetryFailureKeepsMetrics(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError)
	res, err := New(srv.URL, nil).Probe(context.Background())
	require.NoError(t, err)

	assert.Nil(t, res.Telemetry)
	assert.ErrorContains(t, res.TelemetryErr, "unexpected status 500")
	assert.Contains(t, res.Metrics, "omega_integrity")
}

func TestProbe_Unreachable(t *testing.T) {
	srv := newServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Probe(context.Background())
	assert.Error(t, err)
}

func TestParseMetrics_Garbage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"leading metric-like token", "this is { not prometheus"},
		{"empty body", ""},
		{"help only", "# HELP omega_integrity Last reported integrity.\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseMetrics(strings.NewReader(tc.body))
			assert.Error(t, err)
		})
	}
}

func TestParseMetrics_PartialKeepsPopulatedFamilies(t *testing.T) {
	mfs, err := parseMetrics(strings.NewReader("omega_integrity 97.5\nbroken line here\n"))
	require.NoError(t, err)
	assert.Len(t, mfs, 1)
	assert.InDelta(t, 97.5, sumFamily(mfs["omega_integrity"]), 1e-12)
}

func TestProbe_MalformedMetricsBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/telemetry", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"PROTECTED"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is { not prometheus")) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(srv.URL, nil).Probe(context.Background())
	assert.ErrorContains(t, err, "parse prometheus text")
}

func TestSumFamily_Nil(t *testing.T) {
	assert.Zero(t, sumFamily(nil))
}

func TestRender(t *testing.T) {
	srv := newServer(t, http.StatusOK)
	res, err := New(srv.URL, nil).Probe(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	Render(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "status:    PROTECTED")
	assert.Contains(t, out, "latency:   125ms")
	assert.Contains(t, out, "omega_http_requests_total")
	assert.Less(t, strings.Index(out, "omega_http_requests_total"), strings.Index(out, "omega_integrity"))

	buf.Reset()
	Render(&buf, &Result{Server: "x", TelemetryErr: assert.AnError})
	assert.Contains(t, buf.String(), "telemetry: unavailable")
}
