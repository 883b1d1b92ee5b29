package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const defaultTimeout = 10 * time.Second

// Telemetry mirrors the JSON body of GET /telemetry.
type Telemetry struct {
	Integrity   float64 `json:"integrity"`
	Resonance   float64 `json:"resonance"`
	Leakage     float64 `json:"leakage"`
	Status      string  `json:"status"`
	CPULoad     float64 `json:"cpuLoad"`
	MemoryUsage float64 `json:"memoryUsage"`
	ErrorRate   float64 `json:"errorRate"`
	Latency     int     `json:"latency"`
	Timestamp   string  `json:"timestamp"`
}

// Result is the outcome of one probe against a running server.
type Result struct {
	Server    string
	ProbedAt  time.Time
	Telemetry *Telemetry
	// TelemetryErr is set when /telemetry failed; metrics may still be present.
	TelemetryErr error
	// Metrics holds each omega_* family summed across its label sets.
	Metrics map[string]float64
}

// Client probes an omega server over HTTP.
type Client struct {
	base   string
	client *http.Client
}

// New returns a Client for the server at base, e.g. http://localhost:10000.
// A nil hc gets a client with a ten second timeout.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: strings.TrimRight(base, "/"), client: hc}
}

// Probe fetches /telemetry and /metrics. It fails only when /metrics cannot
// be read, since that also proves the server is unreachable.
func (c *Client) Probe(ctx context.Context) (*Result, error) {
	res := &Result{Server: c.base, ProbedAt: time.Now().UTC()}

	tel, err := c.fetchTelemetry(ctx)
	if err != nil {
		res.TelemetryErr = err
	} else {
		res.Telemetry = tel
	}

	mfs, err := c.fetchMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe %s: metrics: %w", c.base, err)
	}
	res.Metrics = make(map[string]float64)
	for name, mf := range mfs {
		if strings.HasPrefix(name, "omega_") {
			res.Metrics[name] = sumFamily(mf)
		}
	}
	return res, nil
}

func (c *Client) fetchTelemetry(ctx context.Context) (*Telemetry, error) {
	resp, err := c.get(ctx, "/telemetry", "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var t Telemetry
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode telemetry: %w", err)
	}
	return &t, nil
}

func (c *Client) fetchMetrics(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	resp, err := c.get(ctx, "/metrics", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseMetrics(resp.Body)
}

func (c *Client) get(ctx context.Context, path, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("http get %s: unexpected status %d", path, resp.StatusCode)
	}
	return resp, nil
}

// parseMetrics decodes a Prometheus text exposition. On a bad line the parser
// has already attached a sample without a value to the failing family; such
// samples are dropped, then families left empty. A partial parse with at least
// one populated family is treated as success.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	for name, mf := range mfs {
		kept := mf.Metric[:0]
		for _, m := range mf.GetMetric() {
			if hasValue(m) {
				kept = append(kept, m)
			}
		}
		mf.Metric = kept
		if len(kept) == 0 {
			delete(mfs, name)
		}
	}
	if len(mfs) == 0 {
		if err == nil {
			err = errors.New("no samples")
		}
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

func hasValue(m *dto.Metric) bool {
	return m.Counter != nil || m.Gauge != nil || m.Untyped != nil ||
		m.Summary != nil || m.Histogram != nil
}

// sumFamily adds up every counter, gauge and untyped sample in mf.
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}

// Render writes a human-readable summary of r.
func Render(w io.Writer, r *Result) {
	fmt.Fprintf(w, "server:    %s\n", r.Server)
	fmt.Fprintf(w, "probed at: %s\n", r.ProbedAt.Format(time.RFC3339))
	if r.Telemetry != nil {
		t := r.Telemetry
		fmt.Fprintf(w, "status:    %s\n", t.Status)
		fmt.Fprintf(w, "integrity: %.2f\n", t.Integrity)
		fmt.Fprintf(w, "cpu load:  %.4f\n", t.CPULoad)
		fmt.Fprintf(w, "memory:    %.4f\n", t.MemoryUsage)
		fmt.Fprintf(w, "errors:    %.2f\n", t.ErrorRate)
		fmt.Fprintf(w, "leakage:   %.2f\n", t.Leakage)
		fmt.Fprintf(w, "latency:   %dms\n", t.Latency)
	} else {
		fmt.Fprintf(w, "telemetry: unavailable (%v)\n", r.TelemetryErr)
	}

	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "metrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-32s %g\n", name, r.Metrics[name])
	}
}
