package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/omegasovereign/omega/server/internal/telemetry"
)

// Sampler produces one telemetry sample per call.
type Sampler interface {
	Sample(ctx context.Context) (telemetry.Sample, error)
}

// Recorder receives request and sample observations. *metrics.Metrics
// satisfies it.
type Recorder interface {
	ObserveRequest(route string, code int)
	ObserveSample(s telemetry.Sample)
	ObserveFailure()
}

// Handler is the HTTP handler for the telemetry bridge routes.
type Handler struct {
	sampler Sampler
	rec     Recorder
	mux     *http.ServeMux
}

// New creates a Handler wired to the given sampler and registers all routes.
// rec may be nil.
func New(s Sampler, rec Recorder) http.Handler {
	if rec == nil {
		rec = nopRecorder{}
	}
	h := &Handler{sampler: s, rec: rec, mux: http.NewServeMux()}

	h.mux.HandleFunc("/telemetry", h.telemetry)
	h.mux.HandleFunc("/telemetry/health", h.health)
	h.mux.HandleFunc("/warfare/status", h.warfareStatus)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// telemetry returns GET /telemetry: a freshly derived host sample.
func (h *Handler) telemetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, err := h.sampler.Sample(r.Context())
	if err != nil {
		// The cause stays in the log; callers get a generic payload.
		slog.Error("api: telemetry sample failed", "err", err)
		h.rec.ObserveFailure()
		h.jsonErr(w, r, http.StatusInternalServerError, "Failed to fetch telemetry")
		return
	}

	h.rec.ObserveSample(s)
	h.jsonResp(w, r, http.StatusOK, s)
}

// health returns GET /telemetry/health: the fixed bridge status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.jsonResp(w, r, http.StatusOK, telemetry.Health())
}

// warfareStatus returns GET /warfare/status: placeholder, no logic.
func (h *Handler) warfareStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonErr(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.jsonResp(w, r, http.StatusOK, telemetry.Warfare())
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) jsonResp(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	h.rec.ObserveRequest(r.URL.Path, code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (h *Handler) jsonErr(w http.ResponseWriter, r *http.Request, code int, msg string) {
	h.jsonResp(w, r, code, errorResponse{Error: msg})
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, int)      {}
func (nopRecorder) ObserveSample(telemetry.Sample) {}
func (nopRecorder) ObserveFailure()                {}
