package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/omegasovereign/omega/pkg/types"
)

// ErrHostRead wraps every failure to read host statistics.
var ErrHostRead = errors.New("telemetry: host read failed")

// HostSource reads raw host statistics.
type HostSource interface {
	// LoadAverage returns the one-minute load average.
	LoadAverage(ctx context.Context) (float64, error)
	// CPUCount returns the number of logical CPUs.
	CPUCount(ctx context.Context) (int, error)
	// MemoryUsage returns used memory as a fraction of total (0–1).
	MemoryUsage(ctx context.Context) (float64, error)
}

// Reporter turns host statistics into telemetry Samples.
type Reporter struct {
	src     HostSource
	timeout time.Duration
	now     func() time.Time // injectable for deterministic tests
}

// NewReporter creates a Reporter reading from src. Each host read is bounded
// by timeout; a non-positive timeout disables the bound.
func NewReporter(src HostSource, timeout time.Duration) *Reporter {
	return &Reporter{src: src, timeout: timeout, now: time.Now}
}

// Sample reads the host once and derives a fresh Sample. Any read failure
// returns an error wrapping ErrHostRead and a zero Sample.
func (r *Reporter) Sample(ctx context.Context) (Sample, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	loadAvg, err := r.src.LoadAverage(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: load average: %v", ErrHostRead, err)
	}
	cpus, err := r.src.CPUCount(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: cpu count: %v", ErrHostRead, err)
	}
	mem, err := r.src.MemoryUsage(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: memory: %v", ErrHostRead, err)
	}

	s := Derive(CPULoad(loadAvg, cpus), mem, r.now())
	slog.Debug("telemetry: sampled host",
		"load_avg", loadAvg, "cpus", cpus, "cpu_load", s.CPULoad, "status", s.Status)
	return s, nil
}

// HealthStatus is the fixed payload of the bridge health check.
type HealthStatus struct {
	Status    string  `json:"status"`
	Resonance float64 `json:"resonance"`
}

// WarfareStatus is the fixed payload of the warfare module placeholder.
type WarfareStatus struct {
	Status             string  `json:"status"`
	Mode               string  `json:"mode"`
	CoherenceThreshold float64 `json:"coherence_threshold"`
}

// Health returns the static bridge health record.
func Health() HealthStatus {
	return HealthStatus{Status: "OPERATIONAL", Resonance: types.ResonanceLock}
}

// Warfare returns the static warfare module record. It carries no logic.
func Warfare() WarfareStatus {
	return WarfareStatus{Status: "ACTIVE", Mode: "SUPERVISOR", CoherenceThreshold: types.ResonanceLock}
}
