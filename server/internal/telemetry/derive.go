package telemetry

import (
	"math"
	"time"

	"github.com/omegasovereign/omega/pkg/types"
)

// Error-rate levels. The rate is a step function of cpu load, never continuous.
const (
	ErrorRateLow    = 0.02
	ErrorRateMedium = 0.08
	ErrorRateHigh   = 0.16
)

// Load thresholds that move the error rate to the next level.
const (
	ThresholdMedium = 0.5
	ThresholdHigh   = 0.8
)

// Status values reported in Sample.Status.
const (
	StatusGhostMode = "GHOST_MODE"
	StatusProtected = "PROTECTED"
)

const (
	// leakageFloor is the minimum leakage ever reported.
	leakageFloor = 0.05

	// ghostLeakage is the leakage above which the wire is in ghost mode.
	ghostLeakage = 0.15

	// maxLatencyMs is the latency reported at full load.
	maxLatencyMs = 500
)

// Sample is one telemetry reading. It has no identity and is never stored.
type Sample struct {
	Integrity   float64 `json:"integrity"`
	Resonance   float64 `json:"resonance"`
	Leakage     float64 `json:"leakage"`
	Status      string  `json:"status"`
	CPULoad     float64 `json:"cpuLoad"`
	MemoryUsage float64 `json:"memoryUsage"`
	ErrorRate   float64 `json:"errorRate"`
	Latency     int     `json:"latency"` // milliseconds
	Timestamp   string  `json:"timestamp"`
}

// Derive computes a Sample from a normalised cpu load (0–1) and memory usage
// (0–1). cpuLoad is clamped to [0, 1] first.
//
//	errorRate = 0.16 if load > 0.8, 0.08 if load > 0.5, else 0.02
//	latency   = floor(load * 500)
//	leakage   = max(errorRate, 0.05)
//	integrity = max(0, 100 - load*10)
//	status    = GHOST_MODE if leakage > 0.15
func Derive(cpuLoad, memoryUsage float64, now time.Time) Sample {
	load := clamp01(cpuLoad)
	rate := ErrorRate(load)
	leak := Leakage(rate)

	return Sample{
		Integrity:   math.Max(0, 100-load*10),
		Resonance:   types.ResonanceLock,
		Leakage:     leak,
		Status:      statusFromLeakage(leak),
		CPULoad:     load,
		MemoryUsage: clamp01(memoryUsage),
		ErrorRate:   rate,
		Latency:     Latency(load),
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
	}
}

// CPULoad normalises a load average by the logical CPU count, capped at 1.
// A non-positive cpu count is treated as 1.
func CPULoad(loadAvg float64, cpuCount int) float64 {
	if cpuCount < 1 {
		cpuCount = 1
	}
	return clamp01(loadAvg / float64(cpuCount))
}

// ErrorRate maps cpu load to one of the three fixed error-rate levels.
func ErrorRate(cpuLoad float64) float64 {
	switch {
	case cpuLoad > ThresholdHigh:
		return ErrorRateHigh
	case cpuLoad > ThresholdMedium:
		return ErrorRateMedium
	default:
		return ErrorRateLow
	}
}

// Latency returns the simulated latency in milliseconds for cpuLoad.
func Latency(cpuLoad float64) int {
	return int(math.Floor(clamp01(cpuLoad) * maxLatencyMs))
}

// Leakage floors the error rate at 0.05.
func Leakage(errorRate float64) float64 {
	if errorRate > leakageFloor {
		return errorRate
	}
	return leakageFloor
}

func statusFromLeakage(leakage float64) string {
	if leakage > ghostLeakage {
		return StatusGhostMode
	}
	return StatusProtected
}

// clamp01 restricts v to the range [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
