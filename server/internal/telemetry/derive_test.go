package telemetry

import (
	"math"
	"testing"
	"time"
)

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

var fixedNow = time.Date(2026, 2, 8, 16, 7, 0, 0, time.UTC)

func TestDerive_Levels(t *testing.T) {
	tests := []struct {
		name          string
		load          float64
		wantRate      float64
		wantLatency   int
		wantLeakage   float64
		wantIntegrity float64
		wantStatus    string
	}{
		{"idle host", 0, ErrorRateLow, 0, 0.05, 100, StatusProtected},
		{"light load", 0.25, ErrorRateLow, 125, 0.05, 97.5, StatusProtected},
		{"exactly 0.5 stays low", 0.5, ErrorRateLow, 250, 0.05, 95, StatusProtected},
		{"just above 0.5", 0.51, ErrorRateMedium, 255, 0.08, 94.9, StatusProtected},
		{"exactly 0.8 stays medium", 0.8, ErrorRateMedium, 400, 0.08, 92, StatusProtected},
		{"above 0.8 ghost mode", 0.81, ErrorRateHigh, 405, 0.16, 91.9, StatusGhostMode},
		{"saturated", 1, ErrorRateHigh, 500, 0.16, 90, StatusGhostMode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Derive(tc.load, 0.4, fixedNow)

			if s.ErrorRate != tc.wantRate {
				t.Errorf("ErrorRate = %v, want %v", s.ErrorRate, tc.wantRate)
			}
			if s.Latency != tc.wantLatency {
				t.Errorf("Latency = %d, want %d", s.Latency, tc.wantLatency)
			}
			if s.Leakage != tc.wantLeakage {
				t.Errorf("Leakage = %v, want %v", s.Leakage, tc.wantLeakage)
			}
			if !almostEqual(s.Integrity, tc.wantIntegrity, 1e-9) {
				t.Errorf("Integrity = %v, want %v", s.Integrity, tc.wantIntegrity)
			}
			if s.Status != tc.wantStatus {
				t.Errorf("Status = %q, want %q", s.Status, tc.wantStatus)
			}
			if s.Resonance != 1.67 {
				t.Errorf("Resonance = %v, want 1.67", s.Resonance)
			}
			if s.MemoryUsage != 0.4 {
				t.Errorf("MemoryUsage = %v, want 0.4", s.MemoryUsage)
			}
		})
	}
}

func TestDerive_Timestamp(t *testing.T) {
	s := Derive(0.1, 0, fixedNow)
	if s.Timestamp != "2026-02-08T16:07:00Z" {
		t.Errorf("Timestamp = %q", s.Timestamp)
	}
}

func TestDerive_Properties(t *testing.T) {
	// Sweep [0,1] in small steps and check the invariants at every point.
	prevRate := 0.0
	for i := 0; i <= 1000; i++ {
		load := float64(i) / 1000
		s := Derive(load, 0, fixedNow)

		switch s.ErrorRate {
		case ErrorRateLow, ErrorRateMedium, ErrorRateHigh:
		default:
			t.Fatalf("load %.3f: ErrorRate %v not one of the fixed levels", load, s.ErrorRate)
		}
		if s.ErrorRate < prevRate {
			t.Fatalf("load %.3f: ErrorRate decreased from %v to %v", load, prevRate, s.ErrorRate)
		}
		prevRate = s.ErrorRate

		if s.Leakage < 0.05 {
			t.Fatalf("load %.3f: Leakage %v below floor", load, s.Leakage)
		}
		if (s.Status == StatusGhostMode) != (s.Leakage > 0.15) {
			t.Fatalf("load %.3f: Status %q inconsistent with Leakage %v", load, s.Status, s.Leakage)
		}
		if want := int(math.Floor(load * 500)); s.Latency != want {
			t.Fatalf("load %.3f: Latency %d, want %d", load, s.Latency, want)
		}
		if s.Latency < 0 || s.Latency > 500 {
			t.Fatalf("load %.3f: Latency %d out of [0,500]", load, s.Latency)
		}
	}
}

func TestDerive_ClampsLoad(t *testing.T) {
	if s := Derive(3.5, 0, fixedNow); s.CPULoad != 1 || s.Latency != 500 {
		t.Errorf("load 3.5: CPULoad=%v Latency=%d, want 1 and 500", s.CPULoad, s.Latency)
	}
	if s := Derive(-0.2, 0, fixedNow); s.CPULoad != 0 || s.Integrity != 100 {
		t.Errorf("load -0.2: CPULoad=%v Integrity=%v, want 0 and 100", s.CPULoad, s.Integrity)
	}
}

func TestCPULoad(t *testing.T) {
	tests := []struct {
		name    string
		loadAvg float64
		cpus    int
		want    float64
	}{
		{"quarter of four cores", 1, 4, 0.25},
		{"overloaded capped at 1", 12, 4, 1},
		{"zero cpus treated as one", 0.3, 0, 0.3},
		{"negative cpus treated as one", 2, -1, 1},
		{"idle", 0, 8, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CPULoad(tc.loadAvg, tc.cpus); !almostEqual(got, tc.want, 1e-12) {
				t.Errorf("CPULoad(%v, %d) = %v, want %v", tc.loadAvg, tc.cpus, got, tc.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {1.5, 1}, {math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := clamp01(tc.in); got != tc.want {
			t.Errorf("clamp01(%.2f) = %.2f, want %.2f", tc.in, got, tc.want)
		}
	}
}
