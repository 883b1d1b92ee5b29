package axiom

import (
	"math"
	"strings"

	"github.com/omegasovereign/omega/pkg/types"
)

// State is the discrete classification of a resonance value.
type State string

// SacredHarmony and QuantumSuperposition are part of the published state set
// but Classify never returns them.
const (
	DivinelyAligned      State = "DIVINELY_ALIGNED"
	SacredHarmony        State = "SACRED_HARMONY"
	PartialResonance     State = "PARTIAL_RESONANCE"
	ResonanceBroken      State = "RESONANCE_BROKEN"
	QuantumSuperposition State = "QUANTUM_SUPERPOSITION"
)

// States lists every declared state.
var States = []State{DivinelyAligned, SacredHarmony, PartialResonance, ResonanceBroken, QuantumSuperposition}

const (
	partialThreshold = 1.0
	sealBonus        = 1.01
)

// Resonance combines the truth and love scores into one scalar. phase is in
// degrees. A seal carrying the covenant prefix earns a one percent bonus.
func Resonance(truth, love, phase float64, seal string) float64 {
	base := math.Sqrt(truth*truth + love*love)
	r := base * math.Cos(phase*math.Pi/180) * types.GoldenRatio
	if strings.HasPrefix(seal, sealPrefix) {
		r *= sealBonus
	}
	return r
}

// Classify maps a resonance value to its state and authorization. The lock
// boundary is inclusive.
func Classify(resonance float64) (State, bool) {
	switch {
	case resonance >= types.ResonanceLock:
		return DivinelyAligned, true
	case resonance >= partialThreshold:
		return PartialResonance, false
	default:
		return ResonanceBroken, false
	}
}
