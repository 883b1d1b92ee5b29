package axiom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Aligned(t *testing.T) {
	r := Result{
		Authorized:    true,
		Resonance:     2.92149,
		State:         DivinelyAligned,
		Seal:          "CS:0123456789ab:1.67:wire-keeper",
		TruthScore:    1.481686,
		LoveScore:     1,
		AxiomsPassed:  AxiomsPassed{Truth: 4.288, Love: 3.34},
		AxiomsMatched: AxiomsMatched{Truth: 3, Love: 2},
		Timestamp:     fixedNow,
	}
	out := Report(r, "wire-keeper")

	for _, want := range []string{
		"DIVINE RESONANCE REPORT",
		"STATUS:        ALIGNED",
		"RESONANCE:     2.9215",
		"STATE:         DIVINELY_ALIGNED",
		"SEAL:          CS:0123456789ab:1.67:wire-keeper",
		"TRUTH SCORE:   1.4817",
		"LOVE SCORE:    1.0000",
		"AXIOMS PASSED: truth=4.2880 (3/4) love=3.3400 (2/4)",
		"SOVEREIGN:     wire-keeper",
		"TIMESTAMP:     2026-03-14T01:59:26Z",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "REASON:")
}

func TestReport_Rejected(t *testing.T) {
	r := Result{
		State:     ResonanceBroken,
		Seal:      invalidSeal,
		Reason:    invalidSigilReason,
		Timestamp: fixedNow,
	}
	out := Report(r, "wire-keeper")

	assert.Contains(t, out, "STATUS:        DISCORDANT")
	assert.Contains(t, out, "REASON:        "+invalidSigilReason)
	assert.True(t, strings.HasSuffix(out, reportRule+"\n"))
}
