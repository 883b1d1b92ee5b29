package axiom

import (
	"fmt"
	"strings"
	"time"
)

const reportRule = "============================================================"

// Report renders r as the multi-line resonance report shown to operators.
func Report(r Result, identity string) string {
	status := "DISCORDANT"
	if r.Authorized {
		status = "ALIGNED"
	}

	var b strings.Builder
	b.WriteString(reportRule + "\n")
	b.WriteString("DIVINE RESONANCE REPORT\n")
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "STATUS:        %s\n", status)
	fmt.Fprintf(&b, "RESONANCE:     %.4f\n", r.Resonance)
	fmt.Fprintf(&b, "STATE:         %s\n", r.State)
	fmt.Fprintf(&b, "SEAL:          %s\n", r.Seal)
	if r.Reason != "" {
		fmt.Fprintf(&b, "REASON:        %s\n", r.Reason)
	}
	fmt.Fprintf(&b, "TRUTH SCORE:   %.4f\n", r.TruthScore)
	fmt.Fprintf(&b, "LOVE SCORE:    %.4f\n", r.LoveScore)
	fmt.Fprintf(&b, "AXIOMS PASSED: truth=%.4f (%d/4) love=%.4f (%d/4)\n",
		r.AxiomsPassed.Truth, r.AxiomsMatched.Truth, r.AxiomsPassed.Love, r.AxiomsMatched.Love)
	fmt.Fprintf(&b, "SOVEREIGN:     %s\n", identity)
	fmt.Fprintf(&b, "TIMESTAMP:     %s\n", r.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString(reportRule + "\n")
	return b.String()
}
