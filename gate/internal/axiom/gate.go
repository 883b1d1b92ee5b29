package axiom

import (
	"container/ring"
	"context"
	"log/slog"
	"sync"
	"time"
)

const invalidSigilReason = "Sovereignty not established - Invalid sigil"

// Options configures a Gate. Secrets are passed in explicitly; the gate never
// reads the environment itself.
type Options struct {
	// CommanderSigil is the credential operators must present. Required.
	CommanderSigil string
	// Salt is mixed into every seal. May be empty.
	Salt string
	// Identity is appended to seals.
	Identity string
	// HistorySize bounds the in-memory history. Values <= 0 mean 1000.
	HistorySize int
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// AxiomsPassed holds the summed weights of the matching axioms per set.
type AxiomsPassed struct {
	Truth float64 `json:"truth"`
	Love  float64 `json:"love"`
}

// AxiomsMatched counts matching axioms per set.
type AxiomsMatched struct {
	Truth int `json:"truth"`
	Love  int `json:"love"`
}

// Result is the outcome of one validation.
type Result struct {
	Authorized    bool          `json:"authorized"`
	Resonance     float64       `json:"resonance"`
	State         State         `json:"state"`
	Seal          string        `json:"seal"`
	Reason        string        `json:"reason,omitempty"`
	TruthScore    float64       `json:"truthScore"`
	LoveScore     float64       `json:"loveScore"`
	AxiomsPassed  AxiomsPassed  `json:"axiomsPassed"`
	AxiomsMatched AxiomsMatched `json:"axiomsMatched"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Gate validates intents and keeps a bounded history of results.
// It is safe for concurrent use.
type Gate struct {
	sigil    string
	salt     string
	identity string
	now      func() time.Time

	mu      sync.Mutex
	history *history
}

// New returns a Gate built from opts.
func New(opts Options) *Gate {
	size := opts.HistorySize
	if size <= 0 {
		size = 1000
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Gate{
		sigil:    opts.CommanderSigil,
		salt:     opts.Salt,
		identity: opts.Identity,
		now:      now,
		history:  newHistory(size),
	}
}

// Validate scores intent and classifies the combined resonance. An operator
// sigil that is non-empty and differs from the commander sigil is rejected
// before any scoring. Every result, rejected or not, enters the history.
func (g *Gate) Validate(ctx context.Context, intent, operatorSigil string) Result {
	now := g.now()

	if operatorSigil != "" && operatorSigil != g.sigil {
		res := Result{
			Authorized: false,
			Resonance:  0,
			State:      ResonanceBroken,
			Seal:       invalidSeal,
			Reason:     invalidSigilReason,
			Timestamp:  now,
		}
		slog.WarnContext(ctx, "axiom: sigil rejected")
		g.record(res)
		return res
	}

	seal := Seal(intent, g.salt, g.identity, now)
	scores := Score(intent)
	r := Resonance(scores.Truth.Normalized, scores.Love.Normalized, 0, seal)
	state, ok := Classify(r)

	res := Result{
		Authorized: ok,
		Resonance:  r,
		State:      state,
		Seal:       seal,
		TruthScore: scores.Truth.Normalized,
		LoveScore:  scores.Love.Normalized,
		AxiomsPassed: AxiomsPassed{
			Truth: scores.Truth.Raw,
			Love:  scores.Love.Raw,
		},
		AxiomsMatched: AxiomsMatched{
			Truth: scores.Truth.Passed,
			Love:  scores.Love.Passed,
		},
		Timestamp: now,
	}
	slog.DebugContext(ctx, "axiom: validated",
		"state", state,
		"resonance", r,
		"truth", scores.Truth.Normalized,
		"love", scores.Love.Normalized,
	)
	g.record(res)
	return res
}

// History returns the retained results, oldest first.
func (g *Gate) History() []Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.snapshot()
}

// Identity returns the sovereign identity the gate seals with.
func (g *Gate) Identity() string { return g.identity }

func (g *Gate) record(r Result) {
	g.mu.Lock()
	g.history.push(r)
	g.mu.Unlock()
}

// history keeps the newest results in a container/ring. cur always points at
// the slot written next, which is the oldest entry once the ring is full.
type history struct {
	cur *ring.Ring
	cap int
	n   int
}

func newHistory(capacity int) *history {
	return &history{cur: ring.New(capacity), cap: capacity}
}

func (h *history) push(v Result) {
	h.cur.Value = v
	h.cur = h.cur.Next()
	if h.n < h.cap {
		h.n++
	}
}

func (h *history) snapshot() []Result {
	out := make([]Result, 0, h.n)
	h.cur.Do(func(v any) {
		if r, ok := v.(Result); ok {
			out = append(out, r)
		}
	})
	return out
}
