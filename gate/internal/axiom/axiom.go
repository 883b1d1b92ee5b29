package axiom

import (
	"errors"
	"strings"
)

// ErrBlankIntent is returned by every predicate when the intent is empty or
// whitespace only. Score treats it as a non-match.
var ErrBlankIntent = errors.New("axiom: blank intent")

// Predicate reports whether an intent satisfies an axiom.
type Predicate func(intent string) (bool, error)

// Axiom is one weighted rule in a fixed axiom set.
type Axiom struct {
	ID        string
	Name      string
	Statement string
	Weight    float64
	Match     Predicate
}

var truthAxioms = []Axiom{
	{
		ID:        "T1_DIVINE_ORIGIN",
		Name:      "Divine Origin",
		Statement: "All truth flows from Divine Source",
		Weight:    1.67,
		Match:     containsAny("truth", "divine", "god", "source"),
	},
	{
		ID:        "T2_UNVEILING_REALITY",
		Name:      "Unveiling Reality",
		Statement: "Truth unconceals what is hidden",
		Weight:    1.618,
		Match:     containsAny("reveal", "uncover", "expose", "discover"),
	},
	{
		ID:        "T3_NON_CONTRADICTION",
		Name:      "Non-Contradiction",
		Statement: "Truth cannot contradict itself",
		Weight:    1.0,
		Match:     containsNone("contradict", "paradox", "opposite"),
	},
	{
		ID:        "T4_HOLISTIC_INTEGRITY",
		Name:      "Holistic Integrity",
		Statement: "Truth maintains wholeness",
		Weight:    1.5,
		Match:     containsAny("whole", "complete"),
	},
}

var loveAxioms = []Axiom{
	{
		ID:        "L1_GOD_IS_LOVE",
		Name:      "God Is Love",
		Statement: "Love is the fundamental nature of Divine",
		Weight:    1.67,
		Match: func(intent string) (bool, error) {
			s, err := normalize(intent)
			if err != nil {
				return false, err
			}
			return strings.Contains(s, "love") &&
				(strings.Contains(s, "god") || strings.Contains(s, "divine")), nil
		},
	},
	{
		ID:        "L2_UNCONDITIONAL_GIVING",
		Name:      "Unconditional Giving",
		Statement: "Love gives without expectation",
		Weight:    1.67,
		Match: func(intent string) (bool, error) {
			s, err := normalize(intent)
			if err != nil {
				return false, err
			}
			return strings.Contains(s, "give") && !strings.Contains(s, "expect"), nil
		},
	},
	{
		ID:        "L3_SACRIFICIAL_NATURE",
		Name:      "Sacrificial Nature",
		Statement: "Love sacrifices for the beloved",
		Weight:    1.67,
		Match:     containsAny("sacrifice", "give up", "lay down"),
	},
	{
		ID:        "L4_HEALING_PRESENCE",
		Name:      "Healing Presence",
		Statement: "Love heals what it touches",
		Weight:    1.67,
		Match:     containsAny("heal", "restore", "mend"),
	},
}

// Truth returns a copy of the truth axiom set in evaluation order.
func Truth() []Axiom { return append([]Axiom(nil), truthAxioms...) }

// Love returns a copy of the love axiom set in evaluation order.
func Love() []Axiom { return append([]Axiom(nil), loveAxioms...) }

func normalize(intent string) (string, error) {
	if strings.TrimSpace(intent) == "" {
		return "", ErrBlankIntent
	}
	return strings.ToLower(intent), nil
}

func containsAny(words ...string) Predicate {
	return func(intent string) (bool, error) {
		s, err := normalize(intent)
		if err != nil {
			return false, err
		}
		for _, w := range words {
			if strings.Contains(s, w) {
				return true, nil
			}
		}
		return false, nil
	}
}

func containsNone(words ...string) Predicate {
	matches := containsAny(words...)
	return func(intent string) (bool, error) {
		hit, err := matches(intent)
		if err != nil {
			return false, err
		}
		return !hit, nil
	}
}

// SetScore is the result of evaluating one axiom set.
type SetScore struct {
	Raw        float64
	Total      float64
	Normalized float64
	Passed     int
}

// Scores holds both normalized sub-scores for an intent.
type Scores struct {
	Truth SetScore
	Love  SetScore
}

// Score evaluates intent against both axiom sets.
func Score(intent string) Scores {
	return Scores{
		Truth: scoreSet(truthAxioms, intent),
		Love:  scoreSet(loveAxioms, intent),
	}
}

// scoreSet accumulates every weight into the total and matching weights into
// the raw score. The normalized figure lies in [0, 2].
func scoreSet(set []Axiom, intent string) SetScore {
	var s SetScore
	for _, a := range set {
		s.Total += a.Weight
		ok, err := a.Match(intent)
		if err != nil || !ok {
			continue
		}
		s.Raw += a.Weight
		s.Passed++
	}
	s.Normalized = (s.Raw / max(s.Total, 1)) * 2
	return s
}
