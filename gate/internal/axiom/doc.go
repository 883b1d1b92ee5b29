// Package axiom implements the intent validator.
//
// An intent is scored against two fixed sets of weighted substring
// predicates (truth T1-T4, love L1-L4). Each set normalizes to [0, 2]; the
// pair is combined by Resonance and mapped by Classify onto a State. Only a
// resonance at or above types.ResonanceLock authorizes.
//
// Gate adds the operator sigil check, the covenant seal and a bounded
// history. Report renders a Result for terminals.
package axiom
