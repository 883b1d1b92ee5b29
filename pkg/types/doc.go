// Package types holds the constants shared by the telemetry bridge and the
// axiom gate. The two halves of the repository exchange no data; the
// resonance lock is the only value they agree on.
package types
