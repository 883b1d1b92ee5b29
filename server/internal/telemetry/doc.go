// Package telemetry derives the wire-preservation health figures from host
// load.
//
// derive.go holds the pure Derive function: cpu load in, a fully populated
// Sample out. The step functions live there so they can be tested without a
// host.
//
// reporter.go provides the Reporter, which reads the one-minute load average,
// the logical CPU count and memory usage through a HostSource (gopsutil in
// production) and hands them to Derive. Every call is a fresh read; there is
// no caching and no retry.
//
// Status thresholds: leakage > 0.15 is GHOST_MODE, anything else PROTECTED.
package telemetry
