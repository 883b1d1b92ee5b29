// Package probe reads a running omega server's /telemetry and /metrics
// endpoints and summarizes them for the gate CLI.
package probe
