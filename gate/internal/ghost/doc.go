// Package ghost derives deterministic ghost IDs for tracked targets and
// records them in an append-only JSON-lines log.
package ghost
