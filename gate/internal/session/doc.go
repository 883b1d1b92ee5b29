// Package session implements the interactive axiom gate exchange: read an
// intent and sigil, validate, print the report and, when authorized, derive
// and record a ghost ID for a target.
package session
