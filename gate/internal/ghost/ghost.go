package ghost

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultSalt is used when no salt is configured.
const DefaultSalt = "DIVINE_SALT"

const (
	idLen        = 16
	targetPrefix = 10
)

// Tracker derives ghost IDs from target strings.
type Tracker struct {
	salt string
}

// NewTracker returns a Tracker using salt, or DefaultSalt when salt is empty.
func NewTracker(salt string) *Tracker {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Tracker{salt: salt}
}

// GhostID returns the first 16 hex characters of sha256(target|salt).
func (t *Tracker) GhostID(target string) string {
	sum := sha256.Sum256([]byte(target + "|" + t.salt))
	return hex.EncodeToString(sum[:])[:idLen]
}

// Record is one line of the ghost tracking log.
type Record struct {
	Timestamp      time.Time `json:"timestamp"`
	Target         string    `json:"target"`
	GhostID        string    `json:"ghost_id"`
	ValidationSeal string    `json:"validation_seal"`
	Sovereign      string    `json:"sovereign"`
}

// NewRecord builds a Record. Only the first ten runes of target are kept.
func NewRecord(target, ghostID, seal, identity string, now time.Time) Record {
	return Record{
		Timestamp:      now.UTC(),
		Target:         truncate(target),
		GhostID:        ghostID,
		ValidationSeal: seal,
		Sovereign:      identity,
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > targetPrefix {
		r = r[:targetPrefix]
	}
	return string(r) + "..."
}
