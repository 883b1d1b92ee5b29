package axiom

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	sealPrefix     = "CS:"
	invalidSeal    = "INVALID_SIGIL"
	sealHashLen    = 12
	sealTimeLayout = "2006-01-02T15:04:05.000000"
)

// Seal binds intent, salt and time into a covenant seal of the form
// CS:<hash>:1.67:<identity>.
func Seal(intent, salt, identity string, at time.Time) string {
	payload := fmt.Sprintf("%s|%s|%s|1.67", intent, salt, at.UTC().Format(sealTimeLayout))
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s%s:1.67:%s", sealPrefix, hex.EncodeToString(sum[:])[:sealHashLen], identity)
}
