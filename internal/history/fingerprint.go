package history

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SequenceFingerprint derives a stable identifier for a trip from its
// destination, reason and date range. The same trip always maps to the
// same scope; editing any of the three starts a fresh history.
func SequenceFingerprint(destination, reason, startDate, endDate string) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(destination)),
		strings.ToLower(strings.TrimSpace(reason)),
		strings.TrimSpace(startDate),
		strings.TrimSpace(endDate),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:8])
}
