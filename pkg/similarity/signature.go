// Package similarity provides lineup identity and overlap utilities.
package similarity

import (
	"slices"
	"strconv"
	"strings"

	"github.com/thebtf/lookbook/pkg/models"
)

// Signature returns the canonical string identity of an item-id set:
// sorted, deduplicated ids joined with "-". Two lineups are the same
// lineup iff their signatures match, regardless of input order.
func Signature(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var b strings.Builder
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// IDSet converts an id slice into a set.
func IDSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// OverlapRatio calculates the Jaccard similarity between two item-id sets.
// Returns a value between 0 (disjoint) and 1 (identical).
func OverlapRatio(a, b []int64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := IDSet(a)
	setB := IDSet(b)

	intersection := 0
	for id := range setA {
		if setB[id] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// MaxOverlap returns the binding (maximum) overlap ratio of the given
// ids against every history entry. Empty history binds at 0.
func MaxOverlap(ids []int64, history []models.HistoryEntry) float64 {
	maxRatio := 0.0
	for _, h := range history {
		if r := OverlapRatio(ids, h.ItemIDs); r > maxRatio {
			maxRatio = r
		}
	}
	return maxRatio
}

// SignatureUsed reports whether the signature appears in history.
func SignatureUsed(sig string, history []models.HistoryEntry) bool {
	for _, h := range history {
		if h.Signature == sig {
			return true
		}
	}
	return false
}

// RepeatCount returns how many history rows share the exact signature.
func RepeatCount(sig string, history []models.HistoryEntry) int {
	n := 0
	for _, h := range history {
		if h.Signature == sig {
			n++
		}
	}
	return n
}
