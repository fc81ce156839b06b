package composer

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/lookbook/pkg/models"
	"github.com/thebtf/lookbook/pkg/similarity"
)

// Diversifier repairs lineups that collide with history through minimal
// single-slot substitution. Repair never fails hard: when no admissible
// substitution exists the original lineup is returned unchanged.
type Diversifier struct {
	assigner *Assigner
	config   *models.DiversityConfig
}

// NewDiversifier creates a diversifier. A nil config uses the defaults.
func NewDiversifier(assigner *Assigner, config *models.DiversityConfig) *Diversifier {
	if config == nil {
		config = models.DefaultDiversityConfig()
	}
	return &Diversifier{assigner: assigner, config: config}
}

// History is everything a lineup must diversify against. Recent is the
// rolling window that binds the overlap check; UsedSigs and UsedItems
// optionally carry trip-wide state that outlives the window during
// sequence planning. Nil maps are valid and mean "nothing beyond
// Recent".
type History struct {
	Recent    []models.HistoryEntry
	UsedSigs  map[string]bool
	UsedItems map[int64]bool
}

func (h History) empty() bool {
	return len(h.Recent) == 0 && len(h.UsedSigs) == 0
}

func (h History) signatureUsed(sig string) bool {
	return h.UsedSigs[sig] || similarity.SignatureUsed(sig, h.Recent)
}

// itemSet collects every item id in Recent merged with UsedItems.
func (h History) itemSet() map[int64]bool {
	seen := make(map[int64]bool, len(h.UsedItems))
	for id := range h.UsedItems {
		seen[id] = true
	}
	for _, e := range h.Recent {
		for _, id := range e.ItemIDs {
			seen[id] = true
		}
	}
	return seen
}

// Diversify checks the lineup against history and, when it is an exact
// repeat or overlaps too much, attempts a single-slot repair. A
// signature counts as a repeat if it appears anywhere in the history,
// window or trip-wide; overlap binds against the window only. Slots
// holding locked items are never touched. Blocked ids (transit
// reservation) are never introduced.
func (d *Diversifier) Diversify(lineup models.Lineup, pool Pool, intent models.CanonicalIntent, hist History, locks *models.Locks, blocked map[int64]bool) models.Lineup {
	if hist.empty() {
		return lineup
	}

	origOverlap := similarity.MaxOverlap(lineup.ItemIDs, hist.Recent)
	repeated := hist.signatureUsed(lineup.Signature)
	if !repeated && origOverlap <= d.config.OverlapThreshold {
		return lineup
	}

	if repaired, ok := d.repair(lineup, pool, intent, hist, locks, blocked, origOverlap); ok {
		return repaired
	}

	// DiversityExhausted: graceful degradation over failure
	log.Debug().
		Str("signature", lineup.Signature).
		Float64("overlap", origOverlap).
		Msg("Diversity repair exhausted, keeping original lineup")
	return lineup
}

// repair walks lineup slots - previously used items first - and accepts
// the first same-category substitution that keeps the lineup complete,
// produces an unused signature, and does not push overlap past the
// threshold (or at least below the original overlap).
func (d *Diversifier) repair(lineup models.Lineup, pool Pool, intent models.CanonicalIntent, hist History, locks *models.Locks, blocked map[int64]bool, origOverlap float64) (models.Lineup, bool) {
	seen := hist.itemSet()

	for _, c := range d.slotOrder(lineup, seen) {
		current := lineup.Categories[c]
		if locks.LockedItem(current) {
			continue
		}

		for _, candidate := range d.rankedReplacements(pool, c, intent, lineup, seen, blocked) {
			repaired := substitute(lineup, c, candidate.ID)
			if hist.signatureUsed(repaired.Signature) {
				continue
			}
			newOverlap := similarity.MaxOverlap(repaired.ItemIDs, hist.Recent)
			if newOverlap > d.config.OverlapThreshold && newOverlap >= origOverlap {
				continue
			}
			return repaired, true
		}
	}
	return models.Lineup{}, false
}

// slotOrder returns the lineup's categories with previously used items
// first, so repair touches the stalest slot.
func (d *Diversifier) slotOrder(lineup models.Lineup, seen map[int64]bool) []models.Category {
	order := make([]models.Category, 0, len(models.RequiredCategories))
	order = append(order, models.RequiredCategories...)
	sort.SliceStable(order, func(i, j int) bool {
		usedI := seen[lineup.Categories[order[i]]]
		usedJ := seen[lineup.Categories[order[j]]]
		return usedI && !usedJ
	})
	return order
}

// rankedReplacements lists same-category candidates ordered by score
// plus novelty bonus, ties by ascending id. The current lineup's items,
// locked items and blocked ids are excluded.
func (d *Diversifier) rankedReplacements(pool Pool, c models.Category, intent models.CanonicalIntent, lineup models.Lineup, seen, blocked map[int64]bool) []models.Item {
	inLineup := similarity.IDSet(lineup.ItemIDs)

	type scored struct {
		item  models.Item
		score float64
	}
	candidates := make([]scored, 0, len(pool.ByCategory[c]))
	for _, item := range pool.ByCategory[c] {
		if inLineup[item.ID] || blocked[item.ID] {
			continue
		}
		score := d.assigner.scorer.Score(item, c, intent) +
			d.assigner.scorer.FavoriteBonus(item)
		if !seen[item.ID] {
			score += d.assigner.scorer.Config().NoveltyBonus
		}
		candidates = append(candidates, scored{item, score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].item.ID < candidates[j].item.ID
	})

	items := make([]models.Item, len(candidates))
	for i, s := range candidates {
		items[i] = s.item
	}
	return items
}

// substitute swaps one category's item and recomputes ids and
// signature. Match score carries over from the original; the caller
// rescores if it needs exact output numbers.
func substitute(lineup models.Lineup, c models.Category, id int64) models.Lineup {
	categories := make(map[models.Category]int64, len(lineup.Categories))
	for k, v := range lineup.Categories {
		categories[k] = v
	}
	categories[c] = id

	ids := make([]int64, 0, len(categories))
	for _, rc := range models.RequiredCategories {
		ids = append(ids, categories[rc])
	}

	return models.Lineup{
		ItemIDs:    ids,
		Categories: categories,
		Signature:  similarity.Signature(ids),
		MatchScore: lineup.MatchScore,
		Confidence: lineup.Confidence,
	}
}
