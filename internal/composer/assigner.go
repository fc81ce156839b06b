// Package composer builds complete lineups: slot assignment over a
// constraint-filtered pool and diversity repair against history.
package composer

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/scoring"
	"github.com/thebtf/lookbook/pkg/models"
	"github.com/thebtf/lookbook/pkg/similarity"
)

// Pool is the constraint-filtered candidate set for one assignment,
// grouped by structural category.
type Pool struct {
	ByCategory map[models.Category][]models.Item
}

// BuildPool filters the index through the evaluator under an envelope
// and groups survivors by category.
func BuildPool(idx *catalog.Index, eval *constraint.Evaluator, intent models.CanonicalIntent, env constraint.Envelope) Pool {
	pool := Pool{ByCategory: make(map[models.Category][]models.Item)}
	for _, c := range models.RequiredCategories {
		for _, item := range idx.ByCategory(c) {
			if eval.EvaluateWith(item, c, intent, env).Passes {
				pool.ByCategory[c] = append(pool.ByCategory[c], item)
			}
		}
	}
	return pool
}

// Size returns the total number of pooled candidates.
func (p Pool) Size() int {
	n := 0
	for _, items := range p.ByCategory {
		n += len(items)
	}
	return n
}

// Find returns the pooled item with the given id, if present.
func (p Pool) Find(id int64) (models.Item, models.Category, bool) {
	for c, items := range p.ByCategory {
		for _, item := range items {
			if item.ID == id {
				return item, c, true
			}
		}
	}
	return models.Item{}, "", false
}

// AssignOutcome is the pure-data result of a slot assignment. A nil
// Lineup means structural failure; Missing names the empty categories
// and AnchorViolated flags a strict anchor that could not be honored.
type AssignOutcome struct {
	Lineup         *models.Lineup
	Missing        []models.Category
	AnchorViolated bool
}

// OK reports whether a complete lineup was produced.
func (o AssignOutcome) OK() bool {
	return o.Lineup != nil
}

// Assigner fills required category slots with the best surviving
// candidates.
type Assigner struct {
	scorer *scoring.Scorer
}

// NewAssigner creates an assigner over the given scorer.
func NewAssigner(scorer *scoring.Scorer) *Assigner {
	return &Assigner{scorer: scorer}
}

// Assign fills each required category in priority order. Locks pin
// their item unconditionally; a strict anchor pins its item into its
// category; otherwise the highest-scoring candidate wins, ties broken
// by ascending id. Category completeness is all-or-nothing: any empty
// slot fails the whole assignment.
//
// Exclude lists item ids that must not be used (transit reservation,
// diversity blocks); excluded ids never override locks.
func (a *Assigner) Assign(pool Pool, intent models.CanonicalIntent, locks *models.Locks, anchor *models.Anchor, exclude map[int64]bool) AssignOutcome {
	outcome := AssignOutcome{}
	chosen := make(map[models.Category]models.Item, len(models.RequiredCategories))
	used := make(map[int64]bool, len(models.RequiredCategories))

	// A strict anchor that survived no constraint filter cannot be
	// honored; that is a failure in itself, not a silent downgrade.
	if anchor != nil && anchor.Mode == models.AnchorStrict {
		if _, _, found := pool.Find(anchor.ItemID); !found {
			outcome.AnchorViolated = true
			return outcome
		}
	}

	for _, c := range models.RequiredCategories {
		item, ok, violated := a.fillSlot(pool, c, intent, locks, anchor, exclude, used)
		if violated {
			outcome.AnchorViolated = true
			return outcome
		}
		if !ok {
			outcome.Missing = append(outcome.Missing, c)
			continue
		}
		chosen[c] = item
		used[item.ID] = true
	}

	if len(outcome.Missing) > 0 {
		log.Debug().
			Interface("missing", outcome.Missing).
			Msg("Slot assignment failed: empty categories")
		return outcome
	}

	outcome.Lineup = a.buildLineup(chosen, intent)
	return outcome
}

// fillSlot selects the item for one category. The third return value
// flags a strict-anchor violation.
func (a *Assigner) fillSlot(pool Pool, c models.Category, intent models.CanonicalIntent, locks *models.Locks, anchor *models.Anchor, exclude, used map[int64]bool) (models.Item, bool, bool) {
	if id, ok := locks.Locked(c); ok {
		for _, item := range pool.ByCategory[c] {
			if item.ID == id {
				return item, true, false
			}
		}
		// Locked item not eligible under this pool: structural failure
		return models.Item{}, false, false
	}

	if anchor != nil && anchor.Mode == models.AnchorStrict {
		if item, anchorCat, found := pool.Find(anchor.ItemID); found && anchorCat == c {
			if used[item.ID] || exclude[item.ID] {
				return models.Item{}, false, true
			}
			return item, true, false
		}
	}

	best, found := a.BestCandidate(pool.ByCategory[c], c, intent, anchor, func(item models.Item) bool {
		return !used[item.ID] && !exclude[item.ID]
	})
	return best, found, false
}

// BestCandidate returns the highest-scoring item among candidates that
// pass the keep predicate. Equal scores break by ascending id, which
// makes assignment deterministic for identical inputs.
func (a *Assigner) BestCandidate(candidates []models.Item, c models.Category, intent models.CanonicalIntent, anchor *models.Anchor, keep func(models.Item) bool) (models.Item, bool) {
	type scored struct {
		item  models.Item
		score float64
	}
	eligible := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		if keep != nil && !keep(item) {
			continue
		}
		score := a.scorer.Score(item, c, intent) +
			a.scorer.StyleDirectiveAdjust(item, intent.Style) +
			a.scorer.FavoriteBonus(item)
		if anchor != nil && anchor.Mode == models.AnchorSoft && anchor.ItemID == item.ID {
			score += a.scorer.Config().AnchorSoftBonus
		}
		eligible = append(eligible, scored{item, score})
	}
	if len(eligible) == 0 {
		return models.Item{}, false
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].score != eligible[j].score {
			return eligible[i].score > eligible[j].score
		}
		return eligible[i].item.ID < eligible[j].item.ID
	})
	return eligible[0].item, true
}

// buildLineup assembles the output value in category-priority order.
func (a *Assigner) buildLineup(chosen map[models.Category]models.Item, intent models.CanonicalIntent) *models.Lineup {
	ids := make([]int64, 0, len(chosen))
	items := make([]models.Item, 0, len(chosen))
	categories := make(map[models.Category]int64, len(chosen))
	for _, c := range models.RequiredCategories {
		item := chosen[c]
		ids = append(ids, item.ID)
		items = append(items, item)
		categories[c] = item.ID
	}
	return &models.Lineup{
		ItemIDs:    ids,
		Categories: categories,
		Signature:  similarity.Signature(ids),
		MatchScore: a.scorer.MatchScore(items, intent),
	}
}
