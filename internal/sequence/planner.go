// Package sequence plans ordered runs of lineups (multi-day trips)
// under trip-wide locks, transit reservation and day-type constraint
// relaxation.
package sequence

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/internal/composer"
	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/scoring"
	"github.com/thebtf/lookbook/pkg/models"
)

// ErrLockConflict means no single outerwear item satisfies every
// entry's hard constraints; the whole sequence fails before any entry
// is attempted.
var ErrLockConflict = errors.New("sequence: no outerwear item admissible across all entries")

// EntryKind distinguishes stay days from travel/transit boundary days.
type EntryKind string

const (
	// EntryStay is a regular day at the destination.
	EntryStay EntryKind = "stay"
	// EntryTravel is a transit/boundary day (departure, arrival).
	EntryTravel EntryKind = "travel"
)

// Entry is one day of a planned sequence.
type Entry struct {
	Date   string
	Kind   EntryKind
	Intent models.CanonicalIntent
}

// EntryResult is the outcome for one entry: either a lineup or a skip
// reason, never both.
type EntryResult struct {
	Date     string            `json:"date,omitempty"`
	Kind     EntryKind         `json:"kind"`
	Lineup   *models.Lineup    `json:"lineup,omitempty"`
	Envelope string            `json:"envelope,omitempty"`
	Skip     models.SkipReason `json:"skip_reason,omitempty"`
}

// Result is the outcome of a full sequence plan.
type Result struct {
	Entries []EntryResult `json:"entries"`
	Locks   *models.Locks `json:"-"`
}

// Planner drives N ordered lineup computations with shared state. A
// Planner is stateless between Plan calls; all sequence state lives in
// the planning pass and is discarded afterwards.
type Planner struct {
	eval        *constraint.Evaluator
	scorer      *scoring.Scorer
	assigner    *composer.Assigner
	diversifier *composer.Diversifier
	diversity   *models.DiversityConfig
}

// NewPlanner creates a planner. Nil configs use the defaults.
func NewPlanner(eval *constraint.Evaluator, scorer *scoring.Scorer, diversity *models.DiversityConfig) *Planner {
	if eval == nil {
		eval = constraint.NewEvaluator(nil)
	}
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	if diversity == nil {
		diversity = models.DefaultDiversityConfig()
	}
	assigner := composer.NewAssigner(scorer)
	return &Planner{
		eval:        eval,
		scorer:      scorer,
		assigner:    assigner,
		diversifier: composer.NewDiversifier(assigner, diversity),
		diversity:   diversity,
	}
}

// planState is the shared mutable state of one planning pass.
type planState struct {
	locks      *models.Locks
	usedItems  map[int64]bool
	usedSigs   map[string]bool
	travelUsed map[int64]bool
	recent     []models.HistoryEntry
}

// Plan computes one lineup per entry. The trip-wide outerwear lock is
// resolved before any entry is processed; its absence fails the whole
// sequence. Individual entry failures are recorded as skips and do not
// abort the rest of the plan.
func (p *Planner) Plan(idx *catalog.Index, entries []Entry, prior []models.HistoryEntry) (Result, error) {
	result := Result{Locks: models.NewLocks()}
	if len(entries) == 0 {
		return result, nil
	}

	outerwear, err := p.resolveOuterwearLock(idx, entries)
	if err != nil {
		return result, err
	}
	result.Locks.Set(models.CategoryOuterwear, outerwear)

	state := &planState{
		locks:      result.Locks,
		usedItems:  make(map[int64]bool),
		usedSigs:   make(map[string]bool),
		travelUsed: make(map[int64]bool),
		recent:     append([]models.HistoryEntry{}, prior...),
	}

	for i, entry := range entries {
		res := p.planEntry(idx, entry, state)
		if res.Skip != "" {
			log.Warn().
				Int("entry", i).
				Str("date", entry.Date).
				Str("reason", string(res.Skip)).
				Msg("Sequence entry skipped")
		}
		result.Entries = append(result.Entries, res)
	}
	return result, nil
}

// resolveOuterwearLock finds the single outerwear item passing every
// entry's hard constraints under the strict envelope. Among several
// admissible items the best total score wins, ties by ascending id.
func (p *Planner) resolveOuterwearLock(idx *catalog.Index, entries []Entry) (int64, error) {
	type scored struct {
		id    int64
		score float64
	}
	var admissible []scored

	for _, item := range idx.ByCategory(models.CategoryOuterwear) {
		total := 0.0
		ok := true
		for _, entry := range entries {
			if !p.eval.Evaluate(item, models.CategoryOuterwear, entry.Intent).Passes {
				ok = false
				break
			}
			total += p.scorer.Score(item, models.CategoryOuterwear, entry.Intent)
		}
		if ok {
			admissible = append(admissible, scored{item.ID, total})
		}
	}

	if len(admissible) == 0 {
		return 0, ErrLockConflict
	}
	sort.Slice(admissible, func(i, j int) bool {
		if admissible[i].score != admissible[j].score {
			return admissible[i].score > admissible[j].score
		}
		return admissible[i].id < admissible[j].id
	})
	return admissible[0].id, nil
}

// planEntry computes one entry's lineup under the shared state.
func (p *Planner) planEntry(idx *catalog.Index, entry Entry, state *planState) EntryResult {
	res := EntryResult{Date: entry.Date, Kind: entry.Kind}

	cascade := []constraint.Envelope{constraint.StrictEnvelope()}
	if entry.Kind == EntryTravel {
		cascade = constraint.TravelCascade()
	}
	env, viable := p.eval.Resolve(idx, entry.Intent, cascade)
	if !viable {
		res.Skip = models.SkipStructural
		return res
	}
	res.Envelope = env.Name

	pool := composer.BuildPool(idx, p.eval, entry.Intent, env)
	locks := p.entryLocks(state, entry.Kind)
	exclude := p.entryExclusions(state, entry.Kind)

	outcome := p.assigner.Assign(pool, entry.Intent, locks, nil, exclude)
	if !outcome.OK() {
		res.Skip = models.SkipStructural
		return res
	}

	hist := composer.History{
		Recent:    state.recent,
		UsedSigs:  state.usedSigs,
		UsedItems: state.usedItems,
	}
	lineup := p.diversifier.Diversify(*outcome.Lineup, pool, entry.Intent, hist, locks, exclude)

	if skip := p.validateEntry(lineup, state, entry.Kind); skip != "" {
		res.Skip = skip
		return res
	}

	p.commit(&lineup, entry, state)
	res.Lineup = &lineup
	return res
}

// entryLocks returns the lock view for this entry kind: travel days are
// exempt from the footwear cap, so the footwear pin is dropped there.
func (p *Planner) entryLocks(state *planState, kind EntryKind) *models.Locks {
	if kind != EntryTravel {
		return state.locks
	}
	view := models.NewLocks()
	if id, ok := state.locks.Locked(models.CategoryOuterwear); ok {
		view.Set(models.CategoryOuterwear, id)
	}
	return view
}

// entryExclusions enforces the transit reservation: non-locked items
// worn on a travel entry are blocked from reuse on stay entries. The
// locked outerwear is the one exception.
func (p *Planner) entryExclusions(state *planState, kind EntryKind) map[int64]bool {
	if kind == EntryTravel {
		return nil
	}
	exclude := make(map[int64]bool, len(state.travelUsed))
	for id := range state.travelUsed {
		if !state.locks.LockedItem(id) {
			exclude[id] = true
		}
	}
	return exclude
}

// validateEntry re-checks the committed invariants: exactly one item
// per required category and every applicable lock honored.
func (p *Planner) validateEntry(lineup models.Lineup, state *planState, kind EntryKind) models.SkipReason {
	for _, c := range models.RequiredCategories {
		if _, ok := lineup.Categories[c]; !ok {
			return models.SkipCategoryCount
		}
	}
	if id, ok := state.locks.Locked(models.CategoryOuterwear); ok {
		if lineup.Categories[models.CategoryOuterwear] != id {
			return models.SkipLockViolation
		}
	}
	if kind != EntryTravel {
		if id, ok := state.locks.Locked(models.CategoryFootwear); ok {
			if lineup.Categories[models.CategoryFootwear] != id {
				return models.SkipLockViolation
			}
		}
	}
	return ""
}

// commit records an accepted lineup in the shared state: rolling
// history window, used ids/signatures, transit reservation, and the
// lazy footwear lock after the first successful stay entry.
func (p *Planner) commit(lineup *models.Lineup, entry Entry, state *planState) {
	lineup.Confidence = lineup.MatchScore / 100

	state.usedSigs[lineup.Signature] = true
	for _, id := range lineup.ItemIDs {
		state.usedItems[id] = true
		if entry.Kind == EntryTravel {
			state.travelUsed[id] = true
		}
	}

	if entry.Kind != EntryTravel {
		if _, locked := state.locks.Locked(models.CategoryFootwear); !locked {
			state.locks.Set(models.CategoryFootwear, lineup.Categories[models.CategoryFootwear])
		}
	}

	state.recent = append(state.recent, models.HistoryEntry{
		Signature: lineup.Signature,
		ItemIDs:   lineup.ItemIDs,
		Date:      entry.Date,
		Index:     len(state.recent),
	})
	if window := p.diversity.HistoryWindow; len(state.recent) > window {
		state.recent = state.recent[len(state.recent)-window:]
	}
}
