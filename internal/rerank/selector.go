// Package rerank chooses among independently proposed candidate
// lineups using a combined confidence/penalty score, with a
// deterministic greedy fallback when every candidate is invalid.
package rerank

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/internal/composer"
	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/scoring"
	"github.com/thebtf/lookbook/pkg/models"
	"github.com/thebtf/lookbook/pkg/similarity"
)

// Candidate is one externally proposed lineup (e.g. from an upstream
// generator) awaiting validation and ranking.
type Candidate struct {
	ItemIDs    []int64 `json:"item_ids"`
	Confidence float64 `json:"confidence"` // generator confidence, 0-1
}

// RankedResult is one survivor's scoring breakdown.
type RankedResult struct {
	Lineup          models.Lineup `json:"lineup"`
	BaseConfidence  float64       `json:"base_confidence"`
	RepeatPenalty   float64       `json:"repeat_penalty"`
	OverlapPenalty  float64       `json:"overlap_penalty"`
	StylePenalty    float64       `json:"style_penalty"`
	FeedbackPenalty float64       `json:"feedback_penalty"`
	FinalScore      float64       `json:"final_score"`
	OriginalRank    int           `json:"original_rank"` // 1-indexed position as proposed
	Fallback        bool          `json:"fallback"`      // true for the constructed fallback lineup
}

// Selector validates and reranks candidate lineups.
type Selector struct {
	eval     *constraint.Evaluator
	scorer   *scoring.Scorer
	assigner *composer.Assigner
	config   *models.RerankConfig
}

// NewSelector creates a selector. Nil configs use the defaults.
func NewSelector(eval *constraint.Evaluator, scorer *scoring.Scorer, config *models.RerankConfig) *Selector {
	if eval == nil {
		eval = constraint.NewEvaluator(nil)
	}
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	if config == nil {
		config = models.DefaultRerankConfig()
	}
	return &Selector{
		eval:     eval,
		scorer:   scorer,
		assigner: composer.NewAssigner(scorer),
		config:   config,
	}
}

// Select validates every candidate, ranks the survivors and returns
// the winner plus the full ranking. When no candidate validates it
// constructs the deterministic greedy fallback; a nil lineup therefore
// means the catalog itself cannot cover the required categories.
func (s *Selector) Select(idx *catalog.Index, candidates []Candidate, intent models.CanonicalIntent, anchor *models.Anchor, history []models.HistoryEntry, feedback []models.FeedbackEntry) (*models.Lineup, []RankedResult) {
	results := make([]RankedResult, 0, len(candidates))

	for i, cand := range candidates {
		lineup, ok := s.validate(idx, cand, intent, anchor)
		if !ok {
			continue
		}
		r := s.rank(idx, lineup, cand.Confidence, intent, history, feedback)
		r.OriginalRank = i + 1
		results = append(results, r)
	}

	if len(results) == 0 {
		log.Debug().Int("candidates", len(candidates)).Msg("All rerank candidates invalid, constructing fallback")
		fallback, ok := s.Fallback(idx, intent, anchor)
		if !ok {
			return nil, nil
		}
		r := s.rank(idx, *fallback, fallback.MatchScore/100, intent, history, feedback)
		r.Fallback = true
		return &r.Lineup, []RankedResult{r}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].Lineup.Signature < results[j].Lineup.Signature
	})
	return &results[0].Lineup, results
}

// validate normalizes a candidate into a Lineup: every id must exist,
// the category set must cover the required categories exactly once,
// every item must pass the hard constraints, and a strict anchor must
// be present among the ids.
func (s *Selector) validate(idx *catalog.Index, cand Candidate, intent models.CanonicalIntent, anchor *models.Anchor) (models.Lineup, bool) {
	if anchor != nil && anchor.Mode == models.AnchorStrict {
		found := false
		for _, id := range cand.ItemIDs {
			if id == anchor.ItemID {
				found = true
				break
			}
		}
		if !found {
			return models.Lineup{}, false
		}
	}

	categories := make(map[models.Category]int64, len(models.RequiredCategories))
	items := make([]models.Item, 0, len(cand.ItemIDs))
	for _, id := range cand.ItemIDs {
		item, ok := idx.Item(id)
		if !ok {
			return models.Lineup{}, false
		}
		c, _ := idx.CategoryOf(id)
		if _, dup := categories[c]; dup || c == models.CategoryOther {
			return models.Lineup{}, false
		}
		if !s.eval.Evaluate(item, c, intent).Passes {
			return models.Lineup{}, false
		}
		categories[c] = id
		items = append(items, item)
	}
	if len(categories) != len(models.RequiredCategories) {
		return models.Lineup{}, false
	}

	ids := make([]int64, 0, len(models.RequiredCategories))
	for _, c := range models.RequiredCategories {
		ids = append(ids, categories[c])
	}
	return models.Lineup{
		ItemIDs:    ids,
		Categories: categories,
		Signature:  similarity.Signature(ids),
		MatchScore: s.scorer.MatchScore(items, intent),
	}, true
}

// rank computes the combined score:
//
//	final = confidence - repeat - overlap - styleMismatch - feedback
func (s *Selector) rank(idx *catalog.Index, lineup models.Lineup, confidence float64, intent models.CanonicalIntent, history []models.HistoryEntry, feedback []models.FeedbackEntry) RankedResult {
	r := RankedResult{Lineup: lineup, BaseConfidence: confidence}

	r.RepeatPenalty = float64(similarity.RepeatCount(lineup.Signature, history)) * s.config.RepeatPenalty
	r.OverlapPenalty = similarity.MaxOverlap(lineup.ItemIDs, history) * s.config.OverlapPenaltyWeight
	r.StylePenalty = s.stylePenalty(idx, lineup, intent)
	r.FeedbackPenalty = s.feedbackPenalty(lineup, intent, feedback)

	r.FinalScore = confidence - r.RepeatPenalty - r.OverlapPenalty - r.StylePenalty - r.FeedbackPenalty
	r.Lineup.Confidence = s.config.ConfidenceBlend*confidence +
		(1-s.config.ConfidenceBlend)*lineup.MatchScore/100
	return r
}

// stylePenalty charges for each lineup item whose style tag misses
// every requested directive.
func (s *Selector) stylePenalty(idx *catalog.Index, lineup models.Lineup, intent models.CanonicalIntent) float64 {
	if len(intent.Style) == 0 {
		return 0
	}
	misses := 0
	for _, item := range lineupItems(idx, lineup) {
		if s.scorer.StyleDirectiveAdjust(item, intent.Style) < 0 {
			misses++
		}
	}
	return float64(misses) * s.config.StyleMismatchPenalty
}

// feedbackPenalty activates when this exact signature, or a lineup
// sharing most of its items, previously drew negative feedback under a
// similar weather/formality context.
func (s *Selector) feedbackPenalty(lineup models.Lineup, intent models.CanonicalIntent, feedback []models.FeedbackEntry) float64 {
	penalty := 0.0
	for _, f := range feedback {
		if f.Feedback >= 0 {
			continue
		}
		if !similarContext(f, intent) {
			continue
		}
		if f.Signature == lineup.Signature {
			penalty += s.config.FeedbackPenalty
			continue
		}
		if similarity.OverlapRatio(lineup.ItemIDs, f.ItemIDs) >= 0.5 {
			penalty += s.config.FeedbackPenalty / 2
		}
	}
	return penalty
}

// similarContext matches feedback rows whose recorded temp band or
// formality corresponds to the current intent. Rows without context
// always correlate.
func similarContext(f models.FeedbackEntry, intent models.CanonicalIntent) bool {
	if f.TempBand == "" && f.Formality == "" {
		return true
	}
	if f.TempBand != "" && f.TempBand == intent.WeatherProfile.TempBand {
		return true
	}
	return f.Formality != "" && f.Formality == intent.Formality
}

// Fallback builds a lineup directly via greedy per-category assignment
// over the full strict pool, with no generation step. It fails only
// when some required category has no constraint-passing item.
func (s *Selector) Fallback(idx *catalog.Index, intent models.CanonicalIntent, anchor *models.Anchor) (*models.Lineup, bool) {
	pool := composer.BuildPool(idx, s.eval, intent, constraint.StrictEnvelope())
	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), anchor, nil)
	if !outcome.OK() {
		return nil, false
	}
	return outcome.Lineup, true
}

// lineupItems resolves the lineup's items for style inspection.
// Unresolvable ids are skipped; validation already guaranteed
// existence for candidate lineups.
func lineupItems(idx *catalog.Index, lineup models.Lineup) []models.Item {
	items := make([]models.Item, 0, len(lineup.ItemIDs))
	for _, id := range lineup.ItemIDs {
		if item, ok := idx.Item(id); ok {
			items = append(items, item)
		}
	}
	return items
}
