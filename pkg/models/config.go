package models

// FailScore is the sentinel returned for items that fail any hard
// constraint. It is large and negative so a failing item can never
// outrank a barely-passing alternative, even under scoring noise.
const FailScore = -1e9

// ScoringConfig holds the weights for the additive soft-match score.
// The values are empirically tuned; treat them as named constants to
// override, not numbers to re-derive.
type ScoringConfig struct {
	WeatherWeight   float64 `json:"weather_weight"`
	OccasionWeight  float64 `json:"occasion_weight"`
	PlaceWeight     float64 `json:"place_weight"`
	TimeOfDayWeight float64 `json:"time_of_day_weight"`
	FormalityWeight float64 `json:"formality_weight"`
	StyleWeight     float64 `json:"style_weight"`

	// Style directive adjustments applied when the caller supplies
	// explicit style tags: bonus on match, small penalty otherwise.
	StyleDirectiveBonus   float64 `json:"style_directive_bonus"`
	StyleDirectivePenalty float64 `json:"style_directive_penalty"`

	// FavoriteBonus is the tie-break nudge for favorited items.
	FavoriteBonus float64 `json:"favorite_bonus"`

	// NoveltyBonus rewards items unseen in recent history during
	// diversity repair.
	NoveltyBonus float64 `json:"novelty_bonus"`

	// AnchorSoftBonus is added to a soft-mode anchor item's score.
	AnchorSoftBonus float64 `json:"anchor_soft_bonus"`

	// MaterialWeight scales the aggregate material-intent term.
	MaterialWeight float64 `json:"material_weight"`
}

// DefaultScoringConfig returns the tuned default weights.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		WeatherWeight:         40,
		OccasionWeight:        24,
		PlaceWeight:           24,
		TimeOfDayWeight:       10,
		FormalityWeight:       8,
		StyleWeight:           6,
		StyleDirectiveBonus:   8,
		StyleDirectivePenalty: 2,
		FavoriteBonus:         3,
		NoveltyBonus:          5,
		AnchorSoftBonus:       12,
		MaterialWeight:        10,
	}
}

// WetSafetyConfig holds the wet-weather gate thresholds. The absorbent
// cutoffs (0.6 at medium risk, 0.45 at high) come from the tuned source
// values; they have no documented derivation, so keep them overridable.
type WetSafetyConfig struct {
	// AbsorbentCutoffMedium is the absorbent-material share above which
	// an item fails the gate at medium wet-surface risk.
	AbsorbentCutoffMedium float64 `json:"absorbent_cutoff_medium"`
	// AbsorbentCutoffHigh is the same cutoff at high risk.
	AbsorbentCutoffHigh float64 `json:"absorbent_cutoff_high"`
	// TechnicalDominantShare is the technical-material share at or above
	// which an item counts as rain-ready regardless of features text.
	TechnicalDominantShare float64 `json:"technical_dominant_share"`
	// TechnicalBackingShare is the minimum technical share that excuses
	// a non-rain archetype or a high absorbent share.
	TechnicalBackingShare float64 `json:"technical_backing_share"`
}

// DefaultWetSafetyConfig returns the tuned gate thresholds.
func DefaultWetSafetyConfig() *WetSafetyConfig {
	return &WetSafetyConfig{
		AbsorbentCutoffMedium:  0.6,
		AbsorbentCutoffHigh:    0.45,
		TechnicalDominantShare: 0.5,
		TechnicalBackingShare:  0.3,
	}
}

// DiversityConfig controls repeat avoidance and lineup repair.
type DiversityConfig struct {
	// OverlapThreshold is the maximum tolerated Jaccard overlap against
	// history before repair is attempted.
	OverlapThreshold float64 `json:"overlap_threshold"`
	// HistoryWindow is how many recent lineups participate in overlap
	// checks during sequence planning.
	HistoryWindow int `json:"history_window"`
}

// DefaultDiversityConfig returns the default diversity settings.
func DefaultDiversityConfig() *DiversityConfig {
	return &DiversityConfig{
		OverlapThreshold: 0.8,
		HistoryWindow:    4,
	}
}

// RerankConfig holds the penalty weights for candidate reranking.
type RerankConfig struct {
	// RepeatPenalty is charged per prior history row sharing the exact
	// signature.
	RepeatPenalty float64 `json:"repeat_penalty"`
	// OverlapPenaltyWeight scales the max overlap ratio against recent
	// history into a penalty.
	OverlapPenaltyWeight float64 `json:"overlap_penalty_weight"`
	// StyleMismatchPenalty is charged per lineup item whose style
	// misses every requested directive tag.
	StyleMismatchPenalty float64 `json:"style_mismatch_penalty"`
	// FeedbackPenalty is charged when this signature (or an overlapping
	// item set) previously drew negative feedback in a similar
	// weather/formality context.
	FeedbackPenalty float64 `json:"feedback_penalty"`
	// ConfidenceBlend weighs generator confidence against match score
	// when producing the output confidence: blend*conf + (1-blend)*match.
	ConfidenceBlend float64 `json:"confidence_blend"`
}

// DefaultRerankConfig returns the default rerank penalties.
func DefaultRerankConfig() *RerankConfig {
	return &RerankConfig{
		RepeatPenalty:        0.15,
		OverlapPenaltyWeight: 0.25,
		StyleMismatchPenalty: 0.05,
		FeedbackPenalty:      0.2,
		ConfidenceBlend:      0.6,
	}
}
