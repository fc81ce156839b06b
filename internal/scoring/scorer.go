// Package scoring provides soft-match score calculation for wardrobe
// items that have already passed the hard constraints.
package scoring

import (
	"strings"

	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/material"
	"github.com/thebtf/lookbook/pkg/models"
)

// refinedVocabulary marks occasion/place tags that signal dressed-up
// contexts, shifting the material term toward refined fabrics.
var refinedVocabulary = []string{
	"work", "office", "formal", "business", "wedding", "dinner",
	"date", "gallery", "theatre", "theater", "ceremony",
}

// ruggedVocabulary marks occasion/place tags that signal outdoor or
// rough-use contexts, shifting the material term toward technical and
// rugged fabrics.
var ruggedVocabulary = []string{
	"hike", "hiking", "trail", "outdoor", "camping", "festival",
	"park", "beach", "travel", "transit",
}

// Scorer computes soft-match scores for constraint-passing items.
type Scorer struct {
	config *models.ScoringConfig
}

// NewScorer creates a new scorer.
// If config is nil, uses the default configuration.
func NewScorer(config *models.ScoringConfig) *Scorer {
	if config == nil {
		config = models.DefaultScoringConfig()
	}
	return &Scorer{config: config}
}

// Config returns the current scoring configuration.
func (s *Scorer) Config() *models.ScoringConfig {
	return s.config
}

// Score computes the base soft-match score for an item. Callers layer
// favorite, novelty and anchor bonuses on top of this value.
func (s *Scorer) Score(item models.Item, category models.Category, intent models.CanonicalIntent) float64 {
	return s.Components(item, category, intent).Total
}

// ScoreComponents contains the breakdown of a soft-match score.
type ScoreComponents struct {
	WeatherTerm   float64 `json:"weather_term"`
	OccasionTerm  float64 `json:"occasion_term"`
	PlaceTerm     float64 `json:"place_term"`
	TimeOfDayTerm float64 `json:"time_of_day_term"`
	FormalityTerm float64 `json:"formality_term"`
	StyleTerm     float64 `json:"style_term"`
	MaterialTerm  float64 `json:"material_term"`
	Total         float64 `json:"total"`
}

// Components returns the individual terms of the soft-match score.
// Useful for debugging and explaining rankings.
//
// The additive formula:
//
//	Total = Weather(+40) + Occasion(+24) + Place(+24) + TimeOfDay(+10)
//	      + Formality(+8) + Style(+6) + MaterialTerm
//
// Dimension terms pay their full weight on a tag intersection and
// nothing otherwise; empty intent dimensions contribute nothing. The
// material term is the bucket-share adjustment described on
// materialTerm, scaled by MaterialWeight.
func (s *Scorer) Components(item models.Item, category models.Category, intent models.CanonicalIntent) ScoreComponents {
	c := ScoreComponents{}

	if len(intent.Weather) > 0 && constraint.TagsMatch(item.Weather, intent.Weather) {
		c.WeatherTerm = s.config.WeatherWeight
	}
	if len(intent.Occasion) > 0 && constraint.TagsMatch(item.Occasions, intent.Occasion) {
		c.OccasionTerm = s.config.OccasionWeight
	}
	if len(intent.Place) > 0 && constraint.TagsMatch(item.Places, intent.Place) {
		c.PlaceTerm = s.config.PlaceWeight
	}
	if len(intent.TimeOfDay) > 0 && constraint.TagsMatch(item.TimesOfDay, intent.TimeOfDay) {
		c.TimeOfDayTerm = s.config.TimeOfDayWeight
	}

	formality := intent.Formality
	if formality == "" {
		formality = intent.Derived.Formality
	}
	if formality != "" && strings.EqualFold(item.Formality, formality) {
		c.FormalityTerm = s.config.FormalityWeight
	}

	styles := intent.Style
	if len(styles) == 0 {
		styles = intent.Derived.Styles
	}
	if len(styles) > 0 && tagIn(item.StyleTag, styles) {
		c.StyleTerm = s.config.StyleWeight
	}

	c.MaterialTerm = s.materialTerm(item, category, intent)

	c.Total = c.WeatherTerm + c.OccasionTerm + c.PlaceTerm +
		c.TimeOfDayTerm + c.FormalityTerm + c.StyleTerm + c.MaterialTerm
	return c
}

// materialTerm computes the material-intent adjustment from the item's
// weight-normalized bucket shares:
//
//   - temperature band: favor breathable in hot/warm, insulating in
//     cold/cool (full weight at the extremes, half in between)
//   - wet-surface risk: favor technical and penalize absorbent, but
//     only for outerwear and footwear
//   - occasion/place vocabulary: refined contexts reward refined over
//     rugged fabrics; outdoor contexts reward technical and rugged
//   - derived-profile prefer/avoid buckets override on top
func (s *Scorer) materialTerm(item models.Item, category models.Category, intent models.CanonicalIntent) float64 {
	shares := material.Shares(item.Materials)
	if len(shares) == 0 {
		return 0
	}
	w := s.config.MaterialWeight
	term := 0.0

	switch intent.WeatherProfile.TempBand {
	case models.TempHot:
		term += shares[models.BucketBreathable] * w
		term -= shares[models.BucketInsulating] * w
	case models.TempWarm:
		term += shares[models.BucketBreathable] * w / 2
		term -= shares[models.BucketInsulating] * w / 2
	case models.TempCool:
		term += shares[models.BucketInsulating] * w / 2
		term -= shares[models.BucketBreathable] * w / 2
	case models.TempCold:
		term += shares[models.BucketInsulating] * w
		term -= shares[models.BucketBreathable] * w
	}

	risk := intent.WeatherProfile.WetSurfaceRisk
	if (risk == models.RiskMedium || risk == models.RiskHigh) &&
		(category == models.CategoryOuterwear || category == models.CategoryFootwear) {
		term += shares[models.BucketTechnical] * w
		term -= shares[models.BucketAbsorbent] * w
	}

	context := append(append([]string{}, intent.Occasion...), intent.Place...)
	if containsAny(context, refinedVocabulary) {
		term += shares[models.BucketRefined] * w
		term -= shares[models.BucketRugged] * w / 2
	}
	if containsAny(context, ruggedVocabulary) {
		term += shares[models.BucketTechnical] * w / 2
		term += shares[models.BucketRugged] * w / 2
	}

	for _, b := range intent.Derived.Prefer {
		term += shares[b] * w
	}
	for _, b := range intent.Derived.Avoid {
		term -= shares[b] * w
	}

	return term
}

// StyleDirectiveAdjust applies the caller-supplied style directive
// bonus: +StyleDirectiveBonus when the garment style matches any
// requested tag, -StyleDirectivePenalty otherwise. No directives, no
// adjustment.
func (s *Scorer) StyleDirectiveAdjust(item models.Item, directives []string) float64 {
	if len(directives) == 0 {
		return 0
	}
	if tagIn(item.StyleTag, directives) {
		return s.config.StyleDirectiveBonus
	}
	return -s.config.StyleDirectivePenalty
}

// FavoriteBonus returns the favorite tie-break bonus for an item.
func (s *Scorer) FavoriteBonus(item models.Item) float64 {
	if item.Favorite {
		return s.config.FavoriteBonus
	}
	return 0
}

// MatchScore computes the 0-100 dimension-averaged ratio score for a
// set of lineup items: per item, the fraction of non-empty intent
// dimensions it matches, averaged across the lineup.
func (s *Scorer) MatchScore(items []models.Item, intent models.CanonicalIntent) float64 {
	if len(items) == 0 {
		return 0
	}

	total := 0.0
	for _, item := range items {
		matched, considered := 0, 0

		dims := []struct {
			itemTags   []string
			intentTags []string
		}{
			{item.Weather, intent.Weather},
			{item.Occasions, intent.Occasion},
			{item.Places, intent.Place},
			{item.TimesOfDay, intent.TimeOfDay},
		}
		for _, d := range dims {
			if len(d.intentTags) == 0 {
				continue
			}
			considered++
			if constraint.TagsMatch(d.itemTags, d.intentTags) {
				matched++
			}
		}
		if intent.Formality != "" {
			considered++
			if strings.EqualFold(item.Formality, intent.Formality) {
				matched++
			}
		}
		if len(intent.Style) > 0 {
			considered++
			if tagIn(item.StyleTag, intent.Style) {
				matched++
			}
		}

		if considered == 0 {
			// Nothing to measure against: count as a full match
			total += 1.0
			continue
		}
		total += float64(matched) / float64(considered)
	}

	return total / float64(len(items)) * 100
}

func tagIn(tag string, tags []string) bool {
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(tag), strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

func containsAny(tags, vocabulary []string) bool {
	for _, t := range tags {
		lower := strings.ToLower(t)
		for _, v := range vocabulary {
			if strings.Contains(lower, v) {
				return true
			}
		}
	}
	return false
}
