// Package constraint implements the hard compatibility rules an item
// must satisfy before scoring: weather, occasion, place and the
// wet-weather safety gate.
package constraint

import (
	"regexp"
	"strings"

	"github.com/thebtf/lookbook/internal/material"
	"github.com/thebtf/lookbook/pkg/models"
)

// RainReadiness is the ternary result of the wet-weather gate.
type RainReadiness int

const (
	// RainNotApplicable means the gate did not activate for this item.
	RainNotApplicable RainReadiness = iota
	// RainReady means the item is safe for wet conditions.
	RainReady
	// RainNotReady means the item fails the wet-weather gate.
	RainNotReady
)

// Result is the outcome of evaluating one item against the hard rules.
type Result struct {
	Passes    bool
	Reasons   []models.FailReason
	Readiness RainReadiness
}

// precipPattern detects rain/snow vocabulary in free-text weather
// summaries when no structured precipitation fields are present.
var precipPattern = regexp.MustCompile(`(?i)\b(rain|rainy|drizzle|shower|downpour|snow|sleet|storm|thunder|wet)\b`)

// rainReadyPattern matches explicit rain-readiness vocabulary in an
// item's features text.
var rainReadyPattern = regexp.MustCompile(`(?i)\b(waterproof|water[- ]resistant|water[- ]repellent|gore[- ]?tex|sealed seams?|taped seams?|dwr|membrane|rubber(ized)?|storm flap)\b`)

// nonRainArchetypes are type keywords that fail the gate unless the
// item carries technical material backing.
var nonRainArchetypes = []string{
	"overshirt", "sneaker", "trainer", "espadrille", "loafer",
	"canvas", "suede", "blazer", "cardigan", "knit",
}

// Evaluator applies the hard constraint rules. It is stateless apart
// from its threshold configuration and safe for concurrent use.
type Evaluator struct {
	wet *models.WetSafetyConfig
}

// NewEvaluator creates an evaluator. A nil config uses the defaults.
func NewEvaluator(wet *models.WetSafetyConfig) *Evaluator {
	if wet == nil {
		wet = models.DefaultWetSafetyConfig()
	}
	return &Evaluator{wet: wet}
}

// Evaluate checks every hard rule independently and reports all
// failures, not just the first. The category decides whether the
// wet-weather gate applies.
func (e *Evaluator) Evaluate(item models.Item, category models.Category, intent models.CanonicalIntent) Result {
	res := Result{Passes: true, Readiness: RainNotApplicable}

	if !TagsMatch(item.Weather, intent.Weather) {
		res.Passes = false
		res.Reasons = append(res.Reasons, models.FailWeather)
	}
	if !TagsMatch(item.Occasions, intent.Occasion) {
		res.Passes = false
		res.Reasons = append(res.Reasons, models.FailOccasion)
	}
	if !TagsMatch(item.Places, intent.Place) {
		res.Passes = false
		res.Reasons = append(res.Reasons, models.FailPlace)
	}

	if WetGateActive(intent.WeatherProfile) && gatedCategory(category) {
		res.Readiness = e.RainReadiness(item, intent.WeatherProfile.WetSurfaceRisk)
		if res.Readiness == RainNotReady {
			res.Passes = false
			res.Reasons = append(res.Reasons, models.FailWetUnsafe)
		}
	}

	return res
}

// Score returns the item's eligibility as a score floor: FailScore for
// failing items so they can never outrank a barely-passing alternative,
// zero otherwise.
func (e *Evaluator) Score(item models.Item, category models.Category, intent models.CanonicalIntent) float64 {
	if !e.Evaluate(item, category, intent).Passes {
		return models.FailScore
	}
	return 0
}

// WetGateActive reports whether the wet-weather gate applies at all:
// wet-surface risk must be medium or high AND precipitation must be
// non-trivial, taken from the structured profile or detected in the
// free-text summary.
func WetGateActive(w models.WeatherProfile) bool {
	if w.WetSurfaceRisk != models.RiskMedium && w.WetSurfaceRisk != models.RiskHigh {
		return false
	}
	if w.WetPrecipitation() {
		return true
	}
	return precipPattern.MatchString(w.Summary)
}

// gatedCategory reports whether the wet gate applies to this category.
// Only outer layers and footwear face the weather directly.
func gatedCategory(c models.Category) bool {
	return c == models.CategoryOuterwear || c == models.CategoryFootwear
}

// RainReadiness classifies an item under the wet-weather gate:
//
//  1. Explicit rain vocabulary in features, or a technical-dominant
//     material mix, makes it rain-ready.
//  2. A known non-rain archetype without technical backing is not ready.
//  3. An absorbent-dominant mix (cutoff depends on risk level) with low
//     technical share is not ready.
//  4. Anything else passes.
func (e *Evaluator) RainReadiness(item models.Item, risk models.RiskLevel) RainReadiness {
	shares := material.Shares(item.Materials)
	technical := shares[models.BucketTechnical]
	absorbent := shares[models.BucketAbsorbent]

	if rainReadyPattern.MatchString(item.Features) {
		return RainReady
	}
	if technical >= e.wet.TechnicalDominantShare {
		return RainReady
	}

	itemType := strings.ToLower(item.Type)
	for _, archetype := range nonRainArchetypes {
		if strings.Contains(itemType, archetype) && technical < e.wet.TechnicalBackingShare {
			return RainNotReady
		}
	}

	cutoff := e.wet.AbsorbentCutoffMedium
	if risk == models.RiskHigh {
		cutoff = e.wet.AbsorbentCutoffHigh
	}
	if absorbent > cutoff && technical < e.wet.TechnicalBackingShare {
		return RainNotReady
	}

	return RainReady
}

// TagsMatch implements the set-intersection rule shared by the weather,
// occasion and place constraints: an empty intent dimension passes
// everything, a catalog-wide alias on the item passes everything, and
// otherwise at least one tag must intersect.
func TagsMatch(itemTags, intentTags []string) bool {
	if len(intentTags) == 0 {
		return true
	}
	for _, t := range itemTags {
		if models.TagAliases[strings.ToLower(strings.TrimSpace(t))] {
			return true
		}
	}
	for _, want := range intentTags {
		for _, have := range itemTags {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}
