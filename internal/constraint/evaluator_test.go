package constraint

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/thebtf/lookbook/pkg/models"
)

// EvaluatorSuite is a test suite for the hard-constraint evaluator.
type EvaluatorSuite struct {
	suite.Suite
	eval *Evaluator
}

func (s *EvaluatorSuite) SetupTest() {
	s.eval = NewEvaluator(models.DefaultWetSafetyConfig())
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func wetIntent(risk models.RiskLevel) models.CanonicalIntent {
	return models.CanonicalIntent{
		WeatherProfile: models.WeatherProfile{
			WetSurfaceRisk:     risk,
			PrecipitationType:  "rain",
			PrecipitationLevel: "moderate",
		},
	}
}

// =============================================================================
// GOOD SCENARIOS - Expected normal operations
// =============================================================================

func (s *EvaluatorSuite) TestEvaluate_GoodScenarios_AllDimensionsMatch() {
	item := models.Item{
		ID:        1,
		Weather:   []string{"cold"},
		Occasions: []string{"work"},
		Places:    []string{"office"},
	}
	intent := models.CanonicalIntent{
		Weather:  []string{"cold"},
		Occasion: []string{"work"},
		Place:    []string{"office"},
	}

	res := s.eval.Evaluate(item, models.CategoryTop, intent)

	s.True(res.Passes)
	s.Empty(res.Reasons)
	s.Equal(RainNotApplicable, res.Readiness)
}

func (s *EvaluatorSuite) TestEvaluate_GoodScenarios_EmptyIntentPassesEverything() {
	item := models.Item{ID: 1, Weather: []string{"hot"}}

	res := s.eval.Evaluate(item, models.CategoryTop, models.CanonicalIntent{})

	s.True(res.Passes)
}

func (s *EvaluatorSuite) TestEvaluate_GoodScenarios_AllSeasonAliasMatchesAnyWeather() {
	item := models.Item{ID: 1, Weather: []string{"all season"}}
	intent := models.CanonicalIntent{Weather: []string{"cold", "windy"}}

	s.True(s.eval.Evaluate(item, models.CategoryTop, intent).Passes)
}

// =============================================================================
// BAD SCENARIOS - Constraint failures
// =============================================================================

func (s *EvaluatorSuite) TestEvaluate_BadScenarios_ReportsEveryFailedDimension() {
	item := models.Item{
		ID:        1,
		Weather:   []string{"hot"},
		Occasions: []string{"beach"},
		Places:    []string{"coast"},
	}
	intent := models.CanonicalIntent{
		Weather:  []string{"cold"},
		Occasion: []string{"work"},
		Place:    []string{"office"},
	}

	res := s.eval.Evaluate(item, models.CategoryTop, intent)

	s.False(res.Passes)
	s.ElementsMatch(
		[]models.FailReason{models.FailWeather, models.FailOccasion, models.FailPlace},
		res.Reasons,
	)
}

func (s *EvaluatorSuite) TestScore_BadScenarios_FailingItemGetsSentinel() {
	item := models.Item{ID: 1, Weather: []string{"hot"}}
	intent := models.CanonicalIntent{Weather: []string{"cold"}}

	s.Equal(models.FailScore, s.eval.Score(item, models.CategoryTop, intent))
	s.Zero(s.eval.Score(item, models.CategoryTop, models.CanonicalIntent{}))
}

// =============================================================================
// WET-WEATHER GATE
// =============================================================================

func (s *EvaluatorSuite) TestWetGate_ActivatesOnlyWithRiskAndPrecipitation() {
	s.False(WetGateActive(models.WeatherProfile{WetSurfaceRisk: models.RiskLow, PrecipitationType: "rain", PrecipitationLevel: "heavy"}))
	s.False(WetGateActive(models.WeatherProfile{WetSurfaceRisk: models.RiskHigh, PrecipitationType: "none"}))
	s.True(WetGateActive(models.WeatherProfile{WetSurfaceRisk: models.RiskHigh, PrecipitationType: "rain", PrecipitationLevel: "light"}))
}

func (s *EvaluatorSuite) TestWetGate_DetectsRainVocabularyInSummary() {
	profile := models.WeatherProfile{
		WetSurfaceRisk: models.RiskMedium,
		Summary:        "Overcast with scattered showers through the afternoon",
	}
	s.True(WetGateActive(profile))

	profile.Summary = "Clear skies all day"
	s.False(WetGateActive(profile))
}

func (s *EvaluatorSuite) TestWetGate_AppliesOnlyToOuterwearAndFootwear() {
	// A fully absorbent cotton item with no technical backing
	item := models.Item{
		ID:        1,
		Type:      "tee",
		Materials: []models.MaterialPart{{Material: "cotton", Percentage: 100}},
	}
	intent := wetIntent(models.RiskHigh)

	// Tops and bottoms never face the gate
	s.True(s.eval.Evaluate(item, models.CategoryTop, intent).Passes)
	s.True(s.eval.Evaluate(item, models.CategoryBottom, intent).Passes)

	// The same composition fails as outerwear
	item.Type = "overshirt"
	res := s.eval.Evaluate(item, models.CategoryOuterwear, intent)
	s.False(res.Passes)
	s.Equal(RainNotReady, res.Readiness)
}

func (s *EvaluatorSuite) TestRainReadiness_FeaturesVocabulary() {
	item := models.Item{
		ID:       1,
		Type:     "parka",
		Features: "Waterproof shell with sealed seams",
	}
	s.Equal(RainReady, s.eval.RainReadiness(item, models.RiskHigh))
}

func (s *EvaluatorSuite) TestRainReadiness_TechnicalDominantMix() {
	item := models.Item{
		ID:   1,
		Type: "jacket",
		Materials: []models.MaterialPart{
			{Material: "nylon", Percentage: 70},
			{Material: "cotton", Percentage: 30},
		},
	}
	s.Equal(RainReady, s.eval.RainReadiness(item, models.RiskHigh))
}

func (s *EvaluatorSuite) TestRainReadiness_NonRainArchetypeWithoutBacking() {
	item := models.Item{
		ID:        1,
		Type:      "canvas sneaker",
		Materials: []models.MaterialPart{{Material: "canvas", Percentage: 100}},
	}
	s.Equal(RainNotReady, s.eval.RainReadiness(item, models.RiskMedium))

	// Technical backing rescues the archetype
	item.Materials = []models.MaterialPart{
		{Material: "canvas", Percentage: 60},
		{Material: "gore-tex", Percentage: 40},
	}
	s.Equal(RainReady, s.eval.RainReadiness(item, models.RiskMedium))
}

func (s *EvaluatorSuite) TestRainReadiness_AbsorbentCutoffDependsOnRisk() {
	// 50% cotton: under the 0.6 medium cutoff, over the 0.45 high cutoff
	item := models.Item{
		ID:   1,
		Type: "chukka boot",
		Materials: []models.MaterialPart{
			{Material: "cotton", Percentage: 50},
			{Material: "leather", Percentage: 50},
		},
	}
	s.Equal(RainReady, s.eval.RainReadiness(item, models.RiskMedium))
	s.Equal(RainNotReady, s.eval.RainReadiness(item, models.RiskHigh))
}

// =============================================================================
// TAG MATCHING EDGE CASES
// =============================================================================

func (s *EvaluatorSuite) TestTagsMatch_CaseAndWhitespaceInsensitive() {
	s.True(TagsMatch([]string{" Cold "}, []string{"cold"}))
	s.True(TagsMatch([]string{"ALL SEASON"}, []string{"hot"}))
	s.False(TagsMatch([]string{"mild"}, []string{"cold"}))
	s.False(TagsMatch(nil, []string{"cold"}))
	s.True(TagsMatch(nil, nil))
}
