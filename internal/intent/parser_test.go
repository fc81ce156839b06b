package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/lookbook/pkg/models"
)

func TestParse_FullPayload(t *testing.T) {
	payload := []byte(`{
		"weather": ["Cold", "windy"],
		"occasion": ["Work"],
		"place": ["office"],
		"time_of_day": ["day"],
		"formality": "smart",
		"style": ["minimal"],
		"notes": " layered look please ",
		"temperature_celsius": 3,
		"precipitation_type": "rain",
		"precipitation_level": "light",
		"wet_surface_risk": "medium",
		"confidence": 0.85
	}`)

	intent, err := Parse(payload)
	require.NoError(t, err)

	assert.Equal(t, []string{"cold", "windy"}, intent.Weather)
	assert.Equal(t, []string{"work"}, intent.Occasion)
	assert.Equal(t, "smart", intent.Formality)
	assert.Equal(t, "layered look please", intent.Notes)
	assert.Equal(t, models.TempCold, intent.WeatherProfile.TempBand)
	assert.Equal(t, models.RiskMedium, intent.WeatherProfile.WetSurfaceRisk)
	assert.InDelta(t, 0.85, intent.WeatherProfile.Confidence, 0.001)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"weather": `))
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestParse_MultiTagFormalityRejected(t *testing.T) {
	_, err := Parse([]byte(`{"formality": "smart casual"}`))
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"cold", "windy"}, normalizeTags([]string{" Cold ", "cold", "WINDY", ""}))
	assert.Nil(t, normalizeTags([]string{"", "  "}))
	assert.Nil(t, normalizeTags(nil))

	// Capped at four tags
	capped := normalizeTags([]string{"a", "b", "c", "d", "e"})
	assert.Len(t, capped, MaxTagsPerDimension)
}

func TestDeriveWeatherProfile_FreeTextFallback(t *testing.T) {
	raw := RawIntent{
		WeatherSummary: "Heavy rain and gusty winds expected all afternoon",
	}
	p := DeriveWeatherProfile(raw)

	assert.Equal(t, "rain", p.PrecipitationType)
	assert.Equal(t, "heavy", p.PrecipitationLevel)
	assert.Equal(t, "windy", p.WindBand)
	assert.Equal(t, models.RiskHigh, p.WetSurfaceRisk)
}

func TestDeriveWeatherProfile_StructuredFieldsWin(t *testing.T) {
	raw := RawIntent{
		WeatherSummary:     "rainy",
		PrecipitationType:  "snow",
		PrecipitationLevel: "light",
	}
	p := DeriveWeatherProfile(raw)

	assert.Equal(t, "snow", p.PrecipitationType)
	assert.Equal(t, models.RiskHigh, p.WetSurfaceRisk, "snow always grades high")
}

func TestDeriveWeatherProfile_ClearDay(t *testing.T) {
	temp := 22.0
	p := DeriveWeatherProfile(RawIntent{WeatherSummary: "Sunny and clear", TemperatureCelsius: &temp})

	assert.Equal(t, models.TempWarm, p.TempBand)
	assert.Equal(t, models.RiskLow, p.WetSurfaceRisk)
	assert.Empty(t, p.PrecipitationType)
}

func TestTempBandOf(t *testing.T) {
	assert.Equal(t, models.TempCold, TempBandOf(-3))
	assert.Equal(t, models.TempCold, TempBandOf(5))
	assert.Equal(t, models.TempCool, TempBandOf(10))
	assert.Equal(t, models.TempMild, TempBandOf(15))
	assert.Equal(t, models.TempWarm, TempBandOf(24))
	assert.Equal(t, models.TempHot, TempBandOf(31))
}

func TestDeriveProfile_FormalityAndMaterials(t *testing.T) {
	intent := models.CanonicalIntent{
		Occasion: []string{"wedding"},
		WeatherProfile: models.WeatherProfile{
			TempBand:       models.TempCold,
			WetSurfaceRisk: models.RiskHigh,
		},
	}
	d := DeriveProfile(intent)

	assert.Equal(t, "formal", d.Formality)
	assert.Contains(t, d.Styles, "classic")
	assert.Contains(t, d.Prefer, models.BucketInsulating)
	assert.Contains(t, d.Prefer, models.BucketTechnical)
	assert.Contains(t, d.Prefer, models.BucketRefined)
	assert.Contains(t, d.Avoid, models.BucketAbsorbent)
}

func TestDeriveProfile_ExplicitTagsSuppressDerivation(t *testing.T) {
	intent := models.CanonicalIntent{
		Occasion:  []string{"wedding"},
		Formality: "casual",
		Style:     []string{"street"},
	}
	d := DeriveProfile(intent)

	assert.Empty(t, d.Formality, "user formality wins, nothing derived")
	assert.Empty(t, d.Styles)
}
