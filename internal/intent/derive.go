package intent

import (
	"regexp"
	"strings"

	"github.com/thebtf/lookbook/pkg/models"
)

// Free-text weather vocabulary, used only when structured fields are
// absent from the payload.
var (
	heavyPrecipPattern = regexp.MustCompile(`(?i)\b(downpour|torrential|heavy (rain|snow)|thunderstorm|storm)\b`)
	rainPattern        = regexp.MustCompile(`(?i)\b(rain|drizzl|shower|wet)`)
	snowPattern        = regexp.MustCompile(`(?i)\b(snow|sleet|blizzard|flurr)`)
	windPattern        = regexp.MustCompile(`(?i)\b(wind|gust|breez|blustery)`)
	humidPattern       = regexp.MustCompile(`(?i)\b(humid|muggy|sticky|sultry)\b`)
)

// DeriveWeatherProfile builds the structured weather context from a raw
// payload, preferring structured fields and falling back to free-text
// detection over the summary.
func DeriveWeatherProfile(raw RawIntent) models.WeatherProfile {
	p := models.WeatherProfile{
		PrecipitationType:  strings.ToLower(raw.PrecipitationType),
		PrecipitationLevel: strings.ToLower(raw.PrecipitationLevel),
		WindBand:           strings.ToLower(raw.WindBand),
		HumidityBand:       strings.ToLower(raw.HumidityBand),
		WetSurfaceRisk:     models.RiskLevel(strings.ToLower(raw.WetSurfaceRisk)),
		Summary:            strings.TrimSpace(raw.WeatherSummary),
		Confidence:         raw.Confidence,
	}

	if raw.TemperatureCelsius != nil {
		p.TempBand = TempBandOf(*raw.TemperatureCelsius)
	}

	if p.PrecipitationType == "" || p.PrecipitationType == "none" {
		switch {
		case snowPattern.MatchString(p.Summary):
			p.PrecipitationType = "snow"
		case rainPattern.MatchString(p.Summary):
			p.PrecipitationType = "rain"
		}
		if p.PrecipitationType != "" && p.PrecipitationType != "none" && p.PrecipitationLevel == "" {
			p.PrecipitationLevel = "moderate"
			if heavyPrecipPattern.MatchString(p.Summary) {
				p.PrecipitationLevel = "heavy"
			}
		}
	}

	if p.WindBand == "" && windPattern.MatchString(p.Summary) {
		p.WindBand = "windy"
	}
	if p.HumidityBand == "" && humidPattern.MatchString(p.Summary) {
		p.HumidityBand = "humid"
	}

	if p.WetSurfaceRisk == "" {
		p.WetSurfaceRisk = deriveWetRisk(p)
	}
	if p.Confidence <= 0 {
		p.Confidence = 0.5
	}
	return p
}

// TempBandOf buckets a Celsius temperature into the five bands.
func TempBandOf(celsius float64) models.TempBand {
	switch {
	case celsius <= 5:
		return models.TempCold
	case celsius <= 12:
		return models.TempCool
	case celsius <= 19:
		return models.TempMild
	case celsius <= 26:
		return models.TempWarm
	default:
		return models.TempHot
	}
}

// deriveWetRisk grades wet-surface risk from precipitation: heavy
// rain/snow or any snow means high, lighter rain medium, otherwise low.
func deriveWetRisk(p models.WeatherProfile) models.RiskLevel {
	if !p.WetPrecipitation() {
		return models.RiskLow
	}
	if p.PrecipitationLevel == "heavy" || p.PrecipitationType == "snow" || p.PrecipitationType == "sleet" {
		return models.RiskHigh
	}
	return models.RiskMedium
}

// Occasion/place vocabulary for formality and style inference.
var (
	formalVocabulary = []string{"wedding", "ceremony", "gala", "formal", "interview", "business"}
	smartVocabulary  = []string{"work", "office", "dinner", "date", "gallery", "theatre", "theater"}
	casualVocabulary = []string{"weekend", "errand", "casual", "brunch", "park"}
	activeVocabulary = []string{"hike", "hiking", "trail", "run", "gym", "camping", "outdoor"}
)

// DeriveProfile infers formality, style leanings and material buckets
// from the validated intent. Explicit user tags always win; derivation
// only fills what the user left unstated.
func DeriveProfile(intent models.CanonicalIntent) models.DerivedProfile {
	d := models.DerivedProfile{}

	context := append(append([]string{}, intent.Occasion...), intent.Place...)
	if intent.Formality == "" {
		switch {
		case matchesVocab(context, formalVocabulary):
			d.Formality = "formal"
		case matchesVocab(context, smartVocabulary):
			d.Formality = "smart"
		case matchesVocab(context, casualVocabulary):
			d.Formality = "casual"
		}
	}

	if len(intent.Style) == 0 {
		switch {
		case matchesVocab(context, activeVocabulary):
			d.Styles = []string{"outdoor", "sporty"}
		case d.Formality == "formal" || d.Formality == "smart":
			d.Styles = []string{"classic", "minimal"}
		}
	}

	switch intent.WeatherProfile.TempBand {
	case models.TempHot, models.TempWarm:
		d.Prefer = append(d.Prefer, models.BucketBreathable)
		d.Avoid = append(d.Avoid, models.BucketInsulating)
	case models.TempCold, models.TempCool:
		d.Prefer = append(d.Prefer, models.BucketInsulating)
	}

	switch intent.WeatherProfile.WetSurfaceRisk {
	case models.RiskMedium, models.RiskHigh:
		d.Prefer = append(d.Prefer, models.BucketTechnical)
		d.Avoid = append(d.Avoid, models.BucketAbsorbent)
	}

	if d.Formality == "formal" || d.Formality == "smart" {
		d.Prefer = append(d.Prefer, models.BucketRefined)
	}
	if matchesVocab(context, activeVocabulary) {
		d.Prefer = append(d.Prefer, models.BucketRugged)
	}

	return d
}

func matchesVocab(tags, vocabulary []string) bool {
	for _, t := range tags {
		for _, v := range vocabulary {
			if strings.Contains(t, v) {
				return true
			}
		}
	}
	return false
}
