// Package intent validates the raw interpreter payload into a
// CanonicalIntent exactly once at the boundary. The engine never
// re-inspects loose JSON shapes; everything downstream consumes the
// typed value produced here.
package intent

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/thebtf/lookbook/pkg/models"
)

// MaxTagsPerDimension caps each intent tag set.
const MaxTagsPerDimension = 4

// ErrInvalidIntent wraps all boundary validation failures.
var ErrInvalidIntent = errors.New("invalid intent payload")

// RawIntent mirrors the interpreter's JSON output before validation.
// Weather context may arrive structured, as a free-text summary, or
// both; the summary only fills gaps the structured fields leave.
type RawIntent struct {
	Weather   []string `json:"weather"`
	Occasion  []string `json:"occasion"`
	Place     []string `json:"place"`
	TimeOfDay []string `json:"time_of_day"`
	Formality string   `json:"formality"`
	Style     []string `json:"style"`
	Notes     string   `json:"notes"`

	WeatherSummary     string   `json:"weather_summary"`
	TemperatureCelsius *float64 `json:"temperature_celsius"`
	PrecipitationType  string   `json:"precipitation_type"`
	PrecipitationLevel string   `json:"precipitation_level"`
	WindBand           string   `json:"wind_band"`
	HumidityBand       string   `json:"humidity_band"`
	WetSurfaceRisk     string   `json:"wet_surface_risk"`
	Confidence         float64  `json:"confidence"`
}

// Parse decodes and validates a raw payload into a CanonicalIntent,
// deriving the weather and preference profiles along the way.
func Parse(payload []byte) (models.CanonicalIntent, error) {
	var raw RawIntent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.CanonicalIntent{}, fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}
	return FromRaw(raw)
}

// FromRaw validates an already-decoded payload.
func FromRaw(raw RawIntent) (models.CanonicalIntent, error) {
	intent := models.CanonicalIntent{
		Weather:   normalizeTags(raw.Weather),
		Occasion:  normalizeTags(raw.Occasion),
		Place:     normalizeTags(raw.Place),
		TimeOfDay: normalizeTags(raw.TimeOfDay),
		Formality: strings.ToLower(strings.TrimSpace(raw.Formality)),
		Style:     normalizeTags(raw.Style),
		Notes:     strings.TrimSpace(raw.Notes),
	}

	if strings.ContainsAny(intent.Formality, ", ") {
		return models.CanonicalIntent{}, fmt.Errorf("%w: formality must be a single tag", ErrInvalidIntent)
	}

	intent.WeatherProfile = DeriveWeatherProfile(raw)
	intent.Derived = DeriveProfile(intent)
	return intent, nil
}

// normalizeTags lowercases, trims, deduplicates and caps a tag set.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == MaxTagsPerDimension {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
