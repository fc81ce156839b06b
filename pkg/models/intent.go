package models

// TempBand buckets target temperature into five coarse bands.
type TempBand string

const (
	TempCold TempBand = "cold"
	TempCool TempBand = "cool"
	TempMild TempBand = "mild"
	TempWarm TempBand = "warm"
	TempHot  TempBand = "hot"
)

// RiskLevel grades wet-surface risk for the wet-weather safety gate.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// WeatherProfile is the structured weather context derived once at the
// boundary (from forecast data or a free-text summary) and treated as
// immutable by the engine.
type WeatherProfile struct {
	TempBand           TempBand  `json:"temp_band"`
	PrecipitationLevel string    `json:"precipitation_level"` // none|light|moderate|heavy
	PrecipitationType  string    `json:"precipitation_type"`  // none|rain|snow|sleet
	WindBand           string    `json:"wind_band"`           // calm|breezy|windy
	HumidityBand       string    `json:"humidity_band"`       // dry|moderate|humid
	WetSurfaceRisk     RiskLevel `json:"wet_surface_risk"`
	Summary            string    `json:"summary,omitempty"` // original free text, display only
	Confidence         float64   `json:"confidence"`
}

// WetPrecipitation reports whether the profile carries non-trivial
// precipitation, the second arm of the wet-safety activation test.
func (w WeatherProfile) WetPrecipitation() bool {
	switch w.PrecipitationType {
	case "rain", "snow", "sleet":
		return w.PrecipitationLevel != "" && w.PrecipitationLevel != "none"
	}
	return false
}

// MaterialBucket names one of the six material affinity groups used by
// the material-intent scoring term.
type MaterialBucket string

const (
	BucketBreathable MaterialBucket = "breathable"
	BucketInsulating MaterialBucket = "insulating"
	BucketTechnical  MaterialBucket = "technical"
	BucketRefined    MaterialBucket = "refined"
	BucketRugged     MaterialBucket = "rugged"
	BucketAbsorbent  MaterialBucket = "absorbent"
)

// MaterialBuckets lists all buckets in a stable order.
var MaterialBuckets = []MaterialBucket{
	BucketBreathable, BucketInsulating, BucketTechnical,
	BucketRefined, BucketRugged, BucketAbsorbent,
}

// DerivedProfile holds preferences inferred from the intent rather than
// stated by the user: formality and style guesses plus material buckets
// to prefer or avoid.
type DerivedProfile struct {
	Formality string           `json:"formality,omitempty"`
	Styles    []string         `json:"styles,omitempty"`
	Prefer    []MaterialBucket `json:"prefer,omitempty"`
	Avoid     []MaterialBucket `json:"avoid,omitempty"`
}

// CanonicalIntent is the fully validated request intent. It is produced
// exactly once at the boundary (internal/intent) from the raw
// interpreter payload and never re-inspected ad hoc inside the engine.
type CanonicalIntent struct {
	Weather   []string `json:"weather,omitempty"`
	Occasion  []string `json:"occasion,omitempty"`
	Place     []string `json:"place,omitempty"`
	TimeOfDay []string `json:"time_of_day,omitempty"`
	Formality string   `json:"formality,omitempty"`
	Style     []string `json:"style,omitempty"`
	Notes     string   `json:"notes,omitempty"` // display only

	WeatherProfile WeatherProfile `json:"weather_profile"`
	Derived        DerivedProfile `json:"derived_profile"`
}

// AnchorMode selects how an anchor item is honored during assignment.
type AnchorMode string

const (
	// AnchorStrict pins the anchor into its slot; failing to honor it
	// fails the whole assignment.
	AnchorStrict AnchorMode = "strict"
	// AnchorSoft only grants the anchor a scoring bonus.
	AnchorSoft AnchorMode = "soft"
)

// Anchor is an optional caller-pinned item for a lineup.
type Anchor struct {
	ItemID int64      `json:"item_id"`
	Mode   AnchorMode `json:"mode"`
}
