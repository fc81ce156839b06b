// Package models contains domain models for lookbook.
package models

// Category represents the structural slot a wardrobe item fills in a lineup.
type Category string

const (
	// CategoryOuterwear covers jackets, coats, parkas and similar outer layers.
	CategoryOuterwear Category = "outerwear"
	// CategoryTop covers shirts, tees, sweaters and other torso base layers.
	CategoryTop Category = "top"
	// CategoryBottom covers trousers, jeans, skirts and shorts.
	CategoryBottom Category = "bottom"
	// CategoryFootwear covers shoes, boots and sandals.
	CategoryFootwear Category = "footwear"
	// CategoryOther is the catch-all for accessories and unclassifiable items.
	CategoryOther Category = "other"
)

// RequiredCategories is the ordered set of slots a complete lineup must fill.
// The order doubles as assignment priority: outer layers first, footwear last.
var RequiredCategories = []Category{
	CategoryOuterwear,
	CategoryTop,
	CategoryBottom,
	CategoryFootwear,
}

// MaterialPart is one ingredient of an item's material composition.
// Percentages need not sum to 100 and may be zero when the source
// catalog omits them.
type MaterialPart struct {
	Material   string  `json:"material"`
	Percentage float64 `json:"percentage"`
}

// Item is a single wardrobe catalog entry. Items are immutable for the
// duration of a request; the engine never mutates them.
type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // free text, classified into a Category by catalog.Index
	StyleTag  string `json:"style_tag"`
	Formality string `json:"formality_tag"`

	Materials []MaterialPart `json:"materials,omitempty"`

	// Suitability tag sets. Each may contain the catalog-wide aliases
	// "all season" / "all day" which match any intent tag.
	Weather    []string `json:"suitable_weather,omitempty"`
	Occasions  []string `json:"suitable_occasions,omitempty"`
	Places     []string `json:"suitable_places,omitempty"`
	TimesOfDay []string `json:"suitable_times_of_day,omitempty"`

	// Features is free text used only by the wet-weather heuristics
	// (e.g. "waterproof zips, sealed seams").
	Features string `json:"features,omitempty"`

	Favorite bool `json:"favorite,omitempty"`
}

// TagAliases are catalog-wide wildcard tags that satisfy any intent tag
// for their dimension.
var TagAliases = map[string]bool{
	"all season": true,
	"all-season": true,
	"all day":    true,
	"all-day":    true,
	"any":        true,
}
