package constraint

import (
	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/pkg/models"
)

// Relaxation names the hard dimensions skipped for a category inside an
// envelope. The wet-weather gate is never relaxed.
type Relaxation struct {
	Place    bool
	Occasion bool
	Weather  bool
}

// Envelope is a named, possibly relaxed constraint configuration tried
// during sequence planning. Outerwear and footwear always keep the
// strictest rules; only top and bottom relax.
type Envelope struct {
	Name    string
	Relaxed map[models.Category]Relaxation
}

// MinViablePool is the smallest eligible pool an envelope must produce
// to be considered viable during the travel-day cascade.
const MinViablePool = 4

// StrictEnvelope enforces every rule for every category.
func StrictEnvelope() Envelope {
	return Envelope{Name: "strict"}
}

// TravelCascade is the ordered envelope list tried for travel/transit
// boundary entries, strictest first. Planning stops at the first viable
// one.
func TravelCascade() []Envelope {
	topBottom := func(r Relaxation) map[models.Category]Relaxation {
		return map[models.Category]Relaxation{
			models.CategoryTop:    r,
			models.CategoryBottom: r,
		}
	}
	return []Envelope{
		StrictEnvelope(),
		{Name: "relax-place", Relaxed: topBottom(Relaxation{Place: true})},
		{Name: "relax-place-occasion", Relaxed: topBottom(Relaxation{Place: true, Occasion: true})},
		{Name: "relax-full", Relaxed: topBottom(Relaxation{Place: true, Occasion: true, Weather: true})},
	}
}

// Apply returns the effective intent for a category under this
// envelope: relaxed dimensions are blanked so they pass everything.
func (env Envelope) Apply(intent models.CanonicalIntent, c models.Category) models.CanonicalIntent {
	r, ok := env.Relaxed[c]
	if !ok {
		return intent
	}
	effective := intent
	if r.Place {
		effective.Place = nil
	}
	if r.Occasion {
		effective.Occasion = nil
	}
	if r.Weather {
		effective.Weather = nil
	}
	return effective
}

// EvaluateWith evaluates an item under an envelope's effective intent
// for its category.
func (e *Evaluator) EvaluateWith(item models.Item, category models.Category, intent models.CanonicalIntent, env Envelope) Result {
	return e.Evaluate(item, category, env.Apply(intent, category))
}

// Viable reports whether the envelope yields a workable pool over the
// index: at least MinViablePool eligible items in total and at least
// one eligible item in every required category.
func (e *Evaluator) Viable(idx *catalog.Index, intent models.CanonicalIntent, env Envelope) bool {
	eligible := 0
	for _, c := range models.RequiredCategories {
		found := false
		for _, item := range idx.ByCategory(c) {
			if e.EvaluateWith(item, c, intent, env).Passes {
				eligible++
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return eligible >= MinViablePool
}

// Resolve walks the cascade in order and returns the first viable
// envelope. When none is viable it returns the most relaxed one and
// false, letting the caller decide whether to proceed or skip.
func (e *Evaluator) Resolve(idx *catalog.Index, intent models.CanonicalIntent, cascade []Envelope) (Envelope, bool) {
	if len(cascade) == 0 {
		return StrictEnvelope(), true
	}
	for _, env := range cascade {
		if e.Viable(idx, intent, env) {
			return env, true
		}
	}
	return cascade[len(cascade)-1], false
}
