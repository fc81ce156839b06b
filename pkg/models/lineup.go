package models

// Lineup is one complete, category-balanced selection: exactly one item
// id per required category, in RequiredCategories order.
type Lineup struct {
	ItemIDs    []int64            `json:"item_ids"`
	Categories map[Category]int64 `json:"categories"`
	Signature  string             `json:"signature"`
	MatchScore float64            `json:"match_score"` // 0-100 dimension-averaged ratio
	Confidence float64            `json:"confidence"`  // blend of generator confidence and match score
}

// HistoryEntry is one prior lineup for the same actor, used for repeat
// avoidance and overlap penalties.
type HistoryEntry struct {
	Signature string  `json:"signature"`
	ItemIDs   []int64 `json:"item_ids"`
	Date      string  `json:"date,omitempty"`
	Index     int     `json:"index,omitempty"`
}

// Locks are category pins that every entry of a sequence must honor
// (outerwear) or that stay-day entries must honor (footwear). A lock is
// created once an item is observed to be the category singleton and is
// never contradicted afterwards.
type Locks struct {
	Items map[Category]int64
}

// NewLocks returns an empty lock set.
func NewLocks() *Locks {
	return &Locks{Items: make(map[Category]int64)}
}

// Locked reports whether the category is pinned and to which item.
func (l *Locks) Locked(c Category) (int64, bool) {
	if l == nil || l.Items == nil {
		return 0, false
	}
	id, ok := l.Items[c]
	return id, ok
}

// LockedItem reports whether the given item id is pinned in any category.
func (l *Locks) LockedItem(id int64) bool {
	if l == nil {
		return false
	}
	for _, v := range l.Items {
		if v == id {
			return true
		}
	}
	return false
}

// Set pins an item for a category. Setting an already locked category to
// a different item is a programming error and is ignored.
func (l *Locks) Set(c Category, id int64) {
	if _, ok := l.Items[c]; ok {
		return
	}
	l.Items[c] = id
}

// FailReason identifies which hard constraint an item failed.
type FailReason string

const (
	FailWeather   FailReason = "weather_mismatch"
	FailOccasion  FailReason = "occasion_mismatch"
	FailPlace     FailReason = "place_mismatch"
	FailWetUnsafe FailReason = "not_rain_ready"
)

// SkipReason explains why a sequence entry produced no lineup.
type SkipReason string

const (
	// SkipStructural means a required category had zero eligible candidates.
	SkipStructural SkipReason = "structural_failure"
	// SkipLockViolation means the entry could not honor a sequence lock.
	SkipLockViolation SkipReason = "lock_violation"
	// SkipCategoryCount means outerwear or footwear resolved to a count
	// other than exactly one.
	SkipCategoryCount SkipReason = "category_count"
)

// FeedbackEntry records prior user feedback on a lineup signature,
// together with the weather/formality context it was given under.
type FeedbackEntry struct {
	Signature string   `json:"signature"`
	ItemIDs   []int64  `json:"item_ids"`
	Feedback  int      `json:"feedback"` // -1 thumbs down, 0 neutral, 1 thumbs up
	TempBand  TempBand `json:"temp_band,omitempty"`
	Formality string   `json:"formality,omitempty"`
}
