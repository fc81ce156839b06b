// Package catalog classifies wardrobe items into structural categories
// and provides per-category lookup over a catalog snapshot.
package catalog

import (
	"strings"

	"github.com/thebtf/lookbook/pkg/models"
)

// categoryPattern maps a structural category to the type keywords that
// select it. Matching is ordered (footwear before bottom before
// outerwear before top); the first hit wins, anything else is "other".
type categoryPattern struct {
	category models.Category
	keywords []string
}

var classificationOrder = []categoryPattern{
	{models.CategoryFootwear, []string{
		"shoe", "sneaker", "trainer", "boot", "loafer", "sandal",
		"heel", "oxford", "derby", "mule", "espadrille", "slipper",
	}},
	{models.CategoryBottom, []string{
		"pant", "trouser", "jean", "chino", "short", "skirt",
		"legging", "jogger", "culotte",
	}},
	{models.CategoryOuterwear, []string{
		"jacket", "coat", "parka", "blazer", "anorak", "windbreaker",
		"raincoat", "trench", "overshirt", "gilet", "vest", "shell",
	}},
	{models.CategoryTop, []string{
		"shirt", "tee", "t-shirt", "top", "blouse", "sweater",
		"jumper", "hoodie", "polo", "knit", "cardigan", "turtleneck",
		"camisole", "tank",
	}},
}

// Classify maps an item's free-text type to a structural category.
func Classify(itemType string) models.Category {
	t := strings.ToLower(itemType)
	for _, p := range classificationOrder {
		for _, kw := range p.keywords {
			if strings.Contains(t, kw) {
				return p.category
			}
		}
	}
	return models.CategoryOther
}

// Index is an immutable classification snapshot of a catalog. Rebuild
// it whenever the catalog changes; never mutate it in place.
type Index struct {
	byID       map[int64]models.Item
	byCategory map[models.Category][]models.Item
	categories map[int64]models.Category
}

// NewIndex classifies every item and builds the per-category lookup.
// Later duplicates of an id shadow earlier ones.
func NewIndex(items []models.Item) *Index {
	idx := &Index{
		byID:       make(map[int64]models.Item, len(items)),
		byCategory: make(map[models.Category][]models.Item),
		categories: make(map[int64]models.Category, len(items)),
	}
	for _, item := range items {
		c := Classify(item.Type)
		idx.byID[item.ID] = item
		idx.categories[item.ID] = c
		idx.byCategory[c] = append(idx.byCategory[c], item)
	}
	return idx
}

// Item returns the item for an id.
func (idx *Index) Item(id int64) (models.Item, bool) {
	item, ok := idx.byID[id]
	return item, ok
}

// CategoryOf returns the structural category for an item id.
func (idx *Index) CategoryOf(id int64) (models.Category, bool) {
	c, ok := idx.categories[id]
	return c, ok
}

// ByCategory returns the items classified into the given category. The
// returned slice is shared; callers must not mutate it.
func (idx *Index) ByCategory(c models.Category) []models.Item {
	return idx.byCategory[c]
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// Items returns all indexed items in no particular order.
func (idx *Index) Items() []models.Item {
	items := make([]models.Item, 0, len(idx.byID))
	for _, item := range idx.byID {
		items = append(items, item)
	}
	return items
}

// CoversCategories reports whether every given category has at least
// one item whose id passes the keep predicate.
func (idx *Index) CoversCategories(categories []models.Category, keep func(models.Item) bool) bool {
	for _, c := range categories {
		found := false
		for _, item := range idx.byCategory[c] {
			if keep == nil || keep(item) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
