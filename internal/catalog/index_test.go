package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thebtf/lookbook/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		itemType string
		want     models.Category
	}{
		{"Leather Chelsea Boot", models.CategoryFootwear},
		{"Running Sneaker", models.CategoryFootwear},
		{"Slim Chino", models.CategoryBottom},
		{"Pleated Skirt", models.CategoryBottom},
		{"Down Parka", models.CategoryOuterwear},
		{"Wool Overshirt", models.CategoryOuterwear},
		{"Oxford Shirt", models.CategoryTop},
		{"Merino Sweater", models.CategoryTop},
		{"Silk Scarf", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.itemType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.itemType))
		})
	}
}

// Ordering is footwear > bottom > outerwear > top; first match wins.
func TestClassify_OrderedFirstMatchWins(t *testing.T) {
	// "trainer" (footwear) is checked before "jacket" (outerwear)
	assert.Equal(t, models.CategoryFootwear, Classify("Trainer Jacket"))
	// "jacket" (outerwear) is checked before "shirt" (top)
	assert.Equal(t, models.CategoryOuterwear, Classify("Shirt Jacket"))
	// "boot" (footwear) is checked before "jean" (bottom)
	assert.Equal(t, models.CategoryFootwear, Classify("Boot Cut Jeans"))
}

func TestIndex_Lookup(t *testing.T) {
	items := []models.Item{
		{ID: 1, Type: "rain jacket"},
		{ID: 2, Type: "tee"},
		{ID: 3, Type: "jeans"},
		{ID: 4, Type: "boots"},
		{ID: 5, Type: "belt"},
	}
	idx := NewIndex(items)

	assert.Equal(t, 5, idx.Len())

	c, ok := idx.CategoryOf(1)
	assert.True(t, ok)
	assert.Equal(t, models.CategoryOuterwear, c)

	_, ok = idx.CategoryOf(99)
	assert.False(t, ok)

	assert.Len(t, idx.ByCategory(models.CategoryOther), 1)
	assert.Len(t, idx.ByCategory(models.CategoryTop), 1)

	item, ok := idx.Item(4)
	assert.True(t, ok)
	assert.Equal(t, "boots", item.Type)
}

func TestIndex_CoversCategories(t *testing.T) {
	idx := NewIndex([]models.Item{
		{ID: 1, Type: "coat"},
		{ID: 2, Type: "shirt"},
		{ID: 3, Type: "trousers"},
		{ID: 4, Type: "sneakers"},
	})

	assert.True(t, idx.CoversCategories(models.RequiredCategories, nil))

	// Excluding the only coat breaks coverage
	assert.False(t, idx.CoversCategories(models.RequiredCategories, func(it models.Item) bool {
		return it.ID != 1
	}))
}
