package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pankajredekar/catalogseed/internal/model"
	"github.com/pankajredekar/catalogseed/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopCategoriesQuery(t *testing.T) {
	query, args, err := TopCategoriesQuery(5)
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		"SELECT c.name AS name, COUNT(i.id) AS items FROM category c LEFT JOIN item i ON c.id = i.category_id GROUP BY c.id, c.name ORDER BY items DESC, c.id ASC LIMIT 5",
		query)
}

func TestSummary(t *testing.T) {
	db := testutil.OpenCatalogDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	names := []string{"empty", "one", "three", "two", "four", "five", "six"}
	counts := []int{0, 1, 3, 2, 4, 5, 6}

	sku := 0
	for i, name := range names {
		c := model.Category{Code: "CAT" + name, Name: name, UpdatedAt: now}
		require.NoError(t, db.Create(&c).Error)
		for j := 0; j < counts[i]; j++ {
			sku++
			item := model.Item{
				SKU:        "SKU" + string(rune('A'+sku)),
				Name:       name,
				Price:      decimal.New(1999, -2),
				Stock:      j,
				CategoryID: c.ID,
				UpdatedAt:  now,
			}
			require.NoError(t, db.Create(&item).Error)
		}
	}

	s, err := NewReporter(db).Summary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 7, s.Categories)
	assert.EqualValues(t, 21, s.Items)
	assert.Equal(t, []CategoryCount{
		{Name: "six", Items: 6},
		{Name: "five", Items: 5},
		{Name: "four", Items: 4},
		{Name: "three", Items: 3},
		{Name: "two", Items: 2},
	}, s.TopCategories)
}

func TestSummaryEmptyTables(t *testing.T) {
	db := testutil.OpenCatalogDB(t)

	s, err := NewReporter(db).Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.Categories)
	assert.Zero(t, s.Items)
	assert.Empty(t, s.TopCategories)
}

func TestSummaryMissingTables(t *testing.T) {
	db := testutil.OpenDB(t)

	_, err := NewReporter(db).Summary(context.Background())
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Summary{
		Categories:    10,
		Items:         50,
		TopCategories: []CategoryCount{{Name: "Robust hybrid toolset", Items: 9}},
	})

	out := buf.String()
	assert.Contains(t, out, "10 categories in store")
	assert.Contains(t, out, "50 items in store")
	assert.Contains(t, out, "Top 1 categories by item count")
	assert.Contains(t, out, "  - Robust hybrid toolset: 9 items")
}
