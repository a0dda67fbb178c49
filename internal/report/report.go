// Package report summarises what the catalog tables hold after a run.
package report

import (
	"context"
	"fmt"
	"io"

	sq "github.com/Masterminds/squirrel"
	"github.com/fatih/color"
	"github.com/pankajredekar/catalogseed/internal/model"
	"gorm.io/gorm"
)

// DefaultTopN is how many categories the summary ranks.
const DefaultTopN = 5

// CategoryCount is a category name with the number of items it owns.
type CategoryCount struct {
	Name  string
	Items int64
}

// Summary is the end-of-run report.
type Summary struct {
	Categories    int64
	Items         int64
	TopCategories []CategoryCount
}

// Reporter queries summary figures from the catalog tables.
type Reporter struct {
	db   *gorm.DB
	topN int
}

// NewReporter creates a new reporter ranking the top DefaultTopN categories
func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db, topN: DefaultTopN}
}

// TopCategoriesQuery builds the ranking query: every category joined to its
// items, ordered by item count.
func TopCategoriesQuery(limit int) (string, []interface{}, error) {
	return sq.Select("c.name AS name", "COUNT(i.id) AS items").
		From(model.Category{}.TableName() + " c").
		LeftJoin(model.Item{}.TableName() + " i ON c.id = i.category_id").
		GroupBy("c.id", "c.name").
		OrderBy("items DESC", "c.id ASC").
		Limit(uint64(limit)).
		ToSql()
}

// Summary counts both tables and ranks the categories with the most items.
func (r *Reporter) Summary(ctx context.Context) (Summary, error) {
	db := r.db.WithContext(ctx)

	var s Summary
	if err := db.Model(&model.Category{}).Count(&s.Categories).Error; err != nil {
		return s, fmt.Errorf("failed to count categories: %w", err)
	}
	if err := db.Model(&model.Item{}).Count(&s.Items).Error; err != nil {
		return s, fmt.Errorf("failed to count items: %w", err)
	}

	query, args, err := TopCategoriesQuery(r.topN)
	if err != nil {
		return s, fmt.Errorf("failed to build top categories query: %w", err)
	}
	if err := db.Raw(query, args...).Scan(&s.TopCategories).Error; err != nil {
		return s, fmt.Errorf("failed to query top categories: %w", err)
	}

	return s, nil
}

// Print writes s for the operator.
func Print(w io.Writer, s Summary) {
	heading := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)

	heading.Fprintln(w, "\n=== Generation complete ===")
	ok.Fprintf(w, "✓ %d categories in store\n", s.Categories)
	ok.Fprintf(w, "✓ %d items in store\n", s.Items)

	if len(s.TopCategories) == 0 {
		return
	}
	heading.Fprintf(w, "\nTop %d categories by item count:\n", len(s.TopCategories))
	for _, c := range s.TopCategories {
		fmt.Fprintf(w, "  - %s: %d items\n", c.Name, c.Items)
	}
}
