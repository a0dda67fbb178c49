// Package writer persists generated catalog records in fixed-size batches,
// committing every batch in its own transaction.
package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/pankajredekar/catalogseed/internal/model"
	"github.com/pankajredekar/catalogseed/internal/progress"
	"gorm.io/gorm"
)

// ErrUnresolvedCategory is returned when an item's category has no storage key.
var ErrUnresolvedCategory = errors.New("item references a category without a storage key")

const (
	DefaultCategoryBatchSize = 1000
	DefaultItemBatchSize     = 5000
)

// Stats summarises one write call.
type Stats struct {
	Batches int
	Rows    int
}

// Writer inserts catalog records through gorm.
type Writer struct {
	db                *gorm.DB
	categoryBatchSize int
	itemBatchSize     int
	reporter          progress.Reporter
}

// NewWriter creates a new writer. Non-positive batch sizes fall back to the
// defaults.
func NewWriter(db *gorm.DB, categoryBatchSize, itemBatchSize int, reporter progress.Reporter) *Writer {
	if categoryBatchSize <= 0 {
		categoryBatchSize = DefaultCategoryBatchSize
	}
	if itemBatchSize <= 0 {
		itemBatchSize = DefaultItemBatchSize
	}
	if reporter == nil {
		reporter = progress.Nop()
	}
	return &Writer{
		db:                db,
		categoryBatchSize: categoryBatchSize,
		itemBatchSize:     itemBatchSize,
		reporter:          reporter,
	}
}

// WriteBatch runs fn in one transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (w *Writer) WriteBatch(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return w.db.WithContext(ctx).Transaction(fn)
}

// WriteCategories inserts categories and fills their ID with the key the
// database assigned.
func (w *Writer) WriteCategories(ctx context.Context, categories []model.Category) (Stats, error) {
	return writeInBatches(ctx, w, "Inserting categories", categories, w.categoryBatchSize)
}

// WriteItems resolves every item's CategoryID from the persisted categories,
// then inserts the items. Nothing is written if any reference is unresolved.
func (w *Writer) WriteItems(ctx context.Context, items []model.Item, categories []model.Category) (Stats, error) {
	keys := make(map[int]uint, len(categories))
	for _, c := range categories {
		if c.ID != 0 {
			keys[c.Seq] = c.ID
		}
	}

	for i := range items {
		key, ok := keys[items[i].CategorySeq]
		if !ok {
			return Stats{}, fmt.Errorf("%w: item %d references category %d", ErrUnresolvedCategory, items[i].Seq, items[i].CategorySeq)
		}
		items[i].CategoryID = key
	}

	return writeInBatches(ctx, w, "Inserting items", items, w.itemBatchSize)
}

// writeInBatches inserts records size at a time. A failing batch stops the
// write; batches committed before it stay committed.
func writeInBatches[T any](ctx context.Context, w *Writer, stage string, records []T, size int) (Stats, error) {
	var stats Stats

	tracker := w.reporter.Start(stage, len(records))
	defer tracker.Finish()

	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batch := records[start:end]

		err := w.WriteBatch(ctx, func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			return stats, fmt.Errorf("batch %d (records %d-%d): %w", stats.Batches+1, start+1, end, err)
		}

		stats.Batches++
		stats.Rows += len(batch)
		tracker.Set(stats.Rows)
	}

	return stats, nil
}
