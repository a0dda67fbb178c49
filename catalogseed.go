// Package catalogseed fills a catalog database with synthetic categories and
// items and writes the CSV fixtures that load tests read their ids and
// request bodies from.
package catalogseed

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pankajredekar/catalogseed/internal/export"
	"github.com/pankajredekar/catalogseed/internal/generator"
	"github.com/pankajredekar/catalogseed/internal/model"
	"github.com/pankajredekar/catalogseed/internal/pipeline"
	"github.com/pankajredekar/catalogseed/internal/progress"
	"github.com/pankajredekar/catalogseed/internal/report"
	"github.com/pankajredekar/catalogseed/internal/runlog"
	"github.com/pankajredekar/catalogseed/internal/writer"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// Category and Item are the generated records
type (
	Category = model.Category
	Item     = model.Item
)

// Run is the outcome of a seeding run
type Run = pipeline.State

// Summary is the end-of-run report
type Summary = report.Summary

// FixtureOptions controls the CSV fixture sizes
type FixtureOptions = export.Options

// ProgressReporter receives per-stage progress
type ProgressReporter = progress.Reporter

var (
	ErrSpaceExhausted     = generator.ErrSpaceExhausted
	ErrNoCategories       = generator.ErrNoCategories
	ErrUnresolvedCategory = writer.ErrUnresolvedCategory
)

// Options configures Seed. Zero values use the defaults of each component.
type Options struct {
	Categories int
	Items      int
	// Seed 0 picks a seed from the clock; the seed used is returned in Run.
	Seed int64

	CategoryBatchSize int
	ItemBatchSize     int
	MaxAttempts       int

	Fixtures FixtureOptions

	// RecordRuns stores a row per successful run in RunTable.
	RecordRuns bool
	RunTable   string

	Progress ProgressReporter
	// Out receives the printed summary; nil skips printing.
	Out    io.Writer
	Logger *slog.Logger
}

// DefaultFixtureOptions returns the standard fixture sizes
func DefaultFixtureOptions() FixtureOptions {
	return export.DefaultOptions()
}

// Seed generates and inserts the catalog into db, writes the fixtures into fs
// and summarises the tables. The first failing stage aborts the run; batches
// inserted before it stay committed.
func Seed(ctx context.Context, db *gorm.DB, fs afero.Fs, opts Options) (*Run, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := generator.New(generator.NewRand(seed), generator.Options{
		MaxAttempts: opts.MaxAttempts,
		Reporter:    opts.Progress,
	})
	deps := pipeline.Deps{
		Generator:  gen,
		Writer:     writer.NewWriter(db, opts.CategoryBatchSize, opts.ItemBatchSize, opts.Progress),
		Exporter:   export.NewExporter(fs, gen, opts.Fixtures),
		Reporter:   report.NewReporter(db),
		Categories: opts.Categories,
		Items:      opts.Items,
		Out:        opts.Out,
		Logger:     opts.Logger,
	}
	if opts.RecordRuns {
		ledger, err := runlog.NewLedger(db, opts.RunTable)
		if err != nil {
			return nil, err
		}
		deps.Ledger = ledger
	}

	run := &Run{Seed: seed, StartedAt: time.Now().UTC()}
	if err := pipeline.Standard(deps).Run(ctx, run); err != nil {
		return run, err
	}
	return run, nil
}
