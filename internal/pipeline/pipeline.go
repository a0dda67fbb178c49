// Package pipeline runs a seeding run as an ordered list of stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pankajredekar/catalogseed/internal/export"
	"github.com/pankajredekar/catalogseed/internal/generator"
	"github.com/pankajredekar/catalogseed/internal/model"
	"github.com/pankajredekar/catalogseed/internal/report"
	"github.com/pankajredekar/catalogseed/internal/runlog"
	"github.com/pankajredekar/catalogseed/internal/writer"
)

// Stage names of the standard pipeline.
const (
	StageGenerateCategories = "generate-categories"
	StageGenerateItems      = "generate-items"
	StagePersistCategories  = "persist-categories"
	StagePersistItems       = "persist-items"
	StageExportFixtures     = "export-fixtures"
	StageReport             = "report"
	StageRecordRun          = "record-run"
)

// State is shared by the stages of one run.
type State struct {
	Seed      int64
	StartedAt time.Time

	Categories []model.Category
	Items      []model.Item

	CategoryStats writer.Stats
	ItemStats     writer.Stats
	Export        export.Result
	Summary       report.Summary
}

// Stage interface that all pipeline steps implement
type Stage interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

type funcStage struct {
	name string
	fn   func(ctx context.Context, state *State) error
}

func (s funcStage) Name() string { return s.name }
func (s funcStage) Run(ctx context.Context, state *State) error {
	return s.fn(ctx, state)
}

// NewStage creates a stage from a function
func NewStage(name string, fn func(ctx context.Context, state *State) error) Stage {
	return funcStage{name: name, fn: fn}
}

// Pipeline executes stages in the order they were added
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// New creates a new pipeline
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{logger: logger}
}

// Add appends stages
func (p *Pipeline) Add(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// Stages returns the stage names in execution order
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// Run executes every stage against state and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context, state *State) error {
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s cancelled: %w", s.Name(), err)
		}

		start := time.Now()
		p.logger.Debug("stage started", "stage", s.Name())
		if err := s.Run(ctx, state); err != nil {
			return fmt.Errorf("%s failed: %w", s.Name(), err)
		}
		p.logger.Info("stage finished", "stage", s.Name(), "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// Deps are the components the standard pipeline drives.
type Deps struct {
	Generator *generator.Generator
	Writer    *writer.Writer
	Exporter  *export.Exporter
	Reporter  *report.Reporter
	// Ledger is optional; the record-run stage is added only when set.
	Ledger *runlog.Ledger

	Categories int
	Items      int

	// Out receives the printed summary; nil skips printing.
	Out    io.Writer
	Logger *slog.Logger
}

// Standard builds the seeding pipeline: generate, persist, export, report
// and, with a ledger, record the run.
func Standard(d Deps) *Pipeline {
	p := New(d.Logger).Add(
		NewStage(StageGenerateCategories, func(ctx context.Context, s *State) error {
			cats, err := d.Generator.Categories(d.Categories)
			if err != nil {
				return err
			}
			s.Categories = cats
			return nil
		}),
		NewStage(StageGenerateItems, func(ctx context.Context, s *State) error {
			items, err := d.Generator.Items(d.Items, s.Categories)
			if err != nil {
				return err
			}
			s.Items = items
			return nil
		}),
		NewStage(StagePersistCategories, func(ctx context.Context, s *State) error {
			stats, err := d.Writer.WriteCategories(ctx, s.Categories)
			s.CategoryStats = stats
			return err
		}),
		NewStage(StagePersistItems, func(ctx context.Context, s *State) error {
			stats, err := d.Writer.WriteItems(ctx, s.Items, s.Categories)
			s.ItemStats = stats
			return err
		}),
		NewStage(StageExportFixtures, func(ctx context.Context, s *State) error {
			res, err := d.Exporter.Export(s.Categories, s.Items)
			s.Export = res
			return err
		}),
		NewStage(StageReport, func(ctx context.Context, s *State) error {
			summary, err := d.Reporter.Summary(ctx)
			if err != nil {
				return err
			}
			s.Summary = summary
			if d.Out != nil {
				report.Print(d.Out, summary)
			}
			return nil
		}),
	)

	if d.Ledger != nil {
		p.Add(NewStage(StageRecordRun, func(ctx context.Context, s *State) error {
			if err := d.Ledger.Initialize(ctx); err != nil {
				return err
			}
			return d.Ledger.Record(ctx, &runlog.RunRecord{
				Seed:       s.Seed,
				Categories: s.CategoryStats.Rows,
				Items:      s.ItemStats.Rows,
				StartedAt:  s.StartedAt,
				FinishedAt: time.Now().UTC(),
			})
		}))
	}

	return p
}
