// Package progress reports pipeline progress to the operator, either as
// terminal progress bars or as periodic log lines.
package progress

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Reporter starts a Tracker for one stage of work.
type Reporter interface {
	Start(stage string, total int) Tracker
}

// Tracker receives the running count of completed records for a stage.
type Tracker interface {
	Set(done int)
	Finish()
}

// NewBar returns a Reporter that draws a progress bar per stage on w.
func NewBar(w io.Writer) Reporter {
	return barReporter{w: w}
}

type barReporter struct {
	w io.Writer
}

func (r barReporter) Start(stage string, total int) Tracker {
	if total <= 0 {
		return nopTracker{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", stage)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return &barTracker{bar: bar, stage: stage}
}

type barTracker struct {
	bar   *progressbar.ProgressBar
	stage string
}

func (t *barTracker) Set(done int) {
	if err := t.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "stage", t.stage, "error", err)
	}
}

func (t *barTracker) Finish() {
	if err := t.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "stage", t.stage, "error", err)
	}
}

// NewLog returns a Reporter that logs every update through logger.
func NewLog(logger *slog.Logger) Reporter {
	return logReporter{logger: logger}
}

type logReporter struct {
	logger *slog.Logger
}

func (r logReporter) Start(stage string, total int) Tracker {
	return &logTracker{logger: r.logger, stage: stage, total: total}
}

type logTracker struct {
	logger *slog.Logger
	stage  string
	total  int
	done   int
}

func (t *logTracker) Set(done int) {
	t.done = done
	t.logger.Info("progress", "stage", t.stage, "done", done, "total", t.total)
}

func (t *logTracker) Finish() {
	t.logger.Debug("stage complete", "stage", t.stage, "done", t.done, "total", t.total)
}

// Nop returns a Reporter that discards all progress.
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Start(string, int) Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Set(int) {}
func (nopTracker) Finish() {}
