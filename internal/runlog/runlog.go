package runlog

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTable is the ledger table name used when none is configured.
const DefaultTable = "_catalogseed_runs"

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// RunRecord represents one completed seeding run
type RunRecord struct {
	RunID      string    `gorm:"primaryKey;column:run_id"`
	Seed       int64     `gorm:"column:seed"`
	Categories int       `gorm:"column:categories"`
	Items      int       `gorm:"column:items"`
	StartedAt  time.Time `gorm:"column:started_at"`
	FinishedAt time.Time `gorm:"column:finished_at"`
}

// TableName returns the default table name for the run record
func (RunRecord) TableName() string {
	return DefaultTable
}

// Ledger records seeding runs in a bookkeeping table
type Ledger struct {
	db    *gorm.DB
	table string
}

// ValidTable reports whether name is usable as the ledger table name
func ValidTable(name string) bool {
	return validIdentifier.MatchString(name)
}

// NewLedger creates a new ledger
func NewLedger(db *gorm.DB, tableName string) (*Ledger, error) {
	if tableName == "" {
		tableName = DefaultTable
	}
	if !ValidTable(tableName) {
		return nil, fmt.Errorf("invalid run table name: %q", tableName)
	}
	return &Ledger{
		db:    db,
		table: tableName,
	}, nil
}

// Initialize creates the run table if it does not exist
func (l *Ledger) Initialize(ctx context.Context) error {
	if err := l.db.WithContext(ctx).Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id VARCHAR(36) PRIMARY KEY,
			seed BIGINT NOT NULL,
			categories INTEGER NOT NULL,
			items INTEGER NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL
		)
	`, l.table)).Error; err != nil {
		return fmt.Errorf("failed to create run table: %w", err)
	}
	return nil
}

// Record stores a run. A missing RunID is filled with a new UUID.
func (l *Ledger) Record(ctx context.Context, run *RunRecord) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if err := l.db.WithContext(ctx).Table(l.table).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Latest returns up to n runs, most recent first
func (l *Ledger) Latest(ctx context.Context, n int) ([]RunRecord, error) {
	var records []RunRecord
	if err := l.db.WithContext(ctx).Table(l.table).Order("finished_at DESC").Limit(n).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return records, nil
}

// Count returns the number of recorded runs
func (l *Ledger) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := l.db.WithContext(ctx).Table(l.table).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
