// Package testutil holds helpers shared by database-backed tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CatalogSchema creates the two catalog tables the seeder writes to. The
// seeder itself never creates them.
var CatalogSchema = []string{`
CREATE TABLE category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code VARCHAR(32) NOT NULL UNIQUE,
	name VARCHAR(128) NOT NULL,
	updated_at DATETIME NOT NULL
)`, `
CREATE TABLE item (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sku VARCHAR(64) NOT NULL UNIQUE,
	name VARCHAR(128) NOT NULL,
	price NUMERIC(10,2) NOT NULL,
	stock INTEGER NOT NULL,
	category_id INTEGER NOT NULL REFERENCES category(id),
	updated_at DATETIME NOT NULL
)`,
}

// OpenDB opens a file-backed sqlite database in a temp dir. A file is used
// instead of :memory: so that every pooled connection sees the same tables.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// OpenCatalogDB opens a test database with the catalog tables created.
func OpenCatalogDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := OpenDB(t)
	for _, stmt := range CatalogSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("Failed to create catalog tables: %v", err)
		}
	}
	return db
}
