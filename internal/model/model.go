package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a generated catalog category.
//
// Seq is the 1-based generation order and only lives in memory. ID is the
// identity key assigned by the database and is filled once the row is inserted.
type Category struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Seq       int       `gorm:"-"`
	Code      string    `gorm:"column:code;size:32;not null"`
	Name      string    `gorm:"column:name;size:128;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false;not null"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "category"
}

// Item is a generated catalog item.
//
// CategorySeq points at the owning category's Seq. CategoryID holds the
// owning category's storage key and is resolved by the writer.
type Item struct {
	ID          uint            `gorm:"primaryKey;column:id"`
	Seq         int             `gorm:"-"`
	SKU         string          `gorm:"column:sku;size:64;not null"`
	Name        string          `gorm:"column:name;size:128;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null"`
	CategoryID  uint            `gorm:"column:category_id;not null"`
	CategorySeq int             `gorm:"-"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime:false;not null"`
}

// TableName returns the table name for Item
func (Item) TableName() string {
	return "item"
}

// LightPayload is a request body row for create/update load tests.
type LightPayload struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	Description string
}

// HeavyPayload is a larger request body row used for payload-size tests.
type HeavyPayload struct {
	Name           string
	Price          decimal.Decimal
	Stock          int
	Description    string
	Specifications string
}
