// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a medicine stocked at one store.
type InventoryItem struct {
	BaseModel
	StoreID              uuid.UUID       `json:"store_id" gorm:"type:uuid;not null;index"`
	Name                 string          `json:"name" gorm:"size:255;not null"`
	GenericName          string          `json:"generic_name,omitempty" gorm:"size:255"`
	Manufacturer         string          `json:"manufacturer,omitempty" gorm:"size:255"`
	UnitPrice            decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null;default:0"`
	Quantity             int             `json:"quantity" gorm:"not null;default:0"`
	Unit                 string          `json:"unit" gorm:"size:50"`
	ExpiryDate           *time.Time      `json:"expiry_date,omitempty" gorm:"type:date;index"`
	PrescriptionRequired bool            `json:"prescription_required" gorm:"default:false"`
	IsAvailable          bool            `json:"is_available" gorm:"index"`

	// Relationships
	Store *Store `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

// Searchable reports whether the item may appear in search results on the
// given day.
func (i *InventoryItem) Searchable(today time.Time) bool {
	if !i.IsAvailable || i.Quantity <= 0 {
		return false
	}
	return !i.ExpiredOn(today)
}

// ExpiredOn reports whether the expiry date falls strictly before today's
// calendar date. Items expiring today are still sellable.
func (i *InventoryItem) ExpiredOn(today time.Time) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return DateOf(*i.ExpiryDate).Before(DateOf(today))
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
