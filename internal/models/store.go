// internal/models/store.go
package models

import (
	"github.com/google/uuid"
)

// Store is a physical pharmacy location owned by a retailer profile.
type Store struct {
	BaseModel
	OwnerID     uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Street      string     `json:"street" gorm:"size:255"`
	City        string     `json:"city" gorm:"size:100;index"`
	State       string     `json:"state" gorm:"size:100"`
	PostalCode  string     `json:"postal_code" gorm:"size:20"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Phone       string     `json:"phone" gorm:"size:32"`
	Email       string     `json:"email" gorm:"size:255"`
	IsOpen      bool       `json:"is_open"`
	OpenTime    string     `json:"open_time" gorm:"size:5"`
	CloseTime   string     `json:"close_time" gorm:"size:5"`
	Rating      float64    `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int64      `json:"review_count" gorm:"default:0"`
	Images      StringList `json:"images" gorm:"type:jsonb"`

	// Relationships
	Owner *Profile        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Items []InventoryItem `json:"items,omitempty" gorm:"foreignKey:StoreID"`
}
