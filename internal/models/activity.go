// internal/models/activity.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	BaseModel
	ProfileID uuid.UUID `json:"profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_profile_store"`
	StoreID   uuid.UUID `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_profile_store"`

	// Relationships
	Store *Store `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

type SearchLog struct {
	BaseModel
	RequestID      string     `json:"request_id" gorm:"size:64;index"`
	ProfileID      *uuid.UUID `json:"profile_id" gorm:"type:uuid;index"`
	Query          string     `json:"query" gorm:"size:255;not null"`
	OriginLat      *float64   `json:"origin_lat"`
	OriginLng      *float64   `json:"origin_lng"`
	OriginFallback bool       `json:"origin_fallback"`
	RadiusKm       float64    `json:"radius_km"`
	ResultCount    int        `json:"result_count"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	Status       int        `json:"status"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
}

const NotificationExpiryDigest = "expiry_digest"

// Notification is an in-app message to one profile.
type Notification struct {
	BaseModel
	ProfileID           uuid.UUID  `json:"profile_id" gorm:"type:uuid;not null;index"`
	Type                string     `json:"type" gorm:"type:varchar(50);not null;index"`
	Title               string     `json:"title" gorm:"size:255;not null"`
	Message             string     `json:"message" gorm:"type:text;not null"`
	RelatedResourceType string     `json:"related_resource_type,omitempty" gorm:"size:50"`
	RelatedResourceID   *uuid.UUID `json:"related_resource_id" gorm:"type:uuid"`
	ReadAt              *time.Time `json:"read_at"`
}
