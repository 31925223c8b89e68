// internal/models/profile.go
package models

// Profile mirrors an auth-provider user. ID is the token subject.
type Profile struct {
	BaseModel
	Email    string `json:"email" gorm:"size:255;index"`
	FullName string `json:"full_name" gorm:"size:255"`
	Phone    string `json:"phone" gorm:"size:32"`
	Role     Role   `json:"role" gorm:"type:varchar(20);not null;default:'customer';index"`

	// Relationships
	Stores    []Store    `json:"stores,omitempty" gorm:"foreignKey:OwnerID"`
	Favorites []Favorite `json:"favorites,omitempty" gorm:"foreignKey:ProfileID"`
}

func (p *Profile) IsRetailer() bool {
	return p.Role == RoleRetailer || p.Role == RoleAdmin
}
