// internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

type ProfileService struct {
	db *gorm.DB
}

type UpdateProfileRequest struct {
	FullName *string      `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Phone    *string      `json:"phone,omitempty" validate:"omitempty,phone"`
	Role     *models.Role `json:"role,omitempty" validate:"omitempty,oneof=customer retailer"`
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetOrCreate returns the profile for a verified token, creating a customer
// profile the first time the subject is seen.
func (s *ProfileService) GetOrCreate(ctx context.Context, claims *utils.ProviderClaims) (*models.Profile, error) {
	id, err := claims.ProfileID()
	if err != nil {
		return nil, fmt.Errorf("%w: token subject is not a uuid", ErrInvalidInput)
	}

	profile := &models.Profile{
		BaseModel: models.BaseModel{ID: id},
		Email:     claims.Email,
		FullName:  claims.FullName(),
		Phone:     claims.Phone,
		Role:      models.RoleCustomer,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil && *req.Role != profile.Role {
		// Admins are provisioned out of band and never demoted here
		if profile.Role == models.RoleAdmin {
			return nil, ErrRoleChangeDenied
		}
		updates["role"] = *req.Role
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.Get(ctx, id)
}
