// internal/services/favorite_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/models"
)

type FavoriteService struct {
	db     *gorm.DB
	stores *StoreService
}

func NewFavoriteService(db *gorm.DB, stores *StoreService) *FavoriteService {
	return &FavoriteService{db: db, stores: stores}
}

func (s *FavoriteService) Add(ctx context.Context, profileID, storeID uuid.UUID) (*models.Favorite, error) {
	store, err := s.stores.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("profile_id = ? AND store_id = ?", profileID, storeID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, ErrFavoriteExists
	}

	// A soft-deleted row still holds the unique index, so revive it
	var favorite models.Favorite
	err = s.db.WithContext(ctx).Unscoped().
		Where("profile_id = ? AND store_id = ?", profileID, storeID).
		First(&favorite).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Unscoped().Model(&favorite).Update("deleted_at", nil).Error; err != nil {
			return nil, fmt.Errorf("failed to restore favorite: %w", err)
		}
		favorite.DeletedAt = gorm.DeletedAt{}
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite = models.Favorite{ProfileID: profileID, StoreID: storeID}
		if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
			return nil, fmt.Errorf("failed to add favorite: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	favorite.Store = store
	return &favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, profileID, storeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("profile_id = ? AND store_id = ?", profileID, storeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// List returns the profile's favorites, newest first, with store details.
// Favorites whose store has been deleted are skipped.
func (s *FavoriteService) List(ctx context.Context, profileID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Joins("Store").
		Where("favorites.profile_id = ?", profileID).
		Order("favorites.created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	out := favorites[:0]
	for _, f := range favorites {
		if f.Store != nil && f.Store.ID != uuid.Nil {
			out = append(out, f)
		}
	}
	return out, nil
}
