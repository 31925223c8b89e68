// internal/services/store_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

// Invalidator drops cached search candidates after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) error { return nil }

func invalidate(ctx context.Context, inv Invalidator, reason string) {
	if err := inv.Invalidate(ctx); err != nil {
		logrus.WithError(err).WithField("reason", reason).Warn("Failed to invalidate search cache")
	}
}

type StoreService struct {
	db    *gorm.DB
	cache Invalidator
}

type CreateStoreRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description,omitempty"`
	Street      string   `json:"street,omitempty" validate:"max=255"`
	City        string   `json:"city" validate:"required,max=100"`
	State       string   `json:"state,omitempty" validate:"max=100"`
	PostalCode  string   `json:"postal_code,omitempty" validate:"max=20"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	Phone       string   `json:"phone,omitempty" validate:"phone"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email"`
	IsOpen      *bool    `json:"is_open,omitempty"`
	OpenTime    string   `json:"open_time,omitempty" validate:"hhmm"`
	CloseTime   string   `json:"close_time,omitempty" validate:"hhmm"`
}

type UpdateStoreRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description,omitempty"`
	Street      *string  `json:"street,omitempty" validate:"omitempty,max=255"`
	City        *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string  `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode  *string  `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Phone       *string  `json:"phone,omitempty" validate:"omitempty,phone"`
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	OpenTime    *string  `json:"open_time,omitempty" validate:"omitempty,hhmm"`
	CloseTime   *string  `json:"close_time,omitempty" validate:"omitempty,hhmm"`
}

func NewStoreService(db *gorm.DB, cache Invalidator) *StoreService {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &StoreService{db: db, cache: cache}
}

func (s *StoreService) Create(ctx context.Context, owner *models.Profile, req *CreateStoreRequest) (*models.Store, error) {
	if !owner.IsRetailer() {
		return nil, ErrNotRetailer
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	store := &models.Store{
		OwnerID:     owner.ID,
		Name:        req.Name,
		Description: req.Description,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Email:       req.Email,
		IsOpen:      req.IsOpen == nil || *req.IsOpen,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		Images:      models.StringList{},
	}

	if err := s.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	invalidate(ctx, s.cache, "store created")
	return store, nil
}

func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

// GetOwned loads a store and checks that owner may mutate it. Admins may
// mutate any store.
func (s *StoreService) GetOwned(ctx context.Context, owner *models.Profile, id uuid.UUID) (*models.Store, error) {
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != owner.ID && owner.Role != models.RoleAdmin {
		return nil, ErrNotOwner
	}
	return store, nil
}

func (s *StoreService) Update(ctx context.Context, owner *models.Profile, id uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	store, err := s.GetOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("name", req.Name)
	setString("description", req.Description)
	setString("street", req.Street)
	setString("city", req.City)
	setString("state", req.State)
	setString("postal_code", req.PostalCode)
	setString("phone", req.Phone)
	setString("email", req.Email)
	setString("open_time", req.OpenTime)
	setString("close_time", req.CloseTime)
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	if len(updates) == 0 {
		return store, nil
	}

	if err := s.db.WithContext(ctx).Model(store).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	invalidate(ctx, s.cache, "store updated")
	return s.Get(ctx, id)
}

// Delete soft-deletes the store and its inventory.
func (s *StoreService) Delete(ctx context.Context, owner *models.Profile, id uuid.UUID) error {
	store, err := s.GetOwned(ctx, owner, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", store.ID).Delete(&models.InventoryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", store.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(store).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	invalidate(ctx, s.cache, "store deleted")
	return nil
}

func (s *StoreService) ListOwned(ctx context.Context, owner *models.Profile, params utils.PaginationParams) (*utils.PaginationResult, error) {
	var stores []models.Store
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Store{}).Where("owner_id = ?", owner.ID)
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count stores: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "city", "rating"})
	if err := utils.ApplyPagination(query, params).Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	result := utils.CreatePaginationResult(stores, total, params)
	return &result, nil
}

func (s *StoreService) SetOpen(ctx context.Context, owner *models.Profile, id uuid.UUID, open bool) (*models.Store, error) {
	store, err := s.GetOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(store).Update("is_open", open).Error; err != nil {
		return nil, fmt.Errorf("failed to update store status: %w", err)
	}

	invalidate(ctx, s.cache, "store status changed")
	return s.Get(ctx, id)
}

// AddImage appends an already uploaded image URL to the store gallery.
func (s *StoreService) AddImage(ctx context.Context, owner *models.Profile, id uuid.UUID, url string) (*models.Store, error) {
	store, err := s.GetOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	images := append(models.StringList{}, store.Images...)
	images = append(images, url)
	if err := s.db.WithContext(ctx).Model(store).Update("images", images).Error; err != nil {
		return nil, fmt.Errorf("failed to add store image: %w", err)
	}

	invalidate(ctx, s.cache, "store image added")
	return s.Get(ctx, id)
}
