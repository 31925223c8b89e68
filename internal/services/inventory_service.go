// internal/services/inventory_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

type InventoryService struct {
	db     *gorm.DB
	stores *StoreService
	cache  Invalidator
	now    func() time.Time
}

type CreateInventoryRequest struct {
	Name                 string          `json:"name" validate:"required,min=2,max=255"`
	GenericName          string          `json:"generic_name,omitempty" validate:"max=255"`
	Manufacturer         string          `json:"manufacturer,omitempty" validate:"max=255"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Quantity             int             `json:"quantity" validate:"gte=0"`
	Unit                 string          `json:"unit,omitempty" validate:"max=50"`
	ExpiryDate           *Date           `json:"expiry_date,omitempty"`
	PrescriptionRequired bool            `json:"prescription_required"`
	IsAvailable          *bool           `json:"is_available,omitempty"`
}

type UpdateInventoryRequest struct {
	Name                 *string          `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	GenericName          *string          `json:"generic_name,omitempty" validate:"omitempty,max=255"`
	Manufacturer         *string          `json:"manufacturer,omitempty" validate:"omitempty,max=255"`
	UnitPrice            *decimal.Decimal `json:"unit_price,omitempty"`
	Quantity             *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit                 *string          `json:"unit,omitempty" validate:"omitempty,max=50"`
	ExpiryDate           *Date            `json:"expiry_date,omitempty"`
	PrescriptionRequired *bool            `json:"prescription_required,omitempty"`
	IsAvailable          *bool            `json:"is_available,omitempty"`
}

type InventoryListParams struct {
	utils.PaginationParams
	IncludeUnavailable bool
}

func NewInventoryService(db *gorm.DB, stores *StoreService, cache Invalidator) *InventoryService {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &InventoryService{db: db, stores: stores, cache: cache, now: time.Now}
}

func (s *InventoryService) Add(ctx context.Context, owner *models.Profile, storeID uuid.UUID, req *CreateInventoryRequest) (*models.InventoryItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	}

	store, err := s.stores.GetOwned(ctx, owner, storeID)
	if err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		StoreID:              store.ID,
		Name:                 strings.TrimSpace(req.Name),
		GenericName:          strings.TrimSpace(req.GenericName),
		Manufacturer:         strings.TrimSpace(req.Manufacturer),
		UnitPrice:            req.UnitPrice,
		Quantity:             req.Quantity,
		Unit:                 req.Unit,
		ExpiryDate:           req.ExpiryDate.Ptr(),
		PrescriptionRequired: req.PrescriptionRequired,
		IsAvailable:          req.IsAvailable == nil || *req.IsAvailable,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	invalidate(ctx, s.cache, "inventory created")
	return item, nil
}

func (s *InventoryService) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

func (s *InventoryService) getOwned(ctx context.Context, owner *models.Profile, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.stores.GetOwned(ctx, owner, item.StoreID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Update(ctx context.Context, owner *models.Profile, id uuid.UUID, req *UpdateInventoryRequest) (*models.InventoryItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	}

	item, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.GenericName != nil {
		updates["generic_name"] = strings.TrimSpace(*req.GenericName)
	}
	if req.Manufacturer != nil {
		updates["manufacturer"] = strings.TrimSpace(*req.Manufacturer)
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = req.ExpiryDate.Ptr()
	}
	if req.PrescriptionRequired != nil {
		updates["prescription_required"] = *req.PrescriptionRequired
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	invalidate(ctx, s.cache, "inventory updated")
	return s.Get(ctx, id)
}

func (s *InventoryService) Delete(ctx context.Context, owner *models.Profile, id uuid.UUID) error {
	item, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	invalidate(ctx, s.cache, "inventory deleted")
	return nil
}

// AdjustStock applies a signed quantity delta. The row is locked for the
// read-modify-write so concurrent adjustments cannot drive stock negative.
func (s *InventoryService) AdjustStock(ctx context.Context, owner *models.Profile, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	if _, err := s.getOwned(ctx, owner, id); err != nil {
		return nil, err
	}

	var item models.InventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
			return err
		}

		next := item.Quantity + delta
		if next < 0 {
			return ErrInsufficientStock
		}

		item.Quantity = next
		return tx.Model(&item).Update("quantity", next).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	invalidate(ctx, s.cache, "stock adjusted")
	return &item, nil
}

// ListByStore pages through a store's inventory. Public callers only see
// available items.
func (s *InventoryService) ListByStore(ctx context.Context, storeID uuid.UUID, params InventoryListParams) (*utils.PaginationResult, error) {
	if _, err := s.stores.Get(ctx, storeID); err != nil {
		return nil, err
	}

	var items []models.InventoryItem
	var total int64

	query := s.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("store_id = ?", storeID)
	if !params.IncludeUnavailable {
		query = query.Where("is_available = ?", true)
	}
	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(generic_name) LIKE ? OR LOWER(manufacturer) LIKE ?)", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count inventory: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "name", "quantity", "expiry_date", "unit_price"})
	if err := utils.ApplyPagination(query, params.PaginationParams).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	result := utils.CreatePaginationResult(items, total, params.PaginationParams)
	return &result, nil
}

// ExpiryAlerts lists available items in the store that expire within the
// next days days, including items already past expiry.
func (s *InventoryService) ExpiryAlerts(ctx context.Context, owner *models.Profile, storeID uuid.UUID, days int) ([]models.InventoryItem, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	if _, err := s.stores.GetOwned(ctx, owner, storeID); err != nil {
		return nil, err
	}

	// Exclusive upper bound on the day after the window
	cutoff := models.DateOf(s.now()).AddDate(0, 0, days+1).Format("2006-01-02")

	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("store_id = ? AND is_available = ? AND expiry_date IS NOT NULL AND expiry_date < ?", storeID, true, cutoff).
		Order("expiry_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring items: %w", err)
	}
	return items, nil
}

// SweepExpired marks every available item whose expiry date is before today
// unavailable and returns how many rows changed.
func (s *InventoryService) SweepExpired(ctx context.Context) (int64, error) {
	today := models.DateOf(s.now()).Format("2006-01-02")

	result := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("is_available = ? AND expiry_date IS NOT NULL AND expiry_date < ?", true, today).
		Update("is_available", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired inventory: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("Marked expired inventory unavailable")
		invalidate(ctx, s.cache, "expiry sweep")
	}
	return result.RowsAffected, nil
}
