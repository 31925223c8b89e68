// internal/services/notification_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

// digestWindow is the minimum gap between two expiry digests to one owner.
const digestWindow = 24 * time.Hour

type NotificationService struct {
	db  *gorm.DB
	now func() time.Time
	log *logrus.Entry
}

type NotificationRequest struct {
	ProfileID           uuid.UUID
	Type                string
	Title               string
	Message             string
	RelatedResourceType string
	RelatedResourceID   *uuid.UUID
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:  db,
		now: time.Now,
		log: logrus.WithField("component", "notifications"),
	}
}

// Notify stores an in-app notification. Retailers read them through the
// notifications inbox; nothing is pushed.
func (s *NotificationService) Notify(ctx context.Context, req *NotificationRequest) (*models.Notification, error) {
	notification := &models.Notification{
		BaseModel:           models.BaseModel{CreatedAt: s.now()},
		ProfileID:           req.ProfileID,
		Type:                req.Type,
		Title:               req.Title,
		Message:             req.Message,
		RelatedResourceType: req.RelatedResourceType,
		RelatedResourceID:   req.RelatedResourceID,
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"profile_id": req.ProfileID,
		"type":       req.Type,
	}).Debug("Notification stored")
	return notification, nil
}

func (s *NotificationService) List(ctx context.Context, profileID uuid.UUID, params utils.PaginationParams, unreadOnly bool) (*utils.PaginationResult, error) {
	var notifications []models.Notification
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("profile_id = ?", profileID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "type"})
	if err := utils.ApplyPagination(query, params).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := utils.CreatePaginationResult(notifications, total, params)
	return &result, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, profileID, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.WithContext(ctx).Where("id = ? AND profile_id = ?", id, profileID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if notification.ReadAt == nil {
		now := s.now()
		if err := s.db.WithContext(ctx).Model(&notification).Update("read_at", now).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
		notification.ReadAt = &now
	}
	return &notification, nil
}

// NotifyExpiringStock sends each store owner one digest of their available
// items expiring within days, at most once per digestWindow. It returns the
// number of owners notified.
func (s *NotificationService) NotifyExpiringStock(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	now := s.now()
	cutoff := models.DateOf(now).AddDate(0, 0, days+1).Format("2006-01-02")

	var items []models.InventoryItem
	err := s.db.WithContext(ctx).Joins("Store").
		Where("inventory_items.is_available = ? AND inventory_items.expiry_date IS NOT NULL AND inventory_items.expiry_date < ?", true, cutoff).
		Order("inventory_items.expiry_date ASC").
		Find(&items).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find expiring inventory: %w", err)
	}

	byOwner := map[uuid.UUID][]string{}
	var owners []uuid.UUID
	for _, item := range items {
		if item.Store == nil || item.Store.ID == uuid.Nil || item.ExpiryDate == nil {
			continue
		}
		owner := item.Store.OwnerID
		if _, seen := byOwner[owner]; !seen {
			owners = append(owners, owner)
		}
		byOwner[owner] = append(byOwner[owner],
			fmt.Sprintf("%s at %s expires on %s", item.Name, item.Store.Name, item.ExpiryDate.Format("2006-01-02")))
	}

	notified := 0
	for _, owner := range owners {
		var recent int64
		if err := s.db.WithContext(ctx).Model(&models.Notification{}).
			Where("profile_id = ? AND type = ? AND created_at > ?", owner, models.NotificationExpiryDigest, now.Add(-digestWindow)).
			Count(&recent).Error; err != nil {
			return notified, fmt.Errorf("failed to check recent digests: %w", err)
		}
		if recent > 0 {
			continue
		}

		lines := byOwner[owner]
		_, err := s.Notify(ctx, &NotificationRequest{
			ProfileID: owner,
			Type:      models.NotificationExpiryDigest,
			Title:     fmt.Sprintf("%d medicines expire within %d days", len(lines), days),
			Message:   strings.Join(lines, "\n"),
		})
		if err != nil {
			return notified, err
		}
		notified++
	}
	return notified, nil
}
