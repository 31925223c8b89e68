// internal/services/errors.go
package services

import "errors"

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrStoreNotFound        = errors.New("store not found")
	ErrInventoryNotFound    = errors.New("inventory item not found")
	ErrNotOwner             = errors.New("caller does not own this store")
	ErrNotRetailer          = errors.New("caller is not a retailer")
	ErrInsufficientStock    = errors.New("stock cannot go below zero")
	ErrFavoriteExists       = errors.New("store is already a favorite")
	ErrFavoriteNotFound     = errors.New("favorite not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrRoleChangeDenied     = errors.New("role change not allowed")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAssistantDisabled    = errors.New("assistant is not configured")
	ErrStorageUnavailable   = errors.New("object storage is not configured")
)
