// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAuthTokenExpired  = "auth.token_expired"
	KeyAuthRetailerOnly  = "auth.retailer_only"
	KeyAuthProfileFailed = "auth.profile_failed"

	// Profile
	KeyProfileNotFound   = "profile.not_found"
	KeyProfileUpdated    = "profile.updated"
	KeyProfileRoleDenied = "profile.role_change_denied"

	// Search
	KeySearchInvalid     = "search.invalid"
	KeySearchUnavailable = "search.unavailable"
	KeySearchTimeout     = "search.timeout"

	// Stores
	KeyStoreNotFound = "store.not_found"
	KeyStoreCreated  = "store.created"
	KeyStoreUpdated  = "store.updated"
	KeyStoreDeleted  = "store.deleted"
	KeyStoreNotOwner = "store.not_owner"

	// Inventory
	KeyInventoryNotFound          = "inventory.not_found"
	KeyInventoryCreated           = "inventory.created"
	KeyInventoryUpdated           = "inventory.updated"
	KeyInventoryDeleted           = "inventory.deleted"
	KeyInventoryInsufficientStock = "inventory.insufficient_stock"

	// Favorites
	KeyFavoriteAdded    = "favorite.added"
	KeyFavoriteRemoved  = "favorite.removed"
	KeyFavoriteExists   = "favorite.exists"
	KeyFavoriteNotFound = "favorite.not_found"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"

	// Assistant
	KeyAssistantUnavailable = "assistant.unavailable"
	KeyAssistantFailed      = "assistant.failed"

	// File Upload
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileTooLarge      = "file.too_large"
	KeyFileInvalidFormat = "file.invalid_format"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Rate limiting
	KeyRateLimited = "rate_limit.exceeded"
)
