package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

func claimsFor(id uuid.UUID) *utils.ProviderClaims {
	return &utils.ProviderClaims{
		Email:            "asha@example.com",
		UserMetadata:     map[string]interface{}{"full_name": "Asha Rao"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}
}

func TestProfileGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	id := uuid.New()

	first, err := svc.GetOrCreate(ctx, claimsFor(id))
	require.NoError(t, err)
	assert.Equal(t, id, first.ID)
	assert.Equal(t, models.RoleCustomer, first.Role)
	assert.Equal(t, "Asha Rao", first.FullName)

	_, err = svc.Update(ctx, id, &UpdateProfileRequest{Role: rolep(models.RoleRetailer)})
	require.NoError(t, err)

	// A second login keeps the stored profile
	again, err := svc.GetOrCreate(ctx, claimsFor(id))
	require.NoError(t, err)
	assert.Equal(t, models.RoleRetailer, again.Role)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProfileGetOrCreateRejectsBadSubject(t *testing.T) {
	svc := NewProfileService(newTestDB(t))
	_, err := svc.GetOrCreate(context.Background(), &utils.ProviderClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfileUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	customer := newProfile(t, db, models.RoleCustomer)

	updated, err := svc.Update(ctx, customer.ID, &UpdateProfileRequest{FullName: str("Ravi"), Phone: str("+91 98765 43210")})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", updated.FullName)
	assert.Equal(t, "+91 98765 43210", updated.Phone)

	_, err = svc.Update(ctx, customer.ID, &UpdateProfileRequest{Role: rolep(models.RoleAdmin)})
	assert.Error(t, err, "admin cannot be self-assigned")

	admin := newProfile(t, db, models.RoleAdmin)
	_, err = svc.Update(ctx, admin.ID, &UpdateProfileRequest{Role: rolep(models.RoleCustomer)})
	assert.ErrorIs(t, err, ErrRoleChangeDenied)

	_, err = svc.Update(ctx, uuid.New(), &UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func rolep(r models.Role) *models.Role { return &r }
