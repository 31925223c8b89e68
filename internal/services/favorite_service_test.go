package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/medlocator/internal/models"
)

func TestFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	stores := NewStoreService(db, nil)
	svc := NewFavoriteService(db, stores)

	retailer := newProfile(t, db, models.RoleRetailer)
	customer := newProfile(t, db, models.RoleCustomer)
	store, err := stores.Create(ctx, retailer, delhiStore())
	require.NoError(t, err)

	fav, err := svc.Add(ctx, customer.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, store.Name, fav.Store.Name)

	_, err = svc.Add(ctx, customer.ID, store.ID)
	assert.ErrorIs(t, err, ErrFavoriteExists)

	_, err = svc.Add(ctx, customer.ID, uuid.New())
	assert.ErrorIs(t, err, ErrStoreNotFound)

	list, err := svc.List(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Store)
	assert.Equal(t, "Connaught Place Chemists", list[0].Store.Name)

	require.NoError(t, svc.Remove(ctx, customer.ID, store.ID))
	assert.ErrorIs(t, svc.Remove(ctx, customer.ID, store.ID), ErrFavoriteNotFound)

	list, err = svc.List(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Re-adding after removal revives the row instead of tripping the unique index
	_, err = svc.Add(ctx, customer.ID, store.ID)
	require.NoError(t, err)
	list, err = svc.List(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFavoritesSkipDeletedStores(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	stores := NewStoreService(db, nil)
	svc := NewFavoriteService(db, stores)

	retailer := newProfile(t, db, models.RoleRetailer)
	customer := newProfile(t, db, models.RoleCustomer)
	store, err := stores.Create(ctx, retailer, delhiStore())
	require.NoError(t, err)
	_, err = svc.Add(ctx, customer.ID, store.ID)
	require.NoError(t, err)

	// Soft-delete the store only, leaving the favorite row behind
	require.NoError(t, db.Delete(store).Error)

	list, err := svc.List(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
