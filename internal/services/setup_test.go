package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/database"
	"github.com/javajoker/medlocator/internal/models"
)

type countingInvalidator struct {
	calls atomic.Int64
	err   error
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newProfile(t *testing.T, db *gorm.DB, role models.Role) *models.Profile {
	t.Helper()
	p := &models.Profile{Email: string(role) + "@example.com", Role: role}
	require.NoError(t, db.Create(p).Error)
	return p
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func boolp(v bool) *bool     { return &v }
func intp(v int) *int        { return &v }

func delhiStore() *CreateStoreRequest {
	return &CreateStoreRequest{
		Name:      "Connaught Place Chemists",
		City:      "New Delhi",
		Latitude:  f64(28.6315),
		Longitude: f64(77.2167),
		Phone:     "+91-11-23415000",
		OpenTime:  "08:00",
		CloseTime: "22:00",
	}
}

func paracetamol(qty int) *CreateInventoryRequest {
	return &CreateInventoryRequest{
		Name:        "Crocin 500",
		GenericName: "Paracetamol",
		UnitPrice:   decimal.RequireFromString("1.50"),
		Quantity:    qty,
		Unit:        "tablet",
	}
}
