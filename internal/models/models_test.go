package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryItemSearchable(t *testing.T) {
	today := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		item InventoryItem
		want bool
	}{
		{"in stock, no expiry", InventoryItem{IsAvailable: true, Quantity: 3}, true},
		{"out of stock", InventoryItem{IsAvailable: true, Quantity: 0}, false},
		{"flagged unavailable", InventoryItem{IsAvailable: false, Quantity: 10}, false},
		{"expired yesterday", InventoryItem{IsAvailable: true, Quantity: 10, ExpiryDate: &yesterday}, false},
		{"expires today", InventoryItem{IsAvailable: true, Quantity: 10, ExpiryDate: &sameDay}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.item.Searchable(today))
		})
	}
}

func TestStringListScan(t *testing.T) {
	var s StringList
	require.NoError(t, s.Scan([]byte(`["a.jpg","b.jpg"]`)))
	assert.Equal(t, StringList{"a.jpg", "b.jpg"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleRetailer.Valid())
	assert.False(t, Role("pharmacist").Valid())
}
