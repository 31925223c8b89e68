package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/config"
	"github.com/javajoker/medlocator/internal/database"
	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/search"
)

var today = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

type InventorySearchSuite struct {
	suite.Suite
	db    *gorm.DB
	store *InventorySearchStore
	shop  *models.Store
	seq   int
}

func (s *InventorySearchSuite) SetupTest() {
	db, err := database.OpenInMemory()
	s.Require().NoError(err)
	s.db = db

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	read, err := Open(config.DatabaseConfig{Driver: "sqlite"}, sqlDB)
	s.Require().NoError(err)
	s.store = NewInventorySearchStore(read)

	owner := &models.Profile{Email: "owner@example.com", Role: models.RoleRetailer}
	s.Require().NoError(db.Create(owner).Error)

	lat, lng := 28.6315, 77.2167
	s.shop = &models.Store{OwnerID: owner.ID, Name: "CP Chemists", City: "New Delhi", Latitude: &lat, Longitude: &lng, IsOpen: true, Rating: 4.5}
	s.Require().NoError(db.Create(s.shop).Error)
}

func (s *InventorySearchSuite) TearDownTest() {
	database.Close(s.db)
}

func (s *InventorySearchSuite) addItem(mutate func(*models.InventoryItem)) *models.InventoryItem {
	s.seq++
	item := &models.InventoryItem{
		BaseModel:   models.BaseModel{CreatedAt: today.Add(time.Duration(s.seq) * time.Minute)},
		StoreID:     s.shop.ID,
		Name:        "Crocin 500",
		GenericName: "Paracetamol",
		UnitPrice:   decimal.RequireFromString("1.50"),
		Quantity:    10,
		Unit:        "tablet",
		IsAvailable: true,
	}
	if mutate != nil {
		mutate(item)
	}
	s.Require().NoError(s.db.Create(item).Error)
	return item
}

func (s *InventorySearchSuite) find(text string) []models.InventoryItem {
	items, err := s.store.FindCandidates(context.Background(), search.CandidateFilter{Text: text, AsOf: today})
	s.Require().NoError(err)
	return items
}

func (s *InventorySearchSuite) TestMatchesAnyTextField() {
	s.addItem(nil)
	s.addItem(func(i *models.InventoryItem) { i.Name, i.GenericName, i.Manufacturer = "Augmentin", "Amoxicillin", "GSK" })

	s.Len(s.find("paracetamol"), 1)
	s.Len(s.find("crocin"), 1)
	s.Len(s.find("gsk"), 1)
	s.Empty(s.find("ibuprofen"))
}

func (s *InventorySearchSuite) TestJoinsStore() {
	item := s.addItem(func(i *models.InventoryItem) {
		i.PrescriptionRequired = true
		i.UnitPrice = decimal.RequireFromString("22.75")
	})

	got := s.find("crocin")
	s.Require().Len(got, 1)
	s.Equal(item.ID, got[0].ID)
	s.True(got[0].PrescriptionRequired)
	s.True(decimal.RequireFromString("22.75").Equal(got[0].UnitPrice))
	s.Require().NotNil(got[0].Store)
	s.Equal("CP Chemists", got[0].Store.Name)
	s.Require().NotNil(got[0].Store.Latitude)
	s.InDelta(28.6315, *got[0].Store.Latitude, 1e-9)
	s.InDelta(4.5, got[0].Store.Rating, 1e-9)
}

func (s *InventorySearchSuite) TestExcludesIneligibleRows() {
	yesterday := today.AddDate(0, 0, -1)
	s.addItem(func(i *models.InventoryItem) { i.Quantity = 0 })
	s.addItem(func(i *models.InventoryItem) { i.IsAvailable = false })
	s.addItem(func(i *models.InventoryItem) { i.ExpiryDate = &yesterday })
	deleted := s.addItem(nil)
	s.Require().NoError(s.db.Delete(deleted).Error)

	s.Empty(s.find("crocin"))
}

func (s *InventorySearchSuite) TestExpiringTodayIsIncluded() {
	d := today
	item := s.addItem(func(i *models.InventoryItem) { i.ExpiryDate = &d })

	got := s.find("crocin")
	s.Require().Len(got, 1)
	s.Equal(item.ID, got[0].ID)
	s.Require().NotNil(got[0].ExpiryDate)
	s.True(got[0].ExpiryDate.Equal(today))
}

func (s *InventorySearchSuite) TestDeletedStoreHidesItems() {
	s.addItem(nil)
	s.Require().NoError(s.db.Delete(s.shop).Error)
	s.Empty(s.find("crocin"))
}

func (s *InventorySearchSuite) TestMissingCoordinatesArePassedThrough() {
	bare := &models.Store{OwnerID: s.shop.OwnerID, Name: "No Pin Pharmacy"}
	s.Require().NoError(s.db.Create(bare).Error)
	s.addItem(func(i *models.InventoryItem) { i.StoreID = bare.ID })

	got := s.find("crocin")
	s.Require().Len(got, 1)
	s.Nil(got[0].Store.Latitude)
	s.Nil(got[0].Store.Longitude)
}

func (s *InventorySearchSuite) TestOrderIsStable() {
	first := s.addItem(nil)
	second := s.addItem(nil)
	third := s.addItem(nil)

	for i := 0; i < 3; i++ {
		got := s.find("crocin")
		s.Require().Len(got, 3)
		s.Equal(first.ID, got[0].ID)
		s.Equal(second.ID, got[1].ID)
		s.Equal(third.ID, got[2].ID)
	}
}

func (s *InventorySearchSuite) TestLikeWildcardsAreLiteral() {
	s.addItem(nil)
	s.Empty(s.find("%"))
	s.Empty(s.find("_"))
}

func (s *InventorySearchSuite) TestCancelledContext() {
	s.addItem(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.store.FindCandidates(ctx, search.CandidateFilter{Text: "crocin", AsOf: today})
	s.Error(err)
}

func TestInventorySearchSuite(t *testing.T) {
	suite.Run(t, new(InventorySearchSuite))
}

func TestNullDateScan(t *testing.T) {
	var d NullDate
	require.NoError(t, d.Scan(nil))
	assert.False(t, d.Valid)

	for _, src := range []interface{}{
		"2026-10-15",
		[]byte("2026-10-15"),
		"2026-10-15 00:00:00+00:00",
		"2026-10-15T00:00:00Z",
		time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC),
	} {
		d = NullDate{}
		require.NoError(t, d.Scan(src), "%v", src)
		assert.True(t, d.Valid)
		assert.True(t, d.Time.Equal(today), "%v", src)
	}

	assert.Error(t, d.Scan("next tuesday"))
	assert.Error(t, d.Scan(42))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

var _ search.RecordStore = (*InventorySearchStore)(nil)
