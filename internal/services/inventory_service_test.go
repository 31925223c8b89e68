package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

var serviceNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

type InventoryServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	cache    *countingInvalidator
	stores   *StoreService
	svc      *InventoryService
	retailer *models.Profile
	store    *models.Store
	ctx      context.Context
}

func (s *InventoryServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.cache = &countingInvalidator{}
	s.stores = NewStoreService(s.db, s.cache)
	s.svc = NewInventoryService(s.db, s.stores, s.cache)
	s.svc.now = func() time.Time { return serviceNow }
	s.retailer = newProfile(s.T(), s.db, models.RoleRetailer)
	s.ctx = context.Background()

	store, err := s.stores.Create(s.ctx, s.retailer, delhiStore())
	s.Require().NoError(err)
	s.store = store
	s.cache.calls.Store(0)
}

func (s *InventoryServiceSuite) expiring(name string, days int) *models.InventoryItem {
	req := paracetamol(10)
	req.Name = name
	req.ExpiryDate = &Date{Time: serviceNow.AddDate(0, 0, days)}
	item, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, req)
	s.Require().NoError(err)
	return item
}

func (s *InventoryServiceSuite) TestAdd() {
	item, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(20))
	s.Require().NoError(err)
	s.True(item.IsAvailable)
	s.Equal(20, item.Quantity)
	s.Equal(int64(1), s.cache.calls.Load())

	got, err := s.svc.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("1.50").Equal(got.UnitPrice))
}

func (s *InventoryServiceSuite) TestAddRejectsBadInput() {
	neg := paracetamol(-1)
	_, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, neg)
	s.Error(err)

	price := paracetamol(1)
	price.UnitPrice = decimal.NewFromInt(-3)
	_, err = s.svc.Add(s.ctx, s.retailer, s.store.ID, price)
	s.ErrorIs(err, ErrInvalidInput)

	other := newProfile(s.T(), s.db, models.RoleRetailer)
	_, err = s.svc.Add(s.ctx, other, s.store.ID, paracetamol(1))
	s.ErrorIs(err, ErrNotOwner)
}

func (s *InventoryServiceSuite) TestAdjustStockNeverBelowZero() {
	item, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(5))
	s.Require().NoError(err)

	item, err = s.svc.AdjustStock(s.ctx, s.retailer, item.ID, -3)
	s.Require().NoError(err)
	s.Equal(2, item.Quantity)

	_, err = s.svc.AdjustStock(s.ctx, s.retailer, item.ID, -3)
	s.ErrorIs(err, ErrInsufficientStock)

	got, err := s.svc.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(2, got.Quantity)

	item, err = s.svc.AdjustStock(s.ctx, s.retailer, item.ID, 10)
	s.Require().NoError(err)
	s.Equal(12, item.Quantity)
}

func (s *InventoryServiceSuite) TestConcurrentAdjustments() {
	item, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(10))
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.svc.AdjustStock(s.ctx, s.retailer, item.ID, -1)
		}()
	}
	wg.Wait()

	got, err := s.svc.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(0, got.Quantity)
}

func (s *InventoryServiceSuite) TestUpdate() {
	item, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(5))
	s.Require().NoError(err)

	price := decimal.RequireFromString("2.25")
	updated, err := s.svc.Update(s.ctx, s.retailer, item.ID, &UpdateInventoryRequest{
		UnitPrice:   &price,
		IsAvailable: boolp(false),
		Quantity:    intp(0),
	})
	s.Require().NoError(err)
	s.True(price.Equal(updated.UnitPrice))
	s.False(updated.IsAvailable)
	s.Equal(0, updated.Quantity)
	s.Equal("Crocin 500", updated.Name)

	_, err = s.svc.Update(s.ctx, s.retailer, item.ID, &UpdateInventoryRequest{Quantity: intp(-2)})
	s.Error(err)
}

func (s *InventoryServiceSuite) TestDelete() {
	item, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(5))
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, s.retailer, item.ID))
	_, err = s.svc.Get(s.ctx, item.ID)
	s.ErrorIs(err, ErrInventoryNotFound)
}

func (s *InventoryServiceSuite) TestListByStore() {
	_, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(5))
	s.Require().NoError(err)
	hidden := paracetamol(5)
	hidden.Name = "Hidden Syrup"
	hidden.IsAvailable = boolp(false)
	_, err = s.svc.Add(s.ctx, s.retailer, s.store.ID, hidden)
	s.Require().NoError(err)
	other := paracetamol(5)
	other.Name, other.GenericName, other.Manufacturer = "Augmentin", "Amoxicillin", "GSK"
	_, err = s.svc.Add(s.ctx, s.retailer, s.store.ID, other)
	s.Require().NoError(err)

	params := InventoryListParams{PaginationParams: utils.NormalizePagination(utils.PaginationParams{})}
	page, err := s.svc.ListByStore(s.ctx, s.store.ID, params)
	s.Require().NoError(err)
	s.EqualValues(2, page.Total)

	params.IncludeUnavailable = true
	page, err = s.svc.ListByStore(s.ctx, s.store.ID, params)
	s.Require().NoError(err)
	s.EqualValues(3, page.Total)

	params.Search = "gsk"
	page, err = s.svc.ListByStore(s.ctx, s.store.ID, params)
	s.Require().NoError(err)
	s.EqualValues(1, page.Total)
}

func (s *InventoryServiceSuite) TestExpiryAlerts() {
	s.expiring("Expired Yesterday", -1)
	s.expiring("Expires Today", 0)
	s.expiring("Edge Of Window", 30)
	s.expiring("Next Year", 365)
	_, err := s.svc.Add(s.ctx, s.retailer, s.store.ID, paracetamol(3))
	s.Require().NoError(err)

	alerts, err := s.svc.ExpiryAlerts(s.ctx, s.retailer, s.store.ID, 30)
	s.Require().NoError(err)
	s.Require().Len(alerts, 3)
	s.Equal("Expired Yesterday", alerts[0].Name)
	s.Equal("Expires Today", alerts[1].Name)
	s.Equal("Edge Of Window", alerts[2].Name)

	_, err = s.svc.ExpiryAlerts(s.ctx, s.retailer, s.store.ID, 0)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *InventoryServiceSuite) TestSweepExpired() {
	stale := s.expiring("Expired Yesterday", -1)
	today := s.expiring("Expires Today", 0)
	s.cache.calls.Store(0)

	n, err := s.svc.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)
	s.Equal(int64(1), s.cache.calls.Load())

	got, err := s.svc.Get(s.ctx, stale.ID)
	s.Require().NoError(err)
	s.False(got.IsAvailable)
	got, err = s.svc.Get(s.ctx, today.ID)
	s.Require().NoError(err)
	s.True(got.IsAvailable)

	n, err = s.svc.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
	s.Equal(int64(1), s.cache.calls.Load(), "no-op sweep leaves the cache alone")
}

func TestInventoryServiceSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceSuite))
}
