// internal/database/seed.go
package database

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/models"
)

const demoRetailerEmail = "demo-retailer@medlocator.local"

// SeedInitialData loads a demo retailer with a few stocked pharmacies. It is
// a no-op once the demo retailer exists.
func SeedInitialData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Profile{}).Where("email = ?", demoRetailerEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	logrus.Info("Seeding demo data")

	return WithTransaction(db, func(tx *gorm.DB) error {
		owner := &models.Profile{
			Email:    demoRetailerEmail,
			FullName: "Demo Retailer",
			Role:     models.RoleRetailer,
		}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("failed to create demo retailer: %w", err)
		}

		expiry := models.DateOf(time.Now()).AddDate(1, 0, 0)
		for _, s := range demoStores() {
			s.store.OwnerID = owner.ID
			if err := tx.Create(&s.store).Error; err != nil {
				return fmt.Errorf("failed to create store %s: %w", s.store.Name, err)
			}
			for _, item := range s.items {
				item.StoreID = s.store.ID
				item.ExpiryDate = &expiry
				item.IsAvailable = true
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("failed to create item %s: %w", item.Name, err)
				}
			}
		}
		return nil
	})
}

type demoStore struct {
	store models.Store
	items []models.InventoryItem
}

func demoStores() []demoStore {
	coord := func(v float64) *float64 { return &v }
	price := decimal.RequireFromString

	return []demoStore{
		{
			store: models.Store{
				Name: "Connaught Place Chemists", Street: "Block A, Connaught Place", City: "New Delhi",
				State: "Delhi", PostalCode: "110001", Latitude: coord(28.6315), Longitude: coord(77.2167),
				Phone: "+91-11-23415000", IsOpen: true, OpenTime: "08:00", CloseTime: "22:00",
			},
			items: []models.InventoryItem{
				{Name: "Crocin 500", GenericName: "Paracetamol", Manufacturer: "GSK", UnitPrice: price("1.50"), Quantity: 200, Unit: "tablet"},
				{Name: "Augmentin 625", GenericName: "Amoxicillin + Clavulanic Acid", Manufacturer: "GSK", UnitPrice: price("22.00"), Quantity: 40, Unit: "tablet", PrescriptionRequired: true},
			},
		},
		{
			store: models.Store{
				Name: "Karol Bagh Medical Hall", Street: "Ajmal Khan Road", City: "New Delhi",
				State: "Delhi", PostalCode: "110005", Latitude: coord(28.6519), Longitude: coord(77.1909),
				Phone: "+91-11-25720000", IsOpen: true, OpenTime: "09:00", CloseTime: "21:00",
			},
			items: []models.InventoryItem{
				{Name: "Dolo 650", GenericName: "Paracetamol", Manufacturer: "Micro Labs", UnitPrice: price("2.00"), Quantity: 150, Unit: "tablet"},
				{Name: "Huminsulin R", GenericName: "Insulin", Manufacturer: "Lilly", UnitPrice: price("180.00"), Quantity: 12, Unit: "vial", PrescriptionRequired: true},
			},
		},
		{
			store: models.Store{
				Name: "Bandra Wellness Pharmacy", Street: "Hill Road, Bandra West", City: "Mumbai",
				State: "Maharashtra", PostalCode: "400050", Latitude: coord(19.0544), Longitude: coord(72.8347),
				Phone: "+91-22-26400000", IsOpen: true, OpenTime: "07:30", CloseTime: "23:00",
			},
			items: []models.InventoryItem{
				{Name: "Calpol 500", GenericName: "Paracetamol", Manufacturer: "GSK", UnitPrice: price("1.20"), Quantity: 300, Unit: "tablet"},
			},
		},
	}
}
