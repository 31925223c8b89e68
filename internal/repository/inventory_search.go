// internal/repository/inventory_search.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/javajoker/medlocator/internal/config"
	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/search"
)

// InventorySearchStore is the search read path. It runs one joined query
// over inventory_items and stores and maps rows into typed models.
type InventorySearchStore struct {
	db *sqlx.DB
}

func NewInventorySearchStore(db *sqlx.DB) *InventorySearchStore {
	return &InventorySearchStore{db: db}
}

// Open connects the search read pool through lib/pq. SQLite has no replica,
// so the primary handle is shared instead.
func Open(cfg config.DatabaseConfig, primary *sql.DB) (*sqlx.DB, error) {
	if cfg.Driver == "sqlite" {
		return sqlx.NewDb(primary, "sqlite"), nil
	}

	db, err := sqlx.Connect("postgres", cfg.ReadDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect search read pool: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	return db, nil
}

const candidatesQuery = `
SELECT
  i.id, i.store_id, i.name,
  COALESCE(i.generic_name, '') AS generic_name,
  COALESCE(i.manufacturer, '') AS manufacturer,
  i.unit_price, i.quantity,
  COALESCE(i.unit, '') AS unit,
  i.expiry_date, i.prescription_required, i.is_available,
  i.created_at, i.updated_at,
  s.id AS "store.id",
  s.owner_id AS "store.owner_id",
  s.name AS "store.name",
  COALESCE(s.description, '') AS "store.description",
  COALESCE(s.street, '') AS "store.street",
  COALESCE(s.city, '') AS "store.city",
  COALESCE(s.state, '') AS "store.state",
  COALESCE(s.postal_code, '') AS "store.postal_code",
  s.latitude AS "store.latitude",
  s.longitude AS "store.longitude",
  COALESCE(s.phone, '') AS "store.phone",
  COALESCE(s.email, '') AS "store.email",
  s.is_open AS "store.is_open",
  COALESCE(s.open_time, '') AS "store.open_time",
  COALESCE(s.close_time, '') AS "store.close_time",
  COALESCE(s.rating, 0) AS "store.rating",
  COALESCE(s.review_count, 0) AS "store.review_count",
  s.created_at AS "store.created_at",
  s.updated_at AS "store.updated_at"
FROM inventory_items i
JOIN stores s ON s.id = i.store_id AND s.deleted_at IS NULL
WHERE i.deleted_at IS NULL
  AND i.is_available = ?
  AND i.quantity > 0
  AND (i.expiry_date IS NULL OR i.expiry_date >= ?)
  AND (LOWER(i.name) LIKE ? ESCAPE '\'
    OR LOWER(COALESCE(i.generic_name, '')) LIKE ? ESCAPE '\'
    OR LOWER(COALESCE(i.manufacturer, '')) LIKE ? ESCAPE '\')
ORDER BY i.created_at ASC, i.id ASC
`

type storeRow struct {
	ID          uuid.UUID       `db:"id"`
	OwnerID     uuid.UUID       `db:"owner_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Street      string          `db:"street"`
	City        string          `db:"city"`
	State       string          `db:"state"`
	PostalCode  string          `db:"postal_code"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	Phone       string          `db:"phone"`
	Email       string          `db:"email"`
	IsOpen      bool            `db:"is_open"`
	OpenTime    string          `db:"open_time"`
	CloseTime   string          `db:"close_time"`
	Rating      float64         `db:"rating"`
	ReviewCount int64           `db:"review_count"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type candidateRow struct {
	ID                   uuid.UUID       `db:"id"`
	StoreID              uuid.UUID       `db:"store_id"`
	Name                 string          `db:"name"`
	GenericName          string          `db:"generic_name"`
	Manufacturer         string          `db:"manufacturer"`
	UnitPrice            decimal.Decimal `db:"unit_price"`
	Quantity             int             `db:"quantity"`
	Unit                 string          `db:"unit"`
	ExpiryDate           NullDate        `db:"expiry_date"`
	PrescriptionRequired bool            `db:"prescription_required"`
	IsAvailable          bool            `db:"is_available"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
	Store                storeRow        `db:"store"`
}

func (s *InventorySearchStore) FindCandidates(ctx context.Context, filter search.CandidateFilter) ([]models.InventoryItem, error) {
	like := "%" + escapeLike(strings.ToLower(filter.Text)) + "%"

	rows := []candidateRow{}
	query := s.db.Rebind(candidatesQuery)
	if err := s.db.SelectContext(ctx, &rows, query, true, filter.Day(), like, like, like); err != nil {
		return nil, fmt.Errorf("query inventory candidates: %w", err)
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// toModel validates a joined row at the boundary. Coordinates outside the
// valid range are kept as-is; the engine decides what to do with them.
func (r *candidateRow) toModel() (models.InventoryItem, error) {
	if r.ID == uuid.Nil || r.Store.ID == uuid.Nil {
		return models.InventoryItem{}, fmt.Errorf("malformed candidate row: missing id")
	}
	if r.StoreID != r.Store.ID {
		return models.InventoryItem{}, fmt.Errorf("malformed candidate row %s: store mismatch", r.ID)
	}
	if r.Quantity < 0 || r.UnitPrice.IsNegative() {
		return models.InventoryItem{}, fmt.Errorf("malformed candidate row %s: negative quantity or price", r.ID)
	}

	store := &models.Store{
		BaseModel:   models.BaseModel{ID: r.Store.ID, CreatedAt: r.Store.CreatedAt, UpdatedAt: r.Store.UpdatedAt},
		OwnerID:     r.Store.OwnerID,
		Name:        r.Store.Name,
		Description: r.Store.Description,
		Street:      r.Store.Street,
		City:        r.Store.City,
		State:       r.Store.State,
		PostalCode:  r.Store.PostalCode,
		Phone:       r.Store.Phone,
		Email:       r.Store.Email,
		IsOpen:      r.Store.IsOpen,
		OpenTime:    r.Store.OpenTime,
		CloseTime:   r.Store.CloseTime,
		Rating:      r.Store.Rating,
		ReviewCount: r.Store.ReviewCount,
	}
	if r.Store.Latitude.Valid {
		lat := r.Store.Latitude.Float64
		store.Latitude = &lat
	}
	if r.Store.Longitude.Valid {
		lng := r.Store.Longitude.Float64
		store.Longitude = &lng
	}

	item := models.InventoryItem{
		BaseModel:            models.BaseModel{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		StoreID:              r.StoreID,
		Name:                 r.Name,
		GenericName:          r.GenericName,
		Manufacturer:         r.Manufacturer,
		UnitPrice:            r.UnitPrice,
		Quantity:             r.Quantity,
		Unit:                 r.Unit,
		PrescriptionRequired: r.PrescriptionRequired,
		IsAvailable:          r.IsAvailable,
		Store:                store,
	}
	if r.ExpiryDate.Valid {
		d := r.ExpiryDate.Time
		item.ExpiryDate = &d
	}
	return item, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
