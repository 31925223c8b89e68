// internal/search/engine.go
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/config"
	"github.com/javajoker/medlocator/internal/geo"
	"github.com/javajoker/medlocator/internal/models"
)

// RecordStore is the read side of the backing data service.
type RecordStore interface {
	// FindCandidates returns available, in-stock, unexpired items whose name,
	// generic name or manufacturer contains filter.Text, each joined with its
	// store. Order must be deterministic for unchanged data.
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.InventoryItem, error)
}

type CandidateFilter struct {
	// Text is trimmed and lower-cased.
	Text string
	// AsOf is the calendar day used for the expiry predicate.
	AsOf time.Time
}

// Day formats AsOf the way the expiry predicate expects it.
func (f CandidateFilter) Day() string {
	return f.AsOf.Format("2006-01-02")
}

type Request struct {
	RequestID string
	Query     string
	Origin    *geo.Point
	RadiusKm  float64
}

type Result struct {
	Item          models.InventoryItem `json:"item"`
	DistanceKm    float64              `json:"distance_km"`
	DirectionsURL string               `json:"directions_url"`
}

type Response struct {
	RequestID      string    `json:"request_id"`
	Query          string    `json:"query"`
	Origin         geo.Point `json:"origin"`
	OriginFallback bool      `json:"origin_fallback"`
	RadiusKm       float64   `json:"radius_km"`
	Count          int       `json:"count"`
	Results        []Result  `json:"results"`
	SearchedAt     time.Time `json:"searched_at"`
}

type Options struct {
	Timeout        time.Duration
	MaxRadiusKm    float64
	MaxQueryLength int
	// Fallback is the reference point used when the caller has no location.
	Fallback geo.Point
	Now      func() time.Time
	Logger   *logrus.Entry
}

func OptionsFromConfig(cfg config.SearchConfig) Options {
	return Options{
		Timeout:        cfg.Timeout,
		MaxRadiusKm:    cfg.MaxRadiusKm,
		MaxQueryLength: cfg.MaxQueryLength,
		Fallback:       geo.Point{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng},
	}
}

// Engine ranks in-stock medicines by distance from an origin. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	store          RecordStore
	timeout        time.Duration
	maxRadiusKm    float64
	maxQueryLength int
	fallback       geo.Point
	now            func() time.Time
	log            *logrus.Entry
}

func NewEngine(store RecordStore, opts Options) *Engine {
	e := &Engine{
		store:          store,
		timeout:        opts.Timeout,
		maxRadiusKm:    opts.MaxRadiusKm,
		maxQueryLength: opts.MaxQueryLength,
		fallback:       opts.Fallback,
		now:            opts.Now,
		log:            opts.Logger,
	}
	if e.timeout <= 0 {
		e.timeout = 5 * time.Second
	}
	if e.maxQueryLength <= 0 {
		e.maxQueryLength = 100
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = logrus.NewEntry(logrus.StandardLogger())
	}
	e.log = e.log.WithField("component", "search")
	return e
}

func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	text, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	now := e.now()
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	origin, usingFallback := e.fallback, true
	if req.Origin != nil {
		origin, usingFallback = *req.Origin, false
	}

	candidates, err := e.fetch(ctx, CandidateFilter{Text: text, AsOf: models.DateOf(now)})
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, item := range candidates {
		if !item.Searchable(now) || !matches(&item, text) {
			e.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"item_id":    item.ID,
			}).Debug("Record store returned an ineligible candidate")
			continue
		}

		var lat, lng *float64
		if item.Store != nil {
			lat, lng = item.Store.Latitude, item.Store.Longitude
		}
		distance, ok := geo.DistanceKm(origin, lat, lng)
		if !ok {
			e.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"item_id":    item.ID,
				"store_id":   item.StoreID,
			}).Warn("Store has no valid coordinates, excluded from ranking")
			continue
		}
		if distance > req.RadiusKm {
			continue
		}

		dest := geo.Point{Lat: *lat, Lng: *lng}
		var from *geo.Point
		if !usingFallback {
			from = &origin
		}
		results = append(results, Result{
			Item:          item,
			DistanceKm:    distance,
			DirectionsURL: geo.DirectionsURL(from, dest),
		})
	}

	// Without a real origin the list stays in record store order.
	if !usingFallback {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})
	}

	return &Response{
		RequestID:      requestID,
		Query:          strings.TrimSpace(req.Query),
		Origin:         origin,
		OriginFallback: usingFallback,
		RadiusKm:       req.RadiusKm,
		Count:          len(results),
		Results:        results,
		SearchedAt:     now,
	}, nil
}

func (e *Engine) validate(req Request) (string, error) {
	text := strings.TrimSpace(req.Query)
	if text == "" {
		return "", &ValidationError{Field: "query", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > e.maxQueryLength {
		return "", &ValidationError{Field: "query", Message: fmt.Sprintf("must be at most %d characters", e.maxQueryLength)}
	}

	if math.IsNaN(req.RadiusKm) || req.RadiusKm <= 0 {
		return "", &ValidationError{Field: "radius", Message: "must be greater than zero"}
	}
	if e.maxRadiusKm > 0 && req.RadiusKm > e.maxRadiusKm {
		return "", &ValidationError{Field: "radius", Message: fmt.Sprintf("must be at most %g km", e.maxRadiusKm)}
	}

	if req.Origin != nil && !req.Origin.Valid() {
		return "", &ValidationError{Field: "origin", Message: "latitude must be within [-90, 90] and longitude within [-180, 180]"}
	}

	return strings.ToLower(text), nil
}

func (e *Engine) fetch(ctx context.Context, filter CandidateFilter) ([]models.InventoryItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	candidates, err := e.store.FindCandidates(fetchCtx, filter)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", errDeadline, e.timeout, err)
		}
		return nil, &RetrievalError{Err: err}
	}
	return candidates, nil
}

func matches(item *models.InventoryItem, text string) bool {
	for _, field := range []string{item.Name, item.GenericName, item.Manufacturer} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}
