// internal/geo/geo.go
package geo

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0

	// SentinelDistanceKm is assigned to locations that cannot be ranked.
	SentinelDistanceKm = 9999.0
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) Valid() bool {
	return ValidCoordinates(p.Lat, p.Lng)
}

func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// PointFrom builds a Point from nullable columns. ok is false when either
// coordinate is missing or out of range.
func PointFrom(lat, lng *float64) (Point, bool) {
	if lat == nil || lng == nil {
		return Point{}, false
	}
	p := Point{Lat: *lat, Lng: *lng}
	return p, p.Valid()
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLng*sinLng

	// rounding can push h a hair past 1 for antipodal points
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// DistanceKm is Haversine for nullable destination coordinates; invalid
// destinations get SentinelDistanceKm.
func DistanceKm(origin Point, lat, lng *float64) (float64, bool) {
	dest, ok := PointFrom(lat, lng)
	if !ok {
		return SentinelDistanceKm, false
	}
	return Haversine(origin, dest), true
}

// DirectionsURL builds a Google Maps directions link. A nil origin lets the
// maps client use the device location.
func DirectionsURL(origin *Point, dest Point) string {
	q := url.Values{}
	q.Set("api", "1")
	if origin != nil {
		q.Set("origin", origin.String())
	}
	q.Set("destination", dest.String())
	return fmt.Sprintf("https://www.google.com/maps/dir/?%s", q.Encode())
}
