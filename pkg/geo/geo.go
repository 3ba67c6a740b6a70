// Package geo provides great-circle distance and bounding-box math used
// by the search pipeline. All distances are in statute miles.
package geo

import (
	"math"
	"sort"
)

const (
	// EarthRadiusMiles is the mean Earth radius used by the Haversine formula.
	EarthRadiusMiles = 3958.8

	// One degree of latitude spans just over 69 miles everywhere on the
	// globe. Using 69 keeps the derived bounding box slightly larger than
	// the true circle, which is the safe direction for a prefilter.
	milesPerDegree = 69.0
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are within the WGS84 domain.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// BoundingBox is an axis-aligned latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether p falls inside the box.
func (b BoundingBox) Contains(p Coordinates) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng
}

// Distance computes the great-circle distance between two points using
// the Haversine formula.
func Distance(a, b Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

// BoundingBoxAround derives a box guaranteed to contain every point
// within radiusMiles of center. The longitude span widens with latitude
// because meridians converge toward the poles; when the cosine
// correction degenerates near a pole the box falls back to the full
// longitude range, which stays on the conservative side.
func BoundingBoxAround(center Coordinates, radiusMiles float64) BoundingBox {
	if radiusMiles < 0 {
		radiusMiles = 0
	}

	latDelta := radiusMiles / milesPerDegree
	box := BoundingBox{
		MinLat: math.Max(center.Latitude-latDelta, -90),
		MaxLat: math.Min(center.Latitude+latDelta, 90),
	}

	// The widest longitude spread of the circle sits poleward of the
	// center, so the cosine is taken at the box edge nearest the pole.
	// Taking it at the center would clip the circle at high latitudes.
	edgeLat := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	cosLat := math.Cos(toRadians(edgeLat))
	if cosLat <= 1e-6 {
		box.MinLng = -180
		box.MaxLng = 180
		return box
	}

	lngDelta := latDelta / cosLat
	box.MinLng = center.Longitude - lngDelta
	box.MaxLng = center.Longitude + lngDelta

	// A circle that crosses the antimeridian cannot be expressed as a
	// single min/max pair, so widen to the full longitude range.
	if box.MinLng < -180 || box.MaxLng > 180 {
		box.MinLng = -180
		box.MaxLng = 180
	}
	return box
}

// Ranked pairs an item with its computed distance from a reference point.
type Ranked[T any] struct {
	Item          T
	DistanceMiles float64
}

// SortByDistance computes the distance from `from` to each item that has
// coordinates and returns them ordered nearest-first. Items for which
// `at` reports no coordinates are dropped. The sort is stable: equal
// distances keep their input order.
func SortByDistance[T any](items []T, from Coordinates, at func(T) (Coordinates, bool)) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		coords, ok := at(item)
		if !ok {
			continue
		}
		ranked = append(ranked, Ranked[T]{
			Item:          item,
			DistanceMiles: Distance(from, coords),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMiles < ranked[j].DistanceMiles
	})

	return ranked
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
