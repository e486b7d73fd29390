// Package geofence matches a reported position against the named work
// locations an attempt may be recorded at.
package geofence

import (
	"math"

	"timeclock/models"
)

const earthRadiusMeters = 6371000

type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle distance between a and b in metres.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Resolve returns the nearest active location whose radius contains p.
// Locations with no radius of their own use defaultRadius.
func Resolve(locations []models.Location, p Point, defaultRadius float64) (models.Location, bool) {
	var (
		best     models.Location
		bestDist = math.Inf(1)
		found    bool
	)
	for _, loc := range locations {
		if !loc.Active {
			continue
		}
		radius := loc.RadiusMeters
		if radius <= 0 {
			radius = defaultRadius
		}
		d := Distance(p, Point{Lat: loc.Latitude, Lng: loc.Longitude})
		if d <= radius && d < bestDist {
			best, bestDist, found = loc, d, true
		}
	}
	return best, found
}
