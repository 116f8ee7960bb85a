// Package geo holds the static city gazetteer and the little spherical math
// the demo needs client-side. All real geospatial filtering happens in the
// database engine; this package only supplies reference coordinates and
// renders WKT literals.
package geo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// City is a known city with WGS84 coordinates.
type City struct {
	Name string
	Lon  float64
	Lat  float64
}

// cities is the static list the intent router matches against. It covers the
// sample dataset plus the vacation-rental market the demo talks about.
var cities = []City{
	{Name: "Seattle", Lon: -122.3321, Lat: 47.6062},
	{Name: "San Francisco", Lon: -122.4194, Lat: 37.7749},
	{Name: "Portland", Lon: -122.6765, Lat: 45.5231},
	{Name: "Malibu", Lon: -118.7798, Lat: 34.0259},
	{Name: "Boston", Lon: -71.0589, Lat: 42.3601},
	{Name: "Chicago", Lon: -87.6298, Lat: 41.8781},
	{Name: "Phoenix", Lon: -112.0740, Lat: 33.4484},
	{Name: "San Jose", Lon: -121.8863, Lat: 37.3382},
	{Name: "Berkeley", Lon: -122.2730, Lat: 37.8715},
	{Name: "Leavenworth", Lon: -120.6615, Lat: 47.5962},
}

// Cities returns the known cities sorted by name.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupCity finds a city by name, case-insensitively.
func LookupCity(name string) (City, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range cities {
		if strings.ToLower(c.Name) == needle {
			return c, true
		}
	}
	return City{}, false
}

// FindCityIn scans free text for a known city name. Longer names are tried
// first so "San Francisco" is never shadowed by a shorter match.
func FindCityIn(text string) (City, bool) {
	lower := strings.ToLower(text)

	byLength := make([]City, len(cities))
	copy(byLength, cities)
	sort.Slice(byLength, func(i, j int) bool {
		if len(byLength[i].Name) != len(byLength[j].Name) {
			return len(byLength[i].Name) > len(byLength[j].Name)
		}
		return byLength[i].Name < byLength[j].Name
	})

	for _, c := range byLength {
		if strings.Contains(lower, strings.ToLower(c.Name)) {
			return c, true
		}
	}
	return City{}, false
}

// WKT renders a point in the well-known-text form the engine parses,
// e.g. POINT(-122.3321 47.6062). Longitude comes first.
func WKT(lon, lat float64) string {
	return fmt.Sprintf("POINT(%g %g)", lon, lat)
}

// ParseWKT reads a point literal produced by WKT or by the engine's
// ST_AsText, e.g. POINT(-122.3321 47.6062).
func ParseWKT(s string) (lon, lat float64, err error) {
	body := strings.TrimSpace(s)
	if !strings.HasPrefix(body, "POINT(") || !strings.HasSuffix(body, ")") {
		return 0, 0, fmt.Errorf("not a POINT literal: %q", s)
	}
	body = body[len("POINT(") : len(body)-1]
	if _, err := fmt.Sscanf(body, "%f %f", &lon, &lat); err != nil {
		return 0, 0, fmt.Errorf("parsing POINT coordinates %q: %w", s, err)
	}
	return lon, lat, nil
}

// Haversine returns the great-circle distance in meters between two points
// specified by longitude and latitude in degrees.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// HaversineKm is Haversine in kilometers.
func HaversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	return Haversine(lon1, lat1, lon2, lat2) / 1000
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lon, lat float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
