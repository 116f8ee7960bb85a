// Package listings builds the SQL for every query modality the property
// database serves: relational filters, JSON feature paths, geospatial
// functions, full-text relevance and vector distance. Builders return
// parameterized statements; nothing here executes SQL or ranks results
// beyond the ORDER BY each statement carries.
package listings

import (
	"encoding/json"
	"fmt"

	"github.com/spetr/homequery/pkg/geo"
	"github.com/spetr/homequery/pkg/sqltext"
)

// Query is a parameterized SQL statement ready for an Executor.
type Query struct {
	SQL  string
	Args []any
}

// Interpolate renders the query as one literal SQL string for transports
// that take no parameters, like the MCP bridge tool.
func (q Query) Interpolate() (string, error) {
	return sqltext.Interpolate(q.SQL, q.Args...)
}

// ListProperties returns the deterministic default listing. The intent
// router answers unrecognized questions with it.
func ListProperties(table string, limit int) Query {
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price
FROM %s
ORDER BY id
LIMIT ?`, table),
		Args: []any{limit},
	}
}

// ByID fetches one property with every column, the WKT point and the vector
// included. Setup verification reads rows back with it.
func ByID(table string, id int) Query {
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price, features,
       ST_AsText(location) AS location, description, embedding
FROM %s
WHERE id = ?`, table),
		Args: []any{id},
	}
}

// ByMinBedrooms filters on a JSON feature path and exposes the extracted
// feature columns.
func ByMinBedrooms(table string, minBedrooms, limit int) Query {
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.bedrooms') AS bedrooms,
       JSON_EXTRACT(features, '$.bathrooms') AS bathrooms,
       JSON_EXTRACT(features, '$.property_type') AS property_type,
       JSON_EXTRACT(features, '$.amenities') AS amenities
FROM %s
WHERE JSON_EXTRACT(features, '$.bedrooms') >= ?
ORDER BY price ASC
LIMIT ?`, table),
		Args: []any{minBedrooms, limit},
	}
}

// ByAmenity finds properties whose amenities array contains the given value.
func ByAmenity(table, amenity string, limit int) Query {
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.amenities') AS amenities
FROM %s
WHERE JSON_CONTAINS(features, ?, '$.amenities')
ORDER BY price ASC
LIMIT ?`, table),
		Args: []any{jsonString(amenity), limit},
	}
}

// NearPoint finds properties within radiusMeters of a point, closest first.
// The distance_km column is the spherical distance in kilometers.
func NearPoint(table string, lon, lat, radiusMeters float64, limit int) Query {
	wkt := geo.WKT(lon, lat)
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km
FROM %s
WHERE ST_Distance_Sphere(location, ST_GeomFromText(?)) < ?
ORDER BY distance_km ASC
LIMIT ?`, table),
		Args: []any{wkt, wkt, radiusMeters, limit},
	}
}

// WithinBuffer finds properties inside a circular buffer around a point.
func WithinBuffer(table string, lon, lat, radiusMeters float64, limit int) Query {
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price
FROM %s
WHERE ST_Contains(ST_Buffer(ST_GeomFromText(?), ?), location)
LIMIT ?`, table),
		Args: []any{geo.WKT(lon, lat), radiusMeters, limit},
	}
}

// MatchDescription runs full-text search over descriptions, most relevant
// first. The engine computes the relevance score.
func MatchDescription(table, terms string, limit int) Query {
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price, description,
       MATCH(description) AGAINST (?) AS relevance
FROM %s
WHERE MATCH(description) AGAINST (?)
ORDER BY relevance DESC
LIMIT ?`, table),
		Args: []any{terms, terms, limit},
	}
}

// EmbeddingByID fetches a single property's embedding literal.
func EmbeddingByID(table string, id int) Query {
	return Query{
		SQL:  fmt.Sprintf(`SELECT embedding FROM %s WHERE id = ?`, table),
		Args: []any{id},
	}
}

// SimilarToVector finds properties whose embedding is within maxDistance of
// vec, nearest first. Lower investment_similarity is better.
func SimilarToVector(table string, vec []float32, maxDistance float64, limit int) Query {
	lit := sqltext.FormatVector(vec)
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price,
       VECTOR_DISTANCE(embedding, ?) AS investment_similarity
FROM %s
WHERE VECTOR_DISTANCE(embedding, ?) < ?
ORDER BY investment_similarity ASC
LIMIT ?`, table),
		Args: []any{lit, lit, maxDistance, limit},
	}
}

// SimilarToVectorExcluding is SimilarToVector without the anchor property
// itself, for "similar to property N" questions.
func SimilarToVectorExcluding(table string, vec []float32, excludeID int, maxDistance float64, limit int) Query {
	lit := sqltext.FormatVector(vec)
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price,
       VECTOR_DISTANCE(embedding, ?) AS investment_similarity
FROM %s
WHERE VECTOR_DISTANCE(embedding, ?) < ?
  AND id <> ?
ORDER BY investment_similarity ASC
LIMIT ?`, table),
		Args: []any{lit, lit, maxDistance, excludeID, limit},
	}
}

// InvestmentProbe parameterizes the combined query that touches all five
// modalities at once.
type InvestmentProbe struct {
	Vector       []float32
	MaxDistance  float64
	MinBedrooms  int
	Amenity      string
	SearchTerms  string
	CenterLon    float64
	CenterLat    float64
	RadiusMeters float64
	Limit        int
}

// DefaultInvestmentProbe is the premium investment profile the demo ships:
// properties similar to [0.75, 0.85, 0.25, 0.65], at least 3 bedrooms with a
// fireplace, a luxury description, within 150 km of Seattle.
func DefaultInvestmentProbe() InvestmentProbe {
	return InvestmentProbe{
		Vector:       []float32{0.75, 0.85, 0.25, 0.65},
		MaxDistance:  1.0,
		MinBedrooms:  3,
		Amenity:      "fireplace",
		SearchTerms:  "luxury",
		CenterLon:    -122.3321,
		CenterLat:    47.6062,
		RadiusMeters: 150000,
		Limit:        10,
	}
}

// InvestmentQuery builds the combined multi-model statement: vector distance
// for ranking, JSON for features, full-text for the description, spherical
// distance for location and plain columns for the rest.
func InvestmentQuery(table string, probe InvestmentProbe) Query {
	wkt := geo.WKT(probe.CenterLon, probe.CenterLat)
	lit := sqltext.FormatVector(probe.Vector)
	return Query{
		SQL: fmt.Sprintf(`SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.bedrooms') AS bedrooms,
       JSON_EXTRACT(features, '$.bathrooms') AS bathrooms,
       JSON_EXTRACT(features, '$.property_type') AS property_type,
       JSON_EXTRACT(features, '$.amenities') AS amenities,
       ST_AsText(location) AS location,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km,
       description,
       VECTOR_DISTANCE(embedding, ?) AS investment_similarity
FROM %s
WHERE VECTOR_DISTANCE(embedding, ?) < ?
  AND JSON_EXTRACT(features, '$.bedrooms') >= ?
  AND JSON_CONTAINS(features, ?, '$.amenities')
  AND MATCH(description) AGAINST (?)
  AND ST_Distance_Sphere(location, ST_GeomFromText(?)) < ?
ORDER BY investment_similarity ASC
LIMIT ?`, table),
		Args: []any{
			wkt, lit,
			lit, probe.MaxDistance,
			probe.MinBedrooms,
			jsonString(probe.Amenity),
			probe.SearchTerms,
			wkt, probe.RadiusMeters,
			probe.Limit,
		},
	}
}

// jsonString renders a value as a JSON string literal, the form
// JSON_CONTAINS expects for its candidate argument.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
