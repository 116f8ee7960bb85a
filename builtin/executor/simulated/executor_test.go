package simulated

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/spetr/homequery/pkg/types"
)

const insertSQL = `INSERT INTO property_listings (id, address, city, state, price, features, location, description, embedding)
VALUES (?, ?, ?, ?, ?, ?, ST_GeomFromText(?), ?, ?)`

// seed creates the table and inserts a small market: a Seattle luxury house,
// a San Francisco family home, a Portland condo and a Malibu villa.
func seed(t *testing.T) *Executor {
	t.Helper()
	e := New()
	ctx := context.Background()

	if err := e.Exec(ctx, `CREATE TABLE IF NOT EXISTS property_listings (
		id INT PRIMARY KEY,
		address VARCHAR(255) NOT NULL
	)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	rows := [][]any{
		{1, "123 Waterfront Ave", "Seattle", "WA", "1500000.00",
			`{"bedrooms": 5, "bathrooms": 4.5, "property_type": "House", "amenities": ["pool", "home theater", "fireplace"]}`,
			"POINT(-122.3321 47.6062)",
			"Stunning luxury waterfront estate with a modern minimalist design and a panoramic view of the sound.",
			"[0.78, 0.8, 0.3, 0.68]"},
		{2, "456 Family Lane", "San Francisco", "CA", "750000.00",
			`{"bedrooms": 4, "bathrooms": 2, "property_type": "House", "amenities": ["fenced yard", "playground"]}`,
			"POINT(-122.4194 37.7749)",
			"Charming family home in a safe neighborhood with excellent walkability and parks nearby.",
			"[0.55, 0.6, 0.15, 0.72]"},
		{3, "789 Investment Blvd", "Portland", "OR", "450000.00",
			`{"bedrooms": 2, "bathrooms": 1, "property_type": "Condo", "amenities": ["gym"]}`,
			"POINT(-122.6765 45.5231)",
			"Modern investment condo close to downtown with strong rental history.",
			"[0.82, 0.9, 0.1, 0.45]"},
		{5, "555 Beach Dr", "Malibu", "CA", "3200000.00",
			`{"bedrooms": 6, "bathrooms": 5.5, "property_type": "Villa", "amenities": ["pool", "private beach"]}`,
			"POINT(-118.7798 34.0259)",
			"Luxury beachfront villa with a pool, wine cellar and endless ocean views.",
			"[0.4, 0.3, 0.95, 0.8]"},
	}
	for _, args := range rows {
		if err := e.Exec(ctx, insertSQL, args...); err != nil {
			t.Fatalf("insert %v: %v", args[0], err)
		}
	}
	return e
}

func TestSelectOne(t *testing.T) {
	e := New()
	rs, err := e.Query(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Query(SELECT 1) error = %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("rows = %d, want 1", rs.Len())
	}
	if v, ok := rs.Rows[0].Int("1"); !ok || v != 1 {
		t.Errorf("value = %v, want 1", rs.Rows[0]["1"])
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	e := seed(t)
	err := e.Exec(context.Background(), insertSQL,
		1, "x", "y", "z", "1.00", `{}`, "POINT(0 0)", "d", "[0, 0, 0, 0]")
	if !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("duplicate insert error = %v, want ErrQueryFailed", err)
	}
}

func TestQueryUnknownTable(t *testing.T) {
	e := New()
	_, err := e.Query(context.Background(), "SELECT id FROM nowhere ORDER BY id LIMIT ?", 10)
	if !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("Query(unknown table) error = %v, want ErrQueryFailed", err)
	}
}

func TestDropTableForgetsRows(t *testing.T) {
	e := seed(t)
	ctx := context.Background()
	if err := e.Exec(ctx, "DROP TABLE IF EXISTS property_listings"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := e.Query(ctx, "SELECT id FROM property_listings ORDER BY id LIMIT ?", 10); !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("Query after drop error = %v, want ErrQueryFailed", err)
	}
}

func TestDefaultListingOrdersByID(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price
FROM property_listings
ORDER BY id
LIMIT ?`, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 4 {
		t.Fatalf("rows = %d, want 4", rs.Len())
	}
	want := []int64{1, 2, 3, 5}
	for i, w := range want {
		if id, _ := rs.Rows[i].Int("id"); id != w {
			t.Errorf("row %d id = %d, want %d", i, id, w)
		}
	}
}

func TestLimitTruncates(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id FROM property_listings ORDER BY id LIMIT ?`, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 2 {
		t.Errorf("rows = %d, want 2", rs.Len())
	}
}

func TestByIDReturnsFullRow(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price, features,
       ST_AsText(location) AS location, description, embedding
FROM property_listings
WHERE id = ?`, 1)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("rows = %d, want 1", rs.Len())
	}
	row := rs.Rows[0]
	if got := row.String("location"); got != "POINT(-122.3321 47.6062)" {
		t.Errorf("location = %q", got)
	}
	if got := row.String("embedding"); got != "[0.78, 0.8, 0.3, 0.68]" {
		t.Errorf("embedding = %q", got)
	}
	if got := row.String("price"); got != "1500000.00" {
		t.Errorf("price = %q", got)
	}
}

func TestBedroomFilterExtractsFeatures(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.bedrooms') AS bedrooms,
       JSON_EXTRACT(features, '$.bathrooms') AS bathrooms,
       JSON_EXTRACT(features, '$.property_type') AS property_type,
       JSON_EXTRACT(features, '$.amenities') AS amenities
FROM property_listings
WHERE JSON_EXTRACT(features, '$.bedrooms') >= ?
ORDER BY price ASC
LIMIT ?`, 4, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	// Properties 2 (750k), 1 (1.5M) and 5 (3.2M) have 4+ bedrooms.
	if rs.Len() != 3 {
		t.Fatalf("rows = %d, want 3", rs.Len())
	}
	if id, _ := rs.Rows[0].Int("id"); id != 2 {
		t.Errorf("cheapest 4-bedroom id = %d, want 2", id)
	}
	if bd, ok := rs.Rows[0].Int("bedrooms"); !ok || bd != 4 {
		t.Errorf("bedrooms = %v, want 4", rs.Rows[0]["bedrooms"])
	}
	if pt := rs.Rows[0].String("property_type"); pt != "House" {
		t.Errorf("property_type = %q, want House", pt)
	}
}

func TestAmenityContainment(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.amenities') AS amenities
FROM property_listings
WHERE JSON_CONTAINS(features, ?, '$.amenities')
ORDER BY price ASC
LIMIT ?`, `"pool"`, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (Seattle house, Malibu villa)", rs.Len())
	}
	if id, _ := rs.Rows[0].Int("id"); id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
}

func TestSpatialDistanceFilter(t *testing.T) {
	e := seed(t)
	seattle := "POINT(-122.3321 47.6062)"
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km
FROM property_listings
WHERE ST_Distance_Sphere(location, ST_GeomFromText(?)) < ?
ORDER BY distance_km ASC
LIMIT ?`, seattle, seattle, 150000.0, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	// Only the Seattle property is within 150 km of Seattle.
	if rs.Len() != 1 {
		t.Fatalf("rows = %d, want 1", rs.Len())
	}
	if id, _ := rs.Rows[0].Int("id"); id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	if km, ok := rs.Rows[0].Float("distance_km"); !ok || km > 1 {
		t.Errorf("distance_km = %v, want ~0", rs.Rows[0]["distance_km"])
	}
}

func TestFullTextRelevanceOrdering(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price, description,
       MATCH(description) AGAINST (?) AS relevance
FROM property_listings
WHERE MATCH(description) AGAINST (?)
ORDER BY relevance DESC
LIMIT ?`, "luxury view", "luxury view", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	// Seattle matches both terms, Malibu matches both, the condo neither.
	if rs.Len() != 2 {
		t.Fatalf("rows = %d, want 2", rs.Len())
	}
	for _, row := range rs.Rows {
		if rel, ok := row.Float("relevance"); !ok || rel < 2 {
			t.Errorf("relevance = %v, want 2 for id %v", row["relevance"], row["id"])
		}
	}
}

func TestVectorDistanceOrdering(t *testing.T) {
	e := seed(t)
	probe := "[0.75, 0.85, 0.25, 0.65]"
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       VECTOR_DISTANCE(embedding, ?) AS investment_similarity
FROM property_listings
WHERE VECTOR_DISTANCE(embedding, ?) < ?
ORDER BY investment_similarity ASC
LIMIT ?`, probe, probe, 1.0, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 4 {
		t.Fatalf("rows = %d, want 4", rs.Len())
	}
	// Property 1 sits closest to the probe profile, the villa farthest.
	if id, _ := rs.Rows[0].Int("id"); id != 1 {
		t.Errorf("nearest id = %d, want 1", id)
	}
	if id, _ := rs.Rows[3].Int("id"); id != 5 {
		t.Errorf("farthest id = %d, want 5", id)
	}
	var prev float64 = -1
	for _, row := range rs.Rows {
		d, ok := row.Float("investment_similarity")
		if !ok {
			t.Fatalf("missing investment_similarity in %v", row)
		}
		if d < prev {
			t.Errorf("distances not ascending: %v after %v", d, prev)
		}
		prev = d
	}
}

func TestVectorExclusionClause(t *testing.T) {
	e := seed(t)
	probe := "[0.78, 0.8, 0.3, 0.68]"
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       VECTOR_DISTANCE(embedding, ?) AS investment_similarity
FROM property_listings
WHERE VECTOR_DISTANCE(embedding, ?) < ?
  AND id <> ?
ORDER BY investment_similarity ASC
LIMIT ?`, probe, probe, 1.0, 1, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, row := range rs.Rows {
		if id, _ := row.Int("id"); id == 1 {
			t.Error("excluded id 1 still present")
		}
	}
}

func TestCombinedInvestmentQuery(t *testing.T) {
	e := seed(t)
	seattle := "POINT(-122.3321 47.6062)"
	probe := "[0.75, 0.85, 0.25, 0.65]"
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.bedrooms') AS bedrooms,
       JSON_EXTRACT(features, '$.bathrooms') AS bathrooms,
       JSON_EXTRACT(features, '$.property_type') AS property_type,
       JSON_EXTRACT(features, '$.amenities') AS amenities,
       ST_AsText(location) AS location,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km,
       description,
       VECTOR_DISTANCE(embedding, ?) AS investment_similarity
FROM property_listings
WHERE VECTOR_DISTANCE(embedding, ?) < ?
  AND JSON_EXTRACT(features, '$.bedrooms') >= ?
  AND JSON_CONTAINS(features, ?, '$.amenities')
  AND MATCH(description) AGAINST (?)
  AND ST_Distance_Sphere(location, ST_GeomFromText(?)) < ?
ORDER BY investment_similarity ASC
LIMIT ?`,
		seattle, probe,
		probe, 1.0,
		3,
		`"fireplace"`,
		"luxury",
		seattle, 150000.0,
		10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("rows = %d, want exactly the Seattle estate", rs.Len())
	}
	row := rs.Rows[0]
	if id, _ := row.Int("id"); id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	if sim, ok := row.Float("investment_similarity"); !ok || sim <= 0 || sim >= 1 {
		t.Errorf("investment_similarity = %v, want in (0, 1)", row["investment_similarity"])
	}
}

func TestShowcaseCaseScoring(t *testing.T) {
	e := seed(t)
	seattle := "POINT(-122.3321 47.6062)"
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.bedrooms') AS bedrooms,
       JSON_EXTRACT(features, '$.amenities') AS amenities,
       SUBSTRING(description, 1, 150) AS description_excerpt,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km,
       (CASE WHEN description LIKE ? AND description LIKE ? THEN 3 WHEN description LIKE ? THEN 2 WHEN description LIKE ? THEN 1 ELSE 0 END) AS relevance_score
FROM property_listings
WHERE JSON_EXTRACT(features, '$.bedrooms') >= ?
  AND JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), ?)
  AND ST_Contains(ST_Buffer(ST_GeomFromText(?), ?), location)
  AND description LIKE ?
ORDER BY relevance_score DESC, distance_km ASC
LIMIT ?`,
		seattle,
		"%modern%", "%minimalist%", "%modern%", "%luxury%",
		4,
		`"pool"`,
		seattle, 16093.4,
		"%luxury%",
		10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("rows = %d, want 1", rs.Len())
	}
	row := rs.Rows[0]
	// Both modern and minimalist appear, so the top tier wins.
	if score, _ := row.Int("relevance_score"); score != 3 {
		t.Errorf("relevance_score = %d, want 3", score)
	}
	if excerpt := row.String("description_excerpt"); len(excerpt) > 150 {
		t.Errorf("excerpt length = %d, want <= 150", len(excerpt))
	}
}

func TestAnyAmenityGroup(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, address, city, state, price
FROM property_listings
WHERE (JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), ?) OR JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), ?))
ORDER BY id
LIMIT ?`, `"fenced yard"`, `"playground"`, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("rows = %d, want 1", rs.Len())
	}
	if id, _ := rs.Rows[0].Int("id"); id != 2 {
		t.Errorf("id = %d, want 2", id)
	}
}

func TestPriceCap(t *testing.T) {
	e := seed(t)
	rs, err := e.Query(context.Background(), `SELECT id, price
FROM property_listings
WHERE price < ?
ORDER BY id
LIMIT ?`, 800000.0, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 2 {
		t.Fatalf("rows = %d, want 2", rs.Len())
	}
	for _, row := range rs.Rows {
		if p, _ := row.Float("price"); p >= 800000 {
			t.Errorf("price %v not under cap", p)
		}
	}
}

func TestHaversineDistanceValue(t *testing.T) {
	e := seed(t)
	sf := "POINT(-122.4194 37.7749)"
	rs, err := e.Query(context.Background(), `SELECT id,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km
FROM property_listings
WHERE id = ?`, sf, 1)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	km, ok := rs.Rows[0].Float("distance_km")
	if !ok {
		t.Fatal("missing distance_km")
	}
	// Seattle to San Francisco is roughly 1090 km.
	if math.Abs(km-1090) > 100 {
		t.Errorf("distance_km = %.1f, want ~1090", km)
	}
}

func TestUnsupportedStatementFailsLoudly(t *testing.T) {
	e := seed(t)
	ctx := context.Background()

	if err := e.Exec(ctx, "UPDATE property_listings SET price = ?", 1); !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("Exec(UPDATE) error = %v, want ErrQueryFailed", err)
	}
	if _, err := e.Query(ctx, "SELECT COUNT(*) FROM property_listings"); !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("Query(COUNT) error = %v, want ErrQueryFailed", err)
	}
}

func TestArgCountMismatch(t *testing.T) {
	e := seed(t)
	_, err := e.Query(context.Background(), `SELECT id FROM property_listings WHERE id = ?`)
	if !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("Query(missing arg) error = %v, want ErrQueryFailed", err)
	}
	_, err = e.Query(context.Background(), `SELECT id FROM property_listings WHERE id = ?`, 1, 2)
	if !errors.Is(err, types.ErrQueryFailed) {
		t.Errorf("Query(extra arg) error = %v, want ErrQueryFailed", err)
	}
}
