package listings

import (
	"strings"
	"testing"
)

func TestBuildersCarryModalityFunctions(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		contains []string
	}{
		{
			name:     "list",
			query:    ListProperties("property_listings", 10),
			contains: []string{"FROM property_listings", "ORDER BY id"},
		},
		{
			name:     "by id",
			query:    ByID("property_listings", 1),
			contains: []string{"ST_AsText(location)", "embedding", "WHERE id = ?"},
		},
		{
			name:     "bedrooms",
			query:    ByMinBedrooms("property_listings", 3, 10),
			contains: []string{"JSON_EXTRACT(features, '$.bedrooms') >= ?", "'$.property_type'"},
		},
		{
			name:     "amenity",
			query:    ByAmenity("property_listings", "fireplace", 10),
			contains: []string{"JSON_CONTAINS(features, ?, '$.amenities')"},
		},
		{
			name:     "near point",
			query:    NearPoint("property_listings", -122.3321, 47.6062, 150000, 10),
			contains: []string{"ST_Distance_Sphere(location, ST_GeomFromText(?))", "distance_km", "ORDER BY distance_km ASC"},
		},
		{
			name:     "buffer",
			query:    WithinBuffer("property_listings", -122.3321, 47.6062, 16093.4, 10),
			contains: []string{"ST_Contains(ST_Buffer(ST_GeomFromText(?), ?), location)"},
		},
		{
			name:     "fulltext",
			query:    MatchDescription("property_listings", "luxury view", 10),
			contains: []string{"MATCH(description) AGAINST (?)", "ORDER BY relevance DESC"},
		},
		{
			name:     "vector",
			query:    SimilarToVector("property_listings", []float32{0.75, 0.85, 0.25, 0.65}, 1.0, 10),
			contains: []string{"VECTOR_DISTANCE(embedding, ?)", "ORDER BY investment_similarity ASC"},
		},
		{
			name:     "vector excluding",
			query:    SimilarToVectorExcluding("property_listings", []float32{0.1, 0.2, 0.3, 0.4}, 1, 1.0, 10),
			contains: []string{"VECTOR_DISTANCE(embedding, ?)", "id <> ?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, frag := range tt.contains {
				if !strings.Contains(tt.query.SQL, frag) {
					t.Errorf("SQL missing %q:\n%s", frag, tt.query.SQL)
				}
			}
			if _, err := tt.query.Interpolate(); err != nil {
				t.Errorf("Interpolate() error: %v", err)
			}
		})
	}
}

func TestByAmenityQuotesJSONString(t *testing.T) {
	q := ByAmenity("property_listings", "fireplace", 10)
	if len(q.Args) != 2 {
		t.Fatalf("Args = %v, want 2 entries", q.Args)
	}
	if q.Args[0] != `"fireplace"` {
		t.Errorf("amenity arg = %v, want %q", q.Args[0], `"fireplace"`)
	}
}

func TestNearPointWKTArgument(t *testing.T) {
	q := NearPoint("property_listings", -122.3321, 47.6062, 150000, 10)
	if len(q.Args) != 4 {
		t.Fatalf("Args = %v, want 4 entries", q.Args)
	}
	if q.Args[0] != "POINT(-122.3321 47.6062)" {
		t.Errorf("WKT arg = %v, want POINT(-122.3321 47.6062)", q.Args[0])
	}
	if q.Args[0] != q.Args[1] {
		t.Errorf("WHERE and SELECT anchors differ: %v vs %v", q.Args[0], q.Args[1])
	}
}

func TestSimilarToVectorLiteral(t *testing.T) {
	q := SimilarToVector("property_listings", []float32{0.75, 0.85, 0.25, 0.65}, 1.0, 10)
	if q.Args[0] != "[0.75, 0.85, 0.25, 0.65]" {
		t.Errorf("vector arg = %v, want bracketed literal", q.Args[0])
	}

	sql, err := q.Interpolate()
	if err != nil {
		t.Fatalf("Interpolate() error: %v", err)
	}
	if !strings.Contains(sql, "VECTOR_DISTANCE(embedding, '[0.75, 0.85, 0.25, 0.65]')") {
		t.Errorf("interpolated SQL missing vector literal:\n%s", sql)
	}
}

func TestInvestmentQueryTouchesAllModalities(t *testing.T) {
	q := InvestmentQuery("property_listings", DefaultInvestmentProbe())

	// One marker per modality: relational, JSON, geospatial, full-text, vector.
	markers := []string{
		"price",
		"JSON_CONTAINS",
		"ST_Distance_Sphere",
		"MATCH(description)",
		"VECTOR_DISTANCE",
		"ORDER BY investment_similarity ASC",
	}
	for _, m := range markers {
		if !strings.Contains(q.SQL, m) {
			t.Errorf("combined query missing %q", m)
		}
	}

	sql, err := q.Interpolate()
	if err != nil {
		t.Fatalf("Interpolate() error: %v", err)
	}
	for _, lit := range []string{"POINT(-122.3321 47.6062)", "[0.75, 0.85, 0.25, 0.65]", "150000", `'"fireplace"'`} {
		if !strings.Contains(sql, lit) {
			t.Errorf("interpolated combined query missing %q:\n%s", lit, sql)
		}
	}
}

func TestDefaultInvestmentProbe(t *testing.T) {
	probe := DefaultInvestmentProbe()
	if len(probe.Vector) != 4 {
		t.Errorf("Vector has %d components, want 4", len(probe.Vector))
	}
	if probe.MaxDistance != 1.0 {
		t.Errorf("MaxDistance = %v, want 1.0", probe.MaxDistance)
	}
	if probe.Amenity != "fireplace" {
		t.Errorf("Amenity = %q, want fireplace", probe.Amenity)
	}
	if probe.RadiusMeters != 150000 {
		t.Errorf("RadiusMeters = %v, want 150000", probe.RadiusMeters)
	}
}
