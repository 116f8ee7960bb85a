package listings

import (
	"strings"
	"testing"
)

func TestShowcaseLuxuryWaterfront(t *testing.T) {
	q := Showcase("unified_properties", LuxuryWaterfront())

	fragments := []string{
		"SUBSTRING(description, 1, 150) AS description_excerpt",
		"ST_Contains(ST_Buffer(ST_GeomFromText(?), ?), location)",
		"relevance_score",
		"ORDER BY relevance_score DESC, distance_km ASC",
	}
	for _, frag := range fragments {
		if !strings.Contains(q.SQL, frag) {
			t.Errorf("SQL missing %q:\n%s", frag, q.SQL)
		}
	}

	sql, err := q.Interpolate()
	if err != nil {
		t.Fatalf("Interpolate() error: %v", err)
	}
	for _, lit := range []string{
		"POINT(-122.3321 47.6062)",
		"16093.4",
		"'%luxury%'",
		"'%waterfront%'",
		"'%panoramic view%'",
		`'"pool"'`,
		`'"home theater"'`,
		"WHEN description LIKE '%modern%' AND description LIKE '%minimalist%' THEN 3",
	} {
		if !strings.Contains(sql, lit) {
			t.Errorf("interpolated SQL missing %q:\n%s", lit, sql)
		}
	}
}

func TestShowcaseFamilyFriendly(t *testing.T) {
	q := Showcase("unified_properties", FamilyFriendly())

	sql, err := q.Interpolate()
	if err != nil {
		t.Fatalf("Interpolate() error: %v", err)
	}
	for _, lit := range []string{
		"price < 800000",
		"JSON_EXTRACT(features, '$.bedrooms') >= 3",
		`(JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), '"fenced yard"') OR JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), '"playground"'))`,
		"POINT(-122.4194 37.7749)",
		"'%safe neighborhood%'",
		"WHEN description LIKE '%walkability%' OR description LIKE '%walk score%' THEN 2",
	} {
		if !strings.Contains(sql, lit) {
			t.Errorf("interpolated SQL missing %q:\n%s", lit, sql)
		}
	}
}

func TestShowcaseZeroSpec(t *testing.T) {
	q := Showcase("t", ShowcaseSpec{CenterLon: -122.3321, CenterLat: 47.6062})

	if strings.Contains(q.SQL, "WHERE") {
		t.Errorf("zero spec should have no WHERE clause:\n%s", q.SQL)
	}
	if !strings.Contains(q.SQL, "0 AS relevance_score") {
		t.Errorf("zero spec should score constant 0:\n%s", q.SQL)
	}
	if _, err := q.Interpolate(); err != nil {
		t.Errorf("Interpolate() error: %v", err)
	}
}
