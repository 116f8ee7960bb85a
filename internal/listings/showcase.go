package listings

import (
	"fmt"
	"strings"

	"github.com/spetr/homequery/pkg/geo"
)

// RelevanceTier assigns a score when a description matches its patterns.
// Tiers are evaluated in order inside a CASE expression, so earlier tiers
// take precedence. All terms must match; Any terms need one match.
type RelevanceTier struct {
	Score int
	All   []string
	Any   []string
}

// ShowcaseSpec parameterizes the guided multi-model queries. Every filter is
// optional; zero values drop the clause. The LIKE-based relevance tiers stand
// in for vector scoring on engines without a vector distance function.
type ShowcaseSpec struct {
	Title         string
	MaxPrice      float64
	MinBedrooms   int
	AllAmenities  []string
	AnyAmenities  []string
	CenterLon     float64
	CenterLat     float64
	BufferMeters  float64
	RequiredTerms []string
	AnyTerms      []string
	Tiers         []RelevanceTier
	Limit         int
}

// LuxuryWaterfront is the Seattle showcase: at least 4 bedrooms, pool and
// home theater, inside a 10-mile buffer, luxury waterfront description.
func LuxuryWaterfront() ShowcaseSpec {
	seattle, _ := geo.LookupCity("Seattle")
	return ShowcaseSpec{
		Title:         "Luxury Waterfront Properties",
		MinBedrooms:   4,
		AllAmenities:  []string{"pool", "home theater"},
		CenterLon:     seattle.Lon,
		CenterLat:     seattle.Lat,
		BufferMeters:  16093.4, // 10 miles
		RequiredTerms: []string{"luxury", "waterfront", "panoramic view"},
		AnyTerms:      []string{"modern", "minimalist"},
		Tiers: []RelevanceTier{
			{Score: 3, All: []string{"modern", "minimalist"}},
			{Score: 2, All: []string{"modern"}},
			{Score: 1, All: []string{"luxury"}},
		},
		Limit: 10,
	}
}

// FamilyFriendly is the San Francisco showcase: under $800k, 3+ bedrooms,
// fenced yard or playground, inside a 10 km buffer, safe-neighborhood
// description with walkability scoring.
func FamilyFriendly() ShowcaseSpec {
	sanFrancisco, _ := geo.LookupCity("San Francisco")
	return ShowcaseSpec{
		Title:         "Family-Friendly Homes",
		MaxPrice:      800000,
		MinBedrooms:   3,
		AnyAmenities:  []string{"fenced yard", "playground"},
		CenterLon:     sanFrancisco.Lon,
		CenterLat:     sanFrancisco.Lat,
		BufferMeters:  10000,
		RequiredTerms: []string{"safe neighborhood"},
		AnyTerms:      []string{"walkability", "walk score", "family"},
		Tiers: []RelevanceTier{
			{Score: 2, Any: []string{"walkability", "walk score"}},
			{Score: 1, Any: []string{"safe", "family"}},
		},
		Limit: 10,
	}
}

// Showcase builds one statement mixing all five modalities from a spec:
// relational price, JSON bedrooms and amenities, a geographic buffer,
// description terms and the tiered LIKE relevance score.
func Showcase(table string, spec ShowcaseSpec) Query {
	var args []any

	selectList := `SELECT id, address, city, state, price,
       JSON_EXTRACT(features, '$.bedrooms') AS bedrooms,
       JSON_EXTRACT(features, '$.amenities') AS amenities,
       SUBSTRING(description, 1, 150) AS description_excerpt,
       ST_Distance_Sphere(location, ST_GeomFromText(?)) / 1000 AS distance_km,
       ` + relevanceCase(spec.Tiers, &args) + ` AS relevance_score`
	// First placeholder is the distance anchor.
	args = append([]any{geo.WKT(spec.CenterLon, spec.CenterLat)}, args...)

	var conds []string
	if spec.MaxPrice > 0 {
		conds = append(conds, "price < ?")
		args = append(args, spec.MaxPrice)
	}
	if spec.MinBedrooms > 0 {
		conds = append(conds, "JSON_EXTRACT(features, '$.bedrooms') >= ?")
		args = append(args, spec.MinBedrooms)
	}
	for _, amenity := range spec.AllAmenities {
		conds = append(conds, "JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), ?)")
		args = append(args, jsonString(amenity))
	}
	if len(spec.AnyAmenities) > 0 {
		var ors []string
		for _, amenity := range spec.AnyAmenities {
			ors = append(ors, "JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), ?)")
			args = append(args, jsonString(amenity))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if spec.BufferMeters > 0 {
		conds = append(conds, "ST_Contains(ST_Buffer(ST_GeomFromText(?), ?), location)")
		args = append(args, geo.WKT(spec.CenterLon, spec.CenterLat), spec.BufferMeters)
	}
	for _, term := range spec.RequiredTerms {
		conds = append(conds, "description LIKE ?")
		args = append(args, likePattern(term))
	}
	if len(spec.AnyTerms) > 0 {
		var ors []string
		for _, term := range spec.AnyTerms {
			ors = append(ors, "description LIKE ?")
			args = append(args, likePattern(term))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	where := ""
	if len(conds) > 0 {
		where = "\nWHERE " + strings.Join(conds, "\n  AND ")
	}

	limit := spec.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)

	sql := selectList + "\nFROM " + table + where +
		"\nORDER BY relevance_score DESC, distance_km ASC\nLIMIT ?"

	return Query{SQL: sql, Args: args}
}

// relevanceCase renders the tiered CASE expression and appends the LIKE
// pattern arguments it consumes.
func relevanceCase(tiers []RelevanceTier, args *[]any) string {
	var whens []string
	for _, tier := range tiers {
		var conds []string
		for _, term := range tier.All {
			conds = append(conds, "description LIKE ?")
			*args = append(*args, likePattern(term))
		}
		if len(tier.Any) > 0 {
			var ors []string
			for _, term := range tier.Any {
				ors = append(ors, "description LIKE ?")
				*args = append(*args, likePattern(term))
			}
			or := strings.Join(ors, " OR ")
			if len(conds) > 0 {
				conds = append(conds, "("+or+")")
			} else {
				conds = append(conds, or)
			}
		}
		if len(conds) == 0 {
			continue
		}
		whens = append(whens, fmt.Sprintf("WHEN %s THEN %d", strings.Join(conds, " AND "), tier.Score))
	}
	if len(whens) == 0 {
		return "0"
	}
	return "(CASE " + strings.Join(whens, " ") + " ELSE 0 END)"
}

func likePattern(term string) string {
	return "%" + term + "%"
}
