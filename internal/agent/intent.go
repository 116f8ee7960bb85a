// Package agent routes natural-language questions about properties onto the
// closed set of query templates the database serves. Classification is plain
// keyword and regex matching; no model call is involved.
package agent

import (
	"regexp"
	"strconv"

	"github.com/spetr/homequery/pkg/geo"
)

// IntentKind tags the classification of a question.
type IntentKind string

const (
	// IntentUnrecognized is the explicit fallback: the question matched no
	// template, so the agent answers with the default listing.
	IntentUnrecognized IntentKind = "unrecognized"

	// IntentSimilarProperty asks for properties similar to a known one.
	IntentSimilarProperty IntentKind = "similar_property"

	// IntentNearCity asks for properties around a known city.
	IntentNearCity IntentKind = "near_city"

	// IntentFeatureFilter asks for properties with at least N bedrooms.
	IntentFeatureFilter IntentKind = "feature_filter"
)

// Intent is the outcome of classifying one question: the branch to take and
// the parameters extracted from the text.
type Intent struct {
	Kind IntentKind

	City        string  // near_city: matched city name
	Lon         float64 // near_city: city longitude
	Lat         float64 // near_city: city latitude
	MinBedrooms int     // feature_filter: extracted bedroom count
	PropertyID  int     // similar_property: extracted anchor id
}

var (
	similarPropertyRe = regexp.MustCompile(`(?i)similar\s+to\s+property\s+(?:id\s+)?(\d+)`)
	bedroomRe         = regexp.MustCompile(`(?i)(\d+)[\s-]*bed(?:room)?s?\b`)
)

// Classify maps a question onto an Intent. It is pure: same input, same
// output, no I/O. Branches are tried in a fixed order and the first match
// wins: the similar-property pattern is the most specific, then a known city
// name anywhere in the text, then a bedroom count. Anything else is
// IntentUnrecognized, which is an answerable outcome, not an error.
func Classify(question string) Intent {
	if m := similarPropertyRe.FindStringSubmatch(question); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			return Intent{Kind: IntentSimilarProperty, PropertyID: id}
		}
	}

	if city, ok := geo.FindCityIn(question); ok {
		return Intent{Kind: IntentNearCity, City: city.Name, Lon: city.Lon, Lat: city.Lat}
	}

	if m := bedroomRe.FindStringSubmatch(question); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Intent{Kind: IntentFeatureFilter, MinBedrooms: n}
		}
	}

	return Intent{Kind: IntentUnrecognized}
}

// Label returns a short human-readable name for the intent.
func (i Intent) Label() string {
	switch i.Kind {
	case IntentSimilarProperty:
		return "similar properties"
	case IntentNearCity:
		return "properties near " + i.City
	case IntentFeatureFilter:
		return strconv.Itoa(i.MinBedrooms) + "+ bedroom properties"
	default:
		return "all listings"
	}
}
