package agent

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     IntentKind
	}{
		{"city", "Find properties in Seattle", IntentNearCity},
		{"city lowercase", "anything in seattle?", IntentNearCity},
		{"two-word city", "homes around San Francisco please", IntentNearCity},
		{"bedrooms", "Show me 3 bedroom homes", IntentFeatureFilter},
		{"bedrooms hyphen", "looking for a 4-bedroom house", IntentFeatureFilter},
		{"bedrooms singular", "need a 2 bedroom", IntentFeatureFilter},
		{"similar", "Find properties similar to property ID 1", IntentSimilarProperty},
		{"similar no id word", "similar to property 7", IntentSimilarProperty},
		{"greeting", "hello", IntentUnrecognized},
		{"empty", "", IntentUnrecognized},
		{"unknown city", "homes in Gotham", IntentUnrecognized},
		{"word number", "three bedroom homes", IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.question)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %q, want %q", tt.question, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyExtractsCity(t *testing.T) {
	intent := Classify("Find properties in Seattle")
	if intent.Kind != IntentNearCity {
		t.Fatalf("Kind = %q, want %q", intent.Kind, IntentNearCity)
	}
	if intent.City != "Seattle" {
		t.Errorf("City = %q, want Seattle", intent.City)
	}
	if intent.Lon != -122.3321 || intent.Lat != 47.6062 {
		t.Errorf("coordinates = (%v, %v), want (-122.3321, 47.6062)", intent.Lon, intent.Lat)
	}
}

func TestClassifyExtractsBedrooms(t *testing.T) {
	tests := []struct {
		question string
		want     int
	}{
		{"Show me 3 bedroom homes", 3},
		{"a 12 bedroom mansion", 12},
		{"4-bedroom", 4},
		{"5 beds minimum", 5},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			intent := Classify(tt.question)
			if intent.Kind != IntentFeatureFilter {
				t.Fatalf("Classify(%q).Kind = %q, want %q", tt.question, intent.Kind, IntentFeatureFilter)
			}
			if intent.MinBedrooms != tt.want {
				t.Errorf("MinBedrooms = %d, want %d", intent.MinBedrooms, tt.want)
			}
		})
	}
}

func TestClassifyExtractsPropertyID(t *testing.T) {
	intent := Classify("Find properties similar to property ID 1")
	if intent.Kind != IntentSimilarProperty {
		t.Fatalf("Kind = %q, want %q", intent.Kind, IntentSimilarProperty)
	}
	if intent.PropertyID != 1 {
		t.Errorf("PropertyID = %d, want 1", intent.PropertyID)
	}
}

func TestClassifyPriority(t *testing.T) {
	// Similar-property is the most specific pattern and wins over a city.
	intent := Classify("similar to property 2 in Seattle")
	if intent.Kind != IntentSimilarProperty {
		t.Errorf("Kind = %q, want %q", intent.Kind, IntentSimilarProperty)
	}

	// A city wins over a bedroom count.
	intent = Classify("3 bedroom homes in Seattle")
	if intent.Kind != IntentNearCity {
		t.Errorf("Kind = %q, want %q", intent.Kind, IntentNearCity)
	}
	if intent.City != "Seattle" {
		t.Errorf("City = %q, want Seattle", intent.City)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("hello")
	second := Classify("hello")
	if first != second {
		t.Errorf("Classify is not deterministic: %+v vs %+v", first, second)
	}
	if first.Kind != IntentUnrecognized {
		t.Errorf("Kind = %q, want %q", first.Kind, IntentUnrecognized)
	}
}

func TestClassifyOverflowFallsThrough(t *testing.T) {
	// An unparseable id is a fallback, never an error.
	intent := Classify("similar to property 99999999999999999999999999")
	if intent.Kind != IntentUnrecognized {
		t.Errorf("Kind = %q, want %q", intent.Kind, IntentUnrecognized)
	}
}

func TestIntentLabel(t *testing.T) {
	tests := []struct {
		intent Intent
		want   string
	}{
		{Intent{Kind: IntentNearCity, City: "Seattle"}, "properties near Seattle"},
		{Intent{Kind: IntentFeatureFilter, MinBedrooms: 3}, "3+ bedroom properties"},
		{Intent{Kind: IntentSimilarProperty, PropertyID: 1}, "similar properties"},
		{Intent{Kind: IntentUnrecognized}, "all listings"},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent.Kind), func(t *testing.T) {
			if got := tt.intent.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
