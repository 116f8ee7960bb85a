package geo

import (
	"math"
	"testing"
)

func TestLookupCity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"exact", "Seattle", "Seattle", true},
		{"lowercase", "seattle", "Seattle", true},
		{"mixed case", "sAn FrAnCiScO", "San Francisco", true},
		{"padded", "  Boston ", "Boston", true},
		{"unknown", "Gotham", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, ok := LookupCity(tt.input)
			if ok != tt.found {
				t.Fatalf("LookupCity(%q) found=%v, want %v", tt.input, ok, tt.found)
			}
			if ok && city.Name != tt.want {
				t.Errorf("LookupCity(%q) = %q, want %q", tt.input, city.Name, tt.want)
			}
		})
	}
}

func TestFindCityIn(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"plain sentence", "Find properties in Seattle", "Seattle", true},
		{"lowercase text", "anything near san francisco?", "San Francisco", true},
		{"no city", "show me something nice", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, ok := FindCityIn(tt.input)
			if ok != tt.found {
				t.Fatalf("FindCityIn(%q) found=%v, want %v", tt.input, ok, tt.found)
			}
			if ok && city.Name != tt.want {
				t.Errorf("FindCityIn(%q) = %q, want %q", tt.input, city.Name, tt.want)
			}
		})
	}
}

func TestFindCityInPrefersLongerName(t *testing.T) {
	city, ok := FindCityIn("compare san jose and san francisco listings")
	if !ok || city.Name != "San Francisco" {
		t.Errorf("FindCityIn() = %q, want San Francisco", city.Name)
	}
}

func TestWKT(t *testing.T) {
	got := WKT(-122.3321, 47.6062)
	want := "POINT(-122.3321 47.6062)"
	if got != want {
		t.Errorf("WKT() = %q, want %q", got, want)
	}
}

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lon     float64
		lat     float64
		wantErr bool
	}{
		{"seattle", "POINT(-122.3321 47.6062)", -122.3321, 47.6062, false},
		{"padded", "  POINT(1 2) ", 1, 2, false},
		{"not a point", "LINESTRING(0 0, 1 1)", 0, 0, true},
		{"garbage body", "POINT(x y)", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat, err := ParseWKT(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWKT(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && (lon != tt.lon || lat != tt.lat) {
				t.Errorf("ParseWKT(%q) = (%v, %v), want (%v, %v)", tt.input, lon, lat, tt.lon, tt.lat)
			}
		})
	}
}

func TestWKTRoundTrip(t *testing.T) {
	for _, c := range Cities() {
		lon, lat, err := ParseWKT(WKT(c.Lon, c.Lat))
		if err != nil {
			t.Fatalf("ParseWKT(WKT(%s)) error = %v", c.Name, err)
		}
		if lon != c.Lon || lat != c.Lat {
			t.Errorf("%s round trip = (%v, %v), want (%v, %v)", c.Name, lon, lat, c.Lon, c.Lat)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	sea, _ := LookupCity("Seattle")
	sf, _ := LookupCity("San Francisco")

	km := HaversineKm(sea.Lon, sea.Lat, sf.Lon, sf.Lat)
	// Seattle to San Francisco is roughly 1090 km great-circle.
	if km < 1000 || km > 1200 {
		t.Errorf("HaversineKm(Seattle, San Francisco) = %.1f, want ~1090", km)
	}
}

func TestHaversineZero(t *testing.T) {
	d := Haversine(-122.3321, 47.6062, -122.3321, 47.6062)
	if math.Abs(d) > 1e-6 {
		t.Errorf("Haversine(same point) = %v, want 0", d)
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		lat  float64
		want bool
	}{
		{"seattle", -122.3321, 47.6062, true},
		{"lat too high", 0, 91, false},
		{"lon too low", -181, 0, false},
		{"edges", 180, -90, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCoordinates(tt.lon, tt.lat); got != tt.want {
				t.Errorf("ValidateCoordinates(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}
