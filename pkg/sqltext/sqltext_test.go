package sqltext

import (
	"strings"
	"testing"
)

func TestQuoteString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Seattle", "'Seattle'"},
		{"single quote", "O'Brien", `'O\'Brien'`},
		{"backslash", `a\b`, `'a\\b'`},
		{"newline", "a\nb", `'a\nb'`},
		{"empty", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuoteString(tt.input)
			if got != tt.want {
				t.Errorf("QuoteString(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		args    []any
		want    string
		wantErr bool
	}{
		{
			name:  "string and int",
			query: "SELECT * FROM t WHERE city = ? AND beds >= ?",
			args:  []any{"Seattle", 3},
			want:  "SELECT * FROM t WHERE city = 'Seattle' AND beds >= 3",
		},
		{
			name:  "float",
			query: "SELECT * FROM t WHERE price < ?",
			args:  []any{800000.50},
			want:  "SELECT * FROM t WHERE price < 800000.5",
		},
		{
			name:  "escapes quotes in value",
			query: "SELECT * FROM t WHERE name = ?",
			args:  []any{"O'Brien"},
			want:  `SELECT * FROM t WHERE name = 'O\'Brien'`,
		},
		{
			name:  "question mark inside string literal untouched",
			query: "SELECT * FROM t WHERE note = 'why?' AND id = ?",
			args:  []any{7},
			want:  "SELECT * FROM t WHERE note = 'why?' AND id = 7",
		},
		{
			name:  "nil becomes NULL",
			query: "UPDATE t SET x = ?",
			args:  []any{nil},
			want:  "UPDATE t SET x = NULL",
		},
		{
			name:    "too few args",
			query:   "SELECT ? , ?",
			args:    []any{1},
			wantErr: true,
		},
		{
			name:    "too many args",
			query:   "SELECT ?",
			args:    []any{1, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.query, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Interpolate(%q) expected error, got %q", tt.query, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Interpolate(%q) error: %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFormatVector(t *testing.T) {
	got := FormatVector([]float32{0.75, 0.85, 0.25, 0.65})
	want := "[0.75, 0.85, 0.25, 0.65]"
	if got != want {
		t.Errorf("FormatVector = %q, want %q", got, want)
	}
}

func TestParseVector(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []float32
		wantErr bool
	}{
		{"basic", "[0.75, 0.85, 0.25, 0.65]", []float32{0.75, 0.85, 0.25, 0.65}, false},
		{"no spaces", "[1,2,3]", []float32{1, 2, 3}, false},
		{"empty", "[]", []float32{}, false},
		{"missing brackets", "0.75, 0.85", nil, true},
		{"bad component", "[0.75, x]", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVector(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVector(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVector(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseVector(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseVector(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseVectorRoundTrip(t *testing.T) {
	orig := []float32{0.12, 0.9, 0.33, 0.78}
	got, err := ParseVector(FormatVector(orig))
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	for i := range orig {
		if got[i] != orig[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], orig[i])
		}
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
		n     int
		want  int
	}{
		{"truncate", make([]float32, 1536), 4, 4},
		{"pad", []float32{1, 2}, 4, 4},
		{"exact", []float32{1, 2, 3, 4}, 4, 4},
		{"zero keeps", []float32{1, 2, 3}, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitDimensions(tt.input, tt.n)
			if len(got) != tt.want {
				t.Errorf("FitDimensions(len %d, %d) has %d components, want %d", len(tt.input), tt.n, len(got), tt.want)
			}
		})
	}
}

func TestFitDimensionsPadsWithZeros(t *testing.T) {
	got := FitDimensions([]float32{0.5}, 3)
	if got[0] != 0.5 || got[1] != 0 || got[2] != 0 {
		t.Errorf("FitDimensions pad = %v, want [0.5 0 0]", got)
	}
	if s := FormatVector(got); !strings.HasPrefix(s, "[0.5, 0, 0") {
		t.Errorf("padded literal = %q", s)
	}
}
