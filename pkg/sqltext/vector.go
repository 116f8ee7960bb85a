package sqltext

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVector renders an embedding in the engine's bracketed literal form,
// e.g. [0.75, 0.85, 0.25, 0.65].
func FormatVector(vec []float32) string {
	parts := make([]string, len(vec))
	for i, f := range vec {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseVector parses the bracketed literal form back into floats.
func ParseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("invalid vector literal: %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []float32{}, nil
	}
	parts := strings.Split(inner, ",")
	vec := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %d: %w", i+1, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

// FitDimensions truncates or zero-pads vec to n components. Embedding models
// return far more dimensions than the demo table stores.
func FitDimensions(vec []float32, n int) []float32 {
	if n <= 0 || len(vec) == n {
		return vec
	}
	out := make([]float32, n)
	copy(out, vec)
	return out
}
