package direct

import (
	"testing"
)

func TestNormalizeRowConvertsBytes(t *testing.T) {
	in := map[string]interface{}{
		"city":  []byte("Seattle"),
		"id":    int64(1),
		"price": []byte("1500000.00"),
		"nul":   nil,
	}

	row := normalizeRow(in)

	if got := row["city"]; got != "Seattle" {
		t.Errorf("city = %v (%T), want %q", got, got, "Seattle")
	}
	if got := row["price"]; got != "1500000.00" {
		t.Errorf("price = %v (%T), want %q", got, got, "1500000.00")
	}
	if got := row["id"]; got != int64(1) {
		t.Errorf("id = %v, want 1", got)
	}
	if got, ok := row["nul"]; !ok || got != nil {
		t.Errorf("nul = %v, want nil present", got)
	}
}

func TestNormalizeRowKeepsAllColumns(t *testing.T) {
	in := map[string]interface{}{"a": 1, "b": 2, "c": 3}
	row := normalizeRow(in)
	if len(row) != len(in) {
		t.Errorf("normalizeRow dropped columns: got %d, want %d", len(row), len(in))
	}
}
