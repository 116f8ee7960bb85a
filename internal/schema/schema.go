// Package schema owns the demo table: the DDL, the fixed sample dataset and
// the setup and verification routines. Rows are written once by Setup and
// never mutated afterwards.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spetr/homequery/internal/listings"
	"github.com/spetr/homequery/pkg/geo"
	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/sqltext"
	"github.com/spetr/homequery/pkg/types"
)

// EmbeddingDim is the fixed dimensionality of the stored vectors.
const EmbeddingDim = 4

// Features is the JSON document stored in the features column.
type Features struct {
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	PropertyType string   `json:"property_type"`
	Amenities    []string `json:"amenities"`
}

// Property is one sample row: the complete entity the table stores.
type Property struct {
	ID          int
	Address     string
	City        string
	State       string
	Price       float64
	Features    Features
	Lon         float64
	Lat         float64
	Description string
	Embedding   []float32
}

// PriceString renders the price the way the DECIMAL(12,2) column stores it.
func (p Property) PriceString() string {
	return strconv.FormatFloat(p.Price, 'f', 2, 64)
}

// FeaturesJSON renders the features document.
func (p Property) FeaturesJSON() (string, error) {
	b, err := json.Marshal(p.Features)
	if err != nil {
		return "", fmt.Errorf("encoding features of property %d: %w", p.ID, err)
	}
	return string(b), nil
}

// DDL returns the CREATE TABLE statement. One denormalized table carries all
// five modalities: relational columns, a JSON document, a geographic point,
// a full-text indexed description and a fixed-length vector.
func DDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id INT PRIMARY KEY,
    address VARCHAR(255) NOT NULL,
    city VARCHAR(100) NOT NULL,
    state VARCHAR(50) NOT NULL,
    price DECIMAL(12, 2) NOT NULL,
    features JSON,
    location POINT NOT NULL,
    description TEXT,
    embedding VECTOR(%d),
    FULLTEXT INDEX idx_description (description)
)`, table, EmbeddingDim)
}

// DropSQL returns the statement removing the table.
func DropSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
}

// InsertProperty builds the INSERT for one row. The point goes through
// ST_GeomFromText and the vector as its bracketed literal.
func InsertProperty(table string, p Property) (listings.Query, error) {
	features, err := p.FeaturesJSON()
	if err != nil {
		return listings.Query{}, err
	}
	return listings.Query{
		SQL: fmt.Sprintf(`INSERT INTO %s (id, address, city, state, price, features, location, description, embedding)
VALUES (?, ?, ?, ?, ?, ?, ST_GeomFromText(?), ?, ?)`, table),
		Args: []any{
			p.ID,
			p.Address,
			p.City,
			p.State,
			p.PriceString(),
			features,
			geo.WKT(p.Lon, p.Lat),
			p.Description,
			sqltext.FormatVector(p.Embedding),
		},
	}, nil
}

// Setup drops and recreates the table, then inserts the sample dataset.
func Setup(ctx context.Context, exec provider.Executor, table string) error {
	slog.Info("setting up property table", "table", table, "rows", len(SampleProperties()))

	if err := exec.Exec(ctx, DropSQL(table)); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}
	if err := exec.Exec(ctx, DDL(table)); err != nil {
		return fmt.Errorf("creating %s: %w", table, err)
	}

	for _, p := range SampleProperties() {
		q, err := InsertProperty(table, p)
		if err != nil {
			return err
		}
		if err := exec.Exec(ctx, q.SQL, q.Args...); err != nil {
			return fmt.Errorf("inserting property %d: %w", p.ID, err)
		}
	}

	slog.Info("property table ready", "table", table)
	return nil
}

// Verify reads every sample row back by primary key and compares it against
// the seed: scalars exactly, the price to the cent, the JSON document
// semantically and the vector component-wise.
func Verify(ctx context.Context, exec provider.Executor, table string) error {
	var problems []string

	for _, p := range SampleProperties() {
		q := listings.ByID(table, p.ID)
		rs, err := exec.Query(ctx, q.SQL, q.Args...)
		if err != nil {
			return fmt.Errorf("reading property %d back: %w", p.ID, err)
		}
		if rs.Len() != 1 {
			problems = append(problems, fmt.Sprintf("property %d: got %d rows", p.ID, rs.Len()))
			continue
		}
		problems = append(problems, compareRow(p, rs.Rows[0])...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", types.ErrSetupFailed, strings.Join(problems, "; "))
	}
	return nil
}

func compareRow(p Property, row types.Row) []string {
	var problems []string
	report := func(field string, got, want any) {
		problems = append(problems, fmt.Sprintf("property %d: %s = %v, want %v", p.ID, field, got, want))
	}

	if got := row.String("address"); got != p.Address {
		report("address", got, p.Address)
	}
	if got := row.String("city"); got != p.City {
		report("city", got, p.City)
	}
	if got := row.String("state"); got != p.State {
		report("state", got, p.State)
	}

	if got, ok := row.Float("price"); !ok || strconv.FormatFloat(got, 'f', 2, 64) != p.PriceString() {
		report("price", row.String("price"), p.PriceString())
	}

	var gotFeatures Features
	if err := json.Unmarshal([]byte(row.String("features")), &gotFeatures); err != nil {
		report("features", row.String("features"), "valid JSON")
	} else if !reflect.DeepEqual(gotFeatures, p.Features) {
		report("features", gotFeatures, p.Features)
	}

	if got := row.String("location"); got != geo.WKT(p.Lon, p.Lat) {
		report("location", got, geo.WKT(p.Lon, p.Lat))
	}

	if got := row.String("description"); got != p.Description {
		report("description", got, p.Description)
	}

	gotVec, err := sqltext.ParseVector(row.String("embedding"))
	if err != nil || len(gotVec) != len(p.Embedding) {
		report("embedding", row.String("embedding"), sqltext.FormatVector(p.Embedding))
	} else {
		for i := range gotVec {
			if math.Abs(float64(gotVec[i]-p.Embedding[i])) > 1e-6 {
				report("embedding", sqltext.FormatVector(gotVec), sqltext.FormatVector(p.Embedding))
				break
			}
		}
	}

	return problems
}

// Column documents one column of the demo table.
type Column struct {
	Name    string
	Type    string
	Purpose string
}

// DataMap describes the table the way the demo presents it: which modality
// each column brings to the multi-model story.
func DataMap() []Column {
	return []Column{
		{Name: "id", Type: "INT", Purpose: "Unique property identifier"},
		{Name: "address", Type: "VARCHAR(255)", Purpose: "Street address"},
		{Name: "city", Type: "VARCHAR(100)", Purpose: "City name"},
		{Name: "state", Type: "VARCHAR(50)", Purpose: "State abbreviation"},
		{Name: "price", Type: "DECIMAL(12, 2)", Purpose: "Listing price"},
		{Name: "features", Type: "JSON", Purpose: "Bedrooms, bathrooms, property type, amenities"},
		{Name: "location", Type: "POINT", Purpose: "Geographic coordinates"},
		{Name: "description", Type: "TEXT", Purpose: "Full-text indexed description"},
		{Name: "embedding", Type: fmt.Sprintf("VECTOR(%d)", EmbeddingDim), Purpose: "Investment profile vector"},
	}
}
