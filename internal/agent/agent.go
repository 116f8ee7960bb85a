package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spetr/homequery/internal/listings"
	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/sqltext"
	"github.com/spetr/homequery/pkg/types"
)

const (
	// cityRadiusMeters bounds the geospatial branch, 150 km around the city.
	cityRadiusMeters = 150000

	// similarityMaxDistance bounds the vector branch. Lower is more similar.
	similarityMaxDistance = 1.0
)

// Agent answers questions by classifying them and running exactly one query
// template against the executor. The similarity branch runs two statements:
// the anchor embedding fetch and the search itself.
type Agent struct {
	exec  provider.Executor
	table string
	limit int
}

// New creates an agent over the given executor and property table.
func New(exec provider.Executor, table string, limit int) *Agent {
	if limit <= 0 {
		limit = 10
	}
	return &Agent{exec: exec, table: table, limit: limit}
}

// Answer is the agent's response: which intent fired, the SQL that ran and
// the rows the database returned.
type Answer struct {
	Question string
	Intent   Intent
	SQL      string
	Results  *types.ResultSet
}

// Answer classifies the question, builds the matching query and executes it.
// Database errors propagate; an unrecognized question is answered with the
// default listing instead of failing.
func (a *Agent) Answer(ctx context.Context, question string) (*Answer, error) {
	intent := Classify(question)

	slog.Debug("question classified", "intent", string(intent.Kind), "question", question)

	var q listings.Query
	switch intent.Kind {
	case IntentNearCity:
		q = listings.NearPoint(a.table, intent.Lon, intent.Lat, cityRadiusMeters, a.limit)

	case IntentFeatureFilter:
		q = listings.ByMinBedrooms(a.table, intent.MinBedrooms, a.limit)

	case IntentSimilarProperty:
		vec, err := a.embeddingOf(ctx, intent.PropertyID)
		if err != nil {
			return nil, err
		}
		q = listings.SimilarToVectorExcluding(a.table, vec, intent.PropertyID, similarityMaxDistance, a.limit)

	default:
		q = listings.ListProperties(a.table, a.limit)
	}

	rs, err := a.exec.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("answering %q: %w", question, err)
	}

	display, err := q.Interpolate()
	if err != nil {
		display = q.SQL
	}

	return &Answer{
		Question: question,
		Intent:   intent,
		SQL:      display,
		Results:  rs,
	}, nil
}

// embeddingOf fetches the stored embedding of one property.
func (a *Agent) embeddingOf(ctx context.Context, id int) ([]float32, error) {
	q := listings.EmbeddingByID(a.table, id)
	rs, err := a.exec.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("fetching embedding of property %d: %w", id, err)
	}
	if rs.Len() == 0 {
		return nil, fmt.Errorf("property %d: %w", id, types.ErrNotFound)
	}

	vec, err := sqltext.ParseVector(rs.Rows[0].String("embedding"))
	if err != nil {
		return nil, fmt.Errorf("property %d embedding: %w", id, err)
	}
	return vec, nil
}
