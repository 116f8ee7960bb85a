// Package simulated implements the executor against an in-memory table so
// setup, queries and the agent run without a database or a bridge process.
// It understands exactly the statements this project's builders generate.
package simulated

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/types"
)

// Executor evaluates statements against tables it holds in memory.
type Executor struct {
	mu     sync.RWMutex
	tables map[string][]types.Row
}

// New returns an empty simulated executor. Tables appear as DDL and inserts
// arrive, exactly like a fresh database.
func New() *Executor {
	return &Executor{tables: map[string][]types.Row{}}
}

// Name returns the executor name.
func (e *Executor) Name() string {
	return "simulated"
}

// Query evaluates a SELECT against the stored rows.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (*types.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.Join(strings.Fields(query), " ")
	if text == "SELECT 1" {
		return &types.ResultSet{
			Columns: []string{"1"},
			Rows:    []types.Row{{"1": int64(1)}},
		}, nil
	}

	c, err := compile(text, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
	}

	e.mu.RLock()
	rows, ok := e.tables[c.table]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: table %q doesn't exist", types.ErrQueryFailed, c.table)
	}

	rs, err := c.run(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
	}
	return rs, nil
}

// Exec handles the DDL and insert statements setup issues.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := strings.Join(strings.Fields(query), " ")
	upper := strings.ToUpper(text)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case strings.HasPrefix(upper, "CREATE TABLE "):
		name := tableNameAfter(text, "TABLE")
		if name == "" {
			return fmt.Errorf("%w: CREATE TABLE without a name", types.ErrQueryFailed)
		}
		if _, ok := e.tables[name]; !ok {
			e.tables[name] = nil
		}
		return nil

	case strings.HasPrefix(upper, "DROP TABLE "):
		name := tableNameAfter(text, "TABLE")
		delete(e.tables, name)
		return nil

	case strings.HasPrefix(upper, "INSERT INTO "):
		return e.insert(text, args)
	}
	return fmt.Errorf("%w: unsupported statement %q", types.ErrQueryFailed, firstWord(text))
}

// Ping always succeeds; memory is never down.
func (e *Executor) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close discards the stored tables.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tables = map[string][]types.Row{}
	return nil
}

// insert binds args to the statement's column list positionally. Every
// column carries exactly one placeholder, ST_GeomFromText included.
func (e *Executor) insert(text string, args []any) error {
	rest := text[len("INSERT INTO "):]
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return fmt.Errorf("%w: INSERT without column list", types.ErrQueryFailed)
	}
	table := strings.TrimSpace(rest[:open])
	closeIdx := strings.IndexByte(rest, ')')
	if closeIdx < open {
		return fmt.Errorf("%w: unterminated column list", types.ErrQueryFailed)
	}
	cols := strings.Split(rest[open+1:closeIdx], ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	if len(cols) != len(args) {
		return fmt.Errorf("%w: %d columns but %d args", types.ErrQueryFailed, len(cols), len(args))
	}

	rows, ok := e.tables[table]
	if !ok {
		return fmt.Errorf("%w: table %q doesn't exist", types.ErrQueryFailed, table)
	}

	row := make(types.Row, len(cols))
	for i, col := range cols {
		row[col] = args[i]
	}

	if id, ok := row.Int("id"); ok {
		for _, existing := range rows {
			if eid, ok := existing.Int("id"); ok && eid == id {
				return fmt.Errorf("%w: duplicate entry %d for key PRIMARY", types.ErrQueryFailed, id)
			}
		}
	}

	e.tables[table] = append(rows, row)
	return nil
}

// tableNameAfter extracts the identifier following keyword, skipping the
// IF [NOT] EXISTS qualifiers.
func tableNameAfter(text, keyword string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		if strings.EqualFold(f, keyword) && i+1 < len(fields) {
			name := fields[i+1:]
			for len(name) > 1 {
				switch strings.ToUpper(name[0]) {
				case "IF", "NOT", "EXISTS":
					name = name[1:]
					continue
				}
				break
			}
			return strings.TrimSuffix(name[0], "(")
		}
	}
	return ""
}

var _ provider.Executor = (*Executor)(nil)
