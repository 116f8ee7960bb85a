package simulated

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spetr/homequery/pkg/geo"
	"github.com/spetr/homequery/pkg/sqltext"
	"github.com/spetr/homequery/pkg/types"
)

// The engine compiles the statement shapes the query builders emit into
// closures over an in-memory row view. It covers the SQL this project
// generates, not SQL in general: supported expressions and conditions are
// enumerated below and anything else fails loudly.

type compiledQuery struct {
	table   string
	selects []selectItem
	where   condFunc
	orderBy []orderKey
	limit   int
}

type selectItem struct {
	name string
	eval func(*propView) (any, error)
}

type condFunc func(*propView) (bool, error)

type orderKey struct {
	column string
	desc   bool
}

// argCursor hands out statement arguments in placeholder order.
type argCursor struct {
	args []any
	pos  int
}

func (c *argCursor) next() (any, error) {
	if c.pos >= len(c.args) {
		return nil, fmt.Errorf("statement needs more than %d args", len(c.args))
	}
	v := c.args[c.pos]
	c.pos++
	return v, nil
}

func (c *argCursor) nextString() (string, error) {
	v, err := c.next()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("arg %d: expected string, got %T", c.pos, v)
	}
	return s, nil
}

func (c *argCursor) nextFloat() (float64, error) {
	v, err := c.next()
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("arg %d: expected number, got %T", c.pos, v)
	}
	return f, nil
}

func (c *argCursor) nextInt() (int64, error) {
	f, err := c.nextFloat()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func compile(query string, args []any) (*compiledQuery, error) {
	text := strings.Join(strings.Fields(query), " ")
	cur := &argCursor{args: args}

	if !strings.HasPrefix(strings.ToUpper(text), "SELECT ") {
		return nil, fmt.Errorf("unsupported statement: %q", firstWord(text))
	}
	fromIdx := strings.Index(text, " FROM ")
	if fromIdx < 0 {
		return nil, fmt.Errorf("statement has no FROM clause")
	}
	selectPart := text[len("SELECT "):fromIdx]
	rest := text[fromIdx+len(" FROM "):]

	table := rest
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		table, rest = rest[:sp], strings.TrimSpace(rest[sp+1:])
	} else {
		rest = ""
	}

	wherePart, orderPart, limitPart := carveClauses(rest)

	c := &compiledQuery{table: table, limit: -1}

	var err error
	if c.selects, err = compileSelect(selectPart, cur); err != nil {
		return nil, err
	}
	if wherePart != "" {
		if c.where, err = compileCond(wherePart, cur); err != nil {
			return nil, err
		}
	}
	if orderPart != "" {
		if c.orderBy, err = compileOrder(orderPart); err != nil {
			return nil, err
		}
	}
	if limitPart != "" {
		switch {
		case limitPart == "?":
			n, err := cur.nextInt()
			if err != nil {
				return nil, err
			}
			c.limit = int(n)
		default:
			n, err := strconv.Atoi(limitPart)
			if err != nil {
				return nil, fmt.Errorf("bad LIMIT %q", limitPart)
			}
			c.limit = n
		}
	}

	if cur.pos != len(args) {
		return nil, fmt.Errorf("statement consumed %d of %d args", cur.pos, len(args))
	}
	return c, nil
}

// carveClauses splits everything after the table name into the WHERE body,
// the ORDER BY body and the LIMIT body.
func carveClauses(rest string) (wherePart, orderPart, limitPart string) {
	if i := strings.Index(rest, "LIMIT "); i >= 0 {
		limitPart = strings.TrimSpace(rest[i+len("LIMIT "):])
		rest = strings.TrimSpace(rest[:i])
	}
	if i := strings.Index(rest, "ORDER BY "); i >= 0 {
		orderPart = strings.TrimSpace(rest[i+len("ORDER BY "):])
		rest = strings.TrimSpace(rest[:i])
	}
	if strings.HasPrefix(rest, "WHERE ") {
		wherePart = strings.TrimSpace(rest[len("WHERE "):])
	}
	return wherePart, orderPart, limitPart
}

func compileSelect(selectPart string, cur *argCursor) ([]selectItem, error) {
	var items []selectItem
	for _, raw := range splitTop(selectPart, ", ") {
		raw = strings.TrimSpace(raw)
		expr, name := raw, raw
		if parts := splitTop(raw, " AS "); len(parts) == 2 {
			expr, name = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
		eval, err := compileExpr(expr, cur)
		if err != nil {
			return nil, err
		}
		items = append(items, selectItem{name: name, eval: eval})
	}
	return items, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func compileExpr(expr string, cur *argCursor) (func(*propView) (any, error), error) {
	switch {
	case strings.HasPrefix(expr, "JSON_EXTRACT(features, '$."):
		field := strings.TrimSuffix(expr[len("JSON_EXTRACT(features, '$."):], "')")
		return func(pv *propView) (any, error) {
			v, ok := pv.features[field]
			if !ok {
				return nil, nil
			}
			switch v.(type) {
			case string, float64, bool, nil:
				return v, nil
			default:
				b, err := json.Marshal(v)
				if err != nil {
					return nil, err
				}
				return string(b), nil
			}
		}, nil

	case expr == "ST_AsText(location)":
		return func(pv *propView) (any, error) {
			return pv.row.String("location"), nil
		}, nil

	case strings.HasPrefix(expr, "ST_Distance_Sphere(location, ST_GeomFromText(?))"):
		wkt, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		lon, lat, err := geo.ParseWKT(wkt)
		if err != nil {
			return nil, err
		}
		km := strings.HasSuffix(expr, "/ 1000")
		return func(pv *propView) (any, error) {
			if km {
				return geo.HaversineKm(pv.lon, pv.lat, lon, lat), nil
			}
			return geo.Haversine(pv.lon, pv.lat, lon, lat), nil
		}, nil

	case strings.HasPrefix(expr, "MATCH(description) AGAINST (?)"):
		terms, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (any, error) {
			return matchScore(pv.desc, terms), nil
		}, nil

	case strings.HasPrefix(expr, "VECTOR_DISTANCE(embedding, ?)"):
		lit, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		probe, err := sqltext.ParseVector(lit)
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (any, error) {
			return l2(pv.vector, probe)
		}, nil

	case strings.HasPrefix(expr, "SUBSTRING(description, 1, "):
		nText := strings.TrimSuffix(expr[len("SUBSTRING(description, 1, "):], ")")
		n, err := strconv.Atoi(nText)
		if err != nil {
			return nil, fmt.Errorf("bad SUBSTRING length %q", nText)
		}
		return func(pv *propView) (any, error) {
			runes := []rune(pv.desc)
			if len(runes) > n {
				runes = runes[:n]
			}
			return string(runes), nil
		}, nil

	case strings.HasPrefix(expr, "(CASE WHEN "):
		return compileCase(expr, cur)

	case expr == "0":
		return func(*propView) (any, error) { return int64(0), nil }, nil

	case identRe.MatchString(expr):
		col := expr
		return func(pv *propView) (any, error) {
			return pv.row[col], nil
		}, nil
	}
	return nil, fmt.Errorf("unsupported select expression %q", expr)
}

// compileCase handles the tiered relevance expression:
// (CASE WHEN conds THEN n ... ELSE 0 END).
func compileCase(expr string, cur *argCursor) (func(*propView) (any, error), error) {
	body := strings.TrimPrefix(expr, "(CASE ")
	body = strings.TrimSuffix(body, " END)")
	if i := strings.LastIndex(body, " ELSE "); i >= 0 {
		body = body[:i]
	}

	type tier struct {
		cond  condFunc
		score int64
	}
	var tiers []tier
	for _, when := range strings.Split(body, "WHEN ") {
		when = strings.TrimSpace(when)
		if when == "" {
			continue
		}
		thenIdx := strings.Index(when, " THEN ")
		if thenIdx < 0 {
			return nil, fmt.Errorf("CASE arm without THEN: %q", when)
		}
		cond, err := compileCond(when[:thenIdx], cur)
		if err != nil {
			return nil, err
		}
		score, err := strconv.ParseInt(strings.TrimSpace(when[thenIdx+len(" THEN "):]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad CASE score in %q", when)
		}
		tiers = append(tiers, tier{cond: cond, score: score})
	}

	return func(pv *propView) (any, error) {
		for _, t := range tiers {
			ok, err := t.cond(pv)
			if err != nil {
				return nil, err
			}
			if ok {
				return t.score, nil
			}
		}
		return int64(0), nil
	}, nil
}

func compileCond(cond string, cur *argCursor) (condFunc, error) {
	cond = strings.TrimSpace(cond)
	for balancedWrap(cond) {
		cond = strings.TrimSpace(cond[1 : len(cond)-1])
	}

	if parts := splitTop(cond, " AND "); len(parts) > 1 {
		return compileBool(parts, cur, true)
	}
	if parts := splitTop(cond, " OR "); len(parts) > 1 {
		return compileBool(parts, cur, false)
	}

	switch {
	case cond == "description LIKE ?":
		pat, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		needle := strings.ToLower(strings.Trim(pat, "%"))
		return func(pv *propView) (bool, error) {
			return strings.Contains(strings.ToLower(pv.desc), needle), nil
		}, nil

	case cond == "price < ?":
		max, err := cur.nextFloat()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			return pv.price < max, nil
		}, nil

	case strings.HasPrefix(cond, "JSON_EXTRACT(features, '$.") && strings.HasSuffix(cond, "') >= ?"):
		field := strings.TrimSuffix(cond[len("JSON_EXTRACT(features, '$."):], "') >= ?")
		min, err := cur.nextFloat()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			f, ok := pv.features[field].(float64)
			return ok && f >= min, nil
		}, nil

	case cond == "JSON_CONTAINS(features, ?, '$.amenities')",
		cond == "JSON_CONTAINS(JSON_EXTRACT(features, '$.amenities'), ?)":
		lit, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		var amenity string
		if err := json.Unmarshal([]byte(lit), &amenity); err != nil {
			return nil, fmt.Errorf("JSON_CONTAINS candidate %q: %w", lit, err)
		}
		return func(pv *propView) (bool, error) {
			return pv.hasAmenity(amenity), nil
		}, nil

	case cond == "ST_Contains(ST_Buffer(ST_GeomFromText(?), ?), location)":
		wkt, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		lon, lat, err := geo.ParseWKT(wkt)
		if err != nil {
			return nil, err
		}
		radius, err := cur.nextFloat()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			return geo.Haversine(pv.lon, pv.lat, lon, lat) <= radius, nil
		}, nil

	case cond == "ST_Distance_Sphere(location, ST_GeomFromText(?)) < ?":
		wkt, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		lon, lat, err := geo.ParseWKT(wkt)
		if err != nil {
			return nil, err
		}
		max, err := cur.nextFloat()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			return geo.Haversine(pv.lon, pv.lat, lon, lat) < max, nil
		}, nil

	case cond == "MATCH(description) AGAINST (?)":
		terms, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			return matchScore(pv.desc, terms) > 0, nil
		}, nil

	case cond == "VECTOR_DISTANCE(embedding, ?) < ?":
		lit, err := cur.nextString()
		if err != nil {
			return nil, err
		}
		probe, err := sqltext.ParseVector(lit)
		if err != nil {
			return nil, err
		}
		max, err := cur.nextFloat()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			d, err := l2(pv.vector, probe)
			if err != nil {
				return false, err
			}
			return d < max, nil
		}, nil

	case cond == "id = ?":
		id, err := cur.nextInt()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			return pv.id == id, nil
		}, nil

	case cond == "id <> ?":
		id, err := cur.nextInt()
		if err != nil {
			return nil, err
		}
		return func(pv *propView) (bool, error) {
			return pv.id != id, nil
		}, nil
	}
	return nil, fmt.Errorf("unsupported condition %q", cond)
}

func compileBool(parts []string, cur *argCursor, all bool) (condFunc, error) {
	conds := make([]condFunc, 0, len(parts))
	for _, p := range parts {
		c, err := compileCond(p, cur)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	if all {
		return func(pv *propView) (bool, error) {
			for _, c := range conds {
				ok, err := c(pv)
				if err != nil || !ok {
					return false, err
				}
			}
			return true, nil
		}, nil
	}
	return func(pv *propView) (bool, error) {
		for _, c := range conds {
			ok, err := c(pv)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}, nil
}

func compileOrder(orderPart string) ([]orderKey, error) {
	var keys []orderKey
	for _, item := range strings.Split(orderPart, ", ") {
		fields := strings.Fields(item)
		switch len(fields) {
		case 1:
			keys = append(keys, orderKey{column: fields[0]})
		case 2:
			dir := strings.ToUpper(fields[1])
			if dir != "ASC" && dir != "DESC" {
				return nil, fmt.Errorf("bad ORDER BY direction %q", fields[1])
			}
			keys = append(keys, orderKey{column: fields[0], desc: dir == "DESC"})
		default:
			return nil, fmt.Errorf("bad ORDER BY item %q", item)
		}
	}
	return keys, nil
}

func (c *compiledQuery) run(rows []types.Row) (*types.ResultSet, error) {
	rs := &types.ResultSet{}
	for _, it := range c.selects {
		rs.Columns = append(rs.Columns, it.name)
	}

	var out []types.Row
	for _, raw := range rows {
		pv, err := newPropView(raw)
		if err != nil {
			return nil, err
		}
		if c.where != nil {
			ok, err := c.where(pv)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		row := make(types.Row, len(c.selects))
		for _, it := range c.selects {
			v, err := it.eval(pv)
			if err != nil {
				return nil, err
			}
			row[it.name] = v
		}
		out = append(out, row)
	}

	sortRows(out, c.orderBy)
	if c.limit >= 0 && len(out) > c.limit {
		out = out[:c.limit]
	}
	rs.Rows = out
	return rs, nil
}

func sortRows(rows []types.Row, keys []orderKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareValues(rows[i], rows[j], k.column)
			if cmp == 0 {
				continue
			}
			if k.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b types.Row, col string) int {
	af, aok := a.Float(col)
	bf, bok := b.Float(col)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(col), b.String(col))
}

// propView is one stored row with the typed fields conditions evaluate.
type propView struct {
	row      types.Row
	id       int64
	price    float64
	desc     string
	lon, lat float64
	features map[string]any
	vector   []float32
}

func newPropView(row types.Row) (*propView, error) {
	pv := &propView{row: row, features: map[string]any{}}
	pv.id, _ = row.Int("id")
	pv.price, _ = row.Float("price")
	pv.desc = row.String("description")

	if s := row.String("features"); s != "" {
		if err := json.Unmarshal([]byte(s), &pv.features); err != nil {
			return nil, fmt.Errorf("row %d: parsing features: %w", pv.id, err)
		}
	}
	if s := row.String("location"); s != "" {
		lon, lat, err := geo.ParseWKT(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", pv.id, err)
		}
		pv.lon, pv.lat = lon, lat
	}
	if s := row.String("embedding"); s != "" {
		vec, err := sqltext.ParseVector(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing embedding: %w", pv.id, err)
		}
		pv.vector = vec
	}
	return pv, nil
}

func (pv *propView) hasAmenity(amenity string) bool {
	list, ok := pv.features["amenities"].([]any)
	if !ok {
		return false
	}
	for _, v := range list {
		if s, ok := v.(string); ok && s == amenity {
			return true
		}
	}
	return false
}

// matchScore stands in for the engine's full-text relevance: the number of
// search terms the description contains, case-insensitively.
func matchScore(desc, terms string) float64 {
	lower := strings.ToLower(desc)
	var score float64
	for _, term := range strings.Fields(strings.ToLower(terms)) {
		if strings.Contains(lower, term) {
			score++
		}
	}
	return score
}

func l2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// splitTop splits s on sep at parenthesis depth zero, outside quotes.
func splitTop(s, sep string) []string {
	var parts []string
	depth, start := 0, 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case inQuote:
			if s[i] == '\'' {
				inQuote = false
			}
		case s[i] == '\'':
			inQuote = true
		case s[i] == '(':
			depth++
		case s[i] == ')':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// balancedWrap reports whether s is one parenthesized group.
func balancedWrap(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
