package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spetr/homequery/pkg/types"
)

// maxCellRunes caps a rendered table cell so full descriptions don't blow
// the table apart.
const maxCellRunes = 48

// WriteTable renders the result set as a bordered text table in column order.
func WriteTable(w io.Writer, rs *types.ResultSet) {
	if rs.Len() == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	cols := rs.Columns
	if len(cols) == 0 {
		for c := range rs.Rows[0] {
			cols = append(cols, c)
		}
		sort.Strings(cols)
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = utf8.RuneCountInString(c)
	}

	body := make([][]string, rs.Len())
	for ri, row := range rs.Rows {
		line := make([]string, len(cols))
		for ci, c := range cols {
			line[ci] = cell(row[c])
			if n := utf8.RuneCountInString(line[ci]); n > widths[ci] {
				widths[ci] = n
			}
		}
		body[ri] = line
	}

	rule := tableRule(widths)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, tableLine(cols, widths))
	fmt.Fprintln(w, rule)
	for _, line := range body {
		fmt.Fprintln(w, tableLine(line, widths))
	}
	fmt.Fprintln(w, rule)
}

func tableRule(widths []int) string {
	var b strings.Builder
	for _, w := range widths {
		b.WriteString("+")
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteString("+")
	return b.String()
}

func tableLine(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		b.WriteString("| ")
		b.WriteString(c)
		b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)+1))
	}
	b.WriteString("|")
	return b.String()
}

// cell renders one value for the table, truncated to maxCellRunes.
func cell(v any) string {
	s := cellValue(v)
	if utf8.RuneCountInString(s) > maxCellRunes {
		s = string([]rune(s)[:maxCellRunes-3]) + "..."
	}
	return s
}

func cellValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return trimFloat(t)
	case float32:
		return trimFloat(float64(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// trimFloat renders to four decimals and drops what the value doesn't need,
// so counts read as integers while distances keep their precision.
func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// writeProperties renders rows as numbered property cards, the long form the
// combined investment query uses. Fields render only when the row has them.
func writeProperties(w io.Writer, rs *types.ResultSet) {
	for i, row := range rs.Rows {
		fmt.Fprintf(w, "Property %d: %s, %s, %s\n", i+1,
			row.String("address"), row.String("city"), row.String("state"))

		if p, ok := row.Float("price"); ok {
			fmt.Fprintf(w, "Price: %s\n", formatMoney(p))
		}
		if b, ok := row.Int("bedrooms"); ok {
			fmt.Fprintf(w, "Bedrooms: %d\n", b)
		}
		if row.Has("amenities") {
			fmt.Fprintf(w, "Amenities: %s\n", amenityList(row.String("amenities")))
		}
		if d, ok := row.Float("distance_km"); ok {
			fmt.Fprintf(w, "Distance from Seattle: %.2f km\n", d)
		}
		if s, ok := row.Float("investment_similarity"); ok {
			fmt.Fprintf(w, "Investment Similarity: %.2f (lower is better)\n", s)
		}
		if row.Has("description") {
			fmt.Fprintf(w, "Description: %s...\n", clip(row.String("description"), 100))
		}
		fmt.Fprintln(w)
	}
}

// amenityList renders the JSON array JSON_EXTRACT returns as a plain list.
// Anything that isn't a JSON string array passes through untouched.
func amenityList(raw string) string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return raw
	}
	return strings.Join(items, ", ")
}

// formatMoney renders a dollar amount with thousands separators, two decimals.
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	return sign + "$" + strings.Join(groups, ",") + "." + frac
}

// clip cuts s after n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
