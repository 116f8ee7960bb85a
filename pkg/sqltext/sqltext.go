// Package sqltext renders SQL fragments as text. The MCP bridge tool takes a
// single SQL string, so parameterized queries are interpolated before they
// cross the bridge; the same helpers render vector literals in the bracketed
// form the database engine expects.
package sqltext

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuoteString returns s as a single-quoted MySQL string literal with
// backslash escaping.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Literal renders a single query argument as a SQL literal.
func Literal(arg any) (string, error) {
	switch v := arg.(type) {
	case nil:
		return "NULL", nil
	case string:
		return QuoteString(v), nil
	case []byte:
		return QuoteString(string(v)), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return QuoteString(v.Format("2006-01-02 15:04:05")), nil
	case fmt.Stringer:
		return QuoteString(v.String()), nil
	default:
		return "", fmt.Errorf("unsupported argument type %T", arg)
	}
}

// Interpolate substitutes args for ? placeholders, producing one literal SQL
// string. Placeholders inside quoted strings are left alone.
func Interpolate(query string, args ...any) (string, error) {
	var b strings.Builder
	b.Grow(len(query) + len(args)*16)

	argIdx := 0
	inString := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inString = !inString
			b.WriteByte(c)
		case c == '?' && !inString:
			if argIdx >= len(args) {
				return "", fmt.Errorf("placeholder %d has no argument", argIdx+1)
			}
			lit, err := Literal(args[argIdx])
			if err != nil {
				return "", fmt.Errorf("argument %d: %w", argIdx+1, err)
			}
			b.WriteString(lit)
			argIdx++
		default:
			b.WriteByte(c)
		}
	}
	if argIdx != len(args) {
		return "", fmt.Errorf("%d arguments for %d placeholders", len(args), argIdx)
	}
	return b.String(), nil
}
