package messagedb

import "strings"

// EscapeLiteral returns s as a PostgreSQL string literal that can be spliced
// verbatim into SQL text.
//
// Single quotes and backslashes are doubled. When s contains a backslash the
// literal is written in the escape string syntax (E'...'), so that the doubled
// backslash is read back as a single one.
func EscapeLiteral(s string) string {
	var (
		b            strings.Builder
		hasBackslash bool
	)

	b.Grow(len(s) + 3) //nolint:mnd // Quotes and the optional E marker.
	b.WriteByte('\'')

	// Both special characters are ASCII, so walking bytes leaves multi-byte
	// sequences (valid or not) untouched.
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)

			hasBackslash = true
		default:
			b.WriteByte(c)
		}
	}

	b.WriteByte('\'')

	if hasBackslash {
		return "E" + b.String()
	}

	return b.String()
}
