// Package pathkey translates dotted/bracketed value paths into the
// dot-only syntax understood by the gjson and sjson path engines.
package pathkey

import "strings"

// ToGJSON converts a path like "items[0].name" into "items.0.name".
// Dots already present are kept as separators; "[i]" becomes ".i". Key
// characters the path engines treat specially (*, ?, \) are escaped so
// they match literally.
func ToGJSON(path string) string {
	var b strings.Builder
	b.Grow(len(path))

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			if b.Len() > 0 {
				b.WriteByte('.')
			}
		case ']':
			// the following '.' (if any) already separates
		case '*', '?', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
