package geom

import (
	"strconv"
	"strings"
)

// EncodeWKT writes the primary lines as a MULTILINESTRING.
func EncodeWKT(d Data) string {
	if len(d.Lines) == 0 {
		return "MULTILINESTRING EMPTY"
	}
	var b strings.Builder
	b.WriteString("MULTILINESTRING (")
	for i, ls := range d.Lines {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, p := range ls {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatFloat(p[0]))
			b.WriteByte(' ')
			b.WriteString(formatFloat(p[1]))
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
