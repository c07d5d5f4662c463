package geom

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"line", "point", "x", "y", "common", "uuid"}

// WriteCSV writes one row per point.
func WriteCSV(w io.Writer, d Data) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, ls := range d.Lines {
		for j, p := range ls {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				formatFloat(p[0]),
				formatFloat(p[1]),
				strconv.FormatBool(d.Common[i][j]),
				d.UUIDs[i],
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
