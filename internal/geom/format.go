package geom

import (
	"bytes"
	"fmt"
	"strings"

	"gridmesh/internal/grid"
)

// Format names an export format.
type Format string

const (
	GeoJSON Format = "geojson"
	WKT     Format = "wkt"
	CSV     Format = "csv"
	KML     Format = "kml"
)

var Formats = []Format{GeoJSON, WKT, CSV, KML}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Ext is the file extension of the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType is the media type the format is served with.
func (f Format) ContentType() string {
	switch f {
	case GeoJSON:
		return "application/geo+json"
	case CSV:
		return "text/csv"
	case KML:
		return "application/vnd.google-earth.kml+xml"
	}
	return "text/plain; charset=utf-8"
}

// Encode renders lines in format f. name titles formats that carry one.
func Encode(f Format, name string, lines []grid.CompactLine) ([]byte, error) {
	d := FromLines(lines)
	switch f {
	case GeoJSON:
		return EncodeGeoJSON(d)
	case WKT:
		return []byte(EncodeWKT(d)), nil
	case CSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case KML:
		return EncodeKML(name, d)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}
