package geom

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotGeoJSON = errors.New("not a geojson document")

type geoFeature struct {
	Type       string         `json:"type"`
	Geometry   geoGeometry    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	BBox     []float64    `json:"bbox,omitempty"`
	Features []geoFeature `json:"features"`
}

// EncodeGeoJSON writes one LineString feature per primary line. The uuid,
// the line index and the common point flags travel as properties so that
// DecodeGeoJSON can restore the grid.
func EncodeGeoJSON(d Data) ([]byte, error) {
	fc := geoCollection{Type: "FeatureCollection", Features: []geoFeature{}}
	if d.points() > 0 {
		fc.BBox = []float64{d.BBox.MinX, d.BBox.MinY, d.BBox.MaxX, d.BBox.MaxY}
	}
	for i, ls := range d.Lines {
		fc.Features = append(fc.Features, geoFeature{
			Type:     "Feature",
			Geometry: geoGeometry{Type: "LineString", Coordinates: ls},
			Properties: map[string]any{
				"uuid":   d.UUIDs[i],
				"index":  i,
				"common": d.Common[i],
			},
		})
	}
	return json.MarshalIndent(fc, "", "  ")
}

// DecodeGeoJSON reads a document written by EncodeGeoJSON. A single Feature
// is accepted as a one-line grid. Documents without a type report
// ErrNotGeoJSON.
func DecodeGeoJSON(data []byte) (Data, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrNotGeoJSON, err)
	}
	var d Data
	parsePoint := func(v any) (pt [2]float64, ok bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			x, xok := a[0].(float64)
			y, yok := a[1].(float64)
			if xok && yok {
				return [2]float64{x, y}, true
			}
		}
		return [2]float64{}, false
	}
	parseFeature := func(f map[string]any) error {
		g, _ := f["geometry"].(map[string]any)
		if gt, _ := g["type"].(string); gt != "LineString" {
			return fmt.Errorf("feature %d: want a LineString, got %q", len(d.Lines), gt)
		}
		coords, _ := g["coordinates"].([]any)
		ls := make([][2]float64, 0, len(coords))
		for _, c := range coords {
			pt, ok := parsePoint(c)
			if !ok {
				return fmt.Errorf("feature %d: bad coordinate %v", len(d.Lines), c)
			}
			ls = append(ls, pt)
		}
		props, _ := f["properties"].(map[string]any)
		id, _ := props["uuid"].(string)
		flags, _ := props["common"].([]any)
		if len(flags) != len(ls) {
			return fmt.Errorf("feature %d: %d common flags for %d coordinates", len(d.Lines), len(flags), len(ls))
		}
		common := make([]bool, len(flags))
		for j, v := range flags {
			common[j], _ = v.(bool)
		}
		d.addLine(id, ls, common)
		return nil
	}

	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		if err := parseFeature(raw); err != nil {
			return Data{}, err
		}
	case "FeatureCollection":
		fs, _ := raw["features"].([]any)
		for _, f := range fs {
			fm, _ := f.(map[string]any)
			if err := parseFeature(fm); err != nil {
				return Data{}, err
			}
		}
	case "":
		return Data{}, ErrNotGeoJSON
	default:
		return Data{}, fmt.Errorf("unsupported geojson type: %s", t)
	}
	return d, nil
}
