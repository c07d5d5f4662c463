package geom

import (
	"encoding/xml"
	"strings"
)

type kmlLineString struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	Name       string        `xml:"name"`
	LineString kmlLineString `xml:"LineString"`
}

type kmlDoc struct {
	XMLName    xml.Name       `xml:"kml"`
	Xmlns      string         `xml:"xmlns,attr"`
	Name       string         `xml:"Document>name"`
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
}

// EncodeKML writes one Placemark per primary line, named by its uuid.
// KML coordinates are "x,y" tuples separated by spaces.
func EncodeKML(name string, d Data) ([]byte, error) {
	doc := kmlDoc{Xmlns: "http://www.opengis.net/kml/2.2", Name: name}
	for i, ls := range d.Lines {
		tuples := make([]string, len(ls))
		for j, p := range ls {
			tuples[j] = formatFloat(p[0]) + "," + formatFloat(p[1])
		}
		doc.Placemarks = append(doc.Placemarks, kmlPlacemark{
			Name:       d.UUIDs[i],
			LineString: kmlLineString{Coordinates: strings.Join(tuples, " ")},
		})
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
