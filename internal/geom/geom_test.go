package geom

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmesh/internal/grid"
)

func sampleLines() []grid.CompactLine {
	return []grid.CompactLine{
		{UUID: "a", Points: []grid.CompactPoint{{X: 0, Y: 0, IsCommonPoint: true}, {X: 0, Y: 2.5}, {X: 0, Y: 5, IsCommonPoint: true}}},
		{UUID: "b", Points: []grid.CompactPoint{{X: 5, Y: -1, IsCommonPoint: true}, {X: 5, Y: 2.5}, {X: 5.5, Y: 5, IsCommonPoint: true}}},
	}
}

func TestFromLines(t *testing.T) {
	d := FromLines(sampleLines())
	assert.Equal(t, BBox{MinX: 0, MinY: -1, MaxX: 5.5, MaxY: 5}, d.BBox)
	assert.Equal(t, []string{"a", "b"}, d.UUIDs)
	assert.Equal(t, []bool{true, false, true}, d.Common[1])
	if diff := cmp.Diff(sampleLines(), d.Compact()); diff != "" {
		t.Fatalf("compact mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, FromLines(nil).Compact())
}

func TestGeoJSONRoundTrip(t *testing.T) {
	b, err := EncodeGeoJSON(FromLines(sampleLines()))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type": "FeatureCollection"`)
	assert.Contains(t, string(b), `"LineString"`)

	d, err := DecodeGeoJSON(b)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleLines(), d.Compact()); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}

	b, err = EncodeGeoJSON(Data{})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "bbox")
	d, err = DecodeGeoJSON(b)
	require.NoError(t, err)
	assert.Empty(t, d.Lines)
}

func TestDecodeGeoJSONErrors(t *testing.T) {
	_, err := DecodeGeoJSON([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrNotGeoJSON)

	_, err = DecodeGeoJSON([]byte(`{"lines": []}`))
	assert.ErrorIs(t, err, ErrNotGeoJSON)

	_, err = DecodeGeoJSON([]byte(`{"type": "Point", "coordinates": [1, 2]}`))
	assert.ErrorContains(t, err, "unsupported geojson type")

	_, err = DecodeGeoJSON([]byte(`{"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}}`))
	assert.ErrorContains(t, err, "want a LineString")

	_, err = DecodeGeoJSON([]byte(`{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 5]]}, "properties": {"common": [true]}}`))
	assert.ErrorContains(t, err, "1 common flags for 2 coordinates")

	d, err := DecodeGeoJSON([]byte(`{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 5]]}, "properties": {"uuid": "x", "common": [true, true]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, d.UUIDs)
}

func TestEncodeWKT(t *testing.T) {
	assert.Equal(t, "MULTILINESTRING ((0 0, 0 2.5, 0 5), (5 -1, 5 2.5, 5.5 5))", EncodeWKT(FromLines(sampleLines())))
	assert.Equal(t, "MULTILINESTRING EMPTY", EncodeWKT(Data{}))
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteCSV(&b, FromLines(sampleLines()[:1])))
	want := "line,point,x,y,common,uuid\n" +
		"0,0,0,0,true,a\n" +
		"0,1,0,2.5,false,a\n" +
		"0,2,0,5,true,a\n"
	assert.Equal(t, want, b.String())
}

func TestEncodeKML(t *testing.T) {
	b, err := EncodeKML("photo.png", FromLines(sampleLines()))
	require.NoError(t, err)
	s := string(b)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<name>photo.png</name>")
	assert.Contains(t, s, "<name>b</name>")
	assert.Contains(t, s, "<coordinates>5,-1 5,2.5 5.5,5</coordinates>")
}

func TestEncode(t *testing.T) {
	for _, f := range Formats {
		b, err := Encode(f, "img", sampleLines())
		require.NoError(t, err, f)
		assert.NotEmpty(t, b, f)
	}
	_, err := Encode(Format("svg"), "img", sampleLines())
	assert.Error(t, err)

	f, err := ParseFormat(" GeoJSON ")
	require.NoError(t, err)
	assert.Equal(t, GeoJSON, f)
	assert.Equal(t, ".geojson", f.Ext())
	_, err = ParseFormat("shp")
	assert.ErrorContains(t, err, "unknown format")
}
