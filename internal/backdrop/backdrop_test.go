package backdrop

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeHalfDark(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			v := uint8(255)
			if x < w/2 {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	im, err := Decode(bytes.NewReader(encodeHalfDark(t, 200, 100)))
	require.NoError(t, err)
	assert.Equal(t, 200, im.Width)
	assert.Equal(t, 100, im.Height)
	assert.Equal(t, "png", im.Format)

	assert.True(t, im.Dark(10, 50))
	assert.False(t, im.Dark(190, 50))
	assert.False(t, im.Dark(-1, 50))
	assert.False(t, im.Dark(10, 100))

	var nilImage *Image
	assert.False(t, nilImage.Dark(1, 1))
}

func TestDecodeLargeKeepsBoundedThumb(t *testing.T) {
	im, err := Decode(bytes.NewReader(encodeHalfDark(t, 3000, 20)))
	require.NoError(t, err)
	assert.Equal(t, 3000, im.Width)
	assert.Equal(t, MaxThumb, im.thumb.Bounds().Dx())
	assert.True(t, im.Dark(100, 10))
	assert.False(t, im.Dark(2900, 10))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, encodeHalfDark(t, 40, 40), 0o644))

	im, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, im.Height)

	_, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.tiff", "d.webp", "e.bmp"} {
		assert.True(t, Supported(name), name)
	}
	for _, name := range []string{"a.txt", "b", "c.png.json"} {
		assert.False(t, Supported(name), name)
	}
}
