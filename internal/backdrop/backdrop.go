// Package backdrop decodes the image a grid is drawn on and answers
// brightness queries in image coordinates for terminal rendering.
package backdrop

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxThumb bounds the longer side of the kept thumbnail.
const MaxThumb = 1024

// Extensions lists the file extensions Load understands.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Supported reports whether path has an image extension Load understands.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Image is a grayscale thumbnail of a decoded image. Width and Height are
// those of the original, which is the coordinate space of the grid.
type Image struct {
	Width, Height int
	Format        string

	thumb     *image.Gray
	scale     float64
	threshold uint8
}

func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return im, nil
}

func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode image: empty %s image", format)
	}

	scale := min(1, float64(MaxThumb)/float64(max(b.Dx(), b.Dy())))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	thumb := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), src, b, draw.Src, nil)

	return &Image{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    format,
		thumb:     thumb,
		scale:     float64(w) / float64(b.Dx()),
		threshold: meanLuma(thumb),
	}, nil
}

func meanLuma(g *image.Gray) uint8 {
	if len(g.Pix) == 0 {
		return 128
	}
	var sum int
	for _, v := range g.Pix {
		sum += int(v)
	}
	return uint8(sum / len(g.Pix))
}

// Luma returns the brightness at image coordinates (x, y), or false when
// the point is outside the image.
func (im *Image) Luma(x, y float64) (uint8, bool) {
	if im == nil || x < 0 || y < 0 || x >= float64(im.Width) || y >= float64(im.Height) {
		return 0, false
	}
	tb := im.thumb.Bounds()
	tx := min(int(x*im.scale), tb.Dx()-1)
	ty := min(int(y*im.scale), tb.Dy()-1)
	return im.thumb.GrayAt(tx, ty).Y, true
}

// Dark reports whether (x, y) is darker than the image's mean brightness.
func (im *Image) Dark(x, y float64) bool {
	v, ok := im.Luma(x, y)
	return ok && v < im.threshold
}
