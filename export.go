package n64tex

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/n64tex/texture"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const maxGIFColors = 256

// OutputTypes lists the image types Save can write.
var OutputTypes = []string{"png", "gif", "jpeg", "bmp", "tiff"}

// TypeFromPath guesses the output type from the extension of path, falling
// back to PNG.
func TypeFromPath(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	case "gif", "jpeg", "bmp", "tiff":
		return ext
	default:
		return "png"
	}
}

// Reduce the colors in m to at most n using a median cut palette
func quantizeImage(m image.Image, n int) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)
	if len(p) == 0 {
		p = color.Palette{color.Transparent}
	}
	return paletted(m, p)
}

// Map m onto the colors of a TLUT rather than quantizing colors that were
// already indexed. The transparent entry catches indices the TLUT lacks.
func tlutImage(m image.Image, tlut texture.Palette) *image.Paletted {
	p := tlut.ColorPalette()
	if len(p) > maxGIFColors-1 {
		p = p[:maxGIFColors-1]
	}
	return paletted(m, append(p, color.Transparent))
}

func paletted(m image.Image, p color.Palette) *image.Paletted {
	b := m.Bounds()
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), p)
	draw.Draw(pm, pm.Rect, m, b.Min, draw.Src)
	return pm
}

// Save writes m to w encoded as the given type.
func Save(w io.Writer, m image.Image, kind string) error {
	if m.Bounds().Empty() {
		return errors.New("image is empty")
	}

	var err error
	switch strings.ToLower(kind) {
	case "png":
		err = png.Encode(w, m)
	case "gif":
		err = gif.Encode(w, quantizeImage(m, maxGIFColors), nil)
	case "jpeg", "jpg":
		err = jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
	case "bmp":
		err = bmp.Encode(w, m)
	case "tiff", "tif":
		err = tiff.Encode(w, m, nil)
	default:
		return errors.Errorf("unsupported output type: %s", kind)
	}

	return errors.Wrapf(err, "could not encode %s", kind)
}

// EncodeGIF writes frames to w as an animated GIF with delay hundredths of a
// second between each frame. If tlut is not nil every frame uses its colors,
// otherwise each frame gets its own median cut palette.
func EncodeGIF(w io.Writer, frames []image.Image, delay int, tlut texture.Palette) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}

	g := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}

	for i, m := range frames {
		if m.Bounds().Empty() {
			return errors.Errorf("frame %d is empty", i)
		}
		if tlut != nil {
			g.Image = append(g.Image, tlutImage(m, tlut))
		} else {
			g.Image = append(g.Image, quantizeImage(m, maxGIFColors))
		}
		g.Delay = append(g.Delay, delay)
	}

	return errors.Wrap(gif.EncodeAll(w, g), "could not encode animated GIF")
}
