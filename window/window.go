/*
Package window decodes a texture starting at an arbitrary offset inside a
larger buffer, such as a ROM image being scrolled through byte by byte, and
prepares the result for display.
*/
package window

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/n64tex/texture"
	"golang.org/x/image/draw"
)

// ErrNegativeOffset is returned when the offset is before the start of the
// buffer.
var ErrNegativeOffset = errors.New("window: negative offset")

// Decode decodes a width by height texture of format f starting at offset
// bytes into b. If offset is at or beyond the end of b there is nothing to
// draw and ok is false. Fewer remaining bytes than the texture needs is not
// an error, the missing pixels are transparent.
func Decode(b []byte, offset int, f texture.Format, width, height int, opts ...texture.Option) (m *image.NRGBA, ok bool, err error) {
	if offset < 0 {
		return nil, false, ErrNegativeOffset
	}
	if offset >= len(b) {
		return nil, false, nil
	}

	m, err = texture.Decode(b[offset:], f, width, height, opts...)
	if err != nil {
		return nil, false, err
	}

	return m, true, nil
}

// PadToLength returns a copy of b truncated or zero-filled to exactly n bytes.
func PadToLength(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Premultiply converts m to premultiplied alpha, rounding each channel to
// the nearest value.
func Premultiply(m *image.NRGBA) *image.RGBA {
	b := m.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[dst.PixOffset(0, y):]
		for x := 0; x < b.Dx()<<2; x += 4 {
			a := uint32(src[x+3])
			out[x+0] = uint8((uint32(src[x+0])*a + 127) / 255)
			out[x+1] = uint8((uint32(src[x+1])*a + 127) / 255)
			out[x+2] = uint8((uint32(src[x+2])*a + 127) / 255)
			out[x+3] = uint8(a)
		}
	}
	return dst
}

// Composite fills a canvas the size of m with bg and draws the premultiplied
// form of m over it.
func Composite(m *image.NRGBA, bg color.Color) *image.RGBA {
	src := Premultiply(m)
	r := src.Rect
	dst := image.NewRGBA(r)
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, r, src, image.Point{}, draw.Over)
	return dst
}

// Scale enlarges m by an integer factor without filtering so individual
// texels stay visible.
func Scale(m image.Image, factor int) image.Image {
	if factor <= 1 {
		return m
	}
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}
