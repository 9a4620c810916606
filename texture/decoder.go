package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
)

// Option configures a decode.
type Option func(*options)

type options struct {
	palette Palette
}

// WithPalette supplies the TLUT used to resolve CI4 and CI8 indices.
func WithPalette(p Palette) Option {
	return func(o *options) {
		o.palette = p
	}
}

func upperNibble(b byte) byte {
	return b >> 4
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// Expand a 3-bit intensity to 8 bits
func expand3(v byte) byte {
	return v<<5 | v<<2 | v>>1
}

// Expand a 4-bit value to 8 bits
func expand4(v byte) byte {
	return v<<4 | v
}

type decoder struct {
	b       []byte
	format  Format
	bpp     int
	palette Palette
}

// Raw texel value starting at bit offset, the caller guarantees it is in range
func (d *decoder) sample(bit int) uint32 {
	i := bit >> 3
	switch d.bpp {
	case 1:
		return uint32(d.b[i] >> (7 - uint(bit&7)) & 0x01)
	case 4:
		if bit&7 == 0 {
			return uint32(upperNibble(d.b[i]))
		}
		return uint32(lowerNibble(d.b[i]))
	case 8:
		return uint32(d.b[i])
	case 16:
		return uint32(binary.BigEndian.Uint16(d.b[i:]))
	default:
		return binary.BigEndian.Uint32(d.b[i:])
	}
}

func (d *decoder) color(v uint32) Color {
	switch d.format {
	case I1:
		if v != 0 {
			return White
		}
		return Black
	case I4:
		i := byte(v) << 4
		return RGB(i, i, i)
	case I8:
		i := byte(v)
		return RGB(i, i, i)
	case IA4:
		i := expand3(byte(v) >> 1)
		return RGBA(i, i, i, byte(v)&0x01*0xff)
	case IA8:
		i, a := expand4(upperNibble(byte(v))), expand4(lowerNibble(byte(v)))
		return RGBA(i, i, i, a)
	case IA16:
		i, a := byte(v>>8), byte(v)
		return RGBA(i, i, i, a)
	case CI4, CI8:
		return d.palette.lookup(int(v))
	case RGBA16:
		return FromU16(uint16(v))
	case RGBA32:
		return FromU32(v)
	default:
		return Transparent
	}
}

func (d *decoder) decode(m *image.NRGBA) {
	// Each row starts on a byte boundary
	stride := d.format.Stride(m.Rect.Dx())
	avail := len(d.b) * 8
	for y := 0; y < m.Rect.Dy(); y++ {
		for x := 0; x < m.Rect.Dx(); x++ {
			bit := y*stride*8 + x*d.bpp
			if bit+d.bpp > avail {
				return
			}
			c := d.color(d.sample(bit))
			i := m.PixOffset(x, y)
			p := m.Pix[i : i+4 : i+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
}

// Decode unpacks a width by height texture of format f from b and returns
// it as non-premultiplied RGBA. Only the first f.Size(width, height) bytes of
// b are used; if b is shorter the remaining pixels are transparent.
func Decode(b []byte, f Format, width, height int, opts ...Option) (*image.NRGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	bpp := f.BitsPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if f.IsPalette() && o.palette == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedPalette, f)
	}

	d := decoder{
		b:       b,
		format:  f,
		bpp:     bpp,
		palette: o.palette,
	}

	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	d.decode(m)

	return m, nil
}

// Read reads at most f.Size(width, height) bytes from r and decodes them. A
// short read is not an error.
func Read(r io.Reader, f Format, width, height int, opts ...Option) (*image.NRGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	b := make([]byte, f.Size(width, height))
	n, err := io.ReadFull(r, b)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	return Decode(b[:n], f, width, height, opts...)
}
