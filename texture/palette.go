package texture

import (
	"errors"
	"fmt"
	"image/color"
)

const maxPaletteEntries = 256

// ErrBadPalette is returned when a TLUT cannot be parsed.
var ErrBadPalette = errors.New("texture: invalid palette")

// Palette is a texture lookup table. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces using
// the big-endian 16-bit RGBA layout the hardware reads.
type Palette []Color

// ReadPalette parses n big-endian RGBA16 entries from the start of b.
func ReadPalette(b []byte, n int) (Palette, error) {
	if n < 0 || n > maxPaletteEntries {
		return nil, fmt.Errorf("%w: %d entries", ErrBadPalette, n)
	}
	if len(b) < n<<1 {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrBadPalette, n<<1, len(b))
	}
	var p Palette
	if err := p.UnmarshalBinary(b[:n<<1]); err != nil {
		return nil, err
	}
	return p, nil
}

// MarshalBinary encodes the palette as packed RGBA16 entries
func (p Palette) MarshalBinary() ([]byte, error) {
	if len(p) > maxPaletteEntries {
		return nil, fmt.Errorf("%w: more than %d entries", ErrBadPalette, maxPaletteEntries)
	}
	b := make([]byte, 0, len(p)<<1)
	for _, c := range p {
		v := c.U16()
		b = append(b, byte(v>>8), byte(v))
	}
	return b, nil
}

// UnmarshalBinary decodes the palette from packed RGBA16 entries
func (p *Palette) UnmarshalBinary(b []byte) error {
	if len(b)&1 != 0 {
		return fmt.Errorf("%w: odd length %d", ErrBadPalette, len(b))
	}
	if len(b)>>1 > maxPaletteEntries {
		return fmt.Errorf("%w: more than %d entries", ErrBadPalette, maxPaletteEntries)
	}
	*p = make(Palette, len(b)>>1)
	for i := range *p {
		(*p)[i] = FromU16(uint16(b[i<<1])<<8 | uint16(b[i<<1+1]))
	}
	return nil
}

// ColorPalette converts p to a color.Palette.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c.NRGBA()
	}
	return cp
}

func (p Palette) lookup(i int) Color {
	if i >= len(p) {
		return Transparent
	}
	return p[i]
}
