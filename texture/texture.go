/*
Package texture implements a decoder for the packed pixel formats used by the
N64 RDP.

Texels are packed big-endian, the first texel of a row occupying the most
significant bits of its first byte. Each row starts on a byte boundary, so a
row of an odd width sub-byte format ends with unused padding bits. Intensity
formats replicate one sample into red, green and blue, color-indexed formats
look up a 16-bit RGBA palette (TLUT) supplied by the caller and the RGBA
formats store each channel directly.

Decoding never fails because of missing data. Any texel whose bits are not
fully present is left fully transparent, so a window near the end of a file
still produces an image of the requested size.
*/
package texture

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies one of the packed texel encodings.
type Format int

// The supported texel encodings.
const (
	I1 Format = iota
	I4
	I8
	IA4
	IA8
	IA16
	CI4
	CI8
	RGBA16
	RGBA32
	numFormats
)

var (
	// ErrUnsupportedFormat is returned for a format outside the enumeration.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
	// ErrUnresolvedPalette is returned when decoding a color-indexed format
	// without a palette.
	ErrUnresolvedPalette = errors.New("texture: no palette for color-indexed format")
	// ErrInvalidDimensions is returned for a negative width or height.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")
)

var formatNames = [numFormats]string{
	I1:     "I1",
	I4:     "I4",
	I8:     "I8",
	IA4:    "IA4",
	IA8:    "IA8",
	IA16:   "IA16",
	CI4:    "CI4",
	CI8:    "CI8",
	RGBA16: "RGBA16",
	RGBA32: "RGBA32",
}

// Other names the same formats are known by
var formatAliases = map[string]Format{
	"OneBPP": I1,
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	f := make([]Format, 0, numFormats)
	for i := Format(0); i < numFormats; i++ {
		f = append(f, i)
	}
	return f
}

// ParseFormat returns the format with the given name or alias, ignoring
// case.
func ParseFormat(s string) (Format, error) {
	for alias, f := range formatAliases {
		if strings.EqualFold(s, alias) {
			return f, nil
		}
	}
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f >= 0 && f < numFormats
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// BitsPerPixel returns the number of bits each texel occupies, or 0 if f is
// not valid.
func (f Format) BitsPerPixel() int {
	switch f {
	case I1:
		return 1
	case I4, IA4, CI4:
		return 4
	case I8, IA8, CI8:
		return 8
	case IA16, RGBA16:
		return 16
	case RGBA32:
		return 32
	default:
		return 0
	}
}

// BytesPerPixel returns the possibly fractional number of bytes per texel.
func (f Format) BytesPerPixel() float64 {
	return float64(f.BitsPerPixel()) / 8
}

// Size returns the number of bytes needed to hold a width by height image,
// with each row rounded up to a whole byte.
func (f Format) Size(width, height int) int {
	return f.Stride(width) * height
}

// Stride returns the number of bytes in one row of width pixels.
func (f Format) Stride(width int) int {
	return (width*f.BitsPerPixel() + 7) >> 3
}

// IsPalette reports whether f stores palette indices.
func (f Format) IsPalette() bool {
	return f == CI4 || f == CI8
}

// PaletteSize returns the number of palette entries a color-indexed format
// can address, or 0 for any other format.
func (f Format) PaletteSize() int {
	switch f {
	case CI4:
		return 1 << 4
	case CI8:
		return 1 << 8
	default:
		return 0
	}
}
