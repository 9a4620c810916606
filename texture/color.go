package texture

import "image/color"

// Color is a non-premultiplied 8-bit per channel color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 0xff}
	White       = Color{0xff, 0xff, 0xff, 0xff}
)

// RGBA returns a color from its four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 0xff}
}

// FromU32 unpacks a color stored as 0xRRGGBBAA.
func FromU32(p uint32) Color {
	return Color{
		uint8(p >> 24),
		uint8(p >> 16),
		uint8(p >> 8),
		uint8(p),
	}
}

// U32 packs c as 0xRRGGBBAA.
func (c Color) U32() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func expand5(v uint16) uint8 {
	return uint8(v<<3 | v>>2)
}

// FromU16 unpacks a color stored as RRRRRGGGGGBBBBBA, replicating the top
// bits of each channel into the low bits.
func FromU16(p uint16) Color {
	return Color{
		expand5(p >> 11 & 0x1f),
		expand5(p >> 6 & 0x1f),
		expand5(p >> 1 & 0x1f),
		uint8(p&0x01) * 0xff,
	}
}

// U16 packs c as RRRRRGGGGGBBBBBA. Only a fully opaque color keeps its alpha
// bit. Packing is lossy; FromU16(c.U16()) only equals c when every channel
// was itself expanded from 5 bits.
func (c Color) U16() uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>3)<<6 | uint16(c.B>>3)<<1 | uint16(c.A/0xff)
}

// NRGBA converts c to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
