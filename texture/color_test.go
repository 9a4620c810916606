package texture

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorConstructors(t *testing.T) {
	assert.Equal(t, Color{255, 128, 64, 255}, RGBA(255, 128, 64, 255))
	assert.Equal(t, Color{42, 96, 240, 255}, RGB(42, 96, 240))
	assert.Equal(t, Color{0, 0, 0, 255}, Black)
	assert.Equal(t, Color{255, 255, 255, 255}, White)
	assert.Equal(t, Color{}, Transparent)
}

func TestFromU32(t *testing.T) {
	tables := []struct {
		pixel uint32
		want  Color
	}{
		{0xff0000ff, Color{0xff, 0, 0, 0xff}},
		{0x00ff0080, Color{0, 0xff, 0, 0x80}},
		{0x00000000, Color{0, 0, 0, 0}},
		{0x12345678, Color{0x12, 0x34, 0x56, 0x78}},
	}

	for _, table := range tables {
		c := FromU32(table.pixel)
		assert.Equal(t, table.want, c)
		assert.Equal(t, table.pixel, c.U32())
	}
}

func TestFromU16(t *testing.T) {
	tables := []struct {
		pixel uint16
		want  Color
	}{
		{0x0000, Color{0, 0, 0, 0}},
		{0xffff, Color{0xff, 0xff, 0xff, 0xff}},
		{0xf801, Color{0xff, 0, 0, 0xff}},
		{0x07c0, Color{0, 0xff, 0, 0}},
		{0x003e, Color{0, 0, 0xff, 0}},
		{0xa800, Color{0xad, 0, 0, 0}},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, FromU16(table.pixel), "%#04x", table.pixel)
	}
}

func TestU16RoundTrip(t *testing.T) {
	// Every 5-5-5-1 value survives expansion and compression
	for v := 0; v <= 0xffff; v++ {
		require.Equal(t, uint16(v), FromU16(uint16(v)).U16(), "%#04x", v)
	}

	assert.Equal(t, uint8(0xad), expand5(0x15))
	assert.Equal(t, uint16(0x15), uint16(0xad>>3))
}

func TestU16Lossy(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x80)
	assert.NotEqual(t, c, FromU16(c.U16()))
	assert.Equal(t, uint8(0), FromU16(c.U16()).A)
}

func TestNRGBA(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, RGBA(1, 2, 3, 4).NRGBA())
}
