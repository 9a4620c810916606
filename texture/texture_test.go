package texture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats(t *testing.T) {
	formats := Formats()
	assert.Equal(t, []Format{I1, I4, I8, IA4, IA8, IA16, CI4, CI8, RGBA16, RGBA32}, formats)

	for _, f := range formats {
		assert.True(t, f.Valid())
	}
	assert.False(t, Format(-1).Valid())
	assert.False(t, numFormats.Valid())
}

func TestFormatString(t *testing.T) {
	names := []string{"I1", "I4", "I8", "IA4", "IA8", "IA16", "CI4", "CI8", "RGBA16", "RGBA32"}
	for i, f := range Formats() {
		assert.Equal(t, names[i], f.String())
	}
	assert.Equal(t, "Format(99)", Format(99).String())
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	f, err := ParseFormat("rgba16")
	require.NoError(t, err)
	assert.Equal(t, RGBA16, f)

	f, err = ParseFormat("OneBPP")
	require.NoError(t, err)
	assert.Equal(t, I1, f)

	f, err = ParseFormat("onebpp")
	require.NoError(t, err)
	assert.Equal(t, I1, f)

	for _, s := range []string{"IA32", "TwoBPP", ""} {
		_, err := ParseFormat(s)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), s)
	}
}

func TestBitsPerPixel(t *testing.T) {
	tables := []struct {
		format Format
		bits   int
		bytes  float64
	}{
		{I1, 1, 0.125},
		{I4, 4, 0.5},
		{I8, 8, 1},
		{IA4, 4, 0.5},
		{IA8, 8, 1},
		{IA16, 16, 2},
		{CI4, 4, 0.5},
		{CI8, 8, 1},
		{RGBA16, 16, 2},
		{RGBA32, 32, 4},
		{Format(99), 0, 0},
	}

	for _, table := range tables {
		assert.Equal(t, table.bits, table.format.BitsPerPixel(), table.format.String())
		assert.Equal(t, table.bytes, table.format.BytesPerPixel(), table.format.String())
	}
}

func TestSize(t *testing.T) {
	assert.Equal(t, 0, I8.Size(0, 0))
	assert.Equal(t, 1, I1.Size(3, 1))
	assert.Equal(t, 2, I4.Size(3, 1))
	assert.Equal(t, 4, I4.Size(3, 2))
	assert.Equal(t, 2, I1.Size(3, 2))
	assert.Equal(t, 6, I1.Size(9, 3))
	assert.Equal(t, 2, I4.Stride(3))
	assert.Equal(t, 32*32*2, RGBA16.Size(32, 32))
	assert.Equal(t, 64*4, RGBA32.Size(8, 8))
}

func TestPaletteSize(t *testing.T) {
	assert.Equal(t, 16, CI4.PaletteSize())
	assert.Equal(t, 256, CI8.PaletteSize())
	assert.Equal(t, 0, RGBA16.PaletteSize())
	assert.True(t, CI4.IsPalette())
	assert.True(t, CI8.IsPalette())
	assert.False(t, I4.IsPalette())
}
