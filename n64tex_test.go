package n64tex

import (
	"context"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/n64tex/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(t *testing.T, db string) *N64Tex {
	n, err := New(db, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, n.Close())
	})
	return n
}

func writeFile(t *testing.T, b []byte) string {
	path := filepath.Join(t.TempDir(), "rom.bin")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestReadBinFile(t *testing.T) {
	path := writeFile(t, []byte("Hello there!"))

	f, err := ReadBinFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, []byte("Hello there!"), f.Data)
	assert.Equal(t, "6B19CB3790B6DA8F7C34B4D8895D78A56D078624", f.SHA1())

	_, err = ReadBinFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestBinFileDecode(t *testing.T) {
	f := &BinFile{Data: []byte{0x00, 0x10, 0x20, 0x30, 0x40}}

	m, ok, err := f.Decode(Window{Format: texture.I8, Width: 2, Height: 1, Offset: 3, TLUT: -1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{0x30, 0x30, 0x30, 0xff}, m.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0x40, 0x40, 0x40, 0xff}, m.NRGBAAt(1, 0))

	_, ok, err = f.Decode(Window{Format: texture.I8, Width: 2, Height: 1, Offset: 5, TLUT: -1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBinFileDecodePalette(t *testing.T) {
	data := make([]byte, 1+32)
	data[0] = 0x01
	// Palette entry 1 is opaque red
	data[1+2], data[1+3] = 0xf8, 0x01

	f := &BinFile{Data: data}

	m, ok, err := f.Decode(Window{Format: texture.CI4, Width: 2, Height: 1, TLUT: 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{0xff, 0x00, 0x00, 0xff}, m.NRGBAAt(1, 0))

	_, _, err = f.Decode(Window{Format: texture.CI4, Width: 2, Height: 1, TLUT: -1})
	assert.ErrorIs(t, err, texture.ErrUnresolvedPalette)

	_, _, err = f.Decode(Window{Format: texture.CI8, Width: 2, Height: 1, TLUT: 1})
	assert.ErrorIs(t, err, texture.ErrBadPalette)

	_, _, err = f.Decode(Window{Format: texture.CI4, Width: 2, Height: 1, TLUT: 100})
	assert.Error(t, err)
}

func TestSweep(t *testing.T) {
	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i)
	}
	f := &BinFile{Data: data}
	n := newTest(t, "")

	frames, err := n.Sweep(context.Background(), f, Window{Format: texture.I8, Width: 2, Height: 2, TLUT: -1}, 0, 0)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for i, frame := range frames {
		assert.Equal(t, i*4, frame.Offset)
		assert.Equal(t, color.NRGBA{byte(i * 4), byte(i * 4), byte(i * 4), 0xff}, frame.Image.NRGBAAt(0, 0))
	}
	// Last frame is short
	assert.Equal(t, color.NRGBA{}, frames[2].Image.NRGBAAt(0, 1))

	frames, err = n.Sweep(context.Background(), f, Window{Format: texture.I8, Width: 1, Height: 1, Offset: 7, TLUT: -1}, 1, 5)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []int{7, 8, 9}, []int{frames[0].Offset, frames[1].Offset, frames[2].Offset})
}

func TestSweepError(t *testing.T) {
	n := newTest(t, "")
	f := &BinFile{Data: make([]byte, 64)}

	_, err := n.Sweep(context.Background(), f, Window{Format: texture.CI8, Width: 4, Height: 4, TLUT: -1}, 1, 8)
	assert.ErrorIs(t, err, texture.ErrUnresolvedPalette)
}

func TestSweepCancelled(t *testing.T) {
	n := newTest(t, "")
	f := &BinFile{Data: make([]byte, 64)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := n.Sweep(ctx, f, Window{Format: texture.I8, Width: 1, Height: 1, TLUT: -1}, 1, 64)
	assert.Equal(t, errSweepCancelled, err)
	assert.EqualError(t, err, "sweep cancelled")
	assert.Nil(t, frames)
}

func TestFindOffsetsCancelled(t *testing.T) {
	n := newTest(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, errc, err := n.findOffsets(ctx, 8)
	require.NoError(t, err)

	// The producer blocks on the next send until the context is cancelled
	assert.Equal(t, 0, <-out)
	assert.Equal(t, 1, <-out)
	cancel()

	assert.Equal(t, errSweepCancelled, <-errc)
	for range out {
	}
}
