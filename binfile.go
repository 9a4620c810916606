package n64tex

import (
	"crypto/sha1"
	"fmt"
	"image"
	"os"

	"github.com/bodgit/n64tex/texture"
	"github.com/bodgit/n64tex/window"
	"github.com/pkg/errors"
)

// BinFile is a binary file held in memory.
type BinFile struct {
	Path string
	Data []byte
}

// ReadBinFile reads the whole of the file at path.
func ReadBinFile(path string) (*BinFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return &BinFile{
		Path: path,
		Data: b,
	}, nil
}

// SHA1 returns the hex encoded SHA-1 of the file contents.
func (f *BinFile) SHA1() string {
	return fmt.Sprintf("%X", sha1.Sum(f.Data))
}

// Window describes where a texture lives in a file and how it is encoded.
type Window struct {
	Format texture.Format
	Width  int
	Height int
	Offset int
	// TLUT is the offset of the palette used by CI4 and CI8 textures, or
	// negative if there isn't one
	TLUT int
}

// Palette reads the TLUT for a CI4 or CI8 window. It returns nil for any
// other format or if w has no TLUT.
func (f *BinFile) Palette(w Window) (texture.Palette, error) {
	if !w.Format.IsPalette() || w.TLUT < 0 {
		return nil, nil
	}
	if w.TLUT >= len(f.Data) {
		return nil, errors.Errorf("palette offset %#x is past the end of the file", w.TLUT)
	}
	p, err := texture.ReadPalette(f.Data[w.TLUT:], w.Format.PaletteSize())
	if err != nil {
		return nil, errors.Wrapf(err, "palette at %#x", w.TLUT)
	}
	return p, nil
}

// Decode decodes the texture described by w. If the window starts past the
// end of the file there is nothing to draw and ok is false.
func (f *BinFile) Decode(w Window) (m *image.NRGBA, ok bool, err error) {
	var opts []texture.Option

	p, err := f.Palette(w)
	if err != nil {
		return nil, false, err
	}
	if p != nil {
		opts = append(opts, texture.WithPalette(p))
	}

	m, ok, err = window.Decode(f.Data, w.Offset, w.Format, w.Width, w.Height, opts...)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decode %s at %#x", w.Format, w.Offset)
	}

	return m, ok, nil
}
