package main

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/bodgit/n64tex"
	"github.com/bodgit/n64tex/texture"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// Offsets are usually quoted in hex so accept a 0x prefix
func parseInt(s string) (int, error) {
	i, err := strconv.ParseInt(s, 0, 0)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}
	return int(i), nil
}

func parseColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return nil, errors.Errorf("invalid color %q, should be RRGGBB or RRGGBBAA", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, errors.Errorf("invalid color %q", s)
	}
	return texture.FromU32(uint32(v)).NRGBA(), nil
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    "texture format (" + formatList() + ")",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "width",
			Aliases:  []string{"W"},
			Usage:    "texture width in pixels",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "height",
			Aliases:  []string{"H"},
			Usage:    "texture height in pixels",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "offset",
			Aliases: []string{"o"},
			Value:   "0",
			Usage:   "byte offset of the texture",
		},
		&cli.StringFlag{
			Name:  "tlut",
			Value: "-1",
			Usage: "byte offset of the palette for CI4 and CI8 textures",
		},
	}
}

func formatList() string {
	var names []string
	for _, f := range texture.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func windowFromContext(c *cli.Context) (n64tex.Window, error) {
	var w n64tex.Window

	f, err := texture.ParseFormat(c.String("format"))
	if err != nil {
		return w, err
	}
	w.Format = f

	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"width", &w.Width},
		{"height", &w.Height},
		{"offset", &w.Offset},
		{"tlut", &w.TLUT},
	} {
		if *v.dst, err = parseInt(c.String(v.name)); err != nil {
			return w, errors.Wrap(err, v.name)
		}
	}

	if w.Width <= 0 || w.Height <= 0 {
		return w, errors.Errorf("invalid dimensions %dx%d", w.Width, w.Height)
	}

	return w, nil
}
