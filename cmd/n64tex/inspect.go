package main

import (
	"fmt"
	"image"
	"io"

	"github.com/bodgit/n64tex"
	"github.com/bodgit/n64tex/texture"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// Write the file size and the color of one pixel of m
func describePixel(w io.Writer, f *n64tex.BinFile, m *image.NRGBA, x, y int) error {
	if !(image.Point{x, y}).In(m.Bounds()) {
		return errors.Errorf("pixel %d,%d is outside the %dx%d texture", x, y, m.Bounds().Dx(), m.Bounds().Dy())
	}

	p := m.NRGBAAt(x, y)
	c := texture.RGBA(p.R, p.G, p.B, p.A)

	fmt.Fprintf(w, "File size: 0x%X\n", len(f.Data))
	fmt.Fprintf(w, "Pixel: %d,%d\n", x, y)
	fmt.Fprintf(w, "Hex: #%08X\n", c.U32())
	fmt.Fprintf(w, "R: %d\n", c.R)
	fmt.Fprintf(w, "G: %d\n", c.G)
	fmt.Fprintf(w, "B: %d\n", c.B)
	fmt.Fprintf(w, "A: %d\n", c.A)

	return nil
}

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}

	w, err := windowFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	x, err := parseInt(c.String("x"))
	if err != nil {
		return cli.Exit(errors.Wrap(err, "x"), 1)
	}
	y, err := parseInt(c.String("y"))
	if err != nil {
		return cli.Exit(errors.Wrap(err, "y"), 1)
	}

	f, err := n64tex.ReadBinFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, ok, err := f.Decode(w)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("offset %#x is past the end of %s", w.Offset, f.Path), 1)
	}

	if err := describePixel(c.App.Writer, f, m, x, y); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func inspectFlags() []cli.Flag {
	return append(windowFlags(),
		&cli.StringFlag{
			Name:  "x",
			Value: "0",
			Usage: "column of the pixel to show",
		},
		&cli.StringFlag{
			Name:  "y",
			Value: "0",
			Usage: "row of the pixel to show",
		},
	)
}
