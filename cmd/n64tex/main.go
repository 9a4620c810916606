package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/n64tex"
	"github.com/bodgit/n64tex/texture"
	"github.com/bodgit/n64tex/window"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const defaultDB = "n64tex.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newN64Tex(c *cli.Context, withDB bool) (*n64tex.N64Tex, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	var db string
	if withDB {
		db = c.String("db")
	}

	return n64tex.New(db, logger)
}

func writeImage(path, kind string, m image.Image) (err error) {
	if kind == "" {
		kind = n64tex.TypeFromPath(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return n64tex.Save(f, m, kind)
}

// Composite over the background and scale up, as selected on the command line
func prepare(c *cli.Context, m *image.NRGBA) (image.Image, error) {
	var out image.Image = m
	if bg := c.String("background"); bg != "" {
		col, err := parseColor(bg)
		if err != nil {
			return nil, err
		}
		out = window.Composite(m, col)
	}
	return window.Scale(out, c.Int("scale")), nil
}

// The cached preview is a PNG of the decoded texture
func decodePreview(b []byte) (*image.NRGBA, error) {
	m, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode cached preview")
	}
	if nrgba, ok := m.(*image.NRGBA); ok {
		return nrgba, nil
	}
	r := m.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(nrgba, nrgba.Rect, m, r.Min, draw.Src)
	return nrgba, nil
}

func displayFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "enlarge the output by this factor",
		},
		&cli.StringFlag{
			Name:  "background",
			Usage: "composite over a solid RRGGBB[AA] color",
		},
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "output image type, guessed from the file name if not set",
	}
}

func decodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}

	w, err := windowFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
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

	out, err := prepare(c, m)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeImage(c.String("output"), c.String("type"), out); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func sweepAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}

	if c.String("output") == "" && c.String("gif") == "" {
		return cli.Exit("one of --output or --gif is required", 1)
	}

	w, err := windowFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	stride, err := parseInt(c.String("stride"))
	if err != nil {
		return cli.Exit(errors.Wrap(err, "stride"), 1)
	}

	f, err := n64tex.ReadBinFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	t, err := newN64Tex(c, false)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer t.Close()

	frames, err := t.Sweep(context.Background(), f, w, stride, c.Int("count"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	images := make([]image.Image, 0, len(frames))
	for _, frame := range frames {
		m, err := prepare(c, frame.Image)
		if err != nil {
			return cli.Exit(err, 1)
		}
		images = append(images, m)
	}

	if dir := c.String("output"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cli.Exit(err, 1)
		}
		for i, frame := range frames {
			name := filepath.Join(dir, fmt.Sprintf("%08X.%s", frame.Offset, c.String("type")))
			if err := writeImage(name, c.String("type"), images[i]); err != nil {
				return cli.Exit(err, 1)
			}
		}
	}

	if name := c.String("gif"); name != "" {
		g, err := os.Create(name)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer g.Close()

		// Frames composited over a background no longer use only TLUT colors
		var tlut texture.Palette
		if c.String("background") == "" {
			if tlut, err = f.Palette(w); err != nil {
				return cli.Exit(err, 1)
			}
		}

		if err := n64tex.EncodeGIF(g, images, c.Int("delay"), tlut); err != nil {
			return cli.Exit(err, 1)
		}
	}

	return nil
}

func bookmarkAddAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}

	w, err := windowFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	path, err := filepath.Abs(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	f, err := n64tex.ReadBinFile(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	t, err := newN64Tex(c, true)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer t.Close()

	if err := t.AddBookmark(f, c.Args().Get(1), w); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func bookmarkListAction(c *cli.Context) error {
	t, err := newN64Tex(c, true)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer t.Close()

	bookmarks, err := t.Bookmarks()
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, b := range bookmarks {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%dx%d\t%#x\t%s\n", b.Name, b.Window.Format, b.Window.Width, b.Window.Height, b.Window.Offset, b.Path)
	}

	return nil
}

func bookmarkExportAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}

	t, err := newN64Tex(c, true)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer t.Close()

	name := c.Args().Get(0)
	b, err := t.Bookmark(name)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if b == nil {
		return cli.Exit(fmt.Sprintf("no bookmark named %q", name), 1)
	}

	if c.Bool("cached") {
		preview, err := t.Preview(name)
		if err != nil {
			return cli.Exit(err, 1)
		}
		m, err := decodePreview(preview)
		if err != nil {
			return cli.Exit(err, 1)
		}
		out, err := prepare(c, m)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := writeImage(c.Args().Get(1), c.String("type"), out); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}

	// Decode again from the file so changes to the decoder are picked up
	f, err := n64tex.ReadBinFile(b.Path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if f.SHA1() != b.SHA1 {
		return cli.Exit(fmt.Sprintf("%s has changed since %q was bookmarked", b.Path, name), 1)
	}

	m, ok, err := f.Decode(b.Window)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("offset %#x is past the end of %s", b.Window.Offset, f.Path), 1)
	}

	out, err := prepare(c, m)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeImage(c.Args().Get(1), c.String("type"), out); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func bookmarkDeleteAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}

	t, err := newN64Tex(c, true)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer t.Close()

	if err := t.DeleteBookmark(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func newApp() (*cli.App, error) {
	app := cli.NewApp()

	app.Name = "n64tex"
	app.Usage = "N64 texture previewing utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"N64TEX_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to bookmark database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "formats",
			Usage: "List supported texture formats",
			Action: func(c *cli.Context) error {
				for _, f := range texture.Formats() {
					fmt.Fprintf(c.App.Writer, "%s\t%d bpp\n", f, f.BitsPerPixel())
				}
				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Decode a texture from a binary file",
			ArgsUsage: "FILE",
			Flags: append(append(windowFlags(), displayFlags()...),
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"O"},
					Usage:    "write the image to `FILE`",
					Required: true,
				},
				typeFlag(),
			),
			Action: decodeAction,
		},
		{
			Name:      "inspect",
			Usage:     "Show the color of a single pixel of a texture",
			ArgsUsage: "FILE",
			Flags:     inspectFlags(),
			Action:    inspectAction,
		},
		{
			Name:        "sweep",
			Usage:       "Decode a series of textures through a binary file",
			Description: "Each texture starts stride bytes after the last; the default stride is the size of one texture",
			ArgsUsage:   "FILE",
			Flags: append(append(windowFlags(), displayFlags()...),
				&cli.StringFlag{
					Name:  "stride",
					Value: "0",
					Usage: "bytes between each texture",
				},
				&cli.IntFlag{
					Name:  "count",
					Usage: "number of textures, 0 to sweep to the end of the file",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"O"},
					Usage:   "write each texture to `DIRECTORY`",
				},
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   "png",
					Usage:   "image type for --output",
				},
				&cli.StringFlag{
					Name:  "gif",
					Usage: "write an animated GIF to `FILE`",
				},
				&cli.IntFlag{
					Name:  "delay",
					Value: 10,
					Usage: "delay between GIF frames in 100ths of a second",
				},
			),
			Action: sweepAction,
		},
		{
			Name:  "bookmark",
			Usage: "Manage named texture locations",
			Subcommands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Bookmark a texture",
					ArgsUsage: "FILE NAME",
					Flags:     windowFlags(),
					Action:    bookmarkAddAction,
				},
				{
					Name:   "list",
					Usage:  "List bookmarks",
					Action: bookmarkListAction,
				},
				{
					Name:      "export",
					Usage:     "Write a bookmarked texture to an image",
					ArgsUsage: "NAME FILE",
					Flags: append(displayFlags(),
						&cli.BoolFlag{
							Name:  "cached",
							Usage: "write the PNG stored when bookmarked instead of decoding the file again",
						},
						typeFlag(),
					),
					Action: bookmarkExportAction,
				},
				{
					Name:      "delete",
					Usage:     "Remove a bookmark",
					ArgsUsage: "NAME",
					Action:    bookmarkDeleteAction,
				},
			},
		},
	}

	return app, nil
}

func main() {
	app, err := newApp()
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
