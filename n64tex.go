/*
Package n64tex is a library for previewing N64 textures stored in raw binary
files such as ROM images, where the format, size and location of each texture
is not recorded anywhere and has to be found by trial and error.
*/
package n64tex

import (
	"log"

	"github.com/pkg/errors"
)

var (
	errNoCatalog      = errors.New("no bookmark catalog")
	errNothingToDraw  = errors.New("offset is past the end of the file")
	errSweepCancelled = errors.New("sweep cancelled")
)

type N64Tex struct {
	catalog *Catalog
	logger  *log.Logger
}

// New returns a new N64Tex. If db is not empty the bookmark catalog at that
// path is opened, creating it if necessary.
func New(db string, logger *log.Logger) (*N64Tex, error) {
	t := &N64Tex{
		logger: logger,
	}

	if db != "" {
		c, err := NewCatalog(db)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open catalog")
		}
		t.catalog = c
	}

	return t, nil
}

// Close closes the bookmark catalog, if any.
func (t *N64Tex) Close() error {
	if t.catalog == nil {
		return nil
	}
	return t.catalog.Close()
}
