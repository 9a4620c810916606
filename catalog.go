package n64tex

import (
	"bytes"
	"database/sql"
	"fmt"

	"github.com/bodgit/n64tex/texture"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Bookmark is a named texture location.
type Bookmark struct {
	Name   string
	Path   string
	SHA1   string
	Window Window
}

// Catalog is a sqlite database of bookmarks, each with a PNG preview of the
// texture as it was when bookmarked.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS file (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, path TEXT NOT NULL, size INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bookmark (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, file_id INTEGER NOT NULL, format TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, byte_offset INTEGER NOT NULL, tlut INTEGER NOT NULL, preview BLOB NOT NULL, FOREIGN KEY(file_id) REFERENCES file(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func addFile(tx *sql.Tx, f *BinFile) (int64, error) {
	sha := f.SHA1()

	var id int64
	switch err := tx.QueryRow("SELECT id FROM file WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO file (sha1, path, size) VALUES (?, ?, ?)", sha, f.Path, len(f.Data))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		// Same contents, possibly moved
		if _, err := tx.Exec("UPDATE file SET path = ? WHERE id = ?", f.Path, id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// Remove any file no longer referenced by a bookmark
func pruneFiles(tx *sql.Tx) error {
	_, err := tx.Exec("DELETE FROM file WHERE id NOT IN (SELECT file_id FROM bookmark)")
	return err
}

// Run fn inside a transaction, rolling back if it fails
func (c *Catalog) update(fn func(*sql.Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rerr)
		}
		return err
	}

	return tx.Commit()
}

// Add stores a bookmark for w in f, replacing any existing bookmark with the
// same name. Nothing is changed if any part of it fails.
func (c *Catalog) Add(f *BinFile, name string, w Window, preview []byte) error {
	return c.update(func(tx *sql.Tx) error {
		file, err := addFile(tx, f)
		if err != nil {
			return err
		}

		if _, err := tx.Exec("INSERT OR REPLACE INTO bookmark (name, file_id, format, width, height, byte_offset, tlut, preview) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", name, file, w.Format.String(), w.Width, w.Height, w.Offset, w.TLUT, preview); err != nil {
			return err
		}

		// The replaced bookmark may have been the last one using its file
		return pruneFiles(tx)
	})
}

type scanner interface {
	Scan(...interface{}) error
}

func scanBookmark(s scanner) (*Bookmark, error) {
	var b Bookmark
	var format string
	if err := s.Scan(&b.Name, &b.Path, &b.SHA1, &format, &b.Window.Width, &b.Window.Height, &b.Window.Offset, &b.Window.TLUT); err != nil {
		return nil, err
	}

	var err error
	if b.Window.Format, err = texture.ParseFormat(format); err != nil {
		return nil, errors.Wrapf(err, "bookmark %q", b.Name)
	}

	return &b, nil
}

const selectBookmark = "SELECT b.name, f.path, f.sha1, b.format, b.width, b.height, b.byte_offset, b.tlut FROM bookmark AS b JOIN file AS f ON b.file_id = f.id"

// Find returns the named bookmark, or nil if there isn't one.
func (c *Catalog) Find(name string) (*Bookmark, error) {
	b, err := scanBookmark(c.db.QueryRow(selectBookmark+" WHERE b.name = ?", name))
	switch errors.Cause(err) {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return b, nil
	default:
		return nil, err
	}
}

// List returns every bookmark ordered by name.
func (c *Catalog) List() ([]Bookmark, error) {
	rows, err := c.db.Query(selectBookmark + " ORDER BY b.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *b)
	}

	return bookmarks, rows.Err()
}

// Preview returns the PNG preview stored with the named bookmark, or nil if
// there isn't one.
func (c *Catalog) Preview(name string) ([]byte, error) {
	var preview []byte
	switch err := c.db.QueryRow("SELECT preview FROM bookmark WHERE name = ?", name).Scan(&preview); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return preview, nil
	default:
		return nil, err
	}
}

// Delete removes the named bookmark. Removing a missing bookmark is not an
// error.
func (c *Catalog) Delete(name string) error {
	return c.update(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM bookmark WHERE name = ?", name); err != nil {
			return err
		}
		return pruneFiles(tx)
	})
}

// AddBookmark decodes w from f and stores it in the catalog under name along
// with a PNG preview.
func (t *N64Tex) AddBookmark(f *BinFile, name string, w Window) error {
	if t.catalog == nil {
		return errNoCatalog
	}

	m, ok, err := f.Decode(w)
	if err != nil {
		return err
	}
	if !ok {
		return errNothingToDraw
	}

	b := new(bytes.Buffer)
	if err := Save(b, m, "png"); err != nil {
		return err
	}

	if err := t.catalog.Add(f, name, w, b.Bytes()); err != nil {
		return errors.Wrapf(err, "unable to add bookmark %q", name)
	}

	t.logger.Printf("Bookmarked %q as %s %dx%d at %#x\n", name, w.Format, w.Width, w.Height, w.Offset)

	return nil
}

// Bookmarks returns every bookmark in the catalog.
func (t *N64Tex) Bookmarks() ([]Bookmark, error) {
	if t.catalog == nil {
		return nil, errNoCatalog
	}
	return t.catalog.List()
}

// Bookmark returns the named bookmark, or nil if there isn't one.
func (t *N64Tex) Bookmark(name string) (*Bookmark, error) {
	if t.catalog == nil {
		return nil, errNoCatalog
	}
	return t.catalog.Find(name)
}

// Preview returns the stored PNG preview of the named bookmark, or nil if
// there isn't one.
func (t *N64Tex) Preview(name string) ([]byte, error) {
	if t.catalog == nil {
		return nil, errNoCatalog
	}
	return t.catalog.Preview(name)
}

// DeleteBookmark removes the named bookmark.
func (t *N64Tex) DeleteBookmark(name string) error {
	if t.catalog == nil {
		return errNoCatalog
	}
	return t.catalog.Delete(name)
}
