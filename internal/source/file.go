package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/seatwatch/internal/seats"
)

// FileSource reads a page that something else already fetched or rendered,
// e.g. a headless browser dumping document.body.innerText or the outer HTML.
// Path "-" reads standard input. Files ending in .txt are taken as flattened
// text, anything else as HTML. URL is only reported, never requested.
type FileSource struct {
	Path  string
	URL   string
	Stdin io.Reader
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Fetch(_ context.Context) (seats.Page, error) {
	if strings.TrimSpace(f.Path) == "" {
		return seats.Page{}, errors.New("file source path is empty")
	}
	var (
		b   []byte
		err error
	)
	if f.Path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		b, err = io.ReadAll(in)
	} else {
		b, err = os.ReadFile(f.Path)
	}
	if err != nil {
		return seats.Page{}, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return seats.Page{}, ErrEmptyPage
	}
	page := seats.Page{URL: f.URL}
	if strings.EqualFold(filepath.Ext(f.Path), ".txt") {
		page.Text = string(b)
	} else {
		page.HTML = b
	}
	return page, nil
}
