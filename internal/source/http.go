package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/seatwatch/internal/fetch"
	"github.com/hyperifyio/seatwatch/internal/seats"
)

// HTTPSource fetches a static HTML page over HTTP(S). Bodies in legacy
// encodings such as EUC-KR or Shift_JIS are transcoded to UTF-8 using the
// Content-Type charset or the page's meta declaration.
type HTTPSource struct {
	URL    string
	Client *fetch.Client
}

func (h *HTTPSource) Name() string { return "http" }

func (h *HTTPSource) Fetch(ctx context.Context) (seats.Page, error) {
	if h.Client == nil {
		return seats.Page{}, errors.New("http source has no client")
	}
	body, contentType, err := h.Client.Get(ctx, h.URL)
	if err != nil {
		return seats.Page{}, fmt.Errorf("get %s: %w", h.URL, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return seats.Page{}, ErrEmptyPage
	}
	body, err = toUTF8(body, contentType)
	if err != nil {
		return seats.Page{}, fmt.Errorf("decode %s: %w", h.URL, err)
	}
	return seats.Page{URL: h.URL, HTML: body}, nil
}

func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
