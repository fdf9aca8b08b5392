package source

import (
	"context"
	"errors"

	"github.com/hyperifyio/seatwatch/internal/seats"
)

// Source acquires the page to inspect. It is called once per run; any error
// it returns is a hard failure of that run.
type Source interface {
	Fetch(ctx context.Context) (seats.Page, error)
	Name() string
}

// ErrEmptyPage is returned when a source yields no content at all.
var ErrEmptyPage = errors.New("empty page")
