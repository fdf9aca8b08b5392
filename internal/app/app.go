package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/seatwatch/internal/fetch"
	"github.com/hyperifyio/seatwatch/internal/seats"
	"github.com/hyperifyio/seatwatch/internal/source"
)

// ErrFetchFailed marks a hard failure: the page could not be acquired. The
// CLI maps it to a nonzero exit so the scheduler can alert or retry. Soft
// outcomes (target or count missing) are reported in the Result only.
var ErrFetchFailed = errors.New("fetch failed")

type App struct {
	cfg       Config
	check     seats.Check
	source    source.Source
	extractor seats.Extractor
	now       func() time.Time
}

// New validates cfg and wires the page source and extractor. It performs no
// I/O.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	absent, _ := seats.ParseAbsentPolicy(cfg.Absent)
	ex, err := seats.New(seats.Strategy(cfg.Strategy), extractorOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	return &App{
		cfg: cfg,
		check: seats.Check{
			Target:    cfg.Target,
			Threshold: cfg.Threshold,
			URL:       cfg.URL,
			Absent:    absent,
		},
		source:    newSource(cfg),
		extractor: ex,
		now:       time.Now,
	}, nil
}

func extractorOptions(cfg Config) seats.Options {
	return seats.Options{
		Text: seats.TextOptions{
			Prefix:     cfg.TargetPrefix,
			Label:      cfg.Target,
			Marker:     cfg.Marker,
			WindowSize: cfg.WindowSize,
		},
		DOM: seats.DOMOptions{
			Prefix:            cfg.TargetPrefix,
			Label:             cfg.Target,
			LabelSelector:     cfg.LabelSelector,
			CountSelector:     cfg.CountSelector,
			ContainerSelector: cfg.ContainerSelector,
		},
	}
}

func newSource(cfg Config) source.Source {
	if strings.TrimSpace(cfg.SourceFile) != "" {
		return &source.FileSource{Path: cfg.SourceFile, URL: cfg.URL}
	}
	return &source.HTTPSource{
		URL: cfg.URL,
		Client: &fetch.Client{
			HTTPClient:        newHTTPClient(cfg.Timeout),
			UserAgent:         cfg.UserAgent,
			AcceptLanguage:    cfg.AcceptLanguage,
			PerRequestTimeout: cfg.Timeout,
			RedirectMaxHops:   5,
		},
	}
}

// Run performs one check: a single page acquisition followed by extraction.
// It always returns a Result; the error is non-nil only for hard failures
// and then wraps ErrFetchFailed.
func (a *App) Run(ctx context.Context) (seats.Result, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	start := a.now()
	page, err := a.source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", a.source.Name()).Str("url", a.cfg.URL).Msg("page acquisition failed")
		return seats.Failure(a.check, err, a.now()), fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	log.Debug().
		Str("source", a.source.Name()).
		Int("html_bytes", len(page.HTML)).
		Int("text_chars", len(page.Text)).
		Dur("elapsed", a.now().Sub(start)).
		Msg("page acquired")

	outcome := a.extractor.Extract(page)
	result := seats.Evaluate(a.check, outcome, a.now())

	ev := log.Info()
	if !result.OK {
		ev = log.Warn()
	}
	ev = ev.Str("strategy", a.extractor.Name()).Str("target", a.check.Target).Int("threshold", a.check.Threshold)
	if n, ok := result.Seats(); ok {
		ev = ev.Int("seats", n)
	}
	if outcome.Reason != seats.ReasonNone {
		ev = ev.Str("reason", string(outcome.Reason))
	}
	ev.Bool("meets_threshold", result.MeetsThreshold).Msg("seat check complete")
	return result, nil
}

// Format returns the configured result format.
func (a *App) Format() seats.Format {
	f, _ := seats.ParseFormat(a.cfg.Format)
	return f
}
