package seats

import (
	"fmt"
	"strings"
)

// Extractor finds the seat count of the configured target in a page.
// Implementations never fail: every problem is reported through the Outcome.
type Extractor interface {
	Name() string
	Extract(p Page) Outcome
}

// Chain tries each extractor in order and returns the first found count.
// When none succeeds it returns the most specific failure: the first reason
// other than target-not-found, or target-not-found when every extractor
// failed to locate the target.
type Chain []Extractor

func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, e := range c {
		names = append(names, e.Name())
	}
	return strings.Join(names, "+")
}

func (c Chain) Extract(p Page) Outcome {
	best := Missing(ReasonTargetNotFound, "")
	for _, e := range c {
		o := e.Extract(p)
		if o.Found {
			return o
		}
		if best.Reason == ReasonTargetNotFound && o.Reason != ReasonTargetNotFound {
			best = o
		}
	}
	return best
}

// Strategy names an extractor selection.
type Strategy string

const (
	StrategyText Strategy = "text"
	StrategyDOM  Strategy = "dom"
	StrategyAuto Strategy = "auto"
)

// Options bundles everything needed to build any strategy.
type Options struct {
	Text TextOptions
	DOM  DOMOptions
}

// New builds the extractor for a strategy. The auto strategy tries the
// structural search first and falls back to the text window.
func New(s Strategy, o Options) (Extractor, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(string(s)))) {
	case StrategyText, "":
		return NewTextExtractor(o.Text)
	case StrategyDOM:
		return NewDOMExtractor(o.DOM)
	case StrategyAuto:
		d, err := NewDOMExtractor(o.DOM)
		if err != nil {
			return nil, err
		}
		t, err := NewTextExtractor(o.Text)
		if err != nil {
			return nil, err
		}
		return Chain{d, t}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want text, dom or auto)", s)
	}
}
