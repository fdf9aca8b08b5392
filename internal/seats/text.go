package seats

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/hyperifyio/seatwatch/internal/extract"
)

// DefaultWindowSize is the number of characters after the label searched for
// the seat marker. It spans the text of one listing card even when markup
// collapses into long runs, without reaching far into the next listings.
const DefaultWindowSize = 5000

// TextOptions configures a TextExtractor.
type TextOptions struct {
	Prefix     string
	Label      string
	Marker     string
	WindowSize int
}

// TextExtractor finds the seat count in flattened page text: it locates the
// label and reads the first "<marker> N" within a bounded window after it.
type TextExtractor struct {
	label  *regexp.Regexp
	count  *regexp.Regexp
	window int
}

func NewTextExtractor(o TextOptions) (*TextExtractor, error) {
	label, err := LabelPattern(o.Prefix, o.Label)
	if err != nil {
		return nil, err
	}
	count, err := countPattern(o.Marker)
	if err != nil {
		return nil, err
	}
	window := o.WindowSize
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &TextExtractor{label: label, count: count, window: window}, nil
}

func (e *TextExtractor) Name() string { return "text" }

// Extract uses the page text when present and otherwise flattens the HTML.
func (e *TextExtractor) Extract(p Page) Outcome {
	text := p.Text
	if text == "" && len(p.HTML) > 0 {
		text = extract.VisibleText(p.HTML)
	}
	return e.ExtractText(text)
}

// ExtractText runs the window search over raw page text.
func (e *TextExtractor) ExtractText(text string) Outcome {
	t := Normalize(text)
	loc := e.label.FindStringIndex(t)
	if loc == nil {
		return Missing(ReasonTargetNotFound, "")
	}
	window := runePrefix(t[loc[0]:], e.window)
	m := e.count.FindStringSubmatch(window)
	if m == nil {
		return Missing(ReasonCountNotFound, "")
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Missing(ReasonCountUnparseable, m[1])
	}
	return Found(n)
}

// runePrefix returns at most n runes from the start of s.
func runePrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for count := 0; i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
