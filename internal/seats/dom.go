package seats

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/hyperifyio/seatwatch/internal/extract"
)

const (
	DefaultLabelSelector = "*"
	DefaultCountSelector = "[data-seat-count], .seat-count, .vacancy"
)

// DOMOptions configures a DOMExtractor.
type DOMOptions struct {
	Prefix string
	Label  string
	// LabelSelector narrows the elements that may carry the label.
	LabelSelector string
	// CountSelector marks the element holding the seat count.
	CountSelector string
	// ContainerSelector, when set, names the listing element (card, row)
	// explicitly. When empty the container is the nearest ancestor that
	// contains a count element.
	ContainerSelector string
}

// DOMExtractor finds the seat count by structural proximity: the count
// element must live in the same listing container as the label.
type DOMExtractor struct {
	label     *regexp.Regexp
	labelSel  cascadia.Selector
	countSel  cascadia.Selector
	container cascadia.Selector
}

func NewDOMExtractor(o DOMOptions) (*DOMExtractor, error) {
	label, err := LabelPattern(o.Prefix, o.Label)
	if err != nil {
		return nil, err
	}
	e := &DOMExtractor{label: label}
	if e.labelSel, err = compileSelector("label", o.LabelSelector, DefaultLabelSelector); err != nil {
		return nil, err
	}
	if e.countSel, err = compileSelector("count", o.CountSelector, DefaultCountSelector); err != nil {
		return nil, err
	}
	if strings.TrimSpace(o.ContainerSelector) != "" {
		if e.container, err = compileSelector("container", o.ContainerSelector, ""); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func compileSelector(kind, sel, def string) (cascadia.Selector, error) {
	if strings.TrimSpace(sel) == "" {
		sel = def
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%s selector %q: %w", kind, sel, err)
	}
	return s, nil
}

func (e *DOMExtractor) Name() string { return "dom" }

// Extract parses the page HTML. Pages that only carry text have no structure
// to search, so the target is reported as not found.
func (e *DOMExtractor) Extract(p Page) Outcome {
	if len(p.HTML) == 0 {
		return Missing(ReasonTargetNotFound, "")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.HTML))
	if err != nil {
		return Missing(ReasonTargetNotFound, err.Error())
	}
	return e.ExtractDocument(doc)
}

// ExtractDocument searches the rendered part of an already parsed document:
// only <body> is searched, and script, style and hidden elements are
// removed from doc first.
func (e *DOMExtractor) ExtractDocument(doc *goquery.Document) Outcome {
	doc.Find("script, style, noscript, template, iframe").Remove()
	doc.Find("body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return extract.IsHidden(s.Get(0))
	}).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		return Missing(ReasonTargetNotFound, "")
	}
	label := e.findLabel(root)
	if label == nil {
		return Missing(ReasonTargetNotFound, "")
	}
	container := e.findContainer(label)
	if container == nil {
		return Missing(ReasonContainerNotFound, "")
	}
	count := container.FindMatcher(e.countSel).First()
	if count.Length() == 0 {
		return Missing(ReasonCountElementNotFound, "")
	}
	text := Normalize(count.Text())
	n, ok := ParseCount(text)
	if !ok {
		return Missing(ReasonCountUnparseable, fmt.Sprintf("%q", text))
	}
	return Found(n)
}

// findLabel returns the first element, in document order, whose text matches
// the label while none of its element children does. That is the innermost
// element carrying the label, even when the label is split over several
// inline children.
func (e *DOMExtractor) findLabel(root *goquery.Selection) *goquery.Selection {
	matches := func(s *goquery.Selection) bool {
		return e.label.MatchString(Normalize(s.Text()))
	}
	var found *goquery.Selection
	candidates := root.FindMatcher(e.labelSel).AddSelection(root.FilterMatcher(e.labelSel))
	candidates.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !matches(s) {
			return true
		}
		inner := s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
			return matches(c)
		})
		if inner.Length() > 0 {
			return true
		}
		found = s
		return false
	})
	return found
}

// findContainer walks from the label element upward, itself included, and
// returns the nearest enclosing listing element.
func (e *DOMExtractor) findContainer(label *goquery.Selection) *goquery.Selection {
	for cur := label; cur.Length() > 0; cur = cur.Parent() {
		if e.container != nil {
			if cur.IsMatcher(e.container) {
				return cur
			}
			continue
		}
		if cur.FindMatcher(e.countSel).Length() > 0 {
			return cur
		}
	}
	return nil
}
