package seats

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Normalize folds full-width forms (e.g. "０１０６") to their narrow
// equivalents, collapses whitespace runs to a single space and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(width.Fold.String(s)), " ")
}

// ParseCount keeps only the decimal digits of s and parses them as a base-10
// integer, so "3석" and "残り 3 席" both yield 3. It fails when no digit is
// left or the value overflows an int.
func ParseCount(s string) (int, bool) {
	var b strings.Builder
	for _, r := range width.Fold.String(s) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// ErrEmptyLabel is returned when no target label is configured.
var ErrEmptyLabel = errors.New("target label is empty")

// LabelPattern compiles the case-insensitive pattern that locates a target.
// The prefix words (e.g. "Bus No") may be separated by any amount of
// whitespace and may be followed by one punctuation mark, so "Bus No. 0106",
// "Bus No 0106" and "BusNo0106" all match. The label itself must match
// exactly and may not run into further letters or digits.
func LabelPattern(prefix, label string) (*regexp.Regexp, error) {
	label = Normalize(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	var b strings.Builder
	b.WriteString("(?i)")
	words := strings.Fields(Normalize(prefix))
	if len(words) > 0 {
		for i, w := range words {
			if i > 0 {
				b.WriteString(`\s*`)
			}
			b.WriteString(regexp.QuoteMeta(w))
		}
		b.WriteString(`\s*[.:#]?\s*`)
	} else if isWordByte(label[0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(label))
	if isWordByte(label[len(label)-1]) {
		b.WriteString(`\b`)
	}
	return regexp.Compile(b.String())
}

// countPattern matches "<marker> N" and captures N.
func countPattern(marker string) (*regexp.Regexp, error) {
	marker = Normalize(marker)
	if marker == "" {
		return nil, errors.New("count marker is empty")
	}
	return regexp.Compile(regexp.QuoteMeta(marker) + `\s*(\d+)`)
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
