package seats

import (
	"fmt"
	"strings"
	"time"
)

// Reason identifies why an extractor could not produce a seat count.
// The string value doubles as the diagnostic note in a Result.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonTargetNotFound       Reason = "target not found"
	ReasonContainerNotFound    Reason = "container not found"
	ReasonCountElementNotFound Reason = "count element not found"
	ReasonCountNotFound        Reason = "count not found"
	ReasonCountUnparseable     Reason = "count unparseable"
	ReasonFetchFailed          Reason = "fetch failed"
)

// Outcome is what an extractor reports for a single page, before the
// threshold and the absent-target policy are applied.
type Outcome struct {
	Found  bool
	Seats  int
	Reason Reason
	// Detail carries optional context, e.g. the text that failed to parse.
	Detail string
}

// Found reports a successfully extracted seat count.
func Found(n int) Outcome {
	return Outcome{Found: true, Seats: n}
}

// Missing reports a soft failure with the given reason.
func Missing(r Reason, detail string) Outcome {
	return Outcome{Reason: r, Detail: detail}
}

// Page is inert page content handed over by a page source. Either field may
// be empty: a static fetch yields HTML, a rendered text dump yields Text.
type Page struct {
	URL  string
	HTML []byte
	Text string
}

// Check is the per-invocation configuration needed to turn an Outcome into a
// Result. It is passed by value at call time.
type Check struct {
	Target    string
	Threshold int
	URL       string
	Absent    AbsentPolicy
}

// Result is the single record emitted per invocation. Build it with Evaluate
// or Failure; it is never modified afterwards.
type Result struct {
	OK             bool   `json:"ok" yaml:"ok"`
	CheckedAt      string `json:"checked_at" yaml:"checked_at"`
	Target         string `json:"target" yaml:"target"`
	Threshold      int    `json:"threshold" yaml:"threshold"`
	AvailableSeats *int   `json:"available_seats" yaml:"available_seats"`
	MeetsThreshold bool   `json:"meets_threshold" yaml:"meets_threshold"`
	URL            string `json:"url" yaml:"url"`
	Note           string `json:"note" yaml:"note"`
}

// Seats returns the available seat count and whether one is known.
func (r Result) Seats() (int, bool) {
	if r.AvailableSeats == nil {
		return 0, false
	}
	return *r.AvailableSeats, true
}

// MeetsThreshold is the inclusive comparison seats >= threshold.
func MeetsThreshold(seats, threshold int) bool {
	return seats >= threshold
}

const absentAsZeroNote = "target not listed; treated as 0 seats"

// Evaluate builds the Result for an extraction outcome. A target that is not
// listed is reported according to c.Absent; every other soft failure leaves
// the seat count unknown and the result not ok.
func Evaluate(c Check, o Outcome, at time.Time) Result {
	r := Result{
		CheckedAt: formatTime(at),
		Target:    c.Target,
		Threshold: c.Threshold,
		URL:       c.URL,
	}
	switch {
	case o.Found:
		n := o.Seats
		r.OK = true
		r.AvailableSeats = &n
		r.MeetsThreshold = MeetsThreshold(n, c.Threshold)
	case o.Reason == ReasonTargetNotFound && c.Absent == AbsentAsZero:
		zero := 0
		r.OK = true
		r.AvailableSeats = &zero
		r.MeetsThreshold = MeetsThreshold(0, c.Threshold)
		r.Note = absentAsZeroNote
	default:
		r.Note = note(o)
	}
	return r
}

// Failure builds the Result for a hard failure while acquiring the page.
func Failure(c Check, err error, at time.Time) Result {
	msg := string(ReasonFetchFailed)
	if err != nil {
		msg = fmt.Sprintf("%s: %T: %v", ReasonFetchFailed, err, err)
	}
	return Result{
		CheckedAt: formatTime(at),
		Target:    c.Target,
		Threshold: c.Threshold,
		URL:       c.URL,
		Note:      msg,
	}
}

func note(o Outcome) string {
	reason := o.Reason
	if reason == ReasonNone {
		reason = ReasonCountNotFound
	}
	if d := strings.TrimSpace(o.Detail); d != "" {
		return fmt.Sprintf("%s: %s", reason, d)
	}
	return string(reason)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(time.RFC3339)
}
