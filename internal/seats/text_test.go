package seats

import (
	"strings"
	"testing"
)

func newText(t *testing.T, prefix string) *TextExtractor {
	t.Helper()
	e, err := NewTextExtractor(TextOptions{Prefix: prefix, Label: "0106", Marker: "공석"})
	if err != nil {
		t.Fatalf("NewTextExtractor: %v", err)
	}
	return e
}

func TestTextExtractor_FindsCountAfterLabel(t *testing.T) {
	e := newText(t, "Bus No")
	text := "Bus No. 0105\n공석 1\n\nBus No. 0106\n야마나시 07:10 → 이케부쿠로 09:35\n  공석   7\n"
	o := e.ExtractText(text)
	if !o.Found || o.Seats != 7 {
		t.Fatalf("expected 7 seats, got %+v", o)
	}
}

func TestTextExtractor_LabelVariants(t *testing.T) {
	e := newText(t, "Bus No")
	for _, text := range []string{
		"Bus No. 0106 공석 3",
		"Bus No 0106 공석 3",
		"bus no.0106 공석 3",
		"BusNo0106 공석 3",
		"Bus  No:  0106 공석 3",
		"Ｂｕｓ Ｎｏ． ０１０６ 공석 ３",
	} {
		o := e.ExtractText(text)
		if !o.Found || o.Seats != 3 {
			t.Fatalf("%q: expected 3 seats, got %+v", text, o)
		}
	}
}

func TestTextExtractor_LabelTokenMustMatchExactly(t *testing.T) {
	e := newText(t, "Bus No")
	for _, text := range []string{
		"Bus No. 01067 공석 3",
		"Bus No. 10106 공석 3",
		"Bus No. 0107 공석 3",
	} {
		o := e.ExtractText(text)
		if o.Found || o.Reason != ReasonTargetNotFound {
			t.Fatalf("%q: expected target not found, got %+v", text, o)
		}
	}
}

func TestTextExtractor_TargetNotFound(t *testing.T) {
	e := newText(t, "Bus No")
	o := e.ExtractText("Bus No. 0105 공석 7 Bus No. 0107 공석 9")
	if o.Found || o.Reason != ReasonTargetNotFound || o.Seats != 0 {
		t.Fatalf("expected target not found without a number, got %+v", o)
	}
}

func TestTextExtractor_CountNotFound(t *testing.T) {
	e := newText(t, "Bus No")
	o := e.ExtractText("Bus No. 0106 매진")
	if o.Found || o.Reason != ReasonCountNotFound {
		t.Fatalf("expected count not found, got %+v", o)
	}
}

func TestTextExtractor_WindowIsBounded(t *testing.T) {
	e, err := NewTextExtractor(TextOptions{Prefix: "Bus No", Label: "0106", Marker: "공석", WindowSize: 100})
	if err != nil {
		t.Fatalf("NewTextExtractor: %v", err)
	}
	// The marker sits beyond the window, so it belongs to something else.
	text := "Bus No. 0106 " + strings.Repeat("가", 200) + " 공석 4"
	if o := e.ExtractText(text); o.Reason != ReasonCountNotFound {
		t.Fatalf("expected count not found outside window, got %+v", o)
	}
	// Multi-byte runes count as one character each.
	text = "Bus No. 0106 " + strings.Repeat("가", 50) + " 공석 4"
	if o := e.ExtractText(text); !o.Found || o.Seats != 4 {
		t.Fatalf("expected 4 seats inside window, got %+v", o)
	}
}

func TestTextExtractor_BareLabel(t *testing.T) {
	e := newText(t, "")
	o := e.ExtractText("...0106... 공석 2...")
	if !o.Found || o.Seats != 2 {
		t.Fatalf("expected 2 seats, got %+v", o)
	}
}

func TestTextExtractor_FallsBackToHTML(t *testing.T) {
	e := newText(t, "Bus No")
	page := Page{HTML: []byte(`<ul><li><span>Bus No.</span><span>0106</span><em>공석</em> <b>5</b></li></ul>`)}
	if o := e.Extract(page); !o.Found || o.Seats != 5 {
		t.Fatalf("expected 5 seats from HTML, got %+v", o)
	}
}

func TestNewTextExtractor_RejectsEmptyConfig(t *testing.T) {
	if _, err := NewTextExtractor(TextOptions{Label: " ", Marker: "공석"}); err == nil {
		t.Fatalf("expected error for empty label")
	}
	if _, err := NewTextExtractor(TextOptions{Label: "0106"}); err == nil {
		t.Fatalf("expected error for empty marker")
	}
}
