package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/korean"

	"github.com/hyperifyio/seatwatch/internal/fetch"
)

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>Bus No. 0106 공석 3</body></html>"))
	}))
	defer srv.Close()

	s := &HTTPSource{URL: srv.URL, Client: &fetch.Client{PerRequestTimeout: 2 * time.Second}}
	page, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.URL != srv.URL {
		t.Fatalf("URL=%q, want %q", page.URL, srv.URL)
	}
	if !strings.Contains(string(page.HTML), "공석 3") || page.Text != "" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestHTTPSource_TranscodesLegacyCharset(t *testing.T) {
	body, err := korean.EUCKR.NewEncoder().String("<p>Bus No. 0106 공석 4</p>")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	s := &HTTPSource{URL: srv.URL, Client: &fetch.Client{PerRequestTimeout: 2 * time.Second}}
	page, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(page.HTML), "공석 4") {
		t.Fatalf("expected UTF-8 text after transcoding, got %q", page.HTML)
	}
}

func TestHTTPSource_EmptyBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("  \n"))
	}))
	defer srv.Close()

	s := &HTTPSource{URL: srv.URL, Client: &fetch.Client{PerRequestTimeout: 2 * time.Second}}
	if _, err := s.Fetch(context.Background()); !errors.Is(err, ErrEmptyPage) {
		t.Fatalf("expected ErrEmptyPage, got %v", err)
	}
}

func TestHTTPSource_StatusErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := &HTTPSource{URL: srv.URL, Client: &fetch.Client{PerRequestTimeout: 2 * time.Second}}
	_, err := s.Fetch(context.Background())
	var se *fetch.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected wrapped StatusError, got %v", err)
	}
}

func TestFileSource_HTMLAndText(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "page.html")
	textPath := filepath.Join(dir, "page.txt")
	if err := os.WriteFile(htmlPath, []byte("<p>Bus No 0106</p>"), 0o644); err != nil {
		t.Fatalf("write html: %v", err)
	}
	if err := os.WriteFile(textPath, []byte("Bus No 0106 공석 1"), 0o644); err != nil {
		t.Fatalf("write text: %v", err)
	}

	page, err := (&FileSource{Path: htmlPath, URL: "https://example.test"}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if len(page.HTML) == 0 || page.Text != "" || page.URL != "https://example.test" {
		t.Fatalf("unexpected html page: %+v", page)
	}

	page, err = (&FileSource{Path: textPath}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if page.Text != "Bus No 0106 공석 1" || len(page.HTML) != 0 {
		t.Fatalf("unexpected text page: %+v", page)
	}
}

func TestFileSource_Stdin(t *testing.T) {
	s := &FileSource{Path: "-", Stdin: strings.NewReader("<div>hi</div>")}
	page, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(page.HTML) != "<div>hi</div>" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFileSource_Errors(t *testing.T) {
	if _, err := (&FileSource{}).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := (&FileSource{Path: filepath.Join(t.TempDir(), "missing.html")}).Fetch(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := (&FileSource{Path: "-", Stdin: strings.NewReader("")}).Fetch(context.Background()); !errors.Is(err, ErrEmptyPage) {
		t.Fatalf("expected ErrEmptyPage, got %v", err)
	}
}
