package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const listingPage = `<html><body><ul>
<li><span>Bus No. 0105</span><span>공석 9</span></li>
<li><span>Bus No. 0106</span><span>공석 2</span></li>
</ul></body></html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("stdout is not a JSON result: %v\n%s", err, b)
	}
	return m
}

func TestRun_SeatsAvailable(t *testing.T) {
	srv := serve(t, 200, listingPage)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=", "-url", srv.URL, "-target", "0106", "-threshold", "2"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	m := decode(t, stdout.Bytes())
	if m["ok"] != true || m["available_seats"] != float64(2) || m["meets_threshold"] != true {
		t.Fatalf("unexpected result: %v", m)
	}
	if m["url"] != srv.URL || m["target"] != "0106" {
		t.Fatalf("unexpected identity fields: %v", m)
	}
}

// A target that is not listed is a soft outcome: the result says so and the
// process still exits 0.
func TestRun_TargetMissingIsSoft(t *testing.T) {
	srv := serve(t, 200, listingPage)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=", "-url", srv.URL, "-target", "0199"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	m := decode(t, stdout.Bytes())
	if m["ok"] != false || m["available_seats"] != nil || m["note"] != "target not found" {
		t.Fatalf("unexpected result: %v", m)
	}

	stdout.Reset()
	code = run(context.Background(), []string{"-env=", "-url", srv.URL, "-target", "0199", "-absent", "zero"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d with absent=zero", code)
	}
	m = decode(t, stdout.Bytes())
	if m["ok"] != true || m["available_seats"] != float64(0) || m["meets_threshold"] != false {
		t.Fatalf("unexpected result with absent=zero: %v", m)
	}
}

func TestRun_FetchFailureIsHard(t *testing.T) {
	srv := serve(t, 503, "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=", "-url", srv.URL}, &stdout, &stderr)
	if code != exitHardFailure {
		t.Fatalf("exit code %d, want %d", code, exitHardFailure)
	}
	m := decode(t, stdout.Bytes())
	if m["ok"] != false || m["available_seats"] != nil {
		t.Fatalf("unexpected result: %v", m)
	}
	if note, _ := m["note"].(string); len(note) < len("fetch failed: ") || note[:len("fetch failed: ")] != "fetch failed: " {
		t.Fatalf("unexpected note: %v", m["note"])
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=", "-threshold", "-1"}, &stdout, &stderr)
	if code != exitConfig {
		t.Fatalf("exit code %d, want %d", code, exitConfig)
	}
	if stdout.Len() != 0 {
		t.Fatalf("no result expected for invalid config, got %s", stdout.String())
	}
}

func TestRun_SourceFileYAML(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "rendered.txt")
	if err := os.WriteFile(dump, []byte("Bus No. 0106\n야마나시 → 이케부쿠로\n공석 1\n"), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=", "-source.file", dump, "-format", "yaml"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"ok: true", "available_seats: 1", "meets_threshold: false", "threshold: 2"} {
		if !bytes.Contains(stdout.Bytes(), []byte(want)) {
			t.Fatalf("expected %q in yaml output:\n%s", want, out)
		}
	}
}

func TestRun_MetricsFile(t *testing.T) {
	srv := serve(t, 200, listingPage)
	prom := filepath.Join(t.TempDir(), "seatwatch.prom")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env=", "-url", srv.URL, "-metrics.file", prom}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	b, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !bytes.Contains(b, []byte(`seatwatch_available_seats{target="0106"} 2`)) {
		t.Fatalf("unexpected metrics:\n%s", b)
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code %d for -h", code)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("-threshold")) {
		t.Fatalf("expected usage on stderr, got %s", stderr.String())
	}
}
