package notebook

import (
	"encoding/json"
	"testing"

	"github.com/kazuph/nlm/internal/testutil/testlog"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestPositionalAccessors(t *testing.T) {
	testlog.Start(t)
	v := decode(t, `["title", 3, true, [170000000, 500], null]`)

	if s, ok := strAt(v, 0); !ok || s != "title" {
		t.Fatalf("strAt(0) = %q, %v", s, ok)
	}
	if n, ok := numAt(v, 1); !ok || n != 3 {
		t.Fatalf("numAt(1) = %v, %v", n, ok)
	}
	if b, ok := boolAt(v, 2); !ok || !b {
		t.Fatalf("boolAt(2) = %v, %v", b, ok)
	}
	if sec, nanos, ok := timeAt(v, 3); !ok || sec != 170000000 || nanos != 500 {
		t.Fatalf("timeAt(3) = %d, %d, %v", sec, nanos, ok)
	}

	// Type mismatches and out-of-range lookups miss cleanly.
	if _, ok := strAt(v, 1); ok {
		t.Fatal("strAt on number should miss")
	}
	if _, ok := at(v, 10); ok {
		t.Fatal("at(10) should miss")
	}
	if _, ok := at("not a list", 0); ok {
		t.Fatal("at on non-list should miss")
	}
	if _, ok := arrAt(v, 4); ok {
		t.Fatal("arrAt on null should miss")
	}
}

func TestExtractSourceID(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		resp string
		want string
	}{
		{"deep nesting", `[[[["src-1", "extra"]]]]`, "src-1"},
		{"medium nesting", `[[["src-2", "extra"]]]`, "src-2"},
		{"shallow nesting", `[["src-3", "extra"]]`, "src-3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractSourceID(decode(t, tc.resp))
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := extractSourceID(decode(t, `[[123]]`)); err == nil {
		t.Fatal("expected error for response without id")
	}
}

func TestYouTubeVideoID(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/playlist?list=PL123", "", false},
	}
	for _, tc := range cases {
		got, ok := youTubeVideoID(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%q: got %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}

	if isYouTubeURL("https://example.com/watch?v=abc") {
		t.Fatal("non-youtube host misclassified")
	}
}

func TestDetectContentType(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"notes.md":    "text/plain",
		"page.HTML":   "text/html",
		"paper.pdf":   "application/pdf",
		"report.docx": "application/msword",
		"data.xlsx":   "application/vnd.ms-excel",
		"blob.xyzzy":  "application/octet-stream",
	}
	for filename, want := range cases {
		if got := detectContentType(filename); got != want {
			t.Fatalf("%s: got %q, want %q", filename, got, want)
		}
	}
}
