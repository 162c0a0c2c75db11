package highlight_test

import (
	"strings"
	"testing"

	"github.com/mlsechub/modelhub/internal/highlight"
)

func TestEmptyInput(t *testing.T) {
	if lines := highlight.Highlight("", ""); len(lines) != 0 {
		t.Fatalf("Empty input must emit zero lines, got %d: %v", len(lines), lines)
	}
	if out := highlight.Render("", "search"); out != "" {
		t.Errorf("Empty input must render nothing, got %q", out)
	}
}

func TestLineNumbering(t *testing.T) {
	lines := highlight.Highlight("{\n  \"a\": 1\n}", "")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.Number != i+1 {
			t.Errorf("Line %d numbered %d", i, line.Number)
		}
	}
}

func TestTokenAnnotation(t *testing.T) {
	text := `{
  "name": "waf",
  "depth": 10,
  "ratio": 0.85,
  "enabled": true,
  "parent": null,
  "tags": []
}`
	lines := highlight.Highlight(text, "")

	joined := ""
	for _, line := range lines {
		joined += line.HTML + "\n"
	}

	for _, want := range []string{
		`<span class="json-key">"name"</span>:`,
		`<span class="json-string">"waf"</span>`,
		`<span class="json-number">10</span>`,
		`<span class="json-number">0.85</span>`,
		`<span class="json-boolean">true</span>`,
		`<span class="json-null">null</span>`,
		`<span class="json-bracket">{</span>`,
		`<span class="json-bracket">[</span>`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Annotated output missing %q\n%s", want, joined)
		}
	}
}

// TestSearchTermWrap checks the search wrapper on a line the token passes
// leave alone.
func TestSearchTermWrap(t *testing.T) {
	lines := highlight.Highlight("detect brute force", "brute")
	want := `detect <span class="json-highlight">brute</span> force`
	if lines[0].HTML != want {
		t.Errorf("Got %q, want %q", lines[0].HTML, want)
	}
}

// TestSearchTermInsideStringValue: the term is wrapped first, then the
// token passes annotate around it.
func TestSearchTermInsideStringValue(t *testing.T) {
	lines := highlight.Highlight(`{"name": "abc"}`, "abc")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	html := lines[0].HTML

	if !strings.Contains(html, `json-highlight">abc</span>`) {
		t.Errorf("Search term not wrapped in a highlight span: %s", html)
	}
	if !strings.Contains(html, `<span class="json-key">"name"</span>`) {
		t.Errorf("Key not annotated: %s", html)
	}
	if !strings.Contains(html, "json-string") {
		t.Errorf("String value not annotated: %s", html)
	}
}

func TestSearchTermAbsent(t *testing.T) {
	lines := highlight.Highlight(`{"name": "abc"}`, "zzz")
	if strings.Contains(lines[0].HTML, "json-highlight") {
		t.Errorf("Highlight span emitted without a match: %s", lines[0].HTML)
	}
}

// Malformed input still renders line by line; no pass may panic.
func TestDegradesOnInvalidJSON(t *testing.T) {
	lines := highlight.Highlight(`{"a": 1`, "")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(lines[0].HTML, `<span class="json-number">1</span>`) {
		t.Errorf("Number not annotated in partial JSON: %s", lines[0].HTML)
	}
}

func TestRender(t *testing.T) {
	out := highlight.Render("{\n}", "")
	if !strings.Contains(out, `<div class="json-line"><span class="json-line-number">1</span>`) {
		t.Errorf("Missing line wrapper for line 1:\n%s", out)
	}
	if !strings.Contains(out, `<span class="json-line-number">2</span>`) {
		t.Errorf("Missing line wrapper for line 2:\n%s", out)
	}
}
