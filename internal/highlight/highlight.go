// Package highlight annotates JSON text with HTML span markup for the
// config viewer. It is a line-oriented lexer built on regular
// expressions rather than a JSON parser, so it degrades gracefully on
// text that is not (yet) valid JSON.
package highlight

import (
	"fmt"
	"regexp"
	"strings"
)

// Line is one annotated source line.
type Line struct {
	Number int    `json:"number"`
	HTML   string `json:"html"`
}

// The passes run in a fixed order per line; later passes see the markup
// emitted by earlier ones, which is why brackets go last.
var (
	keyRe     = regexp.MustCompile(`"([^"]+)"\s*:`)
	stringRe  = regexp.MustCompile(`:\s*"([^"]*)"`)
	numberRe  = regexp.MustCompile(`\b(\d+\.?\d*)\b`)
	booleanRe = regexp.MustCompile(`\b(true|false)\b`)
	nullRe    = regexp.MustCompile(`\bnull\b`)
	bracketRe = regexp.MustCompile(`([{}[\]])`)
)

// Highlight splits text into lines, numbered from 1, and annotates each.
// Empty input yields zero lines. When searchTerm is non-empty its literal
// occurrences are wrapped first, so the token passes may annotate inside
// the highlight wrapper.
func Highlight(text, searchTerm string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for i, line := range raw {
		lines = append(lines, Line{Number: i + 1, HTML: annotate(line, searchTerm)})
	}
	return lines
}

// Render produces the viewer markup: one wrapper div per line with a
// line-number gutter span.
func Render(text, searchTerm string) string {
	lines := Highlight(text, searchTerm)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b,
			`<div class="json-line"><span class="json-line-number">%d</span><span class="json-line-content">%s</span></div>`,
			line.Number, line.HTML)
	}
	return b.String()
}

func annotate(line, searchTerm string) string {
	if searchTerm != "" && strings.Contains(line, searchTerm) {
		line = strings.ReplaceAll(line, searchTerm,
			`<span class="json-highlight">`+searchTerm+`</span>`)
	}
	line = keyRe.ReplaceAllString(line, `<span class="json-key">"$1"</span>:`)
	line = stringRe.ReplaceAllString(line, `: <span class="json-string">"$1"</span>`)
	line = numberRe.ReplaceAllString(line, `<span class="json-number">$1</span>`)
	line = booleanRe.ReplaceAllString(line, `<span class="json-boolean">$1</span>`)
	line = nullRe.ReplaceAllString(line, `<span class="json-null">null</span>`)
	line = bracketRe.ReplaceAllString(line, `<span class="json-bracket">$1</span>`)
	return line
}
