// Package pagetext turns listing pages into the plain text the listing
// extractor expects: one visual line per text line.
package pagetext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Page source either opens with an element tag or wraps a whole document.
// A tag mentioned inside copied prose ("fix the <div> grid") matches neither.
var (
	leadingTagPattern  = regexp.MustCompile(`(?i)^<(?:!doctype|html|head|body|div|p|span|li|ul|ol|h[1-6]|table|tr|section|article|main|header|br)\b`)
	documentTagPattern = regexp.MustCompile(`(?is)<(?:!doctype|html|body)\b.*</(?:html|body)>`)
)

// skippedElements never contribute visible text
var skippedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// blockElements start and end a line of text
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true,
	"header": true, "footer": true, "main": true, "nav": true, "aside": true,
	"form": true, "blockquote": true, "pre": true, "dl": true, "dt": true, "dd": true,
	"figure": true, "figcaption": true, "address": true, "hr": true,
}

// cellElements are separated by a space within their row
var cellElements = map[string]bool{"td": true, "th": true}

// LooksLikeHTML reports whether raw appears to be page source rather than copied text
func LooksLikeHTML(raw string) bool {
	if documentTagPattern.MatchString(raw) {
		return true
	}
	return leadingTagPattern.MatchString(strings.TrimSpace(raw))
}

// Normalize converts pasted page source to plain text lines. Input that is not
// HTML, or that fails to parse, is returned unchanged.
func Normalize(raw string) string {
	if !LooksLikeHTML(raw) {
		return raw
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	w := &lineWriter{}
	w.walk(doc)
	w.flush()

	return strings.Join(w.lines, "\n")
}

// lineWriter accumulates inline text and emits it as lines at block boundaries
type lineWriter struct {
	lines   []string
	current strings.Builder
}

func (w *lineWriter) flush() {
	line := strings.Join(strings.Fields(w.current.String()), " ")
	if line != "" {
		w.lines = append(w.lines, line)
	}
	w.current.Reset()
}

func (w *lineWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.current.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch {
		case skippedElements[n.Data]:
			return
		case n.Data == "br":
			w.flush()
			return
		case cellElements[n.Data]:
			w.current.WriteString(" ")
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		w.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.flush()
	}
}
