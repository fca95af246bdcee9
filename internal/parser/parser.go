// Package parser splits documents at the backlinks marker and extracts
// frontmatter, title, and link destinations from Markdown bodies.
package parser

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"gitlab.com/golang-commonmark/markdown"
	"gopkg.in/yaml.v3"
)

// Marker opens the tool-owned section at the end of a document.
const Marker = "\n\n---\n\n## Backlinks:\n"

var (
	md = markdown.New(
		markdown.HTML(true),
		markdown.Linkify(false),
		markdown.Typographer(false),
	)

	htmlHrefRe = regexp.MustCompile(`(?i)<a\s[^>]*?href\s*=\s*(?:"([^"]*)"|'([^']*)')`)

	// trailingMarkers are what remains of Marker when an editor strips the
	// final newline of a document whose section has no entries.
	trailingMarkers = []string{
		Marker[:len(Marker)-1],
		strings.ReplaceAll(Marker[:len(Marker)-1], "\n", "\r\n"),
	}
)

// Result holds the output of parsing a document body.
type Result struct {
	Frontmatter map[string]interface{}
	Title       string
	// Links are raw link destinations in document order, deduplicated.
	// They keep their percent-encoding.
	Links []string
}

// Split separates content at the first occurrence of Marker. The section
// includes the marker itself and is empty when the marker is absent. A
// document ending in Marker without its final newline is split there too,
// so appending a fresh section never creates an earlier marker.
func Split(content string) (body, section string) {
	if idx := strings.Index(content, Marker); idx >= 0 {
		return content[:idx], content[idx:]
	}
	for _, m := range trailingMarkers {
		if strings.HasSuffix(content, m) {
			idx := len(content) - len(m)
			return content[:idx], content[idx:]
		}
	}
	return content, ""
}

// Parse extracts frontmatter, title, and link destinations from a body.
// The body must not contain the managed section; use Split first.
// Malformed frontmatter is treated as Markdown text.
func Parse(data []byte) *Result {
	fm, text := splitFrontmatter(data)
	tokens := md.Parse([]byte(text))
	return &Result{
		Frontmatter: fm,
		Title:       deriveTitle(fm, tokens),
		Links:       extractLinks(tokens),
	}
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown text. If no frontmatter is found the entire content is text.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	const delim = "---"

	if !bytes.HasPrefix(data, []byte(delim+"\n")) && !bytes.HasPrefix(data, []byte(delim+"\r\n")) {
		return nil, string(data)
	}

	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Not YAML: most likely a thematic break, so keep it as text.
		return nil, string(data)
	}
	return fm, string(afterDelim)
}

// extractLinks returns every link destination of the parsed Markdown. Links
// in code spans and code blocks are not links; image sources are not
// included. Anchors in inline or block HTML count as links too.
func extractLinks(tokens []markdown.Token) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(raw string) {
		dest := strings.TrimSpace(raw)
		if dest == "" {
			return
		}
		if _, ok := seen[dest]; ok {
			return
		}
		seen[dest] = struct{}{}
		out = append(out, dest)
	}

	for _, tok := range tokens {
		switch t := tok.(type) {
		case *markdown.Inline:
			for _, child := range t.Children {
				switch c := child.(type) {
				case *markdown.LinkOpen:
					add(c.Href)
				case *markdown.HTMLInline:
					for _, href := range htmlHrefs(c.Content) {
						add(href)
					}
				}
			}
		case *markdown.HTMLBlock:
			for _, href := range htmlHrefs(t.Content) {
				add(href)
			}
		}
	}
	return out
}

func htmlHrefs(fragment string) []string {
	var out []string
	for _, m := range htmlHrefRe.FindAllStringSubmatch(fragment, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the text
// of the first level-one heading (ATX or setext), otherwise empty string.
func deriveTitle(fm map[string]interface{}, tokens []markdown.Token) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	for i, tok := range tokens {
		h, ok := tok.(*markdown.HeadingOpen)
		if !ok || h.HLevel != 1 || i+1 >= len(tokens) {
			continue
		}
		if inline, ok := tokens[i+1].(*markdown.Inline); ok {
			if title := inlineText(inline); title != "" {
				return title
			}
		}
	}
	return ""
}

// inlineText flattens an inline token to its plain text.
func inlineText(inline *markdown.Inline) string {
	var b strings.Builder
	for _, child := range inline.Children {
		switch c := child.(type) {
		case *markdown.Text:
			b.WriteString(c.Content)
		case *markdown.CodeInline:
			b.WriteString(c.Content)
		case *markdown.Softbreak, *markdown.Hardbreak:
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// FallbackTitle is the link text used for a document without a title.
func FallbackTitle(docPath string) string {
	return path.Base(docPath)
}
