// Package backlinks renders the managed "Backlinks" section of a document.
//
// Everything from the first marker to the end of a document belongs to this
// package and is regenerated on every run; the body above it is never edited.
// A document that nobody references carries no section at all.
package backlinks

import (
	"path/filepath"
	"strings"

	"github.com/starford/mdbacklinks/internal/models"
	"github.com/starford/mdbacklinks/internal/parser"
)

var (
	destEscaper = strings.NewReplacer(
		"%", "%25", " ", "%20", "(", "%28", ")", "%29",
		"<", "%3C", ">", "%3E", "#", "%23", "?", "%3F",
	)

	titleEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`, "\n", " ", "\r", "")
)

// Render returns the managed section listing sources, in the given order, as
// links relative to target. titles maps each source path to its link text;
// sources without a title fall back to their file name. Render returns an
// empty string when sources is empty.
func Render(target string, sources []string, titles map[string]string) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(parser.Marker)
	for _, src := range sources {
		title := titles[src]
		if title == "" {
			title = parser.FallbackTitle(src)
		}
		b.WriteString("- [")
		b.WriteString(titleEscaper.Replace(title))
		b.WriteString("](")
		b.WriteString(destEscaper.Replace(relativeLink(target, src)))
		b.WriteString(")\n")
	}
	return b.String()
}

// Apply returns the new content of doc given the documents referencing it.
// The body is kept byte for byte; any previous section is replaced.
func Apply(doc *models.Document, incoming []string, titles map[string]string) []byte {
	return []byte(doc.Body + Render(doc.Path, incoming, titles))
}

// relativeLink returns the slash-separated path of src as seen from the
// directory containing target.
func relativeLink(target, src string) string {
	dir := filepath.Dir(filepath.FromSlash(target))
	rel, err := filepath.Rel(dir, filepath.FromSlash(src))
	if err != nil {
		return "/" + src
	}
	return filepath.ToSlash(rel)
}
