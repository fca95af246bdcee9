// Package linkgraph resolves link destinations to documents of the collection
// and builds the forward and reverse reference graph.
package linkgraph

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/starford/mdbacklinks/internal/models"
)

// Graph is the reference graph of one scan. It is immutable once built.
type Graph struct {
	forward  map[string][]string
	incoming map[string][]string
	edges    int
}

// Resolve canonicalises href, found in the document at source, to the path
// of a known document. href is a raw, possibly percent-encoded destination. It reports false for external URLs, pure anchors,
// paths escaping the root, missing documents, and self-references.
func Resolve(source, href string, known map[string]struct{}) (string, bool) {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "//") {
		return "", false
	}
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return "", false
	}
	// Strip before decoding: %23 and %3F are part of the file name.
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if p, err := url.PathUnescape(href); err == nil {
		href = p
	}
	if href == "" {
		return "", false
	}

	var target string
	if strings.HasPrefix(href, "/") {
		target = path.Clean(strings.TrimLeft(href, "/"))
	} else {
		target = path.Join(path.Dir(source), href)
	}
	if target == "." || target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	if target == source {
		return "", false
	}
	if _, ok := known[target]; !ok {
		return "", false
	}
	return target, true
}

// ResolveAll resolves every destination of a document, dropping the
// unresolvable ones. The result is sorted and free of duplicates.
func ResolveAll(source string, hrefs []string, known map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(hrefs))
	var out []string
	for _, h := range hrefs {
		target, ok := Resolve(source, h, known)
		if !ok {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Build creates the graph from documents whose Links are already resolved.
func Build(docs []*models.Document) *Graph {
	g := &Graph{
		forward:  make(map[string][]string, len(docs)),
		incoming: make(map[string][]string, len(docs)),
	}
	for _, d := range docs {
		g.forward[d.Path] = d.Links
		for _, target := range d.Links {
			if target == d.Path {
				continue
			}
			g.incoming[target] = append(g.incoming[target], d.Path)
			g.edges++
		}
	}
	for target := range g.incoming {
		sort.Strings(g.incoming[target])
	}
	return g
}

// Outgoing returns the documents referenced by path.
func (g *Graph) Outgoing(path string) []string {
	return g.forward[path]
}

// Incoming returns the sorted documents that reference path.
func (g *Graph) Incoming(path string) []string {
	return g.incoming[path]
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	return g.edges
}

// Links returns every edge sorted by source, then target.
func (g *Graph) Links() []models.Link {
	sources := make([]string, 0, len(g.forward))
	for s := range g.forward {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	out := make([]models.Link, 0, g.edges)
	for _, s := range sources {
		for _, t := range g.forward[s] {
			if t == s {
				continue
			}
			out = append(out, models.Link{Source: s, Target: t})
		}
	}
	return out
}
