package linkgraph

import (
	"reflect"
	"testing"

	"github.com/starford/mdbacklinks/internal/models"
)

func knownSet(paths ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		out[p] = struct{}{}
	}
	return out
}

func TestResolve(t *testing.T) {
	known := knownSet("A.md", "B.md", "sub/C.md", "sub/deep/D.md", "my note.md", "C#.md", "why?.md")

	tests := []struct {
		name   string
		source string
		href   string
		want   string
		wantOK bool
	}{
		{"sibling", "A.md", "B.md", "B.md", true},
		{"dot slash", "A.md", "./B.md", "B.md", true},
		{"into subdir", "A.md", "sub/C.md", "sub/C.md", true},
		{"parent", "sub/C.md", "../A.md", "A.md", true},
		{"nested parent", "sub/deep/D.md", "../C.md", "sub/C.md", true},
		{"root relative", "sub/deep/D.md", "/B.md", "B.md", true},
		{"fragment stripped", "A.md", "B.md#heading", "B.md", true},
		{"query stripped", "A.md", "B.md?x=1", "B.md", true},
		{"spaces", "A.md", "my note.md", "my note.md", true},
		{"encoded spaces", "A.md", "my%20note.md", "my note.md", true},
		{"encoded hash", "A.md", "C%23.md", "C#.md", true},
		{"encoded hash with fragment", "A.md", "C%23.md#top", "C#.md", true},
		{"encoded question mark", "A.md", "why%3F.md?x=1", "why?.md", true},
		{"literal hash is a fragment", "A.md", "C#.md", "", false},
		{"self", "A.md", "A.md", "", false},
		{"self with anchor", "A.md", "./A.md#top", "", false},
		{"anchor only", "A.md", "#top", "", false},
		{"missing", "A.md", "Z.md", "", false},
		{"escapes root", "A.md", "../A.md", "", false},
		{"https", "A.md", "https://example.com/B.md", "", false},
		{"mailto", "A.md", "mailto:x@example.com", "", false},
		{"protocol relative", "A.md", "//example.com/B.md", "", false},
		{"directory", "sub/C.md", "..", "", false},
		{"case sensitive", "A.md", "b.md", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.source, tt.href, known)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%q, %q) = (%q, %v), want (%q, %v)", tt.source, tt.href, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveAll_DedupAndSort(t *testing.T) {
	known := knownSet("A.md", "B.md", "C.md")
	got := ResolveAll("A.md", []string{"C.md", "B.md", "./C.md#x", "A.md", "nope.md"}, known)
	want := []string{"B.md", "C.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveAll = %v, want %v", got, want)
	}
}

func TestBuild_Incoming(t *testing.T) {
	docs := []*models.Document{
		{Path: "A.md", Links: []string{"B.md", "C.md"}},
		{Path: "B.md", Links: []string{"A.md"}},
		{Path: "C.md"},
		{Path: "D.md", Links: []string{"C.md"}},
	}
	g := Build(docs)

	if got := g.Incoming("C.md"); !reflect.DeepEqual(got, []string{"A.md", "D.md"}) {
		t.Errorf("Incoming(C.md) = %v", got)
	}
	if got := g.Incoming("A.md"); !reflect.DeepEqual(got, []string{"B.md"}) {
		t.Errorf("Incoming(A.md) = %v", got)
	}
	if got := g.Incoming("D.md"); len(got) != 0 {
		t.Errorf("Incoming(D.md) = %v, want none", got)
	}
	if g.Len() != 4 {
		t.Errorf("Len = %d, want 4", g.Len())
	}
}

func TestGraph_Links(t *testing.T) {
	g := Build([]*models.Document{
		{Path: "b.md", Links: []string{"a.md"}},
		{Path: "a.md", Links: []string{"b.md", "c.md"}},
	})
	want := []models.Link{
		{Source: "a.md", Target: "b.md"},
		{Source: "a.md", Target: "c.md"},
		{Source: "b.md", Target: "a.md"},
	}
	if got := g.Links(); !reflect.DeepEqual(got, want) {
		t.Errorf("Links = %v, want %v", got, want)
	}
}
