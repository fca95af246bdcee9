package index

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/mdbacklinks/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// backlinks reads the sources linking to target the way external tools do.
func backlinks(t *testing.T, db *DB, target string) []string {
	t.Helper()
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		t.Fatalf("query backlinks: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestReplaceGraph_Backlinks(t *testing.T) {
	db := testDB(t)
	docs := []*models.Document{
		{Path: "a.md", Title: "A", Checksum: "1"},
		{Path: "b.md", Checksum: "2"},
		{Path: "c.md", Checksum: "3"},
	}
	links := []models.Link{
		{Source: "a.md", Target: "b.md"},
		{Source: "c.md", Target: "b.md"},
	}
	if err := db.ReplaceGraph(docs, links); err != nil {
		t.Fatalf("ReplaceGraph: %v", err)
	}

	if bl := backlinks(t, db, "b.md"); !reflect.DeepEqual(bl, []string{"a.md", "c.md"}) {
		t.Errorf("backlinks = %v", bl)
	}

	var title, sum string
	if err := db.conn.QueryRow(`SELECT title, checksum FROM documents WHERE path = 'a.md'`).Scan(&title, &sum); err != nil {
		t.Fatalf("document row: %v", err)
	}
	if title != "A" || sum != "1" {
		t.Errorf("a.md row = (%q, %q)", title, sum)
	}
}

func TestReplaceGraph_DropsPreviousRun(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceGraph(
		[]*models.Document{{Path: "a.md"}, {Path: "x.md"}},
		[]models.Link{{Source: "a.md", Target: "x.md"}},
	)
	if err := db.ReplaceGraph(
		[]*models.Document{{Path: "a.md"}, {Path: "y.md"}, {Path: "z.md"}},
		[]models.Link{{Source: "a.md", Target: "y.md"}},
	); err != nil {
		t.Fatalf("ReplaceGraph: %v", err)
	}

	if bl := backlinks(t, db, "x.md"); len(bl) != 0 {
		t.Errorf("stale backlinks for x.md: %v", bl)
	}
	if bl := backlinks(t, db, "y.md"); len(bl) != 1 {
		t.Errorf("expected 1 backlink for y.md, got %v", bl)
	}
	st, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st != (Stats{Documents: 3, Links: 1}) {
		t.Errorf("stats = %+v", st)
	}
}

func TestStats_Empty(t *testing.T) {
	db := testDB(t)
	st, err := db.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != (Stats{}) {
		t.Errorf("stats = %+v, want zero", st)
	}
}
