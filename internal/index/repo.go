package index

import (
	"fmt"
	"time"

	"github.com/starford/mdbacklinks/internal/models"
)

// ReplaceGraph replaces every document and link row with the given graph
// within one transaction.
func (db *DB) ReplaceGraph(docs []*models.Document, links []models.Link) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("index: clear documents: %w", err)
	}

	now := time.Now().UTC()
	docStmt, err := tx.Prepare(`INSERT INTO documents (path, title, checksum, synced_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare document insert: %w", err)
	}
	defer docStmt.Close()
	for _, d := range docs {
		if _, err := docStmt.Exec(d.Path, d.Title, d.Checksum, now); err != nil {
			return fmt.Errorf("index: insert document %s: %w", d.Path, err)
		}
	}

	linkStmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()
	for _, l := range links {
		if _, err := linkStmt.Exec(l.Source, l.Target); err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	return tx.Commit()
}

// Stats counts the documents and links of the exported graph.
func (db *DB) Stats() (Stats, error) {
	var st Stats
	err := db.conn.QueryRow(
		`SELECT (SELECT count(*) FROM documents), (SELECT count(*) FROM links)`,
	).Scan(&st.Documents, &st.Links)
	if err != nil {
		return Stats{}, fmt.Errorf("index: stats: %w", err)
	}
	return st, nil
}
