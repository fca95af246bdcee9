// Package models defines the domain types for mdbacklinks.
package models

// Document is one Markdown file of the scanned collection.
type Document struct {
	// Path is slash-separated and relative to the scanned root.
	Path    string
	Content []byte

	// Body is the content above the managed section marker.
	Body string

	// Section is the managed section including the marker, empty when absent.
	Section string
	Title   string

	// Links are the resolved outgoing references, sorted.
	Links []string

	// Checksum fingerprints the content as it is on disk after the run.
	Checksum string
}

// Link represents a directed reference between two documents.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path string `json:"path"`
}
