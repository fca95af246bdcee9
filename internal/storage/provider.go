// Package storage defines the document file-system abstraction.
package storage

import "github.com/starford/mdbacklinks/internal/models"

// Provider is the interface for document file operations.
// All paths are slash-separated and relative to the root.
type Provider interface {
	// Root returns the absolute path of the scanned directory.
	Root() string
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of path.
	Write(path string, content []byte) error
}
