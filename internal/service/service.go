// Package service runs one backlink synchronisation over a document root:
// read every document, build the reference graph, rewrite managed sections,
// and write back the documents that changed.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/mdbacklinks/internal/backlinks"
	"github.com/starford/mdbacklinks/internal/checksum"
	"github.com/starford/mdbacklinks/internal/linkgraph"
	"github.com/starford/mdbacklinks/internal/models"
	"github.com/starford/mdbacklinks/internal/parser"
	"github.com/starford/mdbacklinks/internal/storage"
)

// Exporter receives the graph computed by a run.
type Exporter interface {
	ReplaceGraph(docs []*models.Document, links []models.Link) error
}

// Report summarises a run.
type Report struct {
	Scanned int
	Links   int
	// Changed lists the documents whose content was (or, on a dry run,
	// would be) rewritten, in path order.
	Changed []string
	DryRun  bool
}

// Service coordinates storage, parsing, and section rewriting.
type Service struct {
	store    storage.Provider
	logger   *slog.Logger
	exporter Exporter
	dryRun   bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithExporter publishes the graph of every run to e.
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

// WithDryRun computes changes without writing them.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) {
		s.dryRun = dryRun
	}
}

// New creates a new synchronisation service.
func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and parses every document and resolves its links. No document
// is written.
func (s *Service) Load(ctx context.Context) ([]*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		known[m.Path] = struct{}{}
	}

	docs := make([]*models.Document, 0, len(metas))
	for _, m := range metas {
		data, err := s.store.Read(m.Path)
		if err != nil {
			return nil, err
		}
		doc := loadDocument(m.Path, data, known)
		s.logger.Debug("loaded document",
			slog.String("path", doc.Path),
			slog.String("checksum", checksum.Short(doc.Checksum)),
			slog.Int("links", len(doc.Links)),
			slog.Bool("has_section", doc.Section != ""))
		docs = append(docs, doc)
	}
	return docs, nil
}

// Run performs one full synchronisation.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	docs, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	graph := linkgraph.Build(docs)
	titles := make(map[string]string, len(docs))
	for _, d := range docs {
		titles[d.Path] = d.Title
	}

	report := &Report{Scanned: len(docs), Links: graph.Len(), DryRun: s.dryRun}
	var changed []*models.Document
	updates := make(map[string][]byte)
	for _, d := range docs {
		content := backlinks.Apply(d, graph.Incoming(d.Path), titles)
		if string(content) == string(d.Content) {
			continue
		}
		updates[d.Path] = content
		changed = append(changed, d)
		report.Changed = append(report.Changed, d.Path)
	}

	for _, d := range changed {
		if s.dryRun {
			s.logger.Info("would update backlinks", slog.String("path", d.Path))
			continue
		}
		content := updates[d.Path]
		if err := s.store.Write(d.Path, content); err != nil {
			return nil, err
		}
		d.Content = content
		d.Checksum = checksum.Sum(content)
		s.logger.Info("updated backlinks",
			slog.String("path", d.Path),
			slog.String("checksum", checksum.Short(d.Checksum)))
	}

	if s.exporter != nil {
		if err := s.exporter.ReplaceGraph(docs, graph.Links()); err != nil {
			return nil, fmt.Errorf("service: export graph: %w", err)
		}
	}

	s.logger.Info("sync complete",
		slog.Int("documents", report.Scanned),
		slog.Int("links", report.Links),
		slog.Int("changed", len(report.Changed)),
		slog.Bool("dry_run", report.DryRun))
	return report, nil
}

func loadDocument(path string, data []byte, known map[string]struct{}) *models.Document {
	body, section := parser.Split(string(data))
	res := parser.Parse([]byte(body))
	return &models.Document{
		Path:     path,
		Content:  data,
		Body:     body,
		Section:  section,
		Title:    res.Title,
		Links:    linkgraph.ResolveAll(path, res.Links, known),
		Checksum: checksum.Sum(data),
	}
}
