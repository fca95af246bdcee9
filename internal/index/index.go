package index

// Stats summarises the graph held by the export.
type Stats struct {
	Documents int
	Links     int
}
