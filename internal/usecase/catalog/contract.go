package catalog

// Indexer consumes loaded catalog data.
type Indexer interface {
	BuildIndex(data map[string][]map[string]any)
}
