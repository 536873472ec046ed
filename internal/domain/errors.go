package domain

import "errors"

var (
	// ErrIndexNotReady signals that no index has been built yet.
	ErrIndexNotReady = errors.New("search index not ready")
	// ErrInvalidQuery signals malformed search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidCatalog signals malformed catalog data.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
