package ingestion

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrStoreRequired is returned when a table store is not provided.
	ErrStoreRequired = errors.New("table store required")
)
