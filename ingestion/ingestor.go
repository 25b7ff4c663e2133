package ingestion

import (
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/ector/catalog"
	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/storage"
)

// Catalog resolves regions to their labeled tables.
// *catalog.Registry satisfies it.
type Catalog interface {
	ResolveRegion(code string) (string, error)
	LookupTables(schema string) ([]core.Table, error)
	QualifiedName(schema, table string) core.TableRef
}

var _ Catalog = (*catalog.Registry)(nil)

// Dataset maps each workflow label to the handles of the tables it consumes,
// in region-then-table order.
type Dataset map[core.Label][]*core.TableHandle

// Tables returns the handles collected for a label.
func (d Dataset) Tables(label core.Label) []*core.TableHandle {
	return d[label]
}

// Count returns the total number of handles across all labels.
func (d Dataset) Count() int {
	total := 0
	for _, handles := range d {
		total += len(handles)
	}
	return total
}

// Ingestor fetches catalog tables from a store and buckets them by label.
// It holds no per-call state and may be reused.
type Ingestor struct {
	catalog    Catalog
	store      storage.TableReader
	seedLabels []core.Label
	logger     *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithSeedLabels sets the labels every dataset starts with, even when no
// table carries them.
// Default is core.DefaultLabels().
func WithSeedLabels(labels ...core.Label) Option {
	return func(i *Ingestor) error {
		i.seedLabels = slices.Clone(labels)
		return nil
	}
}

// NewIngestor creates a new ingestor.
func NewIngestor(cat Catalog, store storage.TableReader, opts ...Option) (*Ingestor, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	i := &Ingestor{
		catalog:    cat,
		store:      store,
		seedLabels: core.DefaultLabels(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	i.logger = i.logger.With("component", "ingestion")
	return i, nil
}

// Ingest reads every table of the given regions and groups the handles by
// label. Regions are processed in input order; repeated codes are fetched
// again. Each table is read once and its handle appended under every label
// it carries.
//
// Returns core.ErrInvalidRegion or core.ErrUnknownSchema from the catalog,
// or the store's error unchanged. No dataset is returned on error.
func (i *Ingestor) Ingest(ctx context.Context, regionCodes []string) (Dataset, error) {
	dataset := make(Dataset, len(i.seedLabels))
	for _, label := range i.seedLabels {
		dataset[label] = []*core.TableHandle{}
	}

	for _, code := range regionCodes {
		schema, err := i.catalog.ResolveRegion(code)
		if err != nil {
			return nil, err
		}

		tables, err := i.catalog.LookupTables(schema)
		if err != nil {
			return nil, err
		}

		for _, table := range tables {
			ref := i.catalog.QualifiedName(schema, table.Name)
			handle, err := i.store.ReadTable(ctx, ref)
			if err != nil {
				i.logger.Error("error reading table", "region", code, "table", ref.String(), "err", err)
				return nil, err
			}
			i.logger.Debug("read table", "region", code, "table", ref.String(), "labels", table.Labels)

			for _, label := range table.Labels {
				dataset[label] = append(dataset[label], handle)
			}
		}
	}

	i.logger.Info("ingested regions", "regions", len(regionCodes), "handles", dataset.Count())
	return dataset, nil
}
