package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/ector/core"
)

// DefaultCatalogMaster is the catalog that holds every region schema.
const DefaultCatalogMaster = "hive_metastore"

// Registry maps region codes to schemas and schemas to labeled tables.
// It is immutable once built; all accessors return copies.
type Registry struct {
	catalogMaster string
	regions       []core.Region
	regionIndex   map[string]int // code -> position in regions (first registration wins)
	schemas       map[string][]core.Table
	schemaOrder   []string
}

// Option configures a Registry under construction.
type Option func(*Registry)

// WithCatalogMaster sets the catalog that prefixes every qualified table name.
func WithCatalogMaster(name string) Option {
	return func(r *Registry) {
		r.catalogMaster = name
	}
}

// WithRegion maps a region code to its schema identifier.
func WithRegion(code, schema string) Option {
	return func(r *Registry) {
		if _, exists := r.regionIndex[code]; !exists {
			r.regionIndex[code] = len(r.regions)
		}
		r.regions = append(r.regions, core.Region{Code: code, Schema: schema})
	}
}

// WithTable registers a table in a schema together with the workflows that
// consume it. Labels form a set: repeats are dropped, keeping first-seen
// order. Registering the same table twice replaces its labels.
func WithTable(schema, table string, labels ...core.Label) Option {
	return func(r *Registry) {
		entry := core.Table{Name: table, Labels: uniqueLabels(labels)}
		tables, exists := r.schemas[schema]
		if !exists {
			r.schemaOrder = append(r.schemaOrder, schema)
		}
		for i := range tables {
			if tables[i].Name == table {
				tables[i] = entry
				return
			}
		}
		r.schemas[schema] = append(tables, entry)
	}
}

func uniqueLabels(labels []core.Label) []core.Label {
	out := make([]core.Label, 0, len(labels))
	for _, label := range labels {
		if !slices.Contains(out, label) {
			out = append(out, label)
		}
	}
	return out
}

// NewRegistry builds a registry from the given options.
// The catalog master defaults to DefaultCatalogMaster.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		catalogMaster: DefaultCatalogMaster,
		regionIndex:   make(map[string]int),
		schemas:       make(map[string][]core.Table),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CatalogMaster returns the catalog prefix for qualified table names.
func (r *Registry) CatalogMaster() string {
	return r.catalogMaster
}

// Regions returns the registered regions in registration order.
func (r *Registry) Regions() []core.Region {
	out := make([]core.Region, 0, len(r.regionIndex))
	for i, region := range r.regions {
		if r.regionIndex[region.Code] == i {
			out = append(out, region)
		}
	}
	return out
}

// RegionCodes returns the registered region codes in registration order.
func (r *Registry) RegionCodes() []string {
	regions := r.Regions()
	codes := make([]string, len(regions))
	for i, region := range regions {
		codes[i] = region.Code
	}
	return codes
}

// Schemas returns every schema that has tables, in registration order.
func (r *Registry) Schemas() []string {
	return slices.Clone(r.schemaOrder)
}

// ResolveRegion returns the schema identifier for a region code.
// Returns core.ErrInvalidRegion if the code is not registered.
func (r *Registry) ResolveRegion(code string) (string, error) {
	idx, ok := r.regionIndex[code]
	if !ok {
		return "", fmt.Errorf("%w: region code '%s' is not valid", core.ErrInvalidRegion, code)
	}
	return r.regions[idx].Schema, nil
}

// LookupTables returns the tables registered for a schema in registration order.
// Returns core.ErrUnknownSchema if the schema has no tables.
func (r *Registry) LookupTables(schema string) ([]core.Table, error) {
	tables := r.schemas[schema]
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: region '%s' not found in the configuration", core.ErrUnknownSchema, schema)
	}
	out := make([]core.Table, len(tables))
	for i, t := range tables {
		out[i] = t.Clone()
	}
	return out, nil
}

// QualifiedName builds the fully-qualified reference of a table in a schema.
func (r *Registry) QualifiedName(schema, table string) core.TableRef {
	return core.TableRef{Catalog: r.catalogMaster, Schema: schema, Table: table}
}

// RegionTables resolves a region and returns the qualified references of its
// tables alongside the catalog entries, in registration order.
func (r *Registry) RegionTables(code string) ([]core.TableRef, []core.Table, error) {
	schema, err := r.ResolveRegion(code)
	if err != nil {
		return nil, nil, err
	}
	tables, err := r.LookupTables(schema)
	if err != nil {
		return nil, nil, err
	}
	refs := make([]core.TableRef, len(tables))
	for i, t := range tables {
		refs[i] = r.QualifiedName(schema, t.Name)
	}
	return refs, tables, nil
}

// Validate checks that the registry is complete and consistent.
//
// Validation rules:
//   - Catalog master must be set
//   - Region codes are unique and every region is valid
//   - No two regions share a schema
//   - Every region schema has at least one table
//   - Every table is valid
func (r *Registry) Validate() error {
	if strings.TrimSpace(r.catalogMaster) == "" {
		return fmt.Errorf("%w: catalog master is required", core.ErrInvalidCatalog)
	}
	if len(r.regions) == 0 {
		return fmt.Errorf("%w: no regions registered", core.ErrInvalidCatalog)
	}

	seenCodes := make(map[string]bool, len(r.regions))
	seenSchemas := make(map[string]string, len(r.regions))
	for _, region := range r.regions {
		if err := core.ValidateRegion(region); err != nil {
			return err
		}
		if seenCodes[region.Code] {
			return fmt.Errorf("%w: duplicate region code %q", core.ErrInvalidCatalog, region.Code)
		}
		seenCodes[region.Code] = true

		if other, ok := seenSchemas[region.Schema]; ok {
			return fmt.Errorf("%w: regions %q and %q share schema %q",
				core.ErrInvalidCatalog, other, region.Code, region.Schema)
		}
		seenSchemas[region.Schema] = region.Code

		if len(r.schemas[region.Schema]) == 0 {
			return fmt.Errorf("%w: region %q: %w", core.ErrInvalidCatalog, region.Code, core.ErrUnknownSchema)
		}
	}

	for _, schema := range r.schemaOrder {
		for _, table := range r.schemas[schema] {
			if err := core.ValidateTable(table); err != nil {
				return fmt.Errorf("schema %q: %w", schema, err)
			}
		}
	}
	return nil
}
