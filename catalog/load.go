package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/poiesic/ector/core"
	"gopkg.in/yaml.v3"
)

// fileCatalog is the YAML layout of a catalog document:
//
//	catalog: hive_metastore
//	regions:
//	  - code: ae
//	    schema: ae_cosmos_origin_s1
//	schemas:
//	  ae_cosmos_origin_s1:
//	    - table: calibration_monitoring
//	      labels: [surgeon, patient]
type fileCatalog struct {
	Catalog string                 `yaml:"catalog"`
	Regions []fileRegion           `yaml:"regions"`
	Schemas map[string][]fileTable `yaml:"schemas"`
}

type fileRegion struct {
	Code   string `yaml:"code"`
	Schema string `yaml:"schema"`
}

type fileTable struct {
	Table  string   `yaml:"table"`
	Labels []string `yaml:"labels"`
}

// Load reads a YAML catalog document from path and returns a validated registry.
func Load(path string) (*Registry, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(content)
}

// Parse builds a validated registry from a YAML catalog document.
func Parse(data []byte) (*Registry, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidCatalog, err)
	}

	var opts []Option
	if doc.Catalog != "" {
		opts = append(opts, WithCatalogMaster(doc.Catalog))
	}
	for _, region := range doc.Regions {
		opts = append(opts, WithRegion(region.Code, region.Schema))
	}

	// Map iteration order is random; sort schemas so Schemas() is stable.
	schemas := make([]string, 0, len(doc.Schemas))
	for schema := range doc.Schemas {
		schemas = append(schemas, schema)
	}
	slices.Sort(schemas)
	for _, schema := range schemas {
		for _, t := range doc.Schemas[schema] {
			labels := make([]core.Label, len(t.Labels))
			for i, l := range t.Labels {
				labels[i] = core.Label(l)
			}
			opts = append(opts, WithTable(schema, t.Table, labels...))
		}
	}

	reg := NewRegistry(opts...)
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
