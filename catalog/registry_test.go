package catalog

import (
	"testing"

	"github.com/poiesic/ector/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	require.NoError(t, reg.Validate())
	assert.Equal(t, "hive_metastore", reg.CatalogMaster())
	assert.Equal(t, []string{"ae", "ca", "qa", "sa"}, reg.RegionCodes())

	schema, err := reg.ResolveRegion("sa")
	require.NoError(t, err)
	assert.Equal(t, "sa_ca_cosmos_origin_s1", schema)

	for _, region := range reg.Regions() {
		tables, err := reg.LookupTables(region.Schema)
		require.NoError(t, err, region.Code)
		require.Len(t, tables, 2)
		assert.Equal(t, TableCalibrationMonitoring, tables[0].Name)
		assert.Equal(t, TableMeasurementProcessed, tables[1].Name)
		assert.Equal(t, []core.Label{core.LabelSurgeon, core.LabelPatient}, tables[0].Labels)
	}
}

func TestResolveRegion(t *testing.T) {
	reg := DefaultRegistry()

	t.Run("known code", func(t *testing.T) {
		schema, err := reg.ResolveRegion("ae")
		require.NoError(t, err)
		assert.Equal(t, "ae_cosmos_origin_s1", schema)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := reg.ResolveRegion("zz")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidRegion)
		assert.Contains(t, err.Error(), "zz")
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := reg.ResolveRegion("")
		assert.ErrorIs(t, err, core.ErrInvalidRegion)
	})
}

func TestLookupTables(t *testing.T) {
	reg := NewRegistry(
		WithRegion("xx", "xx_schema"),
		WithTable("yy_schema", "visits", core.LabelPatient),
		WithRegion("yy", "yy_schema"),
	)

	t.Run("schema without tables", func(t *testing.T) {
		_, err := reg.LookupTables("xx_schema")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrUnknownSchema)
	})

	t.Run("returns copies", func(t *testing.T) {
		tables, err := reg.LookupTables("yy_schema")
		require.NoError(t, err)
		tables[0].Labels[0] = core.LabelSurgeon
		tables[0].Name = "mutated"

		again, err := reg.LookupTables("yy_schema")
		require.NoError(t, err)
		assert.Equal(t, "visits", again[0].Name)
		assert.Equal(t, []core.Label{core.LabelPatient}, again[0].Labels)
	})
}

func TestWithTable_ReplacesExisting(t *testing.T) {
	reg := NewRegistry(
		WithRegion("ae", "s"),
		WithTable("s", "a", core.LabelSurgeon),
		WithTable("s", "b", core.LabelPatient),
		WithTable("s", "a", core.LabelPatient),
	)

	tables, err := reg.LookupTables("s")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "a", tables[0].Name)
	assert.Equal(t, []core.Label{core.LabelPatient}, tables[0].Labels)
	assert.Equal(t, []string{"s"}, reg.Schemas())
}

func TestWithTable_LabelsAreASet(t *testing.T) {
	labels := []core.Label{core.LabelPatient, core.LabelSurgeon, core.LabelPatient}
	reg := NewRegistry(
		WithRegion("ae", "s"),
		WithTable("s", "a", labels...),
	)

	tables, err := reg.LookupTables("s")
	require.NoError(t, err)
	assert.Equal(t, []core.Label{core.LabelPatient, core.LabelSurgeon}, tables[0].Labels)
	assert.Len(t, labels, 3, "caller slice untouched")
	assert.NoError(t, reg.Validate())
}

func TestRegionTables(t *testing.T) {
	reg := DefaultRegistry()

	refs, tables, err := reg.RegionTables("ca")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Len(t, tables, 2)
	assert.Equal(t, "hive_metastore.ca_cosmos_origin_s1.calibration_monitoring", refs[0].String())
	assert.Equal(t, "hive_metastore.ca_cosmos_origin_s1.measurement_processed", refs[1].String())

	_, _, err = reg.RegionTables("zz")
	assert.ErrorIs(t, err, core.ErrInvalidRegion)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name: "valid",
			opts: []Option{
				WithRegion("ae", "s1"),
				WithTable("s1", "t", core.LabelSurgeon),
			},
		},
		{
			name:    "no regions",
			opts:    nil,
			wantErr: core.ErrInvalidCatalog,
		},
		{
			name: "empty catalog master",
			opts: []Option{
				WithCatalogMaster(""),
				WithRegion("ae", "s1"),
				WithTable("s1", "t", core.LabelSurgeon),
			},
			wantErr: core.ErrInvalidCatalog,
		},
		{
			name: "duplicate region code",
			opts: []Option{
				WithRegion("ae", "s1"),
				WithRegion("ae", "s2"),
				WithTable("s1", "t", core.LabelSurgeon),
				WithTable("s2", "t", core.LabelSurgeon),
			},
			wantErr: core.ErrInvalidCatalog,
		},
		{
			name: "shared schema",
			opts: []Option{
				WithRegion("ae", "s1"),
				WithRegion("ca", "s1"),
				WithTable("s1", "t", core.LabelSurgeon),
			},
			wantErr: core.ErrInvalidCatalog,
		},
		{
			name: "region without tables",
			opts: []Option{
				WithRegion("ae", "s1"),
			},
			wantErr: core.ErrUnknownSchema,
		},
		{
			name: "table without labels",
			opts: []Option{
				WithRegion("ae", "s1"),
				WithTable("s1", "t"),
			},
			wantErr: core.ErrEmptyLabels,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry(tt.opts...).Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegions_FirstRegistrationWins(t *testing.T) {
	reg := NewRegistry(
		WithRegion("ae", "s1"),
		WithRegion("ae", "s2"),
	)

	schema, err := reg.ResolveRegion("ae")
	require.NoError(t, err)
	assert.Equal(t, "s1", schema)
	assert.Equal(t, []core.Region{{Code: "ae", Schema: "s1"}}, reg.Regions())
}
