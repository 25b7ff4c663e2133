package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/ector/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
catalog: main
regions:
  - code: ae
    schema: ae_gold
  - code: ca
    schema: ca_gold
schemas:
  ca_gold:
    - table: visits
      labels: [patient]
  ae_gold:
    - table: calibration_monitoring
      labels: [surgeon, patient]
    - table: visits
      labels: [patient]
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, "main", reg.CatalogMaster())
	assert.Equal(t, []string{"ae", "ca"}, reg.RegionCodes())
	assert.Equal(t, []string{"ae_gold", "ca_gold"}, reg.Schemas())

	tables, err := reg.LookupTables("ae_gold")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "calibration_monitoring", tables[0].Name)
	assert.Equal(t, []core.Label{core.LabelSurgeon, core.LabelPatient}, tables[0].Labels)

	result, err := reg.FilterWorkflow("ca", core.LabelPatient)
	require.NoError(t, err)
	assert.Equal(t, []string{"Processing patient data from 'visits' for region ca"}, result.Map()["patient"])
}

func TestParse_DefaultCatalogMaster(t *testing.T) {
	reg, err := Parse([]byte(`
regions:
  - code: ae
    schema: s
schemas:
  s:
    - table: t
      labels: [surgeon]
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogMaster, reg.CatalogMaster())
}

func TestParse_RepeatedLabels(t *testing.T) {
	reg, err := Parse([]byte(`
regions:
  - code: ae
    schema: s
schemas:
  s:
    - table: t1
      labels: [surgeon, patient, surgeon]
`))
	require.NoError(t, err)

	tables, err := reg.LookupTables("s")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []core.Label{core.LabelSurgeon, core.LabelPatient}, tables[0].Labels)

	result, err := reg.FilterWorkflow("ae", core.LabelSurgeon)
	require.NoError(t, err)
	assert.Len(t, result.Assignments[core.LabelSurgeon], 1)
}

func TestParse_Invalid(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("regions: [unterminated"))
		assert.ErrorIs(t, err, core.ErrInvalidCatalog)
	})

	t.Run("region without tables", func(t *testing.T) {
		_, err := Parse([]byte(`
regions:
  - code: ae
    schema: missing
`))
		assert.ErrorIs(t, err, core.ErrInvalidCatalog)
		assert.ErrorIs(t, err, core.ErrUnknownSchema)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ae", "ca"}, reg.RegionCodes())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
