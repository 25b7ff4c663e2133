package catalog

import "github.com/poiesic/ector/core"

// Tables present in every regional gold schema.
const (
	TableCalibrationMonitoring = "calibration_monitoring"
	TableMeasurementProcessed  = "measurement_processed"
)

// DefaultRegions maps the deployed region codes to their schemas.
func DefaultRegions() []core.Region {
	return []core.Region{
		{Code: "ae", Schema: "ae_cosmos_origin_s1"},
		{Code: "ca", Schema: "ca_cosmos_origin_s1"},
		{Code: "qa", Schema: "qa_cosmos_origin_s1"},
		{Code: "sa", Schema: "sa_ca_cosmos_origin_s1"},
	}
}

// DefaultOptions returns the options that build the deployed registry.
// Callers may append further options to extend it.
func DefaultOptions() []Option {
	opts := []Option{WithCatalogMaster(DefaultCatalogMaster)}
	for _, region := range DefaultRegions() {
		opts = append(opts,
			WithRegion(region.Code, region.Schema),
			// Both tables feed the surgeon and patient workflows.
			WithTable(region.Schema, TableCalibrationMonitoring, core.LabelSurgeon, core.LabelPatient),
			WithTable(region.Schema, TableMeasurementProcessed, core.LabelSurgeon, core.LabelPatient),
		)
	}
	return opts
}

// DefaultRegistry returns the registry for the deployed regions.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultOptions()...)
}
