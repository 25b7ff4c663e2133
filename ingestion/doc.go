// Package ingestion reads the catalog tables of one or more regions from a
// table store and groups the resulting handles by workflow label.
//
// The Ingestor resolves each region through a Catalog, asks the store for a
// handle to every table of the region's schema, and appends that handle
// under each label the table carries. Handles are references only; no table
// data is read.
//
// Ingestion is synchronous and fails fast: the first lookup or store error
// aborts the call and no partial dataset is returned.
package ingestion
