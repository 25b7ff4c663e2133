package core

import (
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Table handles derive it from their fully-qualified name.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Label names the downstream workflow that consumes a table.
type Label string

const (
	// LabelSurgeon marks tables consumed by the surgeon workflow.
	LabelSurgeon Label = "surgeon"
	// LabelPatient marks tables consumed by the patient workflow.
	LabelPatient Label = "patient"
)

// DefaultLabels returns the workflow labels every ingested dataset starts with.
func DefaultLabels() []Label {
	return []Label{LabelSurgeon, LabelPatient}
}

// Region is a partition of the data platform addressed by a short code.
type Region struct {
	Code   string // Short code, e.g. "ae"
	Schema string // Schema identifier, e.g. "ae_cosmos_origin_s1"
}

// Table is a catalog entry: a table within a region schema and the
// workflows that consume it. Labels keep their registration order.
type Table struct {
	Name   string
	Labels []Label
}

// HasLabel reports whether the table is consumed by the given workflow.
func (t Table) HasLabel(label Label) bool {
	return slices.Contains(t.Labels, label)
}

// Clone returns a copy that shares no memory with t.
func (t Table) Clone() Table {
	return Table{Name: t.Name, Labels: slices.Clone(t.Labels)}
}

// TableRef is the fully-qualified name of a table in the external store.
type TableRef struct {
	Catalog string
	Schema  string
	Table   string
}

// String returns the reference as "catalog.schema.table".
func (r TableRef) String() string {
	return r.Catalog + "." + r.Schema + "." + r.Table
}

// ParseTableRef splits a "catalog.schema.table" name.
func ParseTableRef(name string) (TableRef, bool) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 {
		return TableRef{}, false
	}
	for _, p := range parts {
		if p == "" {
			return TableRef{}, false
		}
	}
	return TableRef{Catalog: parts[0], Schema: parts[1], Table: parts[2]}, true
}

// TableHandle is an opaque reference to tabular data held by an external
// store. The data behind it is never read by this module.
type TableHandle struct {
	Id           ID
	Ref          TableRef
	Format       string    // Storage format reported by the store (e.g. "delta", "BASE TABLE")
	Location     string    // Optional physical location
	RegisteredAt time.Time // When the store first saw the table
}

// NewTableHandle creates a handle for ref with a content-derived ID.
func NewTableHandle(ref TableRef) *TableHandle {
	return &TableHandle{
		Id:  IDFromContent(ref.String()),
		Ref: ref,
	}
}
