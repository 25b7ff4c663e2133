package storage

import (
	"context"

	"github.com/poiesic/ector/core"
)

// TableReader opens references to tables held by an external store.
// It is the only operation the ingestion adapter needs.
type TableReader interface {
	// ReadTable returns a handle to the table with the given qualified name.
	// The table data is not read. Returns ErrTableNotFound if the store
	// does not know the table; other failures come from the store itself.
	ReadTable(ctx context.Context, ref core.TableRef) (*core.TableHandle, error)
}

// TableStore is a long-lived session against an external table store.
// Implementations must be thread-safe and support concurrent access.
type TableStore interface {
	TableReader

	// Close releases the session. The store must not be used afterwards.
	Close() error
}

// TableRegistry is a TableStore that keeps its own table metadata and
// therefore supports registering and dropping tables.
type TableRegistry interface {
	TableStore

	// RegisterTables adds or replaces table entries.
	// Sets RegisteredAt if not already set and derives the ID from the
	// qualified name when it is zero.
	// Returns the handles with generated fields populated.
	RegisterTables(ctx context.Context, handles ...*core.TableHandle) ([]*core.TableHandle, error)

	// DropTables removes table entries.
	// Returns ErrTableNotFound if any table doesn't exist.
	DropTables(ctx context.Context, refs ...core.TableRef) error

	// ListTables returns the tables of a schema ordered by table name.
	ListTables(ctx context.Context, catalog, schema string) ([]*core.TableHandle, error)
}
