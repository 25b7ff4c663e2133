// Package postgres resolves catalog tables against a Postgres-compatible
// metastore through information_schema. A table exists when the metastore
// lists it; its data is never queried.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/storage"
)

const (
	defaultDriver = "pgx"
	pingTimeout   = 5 * time.Second
)

var sqlOpen = sql.Open

const (
	lookupWithCatalog = `
		SELECT table_type
		FROM information_schema.tables
		WHERE table_catalog = $1 AND table_schema = $2 AND table_name = $3`

	lookupWithoutCatalog = `
		SELECT table_type
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_name = $2`
)

// TableStore implements storage.TableStore against information_schema.
type TableStore struct {
	db           *sql.DB
	matchCatalog bool
	logger       *slog.Logger
}

var _ storage.TableStore = (*TableStore)(nil)

// Option configures a TableStore.
type Option func(*TableStore) error

// WithMatchCatalog requires table_catalog to equal the reference's catalog.
// Off by default, since the platform catalog name rarely matches the
// Postgres database name.
func WithMatchCatalog(match bool) Option {
	return func(s *TableStore) error {
		s.matchCatalog = match
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *TableStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// Open connects to the metastore at dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (storage.TableStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}
	db, err := sqlOpen(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store, err := NewTableStore(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewTableStore wraps an open database handle. Close closes db.
func NewTableStore(db *sql.DB, opts ...Option) (*TableStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	s := &TableStore{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("store", "postgres")
	return s, nil
}

// ReadTable looks the table up in information_schema.tables.
func (s *TableStore) ReadTable(ctx context.Context, ref core.TableRef) (*core.TableHandle, error) {
	if err := core.ValidateTableRef(ref); err != nil {
		return nil, err
	}

	var row *sql.Row
	if s.matchCatalog {
		row = s.db.QueryRowContext(ctx, lookupWithCatalog, ref.Catalog, ref.Schema, ref.Table)
	} else {
		row = s.db.QueryRowContext(ctx, lookupWithoutCatalog, ref.Schema, ref.Table)
	}

	var tableType string
	if err := row.Scan(&tableType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, ref)
		}
		return nil, fmt.Errorf("lookup %s: %w", ref, err)
	}

	s.logger.Debug("resolved table", "table", ref.String(), "type", tableType)
	handle := core.NewTableHandle(ref)
	handle.Format = tableType
	return handle, nil
}

// Close closes the database handle.
func (s *TableStore) Close() error {
	return s.db.Close()
}
