package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"

	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMetastore is a database/sql driver that answers information_schema
// lookups from an in-memory table list.
type fakeMetastore struct {
	catalog string
	tables  map[string]string // "schema.table" -> table_type
	fail    error
	queries []string
}

func (f *fakeMetastore) Open(name string) (driver.Conn, error) {
	return &fakeConn{meta: f}, nil
}

type fakeConn struct {
	meta *fakeMetastore
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.meta.queries = append(c.meta.queries, query)
	if c.meta.fail != nil {
		return nil, c.meta.fail
	}

	var schema, table string
	switch len(args) {
	case 3:
		if args[0].Value.(string) != c.meta.catalog {
			return &fakeRows{}, nil
		}
		schema, table = args[1].Value.(string), args[2].Value.(string)
	case 2:
		schema, table = args[0].Value.(string), args[1].Value.(string)
	default:
		return nil, errors.New("unexpected argument count")
	}

	tableType, ok := c.meta.tables[schema+"."+table]
	if !ok {
		return &fakeRows{}, nil
	}
	return &fakeRows{values: []string{tableType}}, nil
}

type fakeRows struct {
	values []string
	pos    int
}

func (r *fakeRows) Columns() []string { return []string{"table_type"} }

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.pos]
	r.pos++
	return nil
}

var testMeta = &fakeMetastore{
	catalog: "lakehouse",
	tables: map[string]string{
		"ae_cosmos_origin_s1.calibration_monitoring": "BASE TABLE",
		"ae_cosmos_origin_s1.measurement_processed":  "VIEW",
	},
}

func init() {
	sql.Register("fakemetastore", testMeta)
}

func newTestStore(t *testing.T, opts ...Option) *TableStore {
	t.Helper()
	testMeta.fail = nil
	db, err := sql.Open("fakemetastore", "")
	require.NoError(t, err)
	store, err := NewTableStore(db, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReadTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("existing table", func(t *testing.T) {
		ref := core.TableRef{Catalog: "hive_metastore", Schema: "ae_cosmos_origin_s1", Table: "calibration_monitoring"}
		handle, err := store.ReadTable(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, ref, handle.Ref)
		assert.Equal(t, "BASE TABLE", handle.Format)
		assert.Equal(t, core.IDFromContent(ref.String()), handle.Id)
	})

	t.Run("view", func(t *testing.T) {
		ref := core.TableRef{Catalog: "hive_metastore", Schema: "ae_cosmos_origin_s1", Table: "measurement_processed"}
		handle, err := store.ReadTable(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "VIEW", handle.Format)
	})

	t.Run("missing table", func(t *testing.T) {
		ref := core.TableRef{Catalog: "hive_metastore", Schema: "zz", Table: "calibration_monitoring"}
		_, err := store.ReadTable(ctx, ref)
		assert.ErrorIs(t, err, storage.ErrTableNotFound)
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, err := store.ReadTable(ctx, core.TableRef{Schema: "s"})
		assert.ErrorIs(t, err, core.ErrInvalidTableRef)
	})
}

func TestReadTable_MatchCatalog(t *testing.T) {
	store := newTestStore(t, WithMatchCatalog(true))
	ctx := context.Background()

	_, err := store.ReadTable(ctx, core.TableRef{Catalog: "hive_metastore", Schema: "ae_cosmos_origin_s1", Table: "calibration_monitoring"})
	assert.ErrorIs(t, err, storage.ErrTableNotFound)

	handle, err := store.ReadTable(ctx, core.TableRef{Catalog: "lakehouse", Schema: "ae_cosmos_origin_s1", Table: "calibration_monitoring"})
	require.NoError(t, err)
	assert.Equal(t, "BASE TABLE", handle.Format)
}

func TestReadTable_StoreFailure(t *testing.T) {
	store := newTestStore(t)
	storeErr := errors.New("connection reset")
	testMeta.fail = storeErr
	defer func() { testMeta.fail = nil }()

	_, err := store.ReadTable(context.Background(), core.TableRef{Catalog: "c", Schema: "s", Table: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, storage.ErrTableNotFound)
}

func TestOpen(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		assert.Equal(t, defaultDriver, driverName)
		return sql.Open("fakemetastore", dsn)
	}
	defer func() { sqlOpen = orig }()

	store, err := Open(context.Background(), "postgres://metastore/lakehouse")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.ReadTable(context.Background(), core.TableRef{Catalog: "c", Schema: "ae_cosmos_origin_s1", Table: "calibration_monitoring"})
	assert.NoError(t, err)
}

func TestOpen_DriverError(t *testing.T) {
	orig := sqlOpen
	driverErr := errors.New("unknown driver")
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		return nil, driverErr
	}
	defer func() { sqlOpen = orig }()

	store, err := Open(context.Background(), "postgres://metastore/lakehouse")
	assert.ErrorIs(t, err, driverErr)
	assert.Nil(t, store)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestNewTableStore_NilDB(t *testing.T) {
	_, err := NewTableStore(nil)
	assert.Error(t, err)
}
