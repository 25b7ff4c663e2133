package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/storage"
)

// TableStore implements storage.TableRegistry on top of BadgerDB. It acts
// as a local mirror of the platform metastore: ReadTable succeeds for
// every table that has been registered.
type TableStore struct {
	backend *Backend
}

var _ storage.TableRegistry = (*TableStore)(nil)

// NewTableStore creates a table store on an open backend.
// The backend stays owned by the caller.
func NewTableStore(backend *Backend) (storage.TableRegistry, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}
	return &TableStore{backend: backend}, nil
}

// Close is a no-op; the backend is closed by its owner.
func (s *TableStore) Close() error {
	return nil
}

// ReadTable returns the registered handle for ref.
func (s *TableStore) ReadTable(ctx context.Context, ref core.TableRef) (*core.TableHandle, error) {
	if err := core.ValidateTableRef(ref); err != nil {
		return nil, err
	}

	var handle *core.TableHandle
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		handle, err = s.readTable(tx, makeTableKey(ref))
		if err != nil {
			return err
		}
		if handle == nil {
			return fmt.Errorf("%w: %s", storage.ErrTableNotFound, ref)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// RegisterTables adds or replaces table entries.
func (s *TableStore) RegisterTables(ctx context.Context, handles ...*core.TableHandle) ([]*core.TableHandle, error) {
	for _, handle := range handles {
		if err := core.ValidateTableRef(handle.Ref); err != nil {
			return nil, err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, handle := range handles {
			if handle.Id == 0 {
				handle.Id = core.IDFromContent(handle.Ref.String())
			}
			if handle.RegisteredAt.IsZero() {
				handle.RegisteredAt = now
			}
			if err := tx.Set(makeTableKey(handle.Ref), storage.MarshalTableHandle(handle)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	s.backend.logger.Debug("registered tables", "tables", len(handles))
	return handles, nil
}

// DropTables removes table entries.
func (s *TableStore) DropTables(ctx context.Context, refs ...core.TableRef) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, ref := range refs {
			key := makeTableKey(ref)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return fmt.Errorf("%w: %s", storage.ErrTableNotFound, ref)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListTables returns the tables of a schema ordered by table name.
func (s *TableStore) ListTables(ctx context.Context, catalog, schema string) ([]*core.TableHandle, error) {
	var handles []*core.TableHandle
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeSchemaPrefix(catalog, schema)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var handle *core.TableHandle
			err := iter.Item().Value(func(val []byte) error {
				var err error
				handle, err = storage.UnmarshalTableHandle(val)
				return err
			})
			if err != nil {
				return err
			}
			handles = append(handles, handle)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return handles, nil
}

// readTable reads a handle within a transaction.
// Returns nil, nil if the key does not exist.
func (s *TableStore) readTable(tx *badger.Txn, key []byte) (*core.TableHandle, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var handle *core.TableHandle
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		handle, unmarshalErr = storage.UnmarshalTableHandle(val)
		return unmarshalErr
	})
	return handle, err
}
