package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/ector/storage"
)

// Backend is one long-lived BadgerDB session holding the table metastore.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// BackendOption configures how the BadgerDB session is opened.
type BackendOption func(*backendConfig)

type backendConfig struct {
	logger     *slog.Logger
	syncWrites bool
}

// WithBackendLogger sets the logger badger messages are forwarded to.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(c *backendConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSyncWrites fsyncs every committed registration.
func WithSyncWrites(sync bool) BackendOption {
	return func(c *backendConfig) {
		c.syncWrites = sync
	}
}

// slogBadger forwards badger's printf-style logging to slog.
type slogBadger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogBadger)(nil)

func (l *slogBadger) log(level slog.Level, msg string, items []any) {
	l.logger.Log(context.Background(), level, fmt.Sprintf(msg, items...))
}

func (l *slogBadger) Errorf(msg string, items ...any)   { l.log(slog.LevelError, msg, items) }
func (l *slogBadger) Warningf(msg string, items ...any) { l.log(slog.LevelWarn, msg, items) }
func (l *slogBadger) Infof(msg string, items ...any)    { l.log(slog.LevelInfo, msg, items) }
func (l *slogBadger) Debugf(msg string, items ...any)   { l.log(slog.LevelDebug, msg, items) }

// OpenBackend opens the metastore at path, creating the directory if needed.
// With inMemory set the path is ignored and nothing touches disk.
func OpenBackend(path string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	cfg := &backendConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger.With("component", "badger")

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(path).WithSyncWrites(cfg.syncWrites)
	}
	badgerOpts.Logger = &slogBadger{logger: logger}
	// Handles are tiny; compression only costs CPU.
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened metastore", "path", path, "inMemory", inMemory)

	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Close closes the BadgerDB session.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the session is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction, read-write when isWrite is set.
// The transaction is discarded after fn returns; fn must Commit to persist.
// Returns storage.ErrStorageClosed once the session has been closed.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
