// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ector

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/ector/catalog"
	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/ingestion"
	"github.com/poiesic/ector/storage"
	"github.com/poiesic/ector/storage/badger"
	"github.com/poiesic/ector/verify"
)

// Workspace ties a catalog registry to a badger-backed table store.
type Workspace struct {
	backend  *badger.Backend
	store    storage.TableRegistry
	registry *catalog.Registry
	logger   *slog.Logger
}

// Option configures a Workspace.
type Option func(*workspaceOptions)

type workspaceOptions struct {
	inMemory bool
	registry *catalog.Registry
	logger   *slog.Logger
}

// WithInMemory keeps the table store in memory. The path is ignored.
func WithInMemory() Option {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// WithRegistry replaces the default catalog registry.
func WithRegistry(registry *catalog.Registry) Option {
	return func(o *workspaceOptions) {
		o.registry = registry
	}
}

// WithLogger sets the logger handed to components created by the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(o *workspaceOptions) {
		o.logger = logger
	}
}

// Open opens the table store at path and returns a workspace using the
// default catalog registry unless another is supplied.
func Open(path string, opts ...Option) (*Workspace, error) {
	options := &workspaceOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.registry == nil {
		options.registry = catalog.DefaultRegistry()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	if err := options.registry.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(path, options.inMemory, badger.WithBackendLogger(options.logger))
	if err != nil {
		return nil, err
	}

	store, err := badger.NewTableStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Workspace{
		backend:  backend,
		store:    store,
		registry: options.registry,
		logger:   options.logger,
	}, nil
}

func (w *Workspace) Close() error {
	if err := w.store.Close(); err != nil {
		w.logger.Error("error closing table store", "err", err)
		return err
	}
	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (w *Workspace) Registry() *catalog.Registry {
	return w.registry
}

func (w *Workspace) Store() storage.TableRegistry {
	return w.store
}

// Seed registers every table of every catalog region in the store.
// Returns the registered handles in catalog order.
func (w *Workspace) Seed(ctx context.Context) ([]*core.TableHandle, error) {
	var handles []*core.TableHandle
	for _, code := range w.registry.RegionCodes() {
		refs, _, err := w.registry.RegionTables(code)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			handles = append(handles, core.NewTableHandle(ref))
		}
	}

	registered, err := w.store.RegisterTables(ctx, handles...)
	if err != nil {
		return nil, err
	}
	w.logger.Info("seeded table store", "tables", len(registered))
	return registered, nil
}

func (w *Workspace) NewIngestor(opts ...ingestion.Option) (*ingestion.Ingestor, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(w.logger)}, opts...)
	return ingestion.NewIngestor(w.registry, w.store, opts...)
}

// NewVerifier creates a verifier over the workspace store.
// A nil config uses verify.DefaultConfig(); a config without a logger gets
// the workspace logger.
func (w *Workspace) NewVerifier(config *verify.Config, progress io.Writer) *verify.Verifier {
	if config == nil {
		config = verify.DefaultConfig()
	}
	if config.Logger == nil {
		withLogger := *config
		withLogger.Logger = w.logger
		config = &withLogger
	}
	return verify.NewVerifier(w.registry, w.store, config, progress)
}
