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


// Package storage provides the table-store abstraction for ector.
//
// The ingestion adapter only ever asks a store for a handle to a
// fully-qualified table (TableReader). Everything else about the store
// (where the metadata lives, how the session is opened) belongs to the
// backend packages:
//
//   - badger: a local BadgerDB metastore, also used in-memory by tests
//   - postgres: resolves tables through information_schema
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage interfaces rather than
// concrete types, so consumers cannot couple to a particular backend:
//
//	store, err := badger.NewTableStore(backend)  // returns storage.TableRegistry
//
// # Errors
//
// Backends report unknown tables with ErrTableNotFound (wrapped with the
// qualified name). Any other error is the store's own and is passed through
// to callers unchanged.
//
// # Context Support
//
// All store methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
