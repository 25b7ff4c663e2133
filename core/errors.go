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


package core

import "errors"

// Catalog lookup errors
var (
	// ErrInvalidRegion indicates a region code is not part of the catalog.
	ErrInvalidRegion = errors.New("invalid region code")

	// ErrUnknownSchema indicates a schema has no registered tables.
	ErrUnknownSchema = errors.New("no tables registered for schema")
)

// Domain validation errors
var (
	// ErrInvalidCatalog indicates a catalog configuration failed validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrEmptyRegionCode indicates the region Code field is empty.
	ErrEmptyRegionCode = errors.New("region code cannot be empty")

	// ErrEmptySchema indicates a schema identifier is empty.
	ErrEmptySchema = errors.New("schema identifier cannot be empty")

	// ErrEmptyTableName indicates the table Name field is empty.
	ErrEmptyTableName = errors.New("table name cannot be empty")

	// ErrEmptyLabels indicates a table has no workflow labels.
	ErrEmptyLabels = errors.New("table must have at least one label")

	// ErrDuplicateLabel indicates a table lists the same label twice.
	ErrDuplicateLabel = errors.New("duplicate label")

	// ErrInvalidTableRef indicates a fully-qualified table name is malformed.
	ErrInvalidTableRef = errors.New("invalid table reference")
)
