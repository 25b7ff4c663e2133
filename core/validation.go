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

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateRegion validates a Region according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - Schema must not be empty
func ValidateRegion(region Region) error {
	if strings.TrimSpace(region.Code) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, ErrEmptyRegionCode)
	}
	if strings.TrimSpace(region.Schema) == "" {
		return fmt.Errorf("%w: region %q: %w", ErrInvalidCatalog, region.Code, ErrEmptySchema)
	}
	return nil
}

// ValidateTable validates a catalog Table.
//
// Validation rules:
//   - Name must not be empty
//   - At least one label, none of them empty or repeated
func ValidateTable(table Table) error {
	if strings.TrimSpace(table.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, ErrEmptyTableName)
	}
	if len(table.Labels) == 0 {
		return fmt.Errorf("%w: table %q: %w", ErrInvalidCatalog, table.Name, ErrEmptyLabels)
	}
	for i, label := range table.Labels {
		if strings.TrimSpace(string(label)) == "" {
			return fmt.Errorf("%w: table %q has an empty label", ErrInvalidCatalog, table.Name)
		}
		if slices.Contains(table.Labels[:i], label) {
			return fmt.Errorf("%w: table %q: %w %q", ErrInvalidCatalog, table.Name, ErrDuplicateLabel, label)
		}
	}
	return nil
}

// ValidateTableRef checks that every part of a qualified name is set and
// free of separators.
func ValidateTableRef(ref TableRef) error {
	for _, part := range []string{ref.Catalog, ref.Schema, ref.Table} {
		if part == "" || strings.Contains(part, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidTableRef, ref.String())
		}
	}
	return nil
}
