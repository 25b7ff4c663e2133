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


// Package catalog holds the static configuration of the regional data
// platform: which schema each region maps to, which tables live in that
// schema, and which workflows consume each table.
//
// A Registry is built once and never mutated afterwards, so it can be shared
// freely between the ingestion adapter, the verifier and the CLI:
//
//	reg := catalog.DefaultRegistry()
//	result, err := reg.FilterWorkflow("ae", core.LabelSurgeon, core.LabelPatient)
//
// Alternate catalogs (other deployments, test doubles) are built with
// options or loaded from YAML:
//
//	reg := catalog.NewRegistry(
//	    catalog.WithRegion("ae", "ae_schema"),
//	    catalog.WithTable("ae_schema", "visits", core.LabelPatient),
//	)
//	reg, err := catalog.Load("/etc/ector/catalog.yaml")
//
// # Ordering
//
// Tables are kept in registration order and FilterWorkflow walks them in
// that order, so results are deterministic for a given registry.
package catalog
