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


// Package verify checks that every table named by the catalog can be
// opened in a table store.
//
// Probes run on a bounded worker pool, transient store failures are retried
// with exponential backoff, and progress is written to a caller-supplied
// writer. Unlike ingestion, a failed probe does not stop the run: the
// Report lists every table with its outcome.
package verify
