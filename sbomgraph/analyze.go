// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package sbomgraph

import (
	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/shared"
)

// Result contains everything derived from a single document.
type Result struct {
	Registry           *Registry
	Forest             Forest
	VulnerableRegistry *Registry
	VulnerableForest   Forest
	Aggregation        Aggregation
	Metadata           Metadata
	Diagnostics        []shared.Diagnostic
}

// Analyze builds and propagates a document. Every call uses its own resolver,
// independent documents may be analyzed concurrently.
func Analyze(doc dtos.Document, opts ...Option) Result {
	o := buildOptions(opts)
	graph := Build(doc, WithLogger(o.logger), WithDiagnostics(o.diags), WithReferenceCacheSize(o.cacheSize))

	forest := Propagate(graph.Registry, o.diags)
	vulnerable := OnlyVulnerable(graph.Registry)
	vulnerableForest := Propagate(vulnerable, nil)
	aggregation := Aggregate(graph.Registry)

	metadata := SummarizeMetadata(doc)
	metadata.Components = graph.Registry.Len()
	metadata.Vulnerabilities = aggregation.Total()

	return Result{
		Registry:           graph.Registry,
		Forest:             forest,
		VulnerableRegistry: vulnerable,
		VulnerableForest:   vulnerableForest,
		Aggregation:        aggregation,
		Metadata:           metadata,
		Diagnostics:        o.diags.Entries(),
	}
}
