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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3montree-dev/sunshine/dtos"
)

func TestAnalyze(t *testing.T) {
	doc := dtos.Document{
		SpecVersion: "1.6",
		Metadata:    &dtos.Metadata{Component: &dtos.ComponentRecord{BOMRef: "app", Name: "app", Version: "1.0.0"}},
		Components:  components("lib-a", "lib-b", "lib-c"),
		Dependencies: []dtos.DependencyRecord{
			dependency("app", "lib-a", "lib-b"),
			dependency("lib-a", "lib-c"),
		},
		Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "critical", "lib-c")},
	}

	t.Run("should run the whole pipeline", func(t *testing.T) {
		res := Analyze(doc, WithDiagnostics(quietDiagnostics()))

		assert.Equal(t, 4, res.Registry.Len())
		require.Len(t, res.Forest, 1)
		assert.Equal(t, "app", res.Forest[0].Ref)

		assert.Equal(t, 3, res.VulnerableRegistry.Len())
		require.Len(t, res.VulnerableForest, 1)
		assert.Equal(t, "app", res.VulnerableForest[0].Ref)
		require.Len(t, res.VulnerableForest[0].Children, 1)
		assert.Equal(t, "lib-a", res.VulnerableForest[0].Children[0].Ref)

		assert.Equal(t, 1, res.Aggregation.Total())
		assert.Equal(t, 4, res.Metadata.Components)
		assert.Equal(t, 1, res.Metadata.Vulnerabilities)
		assert.Equal(t, "1.6", res.Metadata.SpecVersion)
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("should analyze independent documents concurrently", func(t *testing.T) {
		const n = 8
		results := make([]Result, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d := dtos.Document{
					Components:   components(fmt.Sprintf("root-%d", i), "shared"),
					Dependencies: []dtos.DependencyRecord{dependency(fmt.Sprintf("root-%d", i), "shared", fmt.Sprintf("pkg:npm/dep-%d@1.0.0", i))},
				}
				results[i] = Analyze(d, WithDiagnostics(quietDiagnostics()))
			}()
		}
		wg.Wait()

		for i, res := range results {
			assert.Equal(t, 3, res.Registry.Len())
			assert.True(t, res.Registry.Has(fmt.Sprintf("pkg:npm/dep-%d@1.0.0", i)))
			assert.Len(t, res.Diagnostics, 1)
		}
	})
}
