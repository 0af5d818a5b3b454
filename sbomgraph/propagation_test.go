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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/shared"
)

func propagate(t *testing.T, doc dtos.Document) (*Graph, Forest) {
	t.Helper()
	g := build(t, doc)
	return g, Propagate(g.Registry, g.Diagnostics)
}

func components(refs ...string) []dtos.ComponentRecord {
	res := make([]dtos.ComponentRecord, 0, len(refs))
	for _, ref := range refs {
		res = append(res, component(ref))
	}
	return res
}

func vulnIDs(vulns []normalize.Vulnerability) []string {
	res := make([]string, 0, len(vulns))
	for _, v := range vulns {
		res = append(res, v.ID)
	}
	return res
}

func TestPropagate(t *testing.T) {
	t.Run("should propagate a vulnerability along a chain", func(t *testing.T) {
		g, forest := propagate(t, dtos.Document{
			Components:      components("A", "B", "C"),
			Dependencies:    []dtos.DependencyRecord{dependency("A", "B"), dependency("B", "C")},
			Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "high", "C")},
		})

		a, b, c := mustGet(t, g.Registry, "A"), mustGet(t, g.Registry, "B"), mustGet(t, g.Registry, "C")
		assert.Equal(t, normalize.SeverityHigh, c.MaxSeverity)
		assert.False(t, c.HasTransitiveVulnerabilities)
		assert.Empty(t, c.TransitiveVulnerabilities())

		assert.Equal(t, c.Vulnerabilities(), b.TransitiveVulnerabilities())
		assert.True(t, b.HasTransitiveVulnerabilities)
		assert.Equal(t, normalize.SeverityClean, b.MaxSeverity)

		assert.Equal(t, c.Vulnerabilities(), a.TransitiveVulnerabilities())
		assert.True(t, a.HasTransitiveVulnerabilities)

		require.Len(t, forest, 1)
		root := forest[0]
		assert.Equal(t, "A", root.Ref)
		assert.Equal(t, ClassificationIndirect, root.Classification)
		assert.Equal(t, ClassificationIndirect, root.Children[0].Classification)
		assert.Equal(t, Classification("high"), root.Children[0].Children[0].Classification)
	})

	t.Run("should duplicate shared dependencies per path", func(t *testing.T) {
		g, forest := propagate(t, dtos.Document{
			Components:      components("R1", "R2", "D"),
			Dependencies:    []dtos.DependencyRecord{dependency("R1", "D"), dependency("R2", "D")},
			Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "critical", "D")},
		})

		require.Len(t, forest, 2)
		d1, d2 := forest[0].Children[0], forest[1].Children[0]
		assert.Equal(t, "D", d1.Ref)
		assert.Equal(t, "D", d2.Ref)
		assert.NotSame(t, d1, d2)
		assert.Equal(t, Classification("critical"), d1.Classification)
		assert.Equal(t, Classification("critical"), d2.Classification)
		assert.True(t, mustGet(t, g.Registry, "R1").HasTransitiveVulnerabilities)
		assert.True(t, mustGet(t, g.Registry, "R2").HasTransitiveVulnerabilities)
	})

	t.Run("should terminate on a mutual cycle and sweep it into the forest", func(t *testing.T) {
		g, forest := propagate(t, dtos.Document{
			Components:      components("A", "B"),
			Dependencies:    []dtos.DependencyRecord{dependency("A", "B"), dependency("B", "A")},
			Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "low", "B")},
		})

		require.Len(t, forest, 1)
		assert.Equal(t, "A", forest[0].Ref)
		assert.Equal(t, 1, forest.Count("A"))
		assert.Equal(t, 1, forest.Count("B"))

		cycle := forest[0].Children[0].Children[0]
		assert.True(t, cycle.Cycle)
		assert.Equal(t, "A", cycle.Ref)
		assert.Empty(t, cycle.Children)
		assert.Equal(t, 1, cycle.Weight)

		diags := g.Diagnostics.OfKind(shared.DiagnosticCycle)
		require.Len(t, diags, 1)
		assert.Contains(t, diags[0].Message, "A --> B --> A")

		assert.True(t, mustGet(t, g.Registry, "A").HasTransitiveVulnerabilities)
		assert.True(t, mustGet(t, g.Registry, "B").HasTransitiveVulnerabilities)
		for _, c := range g.Registry.Components() {
			assert.True(t, c.Visited)
		}
	})

	t.Run("should terminate on a self reference", func(t *testing.T) {
		g, forest := propagate(t, dtos.Document{
			Components:   components("A", "B"),
			Dependencies: []dtos.DependencyRecord{dependency("A", "B"), dependency("B", "B")},
		})

		require.Len(t, forest, 1)
		assert.True(t, forest[0].Children[0].Children[0].Cycle)
		assert.False(t, mustGet(t, g.Registry, "A").HasTransitiveVulnerabilities)
	})

	t.Run("should complete closures inside cycles", func(t *testing.T) {
		// C only reaches E through B, which is still being walked when the cycle is detected
		g, _ := propagate(t, dtos.Document{
			Components: components("A", "B", "C", "D", "E"),
			Dependencies: []dtos.DependencyRecord{
				dependency("A", "B"),
				dependency("B", "C", "D"),
				dependency("C", "B"),
				dependency("D", "E"),
			},
			Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "medium", "E")},
		})

		for _, ref := range []string{"A", "B", "C", "D"} {
			c := mustGet(t, g.Registry, ref)
			assert.True(t, c.HasTransitiveVulnerabilities, ref)
			assert.Equal(t, []string{"CVE-1"}, vulnIDs(c.TransitiveVulnerabilities()), ref)
		}
		assert.False(t, mustGet(t, g.Registry, "E").HasTransitiveVulnerabilities)
	})

	t.Run("should only report reachable vulnerabilities", func(t *testing.T) {
		g, _ := propagate(t, dtos.Document{
			Components:      components("A", "B", "C"),
			Dependencies:    []dtos.DependencyRecord{dependency("A", "B"), dependency("C", "A")},
			Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "high", "C")},
		})

		assert.False(t, mustGet(t, g.Registry, "A").HasTransitiveVulnerabilities)
		assert.False(t, mustGet(t, g.Registry, "B").HasTransitiveVulnerabilities)
		assert.False(t, mustGet(t, g.Registry, "C").HasTransitiveVulnerabilities)
		assert.Equal(t, ClassificationClean, Classify(mustGet(t, g.Registry, "A")))
	})

	t.Run("should sum the weight of the children", func(t *testing.T) {
		_, forest := propagate(t, dtos.Document{
			Components:   components("A", "B", "C", "D", "E"),
			Dependencies: []dtos.DependencyRecord{dependency("A", "B", "C"), dependency("B", "D", "E")},
		})

		require.Len(t, forest, 1)
		assert.Equal(t, 3, forest[0].Weight)
		assert.Equal(t, 2, forest[0].Children[0].Weight)
		assert.Equal(t, 1, forest[0].Children[1].Weight)
	})

	t.Run("should produce the same forest for the same document", func(t *testing.T) {
		doc := dtos.Document{
			Components:      append(components("A", "B", "C"), dtos.ComponentRecord{Name: "anonymous", Version: "1"}),
			Dependencies:    []dtos.DependencyRecord{dependency("A", "B", "C"), dependency("C", "A"), dependency("B", "x/y@1")},
			Vulnerabilities: []dtos.VulnerabilityRecord{vulnerability("CVE-1", "high", "C")},
		}
		g1, f1 := propagate(t, doc)
		g2, f2 := propagate(t, doc)

		assert.Equal(t, f1, f2)
		refs := func(g *Graph) []string {
			res := make([]string, 0)
			for _, c := range g.Registry.Components() {
				res = append(res, c.Ref)
			}
			return res
		}
		assert.Equal(t, refs(g1), refs(g2))
	})

	t.Run("should reset the visited flag before walking again", func(t *testing.T) {
		g, _ := propagate(t, dtos.Document{Components: components("A")})
		forest := Propagate(g.Registry, nil)
		assert.Len(t, forest, 1)
	})
}

func TestClassify(t *testing.T) {
	c := newComponent("a")
	assert.Equal(t, ClassificationClean, Classify(c))

	c.HasTransitiveVulnerabilities = true
	assert.Equal(t, ClassificationIndirect, Classify(c))

	c.AddVulnerability(normalize.Vulnerability{ID: "CVE-1", Severity: normalize.SeverityLow, Vector: "-"})
	assert.Equal(t, Classification("low"), Classify(c))
}
