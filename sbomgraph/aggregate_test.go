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
)

func TestAggregate(t *testing.T) {
	doc := dtos.Document{
		Components:   components("A", "B", "C"),
		Dependencies: []dtos.DependencyRecord{dependency("A", "B"), dependency("B", "C")},
		Vulnerabilities: []dtos.VulnerabilityRecord{
			vulnerability("CVE-1", "high", "C"),
			vulnerability("CVE-2", "low", "B"),
		},
	}

	t.Run("should group vulnerabilities and split direct from transitive components", func(t *testing.T) {
		g, _ := propagate(t, doc)
		agg := Aggregate(g.Registry)

		require.Len(t, agg.Vulnerabilities, 2)
		// A sees the vulnerabilities of B first
		assert.Equal(t, "CVE-2", agg.Vulnerabilities[0].ID)
		assert.Equal(t, []string{"B"}, agg.Vulnerabilities[0].DirectlyAffected)
		assert.Equal(t, []string{"A"}, agg.Vulnerabilities[0].TransitivelyAffected)

		assert.Equal(t, "CVE-1", agg.Vulnerabilities[1].ID)
		assert.Equal(t, []string{"C"}, agg.Vulnerabilities[1].DirectlyAffected)
		assert.Equal(t, []string{"A", "B"}, agg.Vulnerabilities[1].TransitivelyAffected)
	})

	t.Run("should not list a directly affected component as transitively affected", func(t *testing.T) {
		d := doc
		d.Vulnerabilities = append([]dtos.VulnerabilityRecord{}, doc.Vulnerabilities...)
		d.Vulnerabilities = append(d.Vulnerabilities, vulnerability("CVE-1", "high", "A"))
		g, _ := propagate(t, d)
		agg := Aggregate(g.Registry)

		var cve1 *AggregatedVulnerability
		for _, v := range agg.Vulnerabilities {
			if v.ID == "CVE-1" {
				cve1 = v
			}
		}
		require.NotNil(t, cve1)
		assert.Equal(t, []string{"A", "C"}, cve1.DirectlyAffected)
		assert.Equal(t, []string{"B"}, cve1.TransitivelyAffected)
	})

	t.Run("should count distinct vulnerabilities per severity", func(t *testing.T) {
		d := doc
		d.Vulnerabilities = append([]dtos.VulnerabilityRecord{}, doc.Vulnerabilities...)
		d.Vulnerabilities = append(d.Vulnerabilities,
			vulnerability("CVE-1", "high", "A"),
			vulnerability("CVE-3", "info", "A"),
			dtos.VulnerabilityRecord{ID: "CVE-4", Affects: []dtos.AffectsRecord{{Ref: "B"}}},
		)
		g, _ := propagate(t, d)
		agg := Aggregate(g.Registry)

		assert.Equal(t, 4, agg.Total())
		assert.Equal(t, map[normalize.Severity]int{
			normalize.SeverityCritical:    0,
			normalize.SeverityHigh:        1,
			normalize.SeverityMedium:      0,
			normalize.SeverityLow:         1,
			normalize.SeverityInformation: 2,
		}, agg.Counts)
	})

	t.Run("should keep the vector of the first occurrence", func(t *testing.T) {
		first := vulnerability("CVE-9", "high", "A")
		(*first.Ratings)[0].Vector = "CVSS:3.1/AV:N"
		g, _ := propagate(t, dtos.Document{
			Components:      components("A"),
			Vulnerabilities: []dtos.VulnerabilityRecord{first},
		})
		agg := Aggregate(g.Registry)
		require.Len(t, agg.Vulnerabilities, 1)
		assert.Equal(t, "CVSS:3.1/AV:N", agg.Vulnerabilities[0].Vector)
	})
}

func TestOnlyVulnerable(t *testing.T) {
	doc := dtos.Document{
		Components: components("A", "B", "C", "D", "E", "F"),
		Dependencies: []dtos.DependencyRecord{
			dependency("A", "B", "D"),
			dependency("B", "C", "E"),
			dependency("C", "B"),
			dependency("D", "F"),
		},
		Vulnerabilities: []dtos.VulnerabilityRecord{
			vulnerability("CVE-1", "high", "C"),
			vulnerability("CVE-2", "medium", "E"),
		},
	}

	t.Run("should only keep affected components with consistent adjacency", func(t *testing.T) {
		g, _ := propagate(t, doc)
		filtered := OnlyVulnerable(g.Registry)

		refs := make([]string, 0)
		for _, c := range filtered.Components() {
			refs = append(refs, c.Ref)
			assert.False(t, c.Visited)
		}
		assert.Equal(t, []string{"A", "B", "C", "E"}, refs)
		assert.Equal(t, []string{"B"}, mustGet(t, filtered, "A").DependsOn())
		assertAdjacencyIsInverse(t, filtered)
	})

	t.Run("should yield the same transitive sets when propagated again", func(t *testing.T) {
		g, _ := propagate(t, doc)
		filtered := OnlyVulnerable(g.Registry)
		Propagate(filtered, nil)

		for _, c := range filtered.Components() {
			original := mustGet(t, g.Registry, c.Ref)
			assert.ElementsMatch(t, original.TransitiveVulnerabilities(), c.TransitiveVulnerabilities(), c.Ref)
			assert.Equal(t, original.HasTransitiveVulnerabilities, c.HasTransitiveVulnerabilities, c.Ref)
			assert.Equal(t, original.Vulnerabilities(), c.Vulnerabilities(), c.Ref)
		}
	})

	t.Run("should not share state with the original registry", func(t *testing.T) {
		g, _ := propagate(t, doc)
		filtered := OnlyVulnerable(g.Registry)

		mustGet(t, filtered, "A").AddVulnerability(normalize.Vulnerability{ID: "CVE-X", Severity: normalize.SeverityLow, Vector: "-"})
		assert.Empty(t, mustGet(t, g.Registry, "A").Vulnerabilities())
		assert.Equal(t, []string{"B", "D"}, mustGet(t, g.Registry, "A").DependsOn())
	})
}

func TestSummarizeMetadata(t *testing.T) {
	t.Run("should extract the main component and the tools", func(t *testing.T) {
		m := SummarizeMetadata(dtos.Document{
			SpecVersion:  "1.5",
			SerialNumber: "urn:uuid:1",
			Version:      3,
			Metadata: &dtos.Metadata{
				Component: &dtos.ComponentRecord{
					Type:       dtos.ComponentTypeApplication,
					Name:       "app",
					Version:    "1.0",
					PackageURL: "pkg:npm/app@1.0",
					Properties: []dtos.Property{{Name: "buildId", Value: "42"}},
				},
				Tools: []dtos.Tool{{Vendor: "acme", Name: "scanner", Version: "0.1"}},
			},
		})

		require.NotNil(t, m.MainComponent)
		assert.Equal(t, "application", m.MainComponent.Type)
		assert.Equal(t, "app", m.MainComponent.Name)
		assert.Equal(t, map[string]string{"BuildId": "42"}, m.MainComponent.Properties)
		assert.Equal(t, "1.5", m.SpecVersion)
		assert.Equal(t, 3, m.Version)
		assert.Len(t, m.Tools, 1)
	})

	t.Run("should handle a document without metadata", func(t *testing.T) {
		m := SummarizeMetadata(dtos.Document{})
		assert.Nil(t, m.MainComponent)
		assert.Empty(t, m.Tools)
	})
}
