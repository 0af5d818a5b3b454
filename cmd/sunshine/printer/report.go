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

package printer

import (
	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/sbomgraph"
	"github.com/l3montree-dev/sunshine/shared"
)

type ComponentView struct {
	Ref                          string                    `json:"ref" yaml:"ref"`
	Name                         string                    `json:"name" yaml:"name"`
	Version                      string                    `json:"version" yaml:"version"`
	Type                         string                    `json:"type" yaml:"type"`
	PackageURL                   string                    `json:"purl,omitempty" yaml:"purl,omitempty"`
	Ecosystem                    string                    `json:"ecosystem,omitempty" yaml:"ecosystem,omitempty"`
	Licenses                     []string                  `json:"licenses" yaml:"licenses"`
	DependsOn                    []string                  `json:"dependsOn" yaml:"dependsOn"`
	DependencyOf                 []string                  `json:"dependencyOf" yaml:"dependencyOf"`
	Vulnerabilities              []normalize.Vulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
	TransitiveVulnerabilities    []normalize.Vulnerability `json:"transitiveVulnerabilities" yaml:"transitiveVulnerabilities"`
	MaxSeverity                  normalize.Severity        `json:"maxSeverity" yaml:"maxSeverity"`
	HasTransitiveVulnerabilities bool                      `json:"hasTransitiveVulnerabilities" yaml:"hasTransitiveVulnerabilities"`
	Classification               sbomgraph.Classification  `json:"classification" yaml:"classification"`
	Placeholder                  bool                      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	SyntheticRef                 bool                      `json:"syntheticRef,omitempty" yaml:"syntheticRef,omitempty"`
}

// Report is the serializable result of analyzing a single document.
type Report struct {
	Source          string                               `json:"source" yaml:"source"`
	Metadata        sbomgraph.Metadata                   `json:"metadata" yaml:"metadata"`
	Components      []ComponentView                      `json:"components" yaml:"components"`
	Vulnerabilities []*sbomgraph.AggregatedVulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
	Counts          map[normalize.Severity]int           `json:"counts" yaml:"counts"`
	Forest          sbomgraph.Forest                     `json:"forest" yaml:"forest"`
	Diagnostics     []shared.Diagnostic                  `json:"diagnostics" yaml:"diagnostics"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func NewComponentView(c *sbomgraph.Component) ComponentView {
	ecosystem, _ := normalize.PurlType(c.PackageURL)
	return ComponentView{
		Ref:                          c.Ref,
		Name:                         c.Name,
		Version:                      c.Version,
		Type:                         c.Type,
		PackageURL:                   c.PackageURL,
		Ecosystem:                    ecosystem,
		Licenses:                     nonNil(c.Licenses),
		DependsOn:                    nonNil(c.DependsOn()),
		DependencyOf:                 nonNil(c.DependencyOf()),
		Vulnerabilities:              nonNil(c.Vulnerabilities()),
		TransitiveVulnerabilities:    nonNil(c.TransitiveVulnerabilities()),
		MaxSeverity:                  c.MaxSeverity,
		HasTransitiveVulnerabilities: c.HasTransitiveVulnerabilities,
		Classification:               sbomgraph.Classify(c),
		Placeholder:                  c.Placeholder,
		SyntheticRef:                 c.SyntheticRef,
	}
}

// NewReport selects the full or the vulnerable only view of a result.
func NewReport(source string, res sbomgraph.Result, onlyVulnerable bool) Report {
	reg, forest := res.Registry, res.Forest
	if onlyVulnerable {
		reg, forest = res.VulnerableRegistry, res.VulnerableForest
	}

	components := make([]ComponentView, 0, reg.Len())
	for _, c := range reg.Components() {
		components = append(components, NewComponentView(c))
	}

	return Report{
		Source:          source,
		Metadata:        res.Metadata,
		Components:      components,
		Vulnerabilities: res.Aggregation.Vulnerabilities,
		Counts:          res.Aggregation.Counts,
		Forest:          forest,
		Diagnostics:     nonNil(res.Diagnostics),
	}
}
