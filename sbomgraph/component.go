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
	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/utils"
)

// Component is a node of the dependency graph. Adjacency is only changed
// through Registry.Link so depends-on and dependency-of stay inverse.
type Component struct {
	Ref         string
	Name        string
	Version     string
	Type        string
	Group       string
	PackageURL  string
	Description string
	Licenses    []string

	MaxSeverity                  normalize.Severity
	HasTransitiveVulnerabilities bool
	Visited                      bool

	// Placeholder is set for components which were only referenced but never declared.
	Placeholder bool
	// SyntheticRef is set if the identity was derived from the record content.
	// Such components still carry their declared data, so Placeholder stays false.
	SyntheticRef bool

	dependsOn    utils.OrderedSet[string]
	dependencyOf utils.OrderedSet[string]

	vulnerabilities utils.OrderedSet[normalize.Vulnerability]
	transitive      utils.OrderedSet[normalize.Vulnerability]
}

func newComponent(ref string) *Component {
	return &Component{
		Ref:         ref,
		Name:        ref,
		Version:     normalize.Unknown,
		Type:        normalize.Unknown,
		Licenses:    []string{},
		MaxSeverity: normalize.SeverityClean,
	}
}

func newPlaceholder(ref string) *Component {
	c := newComponent(ref)
	c.Placeholder = true
	return c
}

func (c *Component) DependsOn() []string {
	return c.dependsOn.Items()
}

func (c *Component) DependencyOf() []string {
	return c.dependencyOf.Items()
}

// Vulnerabilities returns the direct vulnerabilities in the order they were added.
func (c *Component) Vulnerabilities() []normalize.Vulnerability {
	return c.vulnerabilities.Items()
}

func (c *Component) TransitiveVulnerabilities() []normalize.Vulnerability {
	return c.transitive.Items()
}

// AddVulnerability records a direct vulnerability. Duplicates are ignored,
// the max severity is the running maximum of all direct vulnerabilities.
func (c *Component) AddVulnerability(v normalize.Vulnerability) bool {
	if !c.vulnerabilities.Add(v) {
		return false
	}
	c.MaxSeverity = c.MaxSeverity.Max(v.Severity)
	return true
}

func (c *Component) IsVulnerable() bool {
	return c.vulnerabilities.Len() > 0
}

// IsAffected reports whether the component has any direct or transitive vulnerability.
func (c *Component) IsAffected() bool {
	return c.vulnerabilities.Len() > 0 || c.transitive.Len() > 0
}

// absorb unions the direct and transitive vulnerabilities of other into the
// transitive set and reports whether anything changed.
func (c *Component) absorb(other *Component) bool {
	changed := !c.HasTransitiveVulnerabilities
	c.HasTransitiveVulnerabilities = true
	for _, v := range other.vulnerabilities.Items() {
		if c.transitive.Add(v) {
			changed = true
		}
	}
	for _, v := range other.transitive.Items() {
		if c.transitive.Add(v) {
			changed = true
		}
	}
	return changed
}

func (c *Component) resetPropagation() {
	c.Visited = false
	c.HasTransitiveVulnerabilities = false
	c.transitive = utils.OrderedSet[normalize.Vulnerability]{}
}

// clone copies the component without its adjacency.
func (c *Component) clone() *Component {
	res := &Component{
		Ref:                          c.Ref,
		Name:                         c.Name,
		Version:                      c.Version,
		Type:                         c.Type,
		Group:                        c.Group,
		PackageURL:                   c.PackageURL,
		Description:                  c.Description,
		Licenses:                     append([]string{}, c.Licenses...),
		MaxSeverity:                  c.MaxSeverity,
		HasTransitiveVulnerabilities: c.HasTransitiveVulnerabilities,
		Placeholder:                  c.Placeholder,
		SyntheticRef:                 c.SyntheticRef,
	}
	res.vulnerabilities = *c.vulnerabilities.Clone()
	res.transitive = *c.transitive.Clone()
	return res
}

// DisplayName is the name used for rendering, placeholders keep the raw reference.
func (c *Component) DisplayName() string {
	if c.Placeholder {
		return c.Name
	}
	return normalize.DisplayName(c.Name, c.PackageURL)
}
