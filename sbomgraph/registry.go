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

// Registry holds all components of one document in declaration order.
type Registry struct {
	order      []string
	components map[string]*Component
}

func NewRegistry() *Registry {
	return &Registry{components: make(map[string]*Component)}
}

func (r *Registry) Get(ref string) (*Component, bool) {
	c, ok := r.components[ref]
	return c, ok
}

func (r *Registry) Has(ref string) bool {
	_, ok := r.components[ref]
	return ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Components returns all components in registry order.
func (r *Registry) Components() []*Component {
	res := make([]*Component, 0, len(r.order))
	for _, ref := range r.order {
		res = append(res, r.components[ref])
	}
	return res
}

// Roots returns all components nothing depends on, in registry order.
func (r *Registry) Roots() []*Component {
	res := make([]*Component, 0)
	for _, ref := range r.order {
		if c := r.components[ref]; c.dependencyOf.Len() == 0 {
			res = append(res, c)
		}
	}
	return res
}

// add inserts c or, if the identity is already known, replaces the declared
// data of the existing component. Position, adjacency and vulnerabilities of
// an existing component are kept.
func (r *Registry) add(c *Component) *Component {
	existing, ok := r.components[c.Ref]
	if !ok {
		r.components[c.Ref] = c
		r.order = append(r.order, c.Ref)
		return c
	}
	existing.Name = c.Name
	existing.Version = c.Version
	existing.Type = c.Type
	existing.Group = c.Group
	existing.PackageURL = c.PackageURL
	existing.Description = c.Description
	existing.Licenses = c.Licenses
	existing.Placeholder = c.Placeholder
	existing.SyntheticRef = c.SyntheticRef
	return existing
}

// ensure returns the component for ref, creating a placeholder if needed.
// The second return value is true if a placeholder was created.
func (r *Registry) ensure(ref string) (*Component, bool) {
	if c, ok := r.components[ref]; ok {
		return c, false
	}
	return r.add(newPlaceholder(ref)), true
}

// Link records that from depends on to. Both components must be registered.
// It reports false if one of them is unknown.
func (r *Registry) Link(from, to string) bool {
	source, ok := r.components[from]
	if !ok {
		return false
	}
	target, ok := r.components[to]
	if !ok {
		return false
	}
	source.dependsOn.Add(to)
	target.dependencyOf.Add(from)
	return true
}
