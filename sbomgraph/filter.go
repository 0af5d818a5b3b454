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

// OnlyVulnerable returns a new registry with copies of all components that
// have direct or transitive vulnerabilities. Edges to dropped components are
// removed on both sides.
func OnlyVulnerable(reg *Registry) *Registry {
	res := NewRegistry()
	for _, c := range reg.Components() {
		if !c.IsAffected() {
			continue
		}
		res.add(c.clone())
	}
	for _, c := range reg.Components() {
		if !res.Has(c.Ref) {
			continue
		}
		for _, ref := range c.DependsOn() {
			if res.Has(ref) {
				res.Link(c.Ref, ref)
			}
		}
	}
	return res
}
