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
	"strings"

	"github.com/l3montree-dev/sunshine/shared"
)

// ancestors is an immutable path from the current root to the current node.
// Pushing shares the parent path, so branches never copy it.
type ancestors struct {
	ref    string
	parent *ancestors
}

func (a *ancestors) push(ref string) *ancestors {
	return &ancestors{ref: ref, parent: a}
}

func (a *ancestors) contains(ref string) bool {
	for n := a; n != nil; n = n.parent {
		if n.ref == ref {
			return true
		}
	}
	return false
}

// chain renders the path followed by the repeated reference.
func (a *ancestors) chain(ref string) string {
	refs := []string{ref}
	for n := a; n != nil; n = n.parent {
		refs = append(refs, n.ref)
	}
	for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
		refs[i], refs[j] = refs[j], refs[i]
	}
	return strings.Join(refs, " --> ")
}

type propagator struct {
	reg   *Registry
	diags *shared.Diagnostics
}

// Propagate computes the transitive vulnerabilities of every component and
// returns one tree per root. Components nothing depends on are roots, every
// component not reached from them (members of closed cycles) becomes an
// additional root.
func Propagate(reg *Registry, diags *shared.Diagnostics) Forest {
	p := propagator{reg: reg, diags: diags}
	for _, c := range reg.Components() {
		c.resetPropagation()
	}

	forest := make(Forest, 0)
	for _, root := range reg.Roots() {
		forest = append(forest, p.root(root))
	}
	for _, c := range reg.Components() {
		if !c.Visited {
			forest = append(forest, p.root(c))
		}
	}

	p.close()

	forest.Walk(func(n *TreeNode, _ int) {
		c, _ := reg.Get(n.Ref)
		n.Classification = Classify(c)
		n.Severity = c.MaxSeverity
	})
	return forest
}

func (p propagator) root(c *Component) *TreeNode {
	c.Visited = true
	node, _ := p.visit(c, &ancestors{ref: c.Ref})
	return node
}

// visit walks the dependencies of c. path already contains c.
func (p propagator) visit(c *Component, path *ancestors) (*TreeNode, bool) {
	node := newTreeNode(c)
	weight := 0
	vulnerable := c.IsVulnerable()

	for _, ref := range c.DependsOn() {
		child, _ := p.reg.Get(ref)
		child.Visited = true

		if path.contains(ref) {
			p.diags.Add(shared.DiagnosticCycle, ref, "circular dependency: %s", path.chain(ref))
			// one level only, the target itself is still being walked
			for _, grandchildRef := range child.DependsOn() {
				grandchild, _ := p.reg.Get(grandchildRef)
				if grandchild.IsAffected() {
					child.absorb(grandchild)
				}
			}
			if child.IsAffected() {
				c.absorb(child)
				vulnerable = true
			}
			leaf := newTreeNode(child)
			leaf.Cycle = true
			node.Children = append(node.Children, leaf)
			weight++
			continue
		}

		childNode, childVulnerable := p.visit(child, path.push(ref))
		if childVulnerable || child.IsAffected() || child.HasTransitiveVulnerabilities {
			c.absorb(child)
			vulnerable = true
		}
		weight += childNode.Weight
		node.Children = append(node.Children, childNode)
	}

	if weight == 0 {
		weight = 1
	}
	node.Weight = weight
	return node, vulnerable
}

// close repeats the union step over all edges until nothing changes. The walk
// truncates at cycles, so members of a cycle may miss vulnerabilities of the
// nodes behind the closing edge.
func (p propagator) close() {
	for changed := true; changed; {
		changed = false
		for _, c := range p.reg.Components() {
			for _, ref := range c.DependsOn() {
				child, _ := p.reg.Get(ref)
				if child.IsAffected() && c.absorb(child) {
					changed = true
				}
			}
		}
	}
}
