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

import "github.com/l3montree-dev/sunshine/normalize"

// Classification is the visual state of a component: its max severity, or
// indirect if only its dependencies are vulnerable, or clean.
type Classification string

const (
	ClassificationIndirect Classification = "indirect"
	ClassificationClean    Classification = "clean"
)

// Classify derives the classification from the final component state.
func Classify(c *Component) Classification {
	if !c.MaxSeverity.IsClean() {
		return Classification(c.MaxSeverity)
	}
	if c.HasTransitiveVulnerabilities {
		return ClassificationIndirect
	}
	return ClassificationClean
}

// TreeNode is one occurrence of a component on a path from a root. A
// component reachable over several paths has one node per path.
type TreeNode struct {
	Ref            string             `json:"ref" yaml:"ref"`
	Name           string             `json:"name" yaml:"name"`
	Version        string             `json:"version" yaml:"version"`
	Weight         int                `json:"weight" yaml:"weight"`
	Classification Classification     `json:"classification" yaml:"classification"`
	Severity       normalize.Severity `json:"severity" yaml:"severity"`
	// Cycle marks a node which closes a circular dependency, it has no children.
	Cycle    bool        `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Forest holds one tree per root in walk order.
type Forest []*TreeNode

// Walk calls fn for every node depth first, parents before children.
func (f Forest) Walk(fn func(node *TreeNode, depth int)) {
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		fn(n, depth)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range f {
		walk(root, 0)
	}
}

// Count returns how often a component occurs in the forest. Nodes closing a
// cycle are not counted.
func (f Forest) Count(ref string) int {
	count := 0
	f.Walk(func(n *TreeNode, _ int) {
		if n.Ref == ref && !n.Cycle {
			count++
		}
	})
	return count
}

func newTreeNode(c *Component) *TreeNode {
	return &TreeNode{
		Ref:     c.Ref,
		Name:    c.DisplayName(),
		Version: c.Version,
		Weight:  1,
	}
}
