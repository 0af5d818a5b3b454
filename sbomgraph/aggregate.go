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

	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/utils"
)

// AggregatedVulnerability groups all occurrences of the same vulnerability.
type AggregatedVulnerability struct {
	ID       string             `json:"id" yaml:"id"`
	Severity normalize.Severity `json:"severity" yaml:"severity"`
	Score    float64            `json:"score" yaml:"score"`
	// Vector of the first occurrence
	Vector               string   `json:"vector" yaml:"vector"`
	DirectlyAffected     []string `json:"directlyAffected" yaml:"directlyAffected"`
	TransitivelyAffected []string `json:"transitivelyAffected" yaml:"transitivelyAffected"`

	direct     utils.OrderedSet[string]
	transitive utils.OrderedSet[string]
}

type Aggregation struct {
	Vulnerabilities []*AggregatedVulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
	Counts          map[normalize.Severity]int `json:"counts" yaml:"counts"`
}

func aggregationKey(v normalize.Vulnerability) string {
	return fmt.Sprintf("%s-%s-%v", v.ID, v.Severity, v.Score)
}

// Aggregate groups the direct and transitive vulnerabilities of all components
// by id, severity and score. Counts holds the number of distinct
// vulnerabilities per severity.
func Aggregate(reg *Registry) Aggregation {
	index := make(map[string]*AggregatedVulnerability)
	res := Aggregation{
		Vulnerabilities: make([]*AggregatedVulnerability, 0),
		Counts:          make(map[normalize.Severity]int, len(normalize.Severities)),
	}
	for _, s := range normalize.Severities {
		res.Counts[s] = 0
	}

	get := func(v normalize.Vulnerability) *AggregatedVulnerability {
		key := aggregationKey(v)
		if agg, ok := index[key]; ok {
			return agg
		}
		agg := &AggregatedVulnerability{ID: v.ID, Severity: v.Severity, Score: v.Score, Vector: v.Vector}
		index[key] = agg
		res.Vulnerabilities = append(res.Vulnerabilities, agg)
		return agg
	}

	for _, c := range reg.Components() {
		for _, v := range c.Vulnerabilities() {
			get(v).direct.Add(c.Ref)
		}
		for _, v := range c.TransitiveVulnerabilities() {
			get(v).transitive.Add(c.Ref)
		}
	}

	for _, agg := range res.Vulnerabilities {
		// a directly affected component is never listed as transitively affected
		transitive := agg.transitive.Retain(func(ref string) bool {
			return !agg.direct.Has(ref)
		})
		agg.DirectlyAffected = append([]string{}, agg.direct.Items()...)
		agg.TransitivelyAffected = append([]string{}, transitive.Items()...)

		switch agg.Severity {
		case normalize.SeverityCritical, normalize.SeverityHigh, normalize.SeverityMedium, normalize.SeverityLow:
			res.Counts[agg.Severity]++
		default:
			res.Counts[normalize.SeverityInformation]++
		}
	}
	return res
}

// Total returns the number of distinct vulnerabilities.
func (a Aggregation) Total() int {
	return len(a.Vulnerabilities)
}
