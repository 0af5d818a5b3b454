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

package normalize

import (
	"strings"

	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/shared"
	"github.com/l3montree-dev/sunshine/utils"
)

const (
	MethodCVSSv4  = "CVSSv4"
	MethodCVSSv31 = "CVSSv31"
	MethodCVSSv3  = "CVSSv3"
	MethodCVSSv2  = "CVSSv2"
	MethodOWASP   = "OWASP"
	MethodSSVC    = "SSVC"
	MethodOther   = "other"
)

// PreferredMethods lists the rating methods in order of trust.
var PreferredMethods = []string{MethodCVSSv4, MethodCVSSv31, MethodCVSSv3, MethodCVSSv2, MethodOWASP, MethodSSVC, MethodOther}

// NoVector is used whenever a rating did not declare a vector.
const NoVector = "-"

// Vulnerability is the normalized form of a vulnerability record. It is a
// comparable value, two vulnerabilities are the same if all fields are equal.
type Vulnerability struct {
	ID       string   `json:"id" yaml:"id"`
	Severity Severity `json:"severity" yaml:"severity"`
	Score    float64  `json:"score" yaml:"score"`
	Vector   string   `json:"vector" yaml:"vector"`
}

// fromRating returns the vulnerability described by a single rating. The
// rating qualifies if it carries a recognised severity or a score.
func fromRating(id string, r dtos.RatingRecord) (Vulnerability, bool) {
	vector := r.Vector
	if vector == "" {
		vector = NoVector
	}
	score := utils.OrDefault(r.Score, 0)
	if sev, ok := ParseSeverity(r.Severity); ok {
		return Vulnerability{ID: id, Severity: sev, Score: score, Vector: vector}, true
	}
	if r.Score != nil {
		return Vulnerability{ID: id, Severity: SeverityFromScore(score), Score: score, Vector: vector}, true
	}
	return Vulnerability{}, false
}

// NormalizeVulnerability reduces the ratings of a vulnerability record to a
// single severity, score and vector.
//
// The first rating with a preferred method that carries a severity or a score
// wins. Otherwise the first rating with any usable severity or score is
// taken, then the first rating with a parsable CVSS vector. A record without
// any usable rating is reported and rated as information.
func NormalizeVulnerability(rec dtos.VulnerabilityRecord, diags *shared.Diagnostics) Vulnerability {
	if rec.Ratings == nil {
		diags.Add(shared.DiagnosticMissingRating, rec.ID, "vulnerability %s does not declare any ratings", rec.ID)
		return informational(rec.ID)
	}
	ratings := *rec.Ratings
	if len(ratings) == 0 {
		diags.Add(shared.DiagnosticMissingRating, rec.ID, "vulnerability %s has an empty ratings list", rec.ID)
		return informational(rec.ID)
	}

	for _, r := range ratings {
		if !utils.Contains(PreferredMethods, r.Method) {
			continue
		}
		if v, ok := fromRating(rec.ID, r); ok {
			return v
		}
	}

	for _, r := range ratings {
		if v, ok := fromRating(rec.ID, r); ok {
			return v
		}
	}

	for _, r := range ratings {
		if strings.TrimSpace(r.Vector) == "" {
			continue
		}
		if score, ok := ScoreVector(r.Vector); ok {
			return Vulnerability{ID: rec.ID, Severity: SeverityFromScore(score), Score: score, Vector: r.Vector}
		}
	}

	diags.Add(shared.DiagnosticMissingRating, rec.ID, "vulnerability %s has no usable rating, using information", rec.ID)
	return informational(rec.ID)
}

func informational(id string) Vulnerability {
	return Vulnerability{ID: id, Severity: SeverityInformation, Score: 0, Vector: NoVector}
}
