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

import "strings"

// Severity is the qualitative rating of a vulnerability. Clean is only used
// for components without any direct vulnerability.
type Severity string

const (
	SeverityCritical    Severity = "critical"
	SeverityHigh        Severity = "high"
	SeverityMedium      Severity = "medium"
	SeverityLow         Severity = "low"
	SeverityInformation Severity = "information"
	SeverityClean       Severity = "clean"
)

// Severities lists every vulnerability severity, most severe first.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInformation}

var severityRank = map[Severity]int{
	SeverityCritical:    5,
	SeverityHigh:        4,
	SeverityMedium:      3,
	SeverityLow:         2,
	SeverityInformation: 1,
	SeverityClean:       0,
}

// Rank orders severities, unknown values rank like clean.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Max returns the more severe of both.
func (s Severity) Max(other Severity) Severity {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

func (s Severity) IsClean() bool {
	return s == SeverityClean || s == ""
}

// ParseSeverity recognises the vulnerability severities case-insensitively,
// "info" is accepted as an alias for information.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, true
	case "high":
		return SeverityHigh, true
	case "medium":
		return SeverityMedium, true
	case "low":
		return SeverityLow, true
	case "info", "information":
		return SeverityInformation, true
	}
	return "", false
}

func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	case score > 0.0:
		return SeverityLow
	default:
		return SeverityInformation
	}
}
