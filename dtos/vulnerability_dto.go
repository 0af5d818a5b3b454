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

package dtos

import "github.com/l3montree-dev/sunshine/utils"

type VulnerabilityRecord struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	// nil means the document did not contain a ratings field at all,
	// a pointer to an empty slice means it was present but empty.
	Ratings *[]RatingRecord `json:"ratings,omitempty"`
	Affects []AffectsRecord `json:"affects,omitempty"`
}

// RatingRecord is a single rating entry. Empty strings and a nil score mean
// the field was not declared.
type RatingRecord struct {
	Method   string   `json:"method,omitempty"`
	Severity string   `json:"severity,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Vector   string   `json:"vector,omitempty"`
}

type AffectsRecord struct {
	Ref string `json:"ref"`
}

func (v VulnerabilityRecord) AffectedRefs() []string {
	affects := utils.Filter(v.Affects, func(a AffectsRecord) bool {
		return a.Ref != ""
	})
	return utils.Map(affects, func(a AffectsRecord) string {
		return a.Ref
	})
}
