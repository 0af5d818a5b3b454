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

import (
	"encoding/json"
	"sort"
)

// Document is an already deserialized software bill of materials.
type Document struct {
	SpecVersion  string    `json:"specVersion,omitempty"`
	SerialNumber string    `json:"serialNumber,omitempty"`
	Version      int       `json:"version,omitempty"`
	Metadata     *Metadata `json:"metadata,omitempty"`

	Components      []ComponentRecord     `json:"components,omitempty"`
	Services        []ComponentRecord     `json:"services,omitempty"`
	Dependencies    []DependencyRecord    `json:"dependencies,omitempty"`
	Vulnerabilities []VulnerabilityRecord `json:"vulnerabilities,omitempty"`
}

type Metadata struct {
	Component *ComponentRecord `json:"component,omitempty"`
	Tools     Tools            `json:"tools,omitempty"`
}

type Tool struct {
	Vendor  string `json:"vendor,omitempty"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// Tools accepts the legacy tool list as well as the tool choice object
// introduced with CycloneDX 1.5.
type Tools []Tool

func (t *Tools) UnmarshalJSON(data []byte) error {
	var list []Tool
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var choice struct {
		Components []ComponentRecord `json:"components"`
		Services   []ComponentRecord `json:"services"`
	}
	if err := json.Unmarshal(data, &choice); err != nil {
		return err
	}
	res := make(Tools, 0, len(choice.Components)+len(choice.Services))
	for _, c := range append(choice.Components, choice.Services...) {
		res = append(res, Tool{Vendor: c.Group, Name: c.Name, Version: c.Version})
	}
	*t = res
	return nil
}

// RootRecords returns the top level components followed by the top level services.
func (d Document) RootRecords() []ComponentRecord {
	res := make([]ComponentRecord, 0, len(d.Components)+len(d.Services))
	res = append(res, d.Components...)
	return append(res, d.Services...)
}

// MetadataComponent returns the main component of the document or nil.
func (d Document) MetadataComponent() *ComponentRecord {
	if d.Metadata == nil {
		return nil
	}
	return d.Metadata.Component
}

func sortStrings(s []string) {
	sort.Strings(s)
}
