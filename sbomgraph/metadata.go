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

	"github.com/l3montree-dev/sunshine/dtos"
)

type MainComponent struct {
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	Group       string            `json:"group,omitempty" yaml:"group,omitempty"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	PackageURL  string            `json:"purl,omitempty" yaml:"purl,omitempty"`
	Properties  map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Metadata summarizes the document header.
type Metadata struct {
	MainComponent *MainComponent `json:"mainComponent,omitempty" yaml:"mainComponent,omitempty"`
	SpecVersion   string         `json:"specVersion,omitempty" yaml:"specVersion,omitempty"`
	SerialNumber  string         `json:"serialNumber,omitempty" yaml:"serialNumber,omitempty"`
	Version       int            `json:"version,omitempty" yaml:"version,omitempty"`
	Tools         []dtos.Tool    `json:"tools,omitempty" yaml:"tools,omitempty"`

	Components      int `json:"components" yaml:"components"`
	Vulnerabilities int `json:"vulnerabilities" yaml:"vulnerabilities"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SummarizeMetadata extracts the main component, the document identifiers and
// the tools which produced the document. Property names are capitalized.
func SummarizeMetadata(doc dtos.Document) Metadata {
	res := Metadata{
		SpecVersion:  doc.SpecVersion,
		SerialNumber: doc.SerialNumber,
		Version:      doc.Version,
		Tools:        []dtos.Tool{},
	}
	if doc.Metadata == nil {
		return res
	}
	res.Tools = append(res.Tools, doc.Metadata.Tools...)

	if main := doc.Metadata.Component; main != nil {
		mc := &MainComponent{
			Type:        string(main.Type),
			Group:       main.Group,
			Name:        main.Name,
			Version:     main.Version,
			Description: main.Description,
			PackageURL:  main.PackageURL,
		}
		if len(main.Properties) > 0 {
			mc.Properties = make(map[string]string, len(main.Properties))
			for _, p := range main.Properties {
				mc.Properties[capitalize(p.Name)] = p.Value
			}
		}
		res.MainComponent = mc
	}
	return res
}
