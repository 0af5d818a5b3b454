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

type ComponentType string

const (
	ComponentTypeApplication          ComponentType = "application"
	ComponentTypeContainer            ComponentType = "container"
	ComponentTypeData                 ComponentType = "data"
	ComponentTypeDevice               ComponentType = "device"
	ComponentTypeDeviceDriver         ComponentType = "device-driver"
	ComponentTypeFile                 ComponentType = "file"
	ComponentTypeFirmware             ComponentType = "firmware"
	ComponentTypeFramework            ComponentType = "framework"
	ComponentTypeLibrary              ComponentType = "library"
	ComponentTypeMachineLearningModel ComponentType = "machine-learning-model"
	ComponentTypeOS                   ComponentType = "operating-system"
	ComponentTypePlatform             ComponentType = "platform"
	// services are registered like components, the type only differs for display
	ComponentTypeService ComponentType = "service"
)

// ComponentRecord is a component or service as it was declared in the document.
// The shape follows the CycloneDX JSON format but is lenient: some producers
// declare dependencies and vulnerabilities inline on the component.
type ComponentRecord struct {
	BOMRef      string          `json:"bom-ref,omitempty"`
	Type        ComponentType   `json:"type,omitempty"`
	Group       string          `json:"group,omitempty"`
	Name        string          `json:"name"`
	Version     string          `json:"version,omitempty"`
	Description string          `json:"description,omitempty"`
	PackageURL  string          `json:"purl,omitempty"`
	Licenses    []LicenseChoice `json:"licenses,omitempty"`
	Properties  []Property      `json:"properties,omitempty"`

	Components []ComponentRecord `json:"components,omitempty"`
	Services   []ComponentRecord `json:"services,omitempty"`

	// inline edges, every entry only carries the ref of the dependency
	Dependencies    []DependencyRecord    `json:"dependencies,omitempty"`
	Vulnerabilities []VulnerabilityRecord `json:"vulnerabilities,omitempty"`
}

type LicenseChoice struct {
	License    *License `json:"license,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

type License struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DependencyRecord is an edge list entry: Ref depends on every entry of DependsOn.
type DependencyRecord struct {
	Ref       string   `json:"ref"`
	DependsOn []string `json:"dependsOn,omitempty"`
}

// LicenseNames returns the declared license ids (or names if no id is set),
// sorted and without duplicates.
func (c ComponentRecord) LicenseNames() []string {
	seen := make(map[string]struct{}, len(c.Licenses))
	res := make([]string, 0, len(c.Licenses))
	for _, l := range c.Licenses {
		if l.License == nil {
			continue
		}
		name := l.License.ID
		if name == "" {
			name = l.License.Name
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		res = append(res, name)
	}
	sortStrings(res)
	return res
}
