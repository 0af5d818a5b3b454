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

package transformer

import (
	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/utils"
)

// FromCycloneDX converts a decoded CycloneDX bom into a document.
func FromCycloneDX(bom *cdx.BOM) dtos.Document {
	if bom == nil {
		return dtos.Document{}
	}
	doc := dtos.Document{
		SerialNumber:    bom.SerialNumber,
		Version:         bom.Version,
		Components:      componentsFromCycloneDX(bom.Components),
		Services:        servicesFromCycloneDX(bom.Services),
		Dependencies:    dependenciesFromCycloneDX(bom.Dependencies),
		Vulnerabilities: vulnerabilitiesFromCycloneDX(bom.Vulnerabilities),
	}
	if bom.SpecVersion != 0 {
		doc.SpecVersion = bom.SpecVersion.String()
	}
	if bom.Metadata != nil {
		doc.Metadata = metadataFromCycloneDX(bom.Metadata)
	}
	return doc
}

func metadataFromCycloneDX(m *cdx.Metadata) *dtos.Metadata {
	res := &dtos.Metadata{}
	if m.Component != nil {
		c := componentFromCycloneDX(*m.Component)
		res.Component = &c
	}
	if m.Tools != nil {
		if m.Tools.Tools != nil {
			for _, t := range *m.Tools.Tools {
				res.Tools = append(res.Tools, dtos.Tool{Vendor: t.Vendor, Name: t.Name, Version: t.Version})
			}
		}
		if m.Tools.Components != nil {
			for _, c := range *m.Tools.Components {
				res.Tools = append(res.Tools, dtos.Tool{Vendor: c.Group, Name: c.Name, Version: c.Version})
			}
		}
		if m.Tools.Services != nil {
			for _, s := range *m.Tools.Services {
				res.Tools = append(res.Tools, dtos.Tool{Vendor: s.Group, Name: s.Name, Version: s.Version})
			}
		}
	}
	return res
}

func componentsFromCycloneDX(components *[]cdx.Component) []dtos.ComponentRecord {
	if components == nil {
		return nil
	}
	return utils.Map(*components, componentFromCycloneDX)
}

func componentFromCycloneDX(c cdx.Component) dtos.ComponentRecord {
	return dtos.ComponentRecord{
		BOMRef:      c.BOMRef,
		Type:        dtos.ComponentType(c.Type),
		Group:       c.Group,
		Name:        c.Name,
		Version:     c.Version,
		Description: c.Description,
		PackageURL:  c.PackageURL,
		Licenses:    licensesFromCycloneDX(c.Licenses),
		Properties:  propertiesFromCycloneDX(c.Properties),
		Components:  componentsFromCycloneDX(c.Components),
	}
}

func servicesFromCycloneDX(services *[]cdx.Service) []dtos.ComponentRecord {
	if services == nil {
		return nil
	}
	return utils.Map(*services, serviceFromCycloneDX)
}

func serviceFromCycloneDX(s cdx.Service) dtos.ComponentRecord {
	return dtos.ComponentRecord{
		BOMRef:      s.BOMRef,
		Type:        dtos.ComponentTypeService,
		Group:       s.Group,
		Name:        s.Name,
		Version:     s.Version,
		Description: s.Description,
		Licenses:    licensesFromCycloneDX(s.Licenses),
		Properties:  propertiesFromCycloneDX(s.Properties),
		Services:    servicesFromCycloneDX(s.Services),
	}
}

func licensesFromCycloneDX(licenses *cdx.Licenses) []dtos.LicenseChoice {
	if licenses == nil {
		return nil
	}
	res := make([]dtos.LicenseChoice, 0, len(*licenses))
	for _, l := range *licenses {
		choice := dtos.LicenseChoice{Expression: l.Expression}
		if l.License != nil {
			choice.License = &dtos.License{ID: l.License.ID, Name: l.License.Name}
		}
		res = append(res, choice)
	}
	return res
}

func propertiesFromCycloneDX(properties *[]cdx.Property) []dtos.Property {
	if properties == nil {
		return nil
	}
	return utils.Map(*properties, func(p cdx.Property) dtos.Property {
		return dtos.Property{Name: p.Name, Value: p.Value}
	})
}

func dependenciesFromCycloneDX(dependencies *[]cdx.Dependency) []dtos.DependencyRecord {
	if dependencies == nil {
		return nil
	}
	return utils.Map(*dependencies, func(d cdx.Dependency) dtos.DependencyRecord {
		rec := dtos.DependencyRecord{Ref: d.Ref}
		if d.Dependencies != nil {
			rec.DependsOn = append(rec.DependsOn, *d.Dependencies...)
		}
		return rec
	})
}

func vulnerabilitiesFromCycloneDX(vulns *[]cdx.Vulnerability) []dtos.VulnerabilityRecord {
	if vulns == nil {
		return nil
	}
	return utils.Map(*vulns, func(v cdx.Vulnerability) dtos.VulnerabilityRecord {
		rec := dtos.VulnerabilityRecord{ID: v.ID, Description: v.Description}
		if v.Ratings != nil {
			ratings := make([]dtos.RatingRecord, 0, len(*v.Ratings))
			for _, r := range *v.Ratings {
				ratings = append(ratings, dtos.RatingRecord{
					Method:   string(r.Method),
					Severity: string(r.Severity),
					Score:    r.Score,
					Vector:   r.Vector,
				})
			}
			rec.Ratings = &ratings
		}
		if v.Affects != nil {
			rec.Affects = utils.Map(*v.Affects, func(a cdx.Affects) dtos.AffectsRecord {
				return dtos.AffectsRecord{Ref: a.Ref}
			})
		}
		return rec
	})
}
