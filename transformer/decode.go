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
	"encoding/json"
	"io"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/pkg/errors"

	"github.com/l3montree-dev/sunshine/dtos"
)

// DecodeCycloneDX decodes a CycloneDX JSON document.
func DecodeCycloneDX(r io.Reader) (dtos.Document, error) {
	var bom cdx.BOM
	if err := cdx.NewBOMDecoder(r, cdx.BOMFileFormatJSON).Decode(&bom); err != nil {
		return dtos.Document{}, errors.Wrap(err, "could not decode cyclonedx bom")
	}
	return FromCycloneDX(&bom), nil
}

// DecodeLenient decodes a JSON document which follows the CycloneDX layout
// but may declare dependencies and vulnerabilities inline on components.
func DecodeLenient(r io.Reader) (dtos.Document, error) {
	var doc dtos.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return dtos.Document{}, errors.Wrap(err, "could not decode document")
	}
	return doc, nil
}
