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
	"encoding/json"
	"slices"
	"strings"

	"github.com/secure-systems-lab/go-securesystemslib/cjson"
)

// DeepSort converts el into its generic JSON form and sorts every array by
// the canonical encoding of its elements, so arrays compare like sets.
// It encodes every value below el, only use it on small records.
func DeepSort(el any) any {
	b, _ := json.Marshal(el)
	var v any
	_ = json.Unmarshal(b, &v)
	return deepSort(v)
}

func deepSort(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = deepSort(v)
		}
		return result

	case []any:
		sorted := make([]any, len(val))
		for i, item := range val {
			sorted[i] = deepSort(item)
		}
		slices.SortFunc(sorted, func(i, j any) int {
			return strings.Compare(string(CanonicalJSON(i)), string(CanonicalJSON(j)))
		})
		return sorted

	default:
		return val
	}
}

// CanonicalJSON returns the canonical JSON encoding of v. cjson refuses
// numbers with a fraction (e.g. CVSS scores), those values are encoded with
// encoding/json which sorts object keys as well.
func CanonicalJSON(v any) []byte {
	if b, err := cjson.EncodeCanonical(v); err == nil {
		return b
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil
	}
	out, _ := json.Marshal(generic)
	return out
}
