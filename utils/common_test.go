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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Run("should keep the order of the remaining elements", func(t *testing.T) {
		res := Filter([]int{1, 2, 3, 4, 5}, func(i int) bool { return i%2 == 1 })
		assert.Equal(t, []int{1, 3, 5}, res)
	})

	t.Run("should return an empty slice for nil", func(t *testing.T) {
		res := Filter[int](nil, func(int) bool { return true })
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})
}

func TestMap(t *testing.T) {
	t.Run("should map every element", func(t *testing.T) {
		assert.Equal(t, []string{"a!", "b!"}, Map([]string{"a", "b"}, func(s string) string { return s + "!" }))
	})
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
}

func TestOrDefault(t *testing.T) {
	t.Run("should return the default for nil", func(t *testing.T) {
		assert.Equal(t, 4.2, OrDefault(nil, 4.2))
	})

	t.Run("should dereference the value", func(t *testing.T) {
		assert.Equal(t, 1.5, OrDefault(Ptr(1.5), 4.2))
	})
}
