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

// OrderedSet is a set which remembers the insertion order of its elements.
// The zero value is ready to use.
type OrderedSet[T comparable] struct {
	index map[T]int
	items []T
}

func NewOrderedSet[T comparable](items ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts el and reports whether it was not yet part of the set.
func (s *OrderedSet[T]) Add(el T) bool {
	if s.index == nil {
		s.index = make(map[T]int)
	}
	if _, ok := s.index[el]; ok {
		return false
	}
	s.index[el] = len(s.items)
	s.items = append(s.items, el)
	return true
}

func (s *OrderedSet[T]) Has(el T) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[el]
	return ok
}

func (s *OrderedSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the elements in insertion order. The slice must not be modified.
func (s *OrderedSet[T]) Items() []T {
	if s == nil {
		return nil
	}
	return s.items
}

// Retain returns a new set with all elements for which keep returns true.
func (s *OrderedSet[T]) Retain(keep func(T) bool) *OrderedSet[T] {
	res := &OrderedSet[T]{}
	for _, el := range s.Items() {
		if keep(el) {
			res.Add(el)
		}
	}
	return res
}

func (s *OrderedSet[T]) Clone() *OrderedSet[T] {
	return s.Retain(func(T) bool { return true })
}
