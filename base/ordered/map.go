// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ordered provides maps with a deterministic iteration order.
package ordered

import (
	"cmp"
	"slices"
)

// Map is a map iterating over its keys in ascending order,
// independently of the order in which the keys have been stored.
type Map[K cmp.Ordered, V any] struct {
	keys []K
	m    map[K]V
}

// NewMap returns a new sorted map.
func NewMap[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Store a value in the map.
func (m *Map[K, V]) Store(k K, v V) {
	if _, in := m.m[k]; !in {
		i, _ := slices.BinarySearch(m.keys, k)
		m.keys = slices.Insert(m.keys, i, k)
	}
	m.m[k] = v
}

// Load a value from the map.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Delete a key from the map.
func (m *Map[K, V]) Delete(k K) {
	if _, in := m.m[k]; !in {
		return
	}
	i, _ := slices.BinarySearch(m.keys, k)
	m.keys = slices.Delete(m.keys, i, i+1)
	delete(m.m, k)
}

// Iter iterates over the keys and values of the map.
func (m *Map[K, V]) Iter() func(func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Keys returns a sorted copy of the keys of the map.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Values iterates over the values of the map in key order.
func (m *Map[K, V]) Values() func(func(V) bool) {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.m[k]) {
				break
			}
		}
	}
}

// Clone returns a shallow copy of the map.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{
		keys: slices.Clone(m.keys),
		m:    cloneMap(m.m),
	}
}

// Size returns the number of keys in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	r := make(map[K]V, len(m))
	for k, v := range m {
		r[k] = v
	}
	return r
}

// SameKeys returns true if both maps have exactly the same set of keys.
func SameKeys[K cmp.Ordered, V1, V2 any](a *Map[K, V1], b *Map[K, V2]) bool {
	return slices.Equal(a.keys, b.keys)
}
