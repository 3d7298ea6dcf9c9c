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

package ast

import "github.com/n3lang/n3/base/seed"

// Cloner duplicates templates such that the copy shares no mutable state
// with the original. Structures shared by pointer in the original are
// shared in the same way in the copy. Every declared variable copied by
// the cloner gets a new ID from the seed.
type Cloner struct {
	seed      *seed.Seed
	memo      map[any]any
	variables []*Variable
}

// NewCloner returns a cloner generating variable IDs from a seed.
func NewCloner(s *seed.Seed) *Cloner {
	return &Cloner{seed: s, memo: make(map[any]any)}
}

// Seed returns the seed generating the IDs of the cloned variables.
func (c *Cloner) Seed() *seed.Seed {
	return c.seed
}

// Variables returns the declared variables copied so far.
func (c *Cloner) Variables() []*Variable {
	return c.variables
}

// Memo returns the copy of old, calling alloc to create it if old has not
// been copied yet. The copy is registered before fill is called such that
// cyclic or shared references resolve to the same copy.
func Memo[T any](c *Cloner, old *T, alloc func() *T, fill func(*T)) *T {
	return memo(c, old, alloc, fill)
}

func memo[T any](c *Cloner, old *T, alloc func() *T, fill func(*T)) *T {
	if old == nil {
		return nil
	}
	if cloned, ok := c.memo[old]; ok {
		return cloned.(*T)
	}
	cloned := alloc()
	c.memo[old] = cloned
	if fill != nil {
		fill(cloned)
	}
	return cloned
}
