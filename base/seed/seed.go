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

// Package seed generates deterministic identifiers.
//
// A seed is shared by all the templates of a build root so that
// two identities minted by the same root never collide.
package seed

// Seed mints unique identifiers in increasing order.
// A seed is not safe for concurrent use.
type Seed struct {
	next uint64
}

// New returns a new seed. The first generated identifier is 1.
func New() *Seed {
	return &Seed{next: 1}
}

// WithStart returns a seed generating identifiers from start.
func WithStart(start uint64) *Seed {
	return &Seed{next: start}
}

// Generate returns a new identifier.
func (s *Seed) Generate() uint64 {
	id := s.next
	s.next++
	return id
}

// Peek returns the next identifier without consuming it.
func (s *Seed) Peek() uint64 {
	return s.next
}
