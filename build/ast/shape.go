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

import (
	"slices"
	"strings"

	"github.com/n3lang/n3/base/ordered"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/pkg/errors"
)

// Shape is the list of dimensions of a tensor.
type Shape struct {
	Dims []Value
}

// NewShape returns a shape given its dimensions.
func NewShape(dims ...Value) *Shape {
	return &Shape{Dims: dims}
}

// IntShape returns a shape with literal dimensions.
func IntShape(dims ...uint64) *Shape {
	vals := make([]Value, len(dims))
	for i, dim := range dims {
		vals[i] = UInt(dim)
	}
	return &Shape{Dims: vals}
}

// Rank of the shape.
func (s *Shape) Rank() int {
	return len(s.Dims)
}

// Sum returns the reduced sum of all the dimensions.
// The sum of an empty shape is 0.
func (s *Shape) Sum() Value {
	return s.fold(UInt(0), Add)
}

// Product returns the reduced product of all the dimensions.
// The product of an empty shape is 1.
func (s *Shape) Product() Value {
	return s.fold(UInt(1), Mul)
}

func (s *Shape) fold(empty Value, op func(a, b Value) Value) Value {
	if len(s.Dims) == 0 {
		return empty
	}
	r := reduceOrNil(s.Dims[0])
	for _, dim := range s.Dims[1:] {
		r = op(r, dim)
	}
	return r
}

// Reduce returns a shape with all its dimensions reduced.
func (s *Shape) Reduce() *Shape {
	dims := make([]Value, len(s.Dims))
	for i, dim := range s.Dims {
		dims[i] = reduceOrNil(dim)
	}
	return &Shape{Dims: dims}
}

// Concrete returns the dimensions of the shape if they all reduce to
// non-negative integers.
func (s *Shape) Concrete() ([]int, bool) {
	dims := make([]int, len(s.Dims))
	for i, dim := range s.Dims {
		n, ok := AsInt(dim)
		if !ok || n < 0 {
			return nil, false
		}
		dims[i] = int(n)
	}
	return dims, true
}

// Equal returns true if both shapes have the same rank and equal dimensions.
func (s *Shape) Equal(other *Shape) bool {
	if s == nil || other == nil {
		return s == other
	}
	return slices.EqualFunc(s.Dims, other.Dims, Equal)
}

func (s *Shape) String() string {
	if s == nil {
		return "_"
	}
	ss := make([]string, len(s.Dims))
	for i, dim := range s.Dims {
		ss[i] = valueString(dim)
	}
	return "[" + strings.Join(ss, ", ") + "]"
}

// CloneSafe returns a copy of the shape with cloned dimensions.
func (s *Shape) CloneSafe(c *Cloner) *Shape {
	return memo(c, s, func() *Shape {
		return &Shape{}
	}, func(cloned *Shape) {
		cloned.Dims = make([]Value, len(s.Dims))
		for i, dim := range s.Dims {
			cloned.Dims[i] = CloneValue(c, dim)
		}
	})
}

// unify checks that two shapes are compatible.
func unify(name string, a, b *Shape) error {
	if a.Rank() != b.Rank() {
		return &fmterr.ShapeRankError{Name: name, Expected: a.Rank(), Given: b.Rank()}
	}
	for i := range a.Dims {
		if !Equal(a.Dims[i], b.Dims[i]) {
			return errors.Wrapf(&fmterr.NotEqualError{
				Expected: valueString(Reduce(a.Dims[i])),
				Given:    valueString(Reduce(b.Dims[i])),
			}, "%s: dimension %d", name, i)
		}
	}
	return nil
}

// Shapes is a table mapping names to shapes.
// A nil shape in the table is a shape yet to be determined.
//
// Tables are shared by pointer: the output table of a step is the
// input table of the step consuming it. Linking two tables fills the
// unknown shapes of one side with the known shapes of the other.
type Shapes struct {
	m *ordered.Map[string, *Shape]
}

// NewShapes returns a table of shapes.
func NewShapes(shapes map[string]*Shape) *Shapes {
	s := &Shapes{m: ordered.NewMap[string, *Shape]()}
	for name, shape := range shapes {
		s.m.Store(name, shape)
	}
	return s
}

// Get returns the shape given its name.
func (s *Shapes) Get(name string) (*Shape, bool) {
	if s == nil {
		return nil, false
	}
	return s.m.Load(name)
}

// Set a shape in the table.
func (s *Shapes) Set(name string, shape *Shape) {
	s.m.Store(name, shape)
}

// Keys returns the sorted names of the table.
func (s *Shapes) Keys() []string {
	if s == nil {
		return nil
	}
	return s.m.Keys()
}

// Len returns the number of shapes in the table.
func (s *Shapes) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Size()
}

// Iter iterates over the table in name order.
func (s *Shapes) Iter() func(func(string, *Shape) bool) {
	return s.m.Iter()
}

// IsDynamic returns true if the table is a single unknown shape named x.
func (s *Shapes) IsDynamic() bool {
	if s.Len() != 1 {
		return false
	}
	shape, ok := s.Get("x")
	return ok && shape == nil
}

// ToOuts returns the outputs of a step with the same names as the table.
func (s *Shapes) ToOuts(id uint64) Outs {
	if s == nil {
		return nil
	}
	outs := make(Outs, s.Len())
	for _, name := range s.Keys() {
		outs[name] = NewOut(id, name)
	}
	return outs
}

// Copy returns a new table referencing the same shapes.
func (s *Shapes) Copy() *Shapes {
	if s == nil {
		return nil
	}
	return &Shapes{m: s.m.Clone()}
}

// Link unifies two tables.
//
// Both tables must have the same names. For every name known on both sides,
// the shapes must have the same rank and equal dimensions. A shape unknown
// on one side is then set from the other side. Nothing is modified if an
// error is returned. Linking a table with itself does nothing.
func (s *Shapes) Link(other *Shapes) error {
	if s == other {
		return nil
	}
	if !ordered.SameKeys(s.m, other.m) {
		return &fmterr.ShapeKeysError{Expected: s.Keys(), Given: other.Keys()}
	}
	for name, a := range s.m.Iter() {
		b, _ := other.m.Load(name)
		if a == nil || b == nil {
			continue
		}
		if err := unify(name, a, b); err != nil {
			return err
		}
	}
	for _, name := range s.Keys() {
		a, _ := s.m.Load(name)
		b, _ := other.m.Load(name)
		switch {
		case a == nil && b != nil:
			s.m.Store(name, b)
		case a != nil && b == nil:
			other.m.Store(name, a)
		}
	}
	return nil
}

// CloneSafe returns a deep copy of the table.
// Tables and shapes shared in the original are shared in the copy.
func (s *Shapes) CloneSafe(c *Cloner) *Shapes {
	return memo(c, s, func() *Shapes {
		return &Shapes{m: ordered.NewMap[string, *Shape]()}
	}, func(cloned *Shapes) {
		for name, shape := range s.m.Iter() {
			if shape == nil {
				cloned.m.Store(name, nil)
				continue
			}
			cloned.m.Store(name, shape.CloneSafe(c))
		}
	})
}

func (s *Shapes) String() string {
	if s == nil {
		return "_"
	}
	ss := make([]string, 0, s.Len())
	for name, shape := range s.m.Iter() {
		ss = append(ss, name+": "+shape.String())
	}
	return "{" + strings.Join(ss, ", ") + "}"
}
