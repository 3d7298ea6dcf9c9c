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

package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/pkg/errors"
)

func shapesString(s *ast.Shapes) string {
	return s.String()
}

func TestShapesLink(t *testing.T) {
	n := &ast.Variable{ID: 1, Name: "n", Value: ast.UInt(32)}
	tests := []struct {
		a, b         *ast.Shapes
		wantA, wantB string
	}{
		{
			a:     ast.NewShapes(map[string]*ast.Shape{"x": ast.IntShape(3, 32)}),
			b:     ast.NewShapes(map[string]*ast.Shape{"x": nil}),
			wantA: "{x: [3, 32]}",
			wantB: "{x: [3, 32]}",
		},
		{
			a:     ast.NewShapes(map[string]*ast.Shape{"x": nil, "y": ast.IntShape(1)}),
			b:     ast.NewShapes(map[string]*ast.Shape{"x": ast.IntShape(2), "y": nil}),
			wantA: "{x: [2], y: [1]}",
			wantB: "{x: [2], y: [1]}",
		},
		{
			a:     ast.NewShapes(map[string]*ast.Shape{"x": ast.NewShape(ast.UInt(3), n)}),
			b:     ast.NewShapes(map[string]*ast.Shape{"x": ast.IntShape(3, 32)}),
			wantA: "{x: [3, n]}",
			wantB: "{x: [3, 32]}",
		},
		{
			a:     ast.NewShapes(map[string]*ast.Shape{"x": nil}),
			b:     ast.NewShapes(map[string]*ast.Shape{"x": nil}),
			wantA: "{x: _}",
			wantB: "{x: _}",
		},
	}
	for ti, test := range tests {
		if err := test.a.Link(test.b); err != nil {
			t.Errorf("test %d: %v", ti, err)
			continue
		}
		if diff := cmp.Diff(test.wantA, shapesString(test.a)); diff != "" {
			t.Errorf("test %d: unexpected left shapes (-want +got):\n%s", ti, diff)
		}
		if diff := cmp.Diff(test.wantB, shapesString(test.b)); diff != "" {
			t.Errorf("test %d: unexpected right shapes (-want +got):\n%s", ti, diff)
		}
	}
}

func TestShapesLinkErrors(t *testing.T) {
	tests := []struct {
		a, b   *ast.Shapes
		target any
	}{
		{
			a:      ast.NewShapes(map[string]*ast.Shape{"x": nil}),
			b:      ast.NewShapes(map[string]*ast.Shape{"y": nil}),
			target: new(*fmterr.ShapeKeysError),
		},
		{
			a:      ast.NewShapes(map[string]*ast.Shape{"x": ast.IntShape(3, 32)}),
			b:      ast.NewShapes(map[string]*ast.Shape{"x": ast.IntShape(3)}),
			target: new(*fmterr.ShapeRankError),
		},
		{
			a: ast.NewShapes(map[string]*ast.Shape{
				"x": nil,
				"y": ast.IntShape(3, 32),
			}),
			b: ast.NewShapes(map[string]*ast.Shape{
				"x": ast.IntShape(1),
				"y": ast.IntShape(3, 31),
			}),
			target: new(*fmterr.NotEqualError),
		},
	}
	for ti, test := range tests {
		before := shapesString(test.a)
		err := test.a.Link(test.b)
		if err == nil {
			t.Errorf("test %d: expected an error but got nil", ti)
			continue
		}
		if !errors.As(err, test.target) {
			t.Errorf("test %d: unexpected error type %T: %v", ti, err, err)
		}
		if got := shapesString(test.a); got != before {
			t.Errorf("test %d: failed link modified the shapes: %s became %s", ti, before, got)
		}
	}
}

func TestShapesLinkSelf(t *testing.T) {
	s := ast.NewShapes(map[string]*ast.Shape{"x": nil})
	if err := s.Link(s); err != nil {
		t.Fatal(err)
	}
	if !s.IsDynamic() {
		t.Errorf("linking %s with itself changed it", s)
	}
}

func TestShapeReductions(t *testing.T) {
	n := &ast.Variable{ID: 1, Name: "n"}
	m := &ast.Variable{ID: 2, Name: "m"}
	tests := []struct {
		shape            *ast.Shape
		sum, product     string
		concrete         []int
		concreteExpected bool
	}{
		{
			shape:            ast.IntShape(3, 10),
			sum:              "13",
			product:          "30",
			concrete:         []int{3, 10},
			concreteExpected: true,
		},
		{
			shape:   ast.NewShape(ast.UInt(2), n),
			sum:     "(2 + n)",
			product: "(2 * n)",
		},
		{
			shape:   ast.NewShape(n, ast.UInt(4)),
			sum:     "(n + 4)",
			product: "(n * 4)",
		},
		{
			shape:   ast.NewShape(n),
			sum:     "n",
			product: "n",
		},
		{
			shape:   ast.NewShape(n, ast.UInt(1), m),
			sum:     "((n + 1) + m)",
			product: "(n * m)",
		},
		{
			shape:            ast.NewShape(),
			sum:              "0",
			product:          "1",
			concrete:         []int{},
			concreteExpected: true,
		},
	}
	for ti, test := range tests {
		if got := test.shape.Sum().String(); got != test.sum {
			t.Errorf("test %d: got sum %s but want %s", ti, got, test.sum)
		}
		if got := test.shape.Product().String(); got != test.product {
			t.Errorf("test %d: got product %s but want %s", ti, got, test.product)
		}
		got, ok := test.shape.Concrete()
		if ok != test.concreteExpected {
			t.Errorf("test %d: concrete returned %v but want %v", ti, ok, test.concreteExpected)
			continue
		}
		if diff := cmp.Diff(test.concrete, got); ok && diff != "" {
			t.Errorf("test %d: unexpected concrete shape (-want +got):\n%s", ti, diff)
		}
	}
}

func TestProductOrdering(t *testing.T) {
	n := &ast.Variable{ID: 1, Name: "n"}
	m := &ast.Variable{ID: 2, Name: "m"}
	tests := []struct {
		a, b *ast.Shape
		want bool
	}{
		{a: ast.NewShape(n, m), b: ast.NewShape(m, n), want: true},
		{a: ast.NewShape(n, ast.UInt(4)), b: ast.NewShape(&ast.Expr{Op: ast.OpMul, Lhs: n, Rhs: ast.UInt(4)}), want: true},
		{a: ast.NewShape(ast.UInt(2), n, ast.UInt(3)), b: ast.NewShape(ast.UInt(6), n), want: true},
		{a: ast.NewShape(n, m, ast.UInt(2)), b: ast.NewShape(m, ast.UInt(2), n), want: true},
		{a: ast.NewShape(n, ast.UInt(1)), b: ast.NewShape(n), want: true},
		{a: ast.NewShape(n, n), b: ast.NewShape(n, m), want: false},
		{a: ast.NewShape(n, ast.UInt(2)), b: ast.NewShape(n, ast.UInt(3)), want: false},
	}
	for ti, test := range tests {
		if got := ast.Equal(test.a.Product(), test.b.Product()); got != test.want {
			t.Errorf("test %d: products of %s and %s equal: %v but want %v", ti, test.a, test.b, got, test.want)
		}
	}
}

func TestLinkProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	toShape := func(dims []int) *ast.Shape {
		vals := make([]ast.Value, len(dims))
		for i, dim := range dims {
			vals[i] = ast.UInt(dim)
		}
		return ast.NewShape(vals...)
	}

	properties.Property("linking fills the unknown side", prop.ForAll(
		func(dims []int, leftKnown bool) bool {
			shape := toShape(dims)
			known := ast.NewShapes(map[string]*ast.Shape{"x": shape})
			unknown := ast.NewShapes(map[string]*ast.Shape{"x": nil})
			a, b := known, unknown
			if !leftKnown {
				a, b = unknown, known
			}
			if err := a.Link(b); err != nil {
				return false
			}
			got, _ := unknown.Get("x")
			return got.Equal(shape)
		},
		gen.SliceOf(gen.IntRange(1, 64)),
		gen.Bool(),
	))

	properties.Property("linking is idempotent", prop.ForAll(
		func(dims []int) bool {
			a := ast.NewShapes(map[string]*ast.Shape{"x": toShape(dims), "y": nil})
			b := ast.NewShapes(map[string]*ast.Shape{"x": nil, "y": toShape(dims)})
			if err := a.Link(b); err != nil {
				return false
			}
			first := a.String()
			if err := a.Link(b); err != nil {
				return false
			}
			return a.String() == first && b.String() == first
		},
		gen.SliceOf(gen.IntRange(1, 64)),
	))

	properties.Property("mismatched dimensions never link", prop.ForAll(
		func(dims []int, delta int) bool {
			if len(dims) == 0 {
				return true
			}
			other := append([]int{}, dims...)
			other[0] += delta
			a := ast.NewShapes(map[string]*ast.Shape{"x": toShape(dims)})
			b := ast.NewShapes(map[string]*ast.Shape{"x": toShape(other)})
			return a.Link(b) != nil
		},
		gen.SliceOf(gen.IntRange(1, 64)),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
