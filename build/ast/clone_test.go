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

	"github.com/n3lang/n3/base/seed"
	"github.com/n3lang/n3/build/ast"
)

func TestCloneSafe(t *testing.T) {
	s := seed.New()
	n := &ast.Variable{ID: s.Generate(), Name: "n", Declared: ast.UIntType}
	m := &ast.Variable{ID: s.Generate(), Name: "m", Value: &ast.Expr{Op: ast.OpMul, Lhs: n, Rhs: ast.UInt(2)}}
	shape := ast.NewShape(ast.UInt(3), m)
	out := ast.NewShapes(map[string]*ast.Shape{"x": shape})
	in := ast.NewShapes(map[string]*ast.Shape{"x": shape, "y": nil})

	c := ast.NewCloner(s)
	clonedM := m.CloneSafe(c)
	clonedOut := out.CloneSafe(c)
	clonedIn := in.CloneSafe(c)

	if clonedM == m || clonedM.ID == m.ID {
		t.Errorf("variable %s has not been copied: got ID %d", m, clonedM.ID)
	}
	if got, want := len(c.Variables()), 2; got != want {
		t.Errorf("cloner copied %d variables but want %d", got, want)
	}
	outShape, _ := clonedOut.Get("x")
	inShape, _ := clonedIn.Get("x")
	if outShape != inShape {
		t.Errorf("shared shape has been copied twice")
	}
	if outShape == shape {
		t.Errorf("shape has not been copied")
	}
	if outShape.Dims[1] != ast.Value(clonedM) {
		t.Errorf("cloned shape does not reference the cloned variable")
	}

	// Binding the copy does not change the original.
	clonedN := clonedM.Value.(*ast.Expr).Lhs.(*ast.Variable)
	clonedN.Value = ast.UInt(16)
	if got := ast.Reduce(outShape.Dims[1]).String(); got != "32" {
		t.Errorf("cloned dimension reduced to %s but want 32", got)
	}
	if got := ast.Reduce(shape.Dims[1]).String(); got != "(n * 2)" {
		t.Errorf("original dimension reduced to %s but want (n * 2)", got)
	}

	// Linking the copy does not change the original.
	if err := clonedIn.Link(ast.NewShapes(map[string]*ast.Shape{"x": nil, "y": ast.IntShape(1)})); err != nil {
		t.Fatal(err)
	}
	if y, _ := in.Get("y"); y != nil {
		t.Errorf("original shape y has been set to %s", y)
	}
}
