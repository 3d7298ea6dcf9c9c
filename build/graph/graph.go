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

// Package graph implements the variable scopes of node templates.
package graph

import (
	"fmt"

	nfmt "github.com/n3lang/n3/base/fmt"
	"github.com/n3lang/n3/base/ordered"
	"github.com/n3lang/n3/base/seed"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/pkg/errors"
)

// Graph is the table of variables of a node.
type Graph struct {
	id   uint64
	vars *ordered.Map[string, *ast.Variable]
}

// New returns an empty graph with a new identifier.
func New(s *seed.Seed) *Graph {
	return &Graph{
		id:   s.Generate(),
		vars: ordered.NewMap[string, *ast.Variable](),
	}
}

// WithOneVar returns a graph with a single variable set to a value.
func WithOneVar(s *seed.Seed, name string, value ast.Value) *Graph {
	g := New(s)
	g.vars.Store(name, &ast.Variable{
		ID:       s.Generate(),
		Name:     name,
		Declared: value.Type(),
		Value:    value,
	})
	return g
}

// ID of the graph.
func (g *Graph) ID() uint64 {
	return g.id
}

// Add a variable to the graph.
func (g *Graph) Add(v *ast.Variable) error {
	if _, ok := g.vars.Load(v.Name); ok {
		return errors.Errorf("variable %q already declared", v.Name)
	}
	g.vars.Store(v.Name, v)
	return nil
}

// Get a variable given its name.
func (g *Graph) Get(name string) (*ast.Variable, bool) {
	return g.vars.Load(name)
}

// Variables returns the variables of the graph sorted by name.
func (g *Graph) Variables() []*ast.Variable {
	vars := make([]*ast.Variable, 0, g.vars.Size())
	for v := range g.vars.Values() {
		vars = append(vars, v)
	}
	return vars
}

// Values returns the reduced value of every variable.
// Unbound variables are absent.
func (g *Graph) Values() ast.Map {
	if g == nil {
		return nil
	}
	vals := ast.Map{}
	for name, v := range g.vars.Iter() {
		if v.Value == nil {
			continue
		}
		vals[name] = ast.Reduce(v)
	}
	return vals
}

// ReplaceTo returns a value where all variable references have been
// replaced by the variables of the graph.
func (g *Graph) ReplaceTo(v ast.Value) (ast.Value, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case *ast.Variable:
		if !v.IsRef() {
			return v, nil
		}
		resolved, ok := g.vars.Load(v.Name)
		if !ok {
			return nil, &fmterr.NoSuchVariableError{Name: v.Name}
		}
		return resolved, nil
	case *ast.Expr:
		lhs, err := g.ReplaceTo(v.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := g.ReplaceTo(v.Rhs)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Op: v.Op, Lhs: lhs, Rhs: rhs}, nil
	case ast.List:
		if v == nil {
			return v, nil
		}
		r := make(ast.List, len(v))
		for i, val := range v {
			var err error
			if r[i], err = g.ReplaceTo(val); err != nil {
				return nil, err
			}
		}
		return r, nil
	case ast.Map:
		if v == nil {
			return v, nil
		}
		r := make(ast.Map, len(v))
		for _, k := range v.Keys() {
			var err error
			if r[k], err = g.ReplaceTo(v[k]); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
	return v, nil
}

// ReplaceShape returns a shape where variable references have been resolved.
func (g *Graph) ReplaceShape(s *ast.Shape) (*ast.Shape, error) {
	if s == nil {
		return nil, nil
	}
	dims := make([]ast.Value, len(s.Dims))
	for i, dim := range s.Dims {
		var err error
		if dims[i], err = g.ReplaceTo(dim); err != nil {
			return nil, errors.Wrapf(err, "dimension %d", i)
		}
	}
	return ast.NewShape(dims...), nil
}

// ReplaceShapes returns a table where variable references have been resolved.
// The table given as an argument is not modified.
func (g *Graph) ReplaceShapes(s *ast.Shapes) (*ast.Shapes, error) {
	if s == nil {
		return nil, nil
	}
	r := ast.NewShapes(nil)
	for name, shape := range s.Iter() {
		replaced, err := g.ReplaceShape(shape)
		if err != nil {
			return nil, errors.Wrapf(err, "shape %s", name)
		}
		r.Set(name, replaced)
	}
	return r, nil
}

// Apply binds variables of the graph to values.
// The values must have been resolved in the scope of the caller.
func (g *Graph) Apply(args ast.Keywords) error {
	var app fmterr.Appender
	for _, name := range ast.Map(args).Keys() {
		v, ok := g.vars.Load(name)
		if !ok {
			app.Append(&fmterr.NoSuchVariableError{Name: name})
			continue
		}
		value := args[name]
		if !v.Declared.Accepts(value) {
			app.Append(&fmterr.ArgTypeError{
				Name:     name,
				Expected: v.Declared.String(),
				Given:    ast.Reduce(value).Type().String(),
			})
			continue
		}
		v.Value = value
	}
	return app.ToError()
}

// CloneSafe returns a copy of the graph where every variable has been copied.
func (g *Graph) CloneSafe(c *ast.Cloner) *Graph {
	return ast.Memo(c, g, func() *Graph {
		return &Graph{
			id:   c.Seed().Generate(),
			vars: ordered.NewMap[string, *ast.Variable](),
		}
	}, func(cloned *Graph) {
		for name, v := range g.vars.Iter() {
			cloned.vars.Store(name, v.CloneSafe(c))
		}
	})
}

func (g *Graph) String() string {
	items := make([]string, 0, g.vars.Size())
	for _, v := range g.Variables() {
		items = append(items, fmt.Sprintf("%s: %s = %s", v.Name, v.Declared, valueString(v.Value)))
	}
	return nfmt.Block(fmt.Sprintf("graph %d", g.id), items)
}

func valueString(v ast.Value) string {
	if v == nil {
		return "_"
	}
	return v.String()
}
