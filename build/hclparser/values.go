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

package hclparser

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/n3lang/n3/build/ast"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

var operators = map[*hclsyntax.Operation]ast.Operator{
	hclsyntax.OpAdd:      ast.OpAdd,
	hclsyntax.OpSubtract: ast.OpSub,
	hclsyntax.OpMultiply: ast.OpMul,
	hclsyntax.OpDivide:   ast.OpDiv,
	hclsyntax.OpModulo:   ast.OpMod,
}

// absent returns true if an optional attribute has not been set.
func absent(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

// parseValue converts an expression into a value.
// Expressions referencing variables are kept symbolic.
func parseValue(expr hcl.Expression) (ast.Value, error) {
	if len(expr.Variables()) == 0 {
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		return fromCty(expr.Range(), v)
	}
	switch expr := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(expr.Traversal) != 1 {
			return nil, errors.Errorf("%s: only plain variable names can be referenced", expr.Range())
		}
		return ast.VarRef(expr.Traversal.RootName()), nil
	case *hclsyntax.ParenthesesExpr:
		return parseValue(expr.Expression)
	case *hclsyntax.TemplateWrapExpr:
		return parseValue(expr.Wrapped)
	case *hclsyntax.BinaryOpExpr:
		op, ok := operators[expr.Op]
		if !ok {
			return nil, errors.Errorf("%s: unsupported operator", expr.Range())
		}
		lhs, err := parseValue(expr.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := parseValue(expr.RHS)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Op: op, Lhs: lhs, Rhs: rhs}, nil
	case *hclsyntax.UnaryOpExpr:
		if expr.Op != hclsyntax.OpNegate {
			return nil, errors.Errorf("%s: unsupported operator", expr.Range())
		}
		val, err := parseValue(expr.Val)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Op: ast.OpSub, Lhs: ast.Int(0), Rhs: val}, nil
	case *hclsyntax.TupleConsExpr:
		list := make(ast.List, len(expr.Exprs))
		for i, item := range expr.Exprs {
			var err error
			if list[i], err = parseValue(item); err != nil {
				return nil, err
			}
		}
		return list, nil
	case *hclsyntax.ObjectConsExpr:
		return parseMap(expr)
	}
	return nil, errors.Errorf("%s: unsupported expression", expr.Range())
}

func parseMap(expr hcl.Expression) (ast.Map, error) {
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	m := make(ast.Map, len(pairs))
	for _, kv := range pairs {
		key, err := parseKey(kv.Key)
		if err != nil {
			return nil, err
		}
		if absent(kv.Value) {
			m[key] = nil
			continue
		}
		if m[key], err = parseValue(kv.Value); err != nil {
			return nil, errors.Wrapf(err, "%s", key)
		}
	}
	return m, nil
}

func parseKey(expr hcl.Expression) (string, error) {
	key, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if key.IsNull() || key.Type() != cty.String {
		return "", errors.Errorf("%s: keys must be names", expr.Range())
	}
	return key.AsString(), nil
}

func fromCty(rng hcl.Range, v cty.Value) (ast.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, errors.Errorf("%s: unknown value", rng)
	}
	tp := v.Type()
	switch {
	case tp == cty.Bool:
		return ast.Bool(v.True()), nil
	case tp == cty.Number:
		return fromNumber(v), nil
	case tp == cty.String:
		return ast.NodeName(v.AsString()), nil
	case tp.IsTupleType() || tp.IsListType() || tp.IsSetType():
		var list ast.List
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			val, err := fromCty(rng, elem)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case tp.IsObjectType() || tp.IsMapType():
		m := ast.Map{}
		for k, elem := range v.AsValueMap() {
			val, err := fromCty(rng, elem)
			if err != nil {
				return nil, err
			}
			m[k] = val
		}
		return m, nil
	}
	return nil, errors.Errorf("%s: unsupported value of type %s", rng, tp.FriendlyName())
}

func fromNumber(v cty.Value) ast.Value {
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		f, _ := bf.Float64()
		return ast.Real(f)
	}
	if bf.Sign() < 0 {
		i, _ := bf.Int64()
		return ast.Int(i)
	}
	u, _ := bf.Uint64()
	return ast.UInt(u)
}

// parseShapes parses a table of shapes: { x = [n, 32], y = null }.
func parseShapes(expr hcl.Expression) (*ast.Shapes, error) {
	if absent(expr) {
		return nil, nil
	}
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	shapes := ast.NewShapes(nil)
	for _, kv := range pairs {
		name, err := parseKey(kv.Key)
		if err != nil {
			return nil, err
		}
		if absent(kv.Value) {
			shapes.Set(name, nil)
			continue
		}
		items, diags := hcl.ExprList(kv.Value)
		if diags.HasErrors() {
			return nil, errors.Wrapf(diags, "shape %s", name)
		}
		dims := make([]ast.Value, len(items))
		for i, item := range items {
			if dims[i], err = parseValue(item); err != nil {
				return nil, errors.Wrapf(err, "shape %s", name)
			}
		}
		shapes.Set(name, ast.NewShape(dims...))
	}
	return shapes, nil
}

// parseInputs parses the inputs of a call, either a list of outputs
// ["x$1", "x$2"] or a map of outputs { x = "y$1" }.
func parseInputs(expr hcl.Expression) (ast.GraphInputs, error) {
	if absent(expr) {
		return nil, nil
	}
	if items, diags := hcl.ExprList(expr); !diags.HasErrors() {
		outs := make(ast.OutList, len(items))
		for i, item := range items {
			var err error
			if outs[i], err = parseOut(item); err != nil {
				return nil, err
			}
		}
		return outs, nil
	}
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	outs := make(ast.Outs, len(pairs))
	for _, kv := range pairs {
		name, err := parseKey(kv.Key)
		if err != nil {
			return nil, err
		}
		if outs[name], err = parseOut(kv.Value); err != nil {
			return nil, err
		}
	}
	return outs, nil
}

func parseOut(expr hcl.Expression) (ast.Out, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return ast.Out{}, diags
	}
	if v.IsNull() || v.Type() != cty.String {
		return ast.Out{}, errors.Errorf("%s: outputs are written as strings such as \"x$1\"", expr.Range())
	}
	return ast.ParseOut(v.AsString())
}

func parseArgs(expr hcl.Expression) (ast.Keywords, error) {
	if absent(expr) {
		return nil, nil
	}
	m, err := parseMap(expr)
	if err != nil {
		return nil, err
	}
	return ast.Keywords(m), nil
}
