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

// Package ast defines the values, shapes and graph declarations of n3 nodes.
//
// Values form a small algebra: literals, variables, references to a
// dimension of an output, and binary expressions over them. Shapes are lists
// of values and can be linked together, unifying their dimensions.
package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a value of the n3 language.
type Value interface {
	// Type returns the type of the value.
	Type() LetType
	// String representation of the value.
	String() string

	cloneSafe(c *Cloner) Value
}

type (
	// Bool literal.
	Bool bool
	// UInt literal.
	UInt uint64
	// Int literal.
	Int int64
	// Real literal.
	Real float64
	// NodeName references a node template by name.
	NodeName string
	// List of values.
	List []Value
	// Map of named values. A nil entry is a value yet to be determined.
	Map map[string]Value
)

var (
	_ Value = Bool(false)
	_ Value = UInt(0)
	_ Value = Int(0)
	_ Value = Real(0)
	_ Value = NodeName("")
	_ Value = List(nil)
	_ Value = Map(nil)
	_ Value = (*OutDim)(nil)
	_ Value = (*Variable)(nil)
	_ Value = (*Expr)(nil)
)

// Type of the literal.
func (Bool) Type() LetType { return BoolType }

func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

func (v Bool) cloneSafe(*Cloner) Value { return v }

// Type of the literal.
func (UInt) Type() LetType { return UIntType }

func (v UInt) String() string { return strconv.FormatUint(uint64(v), 10) }

func (v UInt) cloneSafe(*Cloner) Value { return v }

// Type of the literal.
func (Int) Type() LetType { return IntType }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Int) cloneSafe(*Cloner) Value { return v }

// Type of the literal.
func (Real) Type() LetType { return RealType }

func (v Real) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (v Real) cloneSafe(*Cloner) Value { return v }

// Type of the literal.
func (NodeName) Type() LetType { return NodeType(AnyNode) }

func (v NodeName) String() string { return string(v) }

func (v NodeName) cloneSafe(*Cloner) Value { return v }

// Type of the list.
func (List) Type() LetType { return ListType }

func (v List) String() string {
	ss := make([]string, len(v))
	for i, val := range v {
		ss[i] = valueString(val)
	}
	return "[" + strings.Join(ss, ", ") + "]"
}

func (v List) cloneSafe(c *Cloner) Value {
	if v == nil {
		return List(nil)
	}
	r := make(List, len(v))
	for i, val := range v {
		r[i] = CloneValue(c, val)
	}
	return r
}

// Type of the map.
func (Map) Type() LetType { return MapType }

// Keys returns the sorted keys of the map.
func (v Map) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Map) String() string {
	ss := make([]string, 0, len(v))
	for _, k := range v.Keys() {
		ss = append(ss, k+": "+valueString(v[k]))
	}
	return "{" + strings.Join(ss, ", ") + "}"
}

func (v Map) cloneSafe(c *Cloner) Value {
	if v == nil {
		return Map(nil)
	}
	r := make(Map, len(v))
	for k, val := range v {
		r[k] = CloneValue(c, val)
	}
	return r
}

// OutDim references a dimension of an output of a graph step.
type OutDim struct {
	Out Out
	Dim int
}

// Type of a dimension.
func (*OutDim) Type() LetType { return DimType }

func (v *OutDim) String() string {
	return fmt.Sprintf("%s[%d]", v.Out, v.Dim)
}

func (v *OutDim) cloneSafe(*Cloner) Value {
	return &OutDim{Out: v.Out, Dim: v.Dim}
}

// Variable is a named value of a node.
//
// Variables parsed from a source reference other variables by name and have
// no ID. Variables declared in a graph have a unique ID.
type Variable struct {
	ID          uint64
	Name        string
	Description string
	Declared    LetType
	Value       Value
}

// VarRef returns a reference to a variable by name.
func VarRef(name string) *Variable {
	return &Variable{Name: name}
}

// IsRef returns true if the variable is a reference yet to be resolved.
func (v *Variable) IsRef() bool {
	return v.ID == 0
}

// Type returns the declared type of the variable if any,
// the type of its value otherwise.
func (v *Variable) Type() LetType {
	if v.Declared.Kind != UnknownKind {
		return v.Declared
	}
	if v.Value != nil {
		return v.Value.Type()
	}
	return UnknownType
}

func (v *Variable) String() string {
	return v.Name
}

func (v *Variable) cloneSafe(c *Cloner) Value {
	return v.CloneSafe(c)
}

// CloneSafe returns a copy of the variable with a new ID.
// Cloning the same variable twice with the same cloner returns the same copy.
func (v *Variable) CloneSafe(c *Cloner) *Variable {
	return memo(c, v, func() *Variable {
		cloned := &Variable{
			Name:        v.Name,
			Description: v.Description,
			Declared:    v.Declared,
		}
		if !v.IsRef() {
			cloned.ID = c.seed.Generate()
			c.variables = append(c.variables, cloned)
		}
		return cloned
	}, func(cloned *Variable) {
		cloned.Value = CloneValue(c, v.Value)
	})
}

// Operator of a binary expression.
type Operator int

// Binary operators.
const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

var opSymbols = map[Operator]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
}

func (op Operator) String() string {
	return opSymbols[op]
}

// Expr is a binary expression.
type Expr struct {
	Op       Operator
	Lhs, Rhs Value
}

// Type of the expression.
func (e *Expr) Type() LetType {
	lhs := e.Lhs.Type()
	if lhs.Kind == UnknownKind {
		return e.Rhs.Type()
	}
	return lhs
}

func (e *Expr) String() string {
	return fmt.Sprintf("(%s %s %s)", valueString(e.Lhs), e.Op, valueString(e.Rhs))
}

func (e *Expr) cloneSafe(c *Cloner) Value {
	return &Expr{
		Op:  e.Op,
		Lhs: CloneValue(c, e.Lhs),
		Rhs: CloneValue(c, e.Rhs),
	}
}

// CloneValue returns a copy of a value safe to mutate independently.
func CloneValue(c *Cloner, v Value) Value {
	if v == nil {
		return nil
	}
	return v.cloneSafe(c)
}

func valueString(v Value) string {
	if v == nil {
		return "_"
	}
	return v.String()
}
