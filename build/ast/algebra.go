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

import "math"

// number is a numeric literal unpacked for arithmetic.
type number struct {
	real     bool
	unsigned bool
	i        int64
	f        float64
}

func toNumber(v Value) (number, bool) {
	switch v := v.(type) {
	case UInt:
		if uint64(v) > math.MaxInt64 {
			return number{real: true, f: float64(v)}, true
		}
		return number{unsigned: true, i: int64(v)}, true
	case Int:
		return number{i: int64(v)}, true
	case Real:
		return number{real: true, f: float64(v)}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	if n.real {
		return n.f
	}
	return float64(n.i)
}

func (n number) value() Value {
	switch {
	case n.real:
		return Real(n.f)
	case n.unsigned && n.i >= 0:
		return UInt(n.i)
	}
	return Int(n.i)
}

func foldNumbers(op Operator, x, y number) (Value, bool) {
	if x.real || y.real {
		a, b := x.float(), y.float()
		var r float64
		switch op {
		case OpAdd:
			r = a + b
		case OpSub:
			r = a - b
		case OpMul:
			r = a * b
		case OpDiv:
			r = a / b
		case OpMod:
			r = math.Mod(a, b)
		}
		return Real(r), true
	}
	r := number{unsigned: x.unsigned && y.unsigned}
	switch op {
	case OpAdd:
		r.i = x.i + y.i
	case OpSub:
		r.i = x.i - y.i
	case OpMul:
		r.i = x.i * y.i
	case OpDiv:
		if y.i == 0 {
			return nil, false
		}
		r.i = x.i / y.i
	case OpMod:
		if y.i == 0 {
			return nil, false
		}
		r.i = x.i % y.i
	}
	return r.value(), true
}

// Reduce evaluates a value as much as possible.
//
// Variables are replaced by their values and expressions over numeric
// literals are folded. Values depending on unbound variables are returned
// partially reduced.
func Reduce(v Value) Value {
	switch v := v.(type) {
	case *Variable:
		if v.Value == nil {
			return v
		}
		return Reduce(v.Value)
	case *Expr:
		lhs, rhs := Reduce(v.Lhs), Reduce(v.Rhs)
		x, xOk := toNumber(lhs)
		y, yOk := toNumber(rhs)
		if xOk && yOk {
			if folded, ok := foldNumbers(v.Op, x, y); ok {
				return folded
			}
		}
		if kept, ok := dropIdentity(v.Op, lhs, rhs); ok {
			return kept
		}
		return &Expr{Op: v.Op, Lhs: lhs, Rhs: rhs}
	case List:
		if v == nil {
			return v
		}
		r := make(List, len(v))
		for i, val := range v {
			r[i] = reduceOrNil(val)
		}
		return r
	case Map:
		if v == nil {
			return v
		}
		r := make(Map, len(v))
		for k, val := range v {
			r[k] = reduceOrNil(val)
		}
		return r
	}
	return v
}

// isInteger returns true if v is the integer literal n.
func isInteger(v Value, n int64) bool {
	x, ok := toNumber(v)
	return ok && !x.real && x.i == n
}

// dropIdentity removes an identity operand: 0 for + and 1 for *.
func dropIdentity(op Operator, lhs, rhs Value) (Value, bool) {
	switch op {
	case OpAdd:
		if isInteger(lhs, 0) {
			return rhs, true
		}
		if isInteger(rhs, 0) {
			return lhs, true
		}
	case OpSub:
		if isInteger(rhs, 0) {
			return lhs, true
		}
	case OpMul:
		if isInteger(lhs, 1) {
			return rhs, true
		}
		if isInteger(rhs, 1) {
			return lhs, true
		}
	case OpDiv:
		if isInteger(rhs, 1) {
			return lhs, true
		}
	}
	return nil, false
}

func reduceOrNil(v Value) Value {
	if v == nil {
		return nil
	}
	return Reduce(v)
}

// AsInt returns the integer a value reduces to.
func AsInt(v Value) (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch v := Reduce(v).(type) {
	case UInt:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case Int:
		return int64(v), true
	}
	return 0, false
}

// Add returns the reduced sum of two values.
func Add(a, b Value) Value {
	return Reduce(&Expr{Op: OpAdd, Lhs: a, Rhs: b})
}

// Mul returns the reduced product of two values.
func Mul(a, b Value) Value {
	return Reduce(&Expr{Op: OpMul, Lhs: a, Rhs: b})
}

// Equal returns true if two values reduce to the same value.
// Integers compare equal regardless of their signedness.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalReduced(Reduce(a), Reduce(b))
}

func equalReduced(a, b Value) bool {
	if x, ok := toNumber(a); ok {
		y, ok := toNumber(b)
		if !ok {
			return false
		}
		if x.real || y.real {
			return x.float() == y.float()
		}
		return x.i == y.i
	}
	switch a := a.(type) {
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case NodeName:
		b, ok := b.(NodeName)
		return ok && a == b
	case *OutDim:
		b, ok := b.(*OutDim)
		return ok && a.Out == b.Out && a.Dim == b.Dim
	case *Variable:
		b, ok := b.(*Variable)
		if !ok {
			return false
		}
		if a.IsRef() || b.IsRef() {
			return a.Name == b.Name
		}
		return a.ID == b.ID
	case *Expr:
		b, ok := b.(*Expr)
		if !ok || a.Op != b.Op {
			return false
		}
		if a.Op == OpAdd || a.Op == OpMul {
			return equalChains(a.Op, a, b)
		}
		return equalReduced(a.Lhs, b.Lhs) && equalReduced(a.Rhs, b.Rhs)
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Map:
		b, ok := b.(Map)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, va := range a {
			vb, ok := b[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return false
}

// operands flattens a chain of the same operator into its operands.
func operands(op Operator, v Value, acc []Value) []Value {
	if e, ok := v.(*Expr); ok && e.Op == op {
		acc = operands(op, e.Lhs, acc)
		return operands(op, e.Rhs, acc)
	}
	return append(acc, v)
}

// splitChain folds the literal operands of a chain into a single constant
// and returns it with the remaining symbolic operands.
func splitChain(op Operator, e *Expr) (number, []Value) {
	identity := int64(0)
	if op == OpMul {
		identity = 1
	}
	cst := number{unsigned: true, i: identity}
	var terms []Value
	for _, v := range operands(op, e, nil) {
		x, ok := toNumber(v)
		if !ok {
			terms = append(terms, v)
			continue
		}
		folded, _ := foldNumbers(op, cst, x)
		cst, _ = toNumber(folded)
	}
	return cst, terms
}

// equalChains compares two chains of + or * as multisets of operands.
func equalChains(op Operator, a, b *Expr) bool {
	ca, ta := splitChain(op, a)
	cb, tb := splitChain(op, b)
	if !equalReduced(ca.value(), cb.value()) || len(ta) != len(tb) {
		return false
	}
	used := make([]bool, len(tb))
	for _, x := range ta {
		found := false
		for i, y := range tb {
			if !used[i] && equalReduced(x, y) {
				used[i], found = true, true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
