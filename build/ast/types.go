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
	"strings"

	"github.com/pkg/errors"
)

// LetKind is the kind of value a variable can hold.
type LetKind int

const (
	// UnknownKind is the kind of a value that has not been resolved yet.
	UnknownKind LetKind = iota
	BoolKind
	UIntKind
	IntKind
	RealKind
	DimKind
	NodeKind
	ListKind
	MapKind
)

var letKindNames = map[LetKind]string{
	UnknownKind: "unknown",
	BoolKind:    "bool",
	UIntKind:    "uint",
	IntKind:     "int",
	RealKind:    "real",
	DimKind:     "dim",
	NodeKind:    "node",
	ListKind:    "list",
	MapKind:     "map",
}

func (k LetKind) String() string {
	return letKindNames[k]
}

// LetNodeType is the type of a node template.
type LetNodeType int

const (
	// AnyNode accepts any kind of node.
	AnyNode LetNodeType = iota
	// DefaultNode is a composite node.
	DefaultNode
	// ExternNode is a leaf node implemented by an external script.
	ExternNode
	// DataNode is an external node providing data.
	DataNode
	// OptimNode is an external node implementing an optimizer.
	OptimNode
	// ExecNode is a top-level program.
	ExecNode
)

var nodeTypeNames = map[LetNodeType]string{
	AnyNode:     "any",
	DefaultNode: "default",
	ExternNode:  "extern",
	DataNode:    "data",
	OptimNode:   "optim",
	ExecNode:    "exec",
}

func (t LetNodeType) String() string {
	return nodeTypeNames[t]
}

// IsExtern returns true if the node is implemented by an external script.
func (t LetNodeType) IsExtern() bool {
	return t == ExternNode || t == DataNode || t == OptimNode
}

// AcceptedAs returns true if a node of type t can be used where a node of
// type expected is required. An extern node is accepted where a default node
// is expected, but not the other way around.
func (t LetNodeType) AcceptedAs(expected LetNodeType) bool {
	if expected == AnyNode || t == expected {
		return true
	}
	return t == ExternNode && expected == DefaultNode
}

// ParseNodeType returns the node type given its name.
// An empty name is a default node.
func ParseNodeType(s string) (LetNodeType, error) {
	if s == "" {
		return DefaultNode, nil
	}
	for tp, name := range nodeTypeNames {
		if name == s && tp != AnyNode {
			return tp, nil
		}
	}
	return AnyNode, errors.Errorf("unknown node type %q", s)
}

// LetType is the declared type of a variable.
// The node type is only meaningful when the kind is NodeKind.
type LetType struct {
	Kind LetKind
	Node LetNodeType
}

// Type helpers.
var (
	UnknownType = LetType{}
	BoolType    = LetType{Kind: BoolKind}
	UIntType    = LetType{Kind: UIntKind}
	IntType     = LetType{Kind: IntKind}
	RealType    = LetType{Kind: RealKind}
	DimType     = LetType{Kind: DimKind}
	ListType    = LetType{Kind: ListKind}
	MapType     = LetType{Kind: MapKind}
)

// NodeType returns the type of a variable referencing a node.
func NodeType(tp LetNodeType) LetType {
	return LetType{Kind: NodeKind, Node: tp}
}

// ParseLetType parses a type such as "uint" or "node:extern".
func ParseLetType(s string) (LetType, error) {
	kindName, nodeName, isNode := strings.Cut(s, ":")
	for kind, name := range letKindNames {
		if name != kindName || kind == UnknownKind {
			continue
		}
		if kind != NodeKind {
			if isNode {
				return UnknownType, errors.Errorf("type %q does not accept a node type", kindName)
			}
			return LetType{Kind: kind}, nil
		}
		if !isNode {
			return NodeType(AnyNode), nil
		}
		tp, err := ParseNodeType(nodeName)
		if err != nil {
			return UnknownType, err
		}
		return NodeType(tp), nil
	}
	return UnknownType, errors.Errorf("unknown type %q", s)
}

func (t LetType) String() string {
	if t.Kind == NodeKind && t.Node != AnyNode {
		return t.Kind.String() + ":" + t.Node.String()
	}
	return t.Kind.String()
}

func isIntegerKind(k LetKind) bool {
	return k == UIntKind || k == IntKind
}

// Accepts returns true if a value can be assigned to a variable of type t.
// Values whose type cannot be known before the variable is bound are accepted.
func (t LetType) Accepts(v Value) bool {
	if t.Kind == UnknownKind || v == nil {
		return true
	}
	given := Reduce(v).Type()
	switch {
	case given.Kind == UnknownKind:
		return true
	case t.Kind == given.Kind:
		return true
	case t.Kind == IntKind || t.Kind == DimKind:
		return isIntegerKind(given.Kind)
	case t.Kind == UIntKind:
		return given.Kind == IntKind && isNonNegative(v)
	case t.Kind == RealKind:
		return isIntegerKind(given.Kind)
	}
	return false
}

func isNonNegative(v Value) bool {
	i, ok := AsInt(v)
	return ok && i >= 0
}
