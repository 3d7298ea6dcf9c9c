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

// Package builtins defines the reserved vocabulary of intrinsic nodes.
//
// The vocabulary is versioned with the builder: adding an intrinsic
// changes which programs are accepted and requires bumping Version.
package builtins

// Version of the intrinsic vocabulary, as a semantic version.
const Version = "v0.1.0"

// Names of the intrinsics as they appear in calls.
const (
	// InputName is the name of the call declaring the inputs of a graph.
	InputName = "Input"
	// TransformName reshapes inputs while preserving their number of elements.
	TransformName = "Transform"
	// ToLinearName flattens every input into a single dimension.
	ToLinearName = "ToLinear"
	// ConcatName concatenates a list of inputs along an axis.
	ConcatName = "Concat"
)

// AssertShapeName is the name of the leaf node lowered from an Input call.
const AssertShapeName = "AssertShape"

// Kind of a call: one of the intrinsics or a call to a user node.
type Kind int

const (
	// Default is a call to a node template.
	Default Kind = iota
	// Input declares the inputs of a graph.
	Input
	// Transform reshapes its inputs.
	Transform
	// ToLinear flattens its inputs.
	ToLinear
	// Concat concatenates its inputs.
	Concat
)

var kinds = map[string]Kind{
	InputName:     Input,
	TransformName: Transform,
	ToLinearName:  ToLinear,
	ConcatName:    Concat,
}

// Classify returns the kind of a call given the name of the callee.
func Classify(name string) Kind {
	kind, ok := kinds[name]
	if !ok {
		return Default
	}
	return kind
}

// IsIntrinsic returns true if a leaf node name has been generated
// by the builder for an intrinsic. Such nodes have no external script.
func IsIntrinsic(name string) bool {
	if name == AssertShapeName {
		return true
	}
	kind := Classify(name)
	return kind != Default && kind != Input
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Input:
		return InputName
	case Transform:
		return TransformName
	case ToLinear:
		return ToLinearName
	case Concat:
		return ConcatName
	}
	return "Default"
}
