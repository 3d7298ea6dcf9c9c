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

package fmterr

import (
	"fmt"
	"strings"

	n3fmt "github.com/n3lang/n3/base/fmt"
)

type (
	// GenericShapeError is returned when the shape of a port is required
	// but has not been resolved.
	GenericShapeError struct {
		Name string
	}

	// GenericShapesError is returned when a shape table is required but
	// the producing node is fully dynamic.
	GenericShapesError struct{}

	// GenericListInputShapeError is returned when the shape of a positional
	// input has not been resolved.
	GenericListInputShapeError struct {
		Index int
	}

	// ShapeKeysError is returned when two shape tables do not have the same ports.
	ShapeKeysError struct {
		Expected, Given []string
	}

	// ShapeRankError is returned when two shapes do not have the same number of dimensions.
	ShapeRankError struct {
		Name            string
		Expected, Given int
	}

	// NotEqualError is returned when two values are not structurally equal.
	NotEqualError struct {
		Expected, Given string
	}

	// AxisError is returned when an axis is out of range.
	AxisError struct {
		Min, Max, Given int64
	}

	// EmptyInputsError is returned when a list of inputs is empty.
	EmptyInputsError struct{}

	// InputsTypeError is returned when the inputs of a call do not have the expected structure.
	InputsTypeError struct {
		Expected, Given string
	}

	// ArgTypeError is returned when an argument value does not have the expected type.
	ArgTypeError struct {
		Name            string
		Expected, Given string
	}

	// NameError is returned when a source defines a node with an unexpected name.
	NameError struct {
		Expected, Given string
	}

	// NoSuchNodeError is returned when a node name is not registered.
	NoSuchNodeError struct {
		Name string
	}

	// CyclicNodeError is returned when building a node requires the node itself.
	CyclicNodeError struct {
		Name  string
		Stack []string
	}

	// NodeTypeError is returned when a node does not have the type declared by a variable.
	NodeTypeError struct {
		Expected, Given string
	}

	// EmptyValueError is returned when a variable requires a value but none has been bound.
	EmptyValueError struct {
		Name     string
		Expected string
	}

	// NoSuchVariableError is returned when a variable cannot be found in a scope.
	NoSuchVariableError struct {
		Name string
	}

	// NoSuchOutputError is returned when an input refers to an output that does not exist.
	NoSuchOutputError struct {
		Out string
	}

	// RepeatError is returned when a repeated node cannot be lowered.
	RepeatError struct {
		Node   string
		Reason string
	}

	// VersionError is returned when a source requires a newer DSL.
	VersionError struct {
		Given, Supported string
	}
)

func (err *GenericShapeError) Error() string {
	return fmt.Sprintf("shape of %q has not been resolved", err.Name)
}

func (err *GenericShapesError) Error() string {
	return "shapes have not been resolved"
}

func (err *GenericListInputShapeError) Error() string {
	return fmt.Sprintf("shape of input %d has not been resolved", err.Index)
}

func (err *ShapeKeysError) Error() string {
	return fmt.Sprintf("mismatched shape keys: expected %s but got %s", n3fmt.Set(err.Expected), n3fmt.Set(err.Given))
}

func (err *ShapeRankError) Error() string {
	prefix := ""
	if err.Name != "" {
		prefix = fmt.Sprintf("%s: ", err.Name)
	}
	return fmt.Sprintf("%smismatched number of dimensions: expected %d but got %d", prefix, err.Expected, err.Given)
}

func (err *NotEqualError) Error() string {
	return fmt.Sprintf("values are not equal: expected %s but got %s", err.Expected, err.Given)
}

func (err *AxisError) Error() string {
	return fmt.Sprintf("axis out of range: expected a value in [%d, %d] but got %d", err.Min, err.Max, err.Given)
}

func (err *EmptyInputsError) Error() string {
	return "inputs cannot be empty"
}

func (err *InputsTypeError) Error() string {
	return fmt.Sprintf("mismatched inputs type: expected %s but got %s", err.Expected, err.Given)
}

func (err *ArgTypeError) Error() string {
	return fmt.Sprintf("mismatched type for argument %q: expected %s but got %s", err.Name, err.Expected, err.Given)
}

func (err *NameError) Error() string {
	return fmt.Sprintf("mismatched node name: expected %q but got %q", err.Expected, err.Given)
}

func (err *NoSuchNodeError) Error() string {
	return fmt.Sprintf("no such node: %q", err.Name)
}

func (err *CyclicNodeError) Error() string {
	cycle := append(append([]string{}, err.Stack...), err.Name)
	return fmt.Sprintf("cyclic node reference: %s", strings.Join(cycle, " -> "))
}

func (err *NodeTypeError) Error() string {
	return fmt.Sprintf("mismatched node type: expected %s but got %s", err.Expected, err.Given)
}

func (err *EmptyValueError) Error() string {
	return fmt.Sprintf("variable %q has no value: expected %s", err.Name, err.Expected)
}

func (err *NoSuchVariableError) Error() string {
	return fmt.Sprintf("no such variable: %q", err.Name)
}

func (err *NoSuchOutputError) Error() string {
	return fmt.Sprintf("no such output: %s", err.Out)
}

func (err *RepeatError) Error() string {
	return fmt.Sprintf("cannot repeat node %s: %s", err.Node, err.Reason)
}

func (err *VersionError) Error() string {
	return fmt.Sprintf("source requires version %s but only %s is supported", err.Given, err.Supported)
}

// ConditionError is returned when a graph step does not satisfy the
// requirements of the builtin node it calls.
type ConditionError struct {
	Names []string
	Err   error
}

func (err *ConditionError) Error() string {
	return fmt.Sprintf("invalid step for %s: %v", strings.Join(err.Names, " or "), err.Err)
}

// Unwrap returns the errors collected while checking the step.
func (err *ConditionError) Unwrap() error {
	return err.Err
}
