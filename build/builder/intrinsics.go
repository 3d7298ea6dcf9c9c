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

package builder

import (
	"slices"
	"strconv"

	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builtins"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/n3lang/n3/build/graph"
	"github.com/n3lang/n3/build/ir"
	"github.com/pkg/errors"
)

// outputShapesVar is the variable storing the output shapes of a Transform
// or ToLinear node.
const outputShapesVar = "output shapes"

// axisVar is the variable storing the axis of a Concat node.
const axisVar = "axis"

// push places a builtin leaf node at a step.
// Its outputs are the ports of the step.
func (e *expander) push(ext *ir.ExternIR, id uint64) {
	ext.Data.ID = id
	ext.Data.Output = ext.Outputs.ToOuts(id)
	e.tensorGraph = append(e.tensorGraph, ext)
}

// expandInput declares the shapes of the inputs of the graph.
func (e *expander) expandInput(step *ast.GraphNode) error {
	cond := condition{
		names:      []string{builtins.InputName},
		inputsType: ast.UseLast,
		sized:      true,
		idZero:     true,
	}
	if err := cond.test(step); err != nil {
		return err
	}
	e.push(&ir.ExternIR{
		Data:    ir.NewIRData(builtins.AssertShapeName, graph.New(e.root.seed), nil, step.Shapes),
		Outputs: step.Shapes,
	}, step.ID)
	return nil
}

// expandTransform reshapes the outputs of the graph.
// A linear transform flattens every output into a single dimension.
// Otherwise, the output shapes are declared by the step and must have
// as many elements as the shapes they replace.
func (e *expander) expandTransform(step *ast.GraphNode, linear bool) error {
	name := builtins.TransformName
	if linear {
		name = builtins.ToLinearName
	}
	cond := condition{
		names:      []string{name},
		inputsType: ast.UseLast,
		sized:      !linear,
	}
	if err := cond.test(step); err != nil {
		return err
	}
	inputs := e.tensorGraph.OutputShapes()
	if inputs == nil {
		return &fmterr.GenericShapesError{}
	}
	var outputs *ast.Shapes
	if linear {
		outputs = ast.NewShapes(nil)
		for port, shape := range inputs.Iter() {
			if shape == nil {
				outputs.Set(port, nil)
				continue
			}
			outputs.Set(port, ast.NewShape(shape.Product()))
		}
	} else {
		outputs = step.Shapes
		if err := checkTransform(inputs, outputs); err != nil {
			return err
		}
	}
	g := graph.WithOneVar(e.root.seed, outputShapesVar, shapesValue(outputs))
	ext := &ir.ExternIR{
		Data:    ir.NewIRData(name, g, inputs, outputs),
		Inputs:  inputs,
		Outputs: outputs,
	}
	// Reads the outputs of the previous step.
	for port := range ext.Data.Input {
		ext.Data.Input[port] = ast.OutWithName(port)
	}
	e.push(ext, step.ID)
	return nil
}

func checkTransform(inputs, outputs *ast.Shapes) error {
	inKeys, outKeys := inputs.Keys(), outputs.Keys()
	if !slices.Equal(inKeys, outKeys) {
		return &fmterr.ShapeKeysError{Expected: inKeys, Given: outKeys}
	}
	for _, port := range inKeys {
		in, _ := inputs.Get(port)
		if in == nil {
			return &fmterr.GenericShapeError{Name: port}
		}
		out, _ := outputs.Get(port)
		if out == nil {
			return &fmterr.GenericShapeError{Name: port}
		}
		inSize, outSize := in.Product(), out.Product()
		if !ast.Equal(inSize, outSize) {
			return errors.Wrapf(&fmterr.NotEqualError{
				Expected: inSize.String(),
				Given:    outSize.String(),
			}, "number of elements of %s", port)
		}
	}
	return nil
}

// shapesValue returns a table of shapes as a value.
func shapesValue(shapes *ast.Shapes) ast.Map {
	m := ast.Map{}
	for port, shape := range shapes.Iter() {
		if shape == nil {
			m[port] = nil
			continue
		}
		m[port] = ast.List(shape.Dims)
	}
	return m
}

// expandConcat concatenates a list of outputs along an axis.
//
// A negative axis a selects the axis -a - rank.
func (e *expander) expandConcat(step *ast.GraphNode) error {
	cond := condition{
		names:      []string{builtins.ConcatName},
		inputsType: ast.ListInputs,
		args:       []string{axisVar},
	}
	if err := cond.test(step); err != nil {
		return err
	}
	call := step.Calls[0]
	axisValue, err := e.graph.ReplaceTo(call.Args[axisVar])
	if err != nil {
		return err
	}
	axis, ok := ast.AsInt(axisValue)
	if !ok {
		given := ast.UnknownType
		if axisValue != nil {
			given = ast.Reduce(axisValue).Type()
		}
		return &fmterr.ArgTypeError{
			Name:     axisVar,
			Expected: ast.IntType.String(),
			Given:    given.String(),
		}
	}

	outs := append(ast.OutList{}, call.Inputs.(ast.OutList)...)
	if len(outs) == 0 {
		return &fmterr.EmptyInputsError{}
	}
	shapes := make([]*ast.Shape, len(outs))
	for i := range outs {
		if shapes[i], err = e.fetchShape(&outs[i]); err != nil {
			return err
		}
	}
	base := shapes[0]
	if base == nil {
		return &fmterr.GenericShapesError{}
	}
	rank := int64(base.Rank())
	if axis < 0 {
		axis = -axis - rank
	}
	if axis < 0 || axis >= rank {
		return &fmterr.AxisError{Min: 0, Max: rank - 1, Given: axis}
	}

	along := []ast.Value{base.Dims[axis]}
	for i, shape := range shapes[1:] {
		index := i + 1
		if shape == nil {
			return &fmterr.GenericListInputShapeError{Index: index}
		}
		if shape.Rank() != base.Rank() {
			return &fmterr.ShapeRankError{
				Name:     strconv.Itoa(index),
				Expected: base.Rank(),
				Given:    shape.Rank(),
			}
		}
		for d, dim := range shape.Dims {
			if int64(d) == axis {
				along = append(along, dim)
				continue
			}
			if !ast.Equal(base.Dims[d], dim) {
				return errors.Wrapf(&fmterr.NotEqualError{
					Expected: ast.Reduce(base.Dims[d]).String(),
					Given:    ast.Reduce(dim).String(),
				}, "input %d: dimension %d", index, d)
			}
		}
	}
	dims := append([]ast.Value{}, base.Dims...)
	dims[axis] = ast.NewShape(along...).Sum()

	inputs := ast.NewShapes(nil)
	for i, shape := range shapes {
		inputs.Set(strconv.Itoa(i), shape)
	}
	outputs := ast.NewShapes(map[string]*ast.Shape{"x": ast.NewShape(dims...)})
	g := graph.WithOneVar(e.root.seed, axisVar, ast.Int(axis))
	ext := &ir.ExternIR{
		Data:    ir.NewIRData(call.Name, g, inputs, outputs),
		Inputs:  inputs,
		Outputs: outputs,
	}
	for i, out := range outs {
		ext.Data.Input[strconv.Itoa(i)] = out
	}
	e.push(ext, step.ID)
	return nil
}
