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
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builtins"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/n3lang/n3/build/graph"
	"github.com/n3lang/n3/build/ir"
	"github.com/pkg/errors"
)

// expander appends the steps of a composite node to its tensor graph.
type expander struct {
	root        *Root
	node        string
	graph       *graph.Graph
	tensorGraph ir.TensorGraph
}

func (e *expander) expand(step *ast.GraphNode) error {
	shapes, err := e.graph.ReplaceShapes(step.Shapes)
	if err != nil {
		return err
	}
	step = &ast.GraphNode{ID: step.ID, Calls: step.Calls, Shapes: shapes}
	if step.ID == ir.InputID {
		return e.expandInput(step)
	}
	if len(step.Calls) == 0 {
		return errors.Errorf("no call")
	}
	kind := builtins.Classify(step.Calls[0].Name)
	e.root.logger.Debug("expanding step", "node", e.node, "step", step.ID, "kind", kind.String())
	switch kind {
	case builtins.Input:
		return e.expandInput(step)
	case builtins.Transform:
		return e.expandTransform(step, false)
	case builtins.ToLinear:
		return e.expandTransform(step, true)
	case builtins.Concat:
		return e.expandConcat(step)
	}
	return e.expandCalls(step)
}

// fetchShape returns the shape of an output of a previous step.
// An output without a step refers to the last step of the graph.
func (e *expander) fetchShape(out *ast.Out) (*ast.Shape, error) {
	if !out.Placed {
		last := e.tensorGraph.Last()
		if last == nil {
			return nil, errors.Wrapf(&fmterr.GenericShapesError{}, "output %s", out)
		}
		out.ID, out.Placed = last.Header().ID, true
	}
	producer := e.tensorGraph.Find(out.ID)
	if producer == nil {
		return nil, &fmterr.NoSuchOutputError{Out: out.String()}
	}
	shapes := producer.OutputShapes()
	if shapes == nil {
		return nil, nil
	}
	shape, ok := shapes.Get(out.Name)
	if !ok {
		return nil, &fmterr.NoSuchOutputError{Out: out.String()}
	}
	return shape, nil
}

// expandCalls places copies of the templates called by a step.
func (e *expander) expandCalls(step *ast.GraphNode) error {
	for _, call := range step.Calls {
		if err := e.expandCall(step.ID, call); err != nil {
			return errors.Wrapf(err, "call %s", call.Name)
		}
	}
	if step.Shapes == nil {
		return nil
	}
	outputs := e.tensorGraph.OutputShapes()
	if outputs == nil {
		return nil
	}
	return step.Shapes.Link(outputs)
}

func (e *expander) expandCall(id uint64, call *ast.GraphCall) error {
	callee, err := e.root.Get(call.Name)
	if err != nil {
		return err
	}
	callee.Data.ID = id
	if callee.Repeat, err = e.graph.ReplaceTo(call.Repeat); err != nil {
		return err
	}
	if call.Args != nil {
		args := make(ast.Keywords, len(call.Args))
		for _, name := range ast.Map(call.Args).Keys() {
			if args[name], err = e.graph.ReplaceTo(call.Args[name]); err != nil {
				return errors.Wrapf(err, "argument %s", name)
			}
		}
		if err := callee.ApplyVariables(args); err != nil {
			return err
		}
	}

	given, err := dictInputs(call.Inputs)
	if err != nil {
		return err
	}
	inputs := make(ast.Outs, len(callee.Data.Input))
	for _, name := range callee.Data.Input.Keys() {
		if out, ok := given[name]; ok {
			inputs[name] = out
			continue
		}
		inputs[name] = ast.OutWithName(name)
	}
	outputs := make(ast.Outs, len(callee.Data.Output))
	for _, name := range callee.Data.Output.Keys() {
		outputs[name] = ast.NewOut(id, name)
	}
	callee.Data.Input, callee.Data.Output = inputs, outputs

	if len(e.tensorGraph) > 0 {
		if err := e.linkInputs(callee); err != nil {
			return err
		}
	}
	e.tensorGraph = append(e.tensorGraph, callee)
	return nil
}

// linkInputs links the shapes of the outputs feeding a callee
// with the input shapes of the callee.
func (e *expander) linkInputs(callee *ir.NodeIR) error {
	given := ast.NewShapes(nil)
	for _, name := range callee.Data.Input.Keys() {
		out := callee.Data.Input[name]
		shape, err := e.fetchShape(&out)
		if err != nil {
			return err
		}
		callee.Data.Input[name] = out
		given.Set(name, shape)
	}
	inputs := callee.InputShapes()
	if inputs == nil {
		for name, out := range callee.Data.Input {
			out.ID, out.Placed = ir.InputID, true
			callee.Data.Input[name] = out
		}
		return nil
	}
	if err := given.Link(inputs); err != nil {
		return err
	}
	// Outputs left undetermined by the callee are the same as its inputs.
	outputs := callee.OutputShapes()
	if outputs == nil || outputs == inputs {
		return nil
	}
	for _, name := range outputs.Keys() {
		if shape, _ := outputs.Get(name); shape != nil {
			continue
		}
		if shape, ok := inputs.Get(name); ok {
			outputs.Set(name, shape)
		}
	}
	return nil
}

func dictInputs(inputs ast.GraphInputs) (ast.Outs, error) {
	switch inputs := inputs.(type) {
	case nil:
		return ast.Outs{}, nil
	case ast.Outs:
		return inputs, nil
	}
	return nil, &fmterr.InputsTypeError{
		Expected: ast.DictInputs.String(),
		Given:    inputs.InputsType().String(),
	}
}
