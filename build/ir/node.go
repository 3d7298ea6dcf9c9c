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

package ir

import (
	"fmt"

	nfmt "github.com/n3lang/n3/base/fmt"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/code"
	"github.com/n3lang/n3/build/fmterr"
)

// NodeIR is a composite node: a graph of tensor nodes.
type NodeIR struct {
	Data        IRData
	Kind        ast.LetNodeType
	TensorGraph TensorGraph
	// Repeat is the number of times the node runs. Nil if not repeated.
	Repeat ast.Value
}

var _ TensorNode = (*NodeIR)(nil)

// Header returns the data of the node.
func (n *NodeIR) Header() *IRData {
	return &n.Data
}

// NodeType returns the type of the node.
func (n *NodeIR) NodeType() ast.LetNodeType {
	return n.Kind
}

// IsInput returns true if the node has been placed at the input step.
func (n *NodeIR) IsInput() bool {
	return n.Data.ID == InputID
}

// InputShapes returns the input shapes of the graph of the node.
func (n *NodeIR) InputShapes() *ast.Shapes {
	return n.TensorGraph.InputShapes()
}

// OutputShapes returns the output shapes of the graph of the node.
func (n *NodeIR) OutputShapes() *ast.Shapes {
	return n.TensorGraph.OutputShapes()
}

// ApplyVariables binds variables of the node.
func (n *NodeIR) ApplyVariables(args ast.Keywords) error {
	return fmterr.Node(n.Data.Name, n.Data.Graph.Apply(args))
}

// Build lowers the node and its graph to code.
func (n *NodeIR) Build(root Root) (code.Code, error) {
	repeat, err := n.buildRepeat()
	if err != nil {
		return nil, err
	}
	graph, err := n.TensorGraph.Build(root)
	if err != nil {
		return nil, fmterr.Node(n.Data.Name, err)
	}
	return &code.NodeCode{
		Name:   n.Data.Name,
		Input:  unwrapOuts(InputID, n.Data.Input, n.InputShapes()),
		Output: unwrapOuts(OutputID, n.Data.Output, n.OutputShapes()),
		Repeat: repeat,
		Graph:  graph,
	}, nil
}

// buildRepeat checks that the outputs of the node can be fed back
// as its inputs and returns the number of iterations.
func (n *NodeIR) buildRepeat() (uint64, error) {
	if n.Repeat == nil {
		return 0, nil
	}
	count, ok := ast.AsInt(n.Repeat)
	if !ok {
		return 0, &fmterr.RepeatError{
			Node:   n.Data.Name,
			Reason: fmt.Sprintf("count %s is not an integer", ast.Reduce(n.Repeat)),
		}
	}
	if count < 1 {
		return 0, &fmterr.RepeatError{
			Node:   n.Data.Name,
			Reason: fmt.Sprintf("count %d is not positive", count),
		}
	}
	inputs, outputs := n.InputShapes(), n.OutputShapes()
	if inputs == nil || outputs == nil {
		return uint64(count), nil
	}
	if err := outputs.Copy().Link(inputs.Copy()); err != nil {
		return 0, &fmterr.RepeatError{
			Node:   n.Data.Name,
			Reason: fmt.Sprintf("outputs cannot be fed back as inputs: %v", err),
		}
	}
	return uint64(count), nil
}

// CloneSafe returns a deep copy of the node.
func (n *NodeIR) CloneSafe(c *ast.Cloner) TensorNode {
	return n.Clone(c)
}

// CloneTemplate returns a deep copy of the node.
func (n *NodeIR) CloneTemplate(c *ast.Cloner) Template {
	return n.Clone(c)
}

// Clone returns a deep copy of the node.
// The header is copied first so that the variables of the node are shared
// with the nodes of its graph referencing them.
func (n *NodeIR) Clone(c *ast.Cloner) *NodeIR {
	return ast.Memo(c, n, func() *NodeIR {
		return &NodeIR{Kind: n.Kind}
	}, func(cloned *NodeIR) {
		cloned.Data = n.Data.cloneSafe(c)
		cloned.TensorGraph = n.TensorGraph.CloneSafe(c)
		cloned.Repeat = ast.CloneValue(c, n.Repeat)
	})
}

func (n *NodeIR) String() string {
	header := fmt.Sprintf("%s node %s", n.Kind, n.Data.Name)
	if n.Repeat != nil {
		header += fmt.Sprintf(" * %s", ast.Reduce(n.Repeat))
	}
	return nfmt.Block(header, n.TensorGraph.items())
}
