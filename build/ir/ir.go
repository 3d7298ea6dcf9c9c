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

// Package ir is the intermediate representation of n3 nodes.
//
// Templates are built once from their sources by the builder and stored in
// a cache. Every use of a template works on a deep copy (see CloneSafe),
// which is then linked with its neighbours and finally lowered to code.
package ir

import (
	"fmt"

	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/code"
	"github.com/n3lang/n3/build/graph"
)

// Ports of the boundary of a node.
const (
	InputID  uint64 = 0
	OutputID uint64 = 1
)

// Root resolves names of templates and scripts while building code.
type Root interface {
	code.ScriptResolver
	// Get returns a fresh copy of a node template.
	Get(name string) (*NodeIR, error)
}

// IRData is the header shared by all nodes.
type IRData struct {
	// ID of the step the node has been placed at.
	ID   uint64
	Name string
	// Graph are the variables of the node.
	Graph *graph.Graph
	// Input and Output wire the ports of the node.
	// Nil if the node has not been wired.
	Input, Output ast.Outs
}

// NewIRData returns a header where the ports are the boundary of the node.
func NewIRData(name string, g *graph.Graph, inputs, outputs *ast.Shapes) IRData {
	return IRData{
		Name:   name,
		Graph:  g,
		Input:  inputs.ToOuts(InputID),
		Output: outputs.ToOuts(OutputID),
	}
}

func (d *IRData) cloneSafe(c *ast.Cloner) IRData {
	return IRData{
		ID:     d.ID,
		Name:   d.Name,
		Graph:  d.Graph.CloneSafe(c),
		Input:  d.Input.Clone(),
		Output: d.Output.Clone(),
	}
}

// Template is a node as stored in the cache of a build root.
type Template interface {
	// Header returns the data common to all nodes.
	Header() *IRData
	// NodeType returns the type of the node.
	NodeType() ast.LetNodeType
	// CloneTemplate returns a deep copy of the template.
	CloneTemplate(c *ast.Cloner) Template
}

// TensorNode is a node placed in a tensor graph.
type TensorNode interface {
	Template
	// IsInput returns true if the node is the input placeholder of a graph.
	IsInput() bool
	// InputShapes returns the shapes of the inputs, nil if unknown.
	InputShapes() *ast.Shapes
	// OutputShapes returns the shapes of the outputs, nil if unknown.
	OutputShapes() *ast.Shapes
	// Build lowers the node to code.
	Build(root Root) (code.Code, error)
	// CloneSafe returns a deep copy of the node.
	CloneSafe(c *ast.Cloner) TensorNode
	String() string
}

// TensorGraph is the ordered list of nodes of a composite node.
type TensorGraph []TensorNode

// InputShapes returns the shapes of the inputs of the graph.
func (g TensorGraph) InputShapes() *ast.Shapes {
	if len(g) == 0 {
		return nil
	}
	first := g[0]
	if first.IsInput() {
		return first.OutputShapes()
	}
	return first.InputShapes()
}

// OutputShapes returns the shapes of the outputs of the graph, that is the
// output shapes of the last node that is not a dynamic placeholder.
func (g TensorGraph) OutputShapes() *ast.Shapes {
	for i := len(g) - 1; i >= 0; i-- {
		outputs := g[i].OutputShapes()
		if outputs != nil && outputs.IsDynamic() {
			continue
		}
		return outputs
	}
	if len(g) == 0 {
		return nil
	}
	return g[len(g)-1].OutputShapes()
}

// Last returns the last node of the graph, nil if the graph is empty.
func (g TensorGraph) Last() TensorNode {
	if len(g) == 0 {
		return nil
	}
	return g[len(g)-1]
}

// Find returns the last node placed at a step.
func (g TensorGraph) Find(id uint64) TensorNode {
	for i := len(g) - 1; i >= 0; i-- {
		if g[i].Header().ID == id {
			return g[i]
		}
	}
	return nil
}

// Build lowers every node of the graph.
func (g TensorGraph) Build(root Root) ([]code.Code, error) {
	codes := make([]code.Code, len(g))
	for i, node := range g {
		var err error
		if codes[i], err = node.Build(root); err != nil {
			return nil, err
		}
	}
	return codes, nil
}

// CloneSafe returns a deep copy of the graph.
func (g TensorGraph) CloneSafe(c *ast.Cloner) TensorGraph {
	if g == nil {
		return nil
	}
	cloned := make(TensorGraph, len(g))
	for i, node := range g {
		cloned[i] = node.CloneSafe(c)
	}
	return cloned
}

func (g TensorGraph) items() []string {
	items := make([]string, len(g))
	for i, node := range g {
		items[i] = fmt.Sprintf("%d: %s", node.Header().ID, node.String())
	}
	return items
}

// unwrapOuts returns the ports of a node, defaulting to the boundary.
func unwrapOuts(id uint64, outs ast.Outs, shapes *ast.Shapes) ast.Outs {
	if outs != nil {
		return outs
	}
	if shapes == nil {
		return ast.Outs{"x": ast.NewOut(id, "x")}
	}
	return shapes.ToOuts(id)
}

// DefaultOuts returns the boundary ports of a node with given shapes.
// A node without shapes has a single port named x.
func DefaultOuts(id uint64, shapes *ast.Shapes) ast.Outs {
	return unwrapOuts(id, nil, shapes)
}
