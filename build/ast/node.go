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
	"fmt"
	"strings"

	nfmt "github.com/n3lang/n3/base/fmt"
)

// Keywords are the arguments of a call.
type Keywords map[string]Value

// GraphCall is a call to a node in a graph step.
type GraphCall struct {
	Name string
	// Inputs of the call. Nil uses the outputs of the previous step.
	Inputs GraphInputs
	// Args binds variables of the callee. Nil if no argument is given.
	Args Keywords
	// Repeat is the number of times the call is repeated. Nil if the call is not repeated.
	Repeat Value
}

// InputsType returns the form of the call inputs.
func (c *GraphCall) InputsType() GraphInputsType {
	return InputsTypeOf(c.Inputs)
}

func (c *GraphCall) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Args != nil {
		b.WriteString(Map(c.Args).String())
	}
	if c.Inputs != nil {
		b.WriteString(c.Inputs.String())
	}
	if c.Repeat != nil {
		fmt.Fprintf(&b, " * %s", c.Repeat)
	}
	return b.String()
}

// GraphNode is a step of the graph of a node.
type GraphNode struct {
	ID    uint64
	Calls []*GraphCall
	// Shapes declared for the outputs of the step. Nil if not declared.
	Shapes *Shapes
}

func (n *GraphNode) String() string {
	calls := make([]string, len(n.Calls))
	for i, call := range n.Calls {
		calls[i] = call.String()
	}
	s := fmt.Sprintf("%d. %s", n.ID, strings.Join(calls, " + "))
	if n.Shapes != nil {
		s += " = " + n.Shapes.String()
	}
	return s
}

// Node is a node declaration.
type Node struct {
	Name        string
	Kind        LetNodeType
	Description string
	Lets        []*Variable
	// Graph of a default node.
	Graph []*GraphNode
	// Inputs and Outputs of an extern node.
	Inputs, Outputs *Shapes
	// Links chains the nodes of an exec node.
	Links [][]string
}

func (n *Node) String() string {
	var items []string
	for _, let := range n.Lets {
		items = append(items, fmt.Sprintf("let %s: %s = %s", let.Name, let.Declared, valueString(let.Value)))
	}
	if n.Inputs != nil {
		items = append(items, "input "+n.Inputs.String())
	}
	if n.Outputs != nil {
		items = append(items, "output "+n.Outputs.String())
	}
	for _, step := range n.Graph {
		items = append(items, step.String())
	}
	for _, link := range n.Links {
		items = append(items, strings.Join(link, " -> "))
	}
	return nfmt.Block(fmt.Sprintf("%s node %s", n.Kind, n.Name), items)
}

// File is a parsed source declaring a single node.
type File struct {
	// Version of the language used by the source.
	Version string
	Node    *Node
}
