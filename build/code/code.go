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

// Package code defines the program produced by building an exec node.
//
// A program is a flat description of the nodes to run, how their tensors
// flow, and the scripts implementing the extern nodes. It is the input
// of code generators and runtimes.
package code

import (
	"fmt"
	"sort"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	nfmt "github.com/n3lang/n3/base/fmt"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builtins"
	"github.com/pkg/errors"
)

// MainScript is the key of the script of the exec node in a program.
const MainScript = "__main__"

// ScriptResolver returns the script implementing an extern node.
type ScriptResolver interface {
	GetExtern(name string) (string, error)
}

// Code is the built form of a node.
type Code interface {
	// NodeName returns the name of the node.
	NodeName() string
	// AddScripts adds the scripts of all the extern nodes used by the code.
	AddScripts(root ScriptResolver, scripts map[string]string) error
	String() string
}

// NodeCode is a composite node.
type NodeCode struct {
	Name          string
	Input, Output ast.Outs
	// Repeat is the number of times the graph runs, feeding its outputs
	// back as inputs. Zero if the node is not repeated.
	Repeat uint64
	Graph  []Code
}

var _ Code = (*NodeCode)(nil)

// NodeName returns the name of the node.
func (c *NodeCode) NodeName() string {
	return c.Name
}

// AddScripts adds the scripts of the nodes of the graph.
func (c *NodeCode) AddScripts(root ScriptResolver, scripts map[string]string) error {
	for _, child := range c.Graph {
		if err := child.AddScripts(root, scripts); err != nil {
			return err
		}
	}
	return nil
}

func (c *NodeCode) String() string {
	items := make([]string, len(c.Graph))
	for i, child := range c.Graph {
		items[i] = child.String()
	}
	header := fmt.Sprintf("%s%s -> %s", c.Name, c.Input, c.Output)
	if c.Repeat > 0 {
		header += fmt.Sprintf(" * %d", c.Repeat)
	}
	return nfmt.Block(header, items)
}

// ExternCode is a leaf node implemented by a script.
type ExternCode struct {
	Name          string
	Input, Output ast.Outs
	// Shapes of the inputs and outputs with reduced dimensions.
	// A nil table is a dynamic node.
	InputShapes, OutputShapes map[string]*ast.Shape
	// Args are the reduced values of the variables of the node.
	Args ast.Map
}

var _ Code = (*ExternCode)(nil)

// NodeName returns the name of the node.
func (c *ExternCode) NodeName() string {
	return c.Name
}

// AddScripts adds the script of the node. Builtin nodes have no script.
func (c *ExternCode) AddScripts(root ScriptResolver, scripts map[string]string) error {
	if builtins.IsIntrinsic(c.Name) {
		return nil
	}
	if _, ok := scripts[c.Name]; ok {
		return nil
	}
	script, err := root.GetExtern(c.Name)
	if err != nil {
		return errors.Wrapf(err, "cannot find the script of %s", c.Name)
	}
	scripts[c.Name] = script
	return nil
}

// BackendShapes returns the shapes of the inputs and outputs that are fully
// known, using a given data type for all tensors.
func (c *ExternCode) BackendShapes(dt dtype.DataType) (inputs, outputs map[string]*shape.Shape) {
	return backendShapes(dt, c.InputShapes), backendShapes(dt, c.OutputShapes)
}

func backendShapes(dt dtype.DataType, shapes map[string]*ast.Shape) map[string]*shape.Shape {
	r := make(map[string]*shape.Shape)
	for name, s := range shapes {
		if s == nil {
			continue
		}
		dims, ok := s.Concrete()
		if !ok {
			continue
		}
		r[name] = &shape.Shape{DType: dt, AxisLengths: dims}
	}
	return r
}

func (c *ExternCode) String() string {
	s := fmt.Sprintf("extern %s%s -> %s", c.Name, c.Input, c.Output)
	if len(c.Args) > 0 {
		s += " " + c.Args.String()
	}
	return s
}

// Program is a built exec node.
type Program struct {
	// Env are the environment variables captured when the program was built.
	Env map[string]string
	// Args are the values of the variables of the exec node that are not nodes.
	Args ast.Map
	// Nodes maps the variables of the exec node to the code of their nodes.
	Nodes map[string]Code
	// Scripts maps extern node names to their scripts.
	// The script of the exec node is stored with the MainScript key.
	Scripts map[string]string
}

// NodeNames returns the sorted names of the nodes of the program.
func (p *Program) NodeNames() []string {
	names := make([]string, 0, len(p.Nodes))
	for name := range p.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Program) String() string {
	var items []string
	if len(p.Args) > 0 {
		items = append(items, "args "+p.Args.String())
	}
	for _, name := range p.NodeNames() {
		items = append(items, name+" = "+p.Nodes[name].String())
	}
	scripts := make([]string, 0, len(p.Scripts))
	for name := range p.Scripts {
		scripts = append(scripts, name)
	}
	sort.Strings(scripts)
	items = append(items, "scripts "+nfmt.Set(scripts))
	return nfmt.Block("program", items)
}
