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
	"sort"
	"strings"

	nfmt "github.com/n3lang/n3/base/fmt"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/code"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// ExecIR is a top-level program.
//
// Its variables declared with a node type name the nodes the program runs.
// The other variables are runtime arguments of the program.
type ExecIR struct {
	Data IRData
	// Links are chains of node variables. Along a chain, the outputs of a
	// node are the inputs of the next one.
	Links [][]string
}

var _ Template = (*ExecIR)(nil)

// Header returns the data of the node.
func (e *ExecIR) Header() *IRData {
	return &e.Data
}

// NodeType returns ExecNode.
func (*ExecIR) NodeType() ast.LetNodeType {
	return ast.ExecNode
}

// Variables returns the variables of the program sorted by name.
func (e *ExecIR) Variables() []*ast.Variable {
	return e.Data.Graph.Variables()
}

func isNodeVar(v *ast.Variable) bool {
	return v.Declared.Kind == ast.NodeKind && v.Declared.Node != ast.AnyNode
}

// Build resolves the nodes of the program, links them and lowers them
// to code.
func (e *ExecIR) Build(root Root) (*code.Program, error) {
	prog, err := e.build(root)
	if err != nil {
		return nil, fmterr.Node(e.Data.Name, err)
	}
	return prog, nil
}

func (e *ExecIR) build(root Root) (*code.Program, error) {
	nodes := make(map[string]*NodeIR)
	prog := &code.Program{
		Args:    ast.Map{},
		Nodes:   make(map[string]code.Code),
		Scripts: make(map[string]string),
	}
	for _, v := range e.Variables() {
		if !isNodeVar(v) {
			prog.Args[v.Name] = reduceOrNil(v.Value)
			continue
		}
		node, err := e.resolveNode(root, v)
		if err != nil {
			return nil, err
		}
		nodes[v.Name] = node
	}

	for _, chain := range e.Links {
		if err := linkChain(nodes, chain); err != nil {
			return nil, err
		}
	}

	names := maps.Keys(nodes)
	sort.Strings(names)
	for _, name := range names {
		c, err := nodes[name].Build(root)
		if err != nil {
			return nil, err
		}
		prog.Nodes[name] = c
	}
	for _, name := range prog.NodeNames() {
		if err := prog.Nodes[name].AddScripts(root, prog.Scripts); err != nil {
			return nil, err
		}
	}
	main, err := root.GetExtern(e.Data.Name)
	if err != nil {
		return nil, err
	}
	prog.Scripts[code.MainScript] = main
	return prog, nil
}

func (e *ExecIR) resolveNode(root Root, v *ast.Variable) (*NodeIR, error) {
	if v.Value == nil {
		return nil, &fmterr.EmptyValueError{Name: v.Name, Expected: v.Declared.String()}
	}
	name, ok := ast.Reduce(v.Value).(ast.NodeName)
	if !ok {
		return nil, &fmterr.ArgTypeError{
			Name:     v.Name,
			Expected: v.Declared.String(),
			Given:    ast.Reduce(v.Value).Type().String(),
		}
	}
	node, err := root.Get(string(name))
	if err != nil {
		return nil, errors.Wrapf(err, "variable %s", v.Name)
	}
	if !node.Kind.AcceptedAs(v.Declared.Node) {
		return nil, errors.Wrapf(&fmterr.NodeTypeError{
			Expected: v.Declared.Node.String(),
			Given:    node.Kind.String(),
		}, "variable %s: node %s", v.Name, name)
	}
	return node, nil
}

func linkChain(nodes map[string]*NodeIR, chain []string) error {
	if len(chain) == 0 {
		return nil
	}
	last, ok := nodes[chain[0]]
	if !ok {
		return &fmterr.NoSuchVariableError{Name: chain[0]}
	}
	for i, name := range chain[1:] {
		next, ok := nodes[name]
		if !ok {
			return &fmterr.NoSuchVariableError{Name: name}
		}
		outputs, inputs := last.OutputShapes(), next.InputShapes()
		if outputs == nil || inputs == nil {
			return errors.Wrapf(&fmterr.GenericShapesError{}, "link %s -> %s", chain[i], name)
		}
		if err := outputs.Link(inputs); err != nil {
			return errors.Wrapf(err, "link %s -> %s", chain[i], name)
		}
		last = next
	}
	return nil
}

// CloneTemplate returns a deep copy of the program.
func (e *ExecIR) CloneTemplate(c *ast.Cloner) Template {
	return e.Clone(c)
}

// Clone returns a deep copy of the program.
func (e *ExecIR) Clone(c *ast.Cloner) *ExecIR {
	return ast.Memo(c, e, func() *ExecIR {
		return &ExecIR{}
	}, func(cloned *ExecIR) {
		cloned.Data = e.Data.cloneSafe(c)
		cloned.Links = make([][]string, len(e.Links))
		for i, chain := range e.Links {
			cloned.Links[i] = append([]string{}, chain...)
		}
	})
}

func (e *ExecIR) String() string {
	items := []string{e.Data.Graph.String()}
	for _, chain := range e.Links {
		items = append(items, strings.Join(chain, " -> "))
	}
	return nfmt.Block("exec "+e.Data.Name, items)
}

func reduceOrNil(v ast.Value) ast.Value {
	if v == nil {
		return nil
	}
	return ast.Reduce(v)
}
