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

	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builtins"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/n3lang/n3/build/graph"
	"github.com/n3lang/n3/build/ir"
	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// buildSource builds the template of a node from its source.
func (r *Root) buildSource(name, source string) (ir.Template, error) {
	file, err := r.parser.ParseFile(name, []byte(source))
	if err != nil {
		return nil, err
	}
	if err := checkVersion(file.Version); err != nil {
		return nil, fmterr.Node(name, err)
	}
	if file.Node == nil {
		return nil, errors.Errorf("source of %s does not declare a node", name)
	}
	if file.Node.Name != name {
		return nil, &fmterr.NameError{Expected: name, Given: file.Node.Name}
	}
	tmpl, err := r.BuildNode(file.Node)
	if err != nil {
		return nil, fmterr.Node(name, err)
	}
	r.logger.Debug("node built", "name", name, "type", tmpl.NodeType().String())
	return tmpl, nil
}

// checkVersion checks that a source can be built with the builtins
// known by the builder. An empty version is always accepted.
func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	if !semver.IsValid(version) {
		return errors.Errorf("invalid version %q", version)
	}
	if semver.Compare(version, builtins.Version) > 0 {
		return &fmterr.VersionError{Given: version, Supported: builtins.Version}
	}
	return nil
}

// BuildNode builds a template from a node declaration.
// The declaration is not modified.
func (r *Root) BuildNode(node *ast.Node) (ir.Template, error) {
	g, err := r.buildVariables(node.Lets)
	if err != nil {
		return nil, err
	}
	switch {
	case node.Kind == ast.ExecNode:
		return r.buildExec(node, g), nil
	case node.Kind.IsExtern():
		return r.buildExtern(node, g)
	}
	return r.buildComposite(node, g)
}

func (r *Root) buildVariables(lets []*ast.Variable) (*graph.Graph, error) {
	g := graph.New(r.seed)
	for _, let := range lets {
		value, err := g.ReplaceTo(let.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %s", let.Name)
		}
		if !let.Declared.Accepts(value) {
			return nil, &fmterr.ArgTypeError{
				Name:     let.Name,
				Expected: let.Declared.String(),
				Given:    ast.Reduce(value).Type().String(),
			}
		}
		if err := g.Add(&ast.Variable{
			ID:          r.seed.Generate(),
			Name:        let.Name,
			Description: let.Description,
			Declared:    let.Declared,
			Value:       value,
		}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (r *Root) buildExec(node *ast.Node, g *graph.Graph) *ir.ExecIR {
	links := make([][]string, len(node.Links))
	for i, chain := range node.Links {
		links[i] = slices.Clone(chain)
	}
	return &ir.ExecIR{
		Data:  ir.IRData{Name: node.Name, Graph: g},
		Links: links,
	}
}

// buildExtern wraps an extern node into a composite node with a single
// step. The wrapper and the extern node share the same variables.
func (r *Root) buildExtern(node *ast.Node, g *graph.Graph) (*ir.NodeIR, error) {
	inputs, err := g.ReplaceShapes(node.Inputs)
	if err != nil {
		return nil, errors.Wrap(err, "input")
	}
	outputs, err := g.ReplaceShapes(node.Outputs)
	if err != nil {
		return nil, errors.Wrap(err, "output")
	}
	ext := &ir.ExternIR{
		Data:    ir.NewIRData(node.Name, g, inputs, outputs),
		Kind:    node.Kind,
		Inputs:  inputs,
		Outputs: outputs,
	}
	ext.Data.ID = ir.OutputID
	return &ir.NodeIR{
		Data: ir.IRData{
			Name:   node.Name,
			Graph:  g,
			Input:  ir.DefaultOuts(ir.InputID, inputs),
			Output: ir.DefaultOuts(ir.OutputID, outputs),
		},
		Kind:        node.Kind,
		TensorGraph: ir.TensorGraph{ext},
	}, nil
}

func (r *Root) buildComposite(node *ast.Node, g *graph.Graph) (*ir.NodeIR, error) {
	steps := slices.Clone(node.Graph)
	slices.SortStableFunc(steps, func(a, b *ast.GraphNode) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for i := 1; i < len(steps); i++ {
		if steps[i-1].ID == steps[i].ID {
			return nil, errors.Errorf("step %d declared twice", steps[i].ID)
		}
	}
	exp := &expander{root: r, node: node.Name, graph: g}
	for _, step := range steps {
		if err := exp.expand(step); err != nil {
			return nil, fmterr.Step(step.ID, err)
		}
	}
	tg := exp.tensorGraph
	kind := node.Kind
	if kind == ast.AnyNode {
		kind = ast.DefaultNode
	}
	return &ir.NodeIR{
		Data: ir.IRData{
			Name:   node.Name,
			Graph:  g,
			Input:  ir.DefaultOuts(ir.InputID, tg.InputShapes()),
			Output: ir.DefaultOuts(ir.OutputID, tg.OutputShapes()),
		},
		Kind:        kind,
		TensorGraph: tg,
	}, nil
}
