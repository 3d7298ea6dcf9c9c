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

// Package hclparser parses node sources written in HCL.
//
// A source declares a single node:
//
//	version = "v0.1.0"
//
//	node "Net" {
//	  let "n" { type = uint }
//	  step "0" {
//	    call "Input" {}
//	    shapes = { x = [n, 32] }
//	  }
//	  step "1" {
//	    call "Linear" { args = { input_channels = 32, output_channels = 10 } }
//	  }
//	}
package hclparser

import (
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/pkg/errors"
)

type (
	fileSchema struct {
		Version string        `hcl:"version,optional"`
		Nodes   []*nodeSchema `hcl:"node,block"`
	}

	nodeSchema struct {
		Name        string         `hcl:"name,label"`
		Kind        string         `hcl:"kind,optional"`
		Description string         `hcl:"description,optional"`
		Lets        []*letSchema   `hcl:"let,block"`
		Input       hcl.Expression `hcl:"input,optional"`
		Output      hcl.Expression `hcl:"output,optional"`
		Links       [][]string     `hcl:"links,optional"`
		Steps       []*stepSchema  `hcl:"step,block"`
	}

	letSchema struct {
		Name        string         `hcl:"name,label"`
		Type        hcl.Expression `hcl:"type,optional"`
		Value       hcl.Expression `hcl:"value,optional"`
		Description string         `hcl:"description,optional"`
	}

	stepSchema struct {
		ID     string         `hcl:"id,label"`
		Calls  []*callSchema  `hcl:"call,block"`
		Shapes hcl.Expression `hcl:"shapes,optional"`
	}

	callSchema struct {
		Name   string         `hcl:"name,label"`
		Inputs hcl.Expression `hcl:"inputs,optional"`
		Args   hcl.Expression `hcl:"args,optional"`
		Repeat hcl.Expression `hcl:"repeat,optional"`
	}
)

// Parser parses HCL node sources.
type Parser struct{}

// New returns a new parser.
func New() *Parser {
	return &Parser{}
}

// ParseFile parses the source of a node.
func (p *Parser) ParseFile(filename string, src []byte) (*ast.File, error) {
	// A new HCL parser for every file: HCL parsers cache files by name.
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "cannot parse %s", filename)
	}
	var schema fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &schema); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "cannot decode %s", filename)
	}
	if len(schema.Nodes) != 1 {
		return nil, errors.Errorf("%s: expected exactly one node but got %d", filename, len(schema.Nodes))
	}
	node, err := parseNode(schema.Nodes[0])
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	return &ast.File{Version: schema.Version, Node: node}, nil
}

func parseNode(schema *nodeSchema) (*ast.Node, error) {
	kind, err := ast.ParseNodeType(schema.Kind)
	if err != nil {
		return nil, err
	}
	node := &ast.Node{
		Name:        schema.Name,
		Kind:        kind,
		Description: schema.Description,
		Links:       schema.Links,
	}
	var app fmterr.Appender
	for _, let := range schema.Lets {
		v, err := parseLet(let)
		if err != nil {
			app.Append(errors.Wrapf(err, "let %s", let.Name))
			continue
		}
		node.Lets = append(node.Lets, v)
	}
	if node.Inputs, err = parseShapes(schema.Input); err != nil {
		app.Append(errors.Wrap(err, "input"))
	}
	if node.Outputs, err = parseShapes(schema.Output); err != nil {
		app.Append(errors.Wrap(err, "output"))
	}
	for _, step := range schema.Steps {
		gn, err := parseStep(step)
		if err != nil {
			app.Append(errors.Wrapf(err, "step %s", step.ID))
			continue
		}
		node.Graph = append(node.Graph, gn)
	}
	if err := app.ToError(); err != nil {
		return nil, errors.Wrapf(err, "node %s", schema.Name)
	}
	return node, nil
}

func parseLet(schema *letSchema) (*ast.Variable, error) {
	tp, err := parseType(schema.Type)
	if err != nil {
		return nil, err
	}
	var value ast.Value
	if !absent(schema.Value) {
		if value, err = parseValue(schema.Value); err != nil {
			return nil, err
		}
	}
	return &ast.Variable{
		Name:        schema.Name,
		Description: schema.Description,
		Declared:    tp,
		Value:       value,
	}, nil
}

// parseType parses a type given either as a keyword (type = uint)
// or as a string (type = "node:extern").
func parseType(expr hcl.Expression) (ast.LetType, error) {
	if absent(expr) {
		return ast.UnknownType, nil
	}
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && len(traversal) == 1 {
		return ast.ParseLetType(traversal.RootName())
	}
	var name string
	if diags := gohcl.DecodeExpression(expr, nil, &name); diags.HasErrors() {
		return ast.UnknownType, errors.Wrapf(diags, "invalid type")
	}
	return ast.ParseLetType(name)
}

func parseStep(schema *stepSchema) (*ast.GraphNode, error) {
	id, err := strconv.ParseUint(schema.ID, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid step identifier")
	}
	gn := &ast.GraphNode{ID: id}
	for _, call := range schema.Calls {
		gc, err := parseCall(call)
		if err != nil {
			return nil, errors.Wrapf(err, "call %s", call.Name)
		}
		gn.Calls = append(gn.Calls, gc)
	}
	if gn.Shapes, err = parseShapes(schema.Shapes); err != nil {
		return nil, errors.Wrap(err, "shapes")
	}
	return gn, nil
}

func parseCall(schema *callSchema) (*ast.GraphCall, error) {
	call := &ast.GraphCall{Name: schema.Name}
	var err error
	if call.Inputs, err = parseInputs(schema.Inputs); err != nil {
		return nil, errors.Wrap(err, "inputs")
	}
	if call.Args, err = parseArgs(schema.Args); err != nil {
		return nil, errors.Wrap(err, "args")
	}
	if !absent(schema.Repeat) {
		if call.Repeat, err = parseValue(schema.Repeat); err != nil {
			return nil, errors.Wrap(err, "repeat")
		}
	}
	return call, nil
}
