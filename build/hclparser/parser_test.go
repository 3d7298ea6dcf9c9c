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

package hclparser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/hclparser"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := hclparser.New().ParseFile("test.n3", []byte(src))
	if err != nil {
		t.Fatalf("cannot parse source:\n%s\nerror: %+v", src, err)
	}
	return file
}

func stepStrings(node *ast.Node) []string {
	var ss []string
	for _, step := range node.Graph {
		ss = append(ss, step.String())
	}
	return ss
}

func TestParseDefault(t *testing.T) {
	file := parse(t, `
version = "v0.1.0"

node "Net" {
  description = "a small network"
  let "n" { type = uint }
  let "c" {
    type  = "uint"
    value = n * 2
  }
  step "0" {
    call "Input" {}
    shapes = { x = [n, 32] }
  }
  step "1" {
    call "Linear" {
      args   = { input_channels = 32, output_channels = c }
      inputs = { x = "x$0" }
    }
  }
  step "2" {
    call "Concat" {
      inputs = ["x$0", "x$1"]
      args   = { axis = -1 }
    }
  }
  step "3" {
    call "Block" { repeat = 3 }
    shapes = { x = null }
  }
}
`)
	if file.Version != "v0.1.0" {
		t.Errorf("got version %q but want v0.1.0", file.Version)
	}
	node := file.Node
	if node.Name != "Net" || node.Kind != ast.DefaultNode || node.Description != "a small network" {
		t.Errorf("unexpected node header: %s %s %q", node.Kind, node.Name, node.Description)
	}
	var lets []string
	for _, let := range node.Lets {
		lets = append(lets, let.Name+": "+let.Declared.String()+" = "+ast.Map{"v": let.Value}.String())
	}
	wantLets := []string{
		"n: uint = {v: _}",
		"c: uint = {v: (n * 2)}",
	}
	if diff := cmp.Diff(wantLets, lets); diff != "" {
		t.Errorf("unexpected variables (-want +got):\n%s", diff)
	}
	wantSteps := []string{
		"0. Input = {x: [n, 32]}",
		"1. Linear{input_channels: 32, output_channels: c}{x=x$0}",
		"2. Concat{axis: -1}[x$0, x$1]",
		"3. Block * 3 = {x: _}",
	}
	if diff := cmp.Diff(wantSteps, stepStrings(node)); diff != "" {
		t.Errorf("unexpected steps (-want +got):\n%s", diff)
	}
	if got := node.Graph[2].Calls[0].InputsType(); got != ast.ListInputs {
		t.Errorf("got inputs type %s but want %s", got, ast.ListInputs)
	}
	if got := node.Graph[3].Calls[0].InputsType(); got != ast.UseLast {
		t.Errorf("got inputs type %s but want %s", got, ast.UseLast)
	}
}

func TestParseExtern(t *testing.T) {
	file := parse(t, `
node "Linear" {
  kind = "extern"
  let "input_channels"  { type = uint }
  let "output_channels" { type = uint }
  let "bias" {
    type  = bool
    value = true
  }
  input  = { x = [input_channels] }
  output = { x = [output_channels] }
}
`)
	node := file.Node
	if node.Kind != ast.ExternNode {
		t.Errorf("got kind %s but want extern", node.Kind)
	}
	if got, want := node.Inputs.String(), "{x: [input_channels]}"; got != want {
		t.Errorf("got inputs %s but want %s", got, want)
	}
	if got, want := node.Outputs.String(), "{x: [output_channels]}"; got != want {
		t.Errorf("got outputs %s but want %s", got, want)
	}
	if got := node.Lets[2].Value; got != ast.Value(ast.Bool(true)) {
		t.Errorf("got bias %v but want true", got)
	}
}

func TestParseExec(t *testing.T) {
	file := parse(t, `
node "Train" {
  kind = "exec"
  let "data" {
    type  = "node:data"
    value = "Mnist"
  }
  let "model" { type = "node:default" }
  let "lr" {
    type  = real
    value = 0.01
  }
  links = [["data", "model"]]
}
`)
	node := file.Node
	if node.Kind != ast.ExecNode {
		t.Errorf("got kind %s but want exec", node.Kind)
	}
	if diff := cmp.Diff([][]string{{"data", "model"}}, node.Links); diff != "" {
		t.Errorf("unexpected links (-want +got):\n%s", diff)
	}
	wantTypes := []ast.LetType{ast.NodeType(ast.DataNode), ast.NodeType(ast.DefaultNode), ast.RealType}
	for i, let := range node.Lets {
		if let.Declared != wantTypes[i] {
			t.Errorf("variable %s: got type %s but want %s", let.Name, let.Declared, wantTypes[i])
		}
	}
	if got := node.Lets[0].Value; got != ast.Value(ast.NodeName("Mnist")) {
		t.Errorf("got data %v but want Mnist", got)
	}
	if got := node.Lets[2].Value; got != ast.Value(ast.Real(0.01)) {
		t.Errorf("got learning rate %v but want 0.01", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		`node "A" {`,
		`
node "A" {}
node "B" {}
`,
		`node "A" { kind = "model" }`,
		`
node "A" {
  step "first" {
    call "Input" {}
  }
}
`,
		`
node "A" {
  step "1" {
    call "B" { inputs = ["$1"] }
  }
}
`,
		`
node "A" {
  let "n" { type = float }
}
`,
		`
node "A" {
  step "1" {
    call "B" { args = { n = a.b } }
  }
}
`,
	}
	for ti, src := range tests {
		if _, err := hclparser.New().ParseFile("test.n3", []byte(src)); err == nil {
			t.Errorf("test %d: expected an error when parsing:\n%s", ti, src)
		}
	}
}
