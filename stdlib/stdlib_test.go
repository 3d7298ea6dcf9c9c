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

package stdlib_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builder"
	"github.com/n3lang/n3/stdlib"
)

func TestStdlibValid(t *testing.T) {
	root := builder.New()
	names, err := stdlib.Load(root)
	if err != nil {
		t.Fatalf("\n%+v", err)
	}
	if diff := cmp.Diff([]string{"Linear", "ReLU", "Adam"}, names); diff != "" {
		t.Errorf("unexpected standard nodes (-want +got):\n%s", diff)
	}
	for _, name := range names {
		node, err := root.Get(name)
		if err != nil {
			t.Errorf("%s:\n%+v", name, err)
			continue
		}
		if !node.Kind.IsExtern() {
			t.Errorf("%s: got kind %s but want an extern node", name, node.Kind)
		}
		script, err := root.GetExtern(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !strings.Contains(script, "class "+name) {
			t.Errorf("%s: script does not define class %s:\n%s", name, name, script)
		}
	}
}

func TestIdentityInference(t *testing.T) {
	root := builder.New()
	if _, err := stdlib.Load(root); err != nil {
		t.Fatal(err)
	}
	root.AddSource("MLP", `
node "MLP" {
  step "0" {
    call "Input" {}
    shapes = { x = [32] }
  }
  step "1" {
    call "Linear" {
      args = { input_channels = 32, output_channels = 16 }
    }
    call "ReLU" {}
  }
  step "2" {
    call "Linear" {
      args = { input_channels = 16, output_channels = 10 }
    }
  }
  step "3" {
    call "ReLU" {}
  }
}
`)
	node, err := root.Get("MLP")
	if err != nil {
		t.Fatalf("\n%+v", err)
	}
	if got, want := reduced(node.OutputShapes()), "{x: [10]}"; got != want {
		t.Errorf("got output shapes %s but want %s", got, want)
	}
	// Both ReLU nodes are independent copies with their own shapes.
	var relus []*ast.Shapes
	for _, n := range node.TensorGraph {
		if n.Header().Name == "ReLU" {
			relus = append(relus, n.OutputShapes())
		}
	}
	if len(relus) != 2 {
		t.Fatalf("got %d ReLU nodes but want 2", len(relus))
	}
	var got []string
	for _, shapes := range relus {
		got = append(got, reduced(shapes))
	}
	if diff := cmp.Diff([]string{"{x: [16]}", "{x: [10]}"}, got); diff != "" {
		t.Errorf("unexpected ReLU output shapes (-want +got):\n%s", diff)
	}
}

// reduced prints a table of shapes with bound dimensions replaced by
// their values.
func reduced(shapes *ast.Shapes) string {
	r := ast.NewShapes(nil)
	for name, shape := range shapes.Iter() {
		if shape == nil {
			r.Set(name, nil)
			continue
		}
		r.Set(name, shape.Reduce())
	}
	return r.String()
}
