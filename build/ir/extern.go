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

	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builtins"
	"github.com/n3lang/n3/build/code"
)

// ExternIR is a leaf node implemented outside of n3,
// either by a script or by the code generator for builtin nodes.
type ExternIR struct {
	Data            IRData
	Kind            ast.LetNodeType
	Inputs, Outputs *ast.Shapes
}

var _ TensorNode = (*ExternIR)(nil)

// Header returns the data of the node.
func (n *ExternIR) Header() *IRData {
	return &n.Data
}

// NodeType returns the type of the node.
func (n *ExternIR) NodeType() ast.LetNodeType {
	return n.Kind
}

// IsInput returns true if the node asserts the shapes of the graph inputs.
func (n *ExternIR) IsInput() bool {
	return n.Data.Name == builtins.AssertShapeName
}

// InputShapes returns the shapes of the inputs.
func (n *ExternIR) InputShapes() *ast.Shapes {
	return n.Inputs
}

// OutputShapes returns the shapes of the outputs.
func (n *ExternIR) OutputShapes() *ast.Shapes {
	return n.Outputs
}

// Build lowers the node to code.
func (n *ExternIR) Build(Root) (code.Code, error) {
	return &code.ExternCode{
		Name:         n.Data.Name,
		Input:        unwrapOuts(InputID, n.Data.Input, n.Inputs),
		Output:       unwrapOuts(OutputID, n.Data.Output, n.Outputs),
		InputShapes:  snapshot(n.Inputs),
		OutputShapes: snapshot(n.Outputs),
		Args:         n.Data.Graph.Values(),
	}, nil
}

func snapshot(s *ast.Shapes) map[string]*ast.Shape {
	if s == nil {
		return nil
	}
	r := make(map[string]*ast.Shape, s.Len())
	for name, shape := range s.Iter() {
		if shape == nil {
			r[name] = nil
			continue
		}
		r[name] = shape.Reduce()
	}
	return r
}

// CloneSafe returns a deep copy of the node.
func (n *ExternIR) CloneSafe(c *ast.Cloner) TensorNode {
	return n.Clone(c)
}

// CloneTemplate returns a deep copy of the node.
func (n *ExternIR) CloneTemplate(c *ast.Cloner) Template {
	return n.Clone(c)
}

// Clone returns a deep copy of the node.
func (n *ExternIR) Clone(c *ast.Cloner) *ExternIR {
	return ast.Memo(c, n, func() *ExternIR {
		return &ExternIR{Kind: n.Kind}
	}, func(cloned *ExternIR) {
		cloned.Data = n.Data.cloneSafe(c)
		cloned.Inputs = n.Inputs.CloneSafe(c)
		cloned.Outputs = n.Outputs.CloneSafe(c)
	})
}

func (n *ExternIR) String() string {
	return fmt.Sprintf("extern %s: %s -> %s", n.Data.Name, n.Inputs, n.Outputs)
}
