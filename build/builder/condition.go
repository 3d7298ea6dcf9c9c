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

	nfmt "github.com/n3lang/n3/base/fmt"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/fmterr"
)

// condition is the form a step must have to call a builtin node.
type condition struct {
	names      []string
	inputsType ast.GraphInputsType
	args       []string
	sized      bool
	repeatable bool
	idZero     bool
}

// test checks a step and reports all the mismatches at once.
func (c *condition) test(step *ast.GraphNode) error {
	var app fmterr.Appender
	if len(step.Calls) != 1 {
		app.Appendf("expected exactly one call but got %d", len(step.Calls))
	}
	for _, call := range step.Calls {
		if !slices.Contains(c.names, call.Name) {
			app.Appendf("unexpected call to %s", call.Name)
		}
		if got := call.InputsType(); got != c.inputsType {
			app.Append(&fmterr.InputsTypeError{
				Expected: c.inputsType.String(),
				Given:    got.String(),
			})
		}
		args := ast.Map(call.Args).Keys()
		want := slices.Clone(c.args)
		slices.Sort(want)
		if !slices.Equal(args, want) {
			app.Appendf("expected arguments %s but got %s", nfmt.Set(want), nfmt.Set(args))
		}
		if !c.repeatable && call.Repeat != nil {
			app.Appendf("%s cannot be repeated", call.Name)
		}
	}
	if sized := step.Shapes != nil; sized != c.sized {
		if c.sized {
			app.Appendf("output shapes must be declared")
		} else {
			app.Appendf("output shapes cannot be declared")
		}
	}
	if idZero := step.ID == 0; idZero != c.idZero {
		if c.idZero {
			app.Appendf("step must be the input step 0 but got step %d", step.ID)
		} else {
			app.Appendf("step cannot be the input step 0")
		}
	}
	if app.Empty() {
		return nil
	}
	return &fmterr.ConditionError{Names: c.names, Err: app.ToError()}
}
