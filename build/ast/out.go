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
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Out references a named output of a graph step.
// An out that has not been placed yet refers to the last step of a graph.
type Out struct {
	ID     uint64
	Placed bool
	Name   string
}

// NewOut returns an output of a given step.
func NewOut(id uint64, name string) Out {
	return Out{ID: id, Placed: true, Name: name}
}

// OutWithName returns an output that has not been placed in a graph yet.
func OutWithName(name string) Out {
	return Out{Name: name}
}

// ParseOut parses an output written as "name$id", "name$" or "name".
func ParseOut(s string) (Out, error) {
	name, id, hasID := strings.Cut(s, "$")
	if name == "" {
		return Out{}, errors.Errorf("invalid output %q: missing name", s)
	}
	if !hasID || id == "" {
		return OutWithName(name), nil
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return Out{}, errors.Wrapf(err, "invalid output %q", s)
	}
	return NewOut(n, name), nil
}

func (o Out) String() string {
	if !o.Placed {
		return o.Name
	}
	return fmt.Sprintf("%s$%d", o.Name, o.ID)
}

// GraphInputsType is the form of the inputs given to a call.
type GraphInputsType int

const (
	// UseLast feeds a call with the outputs of the previous step.
	UseLast GraphInputsType = iota
	// DictInputs feeds a call with named outputs.
	DictInputs
	// ListInputs feeds a call with a list of outputs.
	ListInputs
)

func (t GraphInputsType) String() string {
	switch t {
	case DictInputs:
		return "dict"
	case ListInputs:
		return "list"
	}
	return "use last"
}

// GraphInputs are the inputs of a call.
// A nil GraphInputs uses the outputs of the previous step.
type GraphInputs interface {
	InputsType() GraphInputsType
	String() string
}

// Outs maps names to outputs.
type Outs map[string]Out

var _ GraphInputs = Outs(nil)

// InputsType returns DictInputs.
func (Outs) InputsType() GraphInputsType { return DictInputs }

// Keys returns the sorted names.
func (o Outs) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the outputs.
func (o Outs) Clone() Outs {
	if o == nil {
		return nil
	}
	r := make(Outs, len(o))
	for k, v := range o {
		r[k] = v
	}
	return r
}

func (o Outs) String() string {
	ss := make([]string, 0, len(o))
	for _, k := range o.Keys() {
		ss = append(ss, k+"="+o[k].String())
	}
	return "{" + strings.Join(ss, ", ") + "}"
}

// OutList is a list of outputs given to a call.
type OutList []Out

var _ GraphInputs = OutList(nil)

// InputsType returns ListInputs.
func (OutList) InputsType() GraphInputsType { return ListInputs }

func (o OutList) String() string {
	ss := make([]string, len(o))
	for i, out := range o {
		ss[i] = out.String()
	}
	return "[" + strings.Join(ss, ", ") + "]"
}

// InputsTypeOf returns the form of call inputs, including UseLast for nil.
func InputsTypeOf(in GraphInputs) GraphInputsType {
	if in == nil {
		return UseLast
	}
	return in.InputsType()
}
