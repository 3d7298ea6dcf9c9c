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

// Package exec builds programs from the nodes stored in a directory.
//
// A root registers the standard nodes and every node found under its
// directory. A node of the directory replaces a standard node with the
// same name. Getting an exec
// node returns its arguments: the caller binds the variables of the
// program before building it.
package exec

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/n3lang/n3/api/options"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/builder"
	"github.com/n3lang/n3/build/code"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/n3lang/n3/build/importers/fsimporter"
	"github.com/n3lang/n3/build/ir"
	"github.com/n3lang/n3/stdlib"
	"github.com/pkg/errors"
)

// Root builds the programs of the nodes of a directory.
type Root struct {
	opts    *options.Options
	logger  *slog.Logger
	builder *builder.Root
}

// New returns a root given its options.
func New(opts *options.Options) (*Root, error) {
	logger, err := opts.Logger(os.Stderr)
	if err != nil {
		return nil, err
	}
	return NewWithLogger(opts, logger)
}

// NewWithLogger returns a root logging records with a given logger.
func NewWithLogger(opts *options.Options, logger *slog.Logger) (*Root, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fsys := os.DirFS(opts.Root)
	bld := builder.New(builder.WithFS(fsys), builder.WithLogger(logger))
	std, err := stdlib.Load(bld)
	if err != nil {
		return nil, err
	}
	imp := fsimporter.WithExtensions(fsys, opts.NodeExt, opts.ExternExt)
	names, err := imp.Load(bld, ".")
	if err != nil {
		return nil, err
	}
	logger.Info("nodes loaded", "root", opts.Root, "count", len(names), "std", len(std))
	return &Root{opts: opts, logger: logger, builder: bld}, nil
}

// Builder returns the builder of the root.
func (r *Root) Builder() *builder.Root {
	return r.builder
}

// Names returns the names of the nodes found in the directory of the root.
func (r *Root) Names() []string {
	return r.builder.Names()
}

// Get returns the arguments of an exec node.
// The default values from the options are bound to the variables
// declared by the node. Other default values are ignored.
func (r *Root) Get(name string) (*Args, error) {
	exec, err := r.builder.GetExec(name)
	if err != nil {
		return nil, err
	}
	args := &Args{root: r, exec: exec}
	for _, val := range r.opts.VarValues() {
		if _, ok := exec.Data.Graph.Get(val.Var); !ok {
			continue
		}
		if err := args.Set(val.Var, val.Value); err != nil {
			return nil, errors.Wrapf(err, "default value of %s", val.Var)
		}
	}
	return args, nil
}

// Args are the variables of a program before it is built.
type Args struct {
	root *Root
	exec *ir.ExecIR
}

// Name returns the name of the exec node.
func (a *Args) Name() string {
	return a.exec.Data.Name
}

// Variables returns the variables of the program sorted by name.
func (a *Args) Variables() []*ast.Variable {
	return a.exec.Variables()
}

// Get returns a variable of the program given its name.
func (a *Args) Get(name string) (*ast.Variable, bool) {
	return a.exec.Data.Graph.Get(name)
}

// Set binds a variable to a value parsed given the type of the variable.
func (a *Args) Set(name, value string) error {
	v, ok := a.Get(name)
	if !ok {
		return &fmterr.NoSuchVariableError{Name: name}
	}
	val, err := parseArg(v.Declared, value)
	if err != nil {
		return errors.Wrapf(err, "variable %s", name)
	}
	return a.SetValue(name, val)
}

// SetValue binds a variable to a value.
func (a *Args) SetValue(name string, value ast.Value) error {
	return a.exec.Data.Graph.Apply(ast.Keywords{name: value})
}

// Build builds the program. The environment of the root options is
// captured into the program.
func (a *Args) Build() (*code.Program, error) {
	prog, err := a.exec.Build(a.root.builder)
	if err != nil {
		return nil, err
	}
	prog.Env = a.root.opts.EnvSnapshot()
	a.root.logger.Debug("program built", "name", a.Name(), "nodes", len(prog.Nodes))
	return prog, nil
}

func parseArg(tp ast.LetType, s string) (ast.Value, error) {
	switch tp.Kind {
	case ast.BoolKind:
		b, err := strconv.ParseBool(s)
		return ast.Bool(b), errors.WithStack(err)
	case ast.UIntKind:
		// Unsigned values are bounded by the largest signed integer.
		n, err := strconv.ParseUint(s, 10, 63)
		return ast.UInt(n), errors.WithStack(err)
	case ast.IntKind, ast.DimKind:
		n, err := strconv.ParseInt(s, 10, 64)
		return ast.Int(n), errors.WithStack(err)
	case ast.RealKind:
		f, err := strconv.ParseFloat(s, 64)
		return ast.Real(f), errors.WithStack(err)
	case ast.NodeKind:
		return ast.NodeName(s), nil
	case ast.UnknownKind:
		return inferArg(s), nil
	}
	return nil, errors.Errorf("cannot parse a value of type %s", tp)
}

// inferArg parses a value of a variable without a declared type.
func inferArg(s string) ast.Value {
	if n, err := strconv.ParseUint(s, 10, 63); err == nil {
		return ast.UInt(n)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ast.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return ast.Real(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return ast.Bool(b)
	}
	return ast.NodeName(s)
}
