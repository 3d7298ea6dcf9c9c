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

// Package builder builds node templates from their sources.
//
// A build root owns the registered sources, the caches of built
// templates, and the seed generating identifiers. Building a node:
//  1. parses its source into an AST,
//  2. declares its variables in a new graph,
//  3. expands every step of its graph, calling the builtin nodes or
//     fetching and linking copies of other templates.
//
// The templates returned by a root are copies: callers can link and
// bind them freely without changing the cache.
package builder

import (
	"io/fs"
	"log/slog"

	"github.com/n3lang/n3/base/seed"
	"github.com/n3lang/n3/build/ast"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/n3lang/n3/build/hclparser"
	"github.com/n3lang/n3/build/importers"
	"github.com/n3lang/n3/build/ir"
	"github.com/pkg/errors"
)

type (
	// Parser parses the source of a node.
	Parser interface {
		ParseFile(filename string, src []byte) (*ast.File, error)
	}

	// Option configures a root.
	Option func(*Root)

	// Root is a build session from sources to node templates.
	// A root is not safe for concurrent use.
	Root struct {
		seed   *seed.Seed
		parser Parser
		fs     fs.FS
		logger *slog.Logger

		nodes   *importers.Cache[ir.Template]
		externs *importers.Cache[string]
	}
)

var (
	_ importers.Registry = (*Root)(nil)
	_ ir.Root            = (*Root)(nil)
)

// WithParser sets the parser of node sources.
func WithParser(p Parser) Option {
	return func(r *Root) {
		r.parser = p
	}
}

// WithFS sets the filesystem from which registered paths are read.
func WithFS(fsys fs.FS) Option {
	return func(r *Root) {
		r.fs = fsys
	}
}

// WithLogger sets the logger of the root.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		r.logger = logger
	}
}

// WithSeed sets the seed generating identifiers.
func WithSeed(s *seed.Seed) Option {
	return func(r *Root) {
		r.seed = s
	}
}

// New returns a new build root.
func New(opts ...Option) *Root {
	r := &Root{
		seed:   seed.New(),
		parser: hclparser.New(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.nodes = importers.NewCache[ir.Template](r.fs, r.buildSource, r.cloneTemplate, r.logger)
	r.externs = importers.NewCache[string](r.fs,
		func(_, script string) (string, error) { return script, nil },
		func(script string) string { return script },
		r.logger,
	)
	return r
}

// Seed returns the seed generating the identifiers of the root.
func (r *Root) Seed() *seed.Seed {
	return r.seed
}

// Logger returns the logger of the root.
func (r *Root) Logger() *slog.Logger {
	return r.logger
}

// AddSource registers the source of a node.
func (r *Root) AddSource(name, source string) {
	r.nodes.AddSource(name, source)
}

// AddSourcePath registers the path of the source of a node.
func (r *Root) AddSourcePath(name, path string) {
	r.nodes.AddPath(name, path)
}

// AddExternSource registers the script of an extern node.
func (r *Root) AddExternSource(name, script string) {
	r.externs.AddSource(name, script)
}

// AddExternPath registers the path of the script of an extern node.
func (r *Root) AddExternPath(name, path string) {
	r.externs.AddPath(name, path)
}

// Names returns the names of all the nodes known by the root.
func (r *Root) Names() []string {
	return r.nodes.Names()
}

// Get returns a copy of a node template given its name.
func (r *Root) Get(name string) (*ir.NodeIR, error) {
	tmpl, err := r.nodes.Get(name)
	if err != nil {
		return nil, err
	}
	node, ok := tmpl.(*ir.NodeIR)
	if !ok {
		return nil, errors.Wrapf(&fmterr.NodeTypeError{
			Expected: ast.DefaultNode.String(),
			Given:    tmpl.NodeType().String(),
		}, "node %s", name)
	}
	return node, nil
}

// GetExec returns a copy of an exec node given its name.
func (r *Root) GetExec(name string) (*ir.ExecIR, error) {
	tmpl, err := r.nodes.Get(name)
	if err != nil {
		return nil, err
	}
	exec, ok := tmpl.(*ir.ExecIR)
	if !ok {
		return nil, errors.Wrapf(&fmterr.NodeTypeError{
			Expected: ast.ExecNode.String(),
			Given:    tmpl.NodeType().String(),
		}, "node %s", name)
	}
	return exec, nil
}

// GetExtern returns the script of an extern node.
func (r *Root) GetExtern(name string) (string, error) {
	return r.externs.Get(name)
}

func (r *Root) cloneTemplate(tmpl ir.Template) ir.Template {
	return tmpl.CloneTemplate(ast.NewCloner(r.seed))
}
