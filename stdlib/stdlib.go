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

// Package stdlib provides the standard nodes shipped with n3.
// Their sources and scripts are embedded in the binary.
package stdlib

import (
	"embed"
	"io/fs"

	"github.com/n3lang/n3/build/importers"
	"github.com/n3lang/n3/build/importers/fsimporter"
	"github.com/pkg/errors"
)

//go:embed nn optim
var files embed.FS

// FS returns the filesystem storing the standard nodes.
func FS() fs.FS {
	return files
}

// Load registers the standard nodes into a registry.
// Sources are registered inline, so that the registry can read
// other nodes from its own filesystem.
func Load(reg importers.Registry) ([]string, error) {
	in := &inliner{fs: files, reg: reg}
	names, err := fsimporter.New(files).Load(in, ".")
	if err != nil {
		return nil, err
	}
	if in.err != nil {
		return nil, in.err
	}
	return names, nil
}

// inliner reads the files registered by paths and registers their content.
type inliner struct {
	fs  fs.FS
	reg importers.Registry
	err error
}

func (in *inliner) read(path string) (string, bool) {
	if in.err != nil {
		return "", false
	}
	data, err := fs.ReadFile(in.fs, path)
	if err != nil {
		in.err = errors.Wrapf(err, "cannot read standard node")
		return "", false
	}
	return string(data), true
}

func (in *inliner) AddSource(name, source string) {
	in.reg.AddSource(name, source)
}

func (in *inliner) AddSourcePath(name, path string) {
	if src, ok := in.read(path); ok {
		in.reg.AddSource(name, src)
	}
}

func (in *inliner) AddExternSource(name, script string) {
	in.reg.AddExternSource(name, script)
}

func (in *inliner) AddExternPath(name, path string) {
	if script, ok := in.read(path); ok {
		in.reg.AddExternSource(name, script)
	}
}
