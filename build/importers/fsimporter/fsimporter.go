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

// Package fsimporter registers the nodes found in a filesystem.
//
// Every file with the node extension under a directory is registered as
// the source of a node named after the file. A file with the same base name
// and the extern extension next to it is registered as the script of the node.
package fsimporter

import (
	"io/fs"
	"path"
	"strings"

	"github.com/n3lang/n3/build/importers"
	"github.com/pkg/errors"
)

// Default file extensions.
const (
	NodeExt   = ".n3"
	ExternExt = ".py"
)

// Importer walks a filesystem to find nodes.
type Importer struct {
	fs        fs.FS
	nodeExt   string
	externExt string
}

// New returns a new importer using the default extensions.
func New(fsys fs.FS) *Importer {
	return &Importer{fs: fsys, nodeExt: NodeExt, externExt: ExternExt}
}

// WithExtensions returns a new importer using given extensions.
func WithExtensions(fsys fs.FS, nodeExt, externExt string) *Importer {
	return &Importer{fs: fsys, nodeExt: nodeExt, externExt: externExt}
}

// FS returns the filesystem used by the importer.
func (imp *Importer) FS() fs.FS {
	return imp.fs
}

// NodeName returns the name of the node defined by a file.
func NodeName(filePath string) string {
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Load registers the nodes found under a directory.
// It returns the names of the nodes in the order they have been found.
func (imp *Importer) Load(reg importers.Registry, dir string) ([]string, error) {
	var names []string
	seen := make(map[string]string)
	err := fs.WalkDir(imp.fs, dir, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || path.Ext(filePath) != imp.nodeExt {
			return nil
		}
		name := NodeName(filePath)
		if other, ok := seen[name]; ok {
			return errors.Errorf("node %s defined twice: %s and %s", name, other, filePath)
		}
		seen[name] = filePath
		externPath := strings.TrimSuffix(filePath, imp.nodeExt) + imp.externExt
		if _, err := fs.Stat(imp.fs, externPath); err == nil {
			reg.AddExternPath(name, externPath)
		}
		reg.AddSourcePath(name, filePath)
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load nodes from %s", dir)
	}
	return names, nil
}
