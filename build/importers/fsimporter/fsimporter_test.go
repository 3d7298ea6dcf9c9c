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

package fsimporter_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/n3lang/n3/build/importers/fsimporter"
)

type registry struct {
	sources, externs map[string]string
}

func newRegistry() *registry {
	return &registry{
		sources: make(map[string]string),
		externs: make(map[string]string),
	}
}

func (r *registry) AddSource(name, source string)       { r.sources[name] = "source:" + source }
func (r *registry) AddSourcePath(name, path string)     { r.sources[name] = path }
func (r *registry) AddExternSource(name, script string) { r.externs[name] = "source:" + script }
func (r *registry) AddExternPath(name, path string)     { r.externs[name] = path }

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"nodes/Linear.n3":       {},
		"nodes/Linear.py":       {},
		"nodes/models/Net.n3":   {},
		"nodes/optim/Adam.n3":   {},
		"nodes/optim/Adam.py":   {},
		"nodes/optim/README.md": {},
		"data/mnist.py":         {},
	}
	reg := newRegistry()
	names, err := fsimporter.New(fsys).Load(reg, "nodes")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Linear", "Net", "Adam"}, names); diff != "" {
		t.Errorf("unexpected nodes (-want +got):\n%s", diff)
	}
	wantSources := map[string]string{
		"Linear": "nodes/Linear.n3",
		"Net":    "nodes/models/Net.n3",
		"Adam":   "nodes/optim/Adam.n3",
	}
	if diff := cmp.Diff(wantSources, reg.sources); diff != "" {
		t.Errorf("unexpected sources (-want +got):\n%s", diff)
	}
	wantExterns := map[string]string{
		"Linear": "nodes/Linear.py",
		"Adam":   "nodes/optim/Adam.py",
	}
	if diff := cmp.Diff(wantExterns, reg.externs); diff != "" {
		t.Errorf("unexpected scripts (-want +got):\n%s", diff)
	}
}

func TestLoadDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"nodes/a/Net.n3": {},
		"nodes/b/Net.n3": {},
	}
	if _, err := fsimporter.New(fsys).Load(newRegistry(), "nodes"); err == nil {
		t.Errorf("expected an error for a node defined twice")
	}
}
