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

package importers_test

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/n3lang/n3/build/fmterr"
	"github.com/n3lang/n3/build/importers"
	"github.com/pkg/errors"
)

type countingFS struct {
	fs    fstest.MapFS
	opens map[string]int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens[name]++
	return c.fs.Open(name)
}

type template struct {
	source string
	copies int
}

func TestCache(t *testing.T) {
	fsys := &countingFS{
		fs: fstest.MapFS{
			"nodes/A.n3": {Data: []byte("from file")},
		},
		opens: make(map[string]int),
	}
	builds := map[string]int{}
	var cache *importers.Cache[*template]
	cache = importers.NewCache[*template](fsys,
		func(name, source string) (*template, error) {
			builds[name]++
			if strings.HasPrefix(source, "use ") {
				if _, err := cache.Get(strings.TrimPrefix(source, "use ")); err != nil {
					return nil, err
				}
			}
			if source == "fail" {
				return nil, errors.Errorf("cannot build %s", name)
			}
			return &template{source: source}, nil
		},
		func(tmpl *template) *template {
			tmpl.copies++
			return &template{source: tmpl.source}
		},
		nil,
	)
	cache.AddPath("A", "nodes/A.n3")
	cache.AddSource("A", "inline")
	cache.AddSource("B", "inline B")
	cache.AddSource("Loop", "use Loop")
	cache.AddSource("Broken", "fail")

	first, err := cache.Get("A")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Get("A")
	if err != nil {
		t.Fatal(err)
	}
	if first.source != "from file" {
		t.Errorf("registered path has not been preferred to the inline source: got %q", first.source)
	}
	if first == second {
		t.Errorf("cache returned the same template twice")
	}
	if got := fsys.opens["nodes/A.n3"]; got != 1 {
		t.Errorf("source file opened %d times but want 1", got)
	}
	if got := builds["A"]; got != 1 {
		t.Errorf("template built %d times but want 1", got)
	}

	b, err := cache.Get("B")
	if err != nil {
		t.Fatal(err)
	}
	if b.source != "inline B" {
		t.Errorf("got source %q but want %q", b.source, "inline B")
	}

	_, err = cache.Get("C")
	var noNode *fmterr.NoSuchNodeError
	if !errors.As(err, &noNode) || noNode.Name != "C" {
		t.Errorf("expected a missing node error but got %v", err)
	}
	if cache.Has("C") {
		t.Errorf("missing node registered in the cache")
	}

	_, err = cache.Get("Loop")
	var cyclic *fmterr.CyclicNodeError
	if !errors.As(err, &cyclic) {
		t.Fatalf("expected a cyclic node error but got %v", err)
	}
	if diff := cmp.Diff([]string{"Loop"}, cyclic.Stack); diff != "" {
		t.Errorf("unexpected build stack (-want +got):\n%s", diff)
	}

	for range 2 {
		if _, err := cache.Get("Broken"); err == nil {
			t.Errorf("expected an error when building a broken node")
		}
	}
	if got := builds["Broken"]; got != 2 {
		t.Errorf("broken node built %d times but want 2", got)
	}

	cache.Reset("A")
	if _, err := cache.Get("A"); err != nil {
		t.Fatal(err)
	}
	if got := fsys.opens["nodes/A.n3"]; got != 2 {
		t.Errorf("source file opened %d times after a reset but want 2", got)
	}

	want := []string{"A", "B", "Broken", "Loop"}
	if diff := cmp.Diff(want, cache.Names()); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}
