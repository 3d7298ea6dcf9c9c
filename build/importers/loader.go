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

package importers

import (
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/n3lang/n3/build/fmterr"
	"github.com/pkg/errors"
)

type (
	// BuildFunc builds a template from its source.
	BuildFunc[T any] func(name, source string) (T, error)

	// CloneFunc returns a copy of a template owned by the caller.
	CloneFunc[T any] func(T) T
)

// Cache loads templates from their sources and then caches them
// for future access. Consequently, a template is only built once.
//
// A template is looked up, in order, in the built templates, in the
// registered paths, and in the registered sources. Callers always get
// a copy of the cached template.
//
// A cache is not safe for concurrent use.
type Cache[T any] struct {
	fs     fs.FS
	build  BuildFunc[T]
	clone  CloneFunc[T]
	logger *slog.Logger

	paths   map[string]string
	sources map[string]string
	built   map[string]T

	// building is the stack of the templates being built.
	building []string
}

// NewCache returns a new cache. Paths are read from fsys,
// or from the operating system if fsys is nil.
func NewCache[T any](fsys fs.FS, build BuildFunc[T], clone CloneFunc[T], logger *slog.Logger) *Cache[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache[T]{
		fs:      fsys,
		build:   build,
		clone:   clone,
		logger:  logger,
		paths:   make(map[string]string),
		sources: make(map[string]string),
		built:   make(map[string]T),
	}
}

// AddSource registers the source of a template.
func (c *Cache[T]) AddSource(name, source string) {
	c.sources[name] = source
}

// AddPath registers the path to the source of a template.
func (c *Cache[T]) AddPath(name, path string) {
	c.paths[name] = path
}

// Has returns true if a template can be loaded given its name.
func (c *Cache[T]) Has(name string) bool {
	if _, ok := c.built[name]; ok {
		return true
	}
	if _, ok := c.paths[name]; ok {
		return true
	}
	_, ok := c.sources[name]
	return ok
}

// Names returns the sorted names of all the templates known by the cache.
func (c *Cache[T]) Names() []string {
	var names []string
	for _, m := range []map[string]string{c.paths, c.sources} {
		for name := range m {
			names = append(names, name)
		}
	}
	for name := range c.built {
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Reset forces a build next time the template will be loaded.
func (c *Cache[T]) Reset(name string) {
	delete(c.built, name)
}

// Get returns a copy of a template given its name,
// building the template if required.
func (c *Cache[T]) Get(name string) (T, error) {
	var zero T
	if tmpl, ok := c.built[name]; ok {
		c.logger.Debug("template cache hit", "name", name)
		return c.clone(tmpl), nil
	}
	if slices.Contains(c.building, name) {
		return zero, &fmterr.CyclicNodeError{Name: name, Stack: slices.Clone(c.building)}
	}
	source, err := c.source(name)
	if err != nil {
		return zero, err
	}

	c.building = append(c.building, name)
	defer func() { c.building = c.building[:len(c.building)-1] }()
	c.logger.Debug("building template", "name", name, "depth", len(c.building))
	tmpl, err := c.build(name, source)
	if err != nil {
		return zero, err
	}
	c.built[name] = tmpl
	return c.clone(tmpl), nil
}

func (c *Cache[T]) source(name string) (string, error) {
	if path, ok := c.paths[name]; ok {
		c.logger.Debug("reading template source", "name", name, "path", path)
		data, err := c.readFile(path)
		if err != nil {
			return "", errors.Wrapf(err, "cannot read the source of %s", name)
		}
		return string(data), nil
	}
	if source, ok := c.sources[name]; ok {
		return source, nil
	}
	return "", &fmterr.NoSuchNodeError{Name: name}
}

func (c *Cache[T]) readFile(path string) ([]byte, error) {
	if c.fs == nil {
		return os.ReadFile(path)
	}
	return fs.ReadFile(c.fs, path)
}
