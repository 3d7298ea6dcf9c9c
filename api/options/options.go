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

// Package options specifies the configuration of an exec root.
//
// Options are read from a YAML document:
//
//	root: ./nodes
//	node_ext: .n3
//	extern_ext: .py
//	log_level: debug
//	env:
//	  DATA_DIR: /tmp/data
//	args:
//	  epochs: "3"
package options

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/n3lang/n3/build/importers/fsimporter"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

type (
	// Options of an exec root.
	Options struct {
		// Root is the directory containing the sources of the nodes.
		Root string `yaml:"root"`
		// NodeExt is the file extension of node sources.
		NodeExt string `yaml:"node_ext"`
		// ExternExt is the file extension of extern scripts.
		ExternExt string `yaml:"extern_ext"`
		// LogLevel is the minimum level of the records logged by the root.
		LogLevel string `yaml:"log_level"`
		// Env is captured into every program built by the root.
		Env map[string]string `yaml:"env"`
		// Args are default values of the variables of exec nodes.
		Args map[string]string `yaml:"args"`
	}

	// VarSetValue sets the value of a variable of an exec node.
	VarSetValue struct {
		// Var is the name of the variable.
		Var string
		// Value of the variable, parsed given the type of the variable.
		Value string
	}
)

// FileName is the name of the file storing the options of a directory.
const FileName = "n3.yaml"

// Default returns the default options.
func Default() *Options {
	return &Options{
		Root:      ".",
		NodeExt:   fsimporter.NodeExt,
		ExternExt: fsimporter.ExternExt,
		LogLevel:  slog.LevelInfo.String(),
	}
}

// Load reads options from a YAML file.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read options")
	}
	opts, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse options %s", path)
	}
	return opts, nil
}

// Find returns the closest directory, starting from dir and walking up,
// containing an options file.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WithStack(err)
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, FileName)); err == nil && !fi.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("cannot find %s from %s", FileName, dir)
		}
		dir = parent
	}
}

// LoadDir loads the options of the closest directory containing an options
// file. A relative root is resolved from that directory.
func LoadDir(dir string) (*Options, error) {
	found, err := Find(dir)
	if err != nil {
		return nil, err
	}
	opts, err := Load(filepath.Join(found, FileName))
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(opts.Root) {
		opts.Root = filepath.Join(found, opts.Root)
	}
	return opts, nil
}

// Parse reads options from a YAML document.
// Fields absent from the document keep their default values.
func Parse(data []byte) (*Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks that the options are consistent.
func (o *Options) Validate() error {
	if o.Root == "" {
		return errors.Errorf("root directory not specified")
	}
	for _, ext := range []string{o.NodeExt, o.ExternExt} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.Errorf("invalid file extension %q", ext)
		}
	}
	if o.NodeExt == o.ExternExt {
		return errors.Errorf("nodes and extern scripts cannot share the extension %s", o.NodeExt)
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the log level of the options.
func (o *Options) Level() (slog.Level, error) {
	var level slog.Level
	if o.LogLevel == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return level, errors.Wrapf(err, "invalid log level %q", o.LogLevel)
	}
	return level, nil
}

// Logger returns a text logger writing records at the options level to w.
func (o *Options) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := o.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// VarValues returns the default values of variables sorted by name.
func (o *Options) VarValues() []VarSetValue {
	names := maps.Keys(o.Args)
	sort.Strings(names)
	vals := make([]VarSetValue, len(names))
	for i, name := range names {
		vals[i] = VarSetValue{Var: name, Value: o.Args[name]}
	}
	return vals
}

// EnvSnapshot returns a copy of the environment of the options.
func (o *Options) EnvSnapshot() map[string]string {
	env := make(map[string]string, len(o.Env))
	for k, v := range o.Env {
		env[k] = v
	}
	return env
}
