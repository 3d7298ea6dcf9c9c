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

package options_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/n3lang/n3/api/options"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src   string
		want  *options.Options
		level slog.Level
	}{
		{
			src:   "",
			want:  options.Default(),
			level: slog.LevelInfo,
		},
		{
			src: `
root: ./nodes
log_level: debug
env:
  DATA_DIR: /tmp/data
args:
  epochs: "3"
  lr: "0.1"
`,
			want: &options.Options{
				Root:      "./nodes",
				NodeExt:   ".n3",
				ExternExt: ".py",
				LogLevel:  "debug",
				Env:       map[string]string{"DATA_DIR": "/tmp/data"},
				Args:      map[string]string{"epochs": "3", "lr": "0.1"},
			},
			level: slog.LevelDebug,
		},
		{
			src: `
node_ext: .hcl
extern_ext: .script
log_level: WARN
`,
			want: &options.Options{
				Root:      ".",
				NodeExt:   ".hcl",
				ExternExt: ".script",
				LogLevel:  "WARN",
			},
			level: slog.LevelWarn,
		},
	}
	for ti, test := range tests {
		got, err := options.Parse([]byte(test.src))
		if err != nil {
			t.Errorf("test %d: cannot parse options: %v", ti, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: unexpected options (-want +got):\n%s", ti, diff)
		}
		level, err := got.Level()
		if err != nil {
			t.Errorf("test %d: %v", ti, err)
			continue
		}
		if level != test.level {
			t.Errorf("test %d: got level %s but want %s", ti, level, test.level)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"root: [",
		"root: ''",
		"node_ext: n3",
		"node_ext: .py",
		"log_level: loud",
	}
	for ti, src := range tests {
		if _, err := options.Parse([]byte(src)); err == nil {
			t.Errorf("test %d: expected an error when parsing %q", ti, src)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n3.yaml")
	if err := os.WriteFile(path, []byte("root: models\nargs:\n  b: '2'\n  a: '1'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := options.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Root != "models" {
		t.Errorf("got root %q but want models", opts.Root)
	}
	want := []options.VarSetValue{
		{Var: "a", Value: "1"},
		{Var: "b", Value: "2"},
	}
	if diff := cmp.Diff(want, opts.VarValues()); diff != "" {
		t.Errorf("unexpected variable values (-want +got):\n%s", diff)
	}
	if _, err := options.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error when loading a missing file")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, options.FileName), []byte("root: nodes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "nodes", "nn")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	found, err := options.Find(sub)
	if err != nil {
		t.Fatal(err)
	}
	if found != dir {
		t.Errorf("found options in %s but want %s", found, dir)
	}
	opts, err := options.LoadDir(sub)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "nodes"); opts.Root != want {
		t.Errorf("got root %s but want %s", opts.Root, want)
	}
}
