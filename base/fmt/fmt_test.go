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

package fmt_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	n3fmt "github.com/n3lang/n3/base/fmt"
)

func TestBlock(t *testing.T) {
	tests := []struct {
		header string
		items  []string
		want   string
	}{
		{
			header: "Empty",
			want:   "Empty {}",
		},
		{
			header: "Net",
			items:  []string{"0. Input", "1. Linear {\n\tx = [32]\n}"},
			want: `
Net {
	0. Input
	1. Linear {
		x = [32]
	}
}
`,
		},
	}
	for i, test := range tests {
		got := n3fmt.Block(test.header, test.items)
		want := strings.TrimSpace(test.want)
		if got != want {
			t.Errorf("test %d: got:\n%s\nbut want:\n%s\ndiff:\n%s", i, got, want, cmp.Diff(got, want))
		}
	}
}

func TestSet(t *testing.T) {
	if got, want := n3fmt.Set([]string{"x", "y"}), "{x, y}"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if got, want := n3fmt.Set(nil), "{}"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}
