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

package seed_test

import (
	"testing"

	"github.com/n3lang/n3/base/seed"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		seed *seed.Seed
		want []uint64
	}{
		{
			seed: seed.New(),
			want: []uint64{1, 2, 3},
		},
		{
			seed: seed.WithStart(10),
			want: []uint64{10, 11, 12, 13},
		},
	}
	for i, test := range tests {
		for j, want := range test.want {
			if peek := test.seed.Peek(); peek != want {
				t.Errorf("test %d, id %d: peek returned %d but want %d", i, j, peek, want)
			}
			got := test.seed.Generate()
			if got != want {
				t.Errorf("test %d, id %d: got %d but want %d", i, j, got, want)
			}
		}
	}
}
