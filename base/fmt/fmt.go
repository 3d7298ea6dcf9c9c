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

// Package fmt provides utility methods for building string representations
// of IR trees and build errors.
package fmt

import (
	"fmt"
	"strings"
)

// IndentSkip skips some lines and indent the rest with a tabulation.
func IndentSkip(skip int, x string) string {
	var y strings.Builder
	n := 0
	for line := range strings.Lines(x) {
		if n >= skip {
			y.WriteString("\t")
		}
		y.WriteString(line)
		n++
	}
	return y.String()
}

// Indent the given string by a tabulation.
func Indent(x string) string {
	return IndentSkip(0, x)
}

// Block returns a header followed by a list of indented items,
// one per line, closed by a brace.
func Block(header string, items []string) string {
	if len(items) == 0 {
		return header + " {}"
	}
	var s strings.Builder
	s.WriteString(header)
	s.WriteString(" {\n")
	for _, item := range items {
		s.WriteString(Indent(item))
		s.WriteString("\n")
	}
	s.WriteString("}")
	return s.String()
}

// Set formats a list of names as a set, for example {a, b}.
func Set(names []string) string {
	return "{" + strings.Join(names, ", ") + "}"
}

// Join formats a list of values separated by a comma.
func Join[T fmt.Stringer](values []T) string {
	ss := make([]string, len(values))
	for i, v := range values {
		ss[i] = v.String()
	}
	return strings.Join(ss, ", ")
}
