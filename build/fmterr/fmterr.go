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

// Package fmterr provides the errors reported while building nodes
// and helpers to accumulate them.
//
// Every error carries enough context (expected and given values,
// offending index or name) to locate the failing construct without
// re-running the build.
package fmterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("n3 internal error. This is a bug in n3. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(format string, a ...any) error {
	return Internal(errors.Errorf(format, a...))
}

// Node adds the name of the node being built to an error.
// Typed errors remain reachable with errors.As.
func Node(name string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "node %s", name)
}

// Step adds the identifier of the step being expanded to an error.
func Step(id uint64, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "step %d", id)
}
