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

package fmterr

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Appender accumulates errors.
// The zero value is an empty appender ready to use.
type Appender struct {
	err error
}

// Append an error. Nil errors are ignored.
// Always returns false so that a failing check can return the result directly.
func (app *Appender) Append(err error) bool {
	app.err = multierr.Append(app.err, err)
	return false
}

// Appendf appends a formatted error.
func (app *Appender) Appendf(format string, a ...any) bool {
	return app.Append(errors.Errorf(format, a...))
}

// Empty returns true if no errors has been appended.
func (app *Appender) Empty() bool {
	return app.err == nil
}

// Errors returns the list of all collected errors.
func (app *Appender) Errors() []error {
	return multierr.Errors(app.err)
}

// ToError returns the accumulated errors as a single error,
// or nil if no error has been appended.
func (app *Appender) ToError() error {
	return app.err
}
