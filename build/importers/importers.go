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

// Package importers caches node templates built from sources.
package importers

// Registry is implemented by build roots to which node sources and
// extern scripts can be registered.
type Registry interface {
	// AddSource registers the source of a node.
	AddSource(name, source string)
	// AddSourcePath registers the path of the source of a node.
	AddSourcePath(name, path string)
	// AddExternSource registers the script of an extern node.
	AddExternSource(name, script string)
	// AddExternPath registers the path of the script of an extern node.
	AddExternPath(name, path string)
}
