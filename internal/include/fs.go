// Copyright 2026 The cpreproc Authors.
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

// Package include implements the include resolver (spec.md §4.F):
// resolving a requested path against an ordered list of search
// directories, with active-include cycle protection.
package include

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSystem abstracts the filesystem the resolver reads from, so the core
// never prescribes a real filesystem (spec.md §1).
type FileSystem interface {
	// ReadFile reads path in full. found is false (with a nil error) when
	// the file simply does not exist; err is reserved for other failures
	// (permissions, I/O errors).
	ReadFile(path string) (data []byte, found bool, err error)
	// Glob expands pattern (which may use doublestar's "**" recursive
	// wildcard) into the matching paths, for AddIncludePath.
	Glob(pattern string) ([]string, error)
}

// OSFileSystem is the default FileSystem, backed by the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (OSFileSystem) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}
