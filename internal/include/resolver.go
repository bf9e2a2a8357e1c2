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

package include

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cpreproc/cpreproc/internal/collections"
)

// ErrCycle is returned by Enter when path is already being included
// somewhere up the current recursion stack.
var ErrCycle = errors.New("cyclic include")

// Resolver resolves #include paths against an ordered list of search
// directories and guards against recursive self-inclusion.
type Resolver struct {
	FS           FileSystem
	IncludePaths []string

	active collections.Set[string]
}

// NewResolver returns a Resolver with no search paths yet configured.
func NewResolver(fs FileSystem) *Resolver {
	return &Resolver{FS: fs}
}

// AddIncludePath expands pattern (a literal directory, or a glob — doublestar
// "**" included) and appends every match, in sorted order, to the search
// path list. A pattern with no glob metacharacters that matches nothing is
// added verbatim, so a not-yet-existing directory can still be registered
// ahead of time.
func (r *Resolver) AddIncludePath(pattern string) error {
	matches, err := r.FS.Glob(pattern)
	if err != nil {
		return fmt.Errorf("add include path %q: %w", pattern, err)
	}
	if len(matches) == 0 && !hasGlobMeta(pattern) {
		matches = []string{pattern}
	}
	sort.Strings(matches)
	r.IncludePaths = append(r.IncludePaths, matches...)
	return nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Resolve reads path, first as given (so an absolute or already-relative
// path works with no search path configured at all), then by joining it
// against each registered search directory in order. found is false (with
// a nil error) if path could not be located anywhere.
func (r *Resolver) Resolve(path string) (data []byte, key string, found bool, err error) {
	if data, ok, err := r.FS.ReadFile(path); err != nil {
		return nil, "", false, err
	} else if ok {
		return data, path, true, nil
	}
	for _, dir := range r.IncludePaths {
		candidate := filepath.Join(dir, path)
		data, ok, err := r.FS.ReadFile(candidate)
		if err != nil {
			return nil, "", false, err
		}
		if ok {
			return data, candidate, true, nil
		}
	}
	return nil, "", false, nil
}

// Enter marks key as actively being included, returning a release function
// that must be called (typically via defer) once processing of this
// include finishes along every exit path, including errors. It fails if
// key is already active, i.e. this is a cyclic include.
func (r *Resolver) Enter(key string) (release func(), err error) {
	if r.active == nil {
		r.active = collections.Set[string]{}
	}
	if r.active.Contains(key) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, key)
	}
	r.active.Add(key)
	return func() { r.active.Remove(key) }, nil
}
