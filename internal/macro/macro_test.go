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

package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefineObjectLike(t *testing.T) {
	tbl := New()
	tbl.Define("FOO", "1", nil)
	m, ok := tbl.Lookup("FOO")
	assert.True(t, ok)
	assert.Equal(t, ObjectLike, m.Kind)
	assert.Equal(t, "1", m.Body)
	assert.True(t, tbl.IsDefined("FOO"))
}

func TestDefineEmptyBodyIsStillObjectLike(t *testing.T) {
	tbl := New()
	tbl.Define("FOO", "", nil)
	m, ok := tbl.Lookup("FOO")
	assert.True(t, ok)
	assert.Equal(t, ObjectLike, m.Kind)
	assert.True(t, tbl.IsDefined("FOO"))
}

func TestDefineFunctionLikeZeroParams(t *testing.T) {
	tbl := New()
	tbl.Define("FOO", "body", []string{})
	m, ok := tbl.Lookup("FOO")
	assert.True(t, ok)
	assert.Equal(t, FunctionLike, m.Kind)
	assert.Empty(t, m.Params)
}

func TestRedefineLastWriteWins(t *testing.T) {
	tbl := New()
	tbl.Define("FOO", "1", nil)
	tbl.Define("FOO", "2", nil)
	m, _ := tbl.Lookup("FOO")
	assert.Equal(t, "2", m.Body)
}

func TestUndefineAbsentIsSilent(t *testing.T) {
	tbl := New()
	assert.NotPanics(t, func() { tbl.Undefine("NOPE") })
}

func TestUndefineRemoves(t *testing.T) {
	tbl := New()
	tbl.Define("FOO", "1", nil)
	tbl.Undefine("FOO")
	assert.False(t, tbl.IsDefined("FOO"))
}

func TestFindDuplicateParam(t *testing.T) {
	assert.Equal(t, "a", FindDuplicateParam([]string{"a", "b", "a"}))
	assert.Equal(t, "", FindDuplicateParam([]string{"a", "b"}))
}
