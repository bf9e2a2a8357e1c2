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

package preprocessor

import (
	"fmt"

	"github.com/cpreproc/cpreproc/internal/lexer"
)

// LexError wraps a malformed-token failure from internal/lexer: an
// unterminated string or a stray character (spec.md §7).
type LexError struct {
	Pos lexer.Cursor
	Err error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %v", e.Pos, e.Err)
}

func (e *LexError) Unwrap() error { return e.Err }

// SyntaxError wraps a malformed directive: a missing name after #define,
// an unclosed macro parameter list, a duplicate parameter, or a malformed
// #include.
type SyntaxError struct {
	Line string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// ArityError wraps a function-like macro invocation with the wrong number
// of arguments.
type ArityError struct {
	Macro string
	Err   error
}

func (e *ArityError) Error() string {
	if e.Macro == "" {
		return fmt.Sprintf("arity error: %v", e.Err)
	}
	return fmt.Sprintf("arity error expanding %s: %v", e.Macro, e.Err)
}

func (e *ArityError) Unwrap() error { return e.Err }

// EvalError wraps a constant-expression evaluation failure: divide-by-zero
// or a malformed expression.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("failed to evaluate %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// IncludeError wraps an include file that could not be found and was not
// covered by IgnoreMissingIncludes.
type IncludeError struct {
	Path string
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("include %q: %v", e.Path, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// IncludeCycleError wraps a recursive #include of a file already active
// further up the include stack.
type IncludeCycleError struct {
	Path string
	Err  error
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("include cycle at %q: %v", e.Path, e.Err)
}

func (e *IncludeCycleError) Unwrap() error { return e.Err }

// ConditionalError wraps a #elif/#else/#endif with no matching #if, or an
// #if left unterminated at end of input.
type ConditionalError struct {
	Line string
	Err  error
}

func (e *ConditionalError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("conditional error: %v", e.Err)
	}
	return fmt.Sprintf("conditional error at %q: %v", e.Line, e.Err)
}

func (e *ConditionalError) Unwrap() error { return e.Err }
