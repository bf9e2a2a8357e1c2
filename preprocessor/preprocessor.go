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
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cpreproc/cpreproc/internal/directive"
	"github.com/cpreproc/cpreproc/internal/eval"
	"github.com/cpreproc/cpreproc/internal/expand"
	"github.com/cpreproc/cpreproc/internal/include"
	"github.com/cpreproc/cpreproc/internal/lexer"
	"github.com/cpreproc/cpreproc/internal/macro"
)

// maxIncludeDepth defensively bounds nested #include recursion (spec.md §9
// Design Notes: "bound recursion depth defensively and report a
// depth-exceeded error rather than crashing"). This is independent of the
// resolver's active-include cycle guard, which only catches a file
// including itself somewhere up its own stack, not merely a very deep but
// acyclic include chain.
const maxIncludeDepth = 256

// Preprocessor is the public driver (spec.md §4.G): it orchestrates include
// resolution, directive classification, macro expansion and
// constant-expression evaluation over a growing source buffer. The zero
// value is not ready to use; construct one with New or NewWithFileSystem.
type Preprocessor struct {
	// IgnoreMissingIncludes, when true, makes a missing include a no-op
	// instead of an IncludeError.
	IgnoreMissingIncludes bool
	// Logger receives permissive-mode diagnostics only (an unknown
	// directive skipped, a missing include ignored) — never consulted for
	// control flow. Defaults to log.Default().
	Logger *log.Logger

	macros   macro.Table
	expander *expand.Expander
	resolver *include.Resolver

	conditionals directive.ConditionalStack
	source       strings.Builder
	includeDepth int
}

// New returns a Preprocessor with no macros, no search paths and an empty
// source buffer, reading #include targets from the real filesystem.
func New() *Preprocessor {
	return NewWithFileSystem(include.OSFileSystem{})
}

// NewWithFileSystem is New but lets callers substitute the filesystem
// includes are resolved against, e.g. an in-memory fake for tests.
func NewWithFileSystem(fs include.FileSystem) *Preprocessor {
	macros := macro.New()
	return &Preprocessor{
		Logger:   log.Default(),
		macros:   macros,
		expander: expand.New(macros),
		resolver: include.NewResolver(fs),
	}
}

// Define installs an object-like or function-like macro. No params
// (Define(name, body)) defines an object-like macro; one or more parameter
// names define a function-like macro. A single parameter name is exactly
// the "single string treated as a one-parameter list" shape of spec.md §9
// — Go's variadic params already collapses that distinction, so
// Define("F", "(v & 1)", "v") is the one-parameter function-like form.
//
// A true zero-parameter function-like macro (#define NOW() 42) can't be
// expressed through this signature, since Go's variadic makes "no params
// given" and "an explicit empty parameter list" the same call; route that
// shape through Include(label, "#define NOW() 42") instead, which goes
// through internal/directive's parser and preserves the distinction.
func (p *Preprocessor) Define(name, body string, params ...string) error {
	if !macro.IdentifierRegexp.MatchString(name) {
		return &SyntaxError{Line: name, Err: fmt.Errorf("invalid macro name %q", name)}
	}
	var paramList []string
	if len(params) > 0 {
		paramList = params
	}
	p.macros.Define(name, body, paramList)
	return nil
}

// Undefine removes a macro if present; silent if absent.
func (p *Preprocessor) Undefine(name string) {
	p.macros.Undefine(name)
}

// AddIncludePath appends dir (a literal directory, or a doublestar glob
// pattern) to the ordered list of directories #include searches.
func (p *Preprocessor) AddIncludePath(dir string) error {
	return p.resolver.AddIncludePath(dir)
}

// Include processes one unit of source and appends its emitted lines to
// Source(). With just a path, the unit is read from the include-path
// search order. With an additional text argument, path is treated as a
// label and text is processed directly, with no filesystem access —
// exactly spec.md's include(path, text=None).
func (p *Preprocessor) Include(path string, text ...string) error {
	if len(text) > 0 {
		return p.enterAndProcess(path, text[0])
	}
	return p.includeFile(path)
}

func (p *Preprocessor) includeFile(path string) error {
	data, key, found, err := p.resolver.Resolve(path)
	if err != nil {
		return &IncludeError{Path: path, Err: err}
	}
	if !found {
		if p.IgnoreMissingIncludes {
			p.logf("ignoring missing include %q", path)
			return nil
		}
		return &IncludeError{Path: path, Err: fmt.Errorf("file not found")}
	}
	return p.enterAndProcess(key, string(data))
}

func (p *Preprocessor) enterAndProcess(key, text string) error {
	if p.includeDepth >= maxIncludeDepth {
		return &IncludeError{Path: key, Err: fmt.Errorf("include depth exceeded %d", maxIncludeDepth)}
	}
	release, err := p.resolver.Enter(key)
	if err != nil {
		return &IncludeCycleError{Path: key, Err: err}
	}
	defer release()

	p.includeDepth++
	defer func() { p.includeDepth-- }()

	return p.processText(text)
}

// processText classifies and applies every logical line of text in order,
// appending expanded source lines to the buffer. Conditional frames opened
// while processing this unit must be closed by its end; one left open is
// reported as a ConditionalError, matching "unterminated conditional at
// EOF" at the granularity of one processed unit.
func (p *Preprocessor) processText(text string) error {
	baseDepth := len(p.conditionals)
	for _, raw := range splitLogicalLines(text) {
		line, err := directive.Classify(raw)
		if err != nil {
			return &SyntaxError{Line: raw, Err: err}
		}
		if err := p.applyLine(line); err != nil {
			return err
		}
	}
	if len(p.conditionals) > baseDepth {
		return &ConditionalError{Err: directive.ErrUnmatchedConditional}
	}
	return nil
}

// splitLogicalLines splits text into logical lines, first joining any
// physical line ending in a backslash (tolerating trailing horizontal
// whitespace before the newline) with the physical line that follows it —
// the same backslash-newline continuation internal/lexer recognizes mid-
// token, applied here so a continued #define or source line is classified
// and expanded as a single line rather than as two, one of which would
// otherwise end in a stray backslash.
func splitLogicalLines(text string) []string {
	var logical []string
	var cur strings.Builder
	for _, physical := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(physical, " \t\r\v\f")
		if strings.HasSuffix(trimmed, "\\") {
			cur.WriteString(trimmed[:len(trimmed)-1])
			continue
		}
		cur.WriteString(physical)
		logical = append(logical, cur.String())
		cur.Reset()
	}
	if cur.Len() > 0 {
		logical = append(logical, cur.String())
	}
	return logical
}

func (p *Preprocessor) applyLine(line directive.Line) error {
	switch line.Kind {
	case directive.Source:
		if !p.conditionals.Active() {
			return nil
		}
		expanded, err := p.expander.Expand(line.Raw)
		if err != nil {
			return wrapExpandErr(err)
		}
		p.source.WriteString(expanded)
		p.source.WriteString("\n")

	case directive.Define:
		if !p.conditionals.Active() {
			return nil
		}
		var params []string
		if line.HasParams {
			params = line.Params
		}
		p.macros.Define(line.Name, line.Body, params)

	case directive.Undef:
		if !p.conditionals.Active() {
			return nil
		}
		p.macros.Undefine(line.Name)

	case directive.Include:
		if !p.conditionals.Active() {
			return nil
		}
		return p.includeFile(line.Path)

	case directive.If:
		taken := false
		if p.conditionals.Active() {
			var err error
			taken, err = p.evalCondition(line.Body)
			if err != nil {
				return err
			}
		}
		p.conditionals = p.conditionals.Push(taken)

	case directive.Ifdef:
		taken := false
		if p.conditionals.Active() {
			taken = p.macros.IsDefined(line.Name)
		}
		p.conditionals = p.conditionals.Push(taken)

	case directive.Ifndef:
		taken := false
		if p.conditionals.Active() {
			taken = !p.macros.IsDefined(line.Name)
		}
		p.conditionals = p.conditionals.Push(taken)

	case directive.Elif:
		if len(p.conditionals) == 0 {
			return &ConditionalError{Line: line.Raw, Err: directive.ErrUnmatchedConditional}
		}
		top := p.conditionals[len(p.conditionals)-1]
		taken := false
		if top.ParentActive && !top.AnyBranchTaken {
			var err error
			taken, err = p.evalCondition(line.Body)
			if err != nil {
				return err
			}
		}
		next, err := p.conditionals.Elif(taken)
		if err != nil {
			return &ConditionalError{Line: line.Raw, Err: err}
		}
		p.conditionals = next

	case directive.Else:
		next, err := p.conditionals.Else()
		if err != nil {
			return &ConditionalError{Line: line.Raw, Err: err}
		}
		p.conditionals = next

	case directive.Endif:
		next, err := p.conditionals.Pop()
		if err != nil {
			return &ConditionalError{Line: line.Raw, Err: err}
		}
		p.conditionals = next

	case directive.Unknown:
		if p.conditionals.Active() {
			p.logf("ignoring unknown directive: %s", strings.TrimSpace(line.Raw))
		}
	}
	return nil
}

// evalCondition expands text the way #if/#elif require (defined(X)
// protected) and evaluates it as a boolean constant expression.
func (p *Preprocessor) evalCondition(text string) (bool, error) {
	expanded, err := p.expander.ExpandCondition(text)
	if err != nil {
		return false, wrapExpandErr(err)
	}
	v, err := eval.EvalBool(expanded, p.macros)
	if err != nil {
		return false, &EvalError{Expr: expanded, Err: err}
	}
	return v, nil
}

// Expand macro-expands text in isolation and returns the result verbatim;
// it does not mutate Source().
func (p *Preprocessor) Expand(text string) (string, error) {
	out, err := p.expander.Expand(text)
	if err != nil {
		return "", wrapExpandErr(err)
	}
	return out, nil
}

// Evaluate expands text and then interprets it as a constant expression,
// returning an int64, except when the expansion is one or more string
// literals joined only by "+" (optionally parenthesized), in which case
// their unquoted values are concatenated byte-wise and returned instead —
// the one non-arithmetic return evaluate tolerates (spec.md §4.G; the
// multi-literal "+" form is the string-addition path supplemented from the
// original source's test suite).
func (p *Preprocessor) Evaluate(text string) (any, error) {
	expanded, err := p.expander.ExpandCondition(text)
	if err != nil {
		return nil, wrapExpandErr(err)
	}
	if s, ok := stringExprValue(expanded); ok {
		return s, nil
	}
	v, err := eval.EvalText(expanded, p.macros)
	if err != nil {
		return nil, &EvalError{Expr: expanded, Err: err}
	}
	return v, nil
}

// Source returns the accumulated expanded output of every Include call so
// far, in processing order.
func (p *Preprocessor) Source() string {
	return p.source.String()
}

func (p *Preprocessor) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf("cpreproc: "+format, args...)
	}
}

// stringExprValue reports whether text, ignoring layout and any number of
// matching enclosing "(" ")" pairs, is a sequence of one or more string
// literals joined only by "+", returning their unquoted contents
// concatenated byte-wise. A lone string literal (zero "+" signs) is the
// single-literal case spec.md §4.G describes directly.
func stringExprValue(text string) (string, bool) {
	tokens, err := lexer.New([]byte(text)).AllTokens()
	if err != nil {
		return "", false
	}
	var significant []lexer.Token
	for _, t := range tokens {
		if t.Type == lexer.Whitespace || t.Type == lexer.Newline {
			continue
		}
		significant = append(significant, t)
	}
	for outerParensMatch(significant) {
		significant = significant[1 : len(significant)-1]
	}
	if len(significant) == 0 || len(significant)%2 == 0 {
		return "", false
	}
	var b strings.Builder
	for i, t := range significant {
		if i%2 == 0 {
			if t.Type != lexer.String {
				return "", false
			}
			b.WriteString(unquote(t.Content))
		} else if t.Type != lexer.Punct || t.Content != "+" {
			return "", false
		}
	}
	return b.String(), true
}

// outerParensMatch reports whether tokens is entirely wrapped in one
// matching "(" ")" pair (as opposed to e.g. two adjacent parenthesized
// groups, where tokens[0] and tokens[len-1] happen to be parens but do not
// match each other).
func outerParensMatch(tokens []lexer.Token) bool {
	if len(tokens) < 2 {
		return false
	}
	if tokens[0].Type != lexer.Punct || tokens[0].Content != "(" {
		return false
	}
	depth := 0
	for i, t := range tokens {
		if t.Type != lexer.Punct {
			continue
		}
		switch t.Content {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i == len(tokens)-1
			}
		}
	}
	return false
}

func unquote(content string) string {
	if len(content) >= 2 {
		return content[1 : len(content)-1]
	}
	return content
}

// wrapExpandErr classifies an error surfaced by internal/expand into the
// matching tagged category.
func wrapExpandErr(err error) error {
	switch {
	case errors.Is(err, expand.ErrArity):
		return &ArityError{Err: err}
	case errors.Is(err, expand.ErrUnterminatedArgumentList):
		return &SyntaxError{Err: err}
	default:
		return &LexError{Err: err}
	}
}
