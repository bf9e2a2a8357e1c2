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

// Package directive classifies a logical source line as a directive or
// plain source text, and parses the directives the core recognises
// (spec.md §4.E). It knows nothing about macro expansion or conditional
// nesting state — those live in internal/expand and in the ConditionalFrame
// stack below, wired together by the public preprocessor package.
package directive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cpreproc/cpreproc/internal/lexer"
	"github.com/cpreproc/cpreproc/internal/macro"
)

// ErrSyntax is returned for a malformed directive: a missing name after
// #define, an unclosed parameter list, a duplicate parameter, or a
// malformed #include.
var ErrSyntax = errors.New("malformed directive")

// Kind identifies which directive (if any) a line is.
type Kind int

const (
	// Source marks a line that is not a directive at all.
	Source Kind = iota
	Define
	Undef
	Include
	If
	Ifdef
	Ifndef
	Elif
	Else
	Endif
	// Unknown marks a syntactically-a-directive line (starts with '#')
	// whose keyword this engine does not recognise. Per spec.md §4.E,
	// unknown directives are ignored rather than rejected.
	Unknown
)

// Line is the result of classifying and, for recognised directives,
// parsing one logical source line.
type Line struct {
	Kind Kind

	// Name holds the macro name for Define/Undef/Ifdef/Ifndef.
	Name string
	// HasParams is true for a function-like #define, i.e. "(" touched
	// the name with no intervening space. Params is then non-nil (and
	// may be empty for a zero-parameter macro).
	HasParams bool
	Params    []string
	// Body holds the #define replacement text, or the #if/#elif
	// condition text, verbatim (not yet macro-expanded).
	Body string

	// Path and System describe an #include target.
	Path   string
	System bool

	// Raw is the original line text. It is set for Source and Unknown
	// lines and for #elif/#else/#endif, whose error messages quote it.
	Raw string
}

// keyword and the rest of the line, stripped of leading whitespace. ok is
// false if line is not a directive at all (its first non-whitespace byte
// is not '#').
func splitKeyword(line string) (keyword, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t\r\v\f")
	if !strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	body := strings.TrimLeft(trimmed[1:], " \t\r\v\f")
	i := 0
	for i < len(body) && isIdentByte(body[i]) {
		i++
	}
	return body[:i], strings.TrimLeft(body[i:], " \t\r\v\f"), true
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Classify determines whether line is a directive and, if so, parses it.
func Classify(line string) (Line, error) {
	keyword, rest, ok := splitKeyword(line)
	if !ok {
		return Line{Kind: Source, Raw: line}, nil
	}

	switch keyword {
	case "define":
		return parseDefine(rest)
	case "undef":
		return parseUndef(rest)
	case "include":
		return parseInclude(rest)
	case "if":
		return Line{Kind: If, Body: rest}, nil
	case "ifdef":
		return Line{Kind: Ifdef, Name: strings.TrimSpace(rest)}, nil
	case "ifndef":
		return Line{Kind: Ifndef, Name: strings.TrimSpace(rest)}, nil
	case "elif":
		return Line{Kind: Elif, Body: rest, Raw: line}, nil
	case "else":
		return Line{Kind: Else, Raw: line}, nil
	case "endif":
		return Line{Kind: Endif, Raw: line}, nil
	default:
		return Line{Kind: Unknown, Raw: line}, nil
	}
}

// parseDefine parses the text following "#define". rest must not have its
// leading whitespace trimmed relative to the name, since that whitespace
// (or its absence) is exactly what distinguishes an object-like macro from
// a function-like one.
func parseDefine(rest string) (Line, error) {
	tokens, err := lexer.New([]byte(rest)).AllTokens()
	if err != nil {
		return Line{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(tokens) == 0 || tokens[0].Type != lexer.Identifier {
		return Line{}, fmt.Errorf("%w: #define requires a macro name", ErrSyntax)
	}
	name := tokens[0].Content
	tokens = tokens[1:]

	line := Line{Kind: Define, Name: name}

	if len(tokens) > 0 && tokens[0].Type == lexer.Punct && tokens[0].Content == "(" {
		line.HasParams = true
		params, remaining, err := parseParamList(tokens[1:])
		if err != nil {
			return Line{}, err
		}
		if dup := macro.FindDuplicateParam(params); dup != "" {
			return Line{}, fmt.Errorf("%w: duplicate parameter %q in #define %s", ErrSyntax, dup, name)
		}
		line.Params = params
		line.Body = renderBody(remaining)
		return line, nil
	}

	line.Body = renderBody(tokens)
	return line, nil
}

// parseParamList reads identifiers separated by commas up to the closing
// ")", which must be present. Returns the parameter names (never nil, even
// when empty) and the tokens following the ")".
func parseParamList(tokens []lexer.Token) ([]string, []lexer.Token, error) {
	params := []string{}
	i := 0
	i = skipLayout(tokens, i)
	if i < len(tokens) && tokens[i].Type == lexer.Punct && tokens[i].Content == ")" {
		return params, tokens[i+1:], nil
	}
	for {
		i = skipLayout(tokens, i)
		if i >= len(tokens) || tokens[i].Type != lexer.Identifier {
			return nil, nil, fmt.Errorf("%w: expected parameter name in macro parameter list", ErrSyntax)
		}
		params = append(params, tokens[i].Content)
		i++
		i = skipLayout(tokens, i)
		if i >= len(tokens) {
			return nil, nil, fmt.Errorf("%w: unclosed macro parameter list", ErrSyntax)
		}
		switch tokens[i].Content {
		case ",":
			i++
			continue
		case ")":
			return params, tokens[i+1:], nil
		default:
			return nil, nil, fmt.Errorf("%w: unexpected %q in macro parameter list", ErrSyntax, tokens[i].Content)
		}
	}
}

func skipLayout(tokens []lexer.Token, i int) int {
	for i < len(tokens) && (tokens[i].Type == lexer.Whitespace || tokens[i].Type == lexer.Newline) {
		i++
	}
	return i
}

func renderBody(tokens []lexer.Token) string {
	start, end := 0, len(tokens)
	for start < end && isLayoutTok(tokens[start]) {
		start++
	}
	for end > start && isLayoutTok(tokens[end-1]) {
		end--
	}
	var b strings.Builder
	for _, t := range tokens[start:end] {
		b.WriteString(t.Content)
	}
	return b.String()
}

func isLayoutTok(t lexer.Token) bool {
	return t.Type == lexer.Whitespace || t.Type == lexer.Newline
}

func parseUndef(rest string) (Line, error) {
	tokens, err := lexer.New([]byte(rest)).AllTokens()
	if err != nil {
		return Line{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	i := skipLayout(tokens, 0)
	if i >= len(tokens) || tokens[i].Type != lexer.Identifier {
		return Line{}, fmt.Errorf("%w: #undef requires a macro name", ErrSyntax)
	}
	return Line{Kind: Undef, Name: tokens[i].Content}, nil
}

func parseInclude(rest string) (Line, error) {
	trimmed := strings.TrimSpace(rest)
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		if end := strings.IndexByte(trimmed[1:], '"'); end >= 0 {
			return Line{Kind: Include, Path: trimmed[1 : end+1], System: false}, nil
		}
		return Line{}, fmt.Errorf("%w: unterminated #include path", ErrSyntax)
	}
	if len(trimmed) >= 2 && trimmed[0] == '<' {
		if end := strings.IndexByte(trimmed, '>'); end >= 0 {
			return Line{Kind: Include, Path: trimmed[1:end], System: true}, nil
		}
		return Line{}, fmt.Errorf("%w: unterminated #include path", ErrSyntax)
	}
	return Line{}, fmt.Errorf("%w: malformed #include %q", ErrSyntax, rest)
}
