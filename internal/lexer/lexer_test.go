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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedType    TokenType
		expectedContent string
		expectedErr     error
	}{
		{"empty", "", EOF, "", nil},
		{"identifier", "foo_Bar2", Identifier, "foo_Bar2", nil},
		{"leading underscore", "_X", Identifier, "_X", nil},
		{"decimal", "512", Number, "512", nil},
		{"hex", "0x1F", Number, "0x1F", nil},
		{"suffix", "512ull", Number, "512ull", nil},
		{"double quoted string", `"abc"`, String, `"abc"`, nil},
		{"single quoted char", `'a'`, String, `'a'`, nil},
		{"escaped quote", `"a\"b"`, String, `"a\"b"`, nil},
		{"escaped backslash then quote", `"a\\"`, String, `"a\\"`, nil},
		{"newline", "\n\n", Newline, "\n", nil},
		{"whitespace", "\t  x", Whitespace, "\t  ", nil},
		{"longest punct match", "<<=", Punct, "<<=", nil},
		{"shift op", "<<x", Punct, "<<", nil},
		{"ellipsis", "...", Punct, "...", nil},
		{"single lt", "<x", Punct, "<", nil},
		{"line comment collapses to space", "// hi\nx", Whitespace, " ", nil},
		{"block comment collapses to space", "/* hi */x", Whitespace, " ", nil},
		{"unterminated string", "\"abc\n", EOF, "", ErrUnterminatedString},
		{"unterminated comment", "/* abc", EOF, "", ErrUnterminatedComment},
		{"stray character", "@", EOF, "", ErrStrayCharacter},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lx := New([]byte(tc.input))
			tok, err := lx.NextToken()
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedType, tok.Type)
			assert.Equal(t, tc.expectedContent, tok.Content)
		})
	}
}

func TestLineContinuation(t *testing.T) {
	lx := New([]byte("A\\\nB"))
	tokens, err := lx.AllTokens()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "A", tokens[0].Content)
	assert.Equal(t, "B", tokens[1].Content)
}

func TestAllTokensCursorTracking(t *testing.T) {
	lx := New([]byte("ab\ncd"))
	tokens, err := lx.AllTokens()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, Cursor{Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Cursor{Line: 2, Column: 1}, tokens[2].Pos)
}

func TestStringPreservesEscapesVerbatim(t *testing.T) {
	lx := New([]byte(`"line\nbreak"`))
	tok, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, `"line\nbreak"`, tok.Content)
}
