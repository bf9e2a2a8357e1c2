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

// Package preprocessor is a C-style preprocessor core: tokenizer, macro
// table, constant-expression evaluator, macro expander, directive engine
// and include resolver composed behind one driver type.
//
// A Preprocessor accumulates expanded source across one or more Include
// calls, and separately exposes isolated Expand and Evaluate operations
// that never touch the accumulated buffer:
//
//	p := preprocessor.New()
//	p.Define("WIDTH", "80")
//	p.Define("SCALE", "(v * 2)", "v")
//	v, err := p.Evaluate("SCALE(WIDTH)")
//
// Token pasting, stringification, __VA_ARGS__, #pragma, #line, #error,
// trigraphs/digraphs and concatenation of adjacent string literals are out
// of scope.
package preprocessor
