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

package eval

import (
	"fmt"

	"github.com/cpreproc/cpreproc/internal/macro"
)

// EvalText parses text as a constant expression and evaluates it against
// macros in one step.
func EvalText(text string, macros macro.Table) (int64, error) {
	expr, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return expr.Eval(macros)
}

// EvalBool is EvalText for the boolean context of #if/#elif: the result is
// true iff the integer value is non-zero.
func EvalBool(text string, macros macro.Table) (bool, error) {
	v, err := EvalText(text, macros)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition %q: %w", text, err)
	}
	return v != 0, nil
}
