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

package directive

import "errors"

// ErrUnmatchedConditional is returned for #elif/#else/#endif with no
// matching #if/#ifdef/#ifndef on the stack.
var ErrUnmatchedConditional = errors.New("conditional directive without matching #if")

// ConditionalFrame is one level of #if...#endif bookkeeping (spec.md §3).
type ConditionalFrame struct {
	// Active reports whether the current branch of this frame is
	// currently emitting.
	Active bool
	// AnyBranchTaken reports whether any branch of this frame (including
	// the current one) has been active so far, short-circuiting
	// subsequent #elif/#else.
	AnyBranchTaken bool
	// ParentActive is whether emission was active when this frame was
	// pushed; a frame can never be more active than its parent.
	ParentActive bool
}

// ConditionalStack is the driver's stack of nested conditional frames.
// The zero value is an empty stack, matching top-level code where
// everything is active.
type ConditionalStack []ConditionalFrame

// Active reports whether source lines are currently emitted: true at the
// top level (empty stack) or when the innermost frame is active.
func (s ConditionalStack) Active() bool {
	if len(s) == 0 {
		return true
	}
	return s[len(s)-1].Active
}

// Push starts a new frame for #if/#ifdef/#ifndef. taken is the evaluated
// condition for this first branch.
func (s ConditionalStack) Push(taken bool) ConditionalStack {
	parentActive := s.Active()
	return append(s, ConditionalFrame{
		Active:         parentActive && taken,
		AnyBranchTaken: taken,
		ParentActive:   parentActive,
	})
}

// Elif updates the innermost frame for #elif expr, where taken is the
// condition's truth value. Elif applies the short-circuit itself: once a
// prior branch was taken, taken is ignored and the frame becomes inactive,
// so a caller may skip evaluating the condition in that case.
func (s ConditionalStack) Elif(taken bool) (ConditionalStack, error) {
	if len(s) == 0 {
		return s, ErrUnmatchedConditional
	}
	top := &s[len(s)-1]
	if top.AnyBranchTaken {
		top.Active = false
		return s, nil
	}
	top.Active = top.ParentActive && taken
	top.AnyBranchTaken = taken
	return s, nil
}

// Else updates the innermost frame for #else.
func (s ConditionalStack) Else() (ConditionalStack, error) {
	if len(s) == 0 {
		return s, ErrUnmatchedConditional
	}
	top := &s[len(s)-1]
	top.Active = !top.AnyBranchTaken && top.ParentActive
	top.AnyBranchTaken = true
	return s, nil
}

// Pop closes the innermost frame for #endif.
func (s ConditionalStack) Pop() (ConditionalStack, error) {
	if len(s) == 0 {
		return s, ErrUnmatchedConditional
	}
	return s[:len(s)-1], nil
}

// Unterminated reports whether the stack still has open frames, i.e. EOF
// was reached without enough #endif directives.
func (s ConditionalStack) Unterminated() bool {
	return len(s) > 0
}
