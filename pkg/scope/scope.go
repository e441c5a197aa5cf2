// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package scope implements the layered lexical scope every compiler pass
// resolves symbols against: trace bindings, public inputs, periodic
// columns, random values, constants, and let-bound variables, each
// carrying its own access rules.
package scope

import (
	"fmt"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
)

// BindingKind enumerates the symbol-binding variants spec.md §4.1 lists.
type BindingKind uint8

const (
	// ConstantBinding names a compile-time constant value.
	ConstantBinding BindingKind = iota
	// TraceBindingKind names a contiguous group of trace columns.
	TraceBindingKind
	// PublicInputBinding names a public input array.
	PublicInputBinding
	// PeriodicColumnBindingKind names a periodic column.
	PeriodicColumnBindingKind
	// VariableBinding names a let-bound local variable.
	VariableBinding
	// RandomValuesBinding names the random-values array.
	RandomValuesBinding
)

// String implements fmt.Stringer.
func (k BindingKind) String() string {
	switch k {
	case ConstantBinding:
		return "constant"
	case TraceBindingKind:
		return "trace"
	case PublicInputBinding:
		return "public-input"
	case PeriodicColumnBindingKind:
		return "periodic-column"
	case VariableBinding:
		return "variable"
	case RandomValuesBinding:
		return "random-values"
	default:
		return "unknown"
	}
}

// TraceBinding records the segment, starting column offset and width of a
// named group of trace columns.
type TraceBinding struct {
	Segment uint
	Offset  uint
	Size    uint
}

// Binding is one entry a LexicalScope frame can hold, matching spec.md
// §4.1's SymbolBinding sum type.
type Binding struct {
	Kind BindingKind

	// Type is the shape of the bound value, used for access-type checking.
	Type types.Type

	// Trace is populated when Kind == TraceBindingKind.
	Trace TraceBinding

	// PublicInputSize is populated when Kind == PublicInputBinding.
	PublicInputSize uint

	// PeriodicValues is populated when Kind == PeriodicColumnBindingKind:
	// the column's fixed cycle, in source order. Its length is the cycle
	// length; the column's position within the final Air.PeriodicColumns()
	// table is assigned by pkg/lower the first time the column is
	// registered, not stored here.
	PeriodicValues []uint64

	// RandomOffset and RandomSize are populated when
	// Kind == RandomValuesBinding: RandomOffset is this array's starting
	// index within the program-wide random-values vector.
	RandomOffset uint
	RandomSize   uint

	// Value carries the bound expression for ConstantBinding and
	// VariableBinding: the declaration's literal/expression value for a
	// constant (expected fully folded by the time lowering resolves it),
	// or the let-binding's value expression for a variable (re-entered as
	// an expression rather than resolved here, per spec.md §4.1).
	Value ast.Expr
}

// NewConstantBinding constructs a constant binding.
func NewConstantBinding(t types.Type, value ast.Expr) Binding {
	return Binding{Kind: ConstantBinding, Type: t, Value: value}
}

// NewTraceBinding constructs a trace-column-group binding.
func NewTraceBinding(segment, offset, size uint) Binding {
	t := types.NewFelt()
	if size > 1 {
		t = types.NewVector(size)
	}

	return Binding{Kind: TraceBindingKind, Type: t, Trace: TraceBinding{Segment: segment, Offset: offset, Size: size}}
}

// NewPublicInputBinding constructs a public-input binding.
func NewPublicInputBinding(size uint) Binding {
	return Binding{Kind: PublicInputBinding, Type: types.NewVector(size), PublicInputSize: size}
}

// NewPeriodicColumnBinding constructs a periodic-column binding from its
// fixed cycle of values.
func NewPeriodicColumnBinding(values []uint64) Binding {
	return Binding{Kind: PeriodicColumnBindingKind, Type: types.NewFelt(), PeriodicValues: values}
}

// NewVariableBinding constructs a let-bound variable binding.
func NewVariableBinding(t types.Type, value ast.Expr) Binding {
	return Binding{Kind: VariableBinding, Type: t, Value: value}
}

// NewRandomValuesBinding constructs a random-values array binding.
func NewRandomValuesBinding(offset, size uint) Binding {
	t := types.NewFelt()
	if size > 1 {
		t = types.NewVector(size)
	}

	return Binding{Kind: RandomValuesBinding, Type: t, RandomOffset: offset, RandomSize: size}
}

// frame is one level of a LexicalScope's stack.
type frame map[string]Binding

// LexicalScope is an enter/exit stack of binding frames keyed by
// identifier text. Shadowing across frames is permitted; redefinition
// within the same frame is rejected by Insert.
type LexicalScope struct {
	frames []frame
}

// New constructs a scope with a single root frame.
func New() *LexicalScope {
	return &LexicalScope{frames: []frame{make(frame)}}
}

// Enter pushes a fresh, empty frame.
func (s *LexicalScope) Enter() {
	s.frames = append(s.frames, make(frame))
}

// Exit pops the innermost frame. Panics if called on a scope with only the
// root frame remaining, since that would unbalance the enter/exit
// discipline every AST traversal relies on.
func (s *LexicalScope) Exit() {
	if len(s.frames) <= 1 {
		panic("scope: Exit called with no frame to pop")
	}

	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of frames currently on the stack (>= 1).
func (s *LexicalScope) Depth() int {
	return len(s.frames)
}

// Insert binds name to b in the current (innermost) frame, returning the
// previous binding in that same frame if one existed - callers use this to
// detect redefinition within a frame, which is an error, while shadowing a
// binding from an outer frame remains legal.
func (s *LexicalScope) Insert(name string, b Binding) (Binding, bool) {
	cur := s.frames[len(s.frames)-1]
	prev, existed := cur[name]
	cur[name] = b

	return prev, existed
}

// Get resolves name by walking frames from innermost to outermost.
func (s *LexicalScope) Get(name string) (Binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i][name]; ok {
			return b, true
		}
	}

	return Binding{}, false
}

// ErrInvalidAccess reports an access that is disallowed for the binding
// kind it was applied to, independent of whether the shape itself fits.
type ErrInvalidAccess struct {
	Kind BindingKind
	Access types.AccessKind
}

// Error implements the error interface.
func (e *ErrInvalidAccess) Error() string {
	return fmt.Sprintf("access kind %v is not valid for a %s binding", e.Access, e.Kind)
}
