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
package ast

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// Statement is implemented by every statement node that can appear in a
// constraint section or evaluator body.
type Statement interface {
	Node
	stmtNode()
}

// Let binds Name to Value for the scope of Body, then exits the binding.
// Matches the "Let nodes contain their body as an owned list of statements"
// shape noted in the design notes: no statement outlives its enclosing Let.
type Let struct {
	Name ident.Identifier
	Value Expr
	Body  []Statement
	span  source.Span
}

// NewLet constructs a let-binding statement.
func NewLet(name ident.Identifier, value Expr, body []Statement, span source.Span) *Let {
	return &Let{Name: name, Value: value, Body: body, span: span}
}

// Span implements Node.
func (s *Let) Span() source.Span { return s.span }
func (s *Let) stmtNode()         {}

// Enforce asserts LHS = RHS, optionally guarded by a When condition (an
// "enforce-when" form still yields a constraint: pkg/inline resolves the
// guard away by multiplying it into both sides).
type Enforce struct {
	LHS, RHS Expr
	When     Expr
	span     source.Span
}

// NewEnforce constructs an unguarded enf statement.
func NewEnforce(lhs, rhs Expr, span source.Span) *Enforce {
	return &Enforce{LHS: lhs, RHS: rhs, span: span}
}

// NewEnforceWhen constructs a guarded enf statement ("enforce-when").
func NewEnforceWhen(lhs, rhs, when Expr, span source.Span) *Enforce {
	return &Enforce{LHS: lhs, RHS: rhs, When: when, span: span}
}

// Span implements Node.
func (s *Enforce) Span() source.Span { return s.span }
func (s *Enforce) stmtNode()         {}

// EnforceComprehension is the constraint form of a comprehension: `enf e for
// (bindings)`, optionally guarded by When. It unrolls to one Enforce
// statement per loop iteration ("enforce-all"), each inheriting the span of
// this node per the inlining pass's span-preservation rule.
type EnforceComprehension struct {
	LHS, RHS Expr
	Bindings []ComprehensionBinding
	When     Expr
	span     source.Span
}

// NewEnforceComprehension constructs an unrolled-constraint comprehension.
func NewEnforceComprehension(lhs, rhs Expr, bindings []ComprehensionBinding, when Expr, span source.Span) *EnforceComprehension {
	return &EnforceComprehension{LHS: lhs, RHS: rhs, Bindings: bindings, When: when, span: span}
}

// Span implements Node.
func (s *EnforceComprehension) Span() source.Span { return s.span }
func (s *EnforceComprehension) stmtNode()         {}

// EnforceCall invokes an evaluator function, e.g. `enf advance([clk])`. Each
// argument must resolve to a symbol reference naming a group of consecutive
// trace columns; enforced by semantic analysis, not this type.
type EnforceCall struct {
	Evaluator ident.Identifier
	Args      []Expr
	span      source.Span
}

// NewEnforceCall constructs an evaluator-call statement.
func NewEnforceCall(evaluator ident.Identifier, args []Expr, span source.Span) *EnforceCall {
	return &EnforceCall{Evaluator: evaluator, Args: args, span: span}
}

// Span implements Node.
func (s *EnforceCall) Span() source.Span { return s.span }
func (s *EnforceCall) stmtNode()         {}
