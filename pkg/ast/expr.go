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
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// ConstScalar is a literal field element.
type ConstScalar struct {
	Value uint64
	span  source.Span
}

// NewConstScalar constructs a scalar literal.
func NewConstScalar(value uint64, span source.Span) *ConstScalar {
	return &ConstScalar{Value: value, span: span}
}

// Span implements Node.
func (e *ConstScalar) Span() source.Span { return e.span }
func (e *ConstScalar) exprNode()         {}

// ConstVector is a literal vector of field elements.
type ConstVector struct {
	Values []uint64
	span   source.Span
}

// NewConstVector constructs a vector literal.
func NewConstVector(values []uint64, span source.Span) *ConstVector {
	return &ConstVector{Values: values, span: span}
}

// Span implements Node.
func (e *ConstVector) Span() source.Span { return e.span }
func (e *ConstVector) exprNode()         {}

// ConstMatrix is a literal matrix of field elements; every row must have the
// same length, enforced by semantic analysis rather than this type.
type ConstMatrix struct {
	Rows [][]uint64
	span source.Span
}

// NewConstMatrix constructs a matrix literal.
func NewConstMatrix(rows [][]uint64, span source.Span) *ConstMatrix {
	return &ConstMatrix{Rows: rows, span: span}
}

// Span implements Node.
func (e *ConstMatrix) Span() source.Span { return e.span }
func (e *ConstMatrix) exprNode()         {}

// SymbolAccess references a bound name, optionally applying a shape access
// and/or a boundary qualifier (`.first` / `.last`).
type SymbolAccess struct {
	Name       ident.Identifier
	Access     types.AccessType
	Qualifier  BoundaryQualifier
	RowOffset  uint
	span       source.Span
}

// NewSymbolAccess constructs a plain symbol reference with the given access
// and row offset (0 for "current row"); Qualifier defaults to None.
func NewSymbolAccess(name ident.Identifier, access types.AccessType, rowOffset uint, span source.Span) *SymbolAccess {
	return &SymbolAccess{Name: name, Access: access, RowOffset: rowOffset, span: span}
}

// WithQualifier returns a copy of this access carrying the given boundary
// qualifier, as written by a trailing `.first` or `.last`.
func (e *SymbolAccess) WithQualifier(q BoundaryQualifier) *SymbolAccess {
	clone := *e
	clone.Qualifier = q

	return &clone
}

// Span implements Node.
func (e *SymbolAccess) Span() source.Span { return e.span }
func (e *SymbolAccess) exprNode()         {}

// BinOp enumerates the arithmetic binary operators.
type BinOp uint8

// Add, Sub and Mul are the three binary arithmetic operators the surface
// language exposes directly; Exp is modelled by the dedicated Exp node
// below since its right operand is constrained to a constant.
const (
	OpAdd BinOp = iota
	OpSub
	OpMul
)

// BinaryExpr is an arithmetic binary operation.
type BinaryExpr struct {
	Op          BinOp
	LHS, RHS    Expr
	span        source.Span
}

// NewBinaryExpr constructs a binary arithmetic expression.
func NewBinaryExpr(op BinOp, lhs, rhs Expr, span source.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs, span: span}
}

// Span implements Node.
func (e *BinaryExpr) Span() source.Span { return e.span }
func (e *BinaryExpr) exprNode()         {}

// Exp is exponentiation by a constant natural number. The exponent must
// reduce to a literal by the time constant propagation completes; this is
// enforced by pkg/constprop, not represented in the type.
type Exp struct {
	Base     Expr
	Exponent Expr
	span     source.Span
}

// NewExp constructs an exponentiation expression.
func NewExp(base, exponent Expr, span source.Span) *Exp {
	return &Exp{Base: base, Exponent: exponent, span: span}
}

// Span implements Node.
func (e *Exp) Span() source.Span { return e.span }
func (e *Exp) exprNode()         {}

// FoldOp enumerates the list-folding reduction operators.
type FoldOp uint8

// Sum and Prod are the two supported list-folding reductions.
const (
	Sum FoldOp = iota
	Prod
)

// ListFolding reduces an iterable expression with Add (Sum) or Mul (Prod).
// An empty iterable is a semantic error, not represented here.
type ListFolding struct {
	Op   FoldOp
	List Expr
	span source.Span
}

// NewListFolding constructs a list-folding expression.
func NewListFolding(op FoldOp, list Expr, span source.Span) *ListFolding {
	return &ListFolding{Op: op, List: list, span: span}
}

// Span implements Node.
func (e *ListFolding) Span() source.Span { return e.span }
func (e *ListFolding) exprNode()         {}

// Iterable is implemented by every source of values a comprehension can
// range over.
type Iterable interface {
	Node
	iterableNode()
}

// IterIdentifier ranges over a named trace-column group, constant vector,
// or variable vector.
type IterIdentifier struct {
	Name ident.Identifier
	span source.Span
}

// NewIterIdentifier constructs an identifier iterable.
func NewIterIdentifier(name ident.Identifier, span source.Span) *IterIdentifier {
	return &IterIdentifier{Name: name, span: span}
}

// Span implements Node.
func (it *IterIdentifier) Span() source.Span { return it.span }
func (it *IterIdentifier) iterableNode()     {}

// IterRange ranges over the literal integers [Start, End).
type IterRange struct {
	Start, End Expr
	span       source.Span
}

// NewIterRange constructs a range iterable.
func NewIterRange(start, end Expr, span source.Span) *IterRange {
	return &IterRange{Start: start, End: end, span: span}
}

// Span implements Node.
func (it *IterRange) Span() source.Span { return it.span }
func (it *IterRange) iterableNode()     {}

// IterSlice ranges over a contiguous sub-range [Start, End) of a named
// vector-shaped value.
type IterSlice struct {
	Name       ident.Identifier
	Start, End Expr
	span       source.Span
}

// NewIterSlice constructs a slice iterable.
func NewIterSlice(name ident.Identifier, start, end Expr, span source.Span) *IterSlice {
	return &IterSlice{Name: name, Start: start, End: end, span: span}
}

// Span implements Node.
func (it *IterSlice) Span() source.Span { return it.span }
func (it *IterSlice) iterableNode()     {}

// ComprehensionBinding binds one loop variable to one iterable; a
// comprehension with multiple bindings walks them in lock-step.
type ComprehensionBinding struct {
	Name     ident.Identifier
	Iterable Iterable
}

// ListComprehension produces a vector of length N (the common length of its
// iterables) by evaluating Body once per loop iteration with the
// comprehension's variables bound to the ith element of each iterable.
type ListComprehension struct {
	Body     Expr
	Bindings []ComprehensionBinding
	span     source.Span
}

// NewListComprehension constructs a list comprehension.
func NewListComprehension(body Expr, bindings []ComprehensionBinding, span source.Span) *ListComprehension {
	return &ListComprehension{Body: body, Bindings: bindings, span: span}
}

// Span implements Node.
func (e *ListComprehension) Span() source.Span { return e.span }
func (e *ListComprehension) exprNode()         {}

// ExprList is a materialized sequence of expressions. It never appears in
// source syntax; pkg/inline introduces it when unrolling a ListComprehension,
// so that a fold or index applied to the comprehension's result has a
// concrete list of per-iteration expressions to operate on.
type ExprList struct {
	Items []Expr
	span  source.Span
}

// NewExprList constructs a materialized expression list.
func NewExprList(items []Expr, span source.Span) *ExprList {
	return &ExprList{Items: items, span: span}
}

// Span implements Node.
func (e *ExprList) Span() source.Span { return e.span }
func (e *ExprList) exprNode()         {}
