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

// Package types provides the small closed type system AirScript values
// carry - scalars, fixed-size vectors and matrices - together with the
// access operators (indexing, slicing) that can be applied to them.
package types

import "fmt"

// Kind enumerates the shapes a value in the language can have.
type Kind uint8

const (
	// Felt is a scalar field element.
	Felt Kind = iota
	// Vector is a one-dimensional fixed-size array of scalars.
	Vector
	// Matrix is a two-dimensional fixed-size array of scalars.
	Matrix
)

// Type describes the shape of a value: a scalar, a vector of a given size,
// or a matrix of given row/column counts. The zero value is Felt.
type Type struct {
	kind Kind
	rows uint
	cols uint
}

// NewFelt constructs the scalar type.
func NewFelt() Type {
	return Type{kind: Felt}
}

// NewVector constructs a vector type of the given length. Panics if size is
// zero, since a zero-length vector cannot hold any value.
func NewVector(size uint) Type {
	if size == 0 {
		panic("vector type must have non-zero size")
	}

	return Type{kind: Vector, rows: size}
}

// NewMatrix constructs a matrix type of the given row and column counts.
// Panics if either dimension is zero.
func NewMatrix(rows, cols uint) Type {
	if rows == 0 || cols == 0 {
		panic("matrix type must have non-zero dimensions")
	}

	return Type{kind: Matrix, rows: rows, cols: cols}
}

// Kind returns the shape discriminator of this type.
func (t Type) Kind() Kind {
	return t.kind
}

// Rows returns the vector length (Vector) or row count (Matrix). Zero for
// Felt.
func (t Type) Rows() uint {
	return t.rows
}

// Cols returns the column count of a Matrix type. Zero otherwise.
func (t Type) Cols() uint {
	return t.cols
}

// Equals compares two types structurally.
func (t Type) Equals(other Type) bool {
	return t.kind == other.kind && t.rows == other.rows && t.cols == other.cols
}

// String renders a type for diagnostics.
func (t Type) String() string {
	switch t.kind {
	case Felt:
		return "felt"
	case Vector:
		return fmt.Sprintf("vector[%d]", t.rows)
	case Matrix:
		return fmt.Sprintf("matrix[%d,%d]", t.rows, t.cols)
	default:
		return "unknown"
	}
}

// AccessKind enumerates the ways a symbol reference can index into its
// bound value.
type AccessKind uint8

const (
	// Default denotes a bare reference with no index applied.
	Default AccessKind = iota
	// Index denotes a single-element index, e.g. `x[2]`.
	Index
	// Slice denotes a contiguous sub-range, e.g. `x[2..5]`.
	Slice
	// MatrixIndex denotes a two-dimensional index, e.g. `x[1][2]`.
	MatrixIndex
)

// AccessType describes how a symbol reference indexes into the value it is
// bound to.
type AccessType struct {
	kind       AccessKind
	index      uint
	start, end uint
	row, col   uint
}

// NewDefaultAccess constructs a bare (unindexed) access.
func NewDefaultAccess() AccessType {
	return AccessType{kind: Default}
}

// NewIndexAccess constructs a single-element index access.
func NewIndexAccess(index uint) AccessType {
	return AccessType{kind: Index, index: index}
}

// NewSliceAccess constructs a contiguous sub-range access covering
// [start,end).
func NewSliceAccess(start, end uint) AccessType {
	return AccessType{kind: Slice, start: start, end: end}
}

// NewMatrixAccess constructs a two-dimensional index access.
func NewMatrixAccess(row, col uint) AccessType {
	return AccessType{kind: MatrixIndex, row: row, col: col}
}

// Kind returns the access discriminator.
func (a AccessType) Kind() AccessKind {
	return a.kind
}

// Index returns the element index of an Index access.
func (a AccessType) Index() uint {
	return a.index
}

// Range returns the [start,end) bounds of a Slice access.
func (a AccessType) Range() (uint, uint) {
	return a.start, a.end
}

// RowCol returns the (row, column) pair of a MatrixIndex access.
func (a AccessType) RowCol() (uint, uint) {
	return a.row, a.col
}

// Apply computes the resulting type of applying this access to a value of
// the given base type, or returns an error describing why the access is
// invalid for that type.
func Apply(base Type, access AccessType) (Type, error) {
	switch access.kind {
	case Default:
		return base, nil
	case Index:
		switch base.kind {
		case Vector:
			if access.index >= base.rows {
				return Type{}, fmt.Errorf("index %d out of bounds for vector of size %d", access.index, base.rows)
			}

			return NewFelt(), nil
		case Matrix:
			if access.index >= base.rows {
				return Type{}, fmt.Errorf("index %d out of bounds for matrix with %d rows", access.index, base.rows)
			}

			return NewVector(base.cols), nil
		default:
			return Type{}, fmt.Errorf("cannot index into %s", base)
		}
	case Slice:
		if base.kind != Vector {
			return Type{}, fmt.Errorf("cannot slice %s", base)
		}

		if access.start >= access.end || access.end > base.rows {
			return Type{}, fmt.Errorf("slice [%d..%d) out of bounds for vector of size %d", access.start, access.end, base.rows)
		}

		return NewVector(access.end - access.start), nil
	case MatrixIndex:
		if base.kind != Matrix {
			return Type{}, fmt.Errorf("cannot apply matrix index to %s", base)
		}

		if access.row >= base.rows || access.col >= base.cols {
			return Type{}, fmt.Errorf("index [%d,%d] out of bounds for matrix[%d,%d]", access.row, access.col, base.rows, base.cols)
		}

		return NewFelt(), nil
	default:
		return Type{}, fmt.Errorf("unknown access kind")
	}
}

// FunctionKind distinguishes the one callable declaration form the language
// supports.
type FunctionKind uint8

const (
	// Evaluator identifies an evaluator function: a named block of
	// constraints parametrised over trace-column arguments, inlined at
	// every call site rather than retaining call semantics.
	Evaluator FunctionKind = iota
)

// FunctionType describes the arity and per-parameter types of a callable
// declaration.
type FunctionType struct {
	Kind   FunctionKind
	Params []Type
}

// NewEvaluatorType constructs the type of an evaluator function with the
// given parameter types.
func NewEvaluatorType(params []Type) FunctionType {
	return FunctionType{Kind: Evaluator, Params: params}
}

// Arity returns the number of parameters this function type expects.
func (f FunctionType) Arity() int {
	return len(f.Params)
}
