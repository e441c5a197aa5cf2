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
package scope

import (
	"fmt"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
)

// ResolvedKind enumerates the terminal value kinds GetValue can produce.
// This mirrors air.ValueKind exactly but is declared independently so that
// pkg/scope does not need to depend on pkg/air: it is pkg/lower's job to
// translate a ResolvedValue into an air.Value leaf node.
type ResolvedKind uint8

const (
	// ResolvedConstant is a literal field element.
	ResolvedConstant ResolvedKind = iota
	// ResolvedTraceAccess reads a single trace cell.
	ResolvedTraceAccess
	// ResolvedPeriodicColumn reads the current row of a periodic column.
	ResolvedPeriodicColumn
	// ResolvedPublicInput reads one element of a public input array.
	ResolvedPublicInput
	// ResolvedRandomValue reads one verifier-supplied random value.
	ResolvedRandomValue
)

// ResolvedValue is the terminal value GetValue resolves a non-Variable
// binding + access to.
type ResolvedValue struct {
	Kind ResolvedKind

	Constant uint64

	Segment   uint
	Column    uint
	RowOffset uint

	PeriodicName     string
	PeriodicCycleLen uint

	PublicInputName  string
	PublicInputIndex uint

	RandomIndex uint
}

// GetValue resolves an access against a non-Variable binding to a terminal
// value, enforcing the per-binding-kind access rules of spec.md §4.1.
// Variable bindings are not handled here - spec.md directs callers to
// re-enter the bound expression as an expression instead; calling GetValue
// on a Variable binding returns an error.
func GetValue(name string, b Binding, access types.AccessType, rowOffset uint) (ResolvedValue, error) {
	switch b.Kind {
	case ConstantBinding:
		return getConstantValue(b, access)
	case PeriodicColumnBindingKind:
		if access.Kind() != types.Default {
			return ResolvedValue{}, &ErrInvalidAccess{Kind: b.Kind, Access: access.Kind()}
		}

		return ResolvedValue{Kind: ResolvedPeriodicColumn, PeriodicName: name, PeriodicCycleLen: uint(len(b.PeriodicValues))}, nil
	case PublicInputBinding:
		if access.Kind() != types.Index {
			return ResolvedValue{}, &ErrInvalidAccess{Kind: b.Kind, Access: access.Kind()}
		}

		idx := access.Index()
		if idx >= b.PublicInputSize {
			return ResolvedValue{}, fmt.Errorf("index %d out of bounds for public input %q of size %d", idx, name, b.PublicInputSize)
		}

		return ResolvedValue{Kind: ResolvedPublicInput, PublicInputName: name, PublicInputIndex: idx}, nil
	case RandomValuesBinding:
		idx, err := scalarIndex(access, b.RandomSize)
		if err != nil {
			return ResolvedValue{}, err
		}

		return ResolvedValue{Kind: ResolvedRandomValue, RandomIndex: b.RandomOffset + idx}, nil
	case TraceBindingKind:
		idx, err := scalarIndex(access, b.Trace.Size)
		if err != nil {
			return ResolvedValue{}, err
		}

		return ResolvedValue{
			Kind:      ResolvedTraceAccess,
			Segment:   b.Trace.Segment,
			Column:    b.Trace.Offset + idx,
			RowOffset: rowOffset,
		}, nil
	case VariableBinding:
		return ResolvedValue{}, fmt.Errorf("variable %q must be resolved by re-entering its bound expression, not GetValue", name)
	default:
		return ResolvedValue{}, fmt.Errorf("unknown binding kind %v", b.Kind)
	}
}

// scalarIndex resolves a Default (only legal when size == 1) or Index
// access against a group of `size` consecutive columns/values, matching
// the "Default if size==1; Index(i) with i < size" rule shared by Trace
// and RandomValues bindings.
func scalarIndex(access types.AccessType, size uint) (uint, error) {
	switch access.Kind() {
	case types.Default:
		if size != 1 {
			return 0, fmt.Errorf("bare reference to a group of %d columns requires an index", size)
		}

		return 0, nil
	case types.Index:
		idx := access.Index()
		if idx >= size {
			return 0, fmt.Errorf("index %d out of bounds for group of size %d", idx, size)
		}

		return idx, nil
	default:
		return 0, fmt.Errorf("access kind %v is not valid here", access.Kind())
	}
}

// getConstantValue resolves an access against a constant binding's folded
// literal value. The value is expected to already be a literal
// (ConstScalar/ConstVector/ConstMatrix) by the time lowering calls
// GetValue, since constant propagation (pkg/constprop) substitutes
// constant references with literals everywhere except inside the constant
// declarations themselves.
func getConstantValue(b Binding, access types.AccessType) (ResolvedValue, error) {
	switch v := b.Value.(type) {
	case *ast.ConstScalar:
		if access.Kind() != types.Default {
			return ResolvedValue{}, fmt.Errorf("cannot apply access to scalar constant")
		}

		return ResolvedValue{Kind: ResolvedConstant, Constant: v.Value}, nil
	case *ast.ConstVector:
		switch access.Kind() {
		case types.Index:
			idx := access.Index()
			if idx >= uint(len(v.Values)) {
				return ResolvedValue{}, fmt.Errorf("index %d out of bounds for constant vector of size %d", idx, len(v.Values))
			}

			return ResolvedValue{Kind: ResolvedConstant, Constant: v.Values[idx]}, nil
		default:
			return ResolvedValue{}, fmt.Errorf("access kind %v must be unrolled before resolving a constant vector", access.Kind())
		}
	case *ast.ConstMatrix:
		if access.Kind() != types.MatrixIndex {
			return ResolvedValue{}, fmt.Errorf("matrix constant requires a matrix index access")
		}

		row, col := access.RowCol()
		if row >= uint(len(v.Rows)) || col >= uint(len(v.Rows[row])) {
			return ResolvedValue{}, fmt.Errorf("index [%d,%d] out of bounds for constant matrix", row, col)
		}

		return ResolvedValue{Kind: ResolvedConstant, Constant: v.Rows[row][col]}, nil
	default:
		return ResolvedValue{}, fmt.Errorf("constant binding holds a non-literal value; constant propagation did not fully fold it")
	}
}
