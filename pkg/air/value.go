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

// Package air implements the algebraic graph: a value-numbered DAG of
// arithmetic operations over field elements with structural sharing,
// trace-segment inference, constraint-domain inference and degree
// computation over periodic-column cycles. This is the data structure any
// backend ultimately traverses.
package air

import "fmt"

// TraceAccess identifies a single cell read from the trace: a column within
// a segment, at a row offset relative to the row currently being evaluated.
// Offset 0 is "current"; a positive offset names a future row of a
// transition frame.
type TraceAccess struct {
	Segment   uint
	Column    uint
	RowOffset uint
}

// String renders a trace access for debugging.
func (t TraceAccess) String() string {
	if t.RowOffset == 0 {
		return fmt.Sprintf("seg%d[%d]", t.Segment, t.Column)
	}

	return fmt.Sprintf("seg%d[%d]'%d", t.Segment, t.Column, t.RowOffset)
}

// ValueKind enumerates the leaf value kinds a graph node can hold.
type ValueKind uint8

const (
	// ConstantValue is a literal field element, represented as a u64 per
	// spec.md §3.
	ConstantValue ValueKind = iota
	// TraceAccessValue reads a single trace cell.
	TraceAccessValue
	// PeriodicColumnValue reads the current row's value of a periodic
	// column.
	PeriodicColumnValue
	// PublicInputValue reads one element of a public input array.
	PublicInputValue
	// RandomValueValue reads one verifier-supplied random value.
	RandomValueValue
)

// Value is a leaf operation. It is a plain comparable struct (no pointers,
// no slices) so that it - and the Operation that embeds it - can be used
// directly as a Go map key for value numbering.
type Value struct {
	Kind ValueKind

	// Constant is populated when Kind == ConstantValue.
	Constant uint64

	// Trace is populated when Kind == TraceAccessValue.
	Trace TraceAccess

	// PeriodicColumn is populated when Kind == PeriodicColumnValue: the
	// column's fully-qualified name and its fixed cycle length (needed for
	// degree computation; the actual cycle values live in Air.periodic,
	// keyed by the same name).
	PeriodicColumn    string
	PeriodicCycleLen  uint

	// PublicInput is populated when Kind == PublicInputValue.
	PublicInput      string
	PublicInputIndex uint

	// RandomIndex is populated when Kind == RandomValueValue.
	RandomIndex uint
}

// String renders a value for debugging.
func (v Value) String() string {
	switch v.Kind {
	case ConstantValue:
		return fmt.Sprintf("%d", v.Constant)
	case TraceAccessValue:
		return v.Trace.String()
	case PeriodicColumnValue:
		return fmt.Sprintf("periodic(%s)", v.PeriodicColumn)
	case PublicInputValue:
		return fmt.Sprintf("%s[%d]", v.PublicInput, v.PublicInputIndex)
	case RandomValueValue:
		return fmt.Sprintf("$rand[%d]", v.RandomIndex)
	default:
		return "?"
	}
}

// NewConstant constructs a constant leaf value.
func NewConstant(v uint64) Value {
	return Value{Kind: ConstantValue, Constant: v}
}

// NewTraceAccessValue constructs a trace-access leaf value.
func NewTraceAccessValue(ta TraceAccess) Value {
	return Value{Kind: TraceAccessValue, Trace: ta}
}

// NewPeriodicColumnValue constructs a periodic-column leaf value.
func NewPeriodicColumnValue(name string, cycleLen uint) Value {
	return Value{Kind: PeriodicColumnValue, PeriodicColumn: name, PeriodicCycleLen: cycleLen}
}

// NewPublicInputValue constructs a public-input leaf value.
func NewPublicInputValue(name string, index uint) Value {
	return Value{Kind: PublicInputValue, PublicInput: name, PublicInputIndex: index}
}

// NewRandomValue constructs a random-value leaf value.
func NewRandomValue(index uint) Value {
	return Value{Kind: RandomValueValue, RandomIndex: index}
}
