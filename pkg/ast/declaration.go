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

// TraceColumnBinding names a single trace column (or a group of
// columns, when Size > 1) within a trace_columns section.
type TraceColumnBinding struct {
	Name ident.Identifier
	Size uint
}

// DeclareTraceColumns declares the columns of one trace segment. A root
// module owns exactly one such declaration per segment it uses.
type DeclareTraceColumns struct {
	Segment  uint
	Bindings []TraceColumnBinding
	span     source.Span
}

// NewDeclareTraceColumns constructs a trace_columns declaration for the
// given segment.
func NewDeclareTraceColumns(segment uint, bindings []TraceColumnBinding, span source.Span) *DeclareTraceColumns {
	return &DeclareTraceColumns{Segment: segment, Bindings: bindings, span: span}
}

// Span implements Node.
func (d *DeclareTraceColumns) Span() source.Span { return d.span }
func (d *DeclareTraceColumns) declarationNode()  {}

// PublicInputBinding names a public input array and its fixed length.
type PublicInputBinding struct {
	Name ident.Identifier
	Size uint
}

// DeclarePublicInputs declares the root module's public_inputs section.
type DeclarePublicInputs struct {
	Inputs []PublicInputBinding
	span   source.Span
}

// NewDeclarePublicInputs constructs a public_inputs declaration.
func NewDeclarePublicInputs(inputs []PublicInputBinding, span source.Span) *DeclarePublicInputs {
	return &DeclarePublicInputs{Inputs: inputs, span: span}
}

// Span implements Node.
func (d *DeclarePublicInputs) Span() source.Span { return d.span }
func (d *DeclarePublicInputs) declarationNode()  {}

// PeriodicColumnBinding names a periodic column and its fixed cycle of
// values. len(Values) must be a power of two, at least 2; enforced by
// semantic analysis, not here.
type PeriodicColumnBinding struct {
	Name   ident.Identifier
	Values []uint64
}

// DeclarePeriodicColumns declares the module's periodic_columns section.
type DeclarePeriodicColumns struct {
	Columns []PeriodicColumnBinding
	span    source.Span
}

// NewDeclarePeriodicColumns constructs a periodic_columns declaration.
func NewDeclarePeriodicColumns(columns []PeriodicColumnBinding, span source.Span) *DeclarePeriodicColumns {
	return &DeclarePeriodicColumns{Columns: columns, span: span}
}

// Span implements Node.
func (d *DeclarePeriodicColumns) Span() source.Span { return d.span }
func (d *DeclarePeriodicColumns) declarationNode()  {}

// DeclareRandomValues declares the module's random_values section: a single
// named array of verifier-supplied field elements, drawn after the
// prover commits to the main trace segment.
type DeclareRandomValues struct {
	Name ident.Identifier
	Size uint
	span source.Span
}

// NewDeclareRandomValues constructs a random_values declaration.
func NewDeclareRandomValues(name ident.Identifier, size uint, span source.Span) *DeclareRandomValues {
	return &DeclareRandomValues{Name: name, Size: size, span: span}
}

// Span implements Node.
func (d *DeclareRandomValues) Span() source.Span { return d.span }
func (d *DeclareRandomValues) declarationNode()  {}

// DeclareConstant declares a named compile-time constant: a scalar, vector,
// or matrix literal.
type DeclareConstant struct {
	Name  ident.Identifier
	Value Expr
	span  source.Span
}

// NewDeclareConstant constructs a constant declaration.
func NewDeclareConstant(name ident.Identifier, value Expr, span source.Span) *DeclareConstant {
	return &DeclareConstant{Name: name, Value: value, span: span}
}

// Span implements Node.
func (d *DeclareConstant) Span() source.Span { return d.span }
func (d *DeclareConstant) declarationNode()  {}

// EvaluatorParam names one formal parameter of an evaluator function: a
// group of `Size` consecutive columns from trace segment `Segment`.
type EvaluatorParam struct {
	Name    ident.Identifier
	Segment uint
	Size    uint
}

// DeclareEvaluator declares a reusable, parameterized block of integrity
// constraints.
type DeclareEvaluator struct {
	Name   ident.Identifier
	Params []EvaluatorParam
	Body   []Statement
	span   source.Span
}

// NewDeclareEvaluator constructs an evaluator declaration.
func NewDeclareEvaluator(name ident.Identifier, params []EvaluatorParam, body []Statement, span source.Span) *DeclareEvaluator {
	return &DeclareEvaluator{Name: name, Params: params, Body: body, span: span}
}

// Span implements Node.
func (d *DeclareEvaluator) Span() source.Span { return d.span }
func (d *DeclareEvaluator) declarationNode()  {}

// Use declares an import. Wildcard imports (`use module::*`) leave Item
// empty; single-item imports (`use module::item`) set it.
type Use struct {
	Module   ident.Identifier
	Wildcard bool
	Item     ident.Identifier
	span     source.Span
}

// NewWildcardUse constructs a `use module::*` import.
func NewWildcardUse(module ident.Identifier, span source.Span) *Use {
	return &Use{Module: module, Wildcard: true, span: span}
}

// NewItemUse constructs a `use module::item` import.
func NewItemUse(module, item ident.Identifier, span source.Span) *Use {
	return &Use{Module: module, Item: item, span: span}
}

// Span implements Node.
func (d *Use) Span() source.Span { return d.span }
func (d *Use) declarationNode()  {}

// BoundaryConstraints declares the root module's boundary_constraints
// section.
type BoundaryConstraints struct {
	Statements []Statement
	span       source.Span
}

// NewBoundaryConstraints constructs a boundary_constraints declaration.
func NewBoundaryConstraints(statements []Statement, span source.Span) *BoundaryConstraints {
	return &BoundaryConstraints{Statements: statements, span: span}
}

// Span implements Node.
func (d *BoundaryConstraints) Span() source.Span { return d.span }
func (d *BoundaryConstraints) declarationNode()  {}

// IntegrityConstraints declares the root module's integrity_constraints
// section.
type IntegrityConstraints struct {
	Statements []Statement
	span       source.Span
}

// NewIntegrityConstraints constructs an integrity_constraints declaration.
func NewIntegrityConstraints(statements []Statement, span source.Span) *IntegrityConstraints {
	return &IntegrityConstraints{Statements: statements, span: span}
}

// Span implements Node.
func (d *IntegrityConstraints) Span() source.Span { return d.span }
func (d *IntegrityConstraints) declarationNode()  {}
