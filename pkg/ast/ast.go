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

// Package ast defines the surface syntax tree the compiler core consumes:
// circuits, modules, declarations, statements and expressions. Nothing in
// this package performs analysis; it is purely a data model, built either by
// an external parser or, in this repository's demo harness, directly
// through the constructor functions below.
package ast

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// Node is implemented by every AST element that carries a source span.
type Node interface {
	Span() source.Span
}

// Circuit is the top-level unit the pipeline compiles: the root module plus
// any non-root modules defined in the same compilation unit. Additional
// modules reachable only through the external Library collaborator are not
// part of a Circuit; see package library.
type Circuit struct {
	// Root names the module which owns the constraint sections.
	Root ident.Identifier
	// Modules holds every module in this circuit, keyed by name, including
	// the root.
	Modules map[string]*Module
}

// NewCircuit constructs an empty circuit with the given root module name.
func NewCircuit(root ident.Identifier) *Circuit {
	return &Circuit{Root: root, Modules: make(map[string]*Module)}
}

// AddModule registers a module with this circuit.
func (c *Circuit) AddModule(m *Module) {
	c.Modules[m.Name.Text()] = m
}

// RootModule returns the circuit's root module, panicking if it was never
// added via AddModule - a circuit under construction should always add its
// root first.
func (c *Circuit) RootModule() *Module {
	m, ok := c.Modules[c.Root.Text()]
	if !ok {
		panic("circuit has no root module registered")
	}

	return m
}

// Module groups declarations under a single namespace. A root module may
// carry every section kind; a library module may carry only constants,
// periodic columns, and evaluator functions (enforced by semantic
// analysis, not by this type).
type Module struct {
	Name         ident.Identifier
	IsRoot       bool
	Declarations []Declaration
	span         source.Span
}

// NewModule constructs a module with no declarations.
func NewModule(name ident.Identifier, isRoot bool, span source.Span) *Module {
	return &Module{Name: name, IsRoot: isRoot, span: span}
}

// Span implements Node.
func (m *Module) Span() source.Span {
	return m.span
}

// Add appends a declaration to this module, in source order.
func (m *Module) Add(d Declaration) {
	m.Declarations = append(m.Declarations, d)
}

// Declaration is implemented by every top-level item a module can contain.
type Declaration interface {
	Node
	// declarationNode is unexported so Declaration cannot be implemented
	// outside this package, matching the closed-set-of-variants idiom used
	// throughout the AST.
	declarationNode()
}

// BoundaryQualifier marks a symbol access as pinned to the first or last row
// of its trace segment, as opposed to a floating row offset.
type BoundaryQualifier uint8

// None, First and Last enumerate the boundary qualifiers a symbol access may
// carry; None means no qualifier was written.
const (
	None BoundaryQualifier = iota
	First
	Last
)
