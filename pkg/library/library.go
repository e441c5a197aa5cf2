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

// Package library describes the external collaborator the compiler core
// consumes alongside the root Circuit: a set of pre-compiled modules (e.g. a
// standard library) whose constants, periodic columns, and evaluator
// functions can be imported by name, without the core ever seeing their
// original AST.
package library

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
)

// ExportKind distinguishes the three item kinds a library module can
// export. PeriodicColumn is included because the dependency graph in
// pkg/sema tracks PeriodicColumn edges across module boundaries, per
// spec.md's DependencyGraph edge-label set.
type ExportKind uint8

// Constant, Evaluator and PeriodicColumn enumerate the exportable item
// kinds.
const (
	Constant ExportKind = iota
	Evaluator
	PeriodicColumn
)

// Export describes one item a library module makes available for import.
type Export struct {
	Kind ExportKind
	Name ident.Identifier
	// Constant carries the declaration when Kind == Constant.
	Constant *ast.DeclareConstant
	// Evaluator carries the declaration when Kind == Evaluator.
	Evaluator *ast.DeclareEvaluator
	// PeriodicColumn carries the declaration when Kind == PeriodicColumn.
	PeriodicColumn *ast.PeriodicColumnBinding
}

// Module is a single pre-compiled library module: a name plus its exports.
type Module interface {
	// Name returns this module's identifier, as referenced by `use name::...`.
	Name() ident.Identifier
	// Exports returns every item this module makes available for import.
	Exports() []Export
}

// Library resolves module identifiers, by text, to pre-compiled Modules.
// Implementations are supplied by the caller of pkg/compiler; the core never
// constructs one itself.
type Library interface {
	// Lookup returns the module registered under the given name, or false
	// if no such module is known to this library.
	Lookup(name string) (Module, bool)
}

// StaticLibrary is a Library backed by an in-memory map, sufficient for
// tests and the demo CLI.
type StaticLibrary struct {
	modules map[string]Module
}

// NewStaticLibrary constructs a library from the given modules, keyed by
// their own Name().
func NewStaticLibrary(modules ...Module) *StaticLibrary {
	lib := &StaticLibrary{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		lib.modules[m.Name().Text()] = m
	}

	return lib
}

// Lookup implements Library.
func (l *StaticLibrary) Lookup(name string) (Module, bool) {
	m, ok := l.modules[name]
	return m, ok
}

// staticModule is the straightforward Module implementation backing
// StaticLibrary entries built via NewStaticModule.
type staticModule struct {
	name    ident.Identifier
	exports []Export
}

// NewStaticModule constructs a library module from a fixed export list.
func NewStaticModule(name ident.Identifier, exports ...Export) Module {
	return &staticModule{name: name, exports: exports}
}

// Name implements Module.
func (m *staticModule) Name() ident.Identifier {
	return m.name
}

// Exports implements Module.
func (m *staticModule) Exports() []Export {
	return m.exports
}
