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

// Package sema implements semantic analysis: per-module scope
// construction, section well-formedness, symbol resolution against the
// combined local/imported tables, the cross-module dependency graph, and
// reachability-based dead-code elimination.
package sema

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/imports"
	"github.com/0xPolygonMiden/airscript-go/pkg/library"
	"github.com/0xPolygonMiden/airscript-go/pkg/scope"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
)

// ModuleInfo is the analyzed form of a single module: its declared scope
// (locally-declared bindings merged with the module's resolved imports) and
// its evaluator-function table (function namespace, so not part of Scope).
type ModuleInfo struct {
	Module *ast.Module
	Scope  *scope.LexicalScope
	// Evaluators maps an evaluator's local name to its declaration, merged
	// from both local declarations and imports.
	Evaluators map[string]*ast.DeclareEvaluator
	// EvaluatorSource maps an evaluator's local name to the identifier of
	// the module that actually defines it (itself, for a
	// locally-declared evaluator).
	EvaluatorSource map[string]ident.Identifier
	// BindingSource maps a constant or periodic-column name bound in Scope
	// to the module that defines it, for dependency-edge construction.
	BindingSource map[string]ident.Identifier
}

// Result is the output of a successful semantic analysis pass.
type Result struct {
	Root ident.Identifier
	Modules map[string]*ModuleInfo

	TraceSegmentWidths []uint
	PublicInputs       []ast.PublicInputBinding
	NumRandomValues    uint

	DepGraph *DependencyGraph
	// Reachable holds the qualified-identifier keys (see
	// ident.QualifiedIdentifier.String) retained after dead-code
	// elimination from the root module's constraint sections.
	Reachable map[string]bool
}

// Analyze runs semantic analysis over circuit, consulting lib for
// externally-defined modules and recording diagnostics to sink. It returns
// nil if any error-severity diagnostic was recorded - per spec.md §4.3,
// analysis accumulates diagnostics and continues where possible to surface
// multiple independent errors, but produces no output if any error
// occurred.
func Analyze(circuit *ast.Circuit, lib library.Library, sink *diag.Sink) *Result {
	imported := imports.Resolve(circuit, lib, sink)

	root, ok := circuit.Modules[circuit.Root.Text()]
	if !ok {
		sink.Error(diag.KindMissingRequiredSection, nil, nil, "circuit has no root module %q", circuit.Root.Text())
		return nil
	}

	checkSectionArity(circuit, sink)

	modules := make(map[string]*ModuleInfo, len(circuit.Modules))

	for name, mod := range circuit.Modules {
		modules[name] = buildModuleInfo(mod, imported[name], sink)
	}

	result := &Result{
		Root:    circuit.Root,
		Modules: modules,
	}

	populateRootSections(root, result, sink)
	result.DepGraph = buildDependencyGraph(circuit, modules)
	result.Reachable = computeReachability(root, circuit.Root, modules[circuit.Root.Text()], result.DepGraph)

	resolveReferences(circuit, modules, sink)

	if sink.HasErrors() {
		return nil
	}

	return result
}

// checkSectionArity validates spec.md §4.3(a)/(b): at most one of each
// section kind per module, library modules carry no constraint-facing
// sections, and the root module carries the sections a circuit cannot
// compile without.
func checkSectionArity(circuit *ast.Circuit, sink *diag.Sink) {
	for name, mod := range circuit.Modules {
		counts := map[string]int{}
		segmentsSeen := map[uint]bool{}

		for _, decl := range mod.Declarations {
			switch d := decl.(type) {
			case *ast.DeclareTraceColumns:
				if segmentsSeen[d.Segment] {
					span := d.Span()
					sink.Error(diag.KindMissingRequiredSection, &span, nil,
						"module %q declares trace_columns for segment %d more than once", name, d.Segment)
				}

				segmentsSeen[d.Segment] = true

				if !mod.IsRoot {
					span := d.Span()
					sink.Error(diag.KindSectionInWrongModule, &span, nil,
						"library module %q cannot declare trace_columns", name)
				}
			case *ast.DeclarePublicInputs:
				counts["public_inputs"]++

				if !mod.IsRoot {
					span := d.Span()
					sink.Error(diag.KindSectionInWrongModule, &span, nil,
						"library module %q cannot declare public_inputs", name)
				}
			case *ast.DeclareRandomValues:
				counts["random_values"]++

				if !mod.IsRoot {
					span := d.Span()
					sink.Error(diag.KindSectionInWrongModule, &span, nil,
						"library module %q cannot declare random_values", name)
				}
			case *ast.BoundaryConstraints:
				counts["boundary_constraints"]++

				if !mod.IsRoot {
					span := d.Span()
					sink.Error(diag.KindSectionInWrongModule, &span, nil,
						"library module %q cannot declare boundary_constraints", name)
				}
			case *ast.IntegrityConstraints:
				counts["integrity_constraints"]++

				if !mod.IsRoot {
					span := d.Span()
					sink.Error(diag.KindSectionInWrongModule, &span, nil,
						"library module %q cannot declare integrity_constraints", name)
				}
			case *ast.DeclarePeriodicColumns:
				counts["periodic_columns"]++
			}
		}

		for section, n := range counts {
			if n > 1 {
				sink.Error(diag.KindMissingRequiredSection, nil, nil,
					"module %q declares section %q more than once", name, section)
			}
		}

		if mod.IsRoot {
			required := []string{"public_inputs", "boundary_constraints", "integrity_constraints"}
			for _, section := range required {
				if counts[section] == 0 {
					sink.Error(diag.KindMissingRequiredSection, nil, nil,
						"root module %q is missing required section %q", name, section)
				}
			}

			if !segmentsSeen[0] {
				sink.Error(diag.KindMissingRequiredSection, nil, nil,
					"root module %q is missing a trace_columns section for the main segment", name)
			}
		}
	}
}

// buildModuleInfo constructs the scope and evaluator table for a single
// module, merging its local declarations with its resolved imports.
func buildModuleInfo(mod *ast.Module, imported imports.Imported, sink *diag.Sink) *ModuleInfo {
	info := &ModuleInfo{
		Module:          mod,
		Scope:           scope.New(),
		Evaluators:      make(map[string]*ast.DeclareEvaluator),
		EvaluatorSource: make(map[string]ident.Identifier),
		BindingSource:   make(map[string]ident.Identifier),
	}

	mainOffset, auxOffset := uint(0), uint(0)

	for _, decl := range mod.Declarations {
		switch d := decl.(type) {
		case *ast.DeclareTraceColumns:
			offset := &mainOffset
			if d.Segment != 0 {
				offset = &auxOffset
			}

			for _, b := range d.Bindings {
				insertOrConflict(info.Scope, b.Name.Text(), scope.NewTraceBinding(d.Segment, *offset, b.Size), sink, b.Name)
				*offset += b.Size
			}
		case *ast.DeclarePublicInputs:
			for _, b := range d.Inputs {
				insertOrConflict(info.Scope, b.Name.Text(), scope.NewPublicInputBinding(b.Size), sink, b.Name)
			}
		case *ast.DeclarePeriodicColumns:
			for _, c := range d.Columns {
				insertOrConflict(info.Scope, c.Name.Text(), scope.NewPeriodicColumnBinding(c.Values), sink, c.Name)
				info.BindingSource[c.Name.Text()] = mod.Name

				if !isPowerOfTwo(len(c.Values)) || len(c.Values) < 2 {
					span := c.Name.Span()
					sink.Error(diag.KindInvalidPeriodicCycle, &span, nil,
						"periodic column %q has cycle length %d, which must be a power of two >= 2", c.Name.Text(), len(c.Values))
				}
			}
		case *ast.DeclareRandomValues:
			insertOrConflict(info.Scope, d.Name.Text(), scope.NewRandomValuesBinding(0, d.Size), sink, d.Name)
		case *ast.DeclareConstant:
			t, err := inferLiteralType(d.Value)
			if err != nil {
				span := d.Span()
				sink.Error(diag.KindInvalidMatrixLiteral, &span, nil, "constant %q: %s", d.Name.Text(), err)
			}

			insertOrConflict(info.Scope, d.Name.Text(), scope.NewConstantBinding(t, d.Value), sink, d.Name)
			info.BindingSource[d.Name.Text()] = mod.Name
		case *ast.DeclareEvaluator:
			info.Evaluators[d.Name.Text()] = d
			info.EvaluatorSource[d.Name.Text()] = mod.Name
		}
	}

	for _, item := range imported {
		switch item.Export.Kind {
		case library.Constant:
			t, _ := inferLiteralType(item.Export.Constant.Value)
			insertOrConflict(info.Scope, item.Export.Name.Text(), scope.NewConstantBinding(t, item.Export.Constant.Value), sink, item.Export.Name)
			info.BindingSource[item.Export.Name.Text()] = item.Source
		case library.PeriodicColumn:
			insertOrConflict(info.Scope, item.Export.Name.Text(), scope.NewPeriodicColumnBinding(item.Export.PeriodicColumn.Values), sink, item.Export.Name)
			info.BindingSource[item.Export.Name.Text()] = item.Source
		case library.Evaluator:
			info.Evaluators[item.Export.Name.Text()] = item.Export.Evaluator
			info.EvaluatorSource[item.Export.Name.Text()] = item.Source
		}
	}

	return info
}

// insertOrConflict inserts a binding into the module's root scope frame,
// reporting a duplicate-identifier error on redefinition rather than
// silently shadowing - the root frame holds every section-level
// declaration, so two declarations of the same name are always a conflict,
// never legitimate shadowing.
func insertOrConflict(s *scope.LexicalScope, name string, b scope.Binding, sink *diag.Sink, id ident.Identifier) {
	if _, existed := s.Insert(name, b); existed {
		span := id.Span()
		sink.Error(diag.KindDuplicateIdentifier, &span, nil, "%q is declared more than once", name)
	}
}

// isPowerOfTwo reports whether n is a power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// populateRootSections copies the root module's trace-segment widths,
// public inputs and random-value count into the analysis result.
func populateRootSections(root *ast.Module, result *Result, sink *diag.Sink) {
	widths := map[uint]uint{}

	for _, decl := range root.Declarations {
		switch d := decl.(type) {
		case *ast.DeclareTraceColumns:
			total := uint(0)
			for _, b := range d.Bindings {
				total += b.Size
			}

			widths[d.Segment] = total
		case *ast.DeclarePublicInputs:
			result.PublicInputs = d.Inputs
		case *ast.DeclareRandomValues:
			result.NumRandomValues = d.Size
		}
	}

	maxSegment := uint(0)
	for seg := range widths {
		if seg > maxSegment {
			maxSegment = seg
		}
	}

	result.TraceSegmentWidths = make([]uint, maxSegment+1)
	for seg, w := range widths {
		result.TraceSegmentWidths[seg] = w
	}
}
