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
package sema

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/scope"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
)

// constraintContext distinguishes which constraint section a statement is
// being checked in: a periodic column may only be read from an integrity
// constraint, and a public input only from a boundary constraint, per
// spec.md §3, §4.1 and §7. An evaluator's own body is checked with
// noContext, since its actual section is only decided at its call site,
// once pkg/inline splices the body into one; pkg/lower re-checks the same
// rule once that splice has happened, so a violation hidden behind an
// evaluator call is still caught.
type constraintContext uint8

const (
	noContext constraintContext = iota
	boundaryContext
	integrityContext
)

// resolveReferences walks every constraint section and evaluator body in
// the circuit, checking that each symbol access and evaluator call
// resolves against the combined local/imported/lexical scope, per
// spec.md §4.3(d).
func resolveReferences(circuit *ast.Circuit, modules map[string]*ModuleInfo, sink *diag.Sink) {
	for _, mod := range circuit.Modules {
		info := modules[mod.Name.Text()]

		for _, decl := range mod.Declarations {
			switch d := decl.(type) {
			case *ast.DeclareConstant:
				checkExpr(info, d.Value, sink, noContext)
			case *ast.DeclareEvaluator:
				info.Scope.Enter()
				for _, p := range d.Params {
					info.Scope.Insert(p.Name.Text(), scope.NewTraceBinding(p.Segment, 0, p.Size))
				}

				checkStmts(info, d.Body, sink, noContext)
				info.Scope.Exit()
			case *ast.BoundaryConstraints:
				checkStmts(info, d.Statements, sink, boundaryContext)
			case *ast.IntegrityConstraints:
				checkStmts(info, d.Statements, sink, integrityContext)
			}
		}
	}
}

func checkStmts(info *ModuleInfo, stmts []ast.Statement, sink *diag.Sink, ctx constraintContext) {
	for _, s := range stmts {
		checkStmt(info, s, sink, ctx)
	}
}

func checkStmt(info *ModuleInfo, s ast.Statement, sink *diag.Sink, ctx constraintContext) {
	switch st := s.(type) {
	case *ast.Let:
		checkExpr(info, st.Value, sink, ctx)
		info.Scope.Enter()
		info.Scope.Insert(st.Name.Text(), scope.NewVariableBinding(types.NewFelt(), st.Value))
		checkStmts(info, st.Body, sink, ctx)
		info.Scope.Exit()
	case *ast.Enforce:
		checkExpr(info, st.LHS, sink, ctx)
		checkExpr(info, st.RHS, sink, ctx)
		if st.When != nil {
			checkExpr(info, st.When, sink, ctx)
		}
	case *ast.EnforceComprehension:
		info.Scope.Enter()
		for _, b := range st.Bindings {
			checkIterable(info, b.Iterable, sink)
			info.Scope.Insert(b.Name.Text(), scope.NewVariableBinding(types.NewFelt(), nil))
		}
		checkExpr(info, st.LHS, sink, ctx)
		checkExpr(info, st.RHS, sink, ctx)
		if st.When != nil {
			checkExpr(info, st.When, sink, ctx)
		}
		info.Scope.Exit()
	case *ast.EnforceCall:
		if _, ok := info.Evaluators[st.Evaluator.Text()]; !ok {
			span := st.Evaluator.Span()
			sink.Error(diag.KindUndeclaredEvaluator, &span, nil, "undeclared evaluator %q", st.Evaluator.Text())
		}

		for _, a := range st.Args {
			if _, ok := a.(*ast.SymbolAccess); !ok {
				span := a.Span()
				sink.Error(diag.KindInvalidEvaluatorArgument, &span, nil, "evaluator arguments must be symbol references")

				continue
			}

			checkExpr(info, a, sink, ctx)
		}
	}
}

func checkIterable(info *ModuleInfo, it ast.Iterable, sink *diag.Sink) {
	switch v := it.(type) {
	case *ast.IterIdentifier:
		if _, ok := info.Scope.Get(v.Name.Text()); !ok {
			span := v.Name.Span()
			sink.Error(diag.KindUnknownIdentifier, &span, nil, "unknown identifier %q", v.Name.Text())
		}
	case *ast.IterRange:
		checkExpr(info, v.Start, sink, noContext)
		checkExpr(info, v.End, sink, noContext)
	case *ast.IterSlice:
		if _, ok := info.Scope.Get(v.Name.Text()); !ok {
			span := v.Name.Span()
			sink.Error(diag.KindUnknownIdentifier, &span, nil, "unknown identifier %q", v.Name.Text())
		}

		checkExpr(info, v.Start, sink, noContext)
		checkExpr(info, v.End, sink, noContext)
	}
}

func checkExpr(info *ModuleInfo, e ast.Expr, sink *diag.Sink, ctx constraintContext) {
	if e == nil {
		return
	}

	switch v := e.(type) {
	case *ast.ConstScalar, *ast.ConstVector, *ast.ConstMatrix:
		return
	case *ast.SymbolAccess:
		b, ok := info.Scope.Get(v.Name.Text())
		if !ok {
			span := v.Name.Span()
			sink.Error(diag.KindUnknownIdentifier, &span, nil, "unknown identifier %q", v.Name.Text())
			return
		}

		switch {
		case ctx == boundaryContext && b.Kind == scope.PeriodicColumnBindingKind:
			span := v.Name.Span()
			sink.Error(diag.KindInvalidConstraint, &span, nil, "periodic column %q cannot be referenced in a boundary constraint", v.Name.Text())
		case ctx == integrityContext && b.Kind == scope.PublicInputBinding:
			span := v.Name.Span()
			sink.Error(diag.KindInvalidConstraint, &span, nil, "public input %q cannot be referenced in an integrity constraint", v.Name.Text())
		}
	case *ast.BinaryExpr:
		checkExpr(info, v.LHS, sink, ctx)
		checkExpr(info, v.RHS, sink, ctx)
	case *ast.Exp:
		checkExpr(info, v.Base, sink, ctx)
		checkExpr(info, v.Exponent, sink, ctx)
	case *ast.ListFolding:
		checkExpr(info, v.List, sink, ctx)
	case *ast.ListComprehension:
		info.Scope.Enter()
		for _, b := range v.Bindings {
			checkIterable(info, b.Iterable, sink)
			info.Scope.Insert(b.Name.Text(), scope.NewVariableBinding(types.NewFelt(), nil))
		}
		checkExpr(info, v.Body, sink, ctx)
		info.Scope.Exit()
	}
}

// buildDependencyGraph walks every constant and evaluator definition,
// recording an edge from its own qualified identifier to every other
// declaration it references, per spec.md §4.3(e).
func buildDependencyGraph(circuit *ast.Circuit, modules map[string]*ModuleInfo) *DependencyGraph {
	g := NewDependencyGraph()

	for _, mod := range circuit.Modules {
		info := modules[mod.Name.Text()]

		for _, decl := range mod.Declarations {
			switch d := decl.(type) {
			case *ast.DeclareConstant:
				from := ident.NewQualified(mod.Name, d.Name)
				collectExprDeps(info, d.Value, from, g)
			case *ast.DeclareEvaluator:
				from := ident.NewQualified(mod.Name, d.Name)
				collectStmtDeps(info, d.Body, from, g)
			}
		}
	}

	return g
}

func collectStmtDeps(info *ModuleInfo, stmts []ast.Statement, from ident.QualifiedIdentifier, g *DependencyGraph) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.Let:
			collectExprDeps(info, st.Value, from, g)
			collectStmtDeps(info, st.Body, from, g)
		case *ast.Enforce:
			collectExprDeps(info, st.LHS, from, g)
			collectExprDeps(info, st.RHS, from, g)
			collectExprDeps(info, st.When, from, g)
		case *ast.EnforceComprehension:
			collectExprDeps(info, st.LHS, from, g)
			collectExprDeps(info, st.RHS, from, g)
			collectExprDeps(info, st.When, from, g)
		case *ast.EnforceCall:
			if src, ok := info.EvaluatorSource[st.Evaluator.Text()]; ok {
				g.AddEdge(from, ident.NewQualified(src, st.Evaluator), EvaluatorEdge)
			}

			for _, a := range st.Args {
				collectExprDeps(info, a, from, g)
			}
		}
	}
}

func collectExprDeps(info *ModuleInfo, e ast.Expr, from ident.QualifiedIdentifier, g *DependencyGraph) {
	if e == nil {
		return
	}

	switch v := e.(type) {
	case *ast.SymbolAccess:
		if src, ok := info.BindingSource[v.Name.Text()]; ok {
			b, _ := info.Scope.Get(v.Name.Text())
			kind := ConstantEdge
			if b.Kind == scope.PeriodicColumnBindingKind {
				kind = PeriodicColumnEdge
			}

			g.AddEdge(from, ident.NewQualified(src, v.Name), kind)
		}
	case *ast.BinaryExpr:
		collectExprDeps(info, v.LHS, from, g)
		collectExprDeps(info, v.RHS, from, g)
	case *ast.Exp:
		collectExprDeps(info, v.Base, from, g)
		collectExprDeps(info, v.Exponent, from, g)
	case *ast.ListFolding:
		collectExprDeps(info, v.List, from, g)
	case *ast.ListComprehension:
		collectExprDeps(info, v.Body, from, g)
		for _, b := range v.Bindings {
			switch it := b.Iterable.(type) {
			case *ast.IterRange:
				collectExprDeps(info, it.Start, from, g)
				collectExprDeps(info, it.End, from, g)
			case *ast.IterSlice:
				collectExprDeps(info, it.Start, from, g)
				collectExprDeps(info, it.End, from, g)
			}
		}
	}
}

// computeReachability walks the root module's constraint sections,
// seeding a synthetic root with every constant, periodic column and
// evaluator they reference directly, and returns every qualified
// identifier reachable transitively from it, per spec.md §4.3's
// dead-code-elimination rule.
func computeReachability(root *ast.Module, rootName ident.Identifier, info *ModuleInfo, g *DependencyGraph) map[string]bool {
	synthetic := ident.NewQualified(rootName, ident.New("$root"))

	for _, decl := range root.Declarations {
		switch d := decl.(type) {
		case *ast.BoundaryConstraints:
			collectRootRefs(info, d.Statements, g, synthetic)
		case *ast.IntegrityConstraints:
			collectRootRefs(info, d.Statements, g, synthetic)
		}
	}

	return g.Reachable(synthetic)
}

// collectRootRefs records a synthetic edge from synthetic to every
// constant, periodic column and evaluator directly referenced within
// stmts, seeding reachability.
func collectRootRefs(info *ModuleInfo, stmts []ast.Statement, g *DependencyGraph, synthetic ident.QualifiedIdentifier) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.Enforce:
			collectExprDeps(info, st.LHS, synthetic, g)
			collectExprDeps(info, st.RHS, synthetic, g)
			collectExprDeps(info, st.When, synthetic, g)
		case *ast.EnforceComprehension:
			collectExprDeps(info, st.LHS, synthetic, g)
			collectExprDeps(info, st.RHS, synthetic, g)
			collectExprDeps(info, st.When, synthetic, g)
		case *ast.EnforceCall:
			if src, ok := info.EvaluatorSource[st.Evaluator.Text()]; ok {
				g.AddEdge(synthetic, ident.NewQualified(src, st.Evaluator), EvaluatorEdge)
			}

			for _, a := range st.Args {
				collectExprDeps(info, a, synthetic, g)
			}
		case *ast.Let:
			collectExprDeps(info, st.Value, synthetic, g)
			collectRootRefs(info, st.Body, g, synthetic)
		}
	}
}
