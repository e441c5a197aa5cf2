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

// Package inline removes every comprehension, guard and evaluator call from
// a circuit's constraint sections and evaluator bodies, per spec.md §4.5:
// a list or constraint comprehension unrolls into one expression/statement
// per loop iteration, a `when` guard is eliminated by multiplying it into
// both sides of its constraint, and an evaluator call splices a renamed
// clone of the callee's (already-unrolled, already-guard-free) body in
// place of the call. What remains after Inline runs is Let and Enforce
// statements only - exactly the subset pkg/lower needs to handle.
package inline

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/scope"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// substEnv maps a loop variable or let-bound local's name to the expression
// substituted for every occurrence of that name within the current unrolling
// context. Constants bound inside a comprehension shadow any module-level
// binding of the same name, matching spec.md §4.4's comprehension-variable
// carve-out.
type substEnv map[string]ast.Expr

func childEnv(parent substEnv) substEnv {
	c := make(substEnv, len(parent)+2)
	for k, v := range parent {
		c[k] = v
	}

	return c
}

// Inline unrolls comprehensions and inlines evaluator calls throughout
// circuit, in place. Unrolling runs first, over every module's evaluator
// bodies and constraint sections, so that by the time evaluator-call
// inlining splices a callee's body into a caller, that body is already free
// of comprehensions.
func Inline(circuit *ast.Circuit, modules map[string]*sema.ModuleInfo, sink *diag.Sink) {
	for _, mod := range circuit.Modules {
		info := modules[mod.Name.Text()]
		if info == nil {
			continue
		}

		for _, decl := range mod.Declarations {
			switch d := decl.(type) {
			case *ast.DeclareEvaluator:
				d.Body = unrollStmts(info, nil, d.Body, sink)
			case *ast.BoundaryConstraints:
				d.Statements = unrollStmts(info, nil, d.Statements, sink)
			case *ast.IntegrityConstraints:
				d.Statements = unrollStmts(info, nil, d.Statements, sink)
			}
		}
	}

	for _, mod := range circuit.Modules {
		info := modules[mod.Name.Text()]
		if info == nil {
			continue
		}

		for _, decl := range mod.Declarations {
			switch d := decl.(type) {
			case *ast.BoundaryConstraints:
				d.Statements = inlineCalls(modules, info, d.Statements, sink)
			case *ast.IntegrityConstraints:
				d.Statements = inlineCalls(modules, info, d.Statements, sink)
			}
		}
	}
}

// unrollStmts unrolls every comprehension statement in stmts, threading env
// (let-bound locals currently in scope) through the walk.
func unrollStmts(info *sema.ModuleInfo, env substEnv, stmts []ast.Statement, sink *diag.Sink) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, unrollStmt(info, env, s, sink)...)
	}

	return out
}

func unrollStmt(info *sema.ModuleInfo, outer substEnv, s ast.Statement, sink *diag.Sink) []ast.Statement {
	switch st := s.(type) {
	case *ast.Let:
		value := expand(info, outer, st.Value, sink)
		env := childEnv(outer)
		env[st.Name.Text()] = value

		return []ast.Statement{ast.NewLet(st.Name, value, unrollStmts(info, env, st.Body, sink), st.Span())}
	case *ast.Enforce:
		lhs := expand(info, outer, st.LHS, sink)
		rhs := expand(info, outer, st.RHS, sink)

		if st.When != nil {
			lhs, rhs = applyGuard(lhs, rhs, expand(info, outer, st.When, sink), st.Span())
		}

		return []ast.Statement{ast.NewEnforce(lhs, rhs, st.Span())}
	case *ast.EnforceComprehension:
		n, ok := commonLength(info, outer, st.Bindings, st.Span(), sink)
		if !ok {
			return nil
		}

		out := make([]ast.Statement, 0, n)
		for i := 0; i < n; i++ {
			env := bindIteration(info, outer, st.Bindings, i, st.Span())
			lhs := expand(info, env, st.LHS, sink)
			rhs := expand(info, env, st.RHS, sink)

			if st.When != nil {
				lhs, rhs = applyGuard(lhs, rhs, expand(info, env, st.When, sink), st.Span())
			}

			out = append(out, ast.NewEnforce(lhs, rhs, st.Span()))
		}

		return out
	case *ast.EnforceCall:
		args := make([]ast.Expr, len(st.Args))
		for i, a := range st.Args {
			args[i] = expand(info, outer, a, sink)
		}

		return []ast.Statement{ast.NewEnforceCall(st.Evaluator, args, st.Span())}
	default:
		return []ast.Statement{s}
	}
}

// expand returns e with every loop/let variable reference substituted per
// env, and every list comprehension reachable from e unrolled into an
// ExprList.
func expand(info *sema.ModuleInfo, env substEnv, e ast.Expr, sink *diag.Sink) ast.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.ConstScalar, *ast.ConstVector, *ast.ConstMatrix:
		return e
	case *ast.SymbolAccess:
		if repl, ok := env[v.Name.Text()]; ok {
			return repl
		}

		return v
	case *ast.BinaryExpr:
		return ast.NewBinaryExpr(v.Op, expand(info, env, v.LHS, sink), expand(info, env, v.RHS, sink), v.Span())
	case *ast.Exp:
		return ast.NewExp(expand(info, env, v.Base, sink), expand(info, env, v.Exponent, sink), v.Span())
	case *ast.ListFolding:
		return ast.NewListFolding(v.Op, expand(info, env, v.List, sink), v.Span())
	case *ast.ListComprehension:
		return unrollComprehensionExpr(info, env, v, sink)
	case *ast.ExprList:
		items := make([]ast.Expr, len(v.Items))
		for i, it := range v.Items {
			items[i] = expand(info, env, it, sink)
		}

		return ast.NewExprList(items, v.Span())
	default:
		return e
	}
}

func unrollComprehensionExpr(info *sema.ModuleInfo, outer substEnv, v *ast.ListComprehension, sink *diag.Sink) ast.Expr {
	n, ok := commonLength(info, outer, v.Bindings, v.Span(), sink)
	if !ok {
		return v
	}

	items := make([]ast.Expr, n)
	for i := 0; i < n; i++ {
		env := bindIteration(info, outer, v.Bindings, i, v.Span())
		items[i] = expand(info, env, v.Body, sink)
	}

	return ast.NewExprList(items, v.Span())
}

// bindIteration builds the substitution environment for the ith iteration of
// a comprehension's bindings, layered on top of outer.
func bindIteration(info *sema.ModuleInfo, outer substEnv, bindings []ast.ComprehensionBinding, i int, sp source.Span) substEnv {
	env := childEnv(outer)
	for _, b := range bindings {
		env[b.Name.Text()] = elementAt(info, outer, b.Iterable, i, sp)
	}

	return env
}

func commonLength(info *sema.ModuleInfo, env substEnv, bindings []ast.ComprehensionBinding, sp source.Span, sink *diag.Sink) (int, bool) {
	n := -1
	for _, b := range bindings {
		l, ok := lengthOf(info, env, b.Iterable, sp, sink)
		if !ok {
			return 0, false
		}

		if n == -1 {
			n = l
		} else if l != n {
			sink.Error(diag.KindInvalidComprehension, &sp, nil, "comprehension bindings range over mismatched lengths (%d vs %d)", n, l)
			return 0, false
		}
	}

	if n < 0 {
		n = 0
	}

	return n, true
}

func lengthOf(info *sema.ModuleInfo, env substEnv, it ast.Iterable, sp source.Span, sink *diag.Sink) (int, bool) {
	switch v := it.(type) {
	case *ast.IterRange:
		start, ok1 := literalScalar(v.Start)
		end, ok2 := literalScalar(v.End)

		if !ok1 || !ok2 {
			sink.Error(diag.KindInvalidComprehension, &sp, nil, "comprehension range bounds must reduce to constants")
			return 0, false
		}

		return int(end) - int(start), true
	case *ast.IterSlice:
		start, ok1 := literalScalar(v.Start)
		end, ok2 := literalScalar(v.End)

		if !ok1 || !ok2 {
			sink.Error(diag.KindInvalidComprehension, &sp, nil, "comprehension slice bounds must reduce to constants")
			return 0, false
		}

		return int(end) - int(start), true
	case *ast.IterIdentifier:
		n, ok := namedLength(info, env, v.Name.Text())
		if !ok {
			sink.Error(diag.KindInvalidComprehension, &sp, nil, "%q does not name a vector-shaped value", v.Name.Text())
		}

		return n, ok
	default:
		return 0, false
	}
}

func namedLength(info *sema.ModuleInfo, env substEnv, name string) (int, bool) {
	if e, ok := env[name]; ok {
		switch v := e.(type) {
		case *ast.ExprList:
			return len(v.Items), true
		case *ast.ConstVector:
			return len(v.Values), true
		default:
			return 0, false
		}
	}

	b, ok := info.Scope.Get(name)
	if !ok {
		return 0, false
	}

	switch b.Kind {
	case scope.TraceBindingKind:
		return int(b.Trace.Size), true
	case scope.ConstantBinding:
		if vec, ok := b.Value.(*ast.ConstVector); ok {
			return len(vec.Values), true
		}
	}

	return 0, false
}

// elementAt returns the expression denoting the ith element (0-based) of an
// iterable, given the environment its own name references (if any) resolve
// against.
func elementAt(info *sema.ModuleInfo, env substEnv, it ast.Iterable, i int, sp source.Span) ast.Expr {
	switch v := it.(type) {
	case *ast.IterRange:
		start, _ := literalScalar(v.Start)
		return ast.NewConstScalar(start+uint64(i), v.Span())
	case *ast.IterSlice:
		start, _ := literalScalar(v.Start)
		return namedElementAt(info, env, v.Name.Text(), uint(start)+uint(i), v.Span())
	case *ast.IterIdentifier:
		return namedElementAt(info, env, v.Name.Text(), uint(i), v.Span())
	default:
		return ast.NewConstScalar(0, sp)
	}
}

func namedElementAt(info *sema.ModuleInfo, env substEnv, name string, idx uint, sp source.Span) ast.Expr {
	if e, ok := env[name]; ok {
		switch v := e.(type) {
		case *ast.ExprList:
			return v.Items[idx]
		case *ast.ConstVector:
			return ast.NewConstScalar(v.Values[idx], sp)
		}
	}

	b, ok := info.Scope.Get(name)
	if !ok {
		return ast.NewConstScalar(0, sp)
	}

	switch b.Kind {
	case scope.TraceBindingKind:
		access := types.NewDefaultAccess()
		if b.Trace.Size > 1 {
			access = types.NewIndexAccess(idx)
		}

		return ast.NewSymbolAccess(ident.New(name), access, 0, sp)
	case scope.ConstantBinding:
		if vec, ok := b.Value.(*ast.ConstVector); ok {
			return ast.NewConstScalar(vec.Values[idx], sp)
		}
	}

	return ast.NewConstScalar(0, sp)
}

// applyGuard eliminates a `when cond` guard by multiplying cond into both
// sides of the constraint: `enf lhs = rhs when cond` becomes the
// unconditional `enf lhs*cond = rhs*cond`, which holds trivially wherever
// cond is 0 and is equivalent to the guarded form wherever cond is 1. This
// is the only place a guard is ever eliminated; pkg/air's ConstraintRoot
// carries no guard field, so none may survive past Inline.
func applyGuard(lhs, rhs, cond ast.Expr, sp source.Span) (ast.Expr, ast.Expr) {
	return ast.NewBinaryExpr(ast.OpMul, lhs, cond, sp), ast.NewBinaryExpr(ast.OpMul, rhs, cond, sp)
}

func literalScalar(e ast.Expr) (uint64, bool) {
	c, ok := e.(*ast.ConstScalar)
	if !ok {
		return 0, false
	}

	return c.Value, true
}

// inlineCalls replaces every EnforceCall reachable from stmts with a renamed
// clone of the callee's body, recursively inlining any nested call the
// callee itself makes.
func inlineCalls(modules map[string]*sema.ModuleInfo, info *sema.ModuleInfo, stmts []ast.Statement, sink *diag.Sink) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, inlineStmt(modules, info, s, sink)...)
	}

	return out
}

func inlineStmt(modules map[string]*sema.ModuleInfo, info *sema.ModuleInfo, s ast.Statement, sink *diag.Sink) []ast.Statement {
	switch st := s.(type) {
	case *ast.Let:
		st.Body = inlineCalls(modules, info, st.Body, sink)
		return []ast.Statement{st}
	case *ast.EnforceCall:
		return inlineCall(modules, info, st, sink)
	default:
		return []ast.Statement{s}
	}
}

func inlineCall(modules map[string]*sema.ModuleInfo, info *sema.ModuleInfo, call *ast.EnforceCall, sink *diag.Sink) []ast.Statement {
	name := call.Evaluator.Text()

	callee, ok := info.Evaluators[name]
	if !ok {
		span := call.Span()
		sink.Error(diag.KindUndeclaredEvaluator, &span, nil, "evaluator %q is not declared", name)

		return nil
	}

	calleeInfo := info
	if src, ok := info.EvaluatorSource[name]; ok {
		if m := modules[src.Text()]; m != nil {
			calleeInfo = m
		}
	}

	renames := make(map[string]ident.Identifier, len(callee.Params))
	for i, p := range callee.Params {
		if i >= len(call.Args) {
			break
		}

		if sym, ok := call.Args[i].(*ast.SymbolAccess); ok {
			renames[p.Name.Text()] = sym.Name
		}
	}

	cloned := make([]ast.Statement, len(callee.Body))
	for i, bs := range callee.Body {
		cloned[i] = renameStmt(bs, renames)
	}

	return inlineCalls(modules, calleeInfo, cloned, sink)
}

// renameStmt clones a statement tree, renaming every SymbolAccess/
// IterIdentifier/IterSlice occurrence of a formal parameter name to the
// actual argument's identifier, and leaving its access/row-offset/qualifier
// untouched - the actual argument names a group of the same size, so the
// occurrence's own access pattern carries over unchanged.
func renameStmt(s ast.Statement, renames map[string]ident.Identifier) ast.Statement {
	switch st := s.(type) {
	case *ast.Let:
		body := make([]ast.Statement, len(st.Body))
		for i, b := range st.Body {
			body[i] = renameStmt(b, renames)
		}

		return ast.NewLet(st.Name, renameExpr(st.Value, renames), body, st.Span())
	case *ast.Enforce:
		// st.When is always nil here: renameStmt only ever sees a callee body
		// that has already passed through unrollStmt, which eliminates every
		// guard before inlineCall clones the body.
		return ast.NewEnforce(renameExpr(st.LHS, renames), renameExpr(st.RHS, renames), st.Span())
	case *ast.EnforceCall:
		args := make([]ast.Expr, len(st.Args))
		for i, a := range st.Args {
			args[i] = renameExpr(a, renames)
		}

		return ast.NewEnforceCall(st.Evaluator, args, st.Span())
	default:
		return s
	}
}

func renameExpr(e ast.Expr, renames map[string]ident.Identifier) ast.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.ConstScalar, *ast.ConstVector, *ast.ConstMatrix:
		return e
	case *ast.SymbolAccess:
		newName, ok := renames[v.Name.Text()]
		if !ok {
			return v
		}

		renamed := ast.NewSymbolAccess(newName, v.Access, v.RowOffset, v.Span())
		if v.Qualifier != ast.None {
			renamed = renamed.WithQualifier(v.Qualifier)
		}

		return renamed
	case *ast.BinaryExpr:
		return ast.NewBinaryExpr(v.Op, renameExpr(v.LHS, renames), renameExpr(v.RHS, renames), v.Span())
	case *ast.Exp:
		return ast.NewExp(renameExpr(v.Base, renames), renameExpr(v.Exponent, renames), v.Span())
	case *ast.ListFolding:
		return ast.NewListFolding(v.Op, renameExpr(v.List, renames), v.Span())
	case *ast.ListComprehension:
		bindings := make([]ast.ComprehensionBinding, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = ast.ComprehensionBinding{Name: b.Name, Iterable: renameIterable(b.Iterable, renames)}
		}

		return ast.NewListComprehension(renameExpr(v.Body, renames), bindings, v.Span())
	case *ast.ExprList:
		items := make([]ast.Expr, len(v.Items))
		for i, it := range v.Items {
			items[i] = renameExpr(it, renames)
		}

		return ast.NewExprList(items, v.Span())
	default:
		return e
	}
}

func renameIterable(it ast.Iterable, renames map[string]ident.Identifier) ast.Iterable {
	switch v := it.(type) {
	case *ast.IterIdentifier:
		if newName, ok := renames[v.Name.Text()]; ok {
			return ast.NewIterIdentifier(newName, v.Span())
		}

		return v
	case *ast.IterRange:
		return ast.NewIterRange(renameExpr(v.Start, renames), renameExpr(v.End, renames), v.Span())
	case *ast.IterSlice:
		name := v.Name
		if newName, ok := renames[v.Name.Text()]; ok {
			name = newName
		}

		return ast.NewIterSlice(name, renameExpr(v.Start, renames), renameExpr(v.End, renames), v.Span())
	default:
		return it
	}
}
