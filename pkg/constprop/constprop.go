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

// Package constprop walks a circuit's AST folding constant expressions:
// substituting constant-bound identifiers with their literal values,
// evaluating binary operations over two literals, and reducing
// comprehension range endpoints to literals. Folding uses arbitrary-width
// naturals (math/big) rather than wrapping u64 arithmetic, matching
// spec.md §4.4; the final result of every fold is cast to u64 before
// being stored back in the AST.
package constprop

import (
	"math/big"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/scope"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
)

// u64Mod is 2^64, the modulus a folded natural is reduced by before being
// stored back as a uint64 literal.
var u64Mod = new(big.Int).Lsh(big.NewInt(1), 64)

// Propagate folds constant expressions throughout every module of circuit,
// in place, consulting each module's analyzed scope (as built by
// pkg/sema) to resolve constant-bound identifiers. Constants defined
// inside a comprehension are loop variables, not true constants, and are
// never substituted by this pass - only pkg/inline's unrolling resolves
// them, per spec.md §4.4.
func Propagate(circuit *ast.Circuit, modules map[string]*sema.ModuleInfo, sink *diag.Sink) {
	for _, mod := range circuit.Modules {
		info := modules[mod.Name.Text()]
		if info == nil {
			continue
		}

		for _, decl := range mod.Declarations {
			foldDecl(info, decl, sink)
		}
	}
}

func foldDecl(info *sema.ModuleInfo, decl ast.Declaration, sink *diag.Sink) {
	switch d := decl.(type) {
	case *ast.DeclareConstant:
		d.Value = foldExpr(info, d.Value, sink)
		info.Scope.Insert(d.Name.Text(), scope.NewConstantBinding(bindingTypeOf(d.Value), d.Value))
	case *ast.DeclareEvaluator:
		for _, s := range d.Body {
			foldStmt(info, s, sink)
		}
	case *ast.BoundaryConstraints:
		for _, s := range d.Statements {
			foldStmt(info, s, sink)
		}
	case *ast.IntegrityConstraints:
		for _, s := range d.Statements {
			foldStmt(info, s, sink)
		}
	}
}

// bindingTypeOf returns the simplest accurate scope binding type for a
// freshly-folded constant value, mirroring pkg/sema's inferLiteralType for
// the literal shapes folding can actually produce.
func bindingTypeOf(e ast.Expr) types.Type {
	switch v := e.(type) {
	case *ast.ConstVector:
		return types.NewVector(uint(len(v.Values)))
	case *ast.ConstMatrix:
		if len(v.Rows) == 0 {
			return types.NewFelt()
		}

		return types.NewMatrix(uint(len(v.Rows)), uint(len(v.Rows[0])))
	default:
		return types.NewFelt()
	}
}

func foldStmt(info *sema.ModuleInfo, s ast.Statement, sink *diag.Sink) {
	switch st := s.(type) {
	case *ast.Let:
		st.Value = foldExpr(info, st.Value, sink)
		for _, b := range st.Body {
			foldStmt(info, b, sink)
		}
	case *ast.Enforce:
		st.LHS = foldExpr(info, st.LHS, sink)
		st.RHS = foldExpr(info, st.RHS, sink)
		if st.When != nil {
			st.When = foldExpr(info, st.When, sink)
		}
	case *ast.EnforceComprehension:
		st.LHS = foldExpr(info, st.LHS, sink)
		st.RHS = foldExpr(info, st.RHS, sink)

		if st.When != nil {
			st.When = foldExpr(info, st.When, sink)
		}

		for i := range st.Bindings {
			foldIterable(info, st.Bindings[i].Iterable, sink)
		}
	case *ast.EnforceCall:
		for i, a := range st.Args {
			st.Args[i] = foldExpr(info, a, sink)
		}
	}
}

func foldIterable(info *sema.ModuleInfo, it ast.Iterable, sink *diag.Sink) {
	switch v := it.(type) {
	case *ast.IterRange:
		v.Start = foldExpr(info, v.Start, sink)
		v.End = foldExpr(info, v.End, sink)
	case *ast.IterSlice:
		v.Start = foldExpr(info, v.Start, sink)
		v.End = foldExpr(info, v.End, sink)
	}
}

// foldExpr returns the folded form of e, recursing into subexpressions
// first so that folding proceeds bottom-up.
func foldExpr(info *sema.ModuleInfo, e ast.Expr, sink *diag.Sink) ast.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.ConstScalar, *ast.ConstVector, *ast.ConstMatrix:
		return e
	case *ast.SymbolAccess:
		return foldSymbolAccess(info, v)
	case *ast.BinaryExpr:
		v.LHS = foldExpr(info, v.LHS, sink)
		v.RHS = foldExpr(info, v.RHS, sink)

		l, lok := asScalar(v.LHS)
		r, rok := asScalar(v.RHS)
		if !lok || !rok {
			return v
		}

		folded, ok := foldBinary(v.Op, l, r)
		if !ok {
			return v
		}

		return ast.NewConstScalar(natToU64(folded), v.Span())
	case *ast.Exp:
		v.Base = foldExpr(info, v.Base, sink)
		v.Exponent = foldExpr(info, v.Exponent, sink)

		if _, ok := v.Exponent.(*ast.ConstScalar); !ok {
			span := v.Span()
			sink.Error(diag.KindNonConstantExponent, &span, nil, "exponent of `^` must reduce to a constant")
		}

		return v
	case *ast.ListFolding:
		v.List = foldExpr(info, v.List, sink)
		return v
	case *ast.ListComprehension:
		for i := range v.Bindings {
			foldIterable(info, v.Bindings[i].Iterable, sink)
		}

		v.Body = foldExpr(info, v.Body, sink)

		return v
	default:
		return e
	}
}

// foldSymbolAccess substitutes a reference to a constant binding with the
// literal value (or sub-literal, for an indexed access) it denotes.
// References to any other binding kind, and constant accesses that do not
// reduce to a single element (e.g. a bare reference to a whole constant
// vector), are left untouched for pkg/lower to resolve directly.
func foldSymbolAccess(info *sema.ModuleInfo, v *ast.SymbolAccess) ast.Expr {
	b, ok := info.Scope.Get(v.Name.Text())
	if !ok || b.Kind != scope.ConstantBinding {
		return v
	}

	resolved, err := scope.GetValue(v.Name.Text(), b, v.Access, v.RowOffset)
	if err != nil || resolved.Kind != scope.ResolvedConstant {
		return v
	}

	return ast.NewConstScalar(resolved.Constant, v.Span())
}

// asScalar returns the big.Int value of e if it is a scalar literal.
func asScalar(e ast.Expr) (*big.Int, bool) {
	c, ok := e.(*ast.ConstScalar)
	if !ok {
		return nil, false
	}

	return new(big.Int).SetUint64(c.Value), true
}

// foldBinary evaluates op over the arbitrary-width naturals l and r.
// Subtraction that would go negative is left unfolded: the compiler core
// is field-agnostic at this stage and does not know the modulus a
// negative result should wrap around, so the expression is passed through
// for the backend's field arithmetic to evaluate instead.
func foldBinary(op ast.BinOp, l, r *big.Int) (*big.Int, bool) {
	switch op {
	case ast.OpAdd:
		return new(big.Int).Add(l, r), true
	case ast.OpSub:
		if l.Cmp(r) < 0 {
			return nil, false
		}

		return new(big.Int).Sub(l, r), true
	case ast.OpMul:
		return new(big.Int).Mul(l, r), true
	default:
		return nil, false
	}
}

// natToU64 reduces n modulo 2^64, matching spec.md §4.4's "targets receive
// them as u64" rule.
func natToU64(n *big.Int) uint64 {
	reduced := new(big.Int).Mod(n, u64Mod)
	return reduced.Uint64()
}
