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
package constprop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/constprop"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

var span = source.Span{}

func analyzedCircuit(t *testing.T, build func(root *ast.Module)) (*ast.Circuit, *sema.Result) {
	t.Helper()

	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
	root.Add(ast.NewDeclarePublicInputs(nil, span))

	build(root)
	circuit.AddModule(root)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
	require.NotNil(t, result)

	return circuit, result
}

func TestPropagateFoldsBinaryOverConstants(t *testing.T) {
	circuit, result := analyzedCircuit(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareConstant(ident.New("A"), ast.NewConstScalar(3, span), span))
		root.Add(ast.NewDeclareConstant(ident.New("B"), ast.NewConstScalar(4, span), span))
		root.Add(ast.NewDeclareConstant(ident.New("SUM"), ast.NewBinaryExpr(ast.OpAdd,
			ast.NewSymbolAccess(ident.New("A"), types.NewDefaultAccess(), 0, span),
			ast.NewSymbolAccess(ident.New("B"), types.NewDefaultAccess(), 0, span),
			span), span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(1, span), span),
		}, span))
	})

	sink := diag.NewSink()
	constprop.Propagate(circuit, result.Modules, sink)

	require.False(t, sink.HasErrors())

	sumDecl := findConstant(circuit, "SUM")
	lit, ok := sumDecl.Value.(*ast.ConstScalar)
	require.True(t, ok, "expected SUM to fold to a scalar literal, got %T", sumDecl.Value)
	assert.Equal(t, uint64(7), lit.Value)
}

func TestPropagateSubstitutesConstantReference(t *testing.T) {
	circuit, result := analyzedCircuit(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareConstant(ident.New("ONE"), ast.NewConstScalar(1, span), span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(
				ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span),
				ast.NewSymbolAccess(ident.New("ONE"), types.NewDefaultAccess(), 0, span),
				span,
			),
		}, span))
	})

	sink := diag.NewSink()
	constprop.Propagate(circuit, result.Modules, sink)
	require.False(t, sink.HasErrors())

	integrity := findIntegrity(circuit)
	enf := integrity.Statements[0].(*ast.Enforce)
	lit, ok := enf.RHS.(*ast.ConstScalar)
	require.True(t, ok, "expected RHS to fold to a literal, got %T", enf.RHS)
	assert.Equal(t, uint64(1), lit.Value)
}

func TestPropagateLeavesSubUnfoldedOnUnderflow(t *testing.T) {
	circuit, result := analyzedCircuit(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareConstant(ident.New("DIFF"), ast.NewBinaryExpr(ast.OpSub,
			ast.NewConstScalar(1, span), ast.NewConstScalar(2, span), span), span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(0, span), span),
		}, span))
	})

	sink := diag.NewSink()
	constprop.Propagate(circuit, result.Modules, sink)
	require.False(t, sink.HasErrors())

	diffDecl := findConstant(circuit, "DIFF")
	_, isBinary := diffDecl.Value.(*ast.BinaryExpr)
	assert.True(t, isBinary, "expected unfolded binary expr, got %T", diffDecl.Value)
}

func TestPropagateRejectsNonConstantExponent(t *testing.T) {
	circuit, result := analyzedCircuit(t, func(root *ast.Module) {
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(
				ast.NewExp(
					ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span),
					ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), 0, span),
					span,
				),
				ast.NewConstScalar(0, span),
				span,
			),
		}, span))
	})

	sink := diag.NewSink()
	constprop.Propagate(circuit, result.Modules, sink)

	assert.True(t, sink.HasErrors())
}

func findConstant(circuit *ast.Circuit, name string) *ast.DeclareConstant {
	root := circuit.RootModule()
	for _, decl := range root.Declarations {
		if c, ok := decl.(*ast.DeclareConstant); ok && c.Name.Text() == name {
			return c
		}
	}

	return nil
}

func findIntegrity(circuit *ast.Circuit) *ast.IntegrityConstraints {
	root := circuit.RootModule()
	for _, decl := range root.Declarations {
		if c, ok := decl.(*ast.IntegrityConstraints); ok {
			return c
		}
	}

	return nil
}
