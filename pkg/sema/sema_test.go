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
package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/library"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

var span = source.Span{}

func clk() ident.Identifier { return ident.New("clk") }

// validCircuit builds a minimal but complete root module: one main-segment
// trace column, one constant, public inputs, and boundary/integrity
// sections that reference both.
func validCircuit() *ast.Circuit {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)

	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: clk(), Size: 1}}, span))
	root.Add(ast.NewDeclarePublicInputs([]ast.PublicInputBinding{{Name: ident.New("stack_inputs"), Size: 4}}, span))
	root.Add(ast.NewDeclareConstant(ident.New("ONE"), ast.NewConstScalar(1, span), span))

	clkAccess := ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span)
	oneAccess := ast.NewSymbolAccess(ident.New("ONE"), types.NewDefaultAccess(), 0, span)

	root.Add(ast.NewBoundaryConstraints([]ast.Statement{
		ast.NewEnforce(clkAccess, ast.NewConstScalar(0, span), span),
	}, span))
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforce(clkAccess, oneAccess, span),
	}, span))

	circuit.AddModule(root)

	return circuit
}

func TestAnalyzeValidCircuit(t *testing.T) {
	sink := diag.NewSink()
	result := sema.Analyze(validCircuit(), nil, sink)

	require.False(t, sink.HasErrors())
	require.NotNil(t, result)
	assert.Equal(t, []uint{1}, result.TraceSegmentWidths)
	assert.Len(t, result.PublicInputs, 1)
	assert.True(t, result.Reachable[rootQualified("ONE").String()])
}

func TestAnalyzeMissingRequiredSection(t *testing.T) {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: clk(), Size: 1}}, span))
	circuit.AddModule(root)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	assert.True(t, sink.HasErrors())
	assert.Nil(t, result)

	var sawMissing bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.KindMissingRequiredSection {
			sawMissing = true
		}
	}
	assert.True(t, sawMissing)
}

func TestAnalyzeUnknownIdentifier(t *testing.T) {
	circuit := validCircuit()
	root := circuit.Modules["root"]
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforce(
			ast.NewSymbolAccess(ident.New("ghost"), types.NewDefaultAccess(), 0, span),
			ast.NewConstScalar(0, span),
			span,
		),
	}, span))

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	assert.True(t, sink.HasErrors())
	assert.Nil(t, result)
}

func TestAnalyzeDuplicateIdentifier(t *testing.T) {
	circuit := validCircuit()
	root := circuit.Modules["root"]
	root.Add(ast.NewDeclareConstant(ident.New("ONE"), ast.NewConstScalar(2, span), span))

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	assert.True(t, sink.HasErrors())
	assert.Nil(t, result)
}

func TestAnalyzeSectionInWrongModule(t *testing.T) {
	circuit := validCircuit()

	libMod := ast.NewModule(ident.New("helpers"), false, span)
	libMod.Add(ast.NewBoundaryConstraints(nil, span))
	circuit.AddModule(libMod)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	assert.True(t, sink.HasErrors())
	assert.Nil(t, result)
}

func TestAnalyzeImportedEvaluatorResolvesAndEdgeRecorded(t *testing.T) {
	libName := ident.New("helpers")
	evalName := ident.New("is_binary")

	evalBody := []ast.Statement{
		ast.NewEnforce(
			ast.NewSymbolAccess(ident.New("x"), types.NewDefaultAccess(), 0, span),
			ast.NewBinaryExpr(ast.OpMul,
				ast.NewSymbolAccess(ident.New("x"), types.NewDefaultAccess(), 0, span),
				ast.NewSymbolAccess(ident.New("x"), types.NewDefaultAccess(), 0, span),
				span),
			span,
		),
	}
	evaluator := ast.NewDeclareEvaluator(evalName, []ast.EvaluatorParam{{Name: ident.New("x"), Segment: 0, Size: 1}}, evalBody, span)

	lib := library.NewStaticLibrary(library.NewStaticModule(libName, library.Export{
		Kind:      library.Evaluator,
		Name:      evalName,
		Evaluator: evaluator,
	}))

	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: clk(), Size: 1}}, span))
	root.Add(ast.NewDeclarePublicInputs([]ast.PublicInputBinding{{Name: ident.New("stack_inputs"), Size: 4}}, span))
	root.Add(ast.NewItemUse(libName, evalName, span))
	root.Add(ast.NewBoundaryConstraints([]ast.Statement{
		ast.NewEnforce(ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span), ast.NewConstScalar(0, span), span),
	}, span))
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforceCall(evalName, []ast.Expr{
			ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span),
		}, span),
	}, span))
	circuit.AddModule(root)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, lib, sink)

	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
	require.NotNil(t, result)

	assert.True(t, result.Reachable[ident.NewQualified(libName, evalName).String()])
}

func TestAnalyzeUndeclaredEvaluator(t *testing.T) {
	circuit := validCircuit()
	root := circuit.Modules["root"]
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforceCall(ident.New("nope"), []ast.Expr{
			ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span),
		}, span),
	}, span))

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	assert.True(t, sink.HasErrors())
	assert.Nil(t, result)
}

func TestAnalyzePeriodicColumnInBoundaryContextIsRejected(t *testing.T) {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: clk(), Size: 1}}, span))
	root.Add(ast.NewDeclarePublicInputs(nil, span))
	root.Add(ast.NewDeclarePeriodicColumns([]ast.PeriodicColumnBinding{
		{Name: ident.New("k"), Values: []uint64{0, 1}},
	}, span))

	clkAccess := ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span).WithQualifier(ast.First)
	kAccess := ast.NewSymbolAccess(ident.New("k"), types.NewDefaultAccess(), 0, span)

	root.Add(ast.NewBoundaryConstraints([]ast.Statement{
		ast.NewEnforce(clkAccess, kAccess, span),
	}, span))
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforce(
			ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span),
			ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span),
			span,
		),
	}, span))
	circuit.AddModule(root)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	require.True(t, sink.HasErrors())
	require.Nil(t, result)

	var found bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.KindInvalidConstraint {
			found = true
		}
	}
	assert.True(t, found, "expected a KindInvalidConstraint diagnostic for the periodic column read in a boundary constraint")
}

func TestAnalyzePublicInputInIntegrityContextIsRejected(t *testing.T) {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: clk(), Size: 1}}, span))
	root.Add(ast.NewDeclarePublicInputs([]ast.PublicInputBinding{{Name: ident.New("stack_inputs"), Size: 4}}, span))

	clkAccess := ast.NewSymbolAccess(clk(), types.NewDefaultAccess(), 0, span)
	stackAccess := ast.NewSymbolAccess(ident.New("stack_inputs"), types.NewIndexAccess(0), 0, span)

	root.Add(ast.NewBoundaryConstraints([]ast.Statement{
		ast.NewEnforce(clkAccess.WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
	}, span))
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforce(clkAccess, stackAccess, span),
	}, span))
	circuit.AddModule(root)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)

	require.True(t, sink.HasErrors())
	require.Nil(t, result)

	var found bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.KindInvalidConstraint {
			found = true
		}
	}
	assert.True(t, found, "expected a KindInvalidConstraint diagnostic for the public input read in an integrity constraint")
}

func rootQualified(name string) ident.QualifiedIdentifier {
	return ident.NewQualified(ident.New("root"), ident.New(name))
}
