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
package main

import (
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// scenario names one of the literal circuits this demo CLI can build and
// compile, standing in for concrete source text since no parser exists in
// this core.
type scenario struct {
	Name        string
	Description string
	Build       func() *ast.Circuit
}

var span = source.Span{}

func sym(name string, access types.AccessType, rowOffset uint) *ast.SymbolAccess {
	return ast.NewSymbolAccess(ident.New(name), access, rowOffset, span)
}

func def(name string, rowOffset uint) *ast.SymbolAccess {
	return sym(name, types.NewDefaultAccess(), rowOffset)
}

func lit(v uint64) *ast.ConstScalar {
	return ast.NewConstScalar(v, span)
}

func newRootCircuit(decls ...ast.Declaration) *ast.Circuit {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)

	for _, d := range decls {
		root.Add(d)
	}

	circuit.AddModule(root)

	return circuit
}

var scenarios = []scenario{
	{
		Name:        "s1",
		Description: "clk increments by one",
		Build: func() *ast.Circuit {
			return newRootCircuit(
				ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span),
				ast.NewDeclarePublicInputs([]ast.PublicInputBinding{{Name: ident.New("stack"), Size: 16}}, span),
				ast.NewBoundaryConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 0).WithQualifier(ast.First), lit(0), span),
				}, span),
				ast.NewIntegrityConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 1), ast.NewBinaryExpr(ast.OpAdd, def("clk", 0), lit(1), span), span),
				}, span),
			)
		},
	},
	{
		Name:        "s2",
		Description: "periodic column yields correct cycle",
		Build: func() *ast.Circuit {
			return newRootCircuit(
				ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span),
				ast.NewDeclarePublicInputs(nil, span),
				ast.NewDeclarePeriodicColumns([]ast.PeriodicColumnBinding{
					{Name: ident.New("k"), Values: []uint64{1, 0, 0, 0}},
				}, span),
				ast.NewBoundaryConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 0).WithQualifier(ast.First), lit(0), span),
				}, span),
				ast.NewIntegrityConstraints([]ast.Statement{
					ast.NewEnforce(ast.NewBinaryExpr(ast.OpMul, def("k", 0), def("clk", 0), span), lit(0), span),
				}, span),
			)
		},
	},
	{
		Name:        "s3",
		Description: "evaluator inlining produces the same Air as s1",
		Build: func() *ast.Circuit {
			return newRootCircuit(
				ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span),
				ast.NewDeclarePublicInputs([]ast.PublicInputBinding{{Name: ident.New("stack"), Size: 16}}, span),
				ast.NewDeclareEvaluator(ident.New("advance"), []ast.EvaluatorParam{{Name: ident.New("clk"), Segment: 0, Size: 1}},
					[]ast.Statement{
						ast.NewEnforce(def("clk", 1), ast.NewBinaryExpr(ast.OpAdd, def("clk", 0), lit(1), span), span),
					}, span),
				ast.NewBoundaryConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 0).WithQualifier(ast.First), lit(0), span),
				}, span),
				ast.NewIntegrityConstraints([]ast.Statement{
					ast.NewEnforceCall(ident.New("advance"), []ast.Expr{def("clk", 0)}, span),
				}, span),
			)
		},
	},
	{
		Name:        "s4",
		Description: "list comprehension expands and folds",
		Build: func() *ast.Circuit {
			comprehension := ast.NewListComprehension(
				def("x", 0),
				[]ast.ComprehensionBinding{{Name: ident.New("x"), Iterable: ast.NewIterIdentifier(ident.New("b"), span)}},
				span,
			)
			folding := ast.NewListFolding(ast.Sum, comprehension, span)

			return newRootCircuit(
				ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{
					{Name: ident.New("a"), Size: 1},
					{Name: ident.New("b"), Size: 3},
					{Name: ident.New("c"), Size: 4},
				}, span),
				ast.NewDeclarePublicInputs(nil, span),
				ast.NewBoundaryConstraints([]ast.Statement{
					ast.NewEnforce(def("a", 0).WithQualifier(ast.First), lit(0), span),
				}, span),
				ast.NewIntegrityConstraints([]ast.Statement{
					ast.NewEnforce(def("a", 0), folding, span),
				}, span),
			)
		},
	},
	{
		Name:        "s5",
		Description: "duplicate boundary constraint is rejected",
		Build: func() *ast.Circuit {
			return newRootCircuit(
				ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span),
				ast.NewDeclarePublicInputs(nil, span),
				ast.NewBoundaryConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 0).WithQualifier(ast.First), lit(0), span),
					ast.NewEnforce(def("clk", 0).WithQualifier(ast.First), lit(1), span),
				}, span),
				ast.NewIntegrityConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 1), def("clk", 0), span),
				}, span),
			)
		},
	},
	{
		Name:        "s6",
		Description: "random value forces aux segment",
		Build: func() *ast.Circuit {
			return newRootCircuit(
				ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span),
				ast.NewDeclareTraceColumns(1, []ast.TraceColumnBinding{{Name: ident.New("p"), Size: 1}}, span),
				ast.NewDeclarePublicInputs(nil, span),
				ast.NewDeclareRandomValues(ident.New("alphas"), 16, span),
				ast.NewBoundaryConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 0).WithQualifier(ast.First), lit(0), span),
					ast.NewEnforce(
						def("p", 0).WithQualifier(ast.First),
						sym("alphas", types.NewIndexAccess(0), 0),
						span,
					),
				}, span),
				ast.NewIntegrityConstraints([]ast.Statement{
					ast.NewEnforce(def("clk", 1), ast.NewBinaryExpr(ast.OpAdd, def("clk", 0), lit(1), span), span),
				}, span),
			)
		},
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}

	return scenario{}, false
}
