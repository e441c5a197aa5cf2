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
package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/compiler"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

var span = source.Span{}

func clk(rowOffset uint) *ast.SymbolAccess {
	return ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), rowOffset, span)
}

func fibCircuit() *ast.Circuit {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)

	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{
		{Name: ident.New("clk"), Size: 1},
		{Name: ident.New("v"), Size: 2},
	}, span))
	root.Add(ast.NewDeclarePublicInputs(nil, span))
	root.Add(ast.NewBoundaryConstraints([]ast.Statement{
		ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
	}, span))
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforce(clk(1), ast.NewBinaryExpr(ast.OpAdd, clk(0), ast.NewConstScalar(1, span), span), span),
	}, span))

	circuit.AddModule(root)

	return circuit
}

func TestCompileProducesAir(t *testing.T) {
	out, diags := compiler.Compile(fibCircuit())
	require.NotNil(t, out, "%v", diags)

	assert.Equal(t, "root", out.Name())
	assert.Len(t, out.BoundaryConstraints(0), 1)
	assert.Len(t, out.IntegrityConstraints(0), 1)
}

func TestCompileIsDeterministic(t *testing.T) {
	a, diagsA := compiler.Compile(fibCircuit())
	b, diagsB := compiler.Compile(fibCircuit())
	require.NotNil(t, a, "%v", diagsA)
	require.NotNil(t, b, "%v", diagsB)

	assert.Equal(t, a.Graph().Len(), b.Graph().Len(), "compiling the same circuit twice must produce the same graph shape")
	assert.Equal(t, len(a.BoundaryConstraints(0)), len(b.BoundaryConstraints(0)))
	assert.Equal(t, len(a.IntegrityConstraints(0)), len(b.IntegrityConstraints(0)))
}

func TestCompileStopsAtFirstFailingPass(t *testing.T) {
	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)
	root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
	root.Add(ast.NewDeclarePublicInputs(nil, span))
	root.Add(ast.NewBoundaryConstraints([]ast.Statement{
		ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
	}, span))
	root.Add(ast.NewIntegrityConstraints([]ast.Statement{
		ast.NewEnforce(clk(0), ast.NewSymbolAccess(ident.New("undeclared"), types.NewDefaultAccess(), 0, span), span),
	}, span))
	circuit.AddModule(root)

	out, diags := compiler.Compile(circuit)
	require.Nil(t, out)
	require.NotEmpty(t, diags)

	var found bool
	for _, d := range diags {
		if d.Kind == diag.KindUnknownIdentifier {
			found = true
		}
	}
	assert.True(t, found, "expected a KindUnknownIdentifier diagnostic")
}

func TestCompileWithDebugLoggingDoesNotAlterResult(t *testing.T) {
	c := compiler.New(fibCircuit(), nil, compiler.Config{Debug: true})
	out, diags := c.Compile()
	require.NotNil(t, out, "%v", diags)
	assert.IsType(t, &air.Air{}, out)
}
