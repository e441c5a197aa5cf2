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
package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/constprop"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/inline"
	"github.com/0xPolygonMiden/airscript-go/pkg/lower"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

var span = source.Span{}

func compile(t *testing.T, build func(root *ast.Module)) (*air.Air, *diag.Sink) {
	t.Helper()

	rootName := ident.New("root")
	circuit := ast.NewCircuit(rootName)
	root := ast.NewModule(rootName, true, span)

	build(root)
	circuit.AddModule(root)

	sink := diag.NewSink()
	result := sema.Analyze(circuit, nil, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
	require.NotNil(t, result)

	constprop.Propagate(circuit, result.Modules, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	inline.Inline(circuit, result.Modules, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	out := lower.Lower(circuit, result.Modules, result, sink)

	return out, sink
}

func clk(rowOffset uint) *ast.SymbolAccess {
	return ast.NewSymbolAccess(ident.New("clk"), types.NewDefaultAccess(), rowOffset, span)
}

func TestLowerBoundaryAndIntegrityConstraints(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(clk(1), ast.NewBinaryExpr(ast.OpAdd, clk(0), ast.NewConstScalar(1, span), span), span),
		}, span))
	})
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
	require.NotNil(t, out)

	require.Equal(t, 1, out.NumSegments())

	boundary := out.BoundaryConstraints(0)
	require.Len(t, boundary, 1)
	assert.Equal(t, air.FirstRow, boundary[0].Domain.Kind)
	assert.Equal(t, air.OpSub, out.Graph().Node(boundary[0].Node).Op.Kind)

	integrity := out.IntegrityConstraints(0)
	require.Len(t, integrity, 1)
	assert.Equal(t, air.EveryFrame, integrity[0].Domain.Kind)
	assert.Equal(t, uint(2), integrity[0].Domain.FrameSize)
}

func TestLowerGuardedConstraintMultipliesSelectorIntoBothSides(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{
			{Name: ident.New("s"), Size: 1},
			{Name: ident.New("clk"), Size: 1},
		}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforceWhen(clk(1), clk(0), ast.NewSymbolAccess(ident.New("s"), types.NewDefaultAccess(), 0, span), span),
		}, span))
	})
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	integrity := out.IntegrityConstraints(0)
	require.Len(t, integrity, 1)

	graph := out.Graph()
	root := graph.Node(integrity[0].Node)
	require.Equal(t, air.OpSub, root.Op.Kind)

	lhs := graph.Node(root.Op.Left)
	rhs := graph.Node(root.Op.Right)
	assert.Equal(t, air.OpMul, lhs.Op.Kind, "guard must be multiplied into the lhs")
	assert.Equal(t, air.OpMul, rhs.Op.Kind, "guard must be multiplied into the rhs")
}

func TestLowerListFoldingSumsBareTraceGroup(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{
			{Name: ident.New("v"), Size: 3},
			{Name: ident.New("clk"), Size: 1},
		}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(clk(0), ast.NewListFolding(ast.Sum,
				ast.NewSymbolAccess(ident.New("v"), types.NewDefaultAccess(), 0, span), span), span),
		}, span))
	})
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	integrity := out.IntegrityConstraints(0)
	require.Len(t, integrity, 1)

	graph := out.Graph()
	root := graph.Node(integrity[0].Node)
	require.Equal(t, air.OpSub, root.Op.Kind)

	sum := graph.Node(root.Op.Right)
	require.Equal(t, air.OpAdd, sum.Op.Kind, "sum(v) over a 3-column group must fold into two Add nodes")
}

func TestLowerDuplicateBoundaryConstraintIsRejected(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(1, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(clk(0), clk(0), span),
		}, span))
	})

	require.True(t, sink.HasErrors())

	var found bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.KindBoundaryAlreadyConstrained {
			found = true
		}
	}
	assert.True(t, found, "expected a KindBoundaryAlreadyConstrained diagnostic")
	assert.Len(t, out.BoundaryConstraints(0), 1, "the second, conflicting constraint must not be registered")
}

func TestLowerTraceSegmentMismatchIsRejected(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
		root.Add(ast.NewDeclareTraceColumns(1, []ast.TraceColumnBinding{{Name: ident.New("aux"), Size: 1}}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(clk(0), ast.NewSymbolAccess(ident.New("aux"), types.NewDefaultAccess(), 0, span), span),
		}, span))
	})

	require.True(t, sink.HasErrors())

	var found bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.KindTraceSegmentMismatch {
			found = true
		}
	}
	assert.True(t, found, "expected a KindTraceSegmentMismatch diagnostic")
	assert.Empty(t, out.IntegrityConstraints(0), "the mismatched constraint must not be registered")
}

func TestLowerRandomValueConstraintLandsInAuxSegment(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
		root.Add(ast.NewDeclareTraceColumns(1, []ast.TraceColumnBinding{{Name: ident.New("aux"), Size: 1}}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewDeclareRandomValues(ident.New("rand"), 1, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			// Only clk (segment 0) is read directly; rand alone is what
			// pushes this constraint's inferred segment to 1.
			ast.NewEnforce(
				clk(0),
				ast.NewBinaryExpr(ast.OpMul, clk(0), ast.NewSymbolAccess(ident.New("rand"), types.NewIndexAccess(0), 0, span), span),
				span,
			),
		}, span))
	})
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	require.Empty(t, out.IntegrityConstraints(0), "the random-value combination must not land in the main segment")
	require.Len(t, out.IntegrityConstraints(1), 1, "mixing a main-segment read with a random value pushes the constraint into the aux segment")
}

func TestLowerBoundaryReadingRandomValueBeyondMainSegmentIsRejected(t *testing.T) {
	q := func() *ast.SymbolAccess {
		return ast.NewSymbolAccess(ident.New("q"), types.NewDefaultAccess(), 0, span)
	}

	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("q"), Size: 1}}, span))
		root.Add(ast.NewDeclareTraceColumns(1, []ast.TraceColumnBinding{{Name: ident.New("aux"), Size: 1}}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewDeclareRandomValues(ident.New("alphas"), 1, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			// q is a main-segment (0) column, but its RHS reads a random
			// value: the constraint's inferred segment (1) exceeds q's own
			// segment, which must be rejected rather than silently promoted.
			ast.NewEnforce(
				q().WithQualifier(ast.First),
				ast.NewSymbolAccess(ident.New("alphas"), types.NewIndexAccess(0), 0, span),
				span,
			),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(q(), q(), span),
		}, span))
	})

	require.True(t, sink.HasErrors())

	var found bool
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.KindTraceSegmentMismatch {
			found = true
		}
	}
	assert.True(t, found, "expected a KindTraceSegmentMismatch diagnostic")
	assert.Empty(t, out.BoundaryConstraints(0), "the rejected boundary constraint must not be registered")
}

func TestLowerPeriodicColumnIsRegisteredOnce(t *testing.T) {
	out, sink := compile(t, func(root *ast.Module) {
		root.Add(ast.NewDeclareTraceColumns(0, []ast.TraceColumnBinding{{Name: ident.New("clk"), Size: 1}}, span))
		root.Add(ast.NewDeclarePublicInputs(nil, span))
		root.Add(ast.NewDeclarePeriodicColumns([]ast.PeriodicColumnBinding{
			{Name: ident.New("k"), Values: []uint64{0, 1}},
		}, span))
		root.Add(ast.NewBoundaryConstraints([]ast.Statement{
			ast.NewEnforce(clk(0).WithQualifier(ast.First), ast.NewConstScalar(0, span), span),
		}, span))
		root.Add(ast.NewIntegrityConstraints([]ast.Statement{
			ast.NewEnforce(clk(0), ast.NewSymbolAccess(ident.New("k"), types.NewDefaultAccess(), 0, span), span),
			ast.NewEnforce(clk(1), ast.NewSymbolAccess(ident.New("k"), types.NewDefaultAccess(), 0, span), span),
		}, span))
	})
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	periodic := out.PeriodicColumns()
	require.Len(t, periodic, 1)
	assert.Equal(t, "k", periodic[0].Name)
	assert.Equal(t, uint(2), periodic[0].CycleLen())
}
