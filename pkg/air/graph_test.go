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
package air_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
)

// TestAcyclicity verifies spec.md §8 property 1: every child index
// referenced by a node's operation is strictly smaller than the node's own
// index.
func TestAcyclicity(t *testing.T) {
	g := air.NewGraph()

	c1 := g.InsertConstant(1)
	c2 := g.InsertConstant(2)
	sum := g.InsertAdd(c1, c2)
	prod := g.InsertMul(sum, c2)

	for i := 0; i < g.Len(); i++ {
		op := g.Node(air.NodeIndex(i)).Op
		switch op.Kind {
		case air.OpAdd, air.OpSub, air.OpMul:
			assert.Less(t, int(op.Left), i)
			assert.Less(t, int(op.Right), i)
		case air.OpExp:
			assert.Less(t, int(op.ExpBase), i)
		}
	}

	assert.Less(t, int(c1), int(sum))
	assert.Less(t, int(c2), int(sum))
	assert.Less(t, int(sum), int(prod))
}

// TestValueNumberingIdempotence verifies spec.md §8 property 2: inserting
// the same operation twice returns the same index and grows the graph by
// at most one node.
func TestValueNumberingIdempotence(t *testing.T) {
	g := air.NewGraph()

	a := g.InsertConstant(7)
	before := g.Len()
	b := g.InsertConstant(7)

	assert.Equal(t, a, b)
	assert.Equal(t, before, g.Len())

	l := g.InsertTraceAccess(air.TraceAccess{Segment: 0, Column: 0})
	r := g.InsertConstant(1)
	sum1 := g.InsertAdd(l, r)
	before = g.Len()
	sum2 := g.InsertAdd(l, r)

	assert.Equal(t, sum1, sum2)
	assert.Equal(t, before, g.Len())
}

// TestValueNumberingDedup verifies that structurally identical subgraphs
// built independently collapse onto the same nodes, matching scenario S4's
// requirement that repeated `b0`/`b1`/`b2` accesses are deduplicated.
func TestValueNumberingDedup(t *testing.T) {
	g := air.NewGraph()

	ta := air.TraceAccess{Segment: 0, Column: 3}
	first := g.InsertTraceAccess(ta)
	second := g.InsertTraceAccess(ta)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.Len())
}

// TestInsertRequiresDefinedChildren verifies the acyclicity invariant is
// actively enforced, not merely an emergent property of well-behaved
// callers.
func TestInsertRequiresDefinedChildren(t *testing.T) {
	g := air.NewGraph()

	assert.Panics(t, func() {
		g.InsertAdd(air.NodeIndex(5), air.NodeIndex(6))
	})
}

// TestDegreeComposition verifies spec.md §8 property 3.
func TestDegreeComposition(t *testing.T) {
	g := air.NewGraph()

	clk := g.InsertTraceAccess(air.TraceAccess{Segment: 0, Column: 0})
	one := g.InsertConstant(1)
	sum := g.InsertAdd(clk, one)
	prod := g.InsertMul(clk, sum)

	dClk := g.Degree(clk)
	dOne := g.Degree(one)
	dSum := g.Degree(sum)
	dProd := g.Degree(prod)

	require.Equal(t, uint(1), dClk.Base)
	require.Equal(t, uint(0), dOne.Base)
	assert.Equal(t, uint(1), dSum.Base, "Add takes the max of its children's bases")
	assert.Equal(t, uint(2), dProd.Base, "Mul adds its children's bases")
}

// TestDegreeCycles verifies that periodic-column cycle lengths propagate
// through Mul (union) as spec.md §3 and §8 property 3 require, matching
// scenario S2.
func TestDegreeCycles(t *testing.T) {
	g := air.NewGraph()

	k := g.InsertPeriodicColumn("k", 4)
	clk := g.InsertTraceAccess(air.TraceAccess{Segment: 0, Column: 0})
	prod := g.InsertMul(k, clk)

	d := g.Degree(prod)

	assert.Equal(t, uint(1), d.Base)
	assert.Equal(t, []uint{4}, d.Cycles)
}

// TestExpDegree verifies the Exp degree rule from SPEC_FULL.md §9:
// base(Exp(b,k)) == base(b) * k.
func TestExpDegree(t *testing.T) {
	g := air.NewGraph()

	clk := g.InsertTraceAccess(air.TraceAccess{Segment: 0, Column: 0})
	cube := g.InsertExp(clk, 3)

	d := g.Degree(cube)
	assert.Equal(t, uint(3), d.Base)
}

// TestSegmentInference verifies the RandomValue-forces-aux-segment rule
// underlying scenario S6.
func TestSegmentInference(t *testing.T) {
	g := air.NewGraph()

	mainCol := g.InsertTraceAccess(air.TraceAccess{Segment: 0, Column: 0})
	rnd := g.InsertRandomValue(0)
	mixed := g.InsertAdd(mainCol, rnd)

	assert.Equal(t, uint(0), g.Segment(mainCol))
	assert.Equal(t, uint(1), g.Segment(rnd))
	assert.Equal(t, uint(1), g.Segment(mixed))
}
