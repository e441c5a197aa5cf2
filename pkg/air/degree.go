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
package air

import "sort"

// IntegrityConstraintDegree summarises the polynomial degree of an
// integrity constraint: Base is the multiplicative depth over trace
// columns, and Cycles is the multiset of periodic-column cycle lengths
// encountered while computing it.
type IntegrityConstraintDegree struct {
	Base   uint
	Cycles []uint
}

// Equals compares two degrees, treating Cycles as an unordered multiset.
func (d IntegrityConstraintDegree) Equals(other IntegrityConstraintDegree) bool {
	if d.Base != other.Base || len(d.Cycles) != len(other.Cycles) {
		return false
	}

	a := append([]uint(nil), d.Cycles...)
	b := append([]uint(nil), other.Cycles...)
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// unionCycles merges two cycle multisets, preserving duplicates (a degree
// referencing the same periodic column twice along independent paths keeps
// two entries, matching the "multiset" wording of spec.md §3).
func unionCycles(a, b []uint) []uint {
	if len(a) == 0 {
		return b
	}

	if len(b) == 0 {
		return a
	}

	out := make([]uint, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	return out
}

// Degree computes the IntegrityConstraintDegree of the subgraph rooted at
// root, memoizing per-node results so that shared subgraphs (value
// numbering) are only visited once. Composition follows spec.md §3 and §8
// property 3: Add/Sub take the max base and the union of cycles; Mul adds
// bases and unions cycles; Exp(b,k) is base(b)*k with cycles(b) unchanged
// (SPEC_FULL.md §9 - the same base as k-1 nested Mul(b, ...) nodes, though
// such a chain would list cycles(b) k times where Exp lists it once);
// leaves contribute base=1 for trace accesses and base=0 for constants,
// periodic columns, public inputs and random values.
func (g *AlgebraicGraph) Degree(root NodeIndex) IntegrityConstraintDegree {
	memo := make(map[NodeIndex]IntegrityConstraintDegree, g.Len())
	return g.degreeMemo(root, memo)
}

func (g *AlgebraicGraph) degreeMemo(idx NodeIndex, memo map[NodeIndex]IntegrityConstraintDegree) IntegrityConstraintDegree {
	if d, ok := memo[idx]; ok {
		return d
	}

	node := g.Node(idx)
	var d IntegrityConstraintDegree

	switch node.Op.Kind {
	case OpValue:
		switch node.Op.Value.Kind {
		case TraceAccessValue:
			d = IntegrityConstraintDegree{Base: 1}
		case PeriodicColumnValue:
			d = IntegrityConstraintDegree{Base: 0, Cycles: []uint{node.Op.Value.PeriodicCycleLen}}
		default:
			// ConstantValue, PublicInputValue, RandomValueValue.
			d = IntegrityConstraintDegree{Base: 0}
		}
	case OpAdd, OpSub:
		l := g.degreeMemo(node.Op.Left, memo)
		r := g.degreeMemo(node.Op.Right, memo)
		base := l.Base
		if r.Base > base {
			base = r.Base
		}

		d = IntegrityConstraintDegree{Base: base, Cycles: unionCycles(l.Cycles, r.Cycles)}
	case OpMul:
		l := g.degreeMemo(node.Op.Left, memo)
		r := g.degreeMemo(node.Op.Right, memo)
		d = IntegrityConstraintDegree{Base: l.Base + r.Base, Cycles: unionCycles(l.Cycles, r.Cycles)}
	case OpExp:
		b := g.degreeMemo(node.Op.ExpBase, memo)
		d = IntegrityConstraintDegree{Base: b.Base * uint(node.Op.ExpPower), Cycles: b.Cycles}
	}

	memo[idx] = d

	return d
}
