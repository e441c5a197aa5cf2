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

// Segment infers the trace segment a subgraph belongs to: a RandomValue
// leaf forces segment >= 1 (random values are only drawn after the main
// trace is committed), a TraceAccess leaf fixes its explicit segment, and
// every inner operation takes the max of its children's segments. Constant,
// periodic-column and public-input leaves do not constrain the segment and
// contribute 0.
func (g *AlgebraicGraph) Segment(root NodeIndex) uint {
	memo := make(map[NodeIndex]uint, g.Len())
	return g.segmentMemo(root, memo)
}

func (g *AlgebraicGraph) segmentMemo(idx NodeIndex, memo map[NodeIndex]uint) uint {
	if s, ok := memo[idx]; ok {
		return s
	}

	node := g.Node(idx)
	var s uint

	switch node.Op.Kind {
	case OpValue:
		switch node.Op.Value.Kind {
		case TraceAccessValue:
			s = node.Op.Value.Trace.Segment
		case RandomValueValue:
			s = 1
		default:
			s = 0
		}
	case OpAdd, OpSub, OpMul:
		l := g.segmentMemo(node.Op.Left, memo)
		r := g.segmentMemo(node.Op.Right, memo)
		s = l
		if r > s {
			s = r
		}
	case OpExp:
		s = g.segmentMemo(node.Op.ExpBase, memo)
	}

	memo[idx] = s

	return s
}
