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
package sema

import "github.com/0xPolygonMiden/airscript-go/pkg/ident"

// EdgeKind labels an edge of the DependencyGraph with the namespace of item
// it points at, per spec.md §4.3's "edges labeled Constant / Evaluator /
// Function / PeriodicColumn".
type EdgeKind uint8

// ConstantEdge, EvaluatorEdge and PeriodicColumnEdge enumerate the edge labels
// this implementation produces. FunctionEdge is part of the stable taxonomy
// spec.md names but is never emitted: per spec.md §9's open question, this
// implementation restricts itself to evaluator functions, which have no
// return value and so never appear as the target of a "Function" edge.
const (
	ConstantEdge EdgeKind = iota
	EvaluatorEdge
	FunctionEdge
	PeriodicColumnEdge
)

// DependencyGraph records, for each qualified identifier, the set of other
// qualified identifiers its definition references.
type DependencyGraph struct {
	edges map[string][]dependencyEdge
}

type dependencyEdge struct {
	kind   EdgeKind
	target ident.QualifiedIdentifier
}

// NewDependencyGraph constructs an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{edges: make(map[string][]dependencyEdge)}
}

// AddEdge records that `from` depends on `to`, labeled by kind.
func (g *DependencyGraph) AddEdge(from, to ident.QualifiedIdentifier, kind EdgeKind) {
	key := from.String()
	g.edges[key] = append(g.edges[key], dependencyEdge{kind: kind, target: to})
}

// Reachable computes the set of qualified identifiers (keyed by their
// String() form) reachable from roots by following edges transitively.
// roots themselves are included.
func (g *DependencyGraph) Reachable(roots ...ident.QualifiedIdentifier) map[string]bool {
	seen := make(map[string]bool)
	queue := make([]ident.QualifiedIdentifier, 0, len(roots))

	for _, r := range roots {
		key := r.String()
		if !seen[key] {
			seen[key] = true
			queue = append(queue, r)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range g.edges[cur.String()] {
			key := e.target.String()
			if !seen[key] {
				seen[key] = true
				queue = append(queue, e.target)
			}
		}
	}

	return seen
}

// ModuleGraph is the coarser, module-level projection of a DependencyGraph:
// an edge exists from module A to module B whenever some item in A
// references some item in B.
type ModuleGraph struct {
	edges map[string]map[string]bool
}

// ModuleGraph projects g onto module identity.
func (g *DependencyGraph) ModuleGraph() *ModuleGraph {
	mg := &ModuleGraph{edges: make(map[string]map[string]bool)}

	for fromKey, es := range g.edges {
		fromModule := moduleOfKey(fromKey)

		for _, e := range es {
			toModule := e.target.Module.Text()
			if fromModule == toModule {
				continue
			}

			if mg.edges[fromModule] == nil {
				mg.edges[fromModule] = make(map[string]bool)
			}

			mg.edges[fromModule][toModule] = true
		}
	}

	return mg
}

// DependsOn reports whether module `from` has any recorded edge into
// module `to`.
func (mg *ModuleGraph) DependsOn(from, to string) bool {
	return mg.edges[from] != nil && mg.edges[from][to]
}

// moduleOfKey extracts the module name from a "module::name" dependency
// key, matching ident.QualifiedIdentifier.String()'s format.
func moduleOfKey(key string) string {
	for i := 0; i < len(key)-1; i++ {
		if key[i] == ':' && key[i+1] == ':' {
			return key[:i]
		}
	}

	return key
}
