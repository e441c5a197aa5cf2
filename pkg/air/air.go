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

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
)

// PeriodicColumn is the fully-resolved form of a periodic_columns
// declaration: its qualified name and its fixed cycle, stored as field
// elements per SPEC_FULL.md §3 (the graph's Value leaves only retain the
// name and cycle length, not the values themselves, since the graph has no
// other use for them).
type PeriodicColumn struct {
	Name   string
	Values []fr.Element
}

// CycleLen returns the number of rows in this column's periodic cycle.
func (p PeriodicColumn) CycleLen() uint {
	return uint(len(p.Values))
}

// PublicInput is the fully-resolved form of a public_inputs entry.
type PublicInput struct {
	Name string
	Size uint
}

// Air is the fully-resolved output of the compiler core: program name,
// trace-segment widths, periodic columns, public inputs, the total length
// of the random-values array, the algebraic graph, and the per-segment
// boundary/integrity constraint roots. Any backend traverses only this
// value; it never sees the surface AST.
type Air struct {
	name            string
	segmentWidths   []uint
	periodic        []PeriodicColumn
	publicInputs    []PublicInput
	numRandomValues uint
	graph           *AlgebraicGraph
	boundary        [][]ConstraintRoot
	integrity       [][]ConstraintRoot
	diagnostics     []diag.Diagnostic
}

// New constructs an Air value. len(segmentWidths) fixes the size of the
// per-segment boundary/integrity slices; callers register constraints with
// AddBoundary/AddIntegrity after construction.
func New(name string, segmentWidths []uint, periodic []PeriodicColumn, publicInputs []PublicInput, numRandomValues uint, graph *AlgebraicGraph) *Air {
	n := len(segmentWidths)

	return &Air{
		name:            name,
		segmentWidths:   segmentWidths,
		periodic:        periodic,
		publicInputs:    publicInputs,
		numRandomValues: numRandomValues,
		graph:           graph,
		boundary:        make([][]ConstraintRoot, n),
		integrity:       make([][]ConstraintRoot, n),
	}
}

// Name returns the identifier of the root module this Air was compiled
// from.
func (a *Air) Name() string { return a.name }

// SegmentWidths returns the column count of each trace segment, indexed by
// segment id (0 is main, 1 is aux).
func (a *Air) SegmentWidths() []uint { return a.segmentWidths }

// PeriodicColumns returns every periodic column in the order the
// constraints first reference them.
func (a *Air) PeriodicColumns() []PeriodicColumn { return a.periodic }

// PublicInputs returns every public input in declaration order.
func (a *Air) PublicInputs() []PublicInput { return a.publicInputs }

// NumRandomValues returns the total length of the random-values array.
func (a *Air) NumRandomValues() uint { return a.numRandomValues }

// Graph returns a read-only reference to the underlying algebraic graph.
func (a *Air) Graph() *AlgebraicGraph { return a.graph }

// Diagnostics returns every warning accumulated while compiling this Air.
// Errors never reach a successfully constructed Air - the pipeline driver
// aborts before assembling one if any pass recorded an error.
func (a *Air) Diagnostics() []diag.Diagnostic { return a.diagnostics }

// SetDiagnostics attaches the warnings accumulated over the whole
// compilation to this Air.
func (a *Air) SetDiagnostics(ds []diag.Diagnostic) { a.diagnostics = ds }

// AddBoundary registers a boundary constraint root on the given segment.
func (a *Air) AddBoundary(segment uint, root ConstraintRoot) {
	a.boundary[segment] = append(a.boundary[segment], root)
}

// AddIntegrity registers an integrity constraint root on the given segment.
func (a *Air) AddIntegrity(segment uint, root ConstraintRoot) {
	a.integrity[segment] = append(a.integrity[segment], root)
}

// BoundaryConstraints returns every boundary constraint root on the given
// segment, in insertion order.
func (a *Air) BoundaryConstraints(segment uint) []ConstraintRoot {
	return a.boundary[segment]
}

// IntegrityConstraints returns every integrity constraint root on the
// given segment, in insertion order.
func (a *Air) IntegrityConstraints(segment uint) []ConstraintRoot {
	return a.integrity[segment]
}

// ValidityConstraints returns the EveryRow subset of a segment's integrity
// constraints.
func (a *Air) ValidityConstraints(segment uint) []ConstraintRoot {
	return filterDomain(a.integrity[segment], EveryRow)
}

// TransitionConstraints returns the EveryFrame subset of a segment's
// integrity constraints.
func (a *Air) TransitionConstraints(segment uint) []ConstraintRoot {
	return filterDomain(a.integrity[segment], EveryFrame)
}

func filterDomain(roots []ConstraintRoot, kind DomainKind) []ConstraintRoot {
	var out []ConstraintRoot

	for _, r := range roots {
		if r.Domain.Kind == kind {
			out = append(out, r)
		}
	}

	return out
}

// IntegrityDegrees computes the IntegrityConstraintDegree of every
// integrity constraint root on the given segment, in the same order as
// IntegrityConstraints.
func (a *Air) IntegrityDegrees(segment uint) []IntegrityConstraintDegree {
	roots := a.integrity[segment]
	degrees := make([]IntegrityConstraintDegree, len(roots))

	for i, r := range roots {
		degrees[i] = a.graph.Degree(r.Node)
	}

	return degrees
}

// NumSegments returns the number of trace segments this Air was compiled
// for.
func (a *Air) NumSegments() int { return len(a.segmentWidths) }
