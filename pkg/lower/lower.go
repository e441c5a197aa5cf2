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

// Package lower translates a circuit's root constraint sections - already
// processed by pkg/constprop and pkg/inline, and therefore free of
// unresolved constants, comprehensions, guards and evaluator calls - into
// a fully resolved air.Air, per spec.md §4.6. Only Let and Enforce
// statements are expected; a Let's body has already had every reference to
// its bound name substituted away by pkg/inline, so lowering simply
// flattens through it.
package lower

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/scope"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// boundaryKey identifies one (segment, column, domain) triple a boundary
// constraint can target, for KindBoundaryAlreadyConstrained detection.
type boundaryKey struct {
	Segment uint
	Column  uint
	Domain  air.DomainKind
}

// pendingRoot is a constraint root not yet attached to the Air value being
// built, since the final segment it belongs to is inferred from the graph
// only once the root's node exists.
type pendingRoot struct {
	Segment uint
	Root    air.ConstraintRoot
}

// traceRef is one trace-column reference found while walking a constraint
// expression, used both for segment-mismatch detection and for inferring a
// constraint's domain.
type traceRef struct {
	Segment   uint
	Column    uint
	RowOffset uint
	Qualifier ast.BoundaryQualifier
}

// constraintContext distinguishes which constraint section an expression is
// being lowered from: a periodic column may only be read from an integrity
// constraint, and a public input only from a boundary constraint, per
// spec.md §3, §4.1 and §7. Evaluator bodies are spliced into their actual
// call site's section by pkg/inline before lowering ever runs, so by the
// time lowerExpr walks a constraint this context is always known.
type constraintContext uint8

const (
	integrityContext constraintContext = iota
	boundaryContext
)

// lowering carries the state threaded through one Lower call.
type lowering struct {
	info  *sema.ModuleInfo
	graph *air.AlgebraicGraph
	sink  *diag.Sink

	// maxSegment bounds the segment a constraint root can be assigned to:
	// the number of trace segments actually declared, minus one. A random
	// value can push AlgebraicGraph.Segment's inference above any segment a
	// constraint's own trace accesses name, but a circuit is only expected
	// to do that when it has declared the aux segment those random values
	// feed; segmentOf clamps to this bound defensively so a malformed
	// circuit cannot make Lower index past Air's per-segment slices.
	maxSegment uint

	periodicOrder []string
	periodicSeen  map[string]bool

	boundarySeen map[boundaryKey]bool
}

// Lower builds the air.Air for circuit's root module.
func Lower(circuit *ast.Circuit, modules map[string]*sema.ModuleInfo, result *sema.Result, sink *diag.Sink) *air.Air {
	rootName := circuit.Root.Text()
	root := circuit.Modules[rootName]
	info := modules[rootName]

	maxSegment := uint(0)
	if n := len(result.TraceSegmentWidths); n > 0 {
		maxSegment = uint(n - 1)
	}

	l := &lowering{
		info:         info,
		graph:        air.NewGraph(),
		sink:         sink,
		maxSegment:   maxSegment,
		periodicSeen: make(map[string]bool),
		boundarySeen: make(map[boundaryKey]bool),
	}

	var boundaryRoots, integrityRoots []pendingRoot

	for _, decl := range root.Declarations {
		switch d := decl.(type) {
		case *ast.BoundaryConstraints:
			boundaryRoots = append(boundaryRoots, l.lowerBoundary(d.Statements)...)
		case *ast.IntegrityConstraints:
			integrityRoots = append(integrityRoots, l.lowerIntegrity(d.Statements)...)
		}
	}

	publicInputs := make([]air.PublicInput, len(result.PublicInputs))
	for i, p := range result.PublicInputs {
		publicInputs[i] = air.PublicInput{Name: p.Name.Text(), Size: p.Size}
	}

	periodic := make([]air.PeriodicColumn, len(l.periodicOrder))
	for i, name := range l.periodicOrder {
		b, _ := info.Scope.Get(name)
		values := make([]fr.Element, len(b.PeriodicValues))
		for j, v := range b.PeriodicValues {
			values[j] = fr.NewElement(v)
		}

		periodic[i] = air.PeriodicColumn{Name: name, Values: values}
	}

	out := air.New(rootName, result.TraceSegmentWidths, periodic, publicInputs, result.NumRandomValues, l.graph)

	for _, p := range boundaryRoots {
		out.AddBoundary(p.Segment, p.Root)
	}

	for _, p := range integrityRoots {
		out.AddIntegrity(p.Segment, p.Root)
	}

	return out
}

// flattenLets strips away every Let wrapper, returning the Enforce
// statements it contains - legal since pkg/inline has already substituted
// every reference to a let-bound name with its value.
func flattenLets(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))

	for _, s := range stmts {
		if let, ok := s.(*ast.Let); ok {
			out = append(out, flattenLets(let.Body)...)
			continue
		}

		out = append(out, s)
	}

	return out
}

func (l *lowering) lowerBoundary(stmts []ast.Statement) []pendingRoot {
	var out []pendingRoot

	for _, s := range flattenLets(stmts) {
		enf, ok := s.(*ast.Enforce)
		if !ok {
			span := s.Span()
			l.sink.Error(diag.KindInvalidConstraint, &span, nil, "unexpected statement in boundary_constraints after inlining: %T", s)

			continue
		}

		if root, ok := l.lowerBoundaryEnforce(enf); ok {
			out = append(out, root)
		}
	}

	return out
}

func (l *lowering) lowerIntegrity(stmts []ast.Statement) []pendingRoot {
	var out []pendingRoot

	for _, s := range flattenLets(stmts) {
		enf, ok := s.(*ast.Enforce)
		if !ok {
			span := s.Span()
			l.sink.Error(diag.KindInvalidConstraint, &span, nil, "unexpected statement in integrity_constraints after inlining: %T", s)

			continue
		}

		if root, ok := l.lowerIntegrityEnforce(enf); ok {
			out = append(out, root)
		}
	}

	return out
}

func (l *lowering) lowerBoundaryEnforce(enf *ast.Enforce) (pendingRoot, bool) {
	sp := enf.Span()

	refs := append(l.collectTraceRefs(enf.LHS), l.collectTraceRefs(enf.RHS)...)
	if !l.checkSingleSegment(refs, sp) {
		return pendingRoot{}, false
	}

	domain, key, ok := boundaryDomainOf(refs)
	if !ok {
		l.sink.Error(diag.KindInvalidConstraint, &sp, nil, "boundary constraint must reference a `.first` or `.last` trace value")
		return pendingRoot{}, false
	}

	if l.boundarySeen[key] {
		l.sink.Error(diag.KindBoundaryAlreadyConstrained, &sp, nil,
			"segment %d column %d is already constrained at %s", key.Segment, key.Column, key.Domain)

		return pendingRoot{}, false
	}

	root, ok := l.lowerDiffRoot(enf.LHS, enf.RHS, domain, sp, boundaryContext)
	if !ok {
		return pendingRoot{}, false
	}

	// A boundary constraint's inferred segment can never exceed its LHS
	// column's own segment: that would mean the constraint reads a value
	// (typically a random value) only meaningful in a later segment than
	// the column it's pinning, which spec.md §3 rejects outright rather
	// than silently promoting the constraint to that later segment.
	if segment := l.graph.Segment(root.Node); key.Segment < segment {
		l.sink.Error(diag.KindTraceSegmentMismatch, &sp, nil,
			"boundary constraint on segment %d column %d reads a value from segment %d", key.Segment, key.Column, segment)

		return pendingRoot{}, false
	}

	l.boundarySeen[key] = true

	return pendingRoot{Segment: l.segmentOf(root.Node), Root: root}, true
}

func (l *lowering) lowerIntegrityEnforce(enf *ast.Enforce) (pendingRoot, bool) {
	sp := enf.Span()

	refs := append(l.collectTraceRefs(enf.LHS), l.collectTraceRefs(enf.RHS)...)
	if !l.checkSingleSegment(refs, sp) {
		return pendingRoot{}, false
	}

	maxOffset := uint(0)
	for _, r := range refs {
		if r.RowOffset > maxOffset {
			maxOffset = r.RowOffset
		}
	}

	domain := air.NewEveryRow()
	if maxOffset > 0 {
		domain = air.NewEveryFrame(maxOffset + 1)
	}

	root, ok := l.lowerDiffRoot(enf.LHS, enf.RHS, domain, sp, integrityContext)
	if !ok {
		return pendingRoot{}, false
	}

	return pendingRoot{Segment: l.segmentOf(root.Node), Root: root}, true
}

// lowerDiffRoot lowers both sides of a constraint and roots it at their
// difference: an `enf lhs = rhs` constraint holds exactly where lhs-rhs
// evaluates to zero.
func (l *lowering) lowerDiffRoot(lhs, rhs ast.Expr, domain air.ConstraintDomain, sp source.Span, ctx constraintContext) (air.ConstraintRoot, bool) {
	lhsNode, ok := l.lowerExpr(lhs, sp, ctx)
	if !ok {
		return air.ConstraintRoot{}, false
	}

	rhsNode, ok := l.lowerExpr(rhs, sp, ctx)
	if !ok {
		return air.ConstraintRoot{}, false
	}

	diff := l.graph.InsertSub(lhsNode, rhsNode)

	return air.ConstraintRoot{Node: diff, Domain: domain}, true
}

// segmentOf returns the segment a constraint rooted at node belongs to,
// clamped to l.maxSegment.
func (l *lowering) segmentOf(node air.NodeIndex) uint {
	seg := l.graph.Segment(node)
	if seg > l.maxSegment {
		return l.maxSegment
	}

	return seg
}

// checkSingleSegment reports KindTraceSegmentMismatch if refs names trace
// columns from more than one explicit segment; air.(*AlgebraicGraph).Segment
// never reports this itself, since it composes segments rather than
// validating them.
func (l *lowering) checkSingleSegment(refs []traceRef, sp source.Span) bool {
	segments := map[uint]bool{}
	for _, r := range refs {
		segments[r.Segment] = true
	}

	if len(segments) > 1 {
		l.sink.Error(diag.KindTraceSegmentMismatch, &sp, nil, "constraint mixes trace accesses from multiple segments")
		return false
	}

	return true
}

// boundaryDomainOf derives the (domain, boundaryKey) a boundary constraint
// targets from its qualified trace references, requiring every qualified
// reference found to agree on the same column.
func boundaryDomainOf(refs []traceRef) (air.ConstraintDomain, boundaryKey, bool) {
	var qualified []traceRef

	for _, r := range refs {
		if r.Qualifier != ast.None {
			qualified = append(qualified, r)
		}
	}

	if len(qualified) == 0 {
		return air.ConstraintDomain{}, boundaryKey{}, false
	}

	first := qualified[0]
	domain := qualifierDomain(first.Qualifier)
	key := boundaryKey{Segment: first.Segment, Column: first.Column, Domain: domain.Kind}

	for _, r := range qualified[1:] {
		d := qualifierDomain(r.Qualifier)

		merged, err := air.MergeDomains(domain, d)
		if err != nil || r.Segment != first.Segment || r.Column != first.Column {
			return air.ConstraintDomain{}, boundaryKey{}, false
		}

		domain = merged
	}

	return domain, key, true
}

func qualifierDomain(q ast.BoundaryQualifier) air.ConstraintDomain {
	if q == ast.Last {
		return air.NewLastRow()
	}

	return air.NewFirstRow()
}

// collectTraceRefs walks e collecting every trace-column reference it
// contains, resolved against the module's scope.
func (l *lowering) collectTraceRefs(e ast.Expr) []traceRef {
	var refs []traceRef

	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch v := e.(type) {
		case nil:
		case *ast.SymbolAccess:
			b, ok := l.info.Scope.Get(v.Name.Text())
			if !ok || b.Kind != scope.TraceBindingKind {
				return
			}

			resolved, err := scope.GetValue(v.Name.Text(), b, v.Access, v.RowOffset)
			if err != nil || resolved.Kind != scope.ResolvedTraceAccess {
				return
			}

			refs = append(refs, traceRef{
				Segment:   resolved.Segment,
				Column:    resolved.Column,
				RowOffset: resolved.RowOffset,
				Qualifier: v.Qualifier,
			})
		case *ast.BinaryExpr:
			walk(v.LHS)
			walk(v.RHS)
		case *ast.Exp:
			walk(v.Base)
		case *ast.ListFolding:
			walk(v.List)
		case *ast.ExprList:
			for _, it := range v.Items {
				walk(it)
			}
		}
	}

	walk(e)

	return refs
}

// lowerExpr translates e into a node of l.graph, reporting a diagnostic and
// returning false if e cannot be lowered to a scalar. ctx records which
// constraint section e was found in, since some reference kinds are only
// legal in one of the two (see lowerSymbolAccess).
func (l *lowering) lowerExpr(e ast.Expr, sp source.Span, ctx constraintContext) (air.NodeIndex, bool) {
	switch v := e.(type) {
	case *ast.ConstScalar:
		return l.graph.InsertConstant(v.Value), true
	case *ast.SymbolAccess:
		return l.lowerSymbolAccess(v, ctx)
	case *ast.BinaryExpr:
		lhs, ok := l.lowerExpr(v.LHS, sp, ctx)
		if !ok {
			return 0, false
		}

		rhs, ok := l.lowerExpr(v.RHS, sp, ctx)
		if !ok {
			return 0, false
		}

		switch v.Op {
		case ast.OpAdd:
			return l.graph.InsertAdd(lhs, rhs), true
		case ast.OpSub:
			return l.graph.InsertSub(lhs, rhs), true
		case ast.OpMul:
			return l.graph.InsertMul(lhs, rhs), true
		default:
			l.sink.Error(diag.KindInvalidConstraint, &sp, nil, "unknown binary operator")
			return 0, false
		}
	case *ast.Exp:
		base, ok := l.lowerExpr(v.Base, sp, ctx)
		if !ok {
			return 0, false
		}

		exponent, ok := v.Exponent.(*ast.ConstScalar)
		if !ok {
			l.sink.Error(diag.KindNonConstantExponent, &sp, nil, "exponent of `^` must reduce to a constant")
			return 0, false
		}

		return l.graph.InsertExp(base, exponent.Value), true
	case *ast.ListFolding:
		return l.lowerListFolding(v, sp, ctx)
	default:
		l.sink.Error(diag.KindInvalidConstraint, &sp, nil, "%T cannot appear directly inside a constraint", v)
		return 0, false
	}
}

func (l *lowering) lowerSymbolAccess(v *ast.SymbolAccess, ctx constraintContext) (air.NodeIndex, bool) {
	sp := v.Span()

	b, ok := l.info.Scope.Get(v.Name.Text())
	if !ok {
		l.sink.Error(diag.KindUnknownIdentifier, &sp, nil, "unknown identifier %q", v.Name.Text())
		return 0, false
	}

	resolved, err := scope.GetValue(v.Name.Text(), b, v.Access, v.RowOffset)
	if err != nil {
		l.sink.Error(diag.KindInvalidAccess, &sp, nil, "%s", err)
		return 0, false
	}

	switch resolved.Kind {
	case scope.ResolvedConstant:
		return l.graph.InsertConstant(resolved.Constant), true
	case scope.ResolvedTraceAccess:
		return l.graph.InsertTraceAccess(air.TraceAccess{
			Segment:   resolved.Segment,
			Column:    resolved.Column,
			RowOffset: resolved.RowOffset,
		}), true
	case scope.ResolvedPeriodicColumn:
		if ctx == boundaryContext {
			l.sink.Error(diag.KindInvalidConstraint, &sp, nil, "periodic column %q cannot be referenced in a boundary constraint", v.Name.Text())
			return 0, false
		}

		l.registerPeriodic(resolved.PeriodicName)
		return l.graph.InsertPeriodicColumn(resolved.PeriodicName, resolved.PeriodicCycleLen), true
	case scope.ResolvedPublicInput:
		if ctx == integrityContext {
			l.sink.Error(diag.KindInvalidConstraint, &sp, nil, "public input %q cannot be referenced in an integrity constraint", v.Name.Text())
			return 0, false
		}

		return l.graph.InsertPublicInput(resolved.PublicInputName, resolved.PublicInputIndex), true
	case scope.ResolvedRandomValue:
		return l.graph.InsertRandomValue(resolved.RandomIndex), true
	default:
		l.sink.Error(diag.KindInvalidConstraint, &sp, nil, "cannot resolve %q to a scalar value", v.Name.Text())
		return 0, false
	}
}

func (l *lowering) registerPeriodic(name string) {
	if l.periodicSeen[name] {
		return
	}

	l.periodicSeen[name] = true
	l.periodicOrder = append(l.periodicOrder, name)
}

// lowerListFolding reduces a sum/prod fold over its operand's elements,
// which by this point is either an ExprList (an unrolled comprehension, the
// common case) or a bare reference to a vector-shaped trace group, constant
// vector, or constant-vector literal.
func (l *lowering) lowerListFolding(v *ast.ListFolding, sp source.Span, ctx constraintContext) (air.NodeIndex, bool) {
	items, ok := l.foldingItems(v.List, sp)
	if !ok {
		return 0, false
	}

	if len(items) == 0 {
		l.sink.Error(diag.KindInvalidListFolding, &sp, nil, "list folding operand must not be empty")
		return 0, false
	}

	acc, ok := l.lowerExpr(items[0], sp, ctx)
	if !ok {
		return 0, false
	}

	for _, it := range items[1:] {
		node, ok := l.lowerExpr(it, sp, ctx)
		if !ok {
			return 0, false
		}

		if v.Op == ast.Sum {
			acc = l.graph.InsertAdd(acc, node)
		} else {
			acc = l.graph.InsertMul(acc, node)
		}
	}

	return acc, true
}

func (l *lowering) foldingItems(e ast.Expr, sp source.Span) ([]ast.Expr, bool) {
	switch v := e.(type) {
	case *ast.ExprList:
		return v.Items, true
	case *ast.ConstVector:
		return scalarsOf(v.Values, v.Span()), true
	case *ast.SymbolAccess:
		return l.foldingItemsOf(v, sp)
	default:
		l.sink.Error(diag.KindInvalidListFolding, &sp, nil, "list folding operand must be a vector, got %T", v)
		return nil, false
	}
}

func (l *lowering) foldingItemsOf(v *ast.SymbolAccess, sp source.Span) ([]ast.Expr, bool) {
	b, ok := l.info.Scope.Get(v.Name.Text())
	if !ok {
		l.sink.Error(diag.KindUnknownIdentifier, &sp, nil, "unknown identifier %q", v.Name.Text())
		return nil, false
	}

	switch b.Kind {
	case scope.TraceBindingKind:
		n := b.Trace.Size
		items := make([]ast.Expr, n)

		for i := uint(0); i < n; i++ {
			access := types.NewDefaultAccess()
			if n > 1 {
				access = types.NewIndexAccess(i)
			}

			items[i] = ast.NewSymbolAccess(v.Name, access, v.RowOffset, v.Span()).WithQualifier(v.Qualifier)
		}

		return items, true
	case scope.ConstantBinding:
		if vec, ok := b.Value.(*ast.ConstVector); ok {
			return scalarsOf(vec.Values, v.Span()), true
		}
	}

	l.sink.Error(diag.KindInvalidListFolding, &sp, nil, "%q does not name a vector-shaped value", v.Name.Text())

	return nil, false
}

func scalarsOf(values []uint64, sp source.Span) []ast.Expr {
	items := make([]ast.Expr, len(values))
	for i, val := range values {
		items[i] = ast.NewConstScalar(val, sp)
	}

	return items
}
