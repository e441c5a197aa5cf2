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

// Package diag implements the diagnostics sink shared by every compiler
// pass: an accumulate-then-report mechanism for errors and warnings, and the
// stable CompileError taxonomy surfaced across the package boundary.
package diag

import (
	"fmt"

	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// Severity distinguishes diagnostics that abort compilation from those that
// merely inform the user.
type Severity uint8

const (
	// Error severity diagnostics cause the enclosing pass to fail; no
	// further passes run once any have been recorded.
	Error Severity = iota
	// Warning severity diagnostics are informational and do not prevent
	// compilation from completing.
	Warning
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

// Kind enumerates the stable categories of compile failure a caller can
// pattern-match against, independent of the free-form message text.
type Kind uint8

const (
	// KindUnknownIdentifier: a reference to an undeclared symbol.
	KindUnknownIdentifier Kind = iota
	// KindDuplicateIdentifier: a name declared more than once in the same
	// namespace and scope.
	KindDuplicateIdentifier
	// KindNameConflict: a name conflicts across the binding/function
	// namespaces in a way the language forbids (e.g. import shadows a
	// local declaration).
	KindNameConflict
	// KindInvalidAccess: an index, slice, or matrix access that does not
	// apply to the accessed value's type.
	KindInvalidAccess
	// KindInvalidConstraint: a constraint expression violates a structural
	// rule (e.g. both sides of `=` have incompatible shapes).
	KindInvalidConstraint
	// KindInvalidConstraintDomain: two occurrences of the same constraint
	// assert incompatible domains (see air.MergeDomains).
	KindInvalidConstraintDomain
	// KindBoundaryAlreadyConstrained: a second boundary constraint was
	// declared for a (segment, column, domain) triple already constrained.
	KindBoundaryAlreadyConstrained
	// KindTraceSegmentMismatch: an expression mixes trace accesses from
	// incompatible segments.
	KindTraceSegmentMismatch
	// KindMissingRequiredSection: a required module section (e.g.
	// trace_columns) is absent from the root module.
	KindMissingRequiredSection
	// KindSectionInWrongModule: a section restricted to root or library
	// modules appears in the wrong kind of module.
	KindSectionInWrongModule
	// KindInvalidPeriodicCycle: a periodic column's cycle length is not a
	// power of two, or is below the minimum cycle length.
	KindInvalidPeriodicCycle
	// KindInvalidMatrixLiteral: a matrix literal's rows have inconsistent
	// lengths.
	KindInvalidMatrixLiteral
	// KindImportConflict: two imports bind the same local name to
	// different sources.
	KindImportConflict
	// KindImportUndefined: an imported name is not exported by the
	// referenced module.
	KindImportUndefined
	// KindImportRoot: an import references the root module, which cannot
	// be imported from.
	KindImportRoot
	// KindImportSelf: a module imports from itself.
	KindImportSelf
	// KindInvalidComprehension: a comprehension's iterables disagree in
	// length, or its binding shadows an existing name illegally.
	KindInvalidComprehension
	// KindInvalidListFolding: a fold (sum/prod) is applied to something
	// other than an iterable of scalars.
	KindInvalidListFolding
	// KindNonConstantExponent: the exponent of a `^` expression is not a
	// literal constant.
	KindNonConstantExponent
	// KindInvalidEvaluatorArgument: an evaluator call supplies an argument
	// of the wrong shape, or the wrong number of arguments.
	KindInvalidEvaluatorArgument
	// KindUndeclaredEvaluator: a call references an evaluator function
	// that was not declared or imported.
	KindUndeclaredEvaluator
)

// CompileError is the stable, user-facing failure value produced by the
// compiler. It wraps a Kind, a human-readable message, and an optional
// primary span identifying where in the source the failure occurred.
type CompileError struct {
	Kind Kind
	Msg  string
	Span *source.Span
	File *source.File
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Span == nil {
		return e.Msg
	}

	return fmt.Sprintf("%d:%d: %s", e.Span.Start(), e.Span.End(), e.Msg)
}

// Diagnostic is a single recorded entry in a Sink: a severity-tagged
// message with an optional primary span.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Msg      string
	Span     *source.Span
	File     *source.File
}

// CompileError converts this diagnostic into a CompileError value,
// regardless of its severity. Callers filtering for hard failures should
// check Severity first.
func (d Diagnostic) CompileError() *CompileError {
	return &CompileError{Kind: d.Kind, Msg: d.Msg, Span: d.Span, File: d.File}
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	if d.Span == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Msg)
	}

	return fmt.Sprintf("%s: %d:%d: %s", d.Severity, d.Span.Start(), d.Span.End(), d.Msg)
}

// Sink accumulates diagnostics across a pass, or across an entire
// compilation. Passes append to the sink as they discover problems and keep
// running where it is useful to report multiple independent errors at once;
// the pipeline driver checks HasErrors() at each pass boundary and stops
// short if any were recorded, per the accumulate-then-fail-at-pass-boundary
// discipline the pipeline implements.
type Sink struct {
	entries []Diagnostic
}

// NewSink constructs an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{}
}

// Error records an error-severity diagnostic.
func (s *Sink) Error(kind Kind, span *source.Span, file *source.File, format string, args ...any) {
	s.entries = append(s.entries, Diagnostic{
		Severity: Error,
		Kind:     kind,
		Msg:      fmt.Sprintf(format, args...),
		Span:     span,
		File:     file,
	})
}

// Warn records a warning-severity diagnostic.
func (s *Sink) Warn(kind Kind, span *source.Span, file *source.File, format string, args ...any) {
	s.entries = append(s.entries, Diagnostic{
		Severity: Warning,
		Kind:     kind,
		Msg:      fmt.Sprintf(format, args...),
		Span:     span,
		File:     file,
	})
}

// HasErrors reports whether any error-severity diagnostic has been
// recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.entries {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

// Diagnostics returns every diagnostic recorded so far, in recording order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.entries
}

// Errors returns every CompileError corresponding to an error-severity
// diagnostic recorded so far.
func (s *Sink) Errors() []CompileError {
	var errs []CompileError

	for _, d := range s.entries {
		if d.Severity == Error {
			errs = append(errs, *d.CompileError())
		}
	}

	return errs
}

// Merge appends every diagnostic from other into this sink, preserving
// order. Both sinks' entries end up in one sequence: this sink's first,
// then other's.
func (s *Sink) Merge(other *Sink) {
	s.entries = append(s.entries, other.entries...)
}
