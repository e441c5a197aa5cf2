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

// Package ident provides the identifier and symbol-naming model shared
// across the compiler: interned names, module-qualified identifiers, and the
// two disjoint namespaces (bindings and functions/evaluators) a name can
// occupy within a module.
package ident

import (
	"fmt"
	"sync"

	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

// Namespace distinguishes the two disjoint name tables every module
// maintains. A trace column and an evaluator function may legally share a
// textual name because they are never looked up through the same namespace.
type Namespace uint8

const (
	// BindingNamespace covers constants, trace columns, public inputs,
	// periodic columns, random values and let-bound variables.
	BindingNamespace Namespace = iota
	// FunctionNamespace covers evaluator function declarations.
	FunctionNamespace
)

// String renders a namespace for diagnostics.
func (n Namespace) String() string {
	switch n {
	case BindingNamespace:
		return "binding"
	case FunctionNamespace:
		return "function"
	default:
		return "unknown"
	}
}

// Identifier is a span-carrying interned name. Two identifiers are equal
// (via Text) when their underlying text matches, regardless of where in the
// source they were written; the Span is retained purely for diagnostics and
// is never significant to equality or hashing.
type Identifier struct {
	text string
	span source.Span
}

// New constructs an identifier directly from text, with no associated span.
// Used for identifiers synthesised by compiler passes (e.g. inlining).
func New(text string) Identifier {
	return Identifier{text: text}
}

// NewSpanned constructs an identifier with an associated source span.
func NewSpanned(text string, span source.Span) Identifier {
	return Identifier{text: text, span: span}
}

// Text returns the underlying textual name.
func (id Identifier) Text() string {
	return id.text
}

// Span returns the source span at which this identifier occurrence was
// written, if any.
func (id Identifier) Span() source.Span {
	return id.span
}

// Equals compares two identifiers by text alone.
func (id Identifier) Equals(other Identifier) bool {
	return id.text == other.text
}

// String implements fmt.Stringer.
func (id Identifier) String() string {
	return id.text
}

// ModuleID identifies a module within a circuit by its interned name.
type ModuleID = Identifier

// QualifiedIdentifier pairs a module identifier with a name local to that
// module, disambiguating names imported from library modules.
type QualifiedIdentifier struct {
	Module ModuleID
	Name   Identifier
}

// NewQualified constructs a qualified identifier.
func NewQualified(module ModuleID, name Identifier) QualifiedIdentifier {
	return QualifiedIdentifier{Module: module, Name: name}
}

// Equals compares two qualified identifiers by module and name text.
func (q QualifiedIdentifier) Equals(other QualifiedIdentifier) bool {
	return q.Module.Equals(other.Module) && q.Name.Equals(other.Name)
}

// String implements fmt.Stringer.
func (q QualifiedIdentifier) String() string {
	return fmt.Sprintf("%s::%s", q.Module.Text(), q.Name.Text())
}

// NamespacedIdentifier pairs an identifier with the namespace it occupies,
// used as the key for scope lookups so that a binding and an evaluator
// function of the same textual name never collide.
type NamespacedIdentifier struct {
	Name      Identifier
	Namespace Namespace
}

// NewNamespaced constructs a namespaced identifier.
func NewNamespaced(name Identifier, ns Namespace) NamespacedIdentifier {
	return NamespacedIdentifier{Name: name, Namespace: ns}
}

// Key returns a value usable as a Go map key, since Identifier itself embeds
// a non-comparable-for-equality Span (two spans differ even when the text is
// identical, so the raw struct cannot be used as a map key directly).
func (n NamespacedIdentifier) Key() string {
	return fmt.Sprintf("%d:%s", n.Namespace, n.Name.Text())
}

// String implements fmt.Stringer.
func (n NamespacedIdentifier) String() string {
	return fmt.Sprintf("%s(%s)", n.Namespace, n.Name.Text())
}

// Interner is a mutex-guarded table of canonical identifiers. It is always
// held behind an explicit handle (never a package level global) so
// independent interners - in tests or concurrent CLI invocations - do not
// interfere with one another. No pass of the compiler pipeline takes an
// Interner: the passes work on identifiers built with New directly.
type Interner struct {
	mu    sync.Mutex
	table map[string]Identifier
}

// NewInterner constructs an empty interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]Identifier)}
}

// Intern returns the canonical Identifier for the given text, recording its
// span the first time the text is seen and retaining that first span on
// every subsequent call. This mirrors the go-corset posture of an explicit
// environment object rather than a global table.
func (in *Interner) Intern(text string, span source.Span) Identifier {
	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.table[text]; ok {
		return id
	}

	id := NewSpanned(text, span)
	in.table[text] = id

	return id
}

// Lookup returns the interned identifier for text, if any text has been
// interned with that value.
func (in *Interner) Lookup(text string) (Identifier, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	id, ok := in.table[text]

	return id, ok
}

// Size returns the number of distinct names currently interned.
func (in *Interner) Size() int {
	in.mu.Lock()
	defer in.mu.Unlock()

	return len(in.table)
}
