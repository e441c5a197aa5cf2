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

// Package compiler drives the full pipeline a Circuit passes through on its
// way to an air.Air: semantic analysis, constant propagation, inlining, and
// lowering, in that fixed order. Each pass accumulates diagnostics into a
// shared sink; the driver stops at the first pass boundary where an
// error-severity diagnostic was recorded, per spec.md §4.1's pipeline
// ordering.
package compiler

import (
	log "github.com/sirupsen/logrus"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/constprop"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/inline"
	"github.com/0xPolygonMiden/airscript-go/pkg/library"
	"github.com/0xPolygonMiden/airscript-go/pkg/lower"
	"github.com/0xPolygonMiden/airscript-go/pkg/sema"
)

// Config encapsulates options affecting compilation.
type Config struct {
	// Debug enables per-pass debug logging of the circuit's diagnostic
	// counts via logrus.
	Debug bool
}

// Compiler packages up everything needed to compile a single Circuit down
// into an air.Air.
type Compiler struct {
	circuit *ast.Circuit
	lib     library.Library
	config  Config
}

// New constructs a compiler for the given circuit, resolving imports
// against lib (nil is a valid empty library).
func New(circuit *ast.Circuit, lib library.Library, config Config) *Compiler {
	return &Compiler{circuit: circuit, lib: lib, config: config}
}

// Compile runs every pass of the pipeline in order, returning the resulting
// air.Air and every diagnostic accumulated along the way. A nil Air return
// means at least one pass recorded an error; the returned diagnostics
// explain why.
func (c *Compiler) Compile() (*air.Air, []diag.Diagnostic) {
	sink := diag.NewSink()

	result := sema.Analyze(c.circuit, c.lib, sink)
	c.logPass("sema", sink)

	if result == nil {
		return nil, sink.Diagnostics()
	}

	constprop.Propagate(c.circuit, result.Modules, sink)
	c.logPass("constprop", sink)

	if sink.HasErrors() {
		return nil, sink.Diagnostics()
	}

	inline.Inline(c.circuit, result.Modules, sink)
	c.logPass("inline", sink)

	if sink.HasErrors() {
		return nil, sink.Diagnostics()
	}

	out := lower.Lower(c.circuit, result.Modules, result, sink)
	c.logPass("lower", sink)

	if sink.HasErrors() {
		return nil, sink.Diagnostics()
	}

	out.SetDiagnostics(sink.Diagnostics())

	return out, sink.Diagnostics()
}

func (c *Compiler) logPass(name string, sink *diag.Sink) {
	if !c.config.Debug {
		return
	}

	log.WithFields(log.Fields{
		"pass":        name,
		"diagnostics": len(sink.Diagnostics()),
	}).Debug("compiler pass complete")
}

// Compile is a convenience wrapper for compiling a circuit with default
// options and no library, sufficient for callers that have nothing to
// import.
func Compile(circuit *ast.Circuit) (*air.Air, []diag.Diagnostic) {
	return New(circuit, nil, Config{}).Compile()
}
