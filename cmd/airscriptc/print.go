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
package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
)

// ruleWidth returns the width of a separator rule: the terminal's current
// width when stdout is a terminal, or a fixed fallback otherwise (e.g. when
// piped to a file or another process).
func ruleWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}

	return 72
}

func rule() string {
	return strings.Repeat("-", ruleWidth())
}

// printAir renders a compiled Air to stdout: segment widths, public inputs,
// periodic columns, and every boundary/integrity root's node, domain and
// degree, per segment.
func printAir(out *air.Air) {
	fmt.Printf("air %q\n", out.Name())
	fmt.Println(rule())
	fmt.Printf("segments:     %v\n", out.SegmentWidths())
	fmt.Printf("random values: %d\n", out.NumRandomValues())

	if inputs := out.PublicInputs(); len(inputs) > 0 {
		fmt.Println("public inputs:")
		for _, p := range inputs {
			fmt.Printf("  %s[%d]\n", p.Name, p.Size)
		}
	}

	if periodic := out.PeriodicColumns(); len(periodic) > 0 {
		fmt.Println("periodic columns:")
		for _, p := range periodic {
			fmt.Printf("  %s (cycle %d)\n", p.Name, p.CycleLen())
		}
	}

	graph := out.Graph()

	for seg := 0; seg < out.NumSegments(); seg++ {
		fmt.Println(rule())
		fmt.Printf("segment %d\n", seg)

		printRoots(graph, "boundary", out.BoundaryConstraints(uint(seg)))
		printRoots(graph, "integrity", out.IntegrityConstraints(uint(seg)))

		degrees := out.IntegrityDegrees(uint(seg))
		for i, d := range degrees {
			fmt.Printf("  integrity[%d] degree: base=%d cycles=%v\n", i, d.Base, d.Cycles)
		}
	}

	if diags := out.Diagnostics(); len(diags) > 0 {
		fmt.Println(rule())
		fmt.Println("warnings:")
		printDiagnostics(diags)
	}
}

func printRoots(graph *air.AlgebraicGraph, label string, roots []air.ConstraintRoot) {
	for i, r := range roots {
		fmt.Printf("  %s[%d] domain=%s node=%s\n", label, i, r.Domain, graph.Node(r.Node).Op)
	}
}

func printDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Printf("  %s\n", d)
	}
}
