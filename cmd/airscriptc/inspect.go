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

	"github.com/spf13/cobra"

	"github.com/0xPolygonMiden/airscript-go/pkg/compiler"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [scenario]",
	Short: "Compile a named scenario and print the resulting Air.",
	Long: "Compile one of the s1-s6 scenarios from spec.md §8 and print the resulting Air. " +
		"Run with no arguments to list the available scenarios.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			listScenarios()
			return nil
		}

		s, ok := findScenario(args[0])
		if !ok {
			return fmt.Errorf("unknown scenario %q; run %q with no arguments to list them", args[0], cmd.CommandPath())
		}

		fmt.Printf("%s: %s\n", s.Name, s.Description)

		out, diags := compiler.Compile(s.Build())
		if out == nil {
			fmt.Fprintln(os.Stderr, "compilation failed:")
			printDiagnostics(diags)
			os.Exit(1)
		}

		printAir(out)

		return nil
	},
}

func listScenarios() {
	fmt.Println("available scenarios:")
	for _, s := range scenarios {
		fmt.Printf("  %-4s %s\n", s.Name, s.Description)
	}
}
