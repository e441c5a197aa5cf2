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

// Command airscriptc is a demo harness for the AirScript compiler core: it
// builds the literal scenarios from spec.md §8 directly through the pkg/ast
// builder API, since this core has no concrete-syntax parser of its own,
// and compiles and inspects them through pkg/compiler.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building with a release pipeline, but not when
// installed via "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "airscriptc",
	Short: "A demo harness for the AirScript compiler core.",
	Long:  "Builds and compiles the literal spec.md scenarios through the AirScript compiler core.",
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the airscriptc version.",
	Run: func(cmd *cobra.Command, args []string) {
		if Version != "" {
			fmt.Println(Version)
			return
		}

		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Println(info.Main.Version)
			return
		}

		fmt.Println("(unknown version)")
	},
}

// Execute runs the root command. Called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
