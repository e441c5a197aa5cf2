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

import (
	"fmt"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/types"
)

// inferLiteralType computes the Type of a constant declaration's literal
// value, rejecting a ragged matrix literal (spec.md §7's
// invalid-matrix-literal error).
func inferLiteralType(e ast.Expr) (types.Type, error) {
	switch v := e.(type) {
	case *ast.ConstScalar:
		return types.NewFelt(), nil
	case *ast.ConstVector:
		return types.NewVector(uint(len(v.Values))), nil
	case *ast.ConstMatrix:
		if len(v.Rows) == 0 {
			return types.Type{}, fmt.Errorf("matrix literal has no rows")
		}

		cols := len(v.Rows[0])
		for _, row := range v.Rows {
			if len(row) != cols {
				return types.Type{}, fmt.Errorf("ragged matrix literal: rows of differing length")
			}
		}

		return types.NewMatrix(uint(len(v.Rows)), uint(cols)), nil
	default:
		// A constant whose declared value is not yet a literal (e.g. an
		// expression over other constants) is legal at declaration time;
		// pkg/constprop folds it before any consumer resolves its shape.
		// Until then, report the most permissive type.
		return types.NewFelt(), nil
	}
}
