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
package imports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/imports"
	"github.com/0xPolygonMiden/airscript-go/pkg/library"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

func buildCircuit(t *testing.T, extraUses ...*ast.Use) (*ast.Circuit, *ast.Module) {
	t.Helper()

	span := source.NewSpan(0, 0)
	root := ident.New("main")
	circuit := ast.NewCircuit(root)

	util := ast.NewModule(ident.New("util"), false, span)
	util.Add(ast.NewDeclareConstant(ident.New("one"), ast.NewConstScalar(1, span), span))
	circuit.AddModule(util)

	rootMod := ast.NewModule(root, true, span)
	for _, u := range extraUses {
		rootMod.Add(u)
	}
	circuit.AddModule(rootMod)

	return circuit, rootMod
}

func TestResolveWildcardImport(t *testing.T) {
	span := source.NewSpan(0, 0)
	use := ast.NewWildcardUse(ident.New("util"), span)
	circuit, rootMod := buildCircuit(t, use)

	sink := diag.NewSink()
	table := imports.Resolve(circuit, nil, sink)

	require.False(t, sink.HasErrors())
	assert.Len(t, table[rootMod.Name.Text()], 1)
}

func TestResolveSelfImportRejected(t *testing.T) {
	span := source.NewSpan(0, 0)
	use := ast.NewWildcardUse(ident.New("main"), span)
	circuit, _ := buildCircuit(t, use)

	sink := diag.NewSink()
	imports.Resolve(circuit, nil, sink)

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.KindImportSelf, sink.Errors()[0].Kind)
}

func TestResolveRootImportRejected(t *testing.T) {
	span := source.NewSpan(0, 0)
	use := ast.NewWildcardUse(ident.New("main"), span)

	circuit := ast.NewCircuit(ident.New("main"))
	other := ast.NewModule(ident.New("other"), false, span)
	other.Add(use)
	circuit.AddModule(other)
	circuit.AddModule(ast.NewModule(ident.New("main"), true, span))

	sink := diag.NewSink()
	table := imports.Resolve(circuit, nil, sink)
	_ = table

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.KindImportRoot, sink.Errors()[0].Kind)
}

func TestResolveUndefinedItem(t *testing.T) {
	span := source.NewSpan(0, 0)
	use := ast.NewItemUse(ident.New("util"), ident.New("missing"), span)
	circuit, _ := buildCircuit(t, use)

	sink := diag.NewSink()
	imports.Resolve(circuit, nil, sink)

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.KindImportUndefined, sink.Errors()[0].Kind)
}

func TestResolveConflictingImports(t *testing.T) {
	span := source.NewSpan(0, 0)

	circuit := ast.NewCircuit(ident.New("main"))

	a := ast.NewModule(ident.New("a"), false, span)
	a.Add(ast.NewDeclareConstant(ident.New("one"), ast.NewConstScalar(1, span), span))
	circuit.AddModule(a)

	b := ast.NewModule(ident.New("b"), false, span)
	b.Add(ast.NewDeclareConstant(ident.New("one"), ast.NewConstScalar(2, span), span))
	circuit.AddModule(b)

	rootMod := ast.NewModule(ident.New("main"), true, span)
	rootMod.Add(ast.NewWildcardUse(ident.New("a"), span))
	rootMod.Add(ast.NewWildcardUse(ident.New("b"), span))
	circuit.AddModule(rootMod)

	sink := diag.NewSink()
	imports.Resolve(circuit, nil, sink)

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.KindImportConflict, sink.Errors()[0].Kind)
}

func TestResolveFallsBackToExternalLibrary(t *testing.T) {
	span := source.NewSpan(0, 0)
	libMod := library.NewStaticModule(ident.New("std"), library.Export{
		Kind: library.Constant,
		Name: ident.New("zero"),
	})
	lib := library.NewStaticLibrary(libMod)

	circuit := ast.NewCircuit(ident.New("main"))
	rootMod := ast.NewModule(ident.New("main"), true, span)
	rootMod.Add(ast.NewWildcardUse(ident.New("std"), span))
	circuit.AddModule(rootMod)

	sink := diag.NewSink()
	table := imports.Resolve(circuit, lib, sink)

	require.False(t, sink.HasErrors())
	assert.Len(t, table["main"], 1)
}
