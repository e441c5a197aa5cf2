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
package ident_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/util/source"
)

func TestIdentifierEqualsIgnoresSpan(t *testing.T) {
	a := ident.NewSpanned("clk", source.NewSpan(0, 3))
	b := ident.NewSpanned("clk", source.NewSpan(10, 13))

	assert.True(t, a.Equals(b))
	assert.Equal(t, "clk", a.Text())
}

func TestQualifiedIdentifierEquals(t *testing.T) {
	mod := ident.New("util")
	a := ident.NewQualified(mod, ident.New("is_binary"))
	b := ident.NewQualified(ident.New("util"), ident.New("is_binary"))

	assert.True(t, a.Equals(b))
	assert.Equal(t, "util::is_binary", a.String())
}

func TestNamespacedIdentifierDistinguishesNamespaces(t *testing.T) {
	name := ident.New("clk")
	binding := ident.NewNamespaced(name, ident.BindingNamespace)
	function := ident.NewNamespaced(name, ident.FunctionNamespace)

	assert.NotEqual(t, binding.Key(), function.Key())
}

func TestInternerRetainsFirstSpan(t *testing.T) {
	in := ident.NewInterner()

	first := in.Intern("clk", source.NewSpan(0, 3))
	second := in.Intern("clk", source.NewSpan(50, 53))

	assert.Equal(t, first.Span(), second.Span())
	assert.Equal(t, 1, in.Size())

	_, ok := in.Lookup("missing")
	assert.False(t, ok)
}

func TestInternerDistinctNames(t *testing.T) {
	in := ident.NewInterner()

	in.Intern("a", source.NewSpan(0, 1))
	in.Intern("b", source.NewSpan(1, 2))

	assert.Equal(t, 2, in.Size())
}
