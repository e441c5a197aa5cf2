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

// Package imports resolves `use module::*` and `use module::item`
// declarations into a flat per-module import table, detecting redundant and
// conflicting imports along the way.
package imports

import (
	"fmt"

	"github.com/0xPolygonMiden/airscript-go/pkg/ast"
	"github.com/0xPolygonMiden/airscript-go/pkg/diag"
	"github.com/0xPolygonMiden/airscript-go/pkg/ident"
	"github.com/0xPolygonMiden/airscript-go/pkg/library"
)

// Item is one resolved import: the export it names, and the module it was
// sourced from (so later passes can build fully-qualified references).
type Item struct {
	Source ident.Identifier
	Export library.Export
}

// namespaceOf maps an export kind to the namespace it occupies.
func namespaceOf(kind library.ExportKind) ident.Namespace {
	if kind == library.Evaluator {
		return ident.FunctionNamespace
	}

	return ident.BindingNamespace
}

// Imported is the per-module import table, keyed by the namespaced
// identifier's stable map key (see ident.NamespacedIdentifier.Key).
type Imported map[string]Item

// Resolve builds the import table of every module in circuit, consulting
// both sibling modules within the circuit and lib for modules defined
// outside it. It returns one table per module, keyed by module name.
func Resolve(circuit *ast.Circuit, lib library.Library, sink *diag.Sink) map[string]Imported {
	result := make(map[string]Imported, len(circuit.Modules))

	for name, mod := range circuit.Modules {
		result[name] = resolveModule(circuit, mod, lib, sink)
	}

	return result
}

// resolveModule resolves the import table for a single module.
func resolveModule(circuit *ast.Circuit, mod *ast.Module, lib library.Library, sink *diag.Sink) Imported {
	imported := make(Imported)
	locals := localNamespacedNames(mod)

	for _, decl := range mod.Declarations {
		use, ok := decl.(*ast.Use)
		if !ok {
			continue
		}

		resolveUse(circuit, mod, use, lib, imported, locals, sink)
	}

	return imported
}

// resolveUse resolves a single Use declaration, recording results into
// imported and reporting diagnostics to sink.
func resolveUse(
	circuit *ast.Circuit,
	mod *ast.Module,
	use *ast.Use,
	lib library.Library,
	imported Imported,
	locals map[string]bool,
	sink *diag.Sink,
) {
	moduleName := use.Module.Text()

	if moduleName == mod.Name.Text() {
		span := use.Span()
		sink.Error(diag.KindImportSelf, &span, nil, "module %q cannot import from itself", moduleName)

		return
	}

	if moduleName == circuit.Root.Text() {
		span := use.Span()
		sink.Error(diag.KindImportRoot, &span, nil, "cannot import from root module %q", moduleName)

		return
	}

	exports, ok := lookupExports(circuit, moduleName, lib)
	if !ok {
		span := use.Span()
		sink.Error(diag.KindImportUndefined, &span, nil, "unknown module %q", moduleName)

		return
	}

	if use.Wildcard {
		for _, exp := range exports {
			recordImport(use, exp, imported, locals, sink)
		}

		return
	}

	for _, exp := range exports {
		if exp.Name.Equals(use.Item) {
			recordImport(use, exp, imported, locals, sink)

			return
		}
	}

	span := use.Span()
	sink.Error(diag.KindImportUndefined, &span, nil, "module %q does not export %q", moduleName, use.Item.Text())
}

// recordImport inserts a single resolved export into imported, reporting a
// name conflict, a redundant-import warning, or a cross-module conflict
// error as appropriate.
func recordImport(use *ast.Use, exp library.Export, imported Imported, locals map[string]bool, sink *diag.Sink) {
	ns := namespaceOf(exp.Kind)
	key := ident.NewNamespaced(exp.Name, ns).Key()
	span := use.Span()

	if locals[key] {
		sink.Error(diag.KindNameConflict, &span, nil,
			"import %q from module %q conflicts with a local declaration", exp.Name.Text(), use.Module.Text())

		return
	}

	if existing, ok := imported[key]; ok {
		if existing.Source.Equals(use.Module) {
			sink.Warn(diag.KindDuplicateIdentifier, &span, nil, "redundant import of %q from %q", exp.Name.Text(), use.Module.Text())
		} else {
			sink.Error(diag.KindImportConflict, &span, nil,
				"import %q conflicts between modules %q and %q", exp.Name.Text(), existing.Source.Text(), use.Module.Text())
		}

		return
	}

	imported[key] = Item{Source: use.Module, Export: exp}
}

// lookupExports finds the exports of moduleName, first among the circuit's
// own (non-root) modules, then falling back to the external library.
func lookupExports(circuit *ast.Circuit, moduleName string, lib library.Library) ([]library.Export, bool) {
	if mod, ok := circuit.Modules[moduleName]; ok {
		return moduleExports(mod), true
	}

	if lib != nil {
		if mod, ok := lib.Lookup(moduleName); ok {
			return mod.Exports(), true
		}
	}

	return nil, false
}

// moduleExports computes the export list of a locally-defined module: its
// constants, periodic columns, and evaluator functions.
func moduleExports(mod *ast.Module) []library.Export {
	var exports []library.Export

	for _, decl := range mod.Declarations {
		switch d := decl.(type) {
		case *ast.DeclareConstant:
			exports = append(exports, library.Export{Kind: library.Constant, Name: d.Name, Constant: d})
		case *ast.DeclareEvaluator:
			exports = append(exports, library.Export{Kind: library.Evaluator, Name: d.Name, Evaluator: d})
		case *ast.DeclarePeriodicColumns:
			for i := range d.Columns {
				col := d.Columns[i]
				exports = append(exports, library.Export{Kind: library.PeriodicColumn, Name: col.Name, PeriodicColumn: &col})
			}
		}
	}

	return exports
}

// localNamespacedNames computes the set of namespaced-identifier keys
// declared locally within mod, used to detect import/local-declaration
// conflicts.
func localNamespacedNames(mod *ast.Module) map[string]bool {
	names := make(map[string]bool)

	add := func(name ident.Identifier, ns ident.Namespace) {
		names[ident.NewNamespaced(name, ns).Key()] = true
	}

	for _, decl := range mod.Declarations {
		switch d := decl.(type) {
		case *ast.DeclareConstant:
			add(d.Name, ident.BindingNamespace)
		case *ast.DeclareEvaluator:
			add(d.Name, ident.FunctionNamespace)
		case *ast.DeclarePeriodicColumns:
			for _, col := range d.Columns {
				add(col.Name, ident.BindingNamespace)
			}
		case *ast.DeclareRandomValues:
			add(d.Name, ident.BindingNamespace)
		case *ast.DeclareTraceColumns:
			for _, b := range d.Bindings {
				add(b.Name, ident.BindingNamespace)
			}
		case *ast.DeclarePublicInputs:
			for _, b := range d.Inputs {
				add(b.Name, ident.BindingNamespace)
			}
		}
	}

	return names
}

// DebugString renders an import table for diagnostics/logging.
func (imported Imported) DebugString() string {
	s := ""
	for k, v := range imported {
		s += fmt.Sprintf("%s -> %s::%s\n", k, v.Source.Text(), v.Export.Name.Text())
	}

	return s
}
