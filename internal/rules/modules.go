package rules

import (
	"strings"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func noWildcardImport() lint.Rule {
	return lint.Rule{
		ID:          "no-wildcard-import",
		Kinds:       []ast.NodeKind{ast.NodeImport},
		Severity:    diag.SevWarning,
		Description: "Disallow namespace (wildcard) imports.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			data, ok := tree.Import(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if !data.Namespace {
				return nil, nil
			}
			from, _ := tree.Strings.Lookup(data.Source)
			return found("wildcard import from %q; import the default export or named bindings", from)
		},
	}
}

func noExportFrom() lint.Rule {
	return lint.Rule{
		ID:          "no-export-from",
		Kinds:       []ast.NodeKind{ast.NodeExport},
		Severity:    diag.SevWarning,
		Description: "Disallow exporting directly from an import.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			data, ok := tree.Export(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if !data.ReExport() {
				return nil, nil
			}
			from, _ := tree.Strings.Lookup(data.Source)
			return found("re-export from %q; import first, then export", from)
		},
	}
}

// noCommonJS reports require() calls and writes to module.exports or exports.
func noCommonJS() lint.Rule {
	return lint.Rule{
		ID:          "no-commonjs",
		Kinds:       []ast.NodeKind{ast.NodeCall, ast.NodeAssign},
		Severity:    diag.SevWarning,
		Description: "Prefer import/export over CommonJS require and module.exports.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			switch tree.Kind(id) {
			case ast.NodeCall:
				call, _ := tree.Call(id)
				if calleeName(tree, call) != "require" || len(call.Args) != 1 || !isLiteral(tree, call.Args[0], ast.LitString) {
					return nil, nil
				}
				return found("use import instead of require()")
			case ast.NodeAssign:
				data, _ := tree.Assign(id)
				path, ok := tree.DotPath(data.Target)
				if !ok {
					return nil, nil
				}
				if path == "module.exports" || strings.HasPrefix(path, "module.exports.") || strings.HasPrefix(path, "exports.") {
					return found("use export instead of assigning to %s", path)
				}
				return nil, nil
			}
			return nil, unexpected(tree, id)
		},
	}
}
