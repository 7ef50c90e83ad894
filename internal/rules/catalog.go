package rules

import "stylint/internal/lint"

// Catalog returns every known rule in a fixed order. The order is the
// registration order and therefore the evaluation order on each node.
func Catalog() []lint.Rule {
	return []lint.Rule{
		noNestedTernary(),
		noUnneededTernary(),
		preferObjectSpread(),
		noPrototypeBuiltins(),
		dotNotation(),
		noAccessors(),
		noParamReassign(),
		noArguments(),
		noFuncInBlock(),
		noGenerators(),
		funcNames(),
		preferSpread(),
		braceBlockScopedDecls(),
		noVar(),
		noChainedAssignment(),
		noThisAlias(),
		noUnderscoreDangle(),
		camelcase(),
		newCap(),
		noWildcardImport(),
		noExportFrom(),
		noCommonJS(),
		preferTemplate(),
		eqeqeq(),
		noMixedOperators(),
		noLogicalStatement(),
		noNewWrappers(),
		radix(),
		preferArrayFrom(),
		noWith(),
		curly(),
		noIteratorLoops(),
	}
}

// Defaults lists the ids of the recommended rules.
func Defaults() []string {
	var ids []string
	for _, r := range Catalog() {
		if !r.Optional {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Lookup finds a catalog rule by id.
func Lookup(id string) (lint.Rule, bool) {
	for _, r := range Catalog() {
		if r.ID == id {
			return r, true
		}
	}
	return lint.Rule{}, false
}
