package rules

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylint/internal/diag"
	"stylint/internal/lint"
	"stylint/internal/parser"
	"stylint/internal/source"
	"stylint/internal/testkit"
)

func lintSource(t *testing.T, src string, ids ...string) []diag.Diagnostic {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("case.js", []byte(src))
	parseErrs := diag.NewBag(0)
	res, err := parser.ParseFile(context.Background(), fs, fid, parser.Options{Reporter: diag.BagReporter{Bag: parseErrs}})
	require.NoError(t, err)
	require.Zero(t, parseErrs.Len(), "fixture must parse cleanly: %v", parseErrs.Items())

	sel := lint.Selection{Recommended: len(ids) == 0}
	for _, id := range ids {
		sel.Settings = append(sel.Settings, lint.Setting{ID: id})
	}
	reg, err := lint.Configure(Catalog(), sel)
	require.NoError(t, err)

	out, err := lint.Walk(context.Background(), reg, res.Tree)
	require.NoError(t, err)
	require.NoError(t, testkit.CheckDiagnostics(out))
	for _, d := range out {
		require.NotEqual(t, diag.RuleInternalFailure, d.Rule, d.Message)
		require.True(t, res.Tree.Span(res.Tree.Root).Contains(d.Primary))
	}
	return out
}

func TestRules_Snippets(t *testing.T) {
	cases := []struct {
		rule string
		src  string
		want int
	}{
		{"no-nested-ternary", "const v = a ? b : c ? d : e;", 1},
		{"no-nested-ternary", "const v = a ? (b ? c : d) : e;", 1},
		{"no-nested-ternary", "const v = (a ? b : c) ? d : e;", 0},
		{"no-nested-ternary", "const v = a ? b : c;", 0},

		{"no-unneeded-ternary", "x = c ? true : false;", 1},
		{"no-unneeded-ternary", "x = c ? false : true;", 1},
		{"no-unneeded-ternary", "x = a ? a : b;", 1},
		{"no-unneeded-ternary", "x = a != null ? a : b;", 1},
		{"no-unneeded-ternary", "x = a ? b : c;", 0},

		{"prefer-object-spread", "Object.assign({}, a, b.c);", 1},
		{"prefer-object-spread", "Object.assign({}, { a: 1 });", 1},
		{"prefer-object-spread", "Object.assign(target, a);", 0},
		{"prefer-object-spread", "Object.assign({}, ...arr);", 0},
		{"prefer-object-spread", "const x = { ...a };", 0},

		{"no-prototype-builtins", "obj.hasOwnProperty(key);", 1},
		{"no-prototype-builtins", "obj['isPrototypeOf'](x);", 1},
		{"no-prototype-builtins", "Object.prototype.hasOwnProperty.call(obj, key);", 0},

		{"dot-notation", "obj['name'];", 1},
		{"dot-notation", "obj['attr-2'];", 0},
		{"dot-notation", "obj[attr];", 0},

		{"no-param-reassign", "function f(a) { a = 1; }", 1},
		{"no-param-reassign", "function f(a) { a++; }", 1},
		{"no-param-reassign", "function f({ a }) { a = 1; }", 1},
		{"no-param-reassign", "const f = (a) => { [a] = [1]; };", 1},
		{"no-param-reassign", "function f(a) { if (x) { let a = 2; a = 3; } }", 0},
		{"no-param-reassign", "function f(a) { b = 1; a.x = 2; }", 0},
		{"no-param-reassign", "function f(a) { const g = () => { a = 1; }; }", 0},

		{"no-arguments", "function f() { return arguments.length; }", 1},
		{"no-arguments", "function f(arguments) {}", 1},
		{"no-arguments", "obj.arguments;", 0},
		{"no-arguments", "function f(...args) { return args; }", 0},

		{"no-func-in-block", "if (x) { function g() {} }", 1},
		{"no-func-in-block", "function f() { function g() {} }", 0},
		{"no-func-in-block", "function g() {}", 0},
		{"no-func-in-block", "switch (x) { case 1: { function g() {} } }", 0},

		{"no-generators", "function* g() {}", 1},
		{"no-generators", "const o = { *m() {} };", 1},
		{"no-generators", "function g() {}", 0},

		{"func-names", "const f = function () {};", 1},
		{"func-names", "const f = function named() {};", 0},
		{"func-names", "const f = () => 1;", 0},

		{"prefer-spread", "fn.apply(null, args);", 1},
		{"prefer-spread", "obj.fn.apply(obj, args);", 1},
		{"prefer-spread", "console.log.apply(console, x);", 1},
		{"prefer-spread", "fn.apply(other, args);", 0},
		{"prefer-spread", "fn.apply(null, [1, 2]);", 0},

		{"brace-block-scoped-decls", "switch (x) { case 1: let y = 1; break; }", 1},
		{"brace-block-scoped-decls", "switch (x) { case 1: { let y = 1; break; } }", 0},
		{"brace-block-scoped-decls", "switch (x) { default: class C {} }", 1},
		{"brace-block-scoped-decls", "switch (x) { case 1: case 2: function f() {} }", 1},
		{"brace-block-scoped-decls", "switch (x) { case 1: var y = 1; }", 0},

		{"no-var", "var x = 1;", 1},
		{"no-var", "let x = 1;", 0},
		{"no-var", "for (var i in o) {}", 1},

		{"no-chained-assignment", "let a = b = c = 1;", 1},
		{"no-chained-assignment", "a = b = 1;", 1},
		{"no-chained-assignment", "a = (b = 1);", 1},
		{"no-chained-assignment", "let a = 1;", 0},

		{"no-this-alias", "const that = this;", 1},
		{"no-this-alias", "self = this;", 1},
		{"no-this-alias", "const x = this.y;", 0},

		{"no-underscore-dangle", "const _x = 1;", 1},
		{"no-underscore-dangle", "this.__first__ = 'p';", 1},
		{"no-underscore-dangle", "const x_y = 1;", 0},
		{"no-underscore-dangle", "obj._x;", 0},
		{"no-underscore-dangle", "const _ = 1;", 0},

		{"no-wildcard-import", `import * as ns from "m";`, 1},
		{"no-wildcard-import", `import d from "m";`, 0},

		{"no-export-from", `export { a } from "m";`, 1},
		{"no-export-from", `export * from "m";`, 1},
		{"no-export-from", `export { a };`, 0},

		{"no-commonjs", "const x = require('./x');", 1},
		{"no-commonjs", "module.exports = x;", 1},
		{"no-commonjs", "exports.y = 1;", 1},
		{"no-commonjs", "require(name);", 0},

		{"eqeqeq", "a == b;", 1},
		{"eqeqeq", "a != b;", 1},
		{"eqeqeq", "a == null;", 0},
		{"eqeqeq", "a === b;", 0},

		{"no-mixed-operators", "x = a && b < 0 || c > 0 || d + 1 === 0;", 1},
		{"no-mixed-operators", "x = a ** b - 5 % d;", 1},
		{"no-mixed-operators", "x = a + b / c * d;", 1},
		{"no-mixed-operators", "x = (a && b) || c;", 0},
		{"no-mixed-operators", "x = a + b - c;", 0},

		{"no-logical-statement", "!isRunning && startRunning();", 1},
		{"no-logical-statement", "if (!isRunning) { startRunning(); }", 0},
		{"no-logical-statement", "x = a && b;", 0},

		{"no-new-wrappers", "new String(x);", 1},
		{"no-new-wrappers", "new Boolean(x);", 1},
		{"no-new-wrappers", "String(x);", 0},
		{"no-new-wrappers", "new Map();", 0},

		{"radix", "parseInt(input);", 1},
		{"radix", "Number.parseInt(s);", 1},
		{"radix", "parseInt(input, 10);", 0},

		{"prefer-array-from", "Array.prototype.slice.call(arrLike);", 1},
		{"prefer-array-from", "Array.from(arrLike);", 0},

		{"no-with", "with (obj) { a; }", 1},

		{"prefer-template", "x = 'a' + b;", 1},
		{"prefer-template", "x = 'a' + b + 'c' + d;", 1},
		{"prefer-template", "x = 'n: ' + 1;", 1},
		{"prefer-template", "x = a + ('b' + c);", 1},
		{"prefer-template", "x = a + b;", 0},
		{"prefer-template", "x = 'a' + 'b';", 0},
		{"prefer-template", "x = `a${b}`;", 0},

		{"no-accessors", "class A { get v() { return 1; } }", 1},
		{"no-accessors", "const o = { set v(x) {} };", 1},
		{"no-accessors", "class A { value() {} static make() {} }", 0},

		{"camelcase", "const snake_case = 1;", 1},
		{"camelcase", "function do_it() {}", 1},
		{"camelcase", "function f(my_arg) {}", 1},
		{"camelcase", "const { a_b } = o;", 1},
		{"camelcase", "const f = (x_y) => x_y;", 1},
		{"camelcase", "const MAX_SIZE = 10;", 0},
		{"camelcase", "const camelCase = 1;", 0},
		{"camelcase", "const _private = 1;", 0},
		{"camelcase", "obj.snake_case = 1;", 0},

		{"new-cap", "new widget();", 1},
		{"new-cap", "new lib.widget();", 1},
		{"new-cap", "class widget {}", 1},
		{"new-cap", "new Widget();", 0},
		{"new-cap", "new lib.Widget();", 0},
		{"new-cap", "class Widget {}", 0},

		{"curly", "if (a)\n  b();", 1},
		{"curly", "if (a) {\n  b();\n} else\n  c();", 1},
		{"curly", "while (a)\n  b();", 1},
		{"curly", "for (const x of xs)\n  f(x);", 1},
		{"curly", "for (let i = 0; i < n; i++)\n  f(i);", 1},
		{"curly", "do\n  x();\nwhile (a);", 1},
		{"curly", "if (a) b();", 0},
		{"curly", "if (a) b(); else c();", 0},
		{"curly", "if (a) {\n  b();\n}", 0},
		{"curly", "if (a) {\n  b();\n} else if (c) {\n  d();\n}", 0},
		{"curly", "if (a &&\n  b) c();", 0},

		{"no-iterator-loops", "for (const n of ns) {}", 1},
		{"no-iterator-loops", "for (k in o) {}", 1},
		{"no-iterator-loops", "ns.forEach(f);", 0},
	}

	for _, tc := range cases {
		t.Run(tc.rule+"/"+tc.src, func(t *testing.T) {
			out := lintSource(t, tc.src, tc.rule)
			require.Len(t, out, tc.want, "%v", out)
			for _, d := range out {
				assert.Equal(t, tc.rule, d.Rule)
				assert.NotEmpty(t, d.Message)
			}
		})
	}
}

func TestRules_CaseClauseFindingAtClauseSpan(t *testing.T) {
	src := "switch (x) {\n  case 1:\n    let y = 1;\n    break;\n  case 2: {\n    let z = 2;\n  }\n}\n"
	out := lintSource(t, src, "brace-block-scoped-decls")
	require.Len(t, out, 1)

	start := uint32(len("switch (x) {\n  "))
	end := uint32(len("switch (x) {\n  case 1:\n    let y = 1;\n    break;"))
	assert.Equal(t, start, out[0].Primary.Start)
	assert.Equal(t, end, out[0].Primary.End)
	assert.Equal(t, diag.SevError, out[0].Severity)
	require.Len(t, out[0].Notes, 1)
}

func TestRules_NestedTernaryAtOuterSpan(t *testing.T) {
	src := "const v = a ? b : c ? d : e;"
	out := lintSource(t, src, "no-nested-ternary")
	require.Len(t, out, 1)
	assert.Equal(t, uint32(len("const v = ")), out[0].Primary.Start)
	assert.Equal(t, uint32(len(src)-1), out[0].Primary.End)
}

func TestRules_GuideSampleTriggersEveryRecommendedRule(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "guide.js"))
	require.NoError(t, err)

	out := lintSource(t, string(data))
	var seen []string
	for _, d := range out {
		if !slices.Contains(seen, d.Rule) {
			seen = append(seen, d.Rule)
		}
	}
	slices.Sort(seen)
	want := Defaults()
	slices.Sort(want)
	assert.Equal(t, want, seen)

	again := lintSource(t, string(data))
	assert.Equal(t, out, again, "deterministic")
}

func TestRules_NamingFindingsPointAtTheName(t *testing.T) {
	src := "function f(ok, bad_name) {}"
	out := lintSource(t, src, "camelcase")
	require.Len(t, out, 1)
	assert.Equal(t, uint32(len("function f(ok, ")), out[0].Primary.Start)
	assert.Contains(t, out[0].Message, `"bad_name"`)

	out = lintSource(t, "const w = new lib.widget();", "new-cap")
	require.Len(t, out, 1)
	assert.Equal(t, uint32(len("const w = new ")), out[0].Primary.Start)
	assert.Equal(t, uint32(len("const w = new lib.widget")), out[0].Primary.End)
}

func TestRules_AccessorSuggestsPlainMethod(t *testing.T) {
	out := lintSource(t, "class A { set size(v) {} }", "no-accessors")
	require.Len(t, out, 1)
	assert.Equal(t, `setter "size"; use a plain setSize() method instead`, out[0].Message)
}

func TestRules_CurlyNotesTheBody(t *testing.T) {
	src := "while (a)\n  b();\n"
	out := lintSource(t, src, "curly")
	require.Len(t, out, 1)
	assert.Equal(t, uint32(0), out[0].Primary.Start)
	require.Len(t, out[0].Notes, 1)
	assert.Equal(t, uint32(len("while (a)\n  ")), out[0].Notes[0].Span.Start)
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	ids := map[string]bool{}
	for _, r := range catalog {
		assert.False(t, ids[r.ID], "duplicate %s", r.ID)
		ids[r.ID] = true
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotEmpty(t, r.Kinds, r.ID)
	}

	reg, err := lint.Configure(catalog, lint.Selection{Recommended: true})
	require.NoError(t, err)
	assert.Equal(t, len(Defaults()), reg.Len())
	for _, id := range []string{"no-iterator-loops", "func-names", "no-underscore-dangle"} {
		_, on := reg.Lookup(id)
		assert.False(t, on, "%s is optional", id)
	}

	r, ok := Lookup("no-nested-ternary")
	require.True(t, ok)
	assert.Equal(t, "no-nested-ternary", r.ID)
	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestCatalog_DuplicateRegistrationRejected(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(noNestedTernary()))
	err := reg.Register(noNestedTernary())
	require.ErrorIs(t, err, lint.ErrDuplicateRule)
}
