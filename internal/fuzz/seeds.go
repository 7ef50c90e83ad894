package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 64 << 10 // 64 KiB
)

// snippets are small inputs that reach the parser's error recovery or the
// rules' less common shapes.
var snippets = []string{
	"",
	"const v = a ? b : c ? d : e;",
	"function f(a) { a = 1; arguments; }",
	"switch (x) { case 1: let y; default: class C {} }",
	"Object.assign({}, ...xs); fn.apply(null, args);",
	"// stylint-disable-next-line no-var\nvar x;",
	"/* stylint-disable */ var a; /* stylint-enable no-var */",
	"// stylint-disable-line nope -- reason",
	"function ( {",
	"a b c;\n) ) );",
	"x = `${a ? `${b}` : c}`;",
	"for (const [k, v] of Object.entries(o)) { with (v) {} }",
	"class A { *gen() {} static #p = 1; get x() { return this._x; } }",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range snippets {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "rules", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все *.js из testdata правил
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".js" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src))
		return nil
	})
}

func clamp(src []byte) []byte {
	if len(src) <= maxFuzzInput {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxFuzzInput]...)
}
