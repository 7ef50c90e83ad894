// Package parser turns JavaScript source into an ast.Tree. Parsing is done by
// tree-sitter; this package maps the concrete syntax tree onto the node kinds
// the rules understand and reports syntax errors as parse-error diagnostics.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
	"stylint/internal/trace"
)

type Options struct {
	// MaxErrors caps the parse errors reported per file; 0 means no cap.
	MaxErrors uint
	Reporter  diag.Reporter
	// Strings is shared between files when set.
	Strings *source.Interner
}

// Enough reports whether the error cap has been reached.
func (o *Options) Enough(reported uint) bool {
	if o.MaxErrors == 0 {
		return false
	}
	return reported >= o.MaxErrors
}

type Result struct {
	Tree *ast.Tree
	// Errors counts syntax errors found, including those past MaxErrors.
	Errors uint
}

// ParseFile parses one file of fs. A file with syntax errors still yields a
// tree: erroneous regions become NodeOther and are reported through
// opts.Reporter.
func ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (Result, error) {
	f := fs.Get(id)
	if f == nil {
		return Result{}, fmt.Errorf("parser: unknown file id %d", id)
	}
	return Parse(ctx, f, opts)
}

// Parse parses an already loaded file.
func Parse(ctx context.Context, f *source.File, opts Options) (Result, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "parse", trace.CurrentSpan(ctx))
	defer span.End(f.Path)

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(javascript.GetLanguage())

	cst, err := p.ParseCtx(ctx, nil, f.Content)
	if err != nil {
		return Result{}, fmt.Errorf("parser: %s: %w", f.Path, err)
	}
	if cst == nil {
		return Result{}, fmt.Errorf("parser: %s: no tree produced", f.Path)
	}
	defer cst.Close()

	c := newConverter(f, opts)
	root := cst.RootNode()
	c.scan(root, false)
	tree, err := c.finish(root)
	if err != nil {
		return Result{}, fmt.Errorf("parser: %s: %w", f.Path, err)
	}
	span.Set("nodes", fmt.Sprint(tree.Len()))
	return Result{Tree: tree, Errors: c.errors}, nil
}
