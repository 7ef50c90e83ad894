package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"fortio.org/safecast"

	"stylint/internal/ast"
	"stylint/internal/source"
)

type converter struct {
	file   *source.File
	src    []byte
	b      *ast.Builder
	opts   Options
	errors uint
}

func newConverter(f *source.File, opts Options) *converter {
	capHint, err := safecast.Conv[uint](len(f.Content) / 4)
	if err != nil {
		capHint = 0
	}
	return &converter{
		file: f,
		src:  f.Content,
		b:    ast.NewBuilder(f.ID, opts.Strings, capHint),
		opts: opts,
	}
}

func (c *converter) span(n *sitter.Node) source.Span {
	return source.Span{File: c.file.ID, Start: n.StartByte(), End: n.EndByte()}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// finish converts the program and seals the tree. The root always covers
// the whole file so leading and trailing trivia belong to it.
func (c *converter) finish(root *sitter.Node) (*ast.Tree, error) {
	end, err := safecast.Conv[uint32](len(c.src))
	if err != nil {
		return nil, err
	}
	program := c.b.New(ast.NodeProgram, source.Span{File: c.file.ID, End: end}, c.namedChildren(root)...)
	c.b.Lines(c.file.LineIdx)
	return c.b.Finish(program)
}

func (c *converter) namedChildren(n *sitter.Node, skip ...*sitter.Node) []ast.NodeID {
	count := int(n.NamedChildCount())
	out := make([]ast.NodeID, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || isSkipped(child, skip) {
			continue
		}
		if id := c.conv(child); id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

func isSkipped(n *sitter.Node, skip []*sitter.Node) bool {
	for _, s := range skip {
		if same(n, s) {
			return true
		}
	}
	return false
}

func same(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// hasToken reports whether n has a direct anonymous child spelled tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if ch := n.Child(i); ch != nil && !ch.IsNamed() && ch.Type() == tok {
			return true
		}
	}
	return false
}

func hasChildOfType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if ch := n.Child(i); ch != nil && ch.Type() == typ {
			return true
		}
	}
	return false
}

func (c *converter) field(n *sitter.Node, name string) ast.NodeID {
	child := n.ChildByFieldName(name)
	if child == nil {
		return ast.NoNodeID
	}
	return c.conv(child)
}

// transparent converts the single meaningful child of a wrapper node.
func (c *converter) transparent(n *sitter.Node) ast.NodeID {
	ids := c.namedChildren(n)
	switch len(ids) {
	case 0:
		return ast.NoNodeID
	case 1:
		return ids[0]
	default:
		return c.b.New(ast.NodeOther, c.span(n), ids...)
	}
}

func (c *converter) conv(n *sitter.Node) ast.NodeID {
	if n == nil || n.IsNull() {
		return ast.NoNodeID
	}
	sp := c.span(n)
	b := c.b

	switch n.Type() {
	case "comment", "hash_bang_line":
		return ast.NoNodeID

	case "else_clause", "finally_clause", "template_substitution", "computed_property_name", "class_heritage":
		return c.transparent(n)

	case "statement_block":
		return b.New(ast.NodeBlock, sp, c.namedChildren(n)...)
	case "expression_statement":
		return b.New(ast.NodeExprStmt, sp, c.namedChildren(n)...)
	case "empty_statement":
		return b.New(ast.NodeEmpty, sp)
	case "variable_declaration":
		return b.VarDecl(sp, ast.DeclVar, c.declarators(n)...)
	case "lexical_declaration":
		kw := ast.DeclLet
		if k := n.ChildByFieldName("kind"); k != nil && c.text(k) == "const" {
			kw = ast.DeclConst
		} else if k == nil && hasToken(n, "const") {
			kw = ast.DeclConst
		}
		return b.VarDecl(sp, kw, c.declarators(n)...)
	case "variable_declarator":
		return b.Declarator(sp, c.field(n, "name"), c.field(n, "value"))

	case "function_declaration", "generator_function_declaration":
		return c.function(ast.NodeFunctionDecl, n)
	case "function", "function_expression", "generator_function":
		return c.function(ast.NodeFunctionExpr, n)
	case "arrow_function":
		return c.function(ast.NodeArrowFunction, n)
	case "method_definition":
		return c.function(ast.NodeMethod, n)

	case "class_declaration":
		return b.New(ast.NodeClassDecl, sp, c.namedChildren(n)...)
	case "class":
		return b.New(ast.NodeClassExpr, sp, c.namedChildren(n)...)
	case "class_body":
		return b.New(ast.NodeClassBody, sp, c.namedChildren(n)...)

	case "if_statement":
		return b.New(ast.NodeIf, sp, c.namedChildren(n)...)
	case "for_statement":
		return b.New(ast.NodeFor, sp, c.namedChildren(n)...)
	case "for_in_statement":
		return c.forIn(n)
	case "while_statement":
		return b.New(ast.NodeWhile, sp, c.namedChildren(n)...)
	case "do_statement":
		return b.New(ast.NodeDoWhile, sp, c.namedChildren(n)...)
	case "switch_statement":
		return c.switchStmt(n)
	case "switch_case":
		value := n.ChildByFieldName("value")
		test := c.conv(value)
		return b.Case(sp, test, c.namedChildren(n, value)...)
	case "switch_default":
		return b.Case(sp, ast.NoNodeID, c.namedChildren(n)...)
	case "return_statement":
		return b.New(ast.NodeReturn, sp, c.namedChildren(n)...)
	case "break_statement":
		return b.New(ast.NodeBreak, sp, c.namedChildren(n)...)
	case "continue_statement":
		return b.New(ast.NodeContinue, sp, c.namedChildren(n)...)
	case "throw_statement":
		return b.New(ast.NodeThrow, sp, c.namedChildren(n)...)
	case "try_statement":
		return b.New(ast.NodeTry, sp, c.namedChildren(n)...)
	case "catch_clause":
		return b.New(ast.NodeCatch, sp, c.namedChildren(n)...)
	case "labeled_statement":
		return b.New(ast.NodeLabeled, sp, c.namedChildren(n)...)
	case "with_statement":
		return b.New(ast.NodeWith, sp, c.namedChildren(n)...)
	case "import_statement":
		return c.importStmt(n)
	case "export_statement":
		return c.exportStmt(n)

	case "identifier", "property_identifier", "shorthand_property_identifier_pattern",
		"private_property_identifier", "statement_identifier":
		return b.Ident(sp, c.text(n))
	case "undefined":
		return b.Literal(sp, ast.LitUndefined, "undefined")
	case "number":
		return b.Literal(sp, ast.LitNumber, c.text(n))
	case "string":
		return b.Literal(sp, ast.LitString, unquote(c.text(n)))
	case "regex":
		return b.Literal(sp, ast.LitRegex, c.text(n))
	case "true", "false":
		return b.Literal(sp, ast.LitBoolean, n.Type())
	case "null":
		return b.Literal(sp, ast.LitNull, "null")
	case "template_string":
		return b.New(ast.NodeTemplate, sp, c.namedChildren(n)...)
	case "this":
		return b.New(ast.NodeThis, sp)
	case "super":
		return b.New(ast.NodeSuper, sp)

	case "array":
		return b.New(ast.NodeArray, sp, c.namedChildren(n)...)
	case "object":
		return b.New(ast.NodeObject, sp, c.namedChildren(n)...)
	case "shorthand_property_identifier":
		id := b.Ident(sp, c.text(n))
		return b.Property(sp, ast.PropertyData{Key: id, Value: id, Shorthand: true})
	case "pair", "pair_pattern":
		key := n.ChildByFieldName("key")
		return b.Property(sp, ast.PropertyData{
			Key:      c.conv(key),
			Value:    c.field(n, "value"),
			Computed: key != nil && key.Type() == "computed_property_name",
		})
	case "spread_element":
		return b.New(ast.NodeSpread, sp, c.namedChildren(n)...)

	case "call_expression":
		return c.call(n)
	case "new_expression":
		return b.NewExpr(sp, c.field(n, "constructor"), c.arguments(n.ChildByFieldName("arguments"))...)
	case "member_expression":
		id := b.Member(sp, c.field(n, "object"), c.field(n, "property"), false)
		if hasChildOfType(n, "optional_chain") {
			b.MarkOptional(id)
		}
		return id
	case "subscript_expression":
		id := b.Member(sp, c.field(n, "object"), c.field(n, "index"), true)
		if hasChildOfType(n, "optional_chain") {
			b.MarkOptional(id)
		}
		return id
	case "assignment_expression":
		return b.Assign(sp, "=", c.field(n, "left"), c.field(n, "right"))
	case "augmented_assignment_expression":
		return b.Assign(sp, c.operator(n), c.field(n, "left"), c.field(n, "right"))
	case "update_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		prefix := op != nil && arg != nil && op.StartByte() < arg.StartByte()
		return b.Update(sp, c.operator(n), prefix, c.conv(arg))
	case "unary_expression":
		return b.Unary(sp, c.operator(n), c.field(n, "argument"))
	case "binary_expression":
		return b.Binary(sp, c.operator(n), c.field(n, "left"), c.field(n, "right"))
	case "ternary_expression":
		return b.Conditional(sp, c.field(n, "condition"), c.field(n, "consequence"), c.field(n, "alternative"))
	case "parenthesized_expression":
		return b.New(ast.NodeParen, sp, c.namedChildren(n)...)
	case "sequence_expression":
		return b.New(ast.NodeSequence, sp, c.namedChildren(n)...)
	case "await_expression":
		return b.New(ast.NodeAwait, sp, c.namedChildren(n)...)
	case "yield_expression":
		return b.New(ast.NodeYield, sp, c.namedChildren(n)...)

	case "object_pattern":
		return b.New(ast.NodeObjectPattern, sp, c.namedChildren(n)...)
	case "array_pattern":
		return b.New(ast.NodeArrayPattern, sp, c.namedChildren(n)...)
	case "assignment_pattern", "object_assignment_pattern":
		return b.New(ast.NodeAssignPattern, sp, c.field(n, "left"), c.field(n, "right"))
	case "rest_pattern":
		return b.New(ast.NodeRest, sp, c.namedChildren(n)...)
	}
	return b.New(ast.NodeOther, sp, c.namedChildren(n)...)
}

func (c *converter) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	return ""
}

func (c *converter) declarators(n *sitter.Node) []ast.NodeID {
	var out []ast.NodeID
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); ch != nil && ch.Type() == "variable_declarator" {
			out = append(out, c.conv(ch))
		}
	}
	return out
}

func (c *converter) function(kind ast.NodeKind, n *sitter.Node) ast.NodeID {
	fn := ast.FunctionData{
		Name:      c.field(n, "name"),
		Generator: strings.HasPrefix(n.Type(), "generator_") || hasToken(n, "*"),
		Async:     hasToken(n, "async"),
	}
	if kind == ast.NodeMethod {
		switch {
		case hasToken(n, "get"):
			fn.Accessor = ast.AccessorGet
		case hasToken(n, "set"):
			fn.Accessor = ast.AccessorSet
		}
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = c.namedChildren(params)
	} else if param := n.ChildByFieldName("parameter"); param != nil {
		fn.Params = []ast.NodeID{c.conv(param)}
	}
	fn.Body = c.field(n, "body")
	return c.b.Function(kind, c.span(n), fn)
}

// forIn lowers the optional declaration keyword of `for (let x of xs)` into
// a VarDecl wrapping the binding.
func (c *converter) forIn(n *sitter.Node) ast.NodeID {
	data := ast.ForInData{Of: hasToken(n, "of")}
	if op := n.ChildByFieldName("operator"); op != nil {
		data.Of = op.Type() == "of"
	}
	left := n.ChildByFieldName("left")
	data.Left = c.conv(left)
	if kind := n.ChildByFieldName("kind"); kind != nil && left != nil {
		kw := ast.DeclVar
		switch c.text(kind) {
		case "let":
			kw = ast.DeclLet
		case "const":
			kw = ast.DeclConst
		}
		sp := source.Span{File: c.file.ID, Start: kind.StartByte(), End: left.EndByte()}
		decl := c.b.Declarator(c.span(left), data.Left, ast.NoNodeID)
		data.Left = c.b.VarDecl(sp, kw, decl)
	}
	data.Right = c.field(n, "right")
	data.Body = c.field(n, "body")
	return c.b.ForIn(c.span(n), data)
}

func (c *converter) switchStmt(n *sitter.Node) ast.NodeID {
	disc := c.field(n, "value")
	var cases []ast.NodeID
	if body := n.ChildByFieldName("body"); body != nil {
		cases = c.namedChildren(body)
	}
	return c.b.Switch(c.span(n), disc, cases...)
}

func (c *converter) call(n *sitter.Node) ast.NodeID {
	callee := c.field(n, "function")
	args := n.ChildByFieldName("arguments")
	var ids []ast.NodeID
	if args != nil && args.Type() == "template_string" {
		ids = []ast.NodeID{c.conv(args)}
	} else {
		ids = c.arguments(args)
	}
	id := c.b.Call(c.span(n), callee, ids...)
	if hasChildOfType(n, "optional_chain") {
		c.b.MarkOptional(id)
	}
	return id
}

func (c *converter) arguments(args *sitter.Node) []ast.NodeID {
	if args == nil {
		return nil
	}
	return c.namedChildren(args)
}

func (c *converter) importStmt(n *sitter.Node) ast.NodeID {
	var from string
	if src := n.ChildByFieldName("source"); src != nil {
		from = unquote(c.text(src))
	}
	var (
		namespace bool
		specs     []ast.NodeID
	)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause == nil || clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			part := clause.NamedChild(j)
			if part == nil {
				continue
			}
			switch part.Type() {
			case "identifier":
				specs = append(specs, c.conv(part))
			case "namespace_import":
				namespace = true
				specs = append(specs, c.namedChildren(part)...)
			case "named_imports":
				for k := 0; k < int(part.NamedChildCount()); k++ {
					if spec := part.NamedChild(k); spec != nil && spec.Type() == "import_specifier" {
						specs = append(specs, c.specifier(spec, "alias"))
					}
				}
			}
		}
	}
	return c.b.Import(c.span(n), from, namespace, specs...)
}

func (c *converter) exportStmt(n *sitter.Node) ast.NodeID {
	var from string
	if src := n.ChildByFieldName("source"); src != nil {
		from = unquote(c.text(src))
	}
	data := ast.ExportData{
		All:     hasToken(n, "*") || hasChildOfType(n, "namespace_export"),
		Default: hasToken(n, "default"),
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		data.Declaration = c.conv(decl)
	} else if value := n.ChildByFieldName("value"); value != nil {
		data.Declaration = c.conv(value)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		part := n.NamedChild(i)
		if part == nil {
			continue
		}
		switch part.Type() {
		case "export_clause":
			for k := 0; k < int(part.NamedChildCount()); k++ {
				if spec := part.NamedChild(k); spec != nil && spec.Type() == "export_specifier" {
					data.Specifiers = append(data.Specifiers, c.specifier(spec, "name"))
				}
			}
		case "namespace_export":
			data.Specifiers = append(data.Specifiers, c.namedChildren(part)...)
		}
	}
	return c.b.Export(c.span(n), from, data)
}

// specifier converts one import/export specifier to the identifier named by
// the preferred field, falling back to the first name.
func (c *converter) specifier(spec *sitter.Node, prefer string) ast.NodeID {
	if ch := spec.ChildByFieldName(prefer); ch != nil {
		return c.conv(ch)
	}
	if ch := spec.ChildByFieldName("name"); ch != nil {
		return c.conv(ch)
	}
	return c.transparent(spec)
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
