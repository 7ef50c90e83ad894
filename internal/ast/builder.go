package ast

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"stylint/internal/source"
)

var (
	ErrBuilderFinished = errors.New("builder already finished")
	ErrUnknownNode     = errors.New("unknown node")
	ErrNodeReattached  = errors.New("node already has a parent")
	ErrInvalidRoot     = errors.New("invalid root")
)

// Builder assembles a Tree bottom-up: children are created first and attached
// when their parent is created. The first structural error is kept and
// reported by Finish.
type Builder struct {
	tree *Tree
	err  error
}

// NewBuilder starts a tree for file. A nil interner gets a fresh one.
func NewBuilder(file source.FileID, strings *source.Interner, capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		tree: &Tree{
			File:    file,
			Strings: strings,
			nodes:   NewArena[Node](capHint),
			data:    newPayloads(capHint),
		},
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Intern returns the id of s in the tree's interner.
func (b *Builder) Intern(s string) source.StringID {
	if b.tree == nil {
		return source.NoStringID
	}
	return b.tree.Strings.Intern(s)
}

// Span returns the span of an already built node.
func (b *Builder) Span(id NodeID) source.Span {
	if b.tree == nil {
		return source.Span{}
	}
	return b.tree.Span(id)
}

func (b *Builder) add(kind NodeKind, span source.Span, payload PayloadID, children ...NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	kids := make([]NodeID, 0, len(children))
	for _, c := range children {
		if c.IsValid() && !slices.Contains(kids, c) {
			kids = append(kids, c)
		}
	}
	nodes := b.tree.nodes
	slices.SortStableFunc(kids, func(x, y NodeID) int {
		var sx, sy uint32
		if n := nodes.Get(uint32(x)); n != nil {
			sx = n.Span.Start
		}
		if n := nodes.Get(uint32(y)); n != nil {
			sy = n.Span.Start
		}
		return cmp.Compare(sx, sy)
	})

	id := NodeID(nodes.Allocate(Node{
		Kind:     kind,
		Span:     span,
		Children: kids,
		Payload:  payload,
	}))
	for _, c := range kids {
		child := nodes.Get(uint32(c))
		switch {
		case child == nil || c == id:
			b.fail(fmt.Errorf("%w: %d", ErrUnknownNode, c))
		case child.Parent.IsValid():
			b.fail(fmt.Errorf("%w: %d (%s)", ErrNodeReattached, c, child.Kind))
		default:
			child.Parent = id
		}
	}
	return id
}

// New creates a node of a kind that carries only children.
func (b *Builder) New(kind NodeKind, span source.Span, children ...NodeID) NodeID {
	return b.add(kind, span, NoPayloadID, children...)
}

func (b *Builder) Ident(span source.Span, name string) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Idents.Allocate(IdentData{Name: b.Intern(name)})
	return b.add(NodeIdent, span, PayloadID(p))
}

func (b *Builder) Literal(span source.Span, kind LitKind, value string) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Literals.Allocate(LiteralData{Kind: kind, Value: b.Intern(value)})
	return b.add(NodeLiteral, span, PayloadID(p))
}

func (b *Builder) VarDecl(span source.Span, keyword DeclKeyword, declarators ...NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.VarDecls.Allocate(VarDeclData{Keyword: keyword, Declarators: slices.Clone(declarators)})
	return b.add(NodeVarDecl, span, PayloadID(p), declarators...)
}

func (b *Builder) Declarator(span source.Span, target, init NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Declarators.Allocate(DeclaratorData{Target: target, Init: init})
	return b.add(NodeDeclarator, span, PayloadID(p), target, init)
}

// Function creates a function-like node; kind must satisfy NodeKind.IsFunction.
func (b *Builder) Function(kind NodeKind, span source.Span, fn FunctionData) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	if !kind.IsFunction() {
		b.fail(fmt.Errorf("ast: %s is not a function kind", kind))
		return NoNodeID
	}
	fn.Params = slices.Clone(fn.Params)
	p := b.tree.data.Functions.Allocate(fn)
	children := append([]NodeID{fn.Name}, fn.Params...)
	children = append(children, fn.Body)
	return b.add(kind, span, PayloadID(p), children...)
}

func (b *Builder) ForIn(span source.Span, data ForInData) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.ForIns.Allocate(data)
	return b.add(NodeForIn, span, PayloadID(p), data.Left, data.Right, data.Body)
}

func (b *Builder) Switch(span source.Span, discriminant NodeID, cases ...NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Switches.Allocate(SwitchData{Discriminant: discriminant, Cases: slices.Clone(cases)})
	return b.add(NodeSwitch, span, PayloadID(p), append([]NodeID{discriminant}, cases...)...)
}

// Case creates a switch clause; test is NoNodeID for `default`.
func (b *Builder) Case(span source.Span, test NodeID, body ...NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Cases.Allocate(CaseData{Test: test, Body: slices.Clone(body)})
	return b.add(NodeSwitchCase, span, PayloadID(p), append([]NodeID{test}, body...)...)
}

func (b *Builder) Import(span source.Span, from string, namespace bool, specifiers ...NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Imports.Allocate(ImportData{
		Source:     b.Intern(from),
		Namespace:  namespace,
		Specifiers: slices.Clone(specifiers),
	})
	return b.add(NodeImport, span, PayloadID(p), specifiers...)
}

// Export creates an export statement. from is empty unless it re-exports.
func (b *Builder) Export(span source.Span, from string, data ExportData) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	data.Source = source.NoStringID
	if from != "" {
		data.Source = b.Intern(from)
	}
	data.Specifiers = slices.Clone(data.Specifiers)
	p := b.tree.data.Exports.Allocate(data)
	return b.add(NodeExport, span, PayloadID(p), append([]NodeID{data.Declaration}, data.Specifiers...)...)
}

// Property creates an object literal entry. For shorthand entries pass the
// same node as key and value.
func (b *Builder) Property(span source.Span, data PropertyData) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Properties.Allocate(data)
	return b.add(NodeProperty, span, PayloadID(p), data.Key, data.Value)
}

func (b *Builder) Call(span source.Span, callee NodeID, args ...NodeID) NodeID {
	return b.call(NodeCall, span, callee, args)
}

func (b *Builder) NewExpr(span source.Span, callee NodeID, args ...NodeID) NodeID {
	return b.call(NodeNew, span, callee, args)
}

func (b *Builder) call(kind NodeKind, span source.Span, callee NodeID, args []NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Calls.Allocate(CallData{Callee: callee, Args: slices.Clone(args)})
	return b.add(kind, span, PayloadID(p), append([]NodeID{callee}, args...)...)
}

func (b *Builder) Member(span source.Span, object, property NodeID, computed bool) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Members.Allocate(MemberData{Object: object, Property: property, Computed: computed})
	return b.add(NodeMember, span, PayloadID(p), object, property)
}

// MarkOptional flags a call or member node built earlier as an optional
// chain link (`a?.b`, `f?.()`). Other kinds are left untouched.
func (b *Builder) MarkOptional(id NodeID) {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return
	}
	n := b.tree.nodes.Get(uint32(id))
	if n == nil {
		return
	}
	switch n.Kind {
	case NodeCall:
		if p := b.tree.data.Calls.Get(uint32(n.Payload)); p != nil {
			p.Optional = true
		}
	case NodeMember:
		if p := b.tree.data.Members.Get(uint32(n.Payload)); p != nil {
			p.Optional = true
		}
	}
}

func (b *Builder) Assign(span source.Span, op string, target, value NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Assigns.Allocate(AssignData{Op: op, Target: target, Value: value})
	return b.add(NodeAssign, span, PayloadID(p), target, value)
}

func (b *Builder) Update(span source.Span, op string, prefix bool, arg NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Updates.Allocate(UpdateData{Op: op, Prefix: prefix, Arg: arg})
	return b.add(NodeUpdate, span, PayloadID(p), arg)
}

func (b *Builder) Unary(span source.Span, op string, arg NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Unaries.Allocate(UnaryData{Op: op, Arg: arg})
	return b.add(NodeUnary, span, PayloadID(p), arg)
}

func (b *Builder) Binary(span source.Span, op string, left, right NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right})
	return b.add(NodeBinary, span, PayloadID(p), left, right)
}

func (b *Builder) Conditional(span source.Span, test, consequent, alternate NodeID) NodeID {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return NoNodeID
	}
	p := b.tree.data.Conditionals.Allocate(ConditionalData{Test: test, Consequent: consequent, Alternate: alternate})
	return b.add(NodeConditional, span, PayloadID(p), test, consequent, alternate)
}

// Comment records a source comment on the tree.
func (b *Builder) Comment(span source.Span, text string) {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return
	}
	b.tree.Comments = append(b.tree.Comments, Comment{Span: span, Text: text})
}

// Lines records the newline offsets of the file so rules can compare lines.
func (b *Builder) Lines(newlines []uint32) {
	if b.tree == nil {
		b.fail(ErrBuilderFinished)
		return
	}
	b.tree.Newlines = newlines
}

// Finish seals the tree rooted at root. The builder is unusable afterwards.
func (b *Builder) Finish(root NodeID) (*Tree, error) {
	if b.tree == nil {
		return nil, ErrBuilderFinished
	}
	n := b.tree.nodes.Get(uint32(root))
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRoot, root)
	}
	if n.Parent.IsValid() {
		return nil, fmt.Errorf("%w: %d has parent %d", ErrInvalidRoot, root, n.Parent)
	}
	if b.err != nil {
		return nil, b.err
	}
	tree := b.tree
	tree.Root = root
	slices.SortStableFunc(tree.Comments, func(x, y Comment) int {
		return cmp.Compare(x.Span.Start, y.Span.Start)
	})
	b.tree = nil
	return tree, nil
}
