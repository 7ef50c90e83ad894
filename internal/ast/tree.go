package ast

import (
	"slices"

	"stylint/internal/source"
)

// Node is one syntax node. Payload indexes the per-kind arena selected by Kind
// and is NoPayloadID for kinds that carry only children.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	Children []NodeID // source order, READONLY
	Payload  PayloadID
}

// Comment is a source comment kept for suppression directives.
type Comment struct {
	Span source.Span
	Text string
}

type payloads struct {
	Idents       *Arena[IdentData]
	Literals     *Arena[LiteralData]
	VarDecls     *Arena[VarDeclData]
	Declarators  *Arena[DeclaratorData]
	Functions    *Arena[FunctionData]
	ForIns       *Arena[ForInData]
	Switches     *Arena[SwitchData]
	Cases        *Arena[CaseData]
	Imports      *Arena[ImportData]
	Exports      *Arena[ExportData]
	Properties   *Arena[PropertyData]
	Calls        *Arena[CallData]
	Members      *Arena[MemberData]
	Assigns      *Arena[AssignData]
	Updates      *Arena[UpdateData]
	Unaries      *Arena[UnaryData]
	Binaries     *Arena[BinaryData]
	Conditionals *Arena[ConditionalData]
}

func newPayloads(capHint uint) payloads {
	small := capHint/8 + 1
	return payloads{
		Idents:       NewArena[IdentData](capHint / 2),
		Literals:     NewArena[LiteralData](small),
		VarDecls:     NewArena[VarDeclData](small),
		Declarators:  NewArena[DeclaratorData](small),
		Functions:    NewArena[FunctionData](small),
		ForIns:       NewArena[ForInData](small),
		Switches:     NewArena[SwitchData](small),
		Cases:        NewArena[CaseData](small),
		Imports:      NewArena[ImportData](small),
		Exports:      NewArena[ExportData](small),
		Properties:   NewArena[PropertyData](small),
		Calls:        NewArena[CallData](small),
		Members:      NewArena[MemberData](small),
		Assigns:      NewArena[AssignData](small),
		Updates:      NewArena[UpdateData](small),
		Unaries:      NewArena[UnaryData](small),
		Binaries:     NewArena[BinaryData](small),
		Conditionals: NewArena[ConditionalData](small),
	}
}

// Tree is an immutable syntax tree for one file. It is produced by Builder.Finish
// and may be read from many goroutines.
type Tree struct {
	File     source.FileID
	Root     NodeID
	Strings  *source.Interner
	Comments []Comment
	// Newlines holds the byte offset of every '\n' in the file, READONLY.
	Newlines []uint32

	nodes *Arena[Node]
	data  payloads
}

// Line returns the 1-based line holding byte offset off. Without Newlines
// every offset is on line 1.
func (t *Tree) Line(off uint32) int {
	n, _ := slices.BinarySearch(t.Newlines, off)
	return n + 1
}

// Len returns the number of nodes; valid ids are 1..Len.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// Node returns a copy of the node header. The zero Node is returned for invalid ids.
func (t *Tree) Node(id NodeID) Node {
	if n := t.nodes.Get(uint32(id)); n != nil {
		return *n
	}
	return Node{}
}

func (t *Tree) Kind(id NodeID) NodeKind {
	if n := t.nodes.Get(uint32(id)); n != nil {
		return n.Kind
	}
	return NodeInvalid
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.nodes.Get(uint32(id)); n != nil {
		return n.Span
	}
	return source.Span{}
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.nodes.Get(uint32(id)); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Children returns the node's children in source order. Callers must not modify it.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.nodes.Get(uint32(id)); n != nil {
		return n.Children
	}
	return nil
}

func lookup[T any](t *Tree, id NodeID, arena *Arena[T], kinds ...NodeKind) (T, bool) {
	var zero T
	n := t.nodes.Get(uint32(id))
	if n == nil || !slices.Contains(kinds, n.Kind) {
		return zero, false
	}
	p := arena.Get(uint32(n.Payload))
	if p == nil {
		return zero, false
	}
	return *p, true
}

func (t *Tree) Ident(id NodeID) (IdentData, bool) {
	return lookup(t, id, t.data.Idents, NodeIdent)
}

func (t *Tree) Literal(id NodeID) (LiteralData, bool) {
	return lookup(t, id, t.data.Literals, NodeLiteral)
}

func (t *Tree) VarDecl(id NodeID) (VarDeclData, bool) {
	return lookup(t, id, t.data.VarDecls, NodeVarDecl)
}

func (t *Tree) Declarator(id NodeID) (DeclaratorData, bool) {
	return lookup(t, id, t.data.Declarators, NodeDeclarator)
}

func (t *Tree) Function(id NodeID) (FunctionData, bool) {
	return lookup(t, id, t.data.Functions, NodeFunctionDecl, NodeFunctionExpr, NodeArrowFunction, NodeMethod)
}

func (t *Tree) ForIn(id NodeID) (ForInData, bool) {
	return lookup(t, id, t.data.ForIns, NodeForIn)
}

func (t *Tree) Switch(id NodeID) (SwitchData, bool) {
	return lookup(t, id, t.data.Switches, NodeSwitch)
}

func (t *Tree) Case(id NodeID) (CaseData, bool) {
	return lookup(t, id, t.data.Cases, NodeSwitchCase)
}

func (t *Tree) Import(id NodeID) (ImportData, bool) {
	return lookup(t, id, t.data.Imports, NodeImport)
}

func (t *Tree) Export(id NodeID) (ExportData, bool) {
	return lookup(t, id, t.data.Exports, NodeExport)
}

func (t *Tree) Property(id NodeID) (PropertyData, bool) {
	return lookup(t, id, t.data.Properties, NodeProperty)
}

// Call returns the callee and arguments of a call or new expression.
func (t *Tree) Call(id NodeID) (CallData, bool) {
	return lookup(t, id, t.data.Calls, NodeCall, NodeNew)
}

func (t *Tree) Member(id NodeID) (MemberData, bool) {
	return lookup(t, id, t.data.Members, NodeMember)
}

func (t *Tree) Assign(id NodeID) (AssignData, bool) {
	return lookup(t, id, t.data.Assigns, NodeAssign)
}

func (t *Tree) Update(id NodeID) (UpdateData, bool) {
	return lookup(t, id, t.data.Updates, NodeUpdate)
}

func (t *Tree) Unary(id NodeID) (UnaryData, bool) {
	return lookup(t, id, t.data.Unaries, NodeUnary)
}

func (t *Tree) Binary(id NodeID) (BinaryData, bool) {
	return lookup(t, id, t.data.Binaries, NodeBinary)
}

func (t *Tree) Conditional(id NodeID) (ConditionalData, bool) {
	return lookup(t, id, t.data.Conditionals, NodeConditional)
}
