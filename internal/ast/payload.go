package ast

import "stylint/internal/source"

// DeclKeyword is the keyword that introduced a variable declaration.
type DeclKeyword uint8

const (
	DeclVar DeclKeyword = iota
	DeclLet
	DeclConst
)

func (k DeclKeyword) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "var"
	}
}

// Lexical reports whether the declaration is block scoped.
func (k DeclKeyword) Lexical() bool {
	return k == DeclLet || k == DeclConst
}

type LitKind uint8

const (
	LitString LitKind = iota
	LitNumber
	LitBoolean
	LitNull
	LitUndefined
	LitRegex
)

func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBoolean:
		return "boolean"
	case LitNull:
		return "null"
	case LitUndefined:
		return "undefined"
	case LitRegex:
		return "regex"
	default:
		return "unknown"
	}
}

type IdentData struct {
	Name source.StringID
}

// LiteralData holds the literal's cooked value: strings without quotes,
// other kinds as written.
type LiteralData struct {
	Kind  LitKind
	Value source.StringID
}

type VarDeclData struct {
	Keyword     DeclKeyword
	Declarators []NodeID
}

type DeclaratorData struct {
	Target NodeID
	Init   NodeID
}

// Accessor marks a method written as a getter or setter.
type Accessor uint8

const (
	AccessorNone Accessor = iota
	AccessorGet
	AccessorSet
)

func (a Accessor) String() string {
	switch a {
	case AccessorGet:
		return "get"
	case AccessorSet:
		return "set"
	default:
		return ""
	}
}

// FunctionData is shared by declarations, expressions, arrows and methods.
// For methods Name is the property key.
type FunctionData struct {
	Name      NodeID
	Params    []NodeID
	Body      NodeID
	Generator bool
	Async     bool
	Accessor  Accessor
}

type ForInData struct {
	Of    bool
	Left  NodeID
	Right NodeID
	Body  NodeID
}

type SwitchData struct {
	Discriminant NodeID
	Cases        []NodeID
}

// CaseData describes one clause; Test is NoNodeID for `default`.
type CaseData struct {
	Test NodeID
	Body []NodeID
}

func (c CaseData) IsDefault() bool { return !c.Test.IsValid() }

type ImportData struct {
	Source     source.StringID
	Namespace  bool
	Specifiers []NodeID
}

// ExportData covers every export form. Source is NoStringID unless the
// statement re-exports from another module.
type ExportData struct {
	Source      source.StringID
	All         bool
	Default     bool
	Declaration NodeID
	Specifiers  []NodeID
}

func (e ExportData) ReExport() bool { return e.Source != source.NoStringID }

type PropertyData struct {
	Key       NodeID
	Value     NodeID
	Computed  bool
	Shorthand bool
}

// CallData is used by both call and new expressions.
type CallData struct {
	Callee   NodeID
	Args     []NodeID
	Optional bool
}

type MemberData struct {
	Object   NodeID
	Property NodeID
	Computed bool
	Optional bool
}

type AssignData struct {
	Op     string
	Target NodeID
	Value  NodeID
}

type UpdateData struct {
	Op     string
	Prefix bool
	Arg    NodeID
}

type UnaryData struct {
	Op  string
	Arg NodeID
}

// BinaryData covers arithmetic, comparison and logical operators.
type BinaryData struct {
	Op    string
	Left  NodeID
	Right NodeID
}

type ConditionalData struct {
	Test       NodeID
	Consequent NodeID
	Alternate  NodeID
}
