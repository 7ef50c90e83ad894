package ast

// NodeKind is the closed set of syntax node variants the linter understands.
// Constructs outside the set are kept as NodeOther so traversal stays total.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeProgram

	// statements
	NodeBlock
	NodeEmpty
	NodeExprStmt
	NodeVarDecl
	NodeDeclarator
	NodeFunctionDecl
	NodeClassDecl
	NodeIf
	NodeFor
	NodeForIn
	NodeWhile
	NodeDoWhile
	NodeSwitch
	NodeSwitchCase
	NodeReturn
	NodeBreak
	NodeContinue
	NodeThrow
	NodeTry
	NodeCatch
	NodeLabeled
	NodeWith
	NodeImport
	NodeExport

	// expressions
	NodeIdent
	NodeLiteral
	NodeTemplate
	NodeThis
	NodeSuper
	NodeArray
	NodeObject
	NodeProperty
	NodeSpread
	NodeFunctionExpr
	NodeArrowFunction
	NodeMethod
	NodeClassExpr
	NodeClassBody
	NodeCall
	NodeNew
	NodeMember
	NodeAssign
	NodeUpdate
	NodeUnary
	NodeBinary
	NodeConditional
	NodeParen
	NodeSequence
	NodeAwait
	NodeYield

	// patterns
	NodeObjectPattern
	NodeArrayPattern
	NodeAssignPattern
	NodeRest

	NodeOther

	nodeKindCount
)

var nodeKindNames = [...]string{
	NodeInvalid:       "invalid",
	NodeProgram:       "program",
	NodeBlock:         "block",
	NodeEmpty:         "empty-statement",
	NodeExprStmt:      "expression-statement",
	NodeVarDecl:       "variable-declaration",
	NodeDeclarator:    "variable-declarator",
	NodeFunctionDecl:  "function-declaration",
	NodeClassDecl:     "class-declaration",
	NodeIf:            "if-statement",
	NodeFor:           "for-statement",
	NodeForIn:         "for-in-statement",
	NodeWhile:         "while-statement",
	NodeDoWhile:       "do-while-statement",
	NodeSwitch:        "switch-statement",
	NodeSwitchCase:    "switch-case",
	NodeReturn:        "return-statement",
	NodeBreak:         "break-statement",
	NodeContinue:      "continue-statement",
	NodeThrow:         "throw-statement",
	NodeTry:           "try-statement",
	NodeCatch:         "catch-clause",
	NodeLabeled:       "labeled-statement",
	NodeWith:          "with-statement",
	NodeImport:        "import-declaration",
	NodeExport:        "export-declaration",
	NodeIdent:         "identifier",
	NodeLiteral:       "literal",
	NodeTemplate:      "template-literal",
	NodeThis:          "this",
	NodeSuper:         "super",
	NodeArray:         "array-literal",
	NodeObject:        "object-literal",
	NodeProperty:      "property",
	NodeSpread:        "spread-element",
	NodeFunctionExpr:  "function-expression",
	NodeArrowFunction: "arrow-function",
	NodeMethod:        "method-definition",
	NodeClassExpr:     "class-expression",
	NodeClassBody:     "class-body",
	NodeCall:          "call-expression",
	NodeNew:           "new-expression",
	NodeMember:        "member-expression",
	NodeAssign:        "assignment-expression",
	NodeUpdate:        "update-expression",
	NodeUnary:         "unary-expression",
	NodeBinary:        "binary-expression",
	NodeConditional:   "conditional-expression",
	NodeParen:         "parenthesized-expression",
	NodeSequence:      "sequence-expression",
	NodeAwait:         "await-expression",
	NodeYield:         "yield-expression",
	NodeObjectPattern: "object-pattern",
	NodeArrayPattern:  "array-pattern",
	NodeAssignPattern: "assignment-pattern",
	NodeRest:          "rest-element",
	NodeOther:         "other",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "unknown"
}

// NodeKinds returns every valid kind in declaration order.
func NodeKinds() []NodeKind {
	kinds := make([]NodeKind, 0, nodeKindCount-1)
	for k := NodeProgram; k < nodeKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseNodeKind maps a kind name back to its value.
func ParseNodeKind(name string) (NodeKind, bool) {
	for k := NodeProgram; k < nodeKindCount; k++ {
		if nodeKindNames[k] == name {
			return k, true
		}
	}
	return NodeInvalid, false
}

// IsFunction reports whether the kind introduces a function scope.
func (k NodeKind) IsFunction() bool {
	switch k {
	case NodeFunctionDecl, NodeFunctionExpr, NodeArrowFunction, NodeMethod:
		return true
	default:
		return false
	}
}

// IsLoop reports whether the kind is an iteration statement.
func (k NodeKind) IsLoop() bool {
	switch k {
	case NodeFor, NodeForIn, NodeWhile, NodeDoWhile:
		return true
	default:
		return false
	}
}

// IsPattern reports whether the kind can appear as a binding target.
func (k NodeKind) IsPattern() bool {
	switch k {
	case NodeIdent, NodeObjectPattern, NodeArrayPattern, NodeAssignPattern, NodeRest:
		return true
	default:
		return false
	}
}
