package rules

import (
	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func noParamReassign() lint.Rule {
	return lint.Rule{
		ID:          "no-param-reassign",
		Kinds:       []ast.NodeKind{ast.NodeAssign, ast.NodeUpdate},
		Severity:    diag.SevWarning,
		Description: "Disallow reassigning function parameters.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			var target ast.NodeID
			verb := "assignment to"
			switch tree.Kind(id) {
			case ast.NodeAssign:
				data, _ := tree.Assign(id)
				target = data.Target
			case ast.NodeUpdate:
				data, _ := tree.Update(id)
				target = data.Arg
				verb = data.Op + " on"
			default:
				return nil, unexpected(tree, id)
			}
			for _, name := range tree.BoundNames(tree.Unparen(target)) {
				if ctx.IsParam(name) && !shadowed(ctx, name) {
					return found("%s function parameter %q; use a default parameter or a local variable", verb, name)
				}
			}
			return nil, nil
		},
	}
}

// shadowed reports whether a lexical binding of name sits between the current
// node and its enclosing function.
func shadowed(ctx *lint.Context, name string) bool {
	tree := ctx.Tree()
	fn := ctx.EnclosingFunction()
	for a := range ctx.Ancestors() {
		if a == fn {
			return false
		}
		switch tree.Kind(a) {
		case ast.NodeBlock, ast.NodeSwitchCase, ast.NodeFor:
			for _, stmt := range tree.Children(a) {
				if declares(tree, stmt, name) {
					return true
				}
			}
		case ast.NodeForIn:
			loop, _ := tree.ForIn(a)
			if declares(tree, loop.Left, name) {
				return true
			}
		case ast.NodeCatch:
			for _, c := range tree.Children(a) {
				if tree.Kind(c) == ast.NodeBlock {
					continue
				}
				for _, bound := range tree.BoundNames(c) {
					if bound == name {
						return true
					}
				}
			}
		}
	}
	return false
}

func noArguments() lint.Rule {
	return lint.Rule{
		ID:          "no-arguments",
		Kinds:       []ast.NodeKind{ast.NodeIdent},
		Severity:    diag.SevWarning,
		Description: "Disallow the arguments object and parameters named arguments.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			if tree.Name(id) != "arguments" || isPropertyName(tree, id) {
				return nil, nil
			}
			if fn, ok := tree.Function(ctx.Parent()); ok {
				for _, p := range fn.Params {
					if p == id {
						return found("do not name a parameter arguments; it hides the arguments object")
					}
				}
			}
			return found("use rest parameters (...args) instead of arguments")
		},
	}
}

func noFuncInBlock() lint.Rule {
	return lint.Rule{
		ID:          "no-func-in-block",
		Kinds:       []ast.NodeKind{ast.NodeFunctionDecl},
		Severity:    diag.SevWarning,
		Description: "Disallow function declarations inside non-function blocks.",
		Check: func(ctx *lint.Context, _ ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			parent := tree.Kind(ctx.Parent())
			switch {
			case parent == ast.NodeBlock:
				outer := tree.Kind(ctx.Ancestor(2))
				if outer.IsFunction() || outer == ast.NodeSwitchCase || outer == ast.NodeClassBody {
					return nil, nil
				}
			case parent == ast.NodeIf, parent == ast.NodeLabeled, parent.IsLoop():
			default:
				return nil, nil
			}
			return found("function declaration in a nested block; assign a function expression to a variable instead")
		},
	}
}

func noGenerators() lint.Rule {
	return lint.Rule{
		ID:          "no-generators",
		Kinds:       []ast.NodeKind{ast.NodeFunctionDecl, ast.NodeFunctionExpr, ast.NodeMethod},
		Severity:    diag.SevWarning,
		Description: "Disallow generator functions.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			fn, ok := ctx.Tree().Function(id)
			if !ok {
				return nil, unexpected(ctx.Tree(), id)
			}
			if fn.Generator {
				return found("generators do not transpile well; use higher-order functions instead")
			}
			return nil, nil
		},
	}
}

func funcNames() lint.Rule {
	return lint.Rule{
		ID:          "func-names",
		Kinds:       []ast.NodeKind{ast.NodeFunctionExpr},
		Severity:    diag.SevWarning,
		Optional:    true,
		Description: "Require function expressions to have a name.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			fn, ok := ctx.Tree().Function(id)
			if !ok {
				return nil, unexpected(ctx.Tree(), id)
			}
			if fn.Name.IsValid() {
				return nil, nil
			}
			return found("unnamed function expression; give it a descriptive name")
		},
	}
}

func preferSpread() lint.Rule {
	return lint.Rule{
		ID:          "prefer-spread",
		Kinds:       []ast.NodeKind{ast.NodeCall},
		Severity:    diag.SevWarning,
		Description: "Prefer spread arguments over Function#apply.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			call, ok := tree.Call(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			m, ok := tree.Member(tree.Unparen(call.Callee))
			if !ok || memberName(tree, m) != "apply" || len(call.Args) != 2 {
				return nil, nil
			}
			if tree.Kind(tree.Unparen(call.Args[1])) == ast.NodeArray {
				return nil, nil
			}
			thisArg := tree.Unparen(call.Args[0])
			if !isNullish(tree, thisArg) {
				fnOwner, ok := tree.Member(tree.Unparen(m.Object))
				if !ok {
					return nil, nil
				}
				want, ok1 := tree.DotPath(fnOwner.Object)
				got, ok2 := tree.DotPath(thisArg)
				if !ok1 || !ok2 || want != got {
					return nil, nil
				}
			}
			return found("use spread syntax f(...args) instead of .apply()")
		},
	}
}
