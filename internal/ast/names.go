package ast

// Name returns the identifier text of id, or "" when id is not an identifier.
func (t *Tree) Name(id NodeID) string {
	data, ok := t.Ident(id)
	if !ok {
		return ""
	}
	name, _ := t.Strings.Lookup(data.Name)
	return name
}

// LiteralValue returns the cooked value of a literal node.
func (t *Tree) LiteralValue(id NodeID) (LitKind, string, bool) {
	data, ok := t.Literal(id)
	if !ok {
		return 0, "", false
	}
	value, _ := t.Strings.Lookup(data.Value)
	return data.Kind, value, true
}

// Unparen strips any number of enclosing parentheses.
func (t *Tree) Unparen(id NodeID) NodeID {
	for t.Kind(id) == NodeParen {
		children := t.Children(id)
		if len(children) == 0 {
			return id
		}
		id = children[0]
	}
	return id
}

// BoundNames lists the identifiers a binding pattern declares, left to right.
// Default values of assignment patterns and computed keys are not bindings.
func (t *Tree) BoundNames(pattern NodeID) []string {
	var names []string
	var visit func(id NodeID)
	visit = func(id NodeID) {
		switch t.Kind(id) {
		case NodeIdent:
			names = append(names, t.Name(id))
		case NodeAssignPattern:
			if children := t.Children(id); len(children) > 0 {
				visit(children[0])
			}
		case NodeRest, NodeArrayPattern:
			for _, c := range t.Children(id) {
				visit(c)
			}
		case NodeObjectPattern:
			for _, c := range t.Children(id) {
				if prop, ok := t.Property(c); ok {
					visit(prop.Value)
					continue
				}
				visit(c)
			}
		}
	}
	visit(pattern)
	return names
}

// DotPath renders a chain of non-computed member accesses, such as
// "Object.prototype.hasOwnProperty". It reports false for anything else.
func (t *Tree) DotPath(id NodeID) (string, bool) {
	id = t.Unparen(id)
	switch t.Kind(id) {
	case NodeIdent:
		return t.Name(id), true
	case NodeThis:
		return "this", true
	case NodeMember:
		m, _ := t.Member(id)
		if m.Computed {
			return "", false
		}
		head, ok := t.DotPath(m.Object)
		if !ok {
			return "", false
		}
		return head + "." + t.Name(m.Property), true
	default:
		return "", false
	}
}

// EnclosingFunction walks parent links to the nearest function-like ancestor.
func (t *Tree) EnclosingFunction(id NodeID) NodeID {
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		if t.Kind(p).IsFunction() {
			return p
		}
	}
	return NoNodeID
}
