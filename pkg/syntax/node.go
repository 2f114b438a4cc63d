package syntax

// Node is a single node in the concrete syntax tree.
// Leaves are terminals and own a byte range directly; a nonterminal's range
// always spans its children exactly.
type Node struct {
	// Kind identifies the grammar symbol of this node.
	Kind Symbol

	// Field is the name under which this node appears in its parent, if any.
	Field string

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// StartOffset is the byte index where the node begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the node ends (exclusive).
	EndOffset int

	// Missing marks a zero-width leaf inserted by error recovery in place
	// of an expected keyword or delimiter.
	Missing bool

	// Lookahead is the exclusive end of the furthest byte the parser examined
	// while building this node. Only command nodes record it; zero means
	// unknown.
	Lookahead int

	// State holds the serialized scanner state captured immediately after
	// this node was consumed. Only program-level terminators carry it.
	State []byte
}

// IsNamed reports whether the node is a named node in the node-type catalog.
func (n *Node) IsNamed() bool {
	return n.Kind.IsNamed()
}

// IsExtra reports whether the node is whitespace, a comment or a line continuation.
func (n *Node) IsExtra() bool {
	return n.Kind.IsExtra()
}

// IsError reports whether the node is an error node.
func (n *Node) IsError() bool {
	return n.Kind == SymError
}

// IsLeaf reports whether the node is a terminal.
func (n *Node) IsLeaf() bool {
	return n.Kind.IsTerminal()
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// NamedChildren returns the direct children that are named and not extras.
func (n *Node) NamedChildren() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.IsNamed() && !child.IsExtra() {
			children = append(children, child)
		}
	}
	return children
}

// ChildByField returns the first direct child stored under field, or nil.
func (n *Node) ChildByField(field string) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// ChildrenByField returns every direct child stored under field.
func (n *Node) ChildrenByField(field string) []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Field == field {
			children = append(children, child)
		}
	}
	return children
}

// ChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) ChildOfKind(kind Symbol) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}
