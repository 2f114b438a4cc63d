package syntax

// NewNode creates an empty nonterminal positioned at offset.
// The range grows to cover children as they are attached.
func NewNode(kind Symbol, offset int) *Node {
	return &Node{
		Kind:        kind,
		StartOffset: offset,
		EndOffset:   offset,
	}
}

// NewLeaf creates a terminal node covering [start, end).
func NewLeaf(kind Symbol, start, end int) *Node {
	return &Node{
		Kind:        kind,
		StartOffset: start,
		EndOffset:   end,
	}
}

// NewMissing creates a zero-width leaf standing in for an expected token.
func NewMissing(kind Symbol, offset int) *Node {
	leaf := NewLeaf(kind, offset, offset)
	leaf.Missing = true
	return leaf
}

// AppendChild appends child as the last child of parent, detaching it from
// any previous parent. Ranges of parent and its ancestors are widened to fit.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child

	fitAncestors(parent)
}

// RemoveChild detaches child from parent. The parent keeps its range if it
// becomes empty.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil

	fitAncestors(parent)
}

// ReplaceChild puts replacement at the position of old under parent.
func ReplaceChild(parent, old, replacement *Node) {
	if parent == nil || old == nil || replacement == nil || old.Parent != parent {
		return
	}

	if replacement.Parent != nil {
		RemoveChild(replacement.Parent, replacement)
	}

	replacement.Parent = parent
	replacement.Prev = old.Prev
	replacement.Next = old.Next

	if old.Prev != nil {
		old.Prev.Next = replacement
	} else {
		parent.FirstChild = replacement
	}

	if old.Next != nil {
		old.Next.Prev = replacement
	} else {
		parent.LastChild = replacement
	}

	old.Parent = nil
	old.Prev = nil
	old.Next = nil

	fitAncestors(parent)
}

// Wrap replaces child with a new node of the given kind that holds child as
// its only child, and returns the new node. Left-nested binary constructs
// are built this way.
func Wrap(kind Symbol, child *Node) *Node {
	wrapper := NewNode(kind, child.StartOffset)
	if child.Parent != nil {
		ReplaceChild(child.Parent, child, wrapper)
	}
	AppendChild(wrapper, child)
	return wrapper
}

// fitAncestors recomputes the range of n from its children and propagates
// the change upward until a range is already correct.
func fitAncestors(n *Node) {
	for node := n; node != nil; node = node.Parent {
		if node.FirstChild == nil {
			return
		}
		start := node.FirstChild.StartOffset
		end := node.LastChild.EndOffset
		if start == node.StartOffset && end == node.EndOffset {
			return
		}
		node.StartOffset = start
		node.EndOffset = end
	}
}
