package syntax

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops and returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // callback never fails
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind Symbol) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// Leaves returns every terminal node under root in source order.
func Leaves(root *Node) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.FirstChild == nil && n.IsLeaf()
	})
}

// Tokens flattens the leaves under root into a token stream.
func Tokens(root *Node) []Token {
	leaves := Leaves(root)
	tokens := make([]Token, 0, len(leaves))
	for _, leaf := range leaves {
		tokens = append(tokens, Token{Kind: leaf.Kind, StartOffset: leaf.StartOffset, EndOffset: leaf.EndOffset})
	}
	return tokens
}

// NodeAt returns the deepest node whose range contains offset, or nil.
func NodeAt(root *Node, offset int) *Node {
	if root == nil || !root.Range().Contains(offset) {
		return nil
	}
	node := root
	for {
		var next *Node
		for child := node.FirstChild; child != nil; child = child.Next {
			if child.Range().Contains(offset) {
				next = child
				break
			}
		}
		if next == nil {
			return node
		}
		node = next
	}
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
