package syntax

// Fallthrough describes how control continues after a case item.
type Fallthrough int

// Case item terminators.
const (
	// FallthroughNone ends the case statement (";;" or no terminator).
	FallthroughNone Fallthrough = iota
	// FallthroughAlways runs the next item's body unconditionally (";&").
	FallthroughAlways
	// FallthroughConditional keeps testing the following patterns (";;&").
	FallthroughConditional
)

// String returns a readable name for the fallthrough mode.
func (f Fallthrough) String() string {
	switch f {
	case FallthroughAlways:
		return "fallthrough"
	case FallthroughConditional:
		return "conditional"
	default:
		return "none"
	}
}

// CaseFallthrough returns the fallthrough mode of a case_item node.
func CaseFallthrough(item *Node) Fallthrough {
	if item == nil || item.Kind != SymCaseItem {
		return FallthroughNone
	}
	term := item.ChildByField("termination")
	if term == nil {
		return FallthroughNone
	}
	switch term.Kind {
	case SymSemiAnd:
		return FallthroughAlways
	case SymDSemiAnd:
		return FallthroughConditional
	default:
		return FallthroughNone
	}
}

// IsHeredocRedirect reports whether n is a redirect using "<<" or "<<-".
func IsHeredocRedirect(n *Node) bool {
	return n != nil && n.Kind == SymRedirect && n.ChildByField("delimiter") != nil
}

// HeredocBody returns the heredoc_body belonging to a heredoc redirect, or nil.
// A body is either nested in the redirect itself or, when several
// here-documents start on one line, placed after the statement; in that case
// bodies are matched to redirects in declaration order.
func HeredocBody(redirect *Node) *Node {
	if !IsHeredocRedirect(redirect) {
		return nil
	}
	if body := redirect.ChildByField("body"); body != nil {
		return body
	}

	container := bodyContainer(redirect)
	if container == nil {
		return nil
	}

	var bodies []*Node
	for child := container.FirstChild; child != nil; child = child.Next {
		if child.Kind == SymHeredocBody {
			bodies = append(bodies, child)
		}
	}

	index := 0
	found := false
	//nolint:errcheck,revive // errStopWalk is expected
	Walk(container, func(n *Node) error {
		if n == redirect {
			found = true
			return errStopWalk
		}
		if IsHeredocRedirect(n) && n.ChildByField("body") == nil && bodyContainer(n) == container {
			index++
		}
		return nil
	})

	if !found || index >= len(bodies) {
		return nil
	}
	return bodies[index]
}

// bodyContainer returns the nearest ancestor of n holding heredoc bodies as
// direct children.
func bodyContainer(n *Node) *Node {
	for node := n.Parent; node != nil; node = node.Parent {
		if node.ChildOfKind(SymHeredocBody) != nil {
			return node
		}
	}
	return nil
}
