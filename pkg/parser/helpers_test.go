package parser_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()

	tree, err := parser.New().Parse(context.Background(), "test.sh", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

// leafText concatenates the text of every leaf in source order.
func leafText(tree *syntax.Tree) string {
	var sb strings.Builder
	for _, leaf := range syntax.Leaves(tree.Root) {
		sb.Write(leaf.Text(tree.Content))
	}
	return sb.String()
}

// dump flattens a tree into comparable lines: kind, field, range and
// whether the node was inserted or carries a state snapshot.
func dump(root *syntax.Node) []string {
	var lines []string
	//nolint:errcheck // callback never fails
	syntax.Walk(root, func(n *syntax.Node) error {
		depth := 0
		for p := n.Parent; p != nil; p = p.Parent {
			depth++
		}
		lines = append(lines, fmt.Sprintf("%s%s %s [%d,%d) missing=%t state=%t",
			strings.Repeat("  ", depth), n.Kind, n.Field, n.StartOffset, n.EndOffset, n.Missing, n.State != nil))
		return nil
	})
	return lines
}

// corpus holds well-formed scripts covering every construct.
//
//nolint:gochecknoglobals // Shared read-only test input.
var corpus = []string{
	"",
	"echo hello world\n",
	"a | b | c\n",
	"a && b || c; d &\n",
	"! a | b\n",
	"FOO=bar BAZ= cmd arg >out 2>&1 <in\n",
	"echo \"a $(echo \"b\") c\"\n",
	"echo 'raw' $'ansi\\n' `date` $((1 + (2 * 3)))\n",
	"echo `echo \\`date\\``\n",
	"echo ${x} ${#x} ${x:-default} ${x%%.*} $1 $? $@\n",
	"cat <<EOF\nhello $USER\nEOF\n",
	"cat <<'EOF'\nliteral $x\nEOF\n",
	"cat <<''\nbody\n\necho after\n",
	"cat <<-EOF\n\tindented\n\tEOF\n",
	"cat <<A; echo next\nbody\nA\n",
	"cat <<A <<B\none\nA\ntwo\nB\n",
	"if a; then b; elif c; then d; else e; fi\n",
	"while read line; do echo \"$line\"; done < file\n",
	"until false; do :; done\n",
	"for x in a b c; do echo $x; done\n",
	"for x\ndo\n  echo $x\ndone\n",
	"case $1 in\n  a|b) echo ab;;\n  (c) echo c ;&\n  *) ;;\nesac\n",
	"f() { echo hi; }\n",
	"function g { return 1; }\n",
	"(cd /tmp && ls) > out\n",
	"# comment\necho a # trailing\n",
	"echo a\\\n  b\n",
	"x=$(\n  ls\n)\n",
	"echo a\"b\"$c'd'\n",
}
