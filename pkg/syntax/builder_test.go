package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/pkg/syntax"
)

// buildCommand builds the tree for "echo hi" by hand.
func buildCommand() (*syntax.Node, *syntax.Node, *syntax.Node) {
	program := syntax.NewNode(syntax.SymProgram, 0)
	cmd := syntax.NewNode(syntax.SymSimpleCommand, 0)
	syntax.AppendChild(program, cmd)

	name := syntax.NewLeaf(syntax.SymWord, 0, 4)
	name.Field = "name"
	syntax.AppendChild(cmd, name)
	syntax.AppendChild(cmd, syntax.NewLeaf(syntax.SymWhitespace, 4, 5))

	arg := syntax.NewLeaf(syntax.SymWord, 5, 7)
	arg.Field = "argument"
	syntax.AppendChild(cmd, arg)

	return program, cmd, arg
}

func TestAppendChild_PropagatesRanges(t *testing.T) {
	t.Parallel()

	program, cmd, _ := buildCommand()

	assert.Equal(t, 0, cmd.StartOffset)
	assert.Equal(t, 7, cmd.EndOffset)
	assert.Equal(t, 7, program.EndOffset)
	assert.Equal(t, 3, cmd.ChildCount())
	assert.Len(t, cmd.NamedChildren(), 2)
}

func TestRemoveChild_ShrinksRanges(t *testing.T) {
	t.Parallel()

	program, cmd, arg := buildCommand()
	syntax.RemoveChild(cmd, arg)

	assert.Nil(t, arg.Parent)
	assert.Equal(t, 5, cmd.EndOffset)
	assert.Equal(t, 5, program.EndOffset)
	assert.Equal(t, syntax.SymWhitespace, cmd.LastChild.Kind)
}

func TestWrap_NestsLeft(t *testing.T) {
	t.Parallel()

	program := syntax.NewNode(syntax.SymProgram, 0)
	left := syntax.NewNode(syntax.SymSimpleCommand, 0)
	syntax.AppendChild(left, syntax.NewLeaf(syntax.SymWord, 0, 1))
	syntax.AppendChild(program, left)

	pipe := syntax.Wrap(syntax.SymPipeline, left)
	syntax.AppendChild(pipe, syntax.NewLeaf(syntax.SymPipe, 1, 2))

	require.Same(t, pipe, program.FirstChild)
	assert.Same(t, left, pipe.FirstChild)
	assert.Equal(t, 2, program.EndOffset)
}

func TestChildByField(t *testing.T) {
	t.Parallel()

	_, cmd, arg := buildCommand()

	assert.Same(t, arg, cmd.ChildByField("argument"))
	assert.Nil(t, cmd.ChildByField("redirect"))
	assert.Len(t, cmd.ChildrenByField("argument"), 1)
}

func TestNewMissing(t *testing.T) {
	t.Parallel()

	leaf := syntax.NewMissing(syntax.SymFi, 12)

	assert.True(t, leaf.Missing)
	assert.Equal(t, 0, leaf.Len())
	assert.Equal(t, 12, leaf.StartOffset)
}
