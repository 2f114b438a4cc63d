package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/dashgram/pkg/syntax"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single line", "echo", 1},
		{"trailing newline", "echo\n", 2},
		{"crlf", "a\r\nb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, syntax.BuildLines([]byte(tt.content)), tt.want)
		})
	}
}

func TestTree_LineAt(t *testing.T) {
	t.Parallel()

	tree := syntax.NewTree("x.sh", []byte("echo a\nls -l\n"), nil)

	line, col := tree.LineAt(8)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	offset, ok := tree.Offset(2, 2)
	assert.True(t, ok)
	assert.Equal(t, 8, offset)

	assert.Equal(t, "ls -l", string(tree.LineContent(2)))
}
