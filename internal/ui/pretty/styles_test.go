package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, rendered := range []string{
		styles.Bold.Render("test"),
		styles.Unexpected.Render("test"),
		styles.NodeKind.Render("test"),
	} {
		assert.Equal(t, "test", rendered)
	}
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "a buffer is not a terminal")
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, pretty.DefaultTermWidth, pretty.TerminalWidth(&buf))
}
