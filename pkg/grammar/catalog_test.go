package grammar_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/pkg/grammar"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func TestCatalog_SimpleCommand(t *testing.T) {
	t.Parallel()

	entry, ok := grammar.Default().Catalog()["simple_command"]
	require.True(t, ok)
	assert.True(t, entry.Named)
	assert.Nil(t, entry.Children)

	want := map[string]bool{"name": false, "argument": true, "redirect": true, "assignment": true}
	got := make(map[string]bool)
	for field, info := range entry.Fields {
		got[field] = info.Multiple
		assert.False(t, info.Required, field)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("simple_command fields mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_Shapes(t *testing.T) {
	t.Parallel()

	cat := grammar.Default().Catalog()

	tests := []struct {
		name     string
		kind     string
		field    string
		multiple bool
		required bool
		contains []grammar.TypeRef
	}{
		{
			name:     "pipeline operands",
			kind:     "pipeline",
			multiple: true,
			required: true,
			contains: []grammar.TypeRef{{Type: "command", Named: true}, {Type: "pipeline", Named: true}},
		},
		{
			name:     "redirect operator includes anonymous operators",
			kind:     "redirect",
			field:    "operator",
			required: true,
			contains: []grammar.TypeRef{{Type: "<", Named: false}, {Type: "<<-", Named: false}},
		},
		{
			name:     "heredoc delimiter",
			kind:     "redirect",
			field:    "delimiter",
			contains: []grammar.TypeRef{{Type: "heredoc_start", Named: true}},
		},
		{
			name:     "case terminator",
			kind:     "case_item",
			field:    "termination",
			contains: []grammar.TypeRef{{Type: ";;", Named: false}, {Type: ";;&", Named: false}},
		},
		{
			name:     "function body",
			kind:     "function_definition",
			field:    "body",
			required: true,
			contains: []grammar.TypeRef{{Type: "compound_command", Named: true}},
		},
		{
			name:     "for values",
			kind:     "for_statement",
			field:    "value",
			multiple: true,
			contains: []grammar.TypeRef{{Type: "word", Named: true}, {Type: "concatenation", Named: true}},
		},
		{
			name:     "program statements",
			kind:     "program",
			multiple: true,
			contains: []grammar.TypeRef{{Type: "heredoc_body", Named: true}, {Type: "list", Named: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entry, ok := cat[tt.kind]
			require.True(t, ok)

			var info grammar.ChildInfo
			if tt.field == "" {
				require.NotNil(t, entry.Children)
				info = *entry.Children
			} else {
				var found bool
				info, found = entry.Fields[tt.field]
				require.True(t, found, "field %s", tt.field)
			}

			assert.Equal(t, tt.multiple, info.Multiple)
			assert.Equal(t, tt.required, info.Required)
			for _, ref := range tt.contains {
				assert.Contains(t, info.Types, ref)
			}
		})
	}
}

func TestCatalog_Supertypes(t *testing.T) {
	t.Parallel()

	cat := grammar.Default().Catalog()

	command := cat["command"]
	assert.Equal(t, []grammar.TypeRef{
		{Type: "compound_command", Named: true},
		{Type: "function_definition", Named: true},
		{Type: "simple_command", Named: true},
	}, command.Subtypes)

	expanded := cat.Expand(grammar.TypeRef{Type: "command", Named: true})
	assert.Len(t, expanded, 9)
	assert.Contains(t, expanded, grammar.TypeRef{Type: "if_statement", Named: true})

	info := *cat["pipeline"].Children
	assert.True(t, cat.Allows(info, syntax.SymSubshell))
	assert.True(t, cat.Allows(info, syntax.SymSimpleCommand))
	assert.False(t, cat.Allows(info, syntax.SymWord))
}

func TestCatalog_Terminals(t *testing.T) {
	t.Parallel()

	cat := grammar.Default().Catalog()

	assert.Equal(t, grammar.NodeType{Type: "comment", Named: true, Extra: true}, cat["comment"])
	assert.Equal(t, grammar.NodeType{Type: "&&", Named: false}, cat["&&"])
	assert.Contains(t, cat, "unterminated")
	assert.NotContains(t, cat, "end")
	assert.NotContains(t, cat, "_word")
}

func TestValidateCatalog_Generated(t *testing.T) {
	t.Parallel()

	data, err := grammar.Default().Catalog().MarshalIndent()
	require.NoError(t, err)
	require.NoError(t, grammar.ValidateCatalog(data))

	var decoded grammar.Catalog
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(grammar.Default().Catalog(), decoded); diff != "" {
		t.Errorf("catalog JSON is lossy (-want +got):\n%s", diff)
	}
}

func TestValidateCatalog_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{`},
		{name: "empty", doc: `{}`},
		{name: "missing named", doc: `{"word": {"type": "word"}}`},
		{name: "unknown property", doc: `{"word": {"type": "word", "named": true, "color": "red"}}`},
		{name: "empty types", doc: `{"x": {"type": "x", "named": true, "children": {"multiple": false, "required": false, "types": []}}}`},
		{name: "dangling reference", doc: `{"x": {"type": "x", "named": true, "fields": {"body": {"multiple": false, "required": true, "types": [{"type": "y", "named": true}]}}}}`},
		{name: "named mismatch", doc: `{"x": {"type": "x", "named": true, "children": {"multiple": false, "required": true, "types": [{"type": "x", "named": false}]}}}`},
		{name: "key mismatch", doc: `{"x": {"type": "y", "named": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := grammar.ValidateCatalog([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, grammar.ErrCatalogInvalid)
		})
	}
}

func TestCatalogSchema_Published(t *testing.T) {
	t.Parallel()

	var schema map[string]any
	require.NoError(t, json.Unmarshal(grammar.CatalogSchema(), &schema))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", schema["$schema"])
}
