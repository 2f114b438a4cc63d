package scanner_test

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/scanner"
)

func TestSerialize_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state scanner.State
	}{
		{"empty", scanner.State{}},
		{
			"nested",
			scanner.State{
				Modes: []classify.Mode{classify.ModeSubstitution, classify.ModeDouble, classify.ModeBacktick},
			},
		},
		{
			"heredocs",
			scanner.State{
				Heredocs: []scanner.Heredoc{
					{Delimiter: "EOF", Active: true},
					{Delimiter: "END", StripTabs: true, Quoted: true, Depth: 1},
				},
				Modes:     []classify.Mode{classify.ModeSubstitution},
				StripNext: true,
			},
		},
		{
			"empty quoted delimiter",
			scanner.State{
				Heredocs: []scanner.Heredoc{{Delimiter: "", Quoted: true, Active: true}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := tt.state.Serialize()
			require.NoError(t, err)

			got, err := scanner.Deserialize(data)
			require.NoError(t, err)
			assert.True(t, tt.state.Equal(got), "got %+v", got)

			again, err := got.Serialize()
			require.NoError(t, err)
			assert.Equal(t, data, again, "encoding is canonical")
		})
	}
}

func TestSerialize_Compact(t *testing.T) {
	t.Parallel()

	data, err := scanner.State{}.Serialize()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(data), 4)
}

func TestDeserialize_VersionMismatch(t *testing.T) {
	t.Parallel()

	data, err := cbor.Marshal(map[int]any{1: scanner.StateVersion + 1})
	require.NoError(t, err)

	_, err = scanner.Deserialize(data)
	require.ErrorIs(t, err, scanner.ErrStateVersion)

	var stateErr *scanner.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, stateErr.Detail, "want 1")
}

func TestDeserialize_Corrupt(t *testing.T) {
	t.Parallel()

	tooDeep := make([]uint8, scanner.MaxDepth+1)
	deep, err := cbor.Marshal(map[int]any{1: scanner.StateVersion, 3: tooDeep})
	require.NoError(t, err)

	badMode, err := cbor.Marshal(map[int]any{1: scanner.StateVersion, 3: []uint8{99}})
	require.NoError(t, err)

	emptyUnquoted, err := cbor.Marshal(map[int]any{1: scanner.StateVersion, 2: []map[int]any{{1: ""}}})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte{0xff, 0x00}},
		{"too deep", deep},
		{"unknown mode", badMode},
		{"empty unquoted delimiter", emptyUnquoted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := scanner.New()
			err := s.Deserialize(tt.data)
			require.ErrorIs(t, err, scanner.ErrStateCorrupt)
			assert.True(t, s.State().IsEmpty(), "scanner unchanged on error")
		})
	}
}
