package scanner

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/yaklabco/dashgram/pkg/classify"
)

// StateVersion is the schema version written into every serialized state.
const StateVersion = 1

const (
	flagStripTabs = 1 << iota
	flagQuoted
	flagActive
)

type wireHeredoc struct {
	Delimiter string `cbor:"1,keyasint"`
	Flags     uint8  `cbor:"2,keyasint,omitempty"`
	Depth     uint8  `cbor:"3,keyasint,omitempty"`
}

type wireState struct {
	Version   uint          `cbor:"1,keyasint"`
	Heredocs  []wireHeredoc `cbor:"2,keyasint,omitempty"`
	Modes     []uint8       `cbor:"3,keyasint,omitempty"`
	StripNext bool          `cbor:"4,keyasint,omitempty"`
}

// Serialize encodes the state as canonical CBOR. Equal states always
// produce identical bytes.
func (s State) Serialize() ([]byte, error) {
	wire := wireState{
		Version:   StateVersion,
		StripNext: s.StripNext,
	}
	for _, mode := range s.Modes {
		wire.Modes = append(wire.Modes, uint8(mode))
	}
	for _, h := range s.Heredocs {
		var flags uint8
		if h.StripTabs {
			flags |= flagStripTabs
		}
		if h.Quoted {
			flags |= flagQuoted
		}
		if h.Active {
			flags |= flagActive
		}
		wire.Heredocs = append(wire.Heredocs, wireHeredoc{
			Delimiter: h.Delimiter,
			Flags:     flags,
			Depth:     uint8(h.Depth), //nolint:gosec // bounded by MaxDepth
		})
	}

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode scanner state: %w", err)
	}
	return data, nil
}

// Deserialize decodes a buffer written by Serialize. A buffer from another
// schema version yields ErrStateVersion; anything malformed yields
// ErrStateCorrupt. Callers must abandon the parse session on either.
func Deserialize(data []byte) (State, error) {
	if len(data) == 0 {
		return State{}, &StateError{Err: ErrStateCorrupt, Detail: "empty buffer"}
	}

	var wire wireState
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return State{}, &StateError{Err: ErrStateCorrupt, Detail: err.Error()}
	}

	if wire.Version != StateVersion {
		return State{}, &StateError{
			Err:    ErrStateVersion,
			Detail: fmt.Sprintf("got version %d, want %d", wire.Version, StateVersion),
		}
	}

	if len(wire.Modes) > MaxDepth {
		return State{}, &StateError{Err: ErrStateCorrupt, Detail: fmt.Sprintf("%d open contexts", len(wire.Modes))}
	}
	if len(wire.Heredocs) > MaxHeredocs {
		return State{}, &StateError{Err: ErrStateCorrupt, Detail: fmt.Sprintf("%d open here-documents", len(wire.Heredocs))}
	}

	state := State{StripNext: wire.StripNext}
	for _, raw := range wire.Modes {
		mode := classify.Mode(raw)
		if !mode.IsValid() {
			return State{}, &StateError{Err: ErrStateCorrupt, Detail: fmt.Sprintf("unknown mode %d", raw)}
		}
		state.Modes = append(state.Modes, mode)
	}

	for _, wh := range wire.Heredocs {
		if wh.Delimiter == "" && wh.Flags&flagQuoted == 0 {
			return State{}, &StateError{Err: ErrStateCorrupt, Detail: "empty unquoted here-document delimiter"}
		}
		if int(wh.Depth) > len(state.Modes) {
			return State{}, &StateError{Err: ErrStateCorrupt, Detail: "here-document deeper than context stack"}
		}
		h := Heredoc{
			Delimiter: wh.Delimiter,
			StripTabs: wh.Flags&flagStripTabs != 0,
			Quoted:    wh.Flags&flagQuoted != 0,
			Active:    wh.Flags&flagActive != 0,
			Depth:     int(wh.Depth),
		}
		state.Heredocs = append(state.Heredocs, h)
	}

	return state, nil
}
