package scanner

import (
	"slices"

	"github.com/yaklabco/dashgram/pkg/classify"
)

// Limits on the persisted state. They bound the size of a serialized state.
const (
	// MaxDepth is the deepest nesting of quoting and substitution contexts.
	MaxDepth = 64

	// MaxHeredocs is the largest number of here-documents tracked at once.
	MaxHeredocs = 64
)

// Heredoc is an open here-document marker.
type Heredoc struct {
	// Delimiter is the unquoted delimiter text.
	Delimiter string

	// StripTabs is set for "<<-": leading tabs are ignored when matching
	// the delimiter line.
	StripTabs bool

	// Quoted is set when any part of the delimiter was quoted, which
	// disables expansions inside the body.
	Quoted bool

	// Depth is the context depth the marker was declared at. Only a
	// newline at the same depth starts its body.
	Depth int

	// Active is set once the line declaring the marker has ended and the
	// body is being read.
	Active bool
}

// State is everything the scanner carries from one token to the next.
// The zero value is the state at the start of a document.
type State struct {
	// Heredocs holds open markers in declaration order.
	Heredocs []Heredoc

	// Modes is the stack of quoting and substitution contexts. An empty
	// stack means classify.ModeNone.
	Modes []classify.Mode

	// StripNext records that the last heredoc operator was "<<-" and its
	// delimiter has not been read yet.
	StripNext bool
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Heredocs:  slices.Clone(s.Heredocs),
		Modes:     slices.Clone(s.Modes),
		StripNext: s.StripNext,
	}
}

// Equal reports whether two states are interchangeable.
func (s State) Equal(other State) bool {
	return s.StripNext == other.StripNext &&
		slices.Equal(s.Heredocs, other.Heredocs) &&
		slices.Equal(s.Modes, other.Modes)
}

// Mode returns the innermost context.
func (s State) Mode() classify.Mode {
	if len(s.Modes) == 0 {
		return classify.ModeNone
	}
	return s.Modes[len(s.Modes)-1]
}

// Depth returns the number of open contexts.
func (s State) Depth() int {
	return len(s.Modes)
}

// SubstitutionDepth returns the number of open command substitutions.
func (s State) SubstitutionDepth() int {
	count := 0
	for _, mode := range s.Modes {
		if mode == classify.ModeSubstitution || mode == classify.ModeBacktick {
			count++
		}
	}
	return count
}

// IsEmpty reports whether the state equals the initial state.
func (s State) IsEmpty() bool {
	return len(s.Heredocs) == 0 && len(s.Modes) == 0 && !s.StripNext
}
