// Where: internal/domain/infrastate/state.go
// What: Infra state enumeration and boundary parsing.
// Why: Reject unknown operator input before any planning starts.
package infrastate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInfraState reports an infra state string outside the enumeration.
var ErrInvalidInfraState = errors.New("invalid infra state")

// State selects how much of the stack is intentionally running.
// Values are ordered: Stopped < DBOnly < Restricted < Running.
type State int

const (
	// Stopped keeps nothing running except the maintenance redirect.
	Stopped State = iota + 1
	// DBOnly runs data services and migrations; application traffic is diverted.
	DBOnly
	// Restricted runs everything but only operators carrying the bypass header get through.
	Restricted
	// Running is fully up and public.
	Running
)

var stateNames = map[State]string{
	Stopped:    "stopped",
	DBOnly:     "db-only",
	Restricted: "restricted",
	Running:    "running",
}

// All returns every state from lowest to highest.
func All() []State {
	return []State{Stopped, DBOnly, Restricted, Running}
}

// Parse validates an operator supplied state. Matching is exact: no trimming,
// no case folding and no default for an empty value.
func Parse(value string) (State, error) {
	for _, state := range All() {
		if stateNames[state] == value {
			return state, nil
		}
	}
	return 0, fmt.Errorf(
		"%w: %q (expected one of: %s)",
		ErrInvalidInfraState,
		value,
		strings.Join(Names(), ", "),
	)
}

// Names lists accepted state spellings in order.
func Names() []string {
	out := make([]string, 0, len(stateNames))
	for _, state := range All() {
		out = append(out, stateNames[state])
	}
	return out
}

// Valid reports whether s is one of the four declared states.
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AtLeast reports whether s keeps at least as much running as other.
func (s State) AtLeast(other State) bool {
	return s >= other
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInfraState, int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so config files and
// flags go through Parse.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
