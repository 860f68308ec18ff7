// Where: internal/domain/infrastate/state_test.go
// What: Unit tests for infra state parsing and the activation table.
// Why: Lock the activation matrix and its invariants for every state.
package infrastate

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input   string
		want    State
		wantErr bool
	}{
		{input: "running", want: Running},
		{input: "restricted", want: Restricted},
		{input: "db-only", want: DBOnly},
		{input: "stopped", want: Stopped},
		{input: "", wantErr: true},
		{input: "Running", wantErr: true},
		{input: " running", wantErr: true},
		{input: "dbonly", wantErr: true},
		{input: "maintenance", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.input)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidInfraState) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalidInfraState", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q)=%s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestStateTextRoundTrip(t *testing.T) {
	var state State
	if err := state.UnmarshalText([]byte("db-only")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	text, err := state.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != "db-only" {
		t.Fatalf("unexpected text: %s", text)
	}
	if _, err := State(42).MarshalText(); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestStateOrdering(t *testing.T) {
	if !Running.AtLeast(Restricted) || !Restricted.AtLeast(DBOnly) || !DBOnly.AtLeast(Stopped) {
		t.Fatalf("expected Running > Restricted > DBOnly > Stopped")
	}
	if Stopped.AtLeast(DBOnly) {
		t.Fatalf("stopped must be the lowest state")
	}
}

func TestActivationTableCoversEveryState(t *testing.T) {
	if len(activationTable) != len(All()) {
		t.Fatalf("activation table has %d rows, want %d", len(activationTable), len(All()))
	}
	for _, state := range All() {
		if _, ok := activationTable[state]; !ok {
			t.Fatalf("missing activation row for %s", state)
		}
	}
}

func TestResolveMatrix(t *testing.T) {
	cases := map[State]Activation{
		Stopped:    {Maintenance: true},
		DBOnly:     {Maintenance: true, Database: true, CacheAndSearch: true, Migration: true, AuxiliaryServices: true},
		Restricted: {Maintenance: true, Database: true, CacheAndSearch: true, CoreServices: true, AuxiliaryServices: true},
		Running:    {Database: true, CacheAndSearch: true, CoreServices: true, AuxiliaryServices: true},
	}
	for state, want := range cases {
		got, err := Resolve(state)
		if err != nil {
			t.Fatalf("Resolve(%s) unexpected error: %v", state, err)
		}
		if got != want {
			t.Fatalf("Resolve(%s)=%+v, want %+v", state, got, want)
		}
	}
}

func TestResolveInvariants(t *testing.T) {
	for _, state := range All() {
		got, err := Resolve(state)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", state, err)
		}
		if !got.Database && (got.CacheAndSearch || got.CoreServices || got.Migration || got.AuxiliaryServices) {
			t.Fatalf("%s: services active without database: %+v", state, got)
		}
		if got.Maintenance == (state == Running) {
			t.Fatalf("%s: maintenance=%v", state, got.Maintenance)
		}
		if got.Migration != (state == DBOnly) {
			t.Fatalf("%s: migration=%v", state, got.Migration)
		}
	}
}

func TestResolveMonotonic(t *testing.T) {
	states := All()
	for i := 1; i < len(states); i++ {
		lower, _ := Resolve(states[i-1])
		higher, _ := Resolve(states[i])
		if !lower.Subset(higher) {
			t.Fatalf("activation of %s is not a subset of %s", states[i-1], states[i])
		}
	}
}

func TestResolveRejectsUnknownState(t *testing.T) {
	if _, err := Resolve(State(0)); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

func TestValidateDetectsBrokenRow(t *testing.T) {
	broken := Activation{Maintenance: true, CoreServices: true}
	if err := broken.validate(Stopped); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
	migrating := Activation{Database: true, Migration: true}
	if err := migrating.validate(Running); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation for migration while running, got %v", err)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	for _, state := range All() {
		first, _ := Resolve(state)
		second, _ := Resolve(state)
		if first != second {
			t.Fatalf("Resolve(%s) not deterministic", state)
		}
	}
}

func TestActivationAllows(t *testing.T) {
	dbOnly, _ := Resolve(DBOnly)
	if dbOnly.Allows(ClassCore) {
		t.Fatalf("core must be off in db-only")
	}
	if !dbOnly.Allows(ClassMigration) || !dbOnly.Allows(ClassDatabase) {
		t.Fatalf("migration and database must run in db-only")
	}
	stopped, _ := Resolve(Stopped)
	if !stopped.Allows(ClassEdge) {
		t.Fatalf("edge is always provisioned")
	}
	if stopped.Allows(ServiceClass("bogus")) {
		t.Fatalf("unknown class must not be allowed")
	}
}

func TestParseClass(t *testing.T) {
	if got, err := ParseClass("cache-search"); err != nil || got != ClassCacheSearch {
		t.Fatalf("ParseClass(cache-search)=%q, %v", got, err)
	}
	if _, err := ParseClass("cache"); err == nil {
		t.Fatalf("expected error for unknown class")
	}
}
