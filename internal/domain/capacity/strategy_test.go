// Where: internal/domain/capacity/strategy_test.go
// What: Unit tests for the spot capacity policy.
// Why: Keep the base-then-weight shapes stable per preference.
package capacity

import (
	"errors"
	"reflect"
	"testing"
)

func TestForNoSpot(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		got, err := For(NoSpot, n)
		if err != nil {
			t.Fatalf("For(NoSpot, %d): %v", n, err)
		}
		if len(got.Entries) != 1 {
			t.Fatalf("expected one entry, got %+v", got.Entries)
		}
		entry := got.Entries[0]
		if entry.Provider != OnDemand || entry.Base != n {
			t.Fatalf("For(NoSpot, %d)=%+v", n, entry)
		}
		if got.GuaranteedCapacity() != n {
			t.Fatalf("guaranteed capacity=%d, want %d", got.GuaranteedCapacity(), n)
		}
		if got.UsesSpot() {
			t.Fatalf("NoSpot must not use spot")
		}
	}
}

func TestForOnlySpot(t *testing.T) {
	got, err := For(OnlySpot, 3)
	if err != nil {
		t.Fatalf("For(OnlySpot): %v", err)
	}
	want := []Entry{{Provider: Spot, Base: 0, Weight: 1}}
	if !reflect.DeepEqual(got.Entries, want) {
		t.Fatalf("For(OnlySpot)=%+v, want %+v", got.Entries, want)
	}
	if got.GuaranteedCapacity() != 0 {
		t.Fatalf("OnlySpot reserves no on-demand capacity")
	}
}

func TestForUpscaleWithSpot(t *testing.T) {
	got, err := For(UpscaleWithSpot, 4)
	if err != nil {
		t.Fatalf("For(UpscaleWithSpot): %v", err)
	}
	want := []Entry{
		{Provider: OnDemand, Base: 1, Weight: 1},
		{Provider: Spot, Base: 0, Weight: MaxWeight},
	}
	if !reflect.DeepEqual(got.Entries, want) {
		t.Fatalf("For(UpscaleWithSpot)=%+v, want %+v", got.Entries, want)
	}
	if got.GuaranteedCapacity() != 1 {
		t.Fatalf("expected a single guaranteed task")
	}
}

func TestForZeroDesiredCount(t *testing.T) {
	for _, pref := range Preferences() {
		got, err := For(pref, 0)
		if err != nil {
			t.Fatalf("For(%s, 0): %v", pref, err)
		}
		if !got.Empty() {
			t.Fatalf("For(%s, 0) should be empty, got %+v", pref, got.Entries)
		}
		if got.GuaranteedCapacity() != 0 {
			t.Fatalf("For(%s, 0) guarantees capacity", pref)
		}
	}
}

func TestForRejectsInvalidInput(t *testing.T) {
	if _, err := For(NoSpot, -1); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity for negative count, got %v", err)
	}
	if _, err := For(SpotPreference("Sometimes"), 1); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity for unknown preference, got %v", err)
	}
}

func TestForNeverNegative(t *testing.T) {
	for _, pref := range Preferences() {
		for n := 0; n < 6; n++ {
			got, _ := For(pref, n)
			for _, entry := range got.Entries {
				if entry.Base < 0 || entry.Weight < 0 {
					t.Fatalf("For(%s, %d) has negative entry %+v", pref, n, entry)
				}
			}
		}
	}
}

func TestForIsIdempotent(t *testing.T) {
	first, _ := For(UpscaleWithSpot, 2)
	second, _ := For(UpscaleWithSpot, 2)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("For is not deterministic")
	}
}

func TestParseSpotPreference(t *testing.T) {
	var pref SpotPreference
	if err := pref.UnmarshalText([]byte("UpscaleWithSpot")); err != nil || pref != UpscaleWithSpot {
		t.Fatalf("UnmarshalText=%q, %v", pref, err)
	}
	if err := pref.UnmarshalText([]byte("nospot")); err == nil {
		t.Fatalf("expected error for wrong casing")
	}
}
