// Where: internal/domain/capacity/spot.go
// What: Per-service spot capacity preference.
// Why: Parse the preference spellings used in the stack configuration.
package capacity

import (
	"fmt"
	"strings"
)

// SpotPreference trades availability against cost for one service.
type SpotPreference string

const (
	// NoSpot only uses guaranteed on-demand capacity.
	NoSpot SpotPreference = "NoSpot"
	// OnlySpot only uses preemptible capacity.
	OnlySpot SpotPreference = "OnlySpot"
	// UpscaleWithSpot keeps one on-demand task and scales out on spot.
	UpscaleWithSpot SpotPreference = "UpscaleWithSpot"
)

// Preferences returns every known preference.
func Preferences() []SpotPreference {
	return []SpotPreference{NoSpot, OnlySpot, UpscaleWithSpot}
}

// ParseSpotPreference validates a preference name.
func ParseSpotPreference(value string) (SpotPreference, error) {
	for _, pref := range Preferences() {
		if string(pref) == value {
			return pref, nil
		}
	}
	names := make([]string, 0, 3)
	for _, pref := range Preferences() {
		names = append(names, string(pref))
	}
	return "", fmt.Errorf("%w: unknown spot preference %q (expected one of: %s)",
		ErrInvalidCapacity, value, strings.Join(names, ", "))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SpotPreference) UnmarshalText(text []byte) error {
	parsed, err := ParseSpotPreference(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
