// Where: internal/domain/capacity/strategy.go
// What: Capacity provider strategy derived from a spot preference.
// Why: Give the compute placement layer a weighted on-demand/spot split.
package capacity

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity reports a preference or desired count the policy cannot serve.
var ErrInvalidCapacity = errors.New("invalid capacity request")

// Provider names the compute capacity pool.
type Provider string

const (
	OnDemand Provider = "FARGATE"
	Spot     Provider = "FARGATE_SPOT"
)

// MaxWeight is the largest weight the placement layer accepts. A spot entry
// with this weight takes every task beyond the on-demand base.
const MaxWeight = 1000

// Entry is one provider share of a strategy.
type Entry struct {
	Provider Provider `json:"provider" yaml:"provider"`
	Base     int      `json:"base" yaml:"base"`
	Weight   int      `json:"weight" yaml:"weight"`
}

// Strategy is the ordered provider split for one service. An empty strategy
// means no capacity is requested.
type Strategy struct {
	Entries []Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// For computes the strategy for a preference and a desired task count.
func For(pref SpotPreference, desiredCount int) (Strategy, error) {
	if desiredCount < 0 {
		return Strategy{}, fmt.Errorf("%w: desired count %d is negative", ErrInvalidCapacity, desiredCount)
	}
	if _, err := ParseSpotPreference(string(pref)); err != nil {
		return Strategy{}, err
	}
	if desiredCount == 0 {
		return Strategy{}, nil
	}

	switch pref {
	case NoSpot:
		return Strategy{Entries: []Entry{
			{Provider: OnDemand, Base: desiredCount, Weight: 1},
		}}, nil
	case OnlySpot:
		return Strategy{Entries: []Entry{
			{Provider: Spot, Base: 0, Weight: 1},
		}}, nil
	case UpscaleWithSpot:
		return Strategy{Entries: []Entry{
			{Provider: OnDemand, Base: 1, Weight: 1},
			{Provider: Spot, Base: 0, Weight: MaxWeight},
		}}, nil
	}
	return Strategy{}, fmt.Errorf("%w: unhandled spot preference %q", ErrInvalidCapacity, pref)
}

// Empty reports whether the strategy requests no capacity.
func (s Strategy) Empty() bool {
	return len(s.Entries) == 0
}

// GuaranteedCapacity is the number of tasks reserved on on-demand capacity.
func (s Strategy) GuaranteedCapacity() int {
	total := 0
	for _, entry := range s.Entries {
		if entry.Provider == OnDemand {
			total += entry.Base
		}
	}
	return total
}

// UsesSpot reports whether any share lands on spot capacity.
func (s Strategy) UsesSpot() bool {
	for _, entry := range s.Entries {
		if entry.Provider == Spot && entry.Weight > 0 {
			return true
		}
	}
	return false
}
