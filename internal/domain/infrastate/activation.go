// Where: internal/domain/infrastate/activation.go
// What: Activation matrix derived from the infra state.
// Why: Keep every on/off decision in one exhaustive table instead of scattered conditionals.
package infrastate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariantViolation reports an activation matrix that breaks the
// resolver invariants. It is never expected with the shipped table.
var ErrInvariantViolation = errors.New("activation invariant violated")

// Activation is the per service-class desired running matrix.
type Activation struct {
	Maintenance       bool `json:"maintenance" yaml:"maintenance"`
	Database          bool `json:"database" yaml:"database"`
	CacheAndSearch    bool `json:"cache_and_search" yaml:"cache_and_search"`
	CoreServices      bool `json:"core_services" yaml:"core_services"`
	Migration         bool `json:"migration" yaml:"migration"`
	AuxiliaryServices bool `json:"auxiliary_services" yaml:"auxiliary_services"`
}

var activationTable = map[State]Activation{
	Stopped: {
		Maintenance: true,
	},
	DBOnly: {
		Maintenance:       true,
		Database:          true,
		CacheAndSearch:    true,
		Migration:         true,
		AuxiliaryServices: true,
	},
	Restricted: {
		Maintenance:       true,
		Database:          true,
		CacheAndSearch:    true,
		CoreServices:      true,
		AuxiliaryServices: true,
	},
	Running: {
		Database:          true,
		CacheAndSearch:    true,
		CoreServices:      true,
		AuxiliaryServices: true,
	},
}

// Resolve maps a state to its activation matrix. The state must already be
// validated at the boundary; an unknown value here is a programming error.
func Resolve(state State) (Activation, error) {
	activation, ok := activationTable[state]
	if !ok {
		return Activation{}, fmt.Errorf("%w: no activation row for %s", ErrInvariantViolation, state)
	}
	if err := activation.validate(state); err != nil {
		return Activation{}, err
	}
	return activation, nil
}

// Allows reports whether services of the given class should run.
func (a Activation) Allows(class ServiceClass) bool {
	switch class {
	case ClassEdge:
		return true
	case ClassDatabase:
		return a.Database
	case ClassCacheSearch:
		return a.CacheAndSearch
	case ClassCore:
		return a.CoreServices
	case ClassMigration:
		return a.Migration
	case ClassAuxiliary:
		return a.AuxiliaryServices
	default:
		return false
	}
}

func (a Activation) validate(state State) error {
	var problems []string
	if !a.Maintenance && state != Running {
		problems = append(problems, "maintenance may only be off while running")
	}
	if a.Maintenance && state == Running {
		problems = append(problems, "maintenance must be off while running")
	}
	if !a.Database && (a.CacheAndSearch || a.CoreServices || a.Migration || a.AuxiliaryServices) {
		problems = append(problems, "services active without database")
	}
	if a.Migration != (state == DBOnly) {
		problems = append(problems, "migration must run only in db-only")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvariantViolation, state, strings.Join(problems, "; "))
	}
	return nil
}

// flags returns the monotonic flags (migration excluded) in a fixed order.
func (a Activation) flags() []bool {
	return []bool{a.Database, a.CacheAndSearch, a.CoreServices, a.AuxiliaryServices, !a.Maintenance}
}

// Subset reports whether every monotonic flag set in a is also set in other.
// Migration is ignored because it is only active in the transitional state.
func (a Activation) Subset(other Activation) bool {
	mine, theirs := a.flags(), other.flags()
	for i := range mine {
		if mine[i] && !theirs[i] {
			return false
		}
	}
	return true
}
