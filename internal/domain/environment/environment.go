// Where: internal/domain/environment/environment.go
// What: Immutable environment descriptor and domain-name helpers.
// Why: Every planning pass starts from one validated descriptor created at startup.
package environment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru-code/stackplan/internal/domain/infrastate"
)

// ErrInvalidEnvironment reports a descriptor that cannot be planned.
var ErrInvalidEnvironment = errors.New("invalid environment")

// Allowed regions for compute and data resources.
const (
	RegionFrankfurt = "eu-central-1"
	RegionZurich    = "eu-central-2"
)

// AllowedRegions lists the regions a stack may be deployed to.
func AllowedRegions() []string {
	return []string{RegionFrankfurt, RegionZurich}
}

// Environment is created once and never mutated. An empty Subdomain means
// the environment serves the apex domain.
type Environment struct {
	Name       string
	Region     string
	Subdomain  string
	InfraState infrastate.State
}

// New validates and returns an environment descriptor.
func New(name, region, subdomain string, state infrastate.State) (Environment, error) {
	env := Environment{
		Name:       strings.TrimSpace(name),
		Region:     strings.TrimSpace(region),
		Subdomain:  strings.Trim(strings.TrimSpace(subdomain), "."),
		InfraState: state,
	}
	if err := env.Validate(); err != nil {
		return Environment{}, err
	}
	return env, nil
}

// Validate checks the descriptor fields.
func (e Environment) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEnvironment)
	}
	if !regionAllowed(e.Region) {
		return fmt.Errorf(
			"%w: %s: region %q is not allowed (expected one of: %s)",
			ErrInvalidEnvironment,
			e.Name,
			e.Region,
			strings.Join(AllowedRegions(), ", "),
		)
	}
	if strings.ContainsAny(e.Subdomain, " /") {
		return fmt.Errorf("%w: %s: invalid subdomain %q", ErrInvalidEnvironment, e.Name, e.Subdomain)
	}
	if !e.InfraState.Valid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidEnvironment, e.Name, infrastate.ErrInvalidInfraState)
	}
	return nil
}

// IsApex reports whether the environment serves the root domain.
func (e Environment) IsApex() bool {
	return e.Subdomain == ""
}

// Domain returns "<subdomain>.<root>" or root for apex environments.
func (e Environment) Domain(root string) string {
	if e.IsApex() {
		return root
	}
	return e.Subdomain + "." + root
}

// SubdomainFor prefixes a host label onto the environment domain.
func (e Environment) SubdomainFor(prefix, root string) string {
	return prefix + "." + e.Domain(root)
}

// WithInfraState returns a copy carrying another state.
func (e Environment) WithInfraState(state infrastate.State) Environment {
	e.InfraState = state
	return e
}

func regionAllowed(region string) bool {
	for _, allowed := range AllowedRegions() {
		if region == allowed {
			return true
		}
	}
	return false
}
