// Where: internal/domain/stack/validate.go
// What: Cross-reference checks on a decoded stack.
// Why: Catch configuration defects that a schema cannot express before planning.
package stack

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/poruru-code/stackplan/internal/domain/capacity"
	"github.com/poruru-code/stackplan/internal/domain/environment"
	"github.com/poruru-code/stackplan/internal/domain/infrastate"
)

// ErrInvalidStack reports a stack configuration defect.
var ErrInvalidStack = errors.New("invalid stack configuration")

// Validate collects every cross-reference problem and reports them together.
func (s Stack) Validate() error {
	var problems []string

	services := map[string]bool{}
	for _, svc := range s.Services {
		if services[svc.Name] {
			problems = append(problems, fmt.Sprintf("service %q: declared more than once", svc.Name))
		}
		services[svc.Name] = true
		if _, err := infrastate.ParseClass(string(svc.Class)); err != nil {
			problems = append(problems, fmt.Sprintf("service %q: %v", svc.Name, err))
		}
		if svc.Autoscaling != nil && !svc.Compute {
			problems = append(problems, fmt.Sprintf("service %q: autoscaling requires a compute service", svc.Name))
		}
		if svc.Expose != nil && svc.Port == 0 {
			problems = append(problems, fmt.Sprintf("service %q: exposed service needs a port", svc.Name))
		}
	}

	priorities := map[int]string{}
	claim := func(owner string, priority int) {
		if prev, taken := priorities[priority]; taken {
			problems = append(problems, fmt.Sprintf("%s: listener priority %d already used by %s", owner, priority, prev))
			return
		}
		priorities[priority] = owner
	}
	for _, svc := range s.Services {
		if svc.Expose != nil {
			claim(fmt.Sprintf("service %q", svc.Name), svc.Expose.Priority)
		}
	}
	for _, redirect := range s.Redirects {
		claim(fmt.Sprintf("redirect %q", redirect.Name), redirect.Priority)
	}

	envNames := map[string]bool{}
	stackIDs := map[string]bool{}
	for _, env := range s.Environments {
		if envNames[env.Name] {
			problems = append(problems, fmt.Sprintf("environment %q: declared more than once", env.Name))
		}
		envNames[env.Name] = true
		if stackIDs[env.StackID] {
			problems = append(problems, fmt.Sprintf("environment %q: stack id %q already used", env.Name, env.StackID))
		}
		stackIDs[env.StackID] = true
		if !regionAllowed(env.Region) {
			problems = append(problems, fmt.Sprintf("environment %q: region %q is not allowed", env.Name, env.Region))
		}
		switch env.Database.DeactivationMode() {
		case DeactivationKeep, DeactivationStop:
		default:
			problems = append(problems, fmt.Sprintf("environment %q: unknown database deactivation %q", env.Name, env.Database.Deactivation))
		}
		for _, svc := range s.Services {
			if !svc.Compute {
				continue
			}
			cfg, ok := env.Services[svc.Name]
			if !ok {
				problems = append(problems, fmt.Sprintf("environment %q: missing configuration for service %q", env.Name, svc.Name))
				continue
			}
			if _, err := capacity.For(cfg.Spot, cfg.DesiredCount); err != nil {
				problems = append(problems, fmt.Sprintf("environment %q: service %q: %v", env.Name, svc.Name, err))
			}
			if svc.Autoscaling != nil && svc.Autoscaling.MaxCount < cfg.DesiredCount {
				problems = append(problems, fmt.Sprintf(
					"environment %q: service %q: autoscaling max %d is below desired count %d",
					env.Name, svc.Name, svc.Autoscaling.MaxCount, cfg.DesiredCount,
				))
			}
		}
		for name := range env.Services {
			if svc, ok := s.Service(name); !ok || !svc.Compute {
				problems = append(problems, fmt.Sprintf("environment %q: configuration for unknown compute service %q", env.Name, name))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w:\n  - %s", ErrInvalidStack, strings.Join(problems, "\n  - "))
}

func regionAllowed(region string) bool {
	for _, allowed := range environment.AllowedRegions() {
		if allowed == region {
			return true
		}
	}
	return false
}
