// Where: internal/usecase/plan/routing.go
// What: Listener and CDN records carrying the maintenance gate.
// Why: Both gate points take their conditions from the same challenge.
package plan

import (
	"net/http"
	"sort"

	"github.com/poruru-code/stackplan/internal/domain/environment"
	"github.com/poruru-code/stackplan/internal/domain/maintenance"
	"github.com/poruru-code/stackplan/internal/domain/stack"
)

func listenerPlan(env environment.Environment, cfg stack.Stack, conditions []maintenance.RuleCondition) ListenerPlan {
	listener := ListenerPlan{
		DefaultRedirect: RedirectAction{
			Host:       env.SubdomainFor(stack.MaintenanceSite, cfg.RootDomain),
			StatusCode: http.StatusFound,
		},
		Rules: []ListenerRule{},
	}
	for _, spec := range cfg.Services {
		if spec.Expose == nil {
			continue
		}
		listener.Rules = append(listener.Rules, ListenerRule{
			Name:       spec.Name,
			Priority:   spec.Expose.Priority,
			Host:       env.SubdomainFor(spec.Expose.Subdomain, cfg.RootDomain),
			Action:     ActionForward,
			Service:    spec.Name,
			Conditions: cloneConditions(conditions),
		})
	}
	for _, redirect := range cfg.Redirects {
		host := env.Domain(cfg.RootDomain)
		if redirect.Target != "" {
			host = env.SubdomainFor(redirect.Target, cfg.RootDomain)
		}
		listener.Rules = append(listener.Rules, ListenerRule{
			Name:     redirect.Name,
			Priority: redirect.Priority,
			Host:     env.SubdomainFor(redirect.Origin, cfg.RootDomain),
			Action:   ActionRedirect,
			Redirect: &RedirectAction{
				Host:       host,
				Path:       redirect.Path,
				Query:      redirect.Query,
				StatusCode: redirect.StatusCode,
			},
			Conditions: cloneConditions(conditions),
		})
	}
	sort.SliceStable(listener.Rules, func(i, j int) bool {
		return listener.Rules[i].Priority < listener.Rules[j].Priority
	})
	return listener
}

func edgePlan(env environment.Environment, cfg stack.Stack, challenge *maintenance.Challenge) (EdgePlan, error) {
	redirectHost := env.SubdomainFor(stack.MaintenanceSite, cfg.RootDomain)
	fn, err := maintenance.RenderEdgeFunction(challenge, redirectHost)
	if err != nil {
		return EdgePlan{}, err
	}
	edge := EdgePlan{RedirectHost: redirectHost, Function: fn}
	for _, site := range cfg.Websites {
		alias := env.Domain(cfg.RootDomain)
		if site.Subdomain != "" {
			alias = env.SubdomainFor(site.Subdomain, cfg.RootDomain)
		}
		edge.Distributions = append(edge.Distributions, DistributionPlan{
			Website: site.Name,
			Alias:   alias,
			// the maintenance page must stay reachable while gated
			FunctionAssociated: fn.Associate && site.Name != stack.MaintenanceSite,
		})
	}
	return edge, nil
}

func cloneConditions(conditions []maintenance.RuleCondition) []maintenance.RuleCondition {
	if conditions == nil {
		return nil
	}
	out := make([]maintenance.RuleCondition, len(conditions))
	for i, condition := range conditions {
		condition.Values = append([]string(nil), condition.Values...)
		out[i] = condition
	}
	return out
}
