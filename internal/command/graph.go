// Where: internal/command/graph.go
// What: graph command: print security groups and their caller edges.
// Why: Make the network policy reviewable without assembling a full plan.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/poruru-code/stackplan/internal/domain/netpolicy"
	"github.com/poruru-code/stackplan/internal/usecase/plan"
)

// GraphCmd defines the graph command flags.
type GraphCmd struct {
	Env          string `short:"e" name:"env" help:"Environment name"`
	SuggestOrder bool   `name:"suggest-order" help:"Print a service order that satisfies caller dependencies"`
}

func runGraph(cli CLI, deps Dependencies) int {
	s, err := newSession(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	defer s.close()

	name, err := s.environment(cli.Graph.Env)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	envCfg, ok := s.stack.Environment(name)
	if !ok {
		return exitWithError(deps.Out, fmt.Errorf("%w: %q", plan.ErrUnknownEnvironment, name))
	}

	descriptors := s.stack.Descriptors()
	graph, err := netpolicy.BuildGraph(descriptors)
	if err != nil {
		if cli.Graph.SuggestOrder && errors.Is(err, netpolicy.ErrDependencyOrder) {
			s.printSuggestedOrder(descriptors)
		}
		return exitWithError(deps.Out, err)
	}

	console := s.console
	console.Header("🔐", fmt.Sprintf("Security groups for %s (%s)", name, envCfg.StackID))
	ingress := graph.IngressRules(envCfg.StackID)
	for _, node := range graph.Nodes() {
		group := netpolicy.GroupName(envCfg.StackID, node.Name)
		console.Section("", group)
		var sources []string
		for _, rule := range ingress {
			if rule.Group != group {
				continue
			}
			source := rule.SourceGroup
			if source == "" {
				source = rule.CIDR
			}
			sources = append(sources, source+" → "+rule.Protocol+"/"+strconv.Itoa(rule.Port))
		}
		if len(sources) == 0 {
			console.Line("(no ingress)")
		}
		for _, source := range sources {
			console.Line(source)
		}
		if callees := graph.Callees(node.Name); len(callees) > 0 {
			console.Item("calls", strings.Join(callees, ", "))
		}
	}

	if cli.Graph.SuggestOrder {
		s.printSuggestedOrder(descriptors)
	}
	return 0
}

func (s *session) printSuggestedOrder(descriptors []netpolicy.ServiceDescriptor) {
	ordered, err := netpolicy.Order(descriptors)
	if err != nil {
		s.console.Warn(fmt.Sprintf("no valid order: %v", err))
		return
	}
	names := make([]string, len(ordered))
	for i, svc := range ordered {
		names[i] = svc.Name
	}
	s.console.Section("📋", "Suggested service order")
	s.console.Line(strings.Join(names, ", "))
}
