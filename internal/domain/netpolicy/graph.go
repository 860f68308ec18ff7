// Where: internal/domain/netpolicy/graph.go
// What: Security-group dependency graph builder.
// Why: Network policies can only reference groups that already exist, so edges must follow declaration order.
package netpolicy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDependencyOrder reports a caller reference to a group not built yet.
var ErrDependencyOrder = errors.New("security group dependency order violation")

// ServiceDescriptor declares one service's listening port and the names of
// the services allowed to call it.
type ServiceDescriptor struct {
	Name           string
	Port           int
	AllowedCallers []string
	// PublicPorts accept ingress from anywhere (IPv4 and IPv6).
	PublicPorts []int
}

// Node is the constructed network-policy identity of one service.
// AllowedCallers point at nodes built earlier in the same graph.
type Node struct {
	Name           string
	Port           int
	PublicPorts    []int
	AllowedCallers []*Node
}

// Graph holds nodes in construction order.
type Graph struct {
	nodes  []*Node
	byName map[string]*Node
}

// DependencyOrderViolation describes the offending edge.
type DependencyOrderViolation struct {
	Service string
	Caller  string
	Reason  string
}

func (e *DependencyOrderViolation) Error() string {
	if e.Caller == "" {
		return fmt.Sprintf("%s: service %q: %s", ErrDependencyOrder, e.Service, e.Reason)
	}
	return fmt.Sprintf("%s: service %q caller %q: %s", ErrDependencyOrder, e.Service, e.Caller, e.Reason)
}

func (e *DependencyOrderViolation) Unwrap() error {
	return ErrDependencyOrder
}

// BuildGraph constructs one node per descriptor in input order. A caller
// must name a service that appears earlier in the list.
func BuildGraph(services []ServiceDescriptor) (*Graph, error) {
	graph := &Graph{
		nodes:  make([]*Node, 0, len(services)),
		byName: make(map[string]*Node, len(services)),
	}
	declared := declaredNames(services)
	for _, svc := range services {
		name := strings.TrimSpace(svc.Name)
		if name == "" {
			return nil, &DependencyOrderViolation{Service: svc.Name, Reason: "service name is required"}
		}
		if _, exists := graph.byName[name]; exists {
			return nil, &DependencyOrderViolation{Service: name, Reason: "declared more than once"}
		}
		if svc.Port < 0 || svc.Port > 65535 {
			return nil, &DependencyOrderViolation{Service: name, Reason: fmt.Sprintf("invalid port %d", svc.Port)}
		}
		if len(svc.AllowedCallers) > 0 && svc.Port == 0 {
			return nil, &DependencyOrderViolation{Service: name, Reason: "callers declared without a port"}
		}

		node := &Node{
			Name:        name,
			Port:        svc.Port,
			PublicPorts: append([]int(nil), svc.PublicPorts...),
		}
		seen := map[string]bool{}
		for _, callerName := range svc.AllowedCallers {
			if callerName == name {
				return nil, &DependencyOrderViolation{Service: name, Caller: callerName, Reason: "cannot allow itself"}
			}
			caller, ok := graph.byName[callerName]
			if !ok {
				return nil, &DependencyOrderViolation{
					Service: name,
					Caller:  callerName,
					Reason:  missingCallerReason(callerName, declared),
				}
			}
			if seen[callerName] {
				continue
			}
			seen[callerName] = true
			node.AllowedCallers = append(node.AllowedCallers, caller)
		}

		graph.nodes = append(graph.nodes, node)
		graph.byName[name] = node
	}
	return graph, nil
}

// Nodes returns nodes in construction order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node looks up a node by service name.
func (g *Graph) Node(name string) (*Node, bool) {
	node, ok := g.byName[name]
	return node, ok
}

// Callees lists services that name the given service as a caller.
func (g *Graph) Callees(name string) []string {
	var out []string
	for _, node := range g.nodes {
		for _, caller := range node.AllowedCallers {
			if caller.Name == name {
				out = append(out, node.Name)
				break
			}
		}
	}
	return out
}
