// Where: internal/domain/netpolicy/rules.go
// What: Ingress/egress rule derivation from the security-group graph.
// Why: Give resource construction one flat, deterministic rule list per group.
package netpolicy

import "fmt"

const (
	ProtocolTCP = "tcp"
	ProtocolAll = "-1"

	AnyIPv4 = "0.0.0.0/0"
	AnyIPv6 = "::/0"
)

// IngressRule allows traffic into Group on Port from either a source group or a CIDR.
type IngressRule struct {
	ID          string `json:"id" yaml:"id"`
	Group       string `json:"group" yaml:"group"`
	SourceGroup string `json:"source_group,omitempty" yaml:"source_group,omitempty"`
	CIDR        string `json:"cidr,omitempty" yaml:"cidr,omitempty"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	Port        int    `json:"port" yaml:"port"`
}

// EgressRule allows traffic out of Group.
type EgressRule struct {
	ID       string `json:"id" yaml:"id"`
	Group    string `json:"group" yaml:"group"`
	CIDR     string `json:"cidr" yaml:"cidr"`
	Protocol string `json:"protocol" yaml:"protocol"`
}

// GroupName prefixes a service with the stack id.
func GroupName(stackID, service string) string {
	if stackID == "" {
		return service
	}
	return stackID + "-" + service
}

// IngressRules lists ingress rules for every node in construction order.
func (g *Graph) IngressRules(stackID string) []IngressRule {
	var out []IngressRule
	for _, node := range g.nodes {
		group := GroupName(stackID, node.Name)
		for _, caller := range node.AllowedCallers {
			out = append(out, IngressRule{
				ID:          fmt.Sprintf("%s-allow-%s", group, caller.Name),
				Group:       group,
				SourceGroup: GroupName(stackID, caller.Name),
				Protocol:    ProtocolTCP,
				Port:        node.Port,
			})
		}
		for _, port := range node.PublicPorts {
			out = append(out,
				IngressRule{
					ID:       fmt.Sprintf("%s-allow-public-%d", group, port),
					Group:    group,
					CIDR:     AnyIPv4,
					Protocol: ProtocolTCP,
					Port:     port,
				},
				IngressRule{
					ID:       fmt.Sprintf("%s-allow-public-%d-ipv6", group, port),
					Group:    group,
					CIDR:     AnyIPv6,
					Protocol: ProtocolTCP,
					Port:     port,
				},
			)
		}
	}
	return out
}

// EgressRules allows all egress for every node.
func (g *Graph) EgressRules(stackID string) []EgressRule {
	out := make([]EgressRule, 0, len(g.nodes))
	for _, node := range g.nodes {
		group := GroupName(stackID, node.Name)
		out = append(out, EgressRule{
			ID:       group + "-allow-all",
			Group:    group,
			CIDR:     AnyIPv4,
			Protocol: ProtocolAll,
		})
	}
	return out
}
