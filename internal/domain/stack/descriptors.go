// Where: internal/domain/stack/descriptors.go
// What: Security-group descriptors derived from the service catalog.
package stack

import "github.com/poruru-code/stackplan/internal/domain/netpolicy"

// Descriptors maps the catalog to graph builder input in declaration order.
func (s Stack) Descriptors() []netpolicy.ServiceDescriptor {
	out := make([]netpolicy.ServiceDescriptor, 0, len(s.Services))
	for _, svc := range s.Services {
		out = append(out, netpolicy.ServiceDescriptor{
			Name:           svc.Name,
			Port:           svc.Port,
			AllowedCallers: append([]string(nil), svc.AllowedCallers...),
			PublicPorts:    append([]int(nil), svc.PublicPorts...),
		})
	}
	return out
}
