// Where: internal/usecase/plan/redact.go
// What: Secret redaction for rendered or published plans.
package plan

import "github.com/poruru-code/stackplan/internal/domain/maintenance"

// Redacted returns a copy of p with the maintenance secret masked in the
// challenge, the listener conditions, and the edge function source.
func (p Plan) Redacted() (Plan, error) {
	if p.Maintenance == nil {
		return p, nil
	}
	out := p
	out.Maintenance = p.Maintenance.Redacted()

	out.Listener.Rules = make([]ListenerRule, len(p.Listener.Rules))
	for i, rule := range p.Listener.Rules {
		rule.Conditions = maintenance.RedactConditions(rule.Conditions)
		out.Listener.Rules[i] = rule
	}

	fn, err := maintenance.RenderEdgeFunction(out.Maintenance, p.Edge.RedirectHost)
	if err != nil {
		return Plan{}, err
	}
	out.Edge.Function = fn
	return out, nil
}
