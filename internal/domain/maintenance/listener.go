// Where: internal/domain/maintenance/listener.go
// What: Load-balancer rule conditions for the maintenance bypass.
// Why: Every forwarding rule must require the same header the edge function checks.
package maintenance

import "net/http"

// ConditionHTTPHeader is the load-balancer condition field for header matches.
const ConditionHTTPHeader = "http-header"

// RuleCondition is one extra condition appended to a listener rule.
type RuleCondition struct {
	Field      string   `json:"field" yaml:"field"`
	HeaderName string   `json:"header_name" yaml:"header_name"`
	Values     []string `json:"values" yaml:"values"`
}

// RuleConditions returns the header condition for a challenge, or nothing
// when no bypass is configured.
func RuleConditions(challenge *Challenge) []RuleCondition {
	if challenge == nil {
		return nil
	}
	return []RuleCondition{{
		Field:      ConditionHTTPHeader,
		HeaderName: challenge.HeaderName,
		Values:     []string{challenge.HeaderSecret},
	}}
}

// Matches evaluates the condition against request headers with the same
// comparison Challenge.Allows uses.
func (c RuleCondition) Matches(header http.Header) bool {
	if c.Field != ConditionHTTPHeader {
		return false
	}
	value, ok := firstHeaderValue(header, c.HeaderName)
	if !ok {
		return false
	}
	for _, want := range c.Values {
		if value == want {
			return true
		}
	}
	return false
}

// RedactConditions masks header values in a copy of conditions.
func RedactConditions(conditions []RuleCondition) []RuleCondition {
	if conditions == nil {
		return nil
	}
	out := make([]RuleCondition, len(conditions))
	for i, condition := range conditions {
		values := make([]string, len(condition.Values))
		for j := range values {
			values[j] = RedactedValue
		}
		out[i] = RuleCondition{Field: condition.Field, HeaderName: condition.HeaderName, Values: values}
	}
	return out
}
