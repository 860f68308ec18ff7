// Where: internal/domain/maintenance/challenge.go
// What: Maintenance bypass challenge derived from activation and secrets.
// Why: Edge and load-balancer gates must share one header name/secret pair.
package maintenance

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/poruru-code/stackplan/internal/domain/environment"
	"github.com/poruru-code/stackplan/internal/domain/infrastate"
)

// Secret keys read from the SecretProvider.
const (
	SecretHeaderName   = "MAINTENANCE_HEADER_NAME"
	SecretHeaderSecret = "MAINTENANCE_HEADER_SECRET"
)

var (
	// ErrMissingSecret reports a maintenance window without a complete bypass secret.
	ErrMissingSecret = errors.New("maintenance secret missing")
	// ErrInvalidSecret reports a header name or value the gates cannot match literally.
	ErrInvalidSecret = errors.New("maintenance secret invalid")
)

// SecretProvider yields deployment secrets by key.
type SecretProvider interface {
	Lookup(key string) (string, bool)
}

// SetProvider resolves related keys as one unit. Missing entries are named by
// the key the provider actually consulted.
type SetProvider interface {
	LookupSet(keys ...string) (map[string]string, []string)
}

// MissingSecretError lists the secret keys that were absent or blank.
type MissingSecretError struct {
	Environment string
	Missing     []string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("%s for environment %q: %s", ErrMissingSecret, e.Environment, strings.Join(e.Missing, ", "))
}

func (e *MissingSecretError) Unwrap() error {
	return ErrMissingSecret
}

// MaxHeaderSecretLength is the load balancer's limit for a header condition value.
const MaxHeaderSecretLength = 128

// Challenge is the header pair that lets operators through a maintenance redirect.
type Challenge struct {
	HeaderName   string `json:"header_name" yaml:"header_name"`
	HeaderSecret string `json:"header_secret" yaml:"header_secret"`
}

// ChallengeFor returns nil when the environment is not in maintenance.
// Otherwise both secrets must be present and literal.
func ChallengeFor(env environment.Environment, secrets SecretProvider) (*Challenge, error) {
	activation, err := infrastate.Resolve(env.InfraState)
	if err != nil {
		return nil, err
	}
	if !activation.Maintenance {
		return nil, nil
	}

	values, missing := lookupPair(secrets, SecretHeaderName, SecretHeaderSecret)
	if len(missing) > 0 {
		return nil, &MissingSecretError{Environment: env.Name, Missing: missing}
	}

	challenge := &Challenge{
		HeaderName:   strings.TrimSpace(values[SecretHeaderName]),
		HeaderSecret: values[SecretHeaderSecret],
	}
	if err := challenge.Validate(); err != nil {
		return nil, err
	}
	return challenge, nil
}

// Validate checks that the header name is an HTTP token and the secret is
// printable ASCII without rule wildcards, at most MaxHeaderSecretLength long.
func (c *Challenge) Validate() error {
	if c == nil {
		return nil
	}
	if c.HeaderName == "" {
		return fmt.Errorf("%w: header name is empty", ErrInvalidSecret)
	}
	for _, r := range c.HeaderName {
		if !isTokenChar(r) {
			return fmt.Errorf("%w: header name %q contains %q", ErrInvalidSecret, c.HeaderName, r)
		}
	}
	if c.HeaderSecret == "" {
		return fmt.Errorf("%w: header secret is empty", ErrInvalidSecret)
	}
	if len(c.HeaderSecret) > MaxHeaderSecretLength {
		return fmt.Errorf("%w: header secret is longer than %d characters", ErrInvalidSecret, MaxHeaderSecretLength)
	}
	for _, r := range c.HeaderSecret {
		if r < 0x20 || r > 0x7e {
			return fmt.Errorf("%w: header secret contains a non-printable character", ErrInvalidSecret)
		}
		if r == '*' || r == '?' {
			return fmt.Errorf("%w: header secret contains wildcard %q", ErrInvalidSecret, r)
		}
	}
	return nil
}

// Allows reports whether a request carries the bypass header. The name is
// matched case-insensitively and the first value must equal the secret exactly.
func (c *Challenge) Allows(header http.Header) bool {
	if c == nil {
		return true
	}
	value, ok := firstHeaderValue(header, c.HeaderName)
	return ok && value == c.HeaderSecret
}

// Redacted returns a copy with the secret masked.
func (c *Challenge) Redacted() *Challenge {
	if c == nil {
		return nil
	}
	return &Challenge{HeaderName: c.HeaderName, HeaderSecret: RedactedValue}
}

// RedactedValue replaces secrets in rendered output.
const RedactedValue = "REDACTED"

func firstHeaderValue(header http.Header, name string) (string, bool) {
	if values := header.Values(name); len(values) > 0 {
		return values[0], true
	}
	// Non-canonical keys set directly on the map; pick the smallest for a
	// stable result.
	found := ""
	var value string
	for key, values := range header {
		if strings.EqualFold(key, name) && len(values) > 0 && (found == "" || key < found) {
			found, value = key, values[0]
		}
	}
	return value, found != ""
}

// lookupPair reads the name and secret together so both halves come from the
// same scope.
func lookupPair(secrets SecretProvider, keys ...string) (map[string]string, []string) {
	if set, ok := secrets.(SetProvider); ok {
		return set.LookupSet(keys...)
	}
	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		value, ok := lookup(secrets, key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		values[key] = value
	}
	return values, missing
}

func lookup(secrets SecretProvider, key string) (string, bool) {
	if secrets == nil {
		return "", false
	}
	value, ok := secrets.Lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func isTokenChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("!#$%&'+-.^_`|~", r)
}
