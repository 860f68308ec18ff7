// Where: internal/infra/secrets/provider.go
// What: Secret providers backed by the process environment or a dotenv file.
// Why: Feed the maintenance gate without letting one environment read another's secrets.
package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// PrefixEnv optionally prefixes every secret variable name.
const PrefixEnv = "STACKPLAN_SECRET_PREFIX"

// Provider yields secrets by key.
type Provider interface {
	Lookup(key string) (string, bool)
}

// EnvProvider reads secrets from environment variables named Prefix+key.
type EnvProvider struct {
	Prefix string
	lookup func(string) (string, bool)
}

// NewEnvProvider reads Prefix+key through lookup; nil uses os.LookupEnv.
func NewEnvProvider(prefix string, lookup func(string) (string, bool)) EnvProvider {
	return EnvProvider{Prefix: prefix, lookup: lookup}
}

// FromEnv returns an EnvProvider using the prefix from STACKPLAN_SECRET_PREFIX.
func FromEnv() EnvProvider {
	return EnvProvider{Prefix: strings.TrimSpace(os.Getenv(PrefixEnv))}
}

// Lookup implements Provider.
func (p EnvProvider) Lookup(key string) (string, bool) {
	lookup := p.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(p.Prefix + key)
}

// MapProvider serves secrets from memory.
type MapProvider map[string]string

// Lookup implements Provider.
func (m MapProvider) Lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// ReadFile loads a dotenv formatted secrets file without touching the
// process environment.
func ReadFile(path string) (MapProvider, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	return MapProvider(values), nil
}

// Chain returns the first hit across providers.
type Chain []Provider

// Lookup implements Provider.
func (c Chain) Lookup(key string) (string, bool) {
	for _, provider := range c {
		if provider == nil {
			continue
		}
		if value, ok := provider.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}

// Scoped resolves "<ENV>_<key>" before the shared key, so per-environment
// secrets override shared ones and never apply to another environment.
type Scoped struct {
	Environment string
	Base        Provider
}

// ForEnvironment scopes base to one environment.
func ForEnvironment(env string, base Provider) Scoped {
	return Scoped{Environment: env, Base: base}
}

// Lookup implements Provider.
func (s Scoped) Lookup(key string) (string, bool) {
	if s.Base == nil {
		return "", false
	}
	if s.Environment != "" {
		if value, ok := s.Base.Lookup(EnvironmentKey(s.Environment, key)); ok {
			return value, true
		}
	}
	return s.Base.Lookup(key)
}

// LookupSet resolves related keys from a single scope. When any scoped key is
// set, every key is read from its scoped name and absent ones are reported by
// that name; the shared keys are used only when no scoped key is set. Blank
// values count as absent.
func (s Scoped) LookupSet(keys ...string) (map[string]string, []string) {
	names := keys
	if s.Base != nil && s.Environment != "" {
		scoped := make([]string, len(keys))
		for i, key := range keys {
			scoped[i] = EnvironmentKey(s.Environment, key)
		}
		for _, name := range scoped {
			if _, ok := s.present(name); ok {
				names = scoped
				break
			}
		}
	}

	values := make(map[string]string, len(keys))
	var missing []string
	for i, key := range keys {
		value, ok := s.present(names[i])
		if !ok {
			missing = append(missing, names[i])
			continue
		}
		values[key] = value
	}
	return values, missing
}

func (s Scoped) present(name string) (string, bool) {
	if s.Base == nil {
		return "", false
	}
	value, ok := s.Base.Lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// EnvironmentKey builds the per-environment key, e.g. PRODUCTION_MAINTENANCE_HEADER_NAME.
func EnvironmentKey(env, key string) string {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(env), "-", "_"))
	return normalized + "_" + key
}
