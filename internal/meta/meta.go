// Where: internal/meta/meta.go
// What: CLI identity and environment variable names.
// Why: Keep user-facing names in one place.
package meta

const (
	AppName = "stackplan"
	Slug    = "stackplan"

	// EnvInfraState selects the infra state; "<ENV>_INFRA_STATE" overrides it per environment.
	EnvInfraState = "INFRA_STATE"
	// EnvCLIName overrides the command name shown in hints.
	EnvCLIName = "CLI_CMD"

	DefaultConfigFile = "stack.yaml"
	DefaultEnvFile    = ".env"
)
