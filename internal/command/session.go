// Where: internal/command/session.go
// What: Per-invocation state shared by planning commands.
// Why: Load configuration, logging, secrets, and infra states the same way everywhere.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru-code/stackplan/internal/domain/infrastate"
	"github.com/poruru-code/stackplan/internal/domain/stack"
	"github.com/poruru-code/stackplan/internal/infra/config"
	"github.com/poruru-code/stackplan/internal/infra/interaction"
	"github.com/poruru-code/stackplan/internal/infra/logging"
	"github.com/poruru-code/stackplan/internal/infra/secrets"
	"github.com/poruru-code/stackplan/internal/infra/ui"
	"github.com/poruru-code/stackplan/internal/meta"
	"github.com/poruru-code/stackplan/internal/usecase/plan"
	"go.uber.org/zap"
)

var errEnvironmentRequired = errors.New("environment is required")

type session struct {
	cli     CLI
	deps    Dependencies
	stack   stack.Stack
	logger  *zap.Logger
	console *ui.Console
}

func newSession(cli CLI, deps Dependencies) (*session, error) {
	newLogger := deps.NewLogger
	if newLogger == nil {
		newLogger = logging.New
	}
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	return &session{
		cli:     cli,
		deps:    deps,
		stack:   cfg,
		logger:  newLogger(deps.ErrOut, cli.Verbose),
		console: newConsole(deps.Out, !cli.NoEmoji),
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func (s *session) assembler() *plan.Assembler {
	return plan.NewAssembler(s.logger)
}

// infraState resolves the state for env: the flag wins, then
// "<ENV>_INFRA_STATE", then INFRA_STATE. A missing value is an error.
func (s *session) infraState(env, flag string) (infrastate.State, error) {
	value := strings.TrimSpace(flag)
	if value == "" {
		if v, ok := s.deps.LookupEnv(secrets.EnvironmentKey(env, meta.EnvInfraState)); ok {
			value = strings.TrimSpace(v)
		}
	}
	if value == "" {
		if v, ok := s.deps.LookupEnv(meta.EnvInfraState); ok {
			value = strings.TrimSpace(v)
		}
	}
	if value == "" {
		return 0, fmt.Errorf("%w: %s is not set for %s (expected one of: %s)",
			infrastate.ErrInvalidInfraState, meta.EnvInfraState, env, strings.Join(infrastate.Names(), ", "))
	}
	return infrastate.Parse(value)
}

// secretsFor returns the provider for env. A secrets file takes precedence
// over the process environment; both are scoped to env.
func (s *session) secretsFor(env, secretsFile string) (secrets.Provider, error) {
	base := secrets.Chain{secrets.NewEnvProvider(s.secretPrefix(), s.deps.LookupEnv)}
	if strings.TrimSpace(secretsFile) != "" {
		fromFile, err := secrets.ReadFile(secretsFile)
		if err != nil {
			return nil, err
		}
		base = append(secrets.Chain{fromFile}, base...)
	}
	return secrets.ForEnvironment(env, base), nil
}

func (s *session) secretPrefix() string {
	value, _ := s.deps.LookupEnv(secrets.PrefixEnv)
	return strings.TrimSpace(value)
}

// environment returns name, or asks the operator to pick one on a terminal.
func (s *session) environment(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		return name, nil
	}
	if !interaction.IsTerminal(s.deps.Stdin) {
		return "", fmt.Errorf("%w: pass -e (configured: %s)", errEnvironmentRequired, strings.Join(s.stack.EnvironmentNames(), ", "))
	}
	selected, err := s.prompter().Select("Environment", s.stack.EnvironmentNames())
	if err != nil {
		return "", err
	}
	if selected == "" {
		return "", errEnvironmentRequired
	}
	return selected, nil
}

func (s *session) prompter() interaction.Prompter {
	if s.deps.Prompter != nil {
		return s.deps.Prompter
	}
	return interaction.HuhPrompter{}
}
