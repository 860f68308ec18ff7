// Where: internal/command/plan.go
// What: plan command: assemble and render plans for one or more environments.
// Why: Give operators and resource construction the same reviewed snapshot.
package command

import (
	"context"
	"fmt"

	"github.com/poruru-code/stackplan/internal/usecase/plan"
	"golang.org/x/sync/errgroup"
)

// PlanCmd defines the plan command flags.
type PlanCmd struct {
	Env         []string `short:"e" name:"env" help:"Environment name (repeatable; default: all configured)"`
	InfraState  string   `name:"infra-state" help:"Infra state for every selected environment (default: INFRA_STATE)"`
	SecretsFile string   `name:"secrets-file" help:"Dotenv file with maintenance header secrets"`
	Output      string   `short:"o" enum:"yaml,json" default:"yaml" help:"Output format (yaml/json)"`
	ShowSecrets bool     `name:"show-secrets" help:"Print the maintenance secret instead of redacting it"`
}

func runPlan(cli CLI, deps Dependencies) int {
	s, err := newSession(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	defer s.close()

	opts := cli.Plan
	names := opts.Env
	if len(names) == 0 {
		names = s.stack.EnvironmentNames()
	}
	plans, err := s.assembleAll(context.Background(), names, opts.InfraState, opts.SecretsFile)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	docs := make([]any, 0, len(plans))
	for _, p := range plans {
		if !opts.ShowSecrets {
			if p, err = p.Redacted(); err != nil {
				return exitWithError(deps.Out, err)
			}
		}
		docs = append(docs, p)
	}
	payload, err := encode(opts.Output, docs...)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	if _, err := deps.Out.Write(payload); err != nil {
		return exitWithError(deps.ErrOut, fmt.Errorf("write plan: %w", err))
	}
	return 0
}

// assembleAll plans every environment concurrently and returns the plans in
// the order of names. The first failure cancels the rest.
func (s *session) assembleAll(ctx context.Context, names []string, stateFlag, secretsFile string) ([]plan.Plan, error) {
	plans := make([]plan.Plan, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := s.assemble(name, stateFlag, secretsFile)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			plans[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *session) assemble(name, stateFlag, secretsFile string) (plan.Plan, error) {
	state, err := s.infraState(name, stateFlag)
	if err != nil {
		return plan.Plan{}, err
	}
	env, err := plan.EnvironmentFor(s.stack, name, state)
	if err != nil {
		return plan.Plan{}, err
	}
	provider, err := s.secretsFor(name, secretsFile)
	if err != nil {
		return plan.Plan{}, err
	}
	return s.assembler().Assemble(env, s.stack, provider)
}
