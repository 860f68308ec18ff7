// Where: internal/command/publish.go
// What: publish command: upload a redacted plan and record it in the ledger.
// Why: Hand resource construction a digest-addressed snapshot it can trust.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/poruru-code/stackplan/internal/infra/interaction"
	"github.com/poruru-code/stackplan/internal/infra/publish"
	"github.com/poruru-code/stackplan/internal/usecase/plan"
)

var errPublishNotConfigured = errors.New("publish clients are not configured")

// PublishCmd defines the publish command flags.
type PublishCmd struct {
	Env         string `short:"e" name:"env" help:"Environment name"`
	InfraState  string `name:"infra-state" help:"Infra state (default: INFRA_STATE)"`
	SecretsFile string `name:"secrets-file" help:"Dotenv file with maintenance header secrets"`
	Bucket      string `required:"" help:"Bucket receiving plans/<env>/<digest>.yaml"`
	Table       string `required:"" help:"Ledger table"`
	Region      string `help:"Region of the bucket and table (default: environment region)"`
	Endpoint    string `help:"Custom endpoint URL, e.g. a local emulator"`
	Yes         bool   `short:"y" help:"Skip the confirmation for apex environments"`
}

func runPublish(cli CLI, deps Dependencies) int {
	s, err := newSession(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	defer s.close()

	opts := cli.Publish
	name, err := s.environment(opts.Env)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	p, err := s.assemble(name, opts.InfraState, opts.SecretsFile)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	// Published plans never carry the maintenance secret.
	redacted, err := p.Redacted()
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	digest, err := plan.Digest(redacted)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	body, err := encode(formatYAML, redacted)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	if ok, err := s.confirmPublish(redacted, opts.Yes); err != nil {
		return exitWithError(deps.Out, err)
	} else if !ok {
		s.console.Warn("publish cancelled")
		return 1
	}

	ctx := context.Background()
	target := publish.Target{Region: opts.Region, Endpoint: opts.Endpoint}
	if target.Region == "" {
		target.Region = redacted.Region
	}
	factory := deps.Publish
	if factory == nil {
		return exitWithError(deps.Out, errPublishNotConfigured)
	}
	objects, err := factory.Objects(ctx, target)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	ledger, err := factory.Ledger(ctx, target)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	publisher := &publish.Publisher{
		Objects: objects,
		Ledger:  ledger,
		Bucket:  opts.Bucket,
		Table:   opts.Table,
		Logger:  s.logger,
	}
	result, err := publisher.Publish(ctx, publish.Document{
		Environment: redacted.Environment,
		InfraState:  redacted.InfraState.String(),
		Digest:      digest,
		Body:        body,
	})
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	s.console.Success(fmt.Sprintf("published %s (%s)", result.Environment, redacted.InfraState))
	s.console.Item("Key", result.Key)
	s.console.Item("Latest", result.LatestKey)
	s.console.Item("Digest", result.Digest)
	s.console.Item("Ledger id", result.ID)
	return 0
}

// confirmPublish asks before publishing the apex environment unless yes is set.
func (s *session) confirmPublish(p plan.Plan, yes bool) (bool, error) {
	envCfg, _ := s.stack.Environment(p.Environment)
	if yes || envCfg.Subdomain != "" {
		return true, nil
	}
	if !interaction.IsTerminal(s.deps.Stdin) {
		return false, fmt.Errorf("%w: publishing %s needs confirmation; pass --yes", interaction.ErrNotInteractive, p.Environment)
	}
	return s.prompter().Confirm(fmt.Sprintf("Publish %s plan for %s (%s)?", p.InfraState, p.Environment, p.Domain))
}
