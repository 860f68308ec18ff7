// Where: internal/command/edge_function.go
// What: edge-function command: print the CDN maintenance function source.
// Why: Let operators inspect exactly what the edge gate will evaluate.
package command

import (
	"fmt"

	"github.com/poruru-code/stackplan/internal/domain/maintenance"
)

// EdgeFunctionCmd defines the edge-function command flags.
type EdgeFunctionCmd struct {
	Env         string `short:"e" name:"env" help:"Environment name"`
	InfraState  string `name:"infra-state" help:"Infra state (default: INFRA_STATE)"`
	SecretsFile string `name:"secrets-file" help:"Dotenv file with maintenance header secrets"`
	ShowSecrets bool   `name:"show-secrets" help:"Embed the real secret instead of a redacted placeholder"`
}

func runEdgeFunction(cli CLI, deps Dependencies) int {
	s, err := newSession(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	defer s.close()

	opts := cli.EdgeFunction
	name, err := s.environment(opts.Env)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	p, err := s.assemble(name, opts.InfraState, opts.SecretsFile)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	if !opts.ShowSecrets {
		if p, err = p.Redacted(); err != nil {
			return exitWithError(deps.Out, err)
		}
	}

	fn := p.Edge.Function
	s.logger.Sugar().Debugf("edge function %s associated=%v", fn.Name, fn.Associate)
	if !fn.Associate {
		s.console.Warn(fmt.Sprintf("%s is not gated; the function passes every request through", name))
	}
	fmt.Fprintf(deps.Out, "// %s (%s)\n", maintenance.FunctionName, fn.Runtime)
	fmt.Fprint(deps.Out, fn.Code)
	return 0
}
