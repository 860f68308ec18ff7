// Where: cmd/stackplan/cli.go
// What: CLI dependency wiring.
// Why: Centralize construction of the real adapters.
package main

import (
	"os"

	"github.com/poruru-code/stackplan/internal/command"
	"github.com/poruru-code/stackplan/internal/infra/interaction"
	"github.com/poruru-code/stackplan/internal/infra/logging"
	"github.com/poruru-code/stackplan/internal/infra/publish"
)

// buildDependencies wires the process streams, the huh prompter on a
// terminal (a line prompter otherwise), and the AWS publication clients.
func buildDependencies() command.Dependencies {
	var prompter interaction.Prompter = interaction.LinePrompter{In: os.Stdin, Out: os.Stderr}
	if interaction.IsTerminal(os.Stdout) {
		prompter = interaction.HuhPrompter{}
	}
	return command.Dependencies{
		Out:       os.Stdout,
		ErrOut:    os.Stderr,
		Stdin:     os.Stdin,
		Prompter:  prompter,
		Publish:   publish.NewClientFactory(),
		LookupEnv: os.LookupEnv,
		NewLogger: logging.New,
	}
}
