// Where: internal/command/init.go
// What: init command: write the default stack configuration.
// Why: Give operators an editable starting point with every field present.
package command

import (
	"fmt"

	"github.com/poruru-code/stackplan/internal/infra/config"
	"github.com/poruru-code/stackplan/internal/meta"
)

// InitCmd defines the init command flags.
type InitCmd struct {
	Path  string `help:"Destination file" default:"stack.yaml" type:"path"`
	Force bool   `help:"Overwrite an existing file"`
}

func runInit(cli CLI, deps Dependencies) int {
	path := cli.Init.Path
	if path == "" {
		path = meta.DefaultConfigFile
	}
	if err := config.WriteDefault(path, cli.Init.Force); err != nil {
		return exitWithError(deps.Out, err)
	}
	newConsole(deps.Out, !cli.NoEmoji).Success(fmt.Sprintf("wrote %s", path))
	return 0
}
