// Where: cmd/stackplan/main.go
// What: CLI entrypoint.
// Why: Execute stackplan commands with configured dependencies.
package main

import (
	"os"

	"github.com/poruru-code/stackplan/internal/command"
)

func main() {
	os.Exit(command.Run(os.Args[1:], buildDependencies()))
}
