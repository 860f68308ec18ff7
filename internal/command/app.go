// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru-code/stackplan/internal/infra/interaction"
	"github.com/poruru-code/stackplan/internal/infra/publish"
	"github.com/poruru-code/stackplan/internal/meta"
	"go.uber.org/zap"
)

// Dependencies holds everything a command touches outside the process.
// Zero fields fall back to the real implementations.
type Dependencies struct {
	Out       io.Writer
	ErrOut    io.Writer
	Stdin     *os.File
	Prompter  interaction.Prompter
	Publish   publish.ClientFactory
	LookupEnv func(string) (string, bool)
	NewLogger func(w io.Writer, verbose bool) *zap.Logger
}

// CLI defines the command-line interface parsed by Kong.
type CLI struct {
	Config  string `short:"c" help:"Path to stack.yaml (default: embedded configuration)" type:"path"`
	EnvFile string `name:"env-file" help:"Path to .env file"`
	Verbose bool   `short:"v" help:"Debug diagnostics on stderr"`
	NoEmoji bool   `name:"no-emoji" help:"Disable emoji output"`

	Plan         PlanCmd         `cmd:"" help:"Assemble the deployment plan for one or more environments"`
	Resolve      ResolveCmd      `cmd:"" help:"Show the activation matrix of an infra state"`
	Graph        GraphCmd        `cmd:"" help:"Show security-group edges for an environment"`
	EdgeFunction EdgeFunctionCmd `cmd:"" name:"edge-function" help:"Render the CDN maintenance function"`
	Publish      PublishCmd      `cmd:"" help:"Upload a plan and record it in the publication ledger"`
	Init         InitCmd         `cmd:"" help:"Write the default stack.yaml"`
	Version      VersionCmd      `cmd:"" help:"Show version information"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

// Run is the main entry point for CLI command execution. Returns 0 on
// success and 1 on any error.
func Run(args []string, deps Dependencies) int {
	deps = withDefaults(deps)
	out := deps.Out

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Resolve infra states into per-environment deployment plans."),
		kong.Writers(out, deps.ErrOut),
	)
	if err != nil {
		return exitWithError(out, err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	loadEnvFile(cli.EnvFile, out)

	if handler, ok := commandHandlers[ctx.Command()]; ok {
		return handler(cli, deps)
	}
	newConsole(out, false).Warn("unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

var commandHandlers = map[string]commandHandler{
	"plan":          runPlan,
	"resolve":       runResolve,
	"graph":         runGraph,
	"edge-function": runEdgeFunction,
	"publish":       runPublish,
	"init":          runInit,
	"version":       runVersion,
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	return deps
}

// loadEnvFile loads --env-file, or ./.env when present. Failures only warn.
func loadEnvFile(path string, out io.Writer) {
	console := newConsole(out, false)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			console.Warn(fmt.Sprintf("failed to load env file %s: %v", path, err))
		}
		return
	}
	if _, err := os.Stat(meta.DefaultEnvFile); err == nil {
		if err := godotenv.Load(meta.DefaultEnvFile); err != nil {
			console.Warn(fmt.Sprintf("failed to load %s: %v", meta.DefaultEnvFile, err))
		}
	}
}

func runVersion(_ CLI, deps Dependencies) int {
	newConsole(deps.Out, false).Info(currentVersion())
	return 0
}

func runNoArgs(out io.Writer) int {
	console := newConsole(out, false)
	cmd := cliName()
	console.Info("Usage:")
	console.Info(fmt.Sprintf("  %s plan -e <env> [--infra-state <state>] [-o yaml|json]", cmd))
	console.Info(fmt.Sprintf("  %s resolve [--infra-state <state>]", cmd))
	console.Info("")
	console.Info(fmt.Sprintf("Try: %s --help", cmd))
	return 0
}

// handleParseError adds a hint for flags that were given without a value.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") {
		console := newConsole(out, false)
		cmd := cliName()
		switch {
		case strings.Contains(msg, "--env-file"):
			console.Warn("`--env-file` expects a value. Provide a dotenv path or omit the flag to use .env.")
			console.Info(fmt.Sprintf("Example: %s --env-file .env.local plan -e dev", cmd))
			return 1
		case strings.Contains(msg, "--env"):
			console.Warn("`-e/--env` expects a value. Provide an environment name or omit the flag for interactive selection.")
			console.Info(fmt.Sprintf("Example: %s plan -e dev", cmd))
			return 1
		case strings.Contains(msg, "--infra-state"):
			console.Warn("`--infra-state` expects a value.")
			console.Info(fmt.Sprintf("Example: %s plan -e dev --infra-state running", cmd))
			return 1
		}
	}
	return exitWithError(out, err)
}

func cliName() string {
	name := strings.TrimSpace(os.Getenv(meta.EnvCLIName))
	if name == "" {
		name = meta.Slug
	}
	return name
}
