// Where: internal/command/resolve.go
// What: resolve command: print the activation matrix.
// Why: Let operators check what a state transition turns on before applying it.
package command

import (
	"strconv"

	"github.com/poruru-code/stackplan/internal/domain/infrastate"
)

// ResolveCmd defines the resolve command flags.
type ResolveCmd struct {
	InfraState string `name:"infra-state" help:"Infra state to resolve (default: all states)"`
	Output     string `short:"o" enum:"table,yaml,json" default:"table" help:"Output format (table/yaml/json)"`
}

type activationRow struct {
	State      infrastate.State      `json:"state" yaml:"state"`
	Activation infrastate.Activation `json:"activation" yaml:"activation"`
}

func runResolve(cli CLI, deps Dependencies) int {
	opts := cli.Resolve
	states := infrastate.All()
	if opts.InfraState != "" {
		state, err := infrastate.Parse(opts.InfraState)
		if err != nil {
			return exitWithError(deps.Out, err)
		}
		states = []infrastate.State{state}
	}

	rows := make([]activationRow, 0, len(states))
	for _, state := range states {
		activation, err := infrastate.Resolve(state)
		if err != nil {
			return exitWithError(deps.Out, err)
		}
		rows = append(rows, activationRow{State: state, Activation: activation})
	}

	if opts.Output == formatTable {
		console := newConsole(deps.Out, !cli.NoEmoji)
		table := make([][]string, 0, len(rows))
		for _, row := range rows {
			a := row.Activation
			table = append(table, []string{
				row.State.String(),
				strconv.FormatBool(a.Maintenance),
				strconv.FormatBool(a.Database),
				strconv.FormatBool(a.CacheAndSearch),
				strconv.FormatBool(a.CoreServices),
				strconv.FormatBool(a.Migration),
				strconv.FormatBool(a.AuxiliaryServices),
			})
		}
		console.Header("🧭", "Activation matrix")
		console.Table([]string{"STATE", "MAINTENANCE", "DATABASE", "CACHE+SEARCH", "CORE", "MIGRATION", "AUXILIARY"}, table)
		return 0
	}

	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	if opts.Output == formatJSON && len(docs) > 1 {
		docs = []any{rows}
	}
	payload, err := encode(opts.Output, docs...)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	_, _ = deps.Out.Write(payload)
	return 0
}
