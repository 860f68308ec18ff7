// Where: internal/architecture/layering_cycles_test.go
// What: Import cycle guard for internal packages.
// Why: Report the full cycle path instead of the compiler's first edge.
package architecture

import (
	"sort"
	"strings"
	"testing"
)

func TestNoInternalImportCycles(t *testing.T) {
	t.Parallel()

	graph := map[string]map[string]struct{}{}
	for pkg, imports := range scanPackageImports(t) {
		if _, ok := graph[pkg]; !ok {
			graph[pkg] = map[string]struct{}{}
		}
		for _, imp := range imports {
			graph[pkg][imp] = struct{}{}
			if _, ok := graph[imp]; !ok {
				graph[imp] = map[string]struct{}{}
			}
		}
	}

	cycles := detectCycles(graph)
	if len(cycles) > 0 {
		sort.Strings(cycles)
		t.Fatalf("internal import cycles detected:\n%s", strings.Join(cycles, "\n"))
	}
}

func TestDetectCycles(t *testing.T) {
	cases := []struct {
		name  string
		graph map[string]map[string]struct{}
		want  []string
	}{
		{
			name: "acyclic",
			graph: map[string]map[string]struct{}{
				"domain/stack":      {"domain/infrastate": {}},
				"domain/infrastate": {},
			},
			want: []string{},
		},
		{
			name: "two packages",
			graph: map[string]map[string]struct{}{
				"domain/environment": {"domain/maintenance": {}},
				"domain/maintenance": {"domain/environment": {}},
			},
			want: []string{"domain/environment -> domain/maintenance -> domain/environment"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectCycles(tc.graph)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("detectCycles=%v, want %v", got, tc.want)
			}
		})
	}
}

func detectCycles(graph map[string]map[string]struct{}) []string {
	const (
		stateUnvisited = 0
		stateVisiting  = 1
		stateDone      = 2
	)

	state := map[string]int{}
	stack := []string{}
	seenCycles := map[string]struct{}{}
	cycles := []string{}

	var walk func(string)
	walk = func(node string) {
		state[node] = stateVisiting
		stack = append(stack, node)

		neighbors := make([]string, 0, len(graph[node]))
		for next := range graph[node] {
			neighbors = append(neighbors, next)
		}
		sort.Strings(neighbors)

		for _, next := range neighbors {
			switch state[next] {
			case stateUnvisited:
				walk(next)
			case stateVisiting:
				start := -1
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						start = i
						break
					}
				}
				if start >= 0 {
					path := append(append([]string{}, stack[start:]...), next)
					cycle := strings.Join(path, " -> ")
					if _, ok := seenCycles[cycle]; !ok {
						seenCycles[cycle] = struct{}{}
						cycles = append(cycles, cycle)
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = stateDone
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if state[node] == stateUnvisited {
			walk(node)
		}
	}

	return cycles
}
