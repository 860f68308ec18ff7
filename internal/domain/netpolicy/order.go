// Where: internal/domain/netpolicy/order.go
// What: Ordering helpers for service descriptors.
// Why: Help operators fix a rejected declaration order instead of guessing it.
package netpolicy

import (
	"fmt"
	"strings"
)

// Order returns the descriptors in an order BuildGraph accepts. Services
// keep their input position whenever their callers allow it. Unknown callers
// and cycles are reported as DependencyOrderViolation.
func Order(services []ServiceDescriptor) ([]ServiceDescriptor, error) {
	declared := declaredNames(services)
	for _, svc := range services {
		for _, caller := range svc.AllowedCallers {
			if _, ok := declared[caller]; !ok {
				return nil, &DependencyOrderViolation{
					Service: svc.Name,
					Caller:  caller,
					Reason:  missingCallerReason(caller, declared),
				}
			}
		}
	}
	if cycle := detectCycle(services); cycle != "" {
		return nil, &DependencyOrderViolation{Service: strings.SplitN(cycle, " → ", 2)[0], Reason: "cycle detected: " + cycle}
	}

	placed := make(map[string]bool, len(services))
	out := make([]ServiceDescriptor, 0, len(services))
	for len(out) < len(services) {
		progressed := false
		for _, svc := range services {
			if placed[svc.Name] || !callersPlaced(svc, placed) {
				continue
			}
			placed[svc.Name] = true
			out = append(out, svc)
			progressed = true
			// restart from the top so earlier services keep priority
			break
		}
		if !progressed {
			return nil, &DependencyOrderViolation{Reason: "unable to order services"}
		}
	}
	return out, nil
}

func callersPlaced(svc ServiceDescriptor, placed map[string]bool) bool {
	for _, caller := range svc.AllowedCallers {
		if caller == svc.Name {
			return false
		}
		if !placed[caller] {
			return false
		}
	}
	return true
}

// detectCycle walks caller edges depth first and returns the cycle path, or
// "" when the declarations are acyclic.
func detectCycle(services []ServiceDescriptor) string {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	byName := make(map[string]ServiceDescriptor, len(services))
	for _, svc := range services {
		byName[svc.Name] = svc
	}
	state := make(map[string]int, len(services))
	parent := make(map[string]string, len(services))

	var dfs func(name string) string
	dfs = func(name string) string {
		state[name] = visiting
		for _, caller := range byName[name].AllowedCallers {
			if _, ok := byName[caller]; !ok {
				continue
			}
			switch state[caller] {
			case visiting:
				path := []string{caller, name}
				for cur := name; cur != caller; {
					cur = parent[cur]
					path = append(path, cur)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return strings.Join(path, " → ")
			case unvisited:
				parent[caller] = name
				if msg := dfs(caller); msg != "" {
					return msg
				}
			}
		}
		state[name] = visited
		return ""
	}

	for _, svc := range services {
		if state[svc.Name] == unvisited {
			if msg := dfs(svc.Name); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func declaredNames(services []ServiceDescriptor) map[string]int {
	out := make(map[string]int, len(services))
	for i, svc := range services {
		if _, exists := out[svc.Name]; !exists {
			out[svc.Name] = i
		}
	}
	return out
}

func missingCallerReason(caller string, declared map[string]int) string {
	if _, ok := declared[caller]; ok {
		return "caller is declared later; it must be built first"
	}
	msg := "caller is not a declared service"
	if suggestion := closestMatch(caller, declared); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return msg
}

// closestMatch returns the declared name closest to target by edit distance,
// or "" when nothing is within half the target length.
func closestMatch(target string, declared map[string]int) string {
	best := ""
	bestDist := len(target)/2 + 1
	bestIndex := -1
	for name, index := range declared {
		d := editDistance(target, name)
		if d < bestDist || (d == bestDist && best != "" && index < bestIndex) {
			bestDist = d
			best = name
			bestIndex = index
		}
	}
	return best
}

func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
