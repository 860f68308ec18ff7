// Where: internal/domain/infrastate/class.go
// What: Logical service classes the activation matrix is keyed by.
// Why: Let config and planner refer to activation rows without string matching.
package infrastate

import (
	"errors"
	"fmt"
	"strings"
)

var errUnknownClass = errors.New("unknown service class")

// ServiceClass groups services that share one activation flag.
type ServiceClass string

const (
	ClassEdge        ServiceClass = "edge"
	ClassCore        ServiceClass = "core"
	ClassAuxiliary   ServiceClass = "auxiliary"
	ClassCacheSearch ServiceClass = "cache-search"
	ClassDatabase    ServiceClass = "database"
	ClassMigration   ServiceClass = "migration"
)

// Classes returns every known class.
func Classes() []ServiceClass {
	return []ServiceClass{
		ClassEdge,
		ClassCore,
		ClassAuxiliary,
		ClassCacheSearch,
		ClassDatabase,
		ClassMigration,
	}
}

// ParseClass validates a class name.
func ParseClass(value string) (ServiceClass, error) {
	for _, class := range Classes() {
		if string(class) == value {
			return class, nil
		}
	}
	names := make([]string, 0, len(Classes()))
	for _, class := range Classes() {
		names = append(names, string(class))
	}
	return "", fmt.Errorf("%w: %q (expected one of: %s)", errUnknownClass, value, strings.Join(names, ", "))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ServiceClass) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
