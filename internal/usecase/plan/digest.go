// Where: internal/usecase/plan/digest.go
// What: Content digest of a plan.
// Why: Identify published snapshots and detect identical re-plans.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest returns the hex sha256 of the canonical JSON encoding of p.
func Digest(p Plan) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
