// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize console construction and structured rendering.
package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/poruru-code/stackplan/internal/infra/interaction"
	"github.com/poruru-code/stackplan/internal/infra/ui"
	"github.com/poruru-code/stackplan/internal/version"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatYAML  = "yaml"
	formatJSON  = "json"
	formatTable = "table"
)

var errUnknownFormat = errors.New("unknown output format")

var currentVersion = version.GetVersion

// newConsole returns a console; emoji is enabled only when requested and
// out is a terminal.
func newConsole(out io.Writer, emoji bool) *ui.Console {
	if emoji {
		file, ok := out.(*os.File)
		emoji = ok && interaction.IsTerminal(file)
	}
	return ui.NewWithEmoji(out, emoji)
}

// exitWithError prints err and returns exit code 1.
func exitWithError(out io.Writer, err error) int {
	newConsole(out, false).Error(err.Error())
	return 1
}

// encode renders docs as a YAML stream or a JSON document. A single doc is
// written as itself; several are written as a stream or array.
func encode(format string, docs ...any) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "", formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return nil, fmt.Errorf("encode yaml: %w", err)
			}
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	case formatJSON:
		var payload any = docs
		if len(docs) == 1 {
			payload = docs[0]
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	return buf.Bytes(), nil
}
