// Where: internal/domain/maintenance/edge.go
// What: CDN viewer-request function rendering for the maintenance gate.
// Why: Keep the edge comparison derived from the same challenge as the listener rules.
package maintenance

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Edge function identity.
const (
	FunctionName    = "maintenance-check"
	FunctionRuntime = "cloudfront-js-2.0"
)

// ErrRender reports a template failure.
var ErrRender = errors.New("edge function render failed")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// EdgeFunction is the rendered viewer-request function. Associate is false
// when there is nothing to gate, so distributions detach it.
type EdgeFunction struct {
	Name      string `json:"name" yaml:"name"`
	Runtime   string `json:"runtime" yaml:"runtime"`
	Code      string `json:"code" yaml:"code"`
	Associate bool   `json:"associate" yaml:"associate"`
}

type edgeTemplateData struct {
	HeaderName   string
	HeaderSecret string
	RedirectURL  string
}

// RenderEdgeFunction renders the gate function for a challenge. A nil
// challenge renders the pass-through function.
func RenderEdgeFunction(challenge *Challenge, redirectHost string) (EdgeFunction, error) {
	fn := EdgeFunction{Name: FunctionName, Runtime: FunctionRuntime}
	if challenge == nil {
		code, err := renderTemplate("edge_passthrough.js.tmpl", nil)
		if err != nil {
			return EdgeFunction{}, err
		}
		fn.Code = code
		return fn, nil
	}

	if err := challenge.Validate(); err != nil {
		return EdgeFunction{}, err
	}
	redirectHost = strings.TrimSpace(redirectHost)
	if redirectHost == "" {
		return EdgeFunction{}, fmt.Errorf("%w: redirect host is required", ErrRender)
	}
	code, err := renderTemplate("edge_gate.js.tmpl", edgeTemplateData{
		HeaderName:   challenge.HeaderName,
		HeaderSecret: challenge.HeaderSecret,
		RedirectURL:  "https://" + redirectHost,
	})
	if err != nil {
		return EdgeFunction{}, err
	}
	fn.Code = code
	fn.Associate = true
	return fn, nil
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	return buf.String(), nil
}

func loadTemplate(name string) (*template.Template, error) {
	if cached, ok := templateCache.Load(name); ok {
		return cached.(*template.Template), nil
	}
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRender, name, err)
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrRender, name, err)
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
