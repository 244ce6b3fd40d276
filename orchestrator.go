package formfield

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formfield/pkg/orchestrator"
	"github.com/goliatone/go-formfield/pkg/render"
	"github.com/goliatone/go-formfield/pkg/schema"
	"github.com/goliatone/go-formfield/pkg/style"
)

// RenderOptions describes per-request data renderers use, such as form-level
// errors and the submit label.
type RenderOptions = render.Options

// Request aliases orchestrator.Request for callers that only import the root
// package.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a definition loader with the built-in type registry.
func NewLoader(options ...schema.Option) *schema.Loader {
	return schema.NewLoader(options...)
}

// Generate runs one request through a freshly configured orchestrator.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) (*Result, error) {
	return orchestrator.New(options...).Generate(ctx, req)
}

// GenerateHTML renders an embedded form definition using the named renderer.
// An empty renderer name selects HTML.
func GenerateHTML(ctx context.Context, formID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	result, err := Generate(ctx, Request{FormID: formID, Renderer: rendererName}, options...)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// GenerateHTMLFromDocument renders a form from a pre-loaded definition
// document, bypassing the embedded set.
func GenerateHTMLFromDocument(ctx context.Context, doc schema.Document, formID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	result, err := Generate(ctx, Request{Document: &doc, FormID: formID, Renderer: rendererName}, options...)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// WithThemeSelector resolves name/variant through a go-theme selector and
// returns an option styling every field with the selected tokens.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) (orchestrator.Option, error) {
	resolver, err := style.FromSelector(selector, name, variant)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithStyleResolver(resolver), nil
}
