package gotemplate_test

import (
	"embed"
	"io"
	"io/fs"
	"testing"

	"github.com/goliatone/go-formfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formfield/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if want := "Hello Ada!"; result != want || written != want {
		t.Fatalf("render mismatch: result %q, written %q", result, written)
	}
}

func TestEngine_ExtensionIsOptionalInName(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.RenderTemplate("trim.tmpl", map[string]any{"name": "  Grace  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Grace" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_AttrFilter(t *testing.T) {
	engine := newEngine(t)

	on, err := engine.RenderTemplate("attr", map[string]any{"disabled": true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	off, err := engine.RenderTemplate("attr", map[string]any{"disabled": false})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if on != "<input disabled>" || off != "<input>" {
		t.Fatalf("unexpected attr output %q / %q", on, off)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for a missing template")
	}
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without a templates fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
