package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/orchestrator"
	"github.com/goliatone/go-formfield/pkg/prompt"
	"github.com/goliatone/go-formfield/pkg/render"
	"github.com/goliatone/go-formfield/pkg/schema"
	"github.com/goliatone/go-formfield/pkg/testsupport"
)

type scriptedDriver struct {
	inputs    []string
	textAreas []string
	selects   []int
	multi     [][]int
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	if len(d.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	next := d.textAreas[0]
	d.textAreas = d.textAreas[1:]
	return next, nil
}

func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	if len(d.multi) == 0 {
		return nil, errors.New("no multiselect scripted")
	}
	next := d.multi[0]
	d.multi = d.multi[1:]
	return next, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func TestGenerate_EmbeddedDefinitionDefaultsToHTML(t *testing.T) {
	gen := orchestrator.New()

	result, err := gen.Generate(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Definition.ID != "rsvp" {
		t.Fatalf("expected the embedded rsvp form, got %q", result.Definition.ID)
	}
	if result.Valid {
		t.Fatalf("required fields are empty, form should be invalid")
	}
	if !strings.HasPrefix(result.ContentType, "text/html") {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}

	root := testsupport.MustParseHTML(t, result.Output)
	forms := testsupport.FindAll(root, "form", "data-valid", "false")
	if len(forms) != 1 {
		t.Fatalf("expected one invalid form element, got %d", len(forms))
	}
	var ids []string
	for _, node := range testsupport.FindAll(root, "div", "data-field", "*") {
		id, _ := testsupport.Attr(node, "data-field")
		ids = append(ids, id)
	}
	want := []string{"name", "email", "attending", "session", "meals", "notes"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if got := result.Data["session"]; got != "Morning keynote" {
		t.Fatalf("default session not applied: %v", got)
	}
}

func TestGenerate_InteractiveFillMakesFormValid(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Ada Lovelace", "ada@example.com"},
		selects:   []int{0, 1},
		multi:     [][]int{{0, 2}},
		textAreas: []string{"Vegetarian"},
	}
	gen := orchestrator.New(orchestrator.WithSession(prompt.NewSession(prompt.WithDriver(driver))))

	result, err := gen.Generate(testsupport.Context(), orchestrator.Request{
		FormID:      "rsvp",
		Interactive: true,
		SkipRender:  true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("filled form should be valid")
	}
	if result.Output != nil {
		t.Fatalf("skip render should leave output empty")
	}

	want := map[string]any{
		"name":      "Ada Lovelace",
		"email":     "ada@example.com",
		"attending": "Yes",
		"session":   "Afternoon workshops",
		"meals":     []string{"Breakfast", "Dinner"},
		"notes":     "Vegetarian",
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_AppliesServerErrors(t *testing.T) {
	gen := orchestrator.New()

	result, err := gen.Generate(testsupport.Context(), orchestrator.Request{
		Renderer: "term",
		Errors: map[string][]string{
			"/body/email": {"already registered"},
			"__all__":     {"registration closes tonight"},
		},
		RenderOptions: render.Options{FormErrors: []string{"preview"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff([]string{"registration closes tonight"}, result.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	email, ok := result.Builder.Field("email")
	if !ok || email.ErrorText() != "already registered" {
		t.Fatalf("email error not applied")
	}

	out := string(result.Output)
	for _, fragment := range []string{"! preview", "! registration closes tonight", "already registered", "Form has invalid fields"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("terminal output missing %q:\n%s", fragment, out)
		}
	}
}

func TestGenerate_OpenAPIOperation(t *testing.T) {
	gen := orchestrator.New()

	result, err := gen.Generate(testsupport.Context(), orchestrator.Request{
		FS:         os.DirFS("../schema/testdata"),
		Path:       "events.openapi.yaml",
		OpenAPI:    true,
		FormID:     "createRSVP",
		SkipRender: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Definition.ID != "createRSVP" {
		t.Fatalf("unexpected definition %q", result.Definition.ID)
	}
	ids := result.Builder.IDs()
	if len(ids) < 2 || ids[0] != "name" || ids[1] != "attending" {
		t.Fatalf("unexpected field order %v", ids)
	}
}

func TestGenerate_Errors(t *testing.T) {
	gen := orchestrator.New()
	ctx := testsupport.Context()

	doc := schema.MustNewDocument(schema.SourceFromBytes("inline"), []byte(`
forms:
  one:
    fields: [{id: a}]
  two:
    fields: [{id: b}]
`))

	if _, err := gen.Generate(ctx, orchestrator.Request{Document: &doc}); !errors.Is(err, orchestrator.ErrFormRequired) {
		t.Fatalf("expected ErrFormRequired, got %v", err)
	}
	if _, err := gen.Generate(ctx, orchestrator.Request{Document: &doc, FormID: "three"}); !errors.Is(err, schema.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := gen.Generate(ctx, orchestrator.Request{Document: &doc, FormID: "one", Renderer: "pdf"}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected unknown renderer error")
	}
	if _, err := gen.Generate(ctx, orchestrator.Request{OpenAPI: true, FormID: "x"}); err == nil {
		t.Fatalf("expected openapi request without a document to fail")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := gen.Generate(cancelled, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
