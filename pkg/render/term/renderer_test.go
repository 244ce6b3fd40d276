package term

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/render"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func configured(t *testing.T, cfg field.Config) *field.Field {
	t.Helper()
	f := field.New()
	f.Configure(cfg, "f")
	return f
}

func TestRenderField_TextWithCounter(t *testing.T) {
	f := configured(t, field.Config{
		Type:           field.TypeFreeText,
		Title:          "Full name",
		Description:    "As on your <em>badge</em> &amp; ticket",
		Required:       true,
		MaxLength:      20,
		SupportingText: "Shown to other guests",
	})
	f.Edit("Ada")

	out := plain(New().RenderField(f.Surface()))
	for _, want := range []string{"Full name *", "As on your badge & ticket", "> Ada", "Shown to other guests", "(3/20)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderField_ErrorReplacesFooter(t *testing.T) {
	f := configured(t, field.Config{
		Type:           field.TypeFreeText,
		Title:          "Email",
		MaxLength:      40,
		SupportingText: "We send a reminder",
	})
	f.SetError("already registered")

	out := plain(New().RenderField(f.Surface()))
	if !strings.Contains(out, "already registered") {
		t.Fatalf("missing error text:\n%s", out)
	}
	if strings.Contains(out, "We send a reminder") || strings.Contains(out, "(0/40)") {
		t.Fatalf("error must replace supporting text and counter:\n%s", out)
	}
}

func TestRenderField_Choices(t *testing.T) {
	radio := configured(t, field.Config{Type: field.TypeExclusiveChoiceSet, Title: "Attending", Options: []string{"Yes", "No"}})
	radio.Choose("No")
	checks := configured(t, field.Config{Type: field.TypeMultiChoiceSet, Title: "Meals", Options: []string{"Lunch", "Dinner"}})
	checks.Toggle("Dinner")
	list := configured(t, field.Config{Type: field.TypeSingleChoiceList, Title: "Session", Hint: "Pick one", Options: []string{"AM", "PM"}})
	empty := configured(t, field.Config{Type: field.TypeExclusiveChoiceSet, Title: "Empty"})

	r := New()
	cases := map[string][]string{
		plain(r.RenderField(radio.Surface())):  {"( ) Yes", "(*) No"},
		plain(r.RenderField(checks.Surface())): {"[ ] Lunch", "[x] Dinner"},
		plain(r.RenderField(list.Surface())):   {"v Pick one"},
		plain(r.RenderField(empty.Surface())):  {"(no options)"},
	}
	for out, wants := range cases {
		for _, want := range wants {
			if !strings.Contains(out, want) {
				t.Fatalf("expected %q in:\n%s", want, out)
			}
		}
	}
}

func TestRenderField_MultilineRespectsLineBounds(t *testing.T) {
	f := configured(t, field.Config{Type: field.TypeMultilineText, Title: "Notes", MinLines: 3, MaxLines: 4})
	f.Edit("one")
	out := plain(New().RenderField(f.Surface()))
	if got := strings.Count(out, "| "); got != 3 {
		t.Fatalf("expected 3 rows for minLines, got %d:\n%s", got, out)
	}

	f.Edit("1\n2\n3\n4\n5\n6")
	out = plain(New().RenderField(f.Surface()))
	if got := strings.Count(out, "| "); got != 4 {
		t.Fatalf("expected rows capped at maxLines, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "| 6") || strings.Contains(out, "| 1\n") {
		t.Fatalf("expected the last lines to stay visible:\n%s", out)
	}
}

func TestRender_Form(t *testing.T) {
	b := form.NewBuilder(nil).
		AddField("name", field.Config{Type: field.TypeFreeText, Title: "Name", Required: true}).
		AddField("notes", field.Config{Type: field.TypeMultilineText, Title: "Notes"})
	notes, _ := b.Field("notes")
	notes.SetEnabled(false)

	r := New(WithWidth(40))
	if r.Name() != "term" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	out, err := r.Render(context.Background(), render.SnapshotOf(b, "rsvp", "Event RSVP"), render.Options{
		FormErrors: []string{"event is full"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := plain(string(out))
	for _, want := range []string{"Event RSVP", "! event is full", "Name *", "Notes (disabled)", "Form has invalid fields"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
	if strings.Index(text, "Name *") > strings.Index(text, "Notes") {
		t.Fatalf("fields should render in insertion order:\n%s", text)
	}
}
