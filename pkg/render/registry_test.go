package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, Snapshot, Options) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(namedRenderer("term"))
	reg.MustRegister(namedRenderer("html"))

	if err := reg.Register(namedRenderer("html")); !errors.Is(err, ErrDuplicateRenderer) {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}

	if diff := cmp.Diff([]string{"html", "term"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("term") || reg.Has("json") {
		t.Fatalf("unexpected Has results")
	}
	if _, err := reg.Get("json"); !errors.Is(err, ErrRendererNotFound) {
		t.Fatalf("expected missing renderer error")
	}
	got, err := reg.Get("html")
	if err != nil || got.Name() != "html" {
		t.Fatalf("get html: %v, %v", got, err)
	}
}

func TestSnapshotOf(t *testing.T) {
	b := form.NewBuilder(nil).
		AddField("name", field.Config{Type: field.TypeFreeText, Required: true}).
		AddField("notes", field.Config{Type: field.TypeMultilineText})

	snap := SnapshotOf(b, "rsvp", "RSVP")
	if snap.Valid || len(snap.Surfaces) != 2 || snap.Surfaces[0].FieldID != "name" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	empty := SnapshotOf(nil, "none", "")
	if !empty.Valid || len(empty.Surfaces) != 0 {
		t.Fatalf("nil builder should snapshot as an empty valid form")
	}
}
