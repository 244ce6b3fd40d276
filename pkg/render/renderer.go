package render

import (
	"context"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
)

// Renderer converts a form snapshot into a byte representation (HTML,
// terminal text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snapshot Snapshot, options Options) ([]byte, error)
}

// Snapshot is the read-only view of a form that renderers consume. Surfaces
// are the live surfaces owned by their fields; renderers must not mutate
// them.
type Snapshot struct {
	ID          string
	Title       string
	Description string
	Valid       bool
	Surfaces    []*field.Surface
}

// SnapshotOf captures the surfaces and aggregate validity of b.
func SnapshotOf(b *form.Builder, id, title string) Snapshot {
	if b == nil {
		return Snapshot{ID: id, Title: title, Valid: true}
	}
	return Snapshot{
		ID:       id,
		Title:    title,
		Valid:    b.ValidateForm(),
		Surfaces: b.Surfaces(),
	}
}

// Options describe per-call data renderers can use to customise their output
// without touching the fields.
type Options struct {
	// FormErrors are messages that belong to no single field, typically
	// returned by form.Builder.ApplyErrors.
	FormErrors []string
	// SubmitLabel labels the submit control when the renderer draws one.
	SubmitLabel string
	// Action and Method fill the HTML form element attributes.
	Action string
	Method string
}
