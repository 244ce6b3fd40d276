package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/style"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithStyleResolver sets the resolver handed to every field the builder
// creates.
func WithStyleResolver(resolver style.Resolver) Option {
	return func(b *Builder) {
		if resolver != nil {
			b.resolver = resolver
		}
	}
}

// Builder manages a named, ordered collection of fields mounted into one
// container and aggregates their validity.
//
// The aggregate is computed from a cache that is only updated through the
// delegate path (interaction or Field.Notify). SetFieldValue deliberately
// bypasses it, matching Field.SetValue.
type Builder struct {
	container Container
	logger    *zap.Logger
	resolver  style.Resolver

	fields   map[string]*field.Field
	order    []string
	validity map[string]bool
	// mounted tracks the surface handed to the container per id, which
	// outlives a host-side Field.Dispose.
	mounted map[string]*field.Surface

	onValidationChanged func(valid bool)
}

var (
	_ field.Delegate        = (*Builder)(nil)
	_ field.SurfaceObserver = (*Builder)(nil)
)

// NewBuilder returns a builder mounting into container. A nil container
// falls back to a fresh Stack.
func NewBuilder(container Container, options ...Option) *Builder {
	if container == nil {
		container = NewStack()
	}
	b := &Builder{
		container: container,
		logger:    zap.NewNop(),
		fields:    make(map[string]*field.Field),
		validity:  make(map[string]bool),
		mounted:   make(map[string]*field.Surface),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Container returns the container fields are mounted into.
func (b *Builder) Container() Container {
	return b.container
}

// AddField creates, configures and mounts a field under id. An existing
// field with the same id is removed first. The aggregate validity is
// recomputed and announced. AddField returns the builder for chaining.
func (b *Builder) AddField(id string, cfg field.Config) *Builder {
	if _, exists := b.fields[id]; exists {
		b.detach(id)
	}

	f := field.New(field.WithStyleResolver(b.resolver))
	f.Configure(cfg, id)
	f.SetDelegate(b)

	b.fields[id] = f
	b.order = append(b.order, id)
	b.container.Mount(f.Surface())
	b.mounted[id] = f.Surface()
	b.validity[id] = f.IsValid()

	b.logger.Debug("form field added",
		zap.String("field", id),
		zap.String("type", string(f.Config().Type)),
		zap.Bool("valid", b.validity[id]),
	)
	b.announce()
	return b
}

// ReconfigureField applies cfg to the field registered under id, swaps the
// mounted surface and reseeds the field's validity before announcing. It
// reports whether the field exists.
func (b *Builder) ReconfigureField(id string, cfg field.Config) bool {
	f, ok := b.fields[id]
	if !ok {
		return false
	}
	f.Configure(cfg, id)
	b.remount(id)
	return true
}

// RemoveField unmounts and forgets the field, then recomputes the aggregate.
// Unknown ids are ignored.
func (b *Builder) RemoveField(id string) {
	if _, exists := b.fields[id]; !exists {
		return
	}
	b.detach(id)
	b.logger.Debug("form field removed", zap.String("field", id))
	b.announce()
}

// Field returns the field registered under id.
func (b *Builder) Field(id string) (*field.Field, bool) {
	f, ok := b.fields[id]
	return f, ok
}

// IDs returns registered ids in insertion order.
func (b *Builder) IDs() []string {
	return append([]string(nil), b.order...)
}

// Len reports how many fields are registered.
func (b *Builder) Len() int {
	return len(b.order)
}

// Surfaces returns the surfaces of registered fields in insertion order.
func (b *Builder) Surfaces() []*field.Surface {
	out := make([]*field.Surface, 0, len(b.order))
	for _, id := range b.order {
		if s := b.fields[id].Surface(); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// FieldValue returns the value of the named field.
func (b *Builder) FieldValue(id string) (field.Value, bool) {
	f, ok := b.fields[id]
	if !ok {
		return field.Value{}, false
	}
	return f.Value(), true
}

// SetFieldValue sets a value programmatically. Like Field.SetValue it does
// not touch the validity cache. It reports whether the field exists.
func (b *Builder) SetFieldValue(id string, value field.Value) bool {
	f, ok := b.fields[id]
	if !ok {
		return false
	}
	f.SetValue(value)
	return true
}

// SetFieldError sets (or, with an empty text, clears) a field error. It
// reports whether the field exists.
func (b *Builder) SetFieldError(id, text string) bool {
	f, ok := b.fields[id]
	if !ok {
		return false
	}
	f.SetError(text)
	return true
}

// ClearErrors clears the error of every field.
func (b *Builder) ClearErrors() {
	for _, id := range b.order {
		b.fields[id].ClearError()
	}
}

// ValidateForm returns the logical AND of the cached per-field validity.
// An empty form is valid.
func (b *Builder) ValidateForm() bool {
	for _, valid := range b.validity {
		if !valid {
			return false
		}
	}
	return true
}

// FormData snapshots every field value keyed by id, using Value.Any shapes.
func (b *Builder) FormData() map[string]any {
	out := make(map[string]any, len(b.order))
	for _, id := range b.order {
		out[id] = b.fields[id].Value().Any()
	}
	return out
}

// SetOnFormValidationChanged installs the aggregate callback. It fires after
// every add/remove and every validation report from a tracked field.
func (b *Builder) SetOnFormValidationChanged(fn func(valid bool)) {
	b.onValidationChanged = fn
}

// OnValueChange implements field.Delegate. It is a hook point only.
func (b *Builder) OnValueChange(fieldID string, value field.Value) {
	b.logger.Debug("form field value changed",
		zap.String("field", fieldID),
		zap.Stringer("value", value),
	)
}

// OnValidationChange implements field.Delegate: the cache entry is updated
// and the aggregate announced. Reports from untracked ids are dropped.
func (b *Builder) OnValidationChange(fieldID string, valid bool) {
	if _, ok := b.fields[fieldID]; !ok {
		return
	}
	b.validity[fieldID] = valid
	b.announce()
}

// OnSurfaceReplaced implements field.SurfaceObserver so a Configure issued
// through a Field handle keeps the container and validity cache in step.
func (b *Builder) OnSurfaceReplaced(_ string, _, current *field.Surface) {
	for _, id := range b.order {
		if b.fields[id].Surface() == current {
			b.remount(id)
			return
		}
	}
}

// Dispose unmounts and releases every field without announcing.
func (b *Builder) Dispose() {
	for _, id := range append([]string(nil), b.order...) {
		b.detach(id)
	}
}

func (b *Builder) detach(id string) {
	f := b.fields[id]
	if s := b.mounted[id]; s != nil {
		b.container.Unmount(s)
	}
	f.SetDelegate(nil)
	f.Dispose()

	delete(b.fields, id)
	delete(b.validity, id)
	delete(b.mounted, id)
	for i, candidate := range b.order {
		if candidate == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// remount is a no-op when the container already holds the field's surface.
func (b *Builder) remount(id string) {
	f := b.fields[id]
	current := f.Surface()
	if b.mounted[id] == current {
		return
	}
	previous := b.mounted[id]
	if replacer, ok := b.container.(Replacer); ok {
		replacer.Replace(previous, current)
	} else {
		if previous != nil {
			b.container.Unmount(previous)
		}
		if current != nil {
			b.container.Mount(current)
		}
	}
	b.mounted[id] = current
	b.validity[id] = f.IsValid()

	b.logger.Debug("form field reconfigured",
		zap.String("field", id),
		zap.String("type", string(f.Config().Type)),
		zap.Bool("valid", b.validity[id]),
	)
	b.announce()
}

func (b *Builder) announce() {
	valid := b.ValidateForm()
	b.logger.Debug("form validity", zap.Bool("valid", valid), zap.Int("fields", len(b.order)))
	if b.onValidationChanged != nil {
		b.onValidationChanged(valid)
	}
}
