package schema

import (
	"sort"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
)

// Definition is a loaded form: an ordered list of field configs plus the
// initial state each field starts from.
type Definition struct {
	ID          string
	Title       string
	Description string
	Source      string
	Fields      []FieldDef
}

// FieldDef pairs a field id with its config and optional initial state.
type FieldDef struct {
	ID       string
	Config   field.Config
	Default  field.Value
	Disabled bool
	Error    string
}

// HasDefault reports whether the definition carries an initial value.
func (d FieldDef) HasDefault() bool {
	return d.Default.Kind() != field.ValueNone
}

// Field returns the field definition with the given id.
func (d Definition) Field(id string) (FieldDef, bool) {
	for _, def := range d.Fields {
		if def.ID == id {
			return def, true
		}
	}
	return FieldDef{}, false
}

// Apply adds every field to b in definition order, then seeds defaults,
// errors and disabled flags. Defaults travel through SetFieldValue, so each
// seeded field is notified once to bring the builder's validity in line.
func (d Definition) Apply(b *form.Builder) {
	if b == nil {
		return
	}
	for _, def := range d.Fields {
		b.AddField(def.ID, def.Config)
		f, ok := b.Field(def.ID)
		if !ok {
			continue
		}
		if def.HasDefault() {
			f.SetValue(def.Default)
			f.Notify()
		}
		if def.Error != "" {
			f.SetError(def.Error)
		}
		if def.Disabled {
			f.SetEnabled(false)
		}
	}
}

// Build returns a new builder populated from the definition.
func (d Definition) Build(container form.Container, options ...form.Option) *form.Builder {
	b := form.NewBuilder(container, options...)
	d.Apply(b)
	return b
}

// Set is a collection of definitions keyed by form id.
type Set struct {
	forms map[string]Definition
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{forms: make(map[string]Definition)}
}

// Form looks up a definition by id.
func (s *Set) Form(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.forms[id]
	return def, ok
}

// IDs returns the sorted form ids.
func (s *Set) IDs() []string {
	if s == nil || len(s.forms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of definitions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.forms)
}
