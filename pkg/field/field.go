package field

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-formfield/pkg/style"
)

// Option configures a Field.
type Option func(*Field)

// WithStyleResolver sets the resolver used to derive surface styles.
func WithStyleResolver(resolver style.Resolver) Option {
	return func(f *Field) {
		if resolver != nil {
			f.resolver = resolver
		}
	}
}

// WithDelegate installs the initial delegate.
func WithDelegate(delegate Delegate) Option {
	return func(f *Field) {
		f.delegate = delegate
	}
}

// Field renders one configured input surface, owns its current value and
// reports value and validity changes to its delegate.
//
// A Field is not safe for concurrent use; every call is expected on the
// goroutine driving the UI. Delegate callbacks run synchronously inside the
// mutation that triggered them and may call back into the field.
type Field struct {
	id     string
	config Config

	text     string
	selected int
	checked  []bool

	errorText string
	enabled   bool
	evaluated bool

	delegate Delegate
	resolver style.Resolver
	styles   *style.Cache
	surface  *Surface

	counterLen    int
	counterBuilds int
}

// New returns an unconfigured field. Call Configure before use.
func New(options ...Option) *Field {
	f := &Field{
		selected:   -1,
		enabled:    true,
		counterLen: -1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Configure (re)initializes the field: the previous surface and its cached
// styles are discarded, a surface is built for cfg.Type, the value is reset
// to empty, the error cleared and the field enabled. Degenerate configs are
// accepted; an unknown type renders as free text and a choice type without
// options renders an empty choice surface. A delegate implementing
// SurfaceObserver is told about the replacement.
func (f *Field) Configure(cfg Config, id string) {
	previous := f.surface
	f.release()

	cfg = cfg.clone()
	if !cfg.Type.Valid() {
		cfg.Type = TypeFreeText
	}

	f.id = id
	f.config = cfg
	f.text = ""
	f.selected = -1
	f.checked = make([]bool, len(cfg.Options))
	f.errorText = ""
	f.enabled = true
	f.counterLen = -1

	f.styles = style.NewCache(f.resolver)
	f.surface = &Surface{
		MountID:        uuid.NewString(),
		FieldID:        id,
		Type:           cfg.Type,
		Title:          cfg.Title,
		Description:    cfg.Description,
		Hint:           cfg.Hint,
		Required:       cfg.Required,
		SupportingText: cfg.SupportingText,
	}

	// Leaves Clean: the first sync evaluates Valid/Invalid.
	f.evaluated = true
	f.sync()

	if observer, ok := f.delegate.(SurfaceObserver); ok {
		observer.OnSurfaceReplaced(id, previous, f.surface)
	}
}

// ID returns the caller-assigned field id.
func (f *Field) ID() string {
	return f.id
}

// Config returns a copy of the active configuration.
func (f *Field) Config() Config {
	return f.config.clone()
}

// Surface returns the rendered subtree, or nil before Configure or after
// Dispose.
func (f *Field) Surface() *Surface {
	return f.surface
}

// Value returns the current value in the shape of the field type. Multi-choice
// values keep options order regardless of selection order.
func (f *Field) Value() Value {
	return kindFor(f.config.Type).value(f)
}

// SetValue replaces the value programmatically. Unlike the interaction
// methods it does not notify the delegate; call Notify to propagate.
func (f *Field) SetValue(v Value) {
	kindFor(f.config.Type).setValue(f, v)
	f.sync()
}

// IsValid reports whether the value satisfies the required rule. Optional
// fields are always valid.
func (f *Field) IsValid() bool {
	if !f.config.Required {
		return true
	}
	return kindFor(f.config.Type).valid(f)
}

// State reports the visual state. Disabled takes precedence over Errored.
func (f *Field) State() State {
	switch {
	case !f.evaluated:
		return StateClean
	case !f.enabled:
		return StateDisabled
	case f.errorText != "":
		return StateErrored
	case f.IsValid():
		return StateValid
	default:
		return StateInvalid
	}
}

// ErrorText returns the error currently set, even while it is hidden by the
// disabled overlay.
func (f *Field) ErrorText() string {
	return f.errorText
}

// SetError marks the field errored. An empty text clears the error.
func (f *Field) SetError(text string) {
	if text == "" {
		f.ClearError()
		return
	}
	f.errorText = text
	f.refresh()
}

// ClearError removes the error text. Calling it repeatedly has no further
// effect.
func (f *Field) ClearError() {
	f.errorText = ""
	f.refresh()
}

// Enabled reports whether the field accepts interaction.
func (f *Field) Enabled() bool {
	return f.enabled
}

// SetEnabled toggles interactivity; choice options follow the field.
func (f *Field) SetEnabled(enabled bool) {
	f.enabled = enabled
	f.refresh()
}

// Delegate returns the installed delegate.
func (f *Field) Delegate() Delegate {
	return f.delegate
}

// SetDelegate replaces the delegate. The previous delegate is dropped without
// notice.
func (f *Field) SetDelegate(delegate Delegate) {
	f.delegate = delegate
}

// Edit applies user-entered text to a text field. It reports whether the
// value changed; disabled fields and non-text fields ignore edits.
func (f *Field) Edit(text string) bool {
	if !f.interactive() || !f.config.Type.IsText() {
		return false
	}
	if text == f.text {
		return false
	}
	f.text = text
	f.changed()
	return true
}

// Choose selects option on a single-choice list or exclusive choice set, as
// a tap would. It reports whether the value changed.
func (f *Field) Choose(option string) bool {
	if !f.interactive() {
		return false
	}
	if f.config.Type != TypeSingleChoiceList && f.config.Type != TypeExclusiveChoiceSet {
		return false
	}
	return f.chooseIndex(f.config.indexOf(option))
}

// Toggle flips option on a multi-choice set. It reports whether the value
// changed.
func (f *Field) Toggle(option string) bool {
	if !f.interactive() || f.config.Type != TypeMultiChoiceSet {
		return false
	}
	idx := f.config.indexOf(option)
	if idx < 0 {
		return false
	}
	f.checked[idx] = !f.checked[idx]
	f.changed()
	return true
}

// OpenPicker presents the options through picker and feeds the choice back
// into the interaction path. Dismissal (a negative index) leaves the value
// untouched; a disabled field does not open the picker.
func (f *Field) OpenPicker(ctx context.Context, picker Picker) error {
	if f.config.Type != TypeSingleChoiceList && f.config.Type != TypeExclusiveChoiceSet {
		return ErrNotPickable
	}
	if picker == nil {
		return errors.New("field: picker is nil")
	}
	if !f.interactive() {
		return nil
	}
	options := append([]string(nil), f.config.Options...)
	idx, err := picker.Pick(ctx, f.config.Title, options, f.selected)
	if err != nil {
		return fmt.Errorf("field: pick %q: %w", f.id, err)
	}
	if idx < 0 || idx >= len(options) {
		return nil
	}
	f.chooseIndex(idx)
	return nil
}

// Notify reports the current value and validity to the delegate, in that
// order. Interaction methods call it after every change.
func (f *Field) Notify() {
	d := f.delegate
	if d == nil {
		return
	}
	d.OnValueChange(f.id, f.Value())
	d.OnValidationChange(f.id, f.IsValid())
}

// Dispose releases cached styles and drops the surface. The field can be
// configured again afterwards.
func (f *Field) Dispose() {
	f.release()
}

func (f *Field) release() {
	if f.styles != nil {
		f.styles.Release()
	}
	if f.surface != nil {
		f.surface.Styles = nil
	}
	f.surface = nil
}

func (f *Field) interactive() bool {
	return f.surface != nil && f.enabled
}

func (f *Field) chooseIndex(idx int) bool {
	if idx < 0 || idx >= len(f.config.Options) || idx == f.selected {
		return false
	}
	f.selected = idx
	f.changed()
	return true
}

func (f *Field) changed() {
	f.sync()
	f.Notify()
}

func (f *Field) sync() {
	if f.surface == nil {
		return
	}
	kindFor(f.config.Type).render(f, f.surface)
	f.updateCounter()
	f.refresh()
}

func (f *Field) updateCounter() {
	s := f.surface
	if !f.config.HasCounter() || !f.config.Type.IsText() {
		s.Counter = nil
		f.counterLen = -1
		return
	}
	n := utf8.RuneCountInString(f.text)
	if s.Counter != nil && n == f.counterLen {
		return
	}
	f.counterLen = n
	f.counterBuilds++
	s.Counter = &Counter{
		Length: n,
		Max:    f.config.MaxLength,
		Text:   fmt.Sprintf("(%d/%d)", n, f.config.MaxLength),
	}
}

func (f *Field) refresh() {
	s := f.surface
	if s == nil {
		return
	}
	state := f.State()
	s.State = state
	s.Variant = state.Variant()
	s.Enabled = f.enabled
	s.ErrorText = f.errorText
	for _, c := range s.Choices {
		c.Enabled = f.enabled
	}
	s.Styles = f.styles.Snapshot(s.Variant)
}
