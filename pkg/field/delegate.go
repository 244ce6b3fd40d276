package field

import (
	"context"
	"errors"
)

// Delegate observes a single Field. A field holds one delegate at a time;
// assigning another replaces it.
type Delegate interface {
	OnValueChange(fieldID string, value Value)
	OnValidationChange(fieldID string, valid bool)
}

// SurfaceObserver is an optional Delegate extension told when Configure
// replaces the surface of an already configured field. previous is nil when
// the field had been disposed.
type SurfaceObserver interface {
	OnSurfaceReplaced(fieldID string, previous, current *Surface)
}

// DelegateFuncs adapts plain functions to Delegate. Nil members are skipped.
type DelegateFuncs struct {
	ValueChanged      func(fieldID string, value Value)
	ValidationChanged func(fieldID string, valid bool)
}

// OnValueChange implements Delegate.
func (d DelegateFuncs) OnValueChange(fieldID string, value Value) {
	if d.ValueChanged != nil {
		d.ValueChanged(fieldID, value)
	}
}

// OnValidationChange implements Delegate.
func (d DelegateFuncs) OnValidationChange(fieldID string, valid bool) {
	if d.ValidationChanged != nil {
		d.ValidationChanged(fieldID, valid)
	}
}

// ErrNotPickable is returned by OpenPicker for fields that are not backed by a
// selection list.
var ErrNotPickable = errors.New("field: picker requires a choice field")

// Picker presents the transient selection surface (sheet, drawer, prompt)
// for a choice field. It returns the chosen index, or -1 when dismissed.
type Picker interface {
	Pick(ctx context.Context, title string, options []string, current int) (int, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context, title string, options []string, current int) (int, error)

// Pick implements Picker.
func (fn PickerFunc) Pick(ctx context.Context, title string, options []string, current int) (int, error) {
	return fn(ctx, title, options, current)
}
