package field

import (
	"fmt"
	"strings"
)

// ValueKind tags the shape held by a Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueText
	ValueSelection
	ValueItems
)

// Value is the current value of a field. Its shape depends on the field type:
// text for FreeText/MultilineText, an optional selection for
// SingleChoiceList/ExclusiveChoiceSet and an options-ordered subset for
// MultiChoiceSet.
type Value struct {
	kind     ValueKind
	text     string
	selected bool
	items    []string
}

// TextValue wraps free-form text.
func TextValue(text string) Value {
	return Value{kind: ValueText, text: text}
}

// SelectionValue wraps a chosen option.
func SelectionValue(option string) Value {
	return Value{kind: ValueSelection, text: option, selected: true}
}

// NoSelection is the empty single-choice value.
func NoSelection() Value {
	return Value{kind: ValueSelection}
}

// ItemsValue wraps a multi-choice selection.
func ItemsValue(items ...string) Value {
	return Value{kind: ValueItems, items: append([]string{}, items...)}
}

// ValueOf converts a loosely typed value (as found in decoded JSON/YAML or
// form data) into a Value. Strings become text, string slices become items
// and nil becomes NoSelection.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NoSelection(), nil
	case Value:
		return v, nil
	case string:
		return TextValue(v), nil
	case []string:
		return ItemsValue(v...), nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("field: unsupported item %T", item)
			}
			items = append(items, s)
		}
		return ItemsValue(items...), nil
	default:
		return Value{}, fmt.Errorf("field: unsupported value %T", raw)
	}
}

// Kind reports the value shape.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the text, or the selected option for selection values.
func (v Value) Text() string {
	return v.text
}

// Selection returns the chosen option and whether one is present.
func (v Value) Selection() (string, bool) {
	if v.kind != ValueSelection || !v.selected {
		return "", false
	}
	return v.text, true
}

// Items returns a copy of the selected items.
func (v Value) Items() []string {
	if v.kind != ValueItems {
		return nil
	}
	return append([]string{}, v.items...)
}

// IsEmpty reports whether the value holds nothing a required field accepts.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueText:
		return strings.TrimSpace(v.text) == ""
	case ValueSelection:
		return !v.selected
	case ValueItems:
		return len(v.items) == 0
	default:
		return true
	}
}

// Any returns the natural Go shape: string, string or nil, []string.
func (v Value) Any() any {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueSelection:
		if !v.selected {
			return nil
		}
		return v.text
	case ValueItems:
		return v.Items()
	default:
		return nil
	}
}

// Equal reports structural equality; go-cmp picks it up automatically.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.text != other.text || v.selected != other.selected {
		return false
	}
	if len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for logs.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return fmt.Sprintf("%q", v.text)
	case ValueSelection:
		if !v.selected {
			return "<none>"
		}
		return fmt.Sprintf("%q", v.text)
	case ValueItems:
		return fmt.Sprintf("%q", v.items)
	default:
		return "<empty>"
	}
}
