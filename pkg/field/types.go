package field

import (
	"fmt"
	"strings"
)

// Type is the closed set of field kinds a Field can render.
type Type string

const (
	TypeFreeText           Type = "free_text"
	TypeMultilineText      Type = "multiline_text"
	TypeSingleChoiceList   Type = "single_choice_list"
	TypeExclusiveChoiceSet Type = "exclusive_choice_set"
	TypeMultiChoiceSet     Type = "multi_choice_set"
)

// Types lists every supported kind.
func Types() []Type {
	return []Type{
		TypeFreeText,
		TypeMultilineText,
		TypeSingleChoiceList,
		TypeExclusiveChoiceSet,
		TypeMultiChoiceSet,
	}
}

// Valid reports whether t is one of the supported kinds.
func (t Type) Valid() bool {
	_, ok := kinds[t]
	return ok
}

// IsChoice reports whether t is backed by an options list.
func (t Type) IsChoice() bool {
	switch t {
	case TypeSingleChoiceList, TypeExclusiveChoiceSet, TypeMultiChoiceSet:
		return true
	default:
		return false
	}
}

// IsText reports whether t holds free-form text.
func (t Type) IsText() bool {
	return t == TypeFreeText || t == TypeMultilineText
}

var typeAliases = map[string]Type{
	"text":         TypeFreeText,
	"input":        TypeFreeText,
	"textarea":     TypeMultilineText,
	"multiline":    TypeMultilineText,
	"select":       TypeSingleChoiceList,
	"dropdown":     TypeSingleChoiceList,
	"list":         TypeSingleChoiceList,
	"radio":        TypeExclusiveChoiceSet,
	"chips":        TypeExclusiveChoiceSet,
	"checkbox":     TypeMultiChoiceSet,
	"multiselect":  TypeMultiChoiceSet,
	"multi_select": TypeMultiChoiceSet,
}

// ParseType resolves a canonical name ("free_text") or a common alias
// ("textarea", "radio", "checkbox") into a Type.
func ParseType(raw string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	if key == "" {
		return "", fmt.Errorf("field: type is required")
	}
	if t := Type(key); t.Valid() {
		return t, nil
	}
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("field: unknown type %q", raw)
}

// Config describes one field's kind and constraints. It is a value object:
// Configure copies it, and Field.Config returns a copy.
type Config struct {
	Type           Type     `json:"type" yaml:"type"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Hint           string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	Required       bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options        []string `json:"options,omitempty" yaml:"options,omitempty"`
	MinLines       int      `json:"minLines,omitempty" yaml:"minLines,omitempty"`
	MaxLines       int      `json:"maxLines,omitempty" yaml:"maxLines,omitempty"`
	MinLength      int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength      int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	SupportingText string   `json:"supportingText,omitempty" yaml:"supportingText,omitempty"`
}

// HasCounter reports whether the live character counter is enabled.
func (c Config) HasCounter() bool {
	return c.MaxLength > 0
}

func (c Config) clone() Config {
	out := c
	if c.Options != nil {
		out.Options = append([]string(nil), c.Options...)
	}
	return out
}

func (c Config) indexOf(option string) int {
	for i, candidate := range c.Options {
		if candidate == option {
			return i
		}
	}
	return -1
}
