package schema

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formfield/pkg/field"
)

// Property is the loader-neutral description of one input: a definition
// entry or an OpenAPI schema property.
type Property struct {
	Name      string
	Type      string // "string", "array", ...
	Format    string
	Widget    string // explicit hint, e.g. "radio" or "textarea"
	Enum      []string
	MaxLength int
}

// Matcher decides whether a field type should handle the supplied property.
type Matcher func(prop Property) bool

type rule struct {
	fieldType field.Type
	priority  int
	match     Matcher
	order     int
}

// InlineChoiceLimit is the largest enum rendered as an exclusive choice set
// by the built-in matchers; longer enums become a single-choice list.
const InlineChoiceLimit = 3

// LongTextThreshold is the maxLength from which string properties become
// multiline text.
const LongTextThreshold = 256

// Registry selects a field type for each property. Explicit widget hints win;
// otherwise higher priority matchers are tried first and ties fall back to
// registration order. Unmatched properties resolve to free text.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for fieldType with the given priority.
func (r *Registry) Register(fieldType field.Type, priority int, matcher Matcher) {
	if r == nil || matcher == nil || !fieldType.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		fieldType: fieldType,
		priority:  priority,
		match:     matcher,
		order:     len(r.rules),
	})
}

// Resolve returns the field type for prop. An explicit widget hint that does
// not name a known type is reported as ErrUnknownType.
func (r *Registry) Resolve(prop Property) (field.Type, error) {
	if hint := strings.TrimSpace(prop.Widget); hint != "" {
		t, err := field.ParseType(hint)
		if err != nil {
			return "", unknownType(prop.Name, hint)
		}
		return t, nil
	}
	if r == nil {
		return field.TypeFreeText, nil
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(prop) {
			return entry.fieldType, nil
		}
	}
	return field.TypeFreeText, nil
}

func (r *Registry) registerBuiltins() {
	r.Register(field.TypeMultiChoiceSet, 90, func(prop Property) bool {
		return prop.Type == "array" && len(prop.Enum) > 0
	})

	r.Register(field.TypeExclusiveChoiceSet, 80, func(prop Property) bool {
		return prop.Type != "array" && len(prop.Enum) > 0 && len(prop.Enum) <= InlineChoiceLimit
	})

	r.Register(field.TypeSingleChoiceList, 70, func(prop Property) bool {
		return prop.Type != "array" && len(prop.Enum) > 0
	})

	r.Register(field.TypeMultilineText, 60, func(prop Property) bool {
		if prop.Type != "" && prop.Type != "string" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(prop.Format)) {
		case "textarea", "markdown", "multiline":
			return true
		}
		return prop.MaxLength >= LongTextThreshold
	})
}
