package field

import "github.com/goliatone/go-formfield/pkg/style"

// State is the visual state of a field.
type State string

const (
	StateClean    State = "clean"
	StateValid    State = "valid"
	StateInvalid  State = "invalid"
	StateErrored  State = "errored"
	StateDisabled State = "disabled"
)

// Variant maps the state onto the style variant it is painted with.
func (s State) Variant() style.Variant {
	switch s {
	case StateErrored:
		return style.VariantErrored
	case StateDisabled:
		return style.VariantDisabled
	default:
		return style.VariantDefault
	}
}

// Counter is the live character counter. A Field only allocates a new
// Counter when the displayed length changes, so callers may compare pointers.
type Counter struct {
	Length int    `json:"length"`
	Max    int    `json:"max"`
	Text   string `json:"text"`
}

// Choice is one entry of a choice surface.
type Choice struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	Enabled  bool   `json:"enabled"`
}

// Surface is the renderable subtree a Field produces. The hosting container
// decides where it is inserted; the field updates it in place while mounted.
type Surface struct {
	MountID     string `json:"mountId"`
	FieldID     string `json:"fieldId"`
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Hint        string `json:"hint,omitempty"`
	Required    bool   `json:"required"`

	// Text holds the edited text, or the selected label of a list field.
	Text      string `json:"text,omitempty"`
	MinLines  int    `json:"minLines,omitempty"`
	MaxLines  int    `json:"maxLines,omitempty"`
	Multiline bool   `json:"multiline,omitempty"`

	Choices []*Choice `json:"choices,omitempty"`

	SupportingText string   `json:"supportingText,omitempty"`
	Counter        *Counter `json:"counter,omitempty"`
	ErrorText      string   `json:"errorText,omitempty"`

	Enabled bool                       `json:"enabled"`
	State   State                      `json:"state"`
	Variant style.Variant              `json:"variant"`
	Styles  map[style.Role]style.Style `json:"styles,omitempty"`
}

// ErrorVisible reports whether the error text replaces the footer.
func (s *Surface) ErrorVisible() bool {
	return s != nil && s.Variant == style.VariantErrored && s.ErrorText != ""
}

// Footer returns the footer lines currently displayed: the error alone while
// errored, otherwise supporting text followed by the counter.
func (s *Surface) Footer() []string {
	if s == nil {
		return nil
	}
	if s.ErrorVisible() {
		return []string{s.ErrorText}
	}
	var out []string
	if s.SupportingText != "" {
		out = append(out, s.SupportingText)
	}
	if s.Counter != nil {
		out = append(out, s.Counter.Text)
	}
	return out
}

// Style returns the resolved style for role, or the zero Style.
func (s *Surface) Style(role style.Role) style.Style {
	if s == nil || s.Styles == nil {
		return style.Style{}
	}
	return s.Styles[role]
}

// SelectedLabels returns the labels of selected choices in options order.
func (s *Surface) SelectedLabels() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, c := range s.Choices {
		if c.Selected {
			out = append(out, c.Label)
		}
	}
	return out
}
