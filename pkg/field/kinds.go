package field

import "strings"

// kind bundles the per-type strategy: how the surface is rendered, how the
// value is read and written, and how validity is decided.
type kind struct {
	render   func(f *Field, s *Surface)
	value    func(f *Field) Value
	setValue func(f *Field, v Value)
	valid    func(f *Field) bool
}

var kinds map[Type]kind

func init() {
	text := kind{
		render:   renderText,
		value:    func(f *Field) Value { return TextValue(f.text) },
		setValue: setText,
		valid:    func(f *Field) bool { return strings.TrimSpace(f.text) != "" },
	}
	multiline := text
	multiline.render = renderMultiline

	single := kind{
		render:   renderList,
		value:    selectionValue,
		setValue: setSelection,
		valid:    func(f *Field) bool { return f.selected >= 0 },
	}
	exclusive := single
	exclusive.render = renderChoices

	kinds = map[Type]kind{
		TypeFreeText:           text,
		TypeMultilineText:      multiline,
		TypeSingleChoiceList:   single,
		TypeExclusiveChoiceSet: exclusive,
		TypeMultiChoiceSet: {
			render:   renderChoices,
			value:    itemsValue,
			setValue: setItems,
			valid: func(f *Field) bool {
				for _, on := range f.checked {
					if on {
						return true
					}
				}
				return false
			},
		},
	}
}

func kindFor(t Type) kind {
	if k, ok := kinds[t]; ok {
		return k
	}
	return kinds[TypeFreeText]
}

func renderText(f *Field, s *Surface) {
	s.Text = f.text
}

func renderMultiline(f *Field, s *Surface) {
	s.Text = f.text
	s.Multiline = true
	s.MinLines, s.MaxLines = lineBounds(f.config.MinLines, f.config.MaxLines)
}

func lineBounds(minLines, maxLines int) (int, int) {
	if minLines < 1 {
		minLines = 1
	}
	if maxLines > 0 && maxLines < minLines {
		maxLines = minLines
	}
	return minLines, maxLines
}

func renderList(f *Field, s *Surface) {
	s.Text = ""
	if f.selected >= 0 {
		s.Text = f.config.Options[f.selected]
	}
	renderChoices(f, s)
}

func renderChoices(f *Field, s *Surface) {
	if len(s.Choices) != len(f.config.Options) {
		s.Choices = make([]*Choice, len(f.config.Options))
		for i, label := range f.config.Options {
			s.Choices[i] = &Choice{Label: label, Enabled: f.enabled}
		}
	}
	for i, c := range s.Choices {
		switch f.config.Type {
		case TypeMultiChoiceSet:
			c.Selected = i < len(f.checked) && f.checked[i]
		default:
			c.Selected = i == f.selected
		}
	}
}

func setText(f *Field, v Value) {
	switch v.Kind() {
	case ValueItems:
		f.text = strings.Join(v.items, ", ")
	default:
		f.text = v.text
	}
}

func selectionValue(f *Field) Value {
	if f.selected < 0 {
		return NoSelection()
	}
	return SelectionValue(f.config.Options[f.selected])
}

func setSelection(f *Field, v Value) {
	f.selected = -1
	switch v.Kind() {
	case ValueSelection:
		if option, ok := v.Selection(); ok {
			f.selected = f.config.indexOf(option)
		}
	case ValueText:
		if v.text != "" {
			f.selected = f.config.indexOf(v.text)
		}
	case ValueItems:
		if len(v.items) > 0 {
			f.selected = f.config.indexOf(v.items[0])
		}
	}
}

func itemsValue(f *Field) Value {
	items := make([]string, 0, len(f.checked))
	for i, on := range f.checked {
		if on {
			items = append(items, f.config.Options[i])
		}
	}
	return ItemsValue(items...)
}

func setItems(f *Field, v Value) {
	f.checked = make([]bool, len(f.config.Options))
	var wanted []string
	switch v.Kind() {
	case ValueItems:
		wanted = v.items
	case ValueText, ValueSelection:
		if v.text != "" {
			wanted = []string{v.text}
		}
	}
	for _, item := range wanted {
		if idx := f.config.indexOf(item); idx >= 0 {
			f.checked[idx] = true
		}
	}
}
