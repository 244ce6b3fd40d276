package term

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/render"
	"github.com/goliatone/go-formfield/pkg/style"
)

// Option configures the terminal renderer.
type Option func(*Renderer)

// WithWidth sets the width of each field box. Zero lets boxes size to their
// content.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width >= 0 {
			r.width = width
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer draws a form snapshot as lipgloss-styled text: one bordered box
// per field, painted with the surface styles.
type Renderer struct {
	width  int
	logger *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "term"
}

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws the whole form.
func (r *Renderer) Render(ctx context.Context, snapshot render.Snapshot, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("term renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blocks []string
	if title := strings.TrimSpace(snapshot.Title); title != "" {
		blocks = append(blocks, lipgloss.NewStyle().Bold(true).Render(title))
	}
	if desc := plainText(snapshot.Description); desc != "" {
		blocks = append(blocks, lipgloss.NewStyle().Faint(true).Render(desc))
	}
	for _, message := range options.FormErrors {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			blocks = append(blocks, lipgloss.NewStyle().Bold(true).Render("! "+trimmed))
		}
	}
	for _, surface := range snapshot.Surfaces {
		if surface == nil {
			continue
		}
		blocks = append(blocks, r.RenderField(surface))
	}
	status := "Form is valid"
	if !snapshot.Valid {
		status = "Form has invalid fields"
	}
	blocks = append(blocks, lipgloss.NewStyle().Faint(true).Render(status))

	out := lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"
	r.logger.Debug("term form rendered",
		zap.String("form", snapshot.ID),
		zap.Int("fields", len(snapshot.Surfaces)),
	)
	return []byte(out), nil
}

// RenderField draws one surface inside its container box.
func (r *Renderer) RenderField(s *field.Surface) string {
	lines := []string{titleLine(s)}
	if desc := plainText(s.Description); desc != "" {
		lines = append(lines, s.Style(style.RoleSupporting).Lipgloss().Render(desc))
	}
	lines = append(lines, bodyLines(s)...)
	lines = append(lines, footerLines(s)...)

	box := s.Style(style.RoleContainer).Lipgloss().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if r.width > 0 {
		box = box.Width(r.width)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func titleLine(s *field.Surface) string {
	title := s.Title
	if title == "" {
		title = s.FieldID
	}
	if s.Required {
		title += " *"
	}
	line := s.Style(style.RoleTitle).Lipgloss().Render(title)
	if !s.Enabled {
		line += " (disabled)"
	}
	return line
}

func bodyLines(s *field.Surface) []string {
	input := s.Style(style.RoleInput).Lipgloss()
	switch s.Type {
	case field.TypeMultilineText:
		text := s.Text
		if text == "" {
			text = s.Hint
		}
		rows := strings.Split(text, "\n")
		for len(rows) < s.MinLines {
			rows = append(rows, "")
		}
		if s.MaxLines > 0 && len(rows) > s.MaxLines {
			rows = rows[len(rows)-s.MaxLines:]
		}
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, input.Render("| "+row))
		}
		return out
	case field.TypeSingleChoiceList:
		text := s.Text
		if text == "" {
			text = s.Hint
			if text == "" {
				text = "Select an option"
			}
		}
		return []string{input.Render("v " + text)}
	case field.TypeExclusiveChoiceSet, field.TypeMultiChoiceSet:
		marks := [2]string{"( )", "(*)"}
		if s.Type == field.TypeMultiChoiceSet {
			marks = [2]string{"[ ]", "[x]"}
		}
		parts := make([]string, 0, len(s.Choices))
		for _, c := range s.Choices {
			mark, role := marks[0], style.RoleOption
			if c.Selected {
				mark, role = marks[1], style.RoleOptionSelected
			}
			parts = append(parts, s.Style(role).Lipgloss().Render(mark+" "+c.Label))
		}
		if len(parts) == 0 {
			return []string{input.Faint(true).Render("(no options)")}
		}
		return []string{strings.Join(parts, "  ")}
	default:
		text := s.Text
		if text == "" && s.Hint != "" {
			return []string{input.Faint(true).Render("> " + s.Hint)}
		}
		return []string{input.Render("> " + text)}
	}
}

func footerLines(s *field.Surface) []string {
	if s.ErrorVisible() {
		return []string{s.Style(style.RoleError).Lipgloss().Render(s.ErrorText)}
	}
	var out []string
	if supporting := plainText(s.SupportingText); supporting != "" {
		out = append(out, s.Style(style.RoleSupporting).Lipgloss().Render(supporting))
	}
	if s.Counter != nil {
		out = append(out, s.Style(style.RoleCounter).Lipgloss().Render(s.Counter.Text))
	}
	return out
}

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// plainText drops any markup from description or supporting text.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(trimmed)))
}
