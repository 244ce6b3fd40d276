package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
)

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver used by the session.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxAttempts bounds how often an invalid required field is prompted.
// Zero keeps prompting until the field is valid.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// Session fills fields by driving their interaction methods with terminal
// answers, so delegates observe exactly what a user tap or keystroke would
// produce.
type Session struct {
	driver      Driver
	logger      *zap.Logger
	maxAttempts int
}

// NewSession returns a session prompting on the process terminal unless a
// driver is supplied.
func NewSession(options ...Option) *Session {
	s := &Session{
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Fill prompts every field of b in insertion order.
func (s *Session) Fill(ctx context.Context, b *form.Builder) error {
	if b == nil {
		return errors.New("prompt: builder is nil")
	}
	for _, id := range b.IDs() {
		f, ok := b.Field(id)
		if !ok {
			continue
		}
		if err := s.FillField(ctx, f); err != nil {
			return fmt.Errorf("prompt: field %q: %w", id, err)
		}
	}
	return nil
}

// FillField prompts for one field, re-asking while a required field stays
// invalid. Disabled fields and choice fields without options are skipped.
func (s *Session) FillField(ctx context.Context, f *field.Field) error {
	if ctx == nil {
		return errors.New("prompt: context is required")
	}
	if s.driver == nil {
		return ErrNoDriver
	}
	if f == nil || f.Surface() == nil || !f.Enabled() {
		return nil
	}

	cfg := f.Config()
	label := displayLabel(f.ID(), cfg)
	if cfg.Type.IsChoice() && len(cfg.Options) == 0 {
		return s.driver.Info(ctx, fmt.Sprintf("%s: no options available", label))
	}
	if msg := f.ErrorText(); msg != "" {
		if err := s.driver.Info(ctx, fmt.Sprintf("%s: %s", label, msg)); err != nil {
			return err
		}
	}

	for attempt := 1; ; attempt++ {
		if err := s.ask(ctx, f, cfg, label); err != nil {
			return err
		}
		s.logger.Debug("prompt answered",
			zap.String("field", f.ID()),
			zap.Int("attempt", attempt),
			zap.Bool("valid", f.IsValid()),
		)
		if f.IsValid() {
			return nil
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return ErrStillInvalid
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("%s is required", strings.TrimSuffix(label, " *"))); err != nil {
			return err
		}
	}
}

// Picker exposes the driver's select prompt as a field.Picker.
func (s *Session) Picker() field.Picker {
	return field.PickerFunc(func(ctx context.Context, title string, options []string, current int) (int, error) {
		return s.driver.Select(ctx, SelectConfig{
			Message:      title,
			Options:      options,
			DefaultIndex: current,
		})
	})
}

func (s *Session) ask(ctx context.Context, f *field.Field, cfg field.Config, label string) error {
	help := displayHelp(cfg)
	switch cfg.Type {
	case field.TypeMultilineText:
		resp, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: f.Value().Text(),
			Help:    help,
		})
		if err != nil {
			return err
		}
		f.Edit(resp)
	case field.TypeSingleChoiceList:
		return f.OpenPicker(ctx, s.Picker())
	case field.TypeExclusiveChoiceSet:
		current, _ := f.Value().Selection()
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      cfg.Options,
			DefaultIndex: indexOf(cfg.Options, current),
			Help:         help,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(cfg.Options) {
			f.Choose(cfg.Options[idx])
		}
	case field.TypeMultiChoiceSet:
		current := f.Value().Items()
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  cfg.Options,
			Defaults: indicesOf(cfg.Options, current),
			Help:     help,
		})
		if err != nil {
			return err
		}
		applySelection(f, cfg.Options, current, indices)
	default:
		resp, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: f.Value().Text(),
			Help:    help,
		})
		if err != nil {
			return err
		}
		f.Edit(resp)
	}
	return nil
}

// applySelection toggles only the options whose state differs, so each
// change reaches the delegate as its own interaction.
func applySelection(f *field.Field, options, current []string, indices []int) {
	have := make(map[string]bool, len(current))
	for _, item := range current {
		have[item] = true
	}
	want := make(map[string]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			want[options[idx]] = true
		}
	}
	for _, option := range options {
		if have[option] != want[option] {
			f.Toggle(option)
		}
	}
}

func displayLabel(id string, cfg field.Config) string {
	label := strings.TrimSpace(cfg.Title)
	if label == "" {
		label = id
	}
	if cfg.Required {
		label += " *"
	}
	return label
}

func displayHelp(cfg field.Config) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{cfg.Description, cfg.Hint} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
