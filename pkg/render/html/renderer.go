package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/render"
	rendertemplate "github.com/goliatone/go-formfield/pkg/render/template"
	"github.com/goliatone/go-formfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formfield/pkg/style"
)

const formTemplate = "templates/form.tmpl"

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logger           *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The
// bundle must provide templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer turns a form snapshot into an HTML form element. Description and
// supporting text may carry inline markup, which is sanitised; everything
// else is escaped by the template engine.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	logger    *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, logger: cfg.logger}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the form template against the snapshot.
func (r *Renderer) Render(ctx context.Context, snapshot render.Snapshot, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	fields := make([]any, 0, len(snapshot.Surfaces))
	for _, surface := range snapshot.Surfaces {
		if surface == nil {
			continue
		}
		fields = append(fields, fieldView(surface))
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form":   formView(snapshot, options),
		"fields": fields,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	r.logger.Debug("html form rendered",
		zap.String("form", snapshot.ID),
		zap.Int("fields", len(fields)),
		zap.Int("bytes", len(result)),
	)
	return []byte(result), nil
}

func formView(snapshot render.Snapshot, options render.Options) map[string]any {
	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}
	errs := make([]any, 0, len(options.FormErrors))
	for _, message := range options.FormErrors {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			errs = append(errs, trimmed)
		}
	}
	return map[string]any{
		"dom_id":           domID("form", snapshot.ID),
		"title":            snapshot.Title,
		"description_html": sanitizeInline(snapshot.Description),
		"method":           method,
		"action":           strings.TrimSpace(options.Action),
		"valid":            snapshot.Valid,
		"errors":           errs,
		"submit_label":     strings.TrimSpace(options.SubmitLabel),
	}
}

// fieldView flattens a surface for the template. Numbers are pre-formatted
// because the engine round-trips data through JSON.
func fieldView(s *field.Surface) map[string]any {
	id := domID("field", s.FieldID)
	view := map[string]any{
		"id":               s.FieldID,
		"dom_id":           id,
		"mount":            s.MountID,
		"type":             string(s.Type),
		"state":            string(s.State),
		"variant":          string(s.Variant),
		"title":            s.Title,
		"description_html": sanitizeInline(s.Description),
		"hint":             s.Hint,
		"required":         s.Required,
		"text":             s.Text,
		"disabled":         !s.Enabled,
		"invalid":          s.State == field.StateInvalid || s.ErrorVisible(),
		"rows":             strconv.Itoa(s.MinLines),
		"max_lines":        strconv.Itoa(s.MaxLines),
		"choice_group":     s.Type == field.TypeExclusiveChoiceSet || s.Type == field.TypeMultiChoiceSet,
		"choice_input":     "radio",
		"style":            styleView(s),
		"footer":           footerView(s),
	}
	if s.Type == field.TypeMultiChoiceSet {
		view["choice_input"] = "checkbox"
	}
	if s.Counter != nil {
		view["counter_max"] = strconv.Itoa(s.Counter.Max)
	}

	choices := make([]any, 0, len(s.Choices))
	for i, c := range s.Choices {
		role := style.RoleOption
		if c.Selected {
			role = style.RoleOptionSelected
		}
		choices = append(choices, map[string]any{
			"label":    c.Label,
			"dom_id":   fmt.Sprintf("%s-%d", id, i),
			"selected": c.Selected,
			"disabled": !c.Enabled,
			"style":    s.Style(role).CSS(),
		})
	}
	view["choices"] = choices
	return view
}

func styleView(s *field.Surface) map[string]any {
	out := make(map[string]any, len(style.Roles()))
	for _, role := range style.Roles() {
		if css := s.Style(role).CSS(); css != "" {
			out[strings.ReplaceAll(string(role), ".", "_")] = css
		}
	}
	return out
}

// footerView mirrors Surface.Footer, tagging each line with its role so the
// template can class and style it.
func footerView(s *field.Surface) []any {
	if s.ErrorVisible() {
		return []any{map[string]any{
			"kind":  "error",
			"text":  s.ErrorText,
			"style": s.Style(style.RoleError).CSS(),
		}}
	}
	var out []any
	if supporting := sanitizeInline(s.SupportingText); supporting != "" {
		out = append(out, map[string]any{
			"kind":  "supporting",
			"html":  supporting,
			"style": s.Style(style.RoleSupporting).CSS(),
		})
	}
	if s.Counter != nil {
		out = append(out, map[string]any{
			"kind":  "counter",
			"text":  s.Counter.Text,
			"style": s.Style(style.RoleCounter).CSS(),
		})
	}
	return out
}

func domID(prefix, id string) string {
	var b strings.Builder
	b.WriteString("ff-")
	b.WriteString(prefix)
	b.WriteByte('-')
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
