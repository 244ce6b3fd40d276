package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/prompt"
	"github.com/goliatone/go-formfield/pkg/render"
	"github.com/goliatone/go-formfield/pkg/render/html"
	"github.com/goliatone/go-formfield/pkg/render/term"
	"github.com/goliatone/go-formfield/pkg/schema"
	"github.com/goliatone/go-formfield/pkg/style"
)

const defaultRendererName = "html"

// ErrFormRequired is returned when a request omits the form id and the
// loaded source holds more than one form.
var ErrFormRequired = errors.New("orchestrator: form id is required")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom definition loader.
func WithLoader(loader *schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSession injects the prompt session used for interactive requests.
func WithSession(session *prompt.Session) Option {
	return func(o *Orchestrator) {
		o.session = session
	}
}

// WithStyleResolver sets the resolver handed to every built form.
func WithStyleResolver(resolver style.Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = resolver
	}
}

// WithLogger sets the logger shared with the default collaborators.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Request selects a form, optionally fills it interactively, and names the
// renderer for the output.
type Request struct {
	// Document is an already loaded definition or OpenAPI payload. When nil
	// the orchestrator reads Path (from FS when set, disk otherwise) and
	// falls back to the embedded definitions.
	Document *schema.Document
	Path     string
	FS       fs.FS
	// OpenAPI treats the source as an OpenAPI document and FormID as an
	// operation id.
	OpenAPI bool
	FormID  string

	Container   form.Container
	Interactive bool
	// Errors is a server error payload routed onto fields before rendering.
	Errors map[string][]string

	Renderer      string
	SkipRender    bool
	RenderOptions render.Options
}

// Result carries the built form alongside its rendered output.
type Result struct {
	Definition  schema.Definition
	Builder     *form.Builder
	Valid       bool
	Data        map[string]any
	FormErrors  []string
	Output      []byte
	ContentType string
}

// Orchestrator coordinates the full pipeline from definition to rendered
// output. It applies defaults (embedded definitions, HTML and terminal
// renderers) while remaining open to dependency injection.
type Orchestrator struct {
	loader          *schema.Loader
	registry        *render.Registry
	defaultRenderer string
	session         *prompt.Session
	resolver        style.Resolver
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Registry exposes the renderer registry so callers can add renderers.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Generate loads the requested form, builds it, applies interaction and
// server errors, and renders the result.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, err := o.resolveDefinition(ctx, req)
	if err != nil {
		return nil, err
	}

	builder := def.Build(req.Container,
		form.WithLogger(o.logger),
		form.WithStyleResolver(o.resolver),
	)
	o.logger.Debug("form built",
		zap.String("form", def.ID),
		zap.String("source", def.Source),
		zap.Int("fields", builder.Len()),
	)

	if req.Interactive {
		session := o.session
		if session == nil {
			session = prompt.NewSession(prompt.WithLogger(o.logger))
		}
		if err := session.Fill(ctx, builder); err != nil {
			return nil, fmt.Errorf("orchestrator: fill form %q: %w", def.ID, err)
		}
	}

	result := &Result{
		Definition: def,
		Builder:    builder,
		FormErrors: builder.ApplyErrors(req.Errors),
	}
	result.Valid = builder.ValidateForm()
	result.Data = builder.FormData()

	if req.SkipRender {
		return result, nil
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	snapshot := render.SnapshotOf(builder, def.ID, def.Title)
	snapshot.Description = def.Description

	options := req.RenderOptions
	options.FormErrors = append(append([]string(nil), options.FormErrors...), result.FormErrors...)

	output, err := renderer.Render(ctx, snapshot, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	result.Output = output
	result.ContentType = renderer.ContentType()
	return result, nil
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (schema.Definition, error) {
	if req.OpenAPI {
		doc, err := o.resolveDocument(req)
		if err != nil {
			return schema.Definition{}, err
		}
		if doc == nil {
			return schema.Definition{}, errors.New("orchestrator: openapi requests need a document or path")
		}
		def, err := o.loader.LoadOpenAPI(ctx, *doc, req.FormID)
		if err != nil {
			return schema.Definition{}, fmt.Errorf("orchestrator: load operation: %w", err)
		}
		return def, nil
	}

	set, err := o.resolveSet(req)
	if err != nil {
		return schema.Definition{}, err
	}

	id := req.FormID
	if id == "" {
		ids := set.IDs()
		if len(ids) != 1 {
			return schema.Definition{}, fmt.Errorf("%w: available %v", ErrFormRequired, ids)
		}
		id = ids[0]
	}
	def, ok := set.Form(id)
	if !ok {
		return schema.Definition{}, fmt.Errorf("orchestrator: form %q: %w", id, schema.ErrFormNotFound)
	}
	return def, nil
}

func (o *Orchestrator) resolveSet(req Request) (*schema.Set, error) {
	doc, err := o.resolveDocument(req)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		set, err := o.loader.Parse(*doc)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: parse definitions: %w", err)
		}
		return set, nil
	}

	fsys := req.FS
	if fsys == nil {
		fsys = schema.EmbeddedFS()
	}
	set, err := o.loader.LoadFS(fsys)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load definitions: %w", err)
	}
	return set, nil
}

// resolveDocument returns nil when the request names neither a document nor
// a path.
func (o *Orchestrator) resolveDocument(req Request) (*schema.Document, error) {
	if req.Document != nil {
		return req.Document, nil
	}
	if req.Path == "" {
		return nil, nil
	}

	var (
		data []byte
		src  schema.Source
		err  error
	)
	if req.FS != nil {
		data, err = fs.ReadFile(req.FS, req.Path)
		src = schema.SourceFromFS(req.Path)
	} else {
		data, err = os.ReadFile(req.Path)
		src = schema.SourceFromFile(req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read %s: %w", req.Path, err)
	}
	doc, err := schema.NewDocument(src, data)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %s: %w", req.Path, err)
	}
	return &doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = schema.NewLoader(schema.WithLogger(o.logger))
	}
	if o.resolver == nil {
		o.resolver = style.Default()
	}
	if o.registry != nil {
		return
	}

	o.registry = render.NewRegistry()
	htmlRenderer, err := html.New(html.WithLogger(o.logger))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	o.registry.MustRegister(htmlRenderer)
	o.registry.MustRegister(term.New(term.WithLogger(o.logger)))
}
