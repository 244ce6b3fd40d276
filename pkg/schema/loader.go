package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfield/pkg/field"
)

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry overrides the registry used to infer field types.
func WithRegistry(registry *Registry) Option {
	return func(l *Loader) {
		if registry != nil {
			l.registry = registry
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader parses YAML or JSON form definition files.
type Loader struct {
	registry *Registry
	logger   *zap.Logger
}

// NewLoader returns a loader using the built-in registry.
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		registry: NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	ID             string   `json:"id" yaml:"id"`
	Type           string   `json:"type" yaml:"type"`
	Format         string   `json:"format" yaml:"format"`
	Multiple       bool     `json:"multiple" yaml:"multiple"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Hint           string   `json:"hint" yaml:"hint"`
	Required       bool     `json:"required" yaml:"required"`
	Options        []string `json:"options" yaml:"options"`
	MinLines       int      `json:"minLines" yaml:"minLines"`
	MaxLines       int      `json:"maxLines" yaml:"maxLines"`
	MinLength      int      `json:"minLength" yaml:"minLength"`
	MaxLength      int      `json:"maxLength" yaml:"maxLength"`
	SupportingText string   `json:"supportingText" yaml:"supportingText"`
	Default        any      `json:"default" yaml:"default"`
	Disabled       bool     `json:"disabled" yaml:"disabled"`
	Error          string   `json:"error" yaml:"error"`
}

// Parse decodes one document into a set of definitions.
func (l *Loader) Parse(doc Document) (*Set, error) {
	set := NewSet()
	if err := l.parseInto(set, doc); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadFile reads and parses the definition file at path.
func (l *Loader) LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	doc, err := NewDocument(SourceFromFile(path), data)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return l.Parse(doc)
}

// LoadFS walks fsys and parses every JSON/YAML file into one set. Form ids
// must be unique across files.
func (l *Loader) LoadFS(fsys fs.FS) (*Set, error) {
	set := NewSet()
	if fsys == nil {
		return set, nil
	}
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		doc, err := NewDocument(SourceFromFS(path), data)
		if err != nil {
			return fmt.Errorf("schema: %s: %w", path, err)
		}
		return l.parseInto(set, doc)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (l *Loader) parseInto(set *Set, doc Document) error {
	location := doc.Location()
	file, err := decodeDocument(doc.Raw(), location)
	if err != nil {
		return err
	}
	for rawID, raw := range file.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("schema: file %s defines an empty form id", location)
		}
		if _, exists := set.forms[id]; exists {
			return fmt.Errorf("schema: duplicate form %q (file %s)", id, location)
		}
		def, err := l.normaliseForm(raw, id, location)
		if err != nil {
			return err
		}
		set.forms[id] = def
		l.logger.Debug("schema form loaded",
			zap.String("form", id),
			zap.String("source", location),
			zap.Int("fields", len(def.Fields)),
		)
	}
	return nil
}

func decodeDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	return doc, nil
}

func (l *Loader) normaliseForm(raw formFile, id, source string) (Definition, error) {
	def := Definition{
		ID:          id,
		Title:       raw.Title,
		Description: raw.Description,
		Source:      source,
		Fields:      make([]FieldDef, 0, len(raw.Fields)),
	}
	seen := make(map[string]struct{}, len(raw.Fields))
	for idx, entry := range raw.Fields {
		fieldID := strings.TrimSpace(entry.ID)
		if fieldID == "" {
			return Definition{}, fmt.Errorf("schema: form %q field #%d has no id (file %s)", id, idx, source)
		}
		if _, dup := seen[fieldID]; dup {
			return Definition{}, fmt.Errorf("schema: form %q repeats field %q (file %s)", id, fieldID, source)
		}
		seen[fieldID] = struct{}{}

		fd, err := l.normaliseField(entry, fieldID)
		if err != nil {
			return Definition{}, fmt.Errorf("schema: form %q (file %s): %w", id, source, err)
		}
		def.Fields = append(def.Fields, fd)
	}
	return def, nil
}

func (l *Loader) normaliseField(entry fieldFile, id string) (FieldDef, error) {
	prop := Property{
		Name:      id,
		Type:      "string",
		Format:    entry.Format,
		Widget:    entry.Type,
		Enum:      entry.Options,
		MaxLength: entry.MaxLength,
	}
	if entry.Multiple {
		prop.Type = "array"
	}
	fieldType, err := l.registry.Resolve(prop)
	if err != nil {
		return FieldDef{}, err
	}

	fd := FieldDef{
		ID: id,
		Config: field.Config{
			Type:           fieldType,
			Title:          entry.Title,
			Description:    entry.Description,
			Hint:           entry.Hint,
			Required:       entry.Required,
			Options:        append([]string(nil), entry.Options...),
			MinLines:       entry.MinLines,
			MaxLines:       entry.MaxLines,
			MinLength:      entry.MinLength,
			MaxLength:      entry.MaxLength,
			SupportingText: entry.SupportingText,
		},
		Disabled: entry.Disabled,
		Error:    strings.TrimSpace(entry.Error),
	}
	if entry.Default != nil {
		value, err := defaultValue(fieldType, entry.Default)
		if err != nil {
			return FieldDef{}, fmt.Errorf("field %q default: %w", id, err)
		}
		fd.Default = value
	}
	return fd, nil
}

// defaultValue converts a decoded default into the value shape of t. Scalars
// other than strings are stringified.
func defaultValue(t field.Type, raw any) (field.Value, error) {
	switch v := raw.(type) {
	case bool, int, int64, float64, uint64:
		raw = fmt.Sprint(v)
	}
	value, err := field.ValueOf(raw)
	if err != nil {
		return field.Value{}, err
	}
	switch t {
	case field.TypeSingleChoiceList, field.TypeExclusiveChoiceSet:
		if value.Kind() == field.ValueText {
			return field.SelectionValue(value.Text()), nil
		}
	case field.TypeMultiChoiceSet:
		if value.Kind() == field.ValueText {
			return field.ItemsValue(value.Text()), nil
		}
	}
	return value, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
