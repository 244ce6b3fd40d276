package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
)

// Extension keys read from OpenAPI schema properties.
const (
	ExtensionType     = "x-formfield-type"
	ExtensionHint     = "x-formfield-hint"
	ExtensionOrder    = "x-formfield-order"
	ExtensionDisabled = "x-formfield-disabled"
)

var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// LoadOpenAPI parses an OpenAPI 3 document and derives a definition from the
// request body of operationID. Operations without an id are addressed as
// "post:/path". Properties follow x-formfield-order when present, otherwise
// name order.
func (l *Loader) LoadOpenAPI(ctx context.Context, doc Document, operationID string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	loader := &openapi3.Loader{Context: ctx}
	api, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return Definition{}, fmt.Errorf("schema: load openapi %s: %w", doc.Location(), err)
	}
	if api.Paths == nil || api.Paths.Len() == 0 {
		return Definition{}, errors.New("schema: openapi document does not contain any paths")
	}

	method, path, op := findOperation(api, operationID)
	if op == nil {
		return Definition{}, fmt.Errorf("%w: operation %q", ErrFormNotFound, operationID)
	}

	body := requestSchema(op.RequestBody)
	if body == nil {
		return Definition{}, fmt.Errorf("schema: operation %q has no request body schema", operationID)
	}

	def := Definition{
		ID:          operationID,
		Title:       op.Summary,
		Description: op.Description,
		Source:      doc.Location(),
	}
	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}
	for _, name := range orderedProperties(body.Properties) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fd, err := l.propertyField(name, ref.Value, required[name])
		if err != nil {
			return Definition{}, fmt.Errorf("schema: operation %q: %w", operationID, err)
		}
		def.Fields = append(def.Fields, fd)
	}

	l.logger.Debug("schema openapi operation loaded",
		zap.String("operation", operationID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("fields", len(def.Fields)),
	)
	return def, nil
}

func findOperation(api *openapi3.T, operationID string) (string, string, *openapi3.Operation) {
	paths := api.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if id == operationID {
				return method, path, op
			}
		}
	}
	return "", "", nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (l *Loader) propertyField(name string, src *openapi3.Schema, required bool) (FieldDef, error) {
	prop := Property{
		Name:   name,
		Type:   firstSchemaType(src.Type),
		Format: src.Format,
		Widget: extensionString(src.Extensions, ExtensionType),
		Enum:   enumStrings(src.Enum),
	}
	if src.MaxLength != nil {
		prop.MaxLength = int(*src.MaxLength)
	}
	if prop.Type == "array" && src.Items != nil && src.Items.Value != nil {
		prop.Enum = enumStrings(src.Items.Value.Enum)
	}
	if prop.Type == "boolean" && len(prop.Enum) == 0 {
		prop.Enum = []string{"true", "false"}
	}

	fieldType, err := l.registry.Resolve(prop)
	if err != nil {
		return FieldDef{}, err
	}

	title := strings.TrimSpace(src.Title)
	if title == "" {
		title = humanize(name)
	}
	fd := FieldDef{
		ID: name,
		Config: field.Config{
			Type:        fieldType,
			Title:       title,
			Description: src.Description,
			Hint:        extensionString(src.Extensions, ExtensionHint),
			Required:    required,
			Options:     prop.Enum,
			MinLength:   int(src.MinLength),
			MaxLength:   prop.MaxLength,
		},
		Disabled: src.ReadOnly || extensionBool(src.Extensions, ExtensionDisabled),
	}
	if src.Default != nil {
		value, err := defaultValue(fieldType, src.Default)
		if err != nil {
			return FieldDef{}, fmt.Errorf("field %q default: %w", name, err)
		}
		fd.Default = value
	}
	return fd, nil
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) (int, bool) {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 0, false
		}
		switch v := ref.Value.Extensions[ExtensionOrder].(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		}
		return 0, false
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, hasI := order(names[i])
		oj, hasJ := order(names[j])
		switch {
		case hasI && hasJ && oi != oj:
			return oi < oj
		case hasI != hasJ:
			return hasI
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func extensionString(ext map[string]any, key string) string {
	if s, ok := ext[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func extensionBool(ext map[string]any, key string) bool {
	b, _ := ext[key].(bool)
	return b
}

func humanize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
