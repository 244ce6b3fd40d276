package style

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Token names read from a theme manifest.
const (
	TokenText            = "field.text"
	TokenTextMuted       = "field.text.muted"
	TokenSurface         = "field.surface"
	TokenBorder          = "field.border"
	TokenAccent          = "field.accent"
	TokenError           = "field.error"
	TokenDisabled        = "field.disabled"
	TokenDisabledSurface = "field.disabled.surface"
)

var defaultTokens = map[string]string{
	TokenText:            "#1F2328",
	TokenTextMuted:       "#59636E",
	TokenSurface:         "#FFFFFF",
	TokenBorder:          "#D1D9E0",
	TokenAccent:          "#0969DA",
	TokenError:           "#CF222E",
	TokenDisabled:        "#818B98",
	TokenDisabledSurface: "#F6F8FA",
}

// ThemeResolver resolves role styles from a flat token map.
type ThemeResolver struct {
	name    string
	variant string
	tokens  map[string]string
}

// Default returns a resolver backed by the built-in token set.
func Default() *ThemeResolver {
	return &ThemeResolver{name: "default", tokens: copyTokens(defaultTokens)}
}

// NewResolver builds a resolver from a go-theme selection. Manifest tokens
// override the defaults and the selected variant's tokens override both.
func NewResolver(selection *theme.Selection) *ThemeResolver {
	r := Default()
	if selection == nil {
		return r
	}
	r.name = selection.Theme
	r.variant = selection.Variant
	if selection.Manifest == nil {
		return r
	}
	mergeTokens(r.tokens, selection.Manifest.Tokens)
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		mergeTokens(r.tokens, variant.Tokens)
	}
	return r
}

// FromSelector asks selector for the named theme/variant and wraps the result.
func FromSelector(selector theme.ThemeSelector, name, variant string) (*ThemeResolver, error) {
	if selector == nil {
		return nil, errors.New("style: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("style: select theme %q/%q: %w", name, variant, err)
	}
	return NewResolver(selection), nil
}

// FromManifest selects variant from a manifest without a registry.
func FromManifest(manifest *theme.Manifest, variant string) *ThemeResolver {
	if manifest == nil {
		return Default()
	}
	return NewResolver(&theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	})
}

type manifestFile struct {
	Name     string                       `yaml:"name" json:"name"`
	Version  string                       `yaml:"version" json:"version"`
	Tokens   map[string]string            `yaml:"tokens" json:"tokens"`
	Variants map[string]map[string]string `yaml:"variants" json:"variants"`
}

// ParseManifest decodes a YAML (or JSON) token manifest of the form
//
//	name: acme
//	tokens: {field.accent: "#123456"}
//	variants: {dark: {field.surface: "#000000"}}
func ParseManifest(data []byte) (*theme.Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("style: manifest is empty")
	}
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("style: decode manifest: %w", err)
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, errors.New("style: manifest name is required")
	}
	manifest := &theme.Manifest{
		Name:    name,
		Version: raw.Version,
		Tokens:  copyTokens(raw.Tokens),
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(raw.Variants))
		for key, tokens := range raw.Variants {
			manifest.Variants[key] = theme.Variant{Tokens: copyTokens(tokens)}
		}
	}
	return manifest, nil
}

// Name reports the theme name the resolver was built from.
func (r *ThemeResolver) Name() string {
	return r.name
}

// Token returns a resolved token value.
func (r *ThemeResolver) Token(name string) string {
	return r.tokens[name]
}

// Resolve implements Resolver.
func (r *ThemeResolver) Resolve(role Role, variant Variant) Style {
	t := r.tokens
	disabled := variant == VariantDisabled
	errored := variant == VariantErrored

	fg := t[TokenText]
	if disabled {
		fg = t[TokenDisabled]
	}

	switch role {
	case RoleContainer:
		s := Style{Background: t[TokenSurface], Border: t[TokenBorder]}
		if errored {
			s.Border = t[TokenError]
		}
		if disabled {
			s.Background = t[TokenDisabledSurface]
			s.Border = t[TokenDisabled]
		}
		return s
	case RoleTitle:
		return Style{Foreground: fg, Bold: !disabled}
	case RoleInput:
		return Style{Foreground: fg, Faint: disabled}
	case RoleSupporting:
		if disabled {
			return Style{Foreground: fg, Faint: true}
		}
		return Style{Foreground: t[TokenTextMuted]}
	case RoleCounter:
		switch {
		case disabled:
			return Style{Foreground: fg, Faint: true}
		case errored:
			return Style{Foreground: t[TokenError]}
		default:
			return Style{Foreground: t[TokenTextMuted]}
		}
	case RoleError:
		return Style{Foreground: t[TokenError]}
	case RoleOption:
		s := Style{Foreground: fg, Border: t[TokenBorder]}
		if disabled {
			s.Border = t[TokenDisabled]
			s.Faint = true
		}
		return s
	case RoleOptionSelected:
		if disabled {
			return Style{Foreground: fg, Border: t[TokenDisabled], Faint: true}
		}
		return Style{Foreground: t[TokenAccent], Border: t[TokenAccent], Bold: true}
	default:
		return Style{Foreground: fg}
	}
}

func mergeTokens(dst, src map[string]string) {
	for key, value := range src {
		key = strings.TrimSpace(key)
		if key == "" || strings.TrimSpace(value) == "" {
			continue
		}
		dst[key] = strings.TrimSpace(value)
	}
}

func copyTokens(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
