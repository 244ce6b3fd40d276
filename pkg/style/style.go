package style

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Role names a styled part of a field surface. The set is intentionally small
// so per-field caches stay bounded.
type Role string

const (
	RoleContainer      Role = "container"
	RoleTitle          Role = "title"
	RoleInput          Role = "input"
	RoleSupporting     Role = "supporting"
	RoleCounter        Role = "counter"
	RoleError          Role = "error"
	RoleOption         Role = "option"
	RoleOptionSelected Role = "option.selected"
)

// Roles lists every role in rendering order.
func Roles() []Role {
	return []Role{
		RoleContainer,
		RoleTitle,
		RoleInput,
		RoleSupporting,
		RoleCounter,
		RoleError,
		RoleOption,
		RoleOptionSelected,
	}
}

// Variant is the visual variant a surface is painted with.
type Variant string

const (
	VariantDefault  Variant = "default"
	VariantErrored  Variant = "errored"
	VariantDisabled Variant = "disabled"
)

// Style is a renderer-neutral description of the colors applied to a role.
// Colors are theme token values (hex strings or ANSI codes).
type Style struct {
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
	Bold       bool   `json:"bold,omitempty"`
	Faint      bool   `json:"faint,omitempty"`
}

// IsZero reports whether the style carries no attributes.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Lipgloss converts the style for terminal rendering.
func (s Style) Lipgloss() lipgloss.Style {
	out := lipgloss.NewStyle()
	if s.Foreground != "" {
		out = out.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		out = out.Background(lipgloss.Color(s.Background))
	}
	if s.Border != "" {
		out = out.BorderForeground(lipgloss.Color(s.Border))
	}
	if s.Bold {
		out = out.Bold(true)
	}
	if s.Faint {
		out = out.Faint(true)
	}
	return out
}

// CSS renders the style as an inline declaration list with stable ordering.
func (s Style) CSS() string {
	decls := make(map[string]string, 4)
	if s.Foreground != "" {
		decls["color"] = s.Foreground
	}
	if s.Background != "" {
		decls["background-color"] = s.Background
	}
	if s.Border != "" {
		decls["border-color"] = s.Border
	}
	if s.Bold {
		decls["font-weight"] = "600"
	}
	if s.Faint {
		decls["opacity"] = "0.6"
	}
	if len(decls) == 0 {
		return ""
	}
	keys := make([]string, 0, len(decls))
	for key := range decls {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(decls[key])
		b.WriteString(";")
	}
	return b.String()
}

// Resolver derives the style for a role painted with a variant.
type Resolver interface {
	Resolve(role Role, variant Variant) Style
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(role Role, variant Variant) Style

// Resolve implements Resolver.
func (fn ResolverFunc) Resolve(role Role, variant Variant) Style {
	return fn(role, variant)
}
