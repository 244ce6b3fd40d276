package template

import (
	"io"
)

// TemplateRenderer is the engine contract markup renderers depend on.
// RenderTemplate executes the named template and copies the output to every
// writer.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
