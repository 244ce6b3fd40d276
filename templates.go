package formfield

import (
	"io/fs"

	"github.com/goliatone/go-formfield/pkg/render/html"
	"github.com/goliatone/go-formfield/pkg/schema"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedDefinitions exposes the bundled form definitions.
func EmbeddedDefinitions() fs.FS {
	return schema.EmbeddedFS()
}
