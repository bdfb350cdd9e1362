// Package localauth embeds the admin console's templates and static files.
package localauth

import "embed"

// In dev mode the console reads these trees from disk instead.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
