// Package folio provides embedded assets for production builds.
package folio

import "embed"

// In dev mode (IsDev=true), templates and static files are read from disk.
// Otherwise they are served from these embedded filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
