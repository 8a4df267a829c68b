// Package web embeds the page templates and static assets served by the
// contact form.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// Templates returns the template files rooted at "templates/".
func Templates() fs.FS {
	return templates
}

// Static returns the static assets rooted at the asset directory itself.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
