// Package assets embeds the console's stylesheet.
package assets

import "embed"

//go:embed static
var staticFS embed.FS

// StaticFS holds static/app.css, served under /ui/static/.
func StaticFS() embed.FS {
	return staticFS
}
