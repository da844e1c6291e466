// Package templates embeds the default Markdown output templates.
package templates

import "embed"

//go:embed markdown/*.tmpl
var FS embed.FS
