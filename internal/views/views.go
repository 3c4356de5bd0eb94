// Package views holds the embedded HTML templates.
package views

import "embed"

//go:embed *.html
var FS embed.FS
