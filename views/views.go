// Package views embeds the HTML templates so the server and its tests can
// render pages without depending on the working directory.
package views

import "embed"

//go:embed *.html layouts/*.html
var FS embed.FS
