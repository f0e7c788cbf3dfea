// Package web embeds the browser client.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Files returns the client assets rooted at the static directory.
func Files() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves index.html, app.js and style.css.
func Handler() http.Handler {
	return http.FileServer(http.FS(Files()))
}
