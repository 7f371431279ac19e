// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static assets (stylesheet and script).
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS returns the HTML templates.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		slog.Error("failed to create embedded sub-filesystem", "dir", dir, "error", err)
		os.Exit(1)
	}
	return sub
}
