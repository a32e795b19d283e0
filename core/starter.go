package core

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed starter/pokedex.config.yml starter/templates starter/public
var starterFS embed.FS

// StarterFS holds the default project: config, templates and public assets.
func StarterFS() fs.FS {
	sub, _ := fs.Sub(starterFS, "starter")
	return sub
}

func embeddedDir(name string) fs.FS {
	sub, _ := fs.Sub(starterFS, "starter/"+name)
	return sub
}

// TemplatesFS returns dir when it exists on disk, otherwise the embedded templates.
func TemplatesFS(dir string) (fs.FS, bool) {
	return dirOrEmbedded(dir, "templates")
}

// PublicFS returns dir when it exists on disk, otherwise the embedded assets.
func PublicFS(dir string) (fs.FS, bool) {
	return dirOrEmbedded(dir, "public")
}

func dirOrEmbedded(dir, name string) (fs.FS, bool) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), true
		}
	}
	return embeddedDir(name), false
}
