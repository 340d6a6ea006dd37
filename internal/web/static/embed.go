// Package static embeds the browser front-end.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"sync"
)

//go:embed all:dist/*
var distFS embed.FS

var subFS = sync.OnceValue(func() fs.FS {
	fsys, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic(err)
	}
	return fsys
})

// GetFileSystem returns an http.FileSystem rooted at the embedded dist directory.
func GetFileSystem() http.FileSystem {
	return http.FS(subFS())
}

// HasDist reports whether the front-end was embedded.
func HasDist() bool {
	entries, err := fs.ReadDir(subFS(), ".")
	return err == nil && len(entries) > 0
}
