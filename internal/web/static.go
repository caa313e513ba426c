package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Static - файлы /static/* (стили и клиент чата).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
