package layout

import (
	"embed"
	"io/fs"
)

//go:embed starters/*
var embeddedStarters embed.FS

// EmbeddedFS returns the bundled starter layouts. Callers may pass this
// filesystem to LoadFS to seed a repository.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedStarters, "starters")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

