package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/widgets/*.tpl templates/blocks/*.tpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// StylesheetName is the asset key and file name of the built-in stylesheet.
const StylesheetName = "formcanvas.css"

// TemplatesFS exposes the embedded template bundle. Paths start at
// "templates/".
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded stylesheet so callers can serve it over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// Stylesheet returns the built-in stylesheet inlined when no theme asset URL
// is available.
func Stylesheet() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
}
