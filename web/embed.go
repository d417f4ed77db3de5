package web

import "embed"

// TemplatesFS embeds the HTML page served at the site root.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the browser client assets.
//
//go:embed static/*
var StaticFS embed.FS
