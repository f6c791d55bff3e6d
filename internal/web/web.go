// Package web carries the embedded page templates and stylesheet.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the helpers available to every template.
func Funcs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"relTime":  func(t time.Time) string { return format.RelativeTime(t, now()) },
		"fileSize": format.FileSize,
		"fileKind": format.FileKind,
		"initials": format.Initials,
		"truncate": format.Truncate,
		"str":      model.StringValue,
		"pct": func(score *float64) string {
			if score == nil {
				return ""
			}
			return fmt.Sprintf("%.0f%%", *score*100)
		},
		"displayName": func(u *model.SessionUser) string {
			return u.DisplayName()
		},
	}
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs(time.Now)).ParseFS(templateFS, "templates/*.html")
}

// Static is the stylesheet tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
