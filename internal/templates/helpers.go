package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/csg33k/era-intake/internal/domain"
)

var funcs = template.FuncMap{
	"bytes":      formatBytes,
	"toastClass": toastClass,
}

// formatBytes renders a size limit the way rejection toasts phrase it.
func formatBytes(n int64) string {
	return humanize.IBytes(uint64(n))
}

func toastClass(l domain.Level) string {
	switch l {
	case domain.LevelSuccess:
		return "toast toast-success"
	case domain.LevelError:
		return "toast toast-error"
	}
	return "toast toast-info"
}

// component adapts one named html/template block to templ.Component.
func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

func parse(name, src string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(src))
}
