package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/vrt/internal/garden"
	"github.com/erazemk/vrt/internal/imaging"
	"github.com/erazemk/vrt/internal/model"
	webembed "github.com/erazemk/vrt/web"
)

// displayLayout is how timestamps are shown to the user.
const displayLayout = "Jan 2, 2006 15:04"

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"when": formatWhen,
		"lastWatered": func(p model.Plant) string {
			if !p.Watered() {
				return "Never"
			}
			return formatWhen(*p.LastWatered)
		},
		"ago": func(s string) string {
			t, err := model.ParseTime(s)
			if err != nil {
				return ""
			}
			return humanize.Time(t)
		},
		"bytes": func(n int) string {
			return humanize.IBytes(uint64(n))
		},
		// photoSrc marks stored data URLs of renderable types as safe image
		// sources; anything else is empty.
		"photoSrc": func(s string) template.URL {
			if !imaging.IsDataURL(s) {
				return ""
			}
			return template.URL(s)
		},
	}
}

func formatWhen(s string) string {
	if s == "" {
		return "Never"
	}
	t, err := model.ParseTime(s)
	if err != nil {
		return s
	}
	return t.In(time.Local).Format(displayLayout)
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"index.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// RenderStatus renders a template with the given data and status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the data passed to the plant list page.
type PageData struct {
	Title string
	// Error is shown as a blocking alert.
	Error string
	// Toast is a transient notification.
	Toast string

	Plants []model.Plant
	// Selected is the plant shown in the detail modal, if any.
	Selected *model.Plant
	// Insight is the care tip or fun fact requested for Selected.
	Insight string
	// MaxUploadBytes is the photo size limit, for the client-side check.
	MaxUploadBytes int
}

// Server holds all dependencies for page handlers.
type Server struct {
	Garden    *garden.Garden
	Templates *Templates
}
