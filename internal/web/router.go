package web

import (
	"net/http"

	"github.com/erazemk/vrt/internal/garden"
	webembed "github.com/erazemk/vrt/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(g *garden.Garden) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Garden:    g,
		Templates: templates,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /health", Health)

	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("POST /plants", s.PlantCreateSubmit)
	mux.HandleFunc("GET /plants/{id}", s.PlantDetailPage)
	mux.HandleFunc("POST /plants/{id}/water", s.PlantWaterSubmit)
	mux.HandleFunc("POST /plants/{id}/photos", s.PlantPhotoSubmit)

	return mux, nil
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
