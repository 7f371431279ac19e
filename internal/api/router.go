package api

import (
	"net/http"

	"github.com/erazemk/vrt/internal/garden"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(g *garden.Garden) http.Handler {
	mux := http.NewServeMux()

	plants := &PlantsHandler{Garden: g}

	mux.HandleFunc("GET /api/plants", plants.List)
	mux.HandleFunc("POST /api/plants", plants.Create)
	mux.HandleFunc("GET /api/plants/{id}", plants.Get)
	mux.HandleFunc("POST /api/plants/{id}/water", plants.Water)
	mux.HandleFunc("POST /api/plants/{id}/photos", plants.UploadPhoto)
	mux.HandleFunc("GET /api/plants/{id}/advice", plants.Advice)

	return mux
}
