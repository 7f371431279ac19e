package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/vrt/internal/advice"
	"github.com/erazemk/vrt/internal/garden"
	"github.com/erazemk/vrt/internal/imaging"
	"github.com/erazemk/vrt/internal/model"
)

// multipartOverhead is the room allowed on top of MaxUploadBytes for
// multipart boundaries and headers.
const multipartOverhead = 64 << 10

// PlantsHandler handles plant endpoints.
type PlantsHandler struct {
	Garden *garden.Garden
}

type createPlantRequest struct {
	Name string `json:"name"`
}

type adviceResponse struct {
	Care string `json:"care"`
	Fact string `json:"fact"`
}

// List handles GET /api/plants.
func (h *PlantsHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Garden.Plants())
}

// Create handles POST /api/plants.
func (h *PlantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPlantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plant, err := h.Garden.AddPlant(r.Context(), req.Name)
	if plant == nil && err == nil {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if err != nil {
		persistError(w, "plant", req.Name, err)
		return
	}

	slog.Info("plant added", "plant", plant.Name, "id", plant.ID)
	jsonResponse(w, http.StatusCreated, plant)
}

// Get handles GET /api/plants/{id}.
func (h *PlantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	plant := h.Garden.FindPlant(id)
	if plant == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}
	jsonResponse(w, http.StatusOK, plant)
}

// Water handles POST /api/plants/{id}/water.
func (h *PlantsHandler) Water(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	plant, err := h.Garden.LogWatering(r.Context(), id)
	if plant == nil && err == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}
	if err != nil {
		persistError(w, "watering", id, err)
		return
	}

	slog.Info("watering logged", "plant", plant.Name, "id", plant.ID)
	jsonResponse(w, http.StatusOK, plant)
}

// UploadPhoto handles POST /api/plants/{id}/photos.
func (h *PlantsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}
	if h.Garden.FindPlant(id) == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}

	const limit = imaging.MaxUploadBytes + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || r.ContentLength > limit {
			jsonError(w, http.StatusRequestEntityTooLarge, "photo too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	up, err := imaging.Encode(file, header.Size, header.Header.Get("Content-Type"))
	if errors.Is(err, imaging.ErrTooLarge) {
		jsonError(w, http.StatusRequestEntityTooLarge, "photo too large")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	plant, err := h.Garden.AddPhoto(r.Context(), id, up.DataURL)
	if plant == nil && err == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}
	if err != nil {
		persistError(w, "photo", id, err)
		return
	}

	slog.Info("photo added", "plant", plant.Name, "id", plant.ID,
		"type", up.MIME, "bytes", up.Size, "width", up.Width, "height", up.Height)
	jsonResponse(w, http.StatusCreated, plant)
}

// Advice handles GET /api/plants/{id}/advice.
func (h *PlantsHandler) Advice(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	plant := h.Garden.FindPlant(id)
	if plant == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}
	jsonResponse(w, http.StatusOK, adviceFor(plant))
}

func adviceFor(p *model.Plant) adviceResponse {
	return adviceResponse{
		Care: advice.CareTip(p.Name),
		Fact: advice.FunFact(p.Name),
	}
}

func plantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid plant id")
		return 0, false
	}
	return id, true
}
