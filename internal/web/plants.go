package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/vrt/internal/advice"
	"github.com/erazemk/vrt/internal/imaging"
	"github.com/erazemk/vrt/internal/model"
)

// Toast messages.
const (
	toastPlantAdded = "Plant added successfully!"
	toastWatered    = "Watering logged!"
	toastPhotoAdded = "Photo added!"
)

// multipartOverhead is the room allowed on top of MaxUploadBytes for
// multipart boundaries and headers.
const multipartOverhead = 64 << 10

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, nil, "", "")
}

// PlantDetailPage handles GET /plants/{id}. It renders the list with the
// plant's detail modal open; ?insight=care or ?insight=fact fills the
// insight box.
func (s *Server) PlantDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	plant := s.Garden.FindPlant(id)
	if plant == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	insight := advice.For(r.URL.Query().Get("insight"), plant.Name)
	s.renderIndex(w, r, http.StatusOK, plant, insight, "")
}

// PlantCreateSubmit handles POST /plants.
func (s *Server) PlantCreateSubmit(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")

	plant, err := s.Garden.AddPlant(r.Context(), name)
	if err != nil {
		slog.Error("failed to persist new plant", "plant", name, "error", err)
	}
	if plant != nil {
		slog.Info("plant added", "plant", plant.Name, "id", plant.ID)
		setToast(w, toastPlantAdded)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PlantWaterSubmit handles POST /plants/{id}/water.
func (s *Server) PlantWaterSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	plant, err := s.Garden.LogWatering(r.Context(), id)
	if err != nil {
		slog.Error("failed to persist watering", "id", id, "error", err)
	}
	if plant == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("watering logged", "plant", plant.Name, "id", plant.ID)
	setToast(w, toastWatered)

	if r.FormValue("from") == "detail" {
		http.Redirect(w, r, detailURL(plant.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PlantPhotoSubmit handles POST /plants/{id}/photos.
func (s *Server) PlantPhotoSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	plant := s.Garden.FindPlant(id)
	if plant == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	tooLarge := fmt.Sprintf("That file is a bit large (%s max). Try a smaller image.",
		humanize.IBytes(imaging.MaxUploadBytes))

	const limit = imaging.MaxUploadBytes + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || r.ContentLength > limit {
			s.renderIndex(w, r, http.StatusRequestEntityTooLarge, plant, "", tooLarge)
			return
		}
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		// Nothing selected.
		http.Redirect(w, r, detailURL(id), http.StatusSeeOther)
		return
	}
	defer file.Close()

	up, err := imaging.Encode(file, header.Size, header.Header.Get("Content-Type"))
	if errors.Is(err, imaging.ErrTooLarge) {
		s.renderIndex(w, r, http.StatusRequestEntityTooLarge, plant, "", tooLarge)
		return
	}
	if err != nil {
		slog.Warn("failed to read photo upload", "plant", plant.Name, "error", err)
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	updated, err := s.Garden.AddPhoto(r.Context(), id, up.DataURL)
	if err != nil {
		slog.Error("failed to persist photo", "plant", plant.Name, "error", err)
	}
	if updated == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("photo added", "plant", updated.Name, "type", up.MIME,
		"size", humanize.IBytes(uint64(up.Size)), "width", up.Width, "height", up.Height)
	setToast(w, toastPhotoAdded)
	http.Redirect(w, r, detailURL(id), http.StatusSeeOther)
}

// renderIndex rebuilds the whole page from the current garden.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, selected *model.Plant, insight, alert string) {
	title := "Garden Companion"
	if selected != nil {
		title = selected.Name + " · " + title
	}

	s.Templates.RenderStatus(w, status, "index.html", &PageData{
		Title:          title,
		Error:          alert,
		Toast:          popToast(w, r),
		Plants:         s.Garden.Plants(),
		Selected:       selected,
		Insight:        insight,
		MaxUploadBytes: imaging.MaxUploadBytes,
	})
}

func detailURL(id int64) string {
	return fmt.Sprintf("/plants/%d", id)
}
