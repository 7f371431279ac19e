package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// maxJSONBody bounds JSON request bodies. Photos go through multipart.
const maxJSONBody = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

// jsonResponse writes data as JSON with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorResponse{Error: message})
}

// persistError reports a save that failed after the in-memory change was
// applied. The change stays visible; only the write is reported.
func persistError(w http.ResponseWriter, what string, id any, err error) {
	slog.Error("failed to persist "+what, "id", id, "error", err)
	jsonError(w, http.StatusInternalServerError, "failed to save "+what)
}

// decodeJSON decodes a single JSON object from the request body into target,
// rejecting unknown fields and bodies over maxJSONBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}
