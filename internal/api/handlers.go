package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/fastplan/internal/genai"
	"github.com/hyperengineering/fastplan/internal/library"
	"github.com/hyperengineering/fastplan/internal/plan"
	"github.com/hyperengineering/fastplan/internal/wizard"
)

// Handler implements the API handlers
type Handler struct {
	wizards *wizard.Manager
	plan    *plan.Store
	library *library.Gateway
	gen     genai.Generator
	model   string
	version string
}

// NewHandler creates a new Handler wiring the wizard manager, the live
// plan store, the saved lesson library, and the generation client.
func NewHandler(wm *wizard.Manager, ps *plan.Store, lib *library.Gateway, gen genai.Generator, model, version string) *Handler {
	return &Handler{
		wizards: wm,
		plan:    ps,
		library: lib,
		gen:     gen,
		model:   model,
		version: version,
	}
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Model       string `json:"model"`
	LessonCount int    `json:"lessonCount"`
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.library.List(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     h.version,
		Model:       h.model,
		LessonCount: len(lessons),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
