package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/fastplan/internal/types"
	"github.com/hyperengineering/fastplan/internal/validation"
)

// LibraryResponse lists saved lessons, newest first.
type LibraryResponse struct {
	Lessons []types.SavedLesson `json:"lessons"`
}

// ListLibrary handles GET /api/v1/library
func (h *Handler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.library.List(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LibraryResponse{Lessons: lessons})
}

// SaveLessonRequest names a new save. When the live plan is already
// associated with a library entry, that entry is updated instead and
// Name is ignored.
type SaveLessonRequest struct {
	Name string `json:"name,omitempty"`
}

// SaveLesson handles POST /api/v1/library. It persists the live plan:
// as an update when the plan was loaded from or previously saved to
// the library, otherwise as a new entry.
func (h *Handler) SaveLesson(w http.ResponseWriter, r *http.Request) {
	var req SaveLessonRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
			return
		}
	}
	if v := validation.ValidateMaxLength("name", req.Name, 200); v != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*v})
		return
	}

	id := h.plan.SavedID()
	saved, err := h.library.Save(r.Context(), id, req.Name, h.plan.Snapshot())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	h.plan.SetSavedID(saved.ID)

	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, saved)
}

// LoadLesson handles GET /api/v1/library/{id}. The saved plan becomes
// the live plan and the association is recorded so a later save
// updates this entry.
func (h *Handler) LoadLesson(w http.ResponseWriter, r *http.Request) {
	saved, err := h.library.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	h.plan.Replace(saved.Plan, saved.ID)
	writeJSON(w, http.StatusOK, saved)
}

// DeleteLesson handles DELETE /api/v1/library/{id}. Deleting the entry
// the live plan is associated with clears that association; the live
// plan itself is untouched.
func (h *Handler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.library.Delete(r.Context(), id); err != nil {
		MapDomainError(w, r, err)
		return
	}
	h.plan.ClearSavedIDIf(id)
	w.WriteHeader(http.StatusNoContent)
}
