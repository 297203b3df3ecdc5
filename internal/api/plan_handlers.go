package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/fastplan/internal/plan"
	"github.com/hyperengineering/fastplan/internal/types"
	"github.com/hyperengineering/fastplan/internal/validation"
)

// maxCellLength bounds a single cell's content in runes.
const maxCellLength = 20000

// PlanResponse is the live plan payload.
type PlanResponse struct {
	Plan     types.LessonPlan `json:"plan"`
	Revision uint64           `json:"revision"`
	SavedID  string           `json:"savedId,omitempty"`
}

func (h *Handler) planResponse() PlanResponse {
	return PlanResponse{
		Plan:     h.plan.Snapshot(),
		Revision: h.plan.Revision(),
		SavedID:  h.plan.SavedID(),
	}
}

// GetPlan handles GET /api/v1/plan
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.planResponse())
}

// SetCellRequest carries one cell's replacement content.
type SetCellRequest struct {
	Content string `json:"content"`
}

// SetCell handles PUT /api/v1/plan/cells/{row}/{col}
func (h *Handler) SetCell(w http.ResponseWriter, r *http.Request) {
	row := types.RowKey(chi.URLParam(r, "row"))
	col := types.ColKey(chi.URLParam(r, "col"))

	var req SetCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateUTF8("content", req.Content))
	c.Add(validation.ValidateNoNullBytes("content", req.Content))
	c.Add(validation.ValidateMaxLength("content", req.Content, maxCellLength))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	if err := h.plan.SetCell(row, col, req.Content); err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.planResponse())
}

// RefineRowRequest carries the refinement instruction for one row.
type RefineRowRequest struct {
	Instruction string `json:"instruction"`
}

// RefineRowResponse reports the explicit refinement outcome. Applied
// is false when the provider failed or the plan changed mid-flight; in
// both cases Cells echoes the row's current content.
type RefineRowResponse struct {
	Applied bool           `json:"applied"`
	Row     types.RowKey   `json:"row"`
	Cells   types.RowCells `json:"cells"`
}

// RefineRow handles POST /api/v1/plan/rows/{row}/refine
func (h *Handler) RefineRow(w http.ResponseWriter, r *http.Request) {
	row := types.RowKey(chi.URLParam(r, "row"))

	var req RefineRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if v := validation.ValidateRequired("instruction", req.Instruction); v != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*v})
		return
	}

	current, err := h.plan.RowCells(row)
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	// Capture the revision before the provider call so edits landing
	// during the refinement invalidate its result.
	baseRev := h.plan.Revision()
	snap := h.plan.Snapshot()

	result := h.gen.RefineRow(r.Context(), snap.Rows[row].Title, req.Instruction, current, snap.Meta)
	if !result.Applied {
		writeJSON(w, http.StatusOK, RefineRowResponse{Applied: false, Row: row, Cells: current})
		return
	}

	if err := h.plan.ApplyRowRefinement(row, result.Cells, baseRev); err != nil {
		if errors.Is(err, plan.ErrStaleRefinement) {
			latest, _ := h.plan.RowCells(row)
			writeJSON(w, http.StatusOK, RefineRowResponse{Applied: false, Row: row, Cells: latest})
			return
		}
		MapDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RefineRowResponse{Applied: true, Row: row, Cells: result.Cells})
}

// SuggestionsResponse lists activity proposals for one row.
type SuggestionsResponse struct {
	Row         types.RowKey               `json:"row"`
	Suggestions []types.ActivitySuggestion `json:"suggestions"`
}

// SuggestActivities handles POST /api/v1/plan/rows/{row}/suggestions
func (h *Handler) SuggestActivities(w http.ResponseWriter, r *http.Request) {
	row := types.RowKey(chi.URLParam(r, "row"))
	if !row.Valid() {
		MapDomainError(w, r, plan.ErrUnknownRow)
		return
	}

	snap := h.plan.Snapshot()
	suggestions := h.gen.GenerateActivitySuggestions(
		r.Context(),
		snap.Meta,
		snap.Rows[row].Title,
		snap.Rows[row].TeacherAction.Content,
	)
	writeJSON(w, http.StatusOK, SuggestionsResponse{Row: row, Suggestions: suggestions})
}

// ApplySuggestionRequest carries the chosen activity description.
type ApplySuggestionRequest struct {
	Description string `json:"description"`
}

// ApplySuggestion handles POST /api/v1/plan/rows/{row}/suggestions/apply
func (h *Handler) ApplySuggestion(w http.ResponseWriter, r *http.Request) {
	row := types.RowKey(chi.URLParam(r, "row"))

	var req ApplySuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if v := validation.ValidateRequired("description", req.Description); v != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*v})
		return
	}

	if err := h.plan.AppendActivity(row, req.Description); err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.planResponse())
}
