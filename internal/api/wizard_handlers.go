package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/fastplan/internal/genai"
	"github.com/hyperengineering/fastplan/internal/types"
	"github.com/hyperengineering/fastplan/internal/validation"
	"github.com/hyperengineering/fastplan/internal/wizard"
)

// WizardResponse is the wizard session payload returned by every
// session endpoint.
type WizardResponse struct {
	ID               string                   `json:"id"`
	Step             string                   `json:"step"`
	Context          types.LessonContext      `json:"context"`
	Standards        []types.StandardCategory `json:"standards"`
	StandardsPending bool                     `json:"standardsPending"`
	HookIdeas        []string                 `json:"hookIdeas"`
	Subjects         []string                 `json:"subjects"`
}

func wizardResponse(s *wizard.Session) WizardResponse {
	standards, pending := s.Standards()
	return WizardResponse{
		ID:               s.ID(),
		Step:             s.Step().String(),
		Context:          s.Context(),
		Standards:        standards,
		StandardsPending: pending,
		HookIdeas:        s.HookIdeas(),
		Subjects:         wizard.SubjectOptions(),
	}
}

// CreateWizard handles POST /api/v1/wizard
func (h *Handler) CreateWizard(w http.ResponseWriter, r *http.Request) {
	s := h.wizards.Create()
	writeJSON(w, http.StatusCreated, wizardResponse(s))
}

// GetWizard handles GET /api/v1/wizard/{id}
func (h *Handler) GetWizard(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse(s))
}

// UpdateWizardRequest carries partial wizard field updates. Absent
// fields are left untouched.
type UpdateWizardRequest struct {
	Grade        *string `json:"grade,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	Standard     *string `json:"standard,omitempty"`
	Topic        *string `json:"topic,omitempty"`
	LessonType   *string `json:"lessonType,omitempty"`
	ObjectiveRaw *string `json:"objectiveRaw,omitempty"`
	PreviewIdea  *string `json:"previewIdea,omitempty"`
}

// UpdateWizard handles PATCH /api/v1/wizard/{id}
func (h *Handler) UpdateWizard(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	var req UpdateWizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if req.LessonType != nil {
		lt := types.LessonType(*req.LessonType)
		if err := s.SetLessonType(lt); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{
				{Field: "lessonType", Message: "must be DECLARATIVE or PROCEDURAL"},
			})
			return
		}
	}
	if req.Grade != nil {
		s.SetGrade(*req.Grade)
	}
	if req.Subject != nil {
		s.SetSubject(*req.Subject)
	}
	if req.Standard != nil {
		s.SetStandard(*req.Standard)
	}
	if req.Topic != nil {
		s.SetTopic(*req.Topic)
	}
	if req.ObjectiveRaw != nil {
		s.SetObjective(*req.ObjectiveRaw)
	}
	if req.PreviewIdea != nil {
		s.SetPreviewIdea(*req.PreviewIdea)
	}

	// Grade or subject edits restart the debounced standards lookup.
	if req.Grade != nil || req.Subject != nil {
		h.wizards.ScheduleStandardsLookup(s)
	}

	writeJSON(w, http.StatusOK, wizardResponse(s))
}

// AdvanceWizard handles POST /api/v1/wizard/{id}/next
func (h *Handler) AdvanceWizard(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	if _, err := s.Next(); err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse(s))
}

// RewindWizard handles POST /api/v1/wizard/{id}/back
func (h *Handler) RewindWizard(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	if _, err := s.Back(); err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse(s))
}

// TriggerStandards handles POST /api/v1/wizard/{id}/standards
func (h *Handler) TriggerStandards(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	h.wizards.ScheduleStandardsLookup(s)
	writeJSON(w, http.StatusAccepted, wizardResponse(s))
}

// HooksRequest selects the hook generation mode: "find" applies a
// single hook directly, "brainstorm" lists candidates to pick from.
type HooksRequest struct {
	Mode string `json:"mode"`
}

// GenerateHooks handles POST /api/v1/wizard/{id}/hooks
func (h *Handler) GenerateHooks(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	var req HooksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if v := validation.ValidateEnum("mode", req.Mode, []string{"find", "brainstorm"}); v != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*v})
		return
	}

	if req.Mode == "find" {
		h.wizards.FindHook(r.Context(), s)
	} else {
		h.wizards.Brainstorm(r.Context(), s)
	}

	writeJSON(w, http.StatusOK, wizardResponse(s))
}

// ChooseHookRequest carries the chosen brainstormed hook.
type ChooseHookRequest struct {
	Hook string `json:"hook"`
}

// ChooseHook handles POST /api/v1/wizard/{id}/hooks/choose
func (h *Handler) ChooseHook(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	var req ChooseHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if v := validation.ValidateRequired("hook", req.Hook); v != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*v})
		return
	}

	s.ChooseHook(req.Hook)
	writeJSON(w, http.StatusOK, wizardResponse(s))
}

// GenerateResponse is the payload after a successful plan generation.
type GenerateResponse struct {
	Context types.LessonContext `json:"context"`
	Plan    types.LessonPlan    `json:"plan"`
}

// WildCard handles POST /api/v1/wizard/{id}/wildcard. It generates a
// random lesson context and immediately builds the full plan for it.
func (h *Handler) WildCard(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	lessonCtx, err := h.wizards.WildCard(r.Context(), s)
	if err != nil {
		h.mapGenerationError(w, r, err)
		return
	}

	h.generatePlan(w, r, lessonCtx)
}

// CompleteWizard handles POST /api/v1/wizard/{id}/complete. Every step
// gate must be satisfied; the full plan is generated before anything
// replaces the live plan.
func (h *Handler) CompleteWizard(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizards.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	lessonCtx, err := s.Complete()
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	h.generatePlan(w, r, lessonCtx)
}

// generatePlan runs full plan generation and swaps the live plan only
// on success. A failed generation leaves the previous plan untouched.
func (h *Handler) generatePlan(w http.ResponseWriter, r *http.Request, lessonCtx types.LessonContext) {
	rows, err := h.gen.GeneratePlan(r.Context(), lessonCtx)
	if err != nil {
		h.mapGenerationError(w, r, err)
		return
	}

	h.plan.ReplaceFromGeneration(lessonCtx, rows)
	writeJSON(w, http.StatusOK, GenerateResponse{
		Context: lessonCtx,
		Plan:    h.plan.Snapshot(),
	})
}

// mapGenerationError distinguishes a missing provider credential (the
// service is unconfigured) from a failed provider call.
func (h *Handler) mapGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, genai.ErrMissingAPIKey) {
		MapDomainError(w, r, err)
		return
	}
	WriteProblem(w, r, http.StatusBadGateway, "Generation failed; the current plan was left unchanged")
}
