package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/fastplan/internal/genai"
	"github.com/hyperengineering/fastplan/internal/library"
	"github.com/hyperengineering/fastplan/internal/plan"
	"github.com/hyperengineering/fastplan/internal/validation"
	"github.com/hyperengineering/fastplan/internal/wizard"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// problemTypes maps HTTP status codes to RFC 7807 type URIs and titles.
var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusBadRequest: {
		typeURI: "https://fastplan.dev/errors/bad-request",
		title:   "Bad Request",
	},
	http.StatusNotFound: {
		typeURI: "https://fastplan.dev/errors/not-found",
		title:   "Not Found",
	},
	http.StatusUnprocessableEntity: {
		typeURI: "https://fastplan.dev/errors/validation-error",
		title:   "Validation Error",
	},
	http.StatusConflict: {
		typeURI: "https://fastplan.dev/errors/conflict",
		title:   "Conflict",
	},
	http.StatusBadGateway: {
		typeURI: "https://fastplan.dev/errors/generation-failed",
		title:   "Generation Failed",
	},
	http.StatusServiceUnavailable: {
		typeURI: "https://fastplan.dev/errors/service-unavailable",
		title:   "Service Unavailable",
	},
	http.StatusInternalServerError: {
		typeURI: "https://fastplan.dev/errors/internal-error",
		title:   "Internal Server Error",
	},
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	pt, ok := problemTypes[status]
	if !ok {
		pt = struct {
			typeURI string
			title   string
		}{
			typeURI: "https://fastplan.dev/errors/unknown",
			title:   http.StatusText(status),
		}
	}

	p := Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// WriteProblemWithErrors writes a 422 Problem Details response with field errors.
func WriteProblemWithErrors(w http.ResponseWriter, r *http.Request, detail string, errs []validation.ValidationError) {
	pt := problemTypes[http.StatusUnprocessableEntity]

	p := ProblemWithErrors{
		Problem: Problem{
			Type:     pt.typeURI,
			Title:    pt.title,
			Status:   http.StatusUnprocessableEntity,
			Detail:   detail,
			Instance: r.URL.Path,
		},
		Errors: errs,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapDomainError converts domain errors to Problem Details responses.
func MapDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Saved lesson not found")
	case errors.Is(err, wizard.ErrSessionNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Wizard session not found")
	case errors.Is(err, wizard.ErrStepIncomplete):
		WriteProblem(w, r, http.StatusUnprocessableEntity, "Complete the current step before advancing")
	case errors.Is(err, wizard.ErrNotReady):
		WriteProblem(w, r, http.StatusUnprocessableEntity, "Complete every wizard step before generating")
	case errors.Is(err, wizard.ErrAtFirstStep):
		WriteProblem(w, r, http.StatusConflict, "Already at the first step")
	case errors.Is(err, plan.ErrUnknownRow), errors.Is(err, plan.ErrUnknownColumn):
		WriteProblem(w, r, http.StatusUnprocessableEntity, "Unknown plan row or column")
	case errors.Is(err, genai.ErrMissingAPIKey):
		WriteProblem(w, r, http.StatusServiceUnavailable, "Generation provider is not configured")
	default:
		// Never expose internal error details to client
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
