// Package fastplan is a Go client for the FAST Framework Planner HTTP API.
package fastplan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the server address, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout applies to each request. Defaults to 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the default client when set.
	HTTPClient *http.Client
}

// Client talks to a running fastplan server.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a new Client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}

	client := config.HTTPClient
	if client == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: config.BaseURL, client: client}, nil
}

// APIError is an RFC 7807 problem response from the server.
type APIError struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fastplan: %s (%d): %s", e.Title, e.Status, e.Detail)
}

// Health is the server health payload.
type Health struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Model       string `json:"model"`
	LessonCount int    `json:"lessonCount"`
}

// WizardSession mirrors the wizard session state returned by every
// session endpoint.
type WizardSession struct {
	ID               string                   `json:"id"`
	Step             string                   `json:"step"`
	Context          LessonContext      `json:"context"`
	Standards        []StandardCategory `json:"standards"`
	StandardsPending bool                     `json:"standardsPending"`
	HookIdeas        []string                 `json:"hookIdeas"`
	Subjects         []string                 `json:"subjects"`
}

// WizardUpdate carries partial wizard field updates. Nil fields are
// left untouched on the server.
type WizardUpdate struct {
	Grade        *string `json:"grade,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	Standard     *string `json:"standard,omitempty"`
	Topic        *string `json:"topic,omitempty"`
	LessonType   *string `json:"lessonType,omitempty"`
	ObjectiveRaw *string `json:"objectiveRaw,omitempty"`
	PreviewIdea  *string `json:"previewIdea,omitempty"`
}

// GenerateResult is returned when a completed or wild-card wizard
// produces a full plan.
type GenerateResult struct {
	Context LessonContext `json:"context"`
	Plan    LessonPlan    `json:"plan"`
}

// PlanState is the live plan with its edit revision and, when the plan
// came from or was saved to the library, the saved lesson ID.
type PlanState struct {
	Plan     LessonPlan `json:"plan"`
	Revision uint64           `json:"revision"`
	SavedID  string           `json:"savedId,omitempty"`
}

// RefineOutcome reports whether a row refinement was applied and the
// row's current cells either way.
type RefineOutcome struct {
	Applied bool           `json:"applied"`
	Row     RowKey   `json:"row"`
	Cells   RowCells `json:"cells"`
}

// Health checks server health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Wizard ---

// CreateWizard starts a new wizard session.
func (c *Client) CreateWizard(ctx context.Context) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWizard fetches a wizard session.
func (c *Client) GetWizard(ctx context.Context, id string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/wizard/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWizard applies a partial update to a wizard session.
func (c *Client) UpdateWizard(ctx context.Context, id string, update WizardUpdate) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPatch, "/api/v1/wizard/"+id, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NextStep advances the wizard one step. The current step's gate must
// be satisfied.
func (c *Client) NextStep(ctx context.Context, id string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/next", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviousStep moves the wizard back one step, preserving entered data.
func (c *Client) PreviousStep(ctx context.Context, id string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/back", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestStandards schedules a standards lookup for the session's
// current grade and subject.
func (c *Client) RequestStandards(ctx context.Context, id string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/standards", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type hooksRequest struct {
	Mode string `json:"mode"`
}

// FindHook generates a single preview hook and applies it to the
// session's preview idea.
func (c *Client) FindHook(ctx context.Context, id string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/hooks", hooksRequest{Mode: "find"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BrainstormHooks generates several candidate hooks for the session to
// choose from.
func (c *Client) BrainstormHooks(ctx context.Context, id string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/hooks", hooksRequest{Mode: "brainstorm"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type chooseHookRequest struct {
	Hook string `json:"hook"`
}

// ChooseHook applies one brainstormed hook as the preview idea.
func (c *Client) ChooseHook(ctx context.Context, id, hook string) (*WizardSession, error) {
	var out WizardSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/hooks/choose", chooseHookRequest{Hook: hook}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WildCard generates a random lesson context and immediately builds the
// full plan for it.
func (c *Client) WildCard(ctx context.Context, id string) (*GenerateResult, error) {
	var out GenerateResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/wildcard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Complete finishes the wizard and generates the full plan. Every step
// gate must be satisfied.
func (c *Client) Complete(ctx context.Context, id string) (*GenerateResult, error) {
	var out GenerateResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/wizard/"+id+"/complete", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Plan ---

// Plan fetches the live plan.
func (c *Client) Plan(ctx context.Context) (*PlanState, error) {
	var out PlanState
	if err := c.do(ctx, http.MethodGet, "/api/v1/plan", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type setCellRequest struct {
	Content string `json:"content"`
}

// SetCell writes one editable cell of the live plan.
func (c *Client) SetCell(ctx context.Context, row RowKey, col ColKey, content string) (*PlanState, error) {
	var out PlanState
	path := fmt.Sprintf("/api/v1/plan/cells/%s/%s", row, col)
	if err := c.do(ctx, http.MethodPut, path, setCellRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type refineRowRequest struct {
	Instruction string `json:"instruction"`
}

// RefineRow asks the generator to rewrite one row per the instruction.
// A declined or failed refinement returns Applied=false with the row's
// current cells.
func (c *Client) RefineRow(ctx context.Context, row RowKey, instruction string) (*RefineOutcome, error) {
	var out RefineOutcome
	path := fmt.Sprintf("/api/v1/plan/rows/%s/refine", row)
	if err := c.do(ctx, http.MethodPost, path, refineRowRequest{Instruction: instruction}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type suggestionsResponse struct {
	Row         RowKey               `json:"row"`
	Suggestions []ActivitySuggestion `json:"suggestions"`
}

// SuggestActivities requests activity proposals for one row.
func (c *Client) SuggestActivities(ctx context.Context, row RowKey) ([]ActivitySuggestion, error) {
	var out suggestionsResponse
	path := fmt.Sprintf("/api/v1/plan/rows/%s/suggestions", row)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

type applySuggestionRequest struct {
	Description string `json:"description"`
}

// ApplySuggestion appends a chosen activity to the row's teacher
// action cell.
func (c *Client) ApplySuggestion(ctx context.Context, row RowKey, description string) (*PlanState, error) {
	var out PlanState
	path := fmt.Sprintf("/api/v1/plan/rows/%s/suggestions/apply", row)
	if err := c.do(ctx, http.MethodPost, path, applySuggestionRequest{Description: description}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Library ---

type libraryResponse struct {
	Lessons []SavedLesson `json:"lessons"`
}

// ListLessons lists saved lessons, newest first.
func (c *Client) ListLessons(ctx context.Context) ([]SavedLesson, error) {
	var out libraryResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/library", nil, &out); err != nil {
		return nil, err
	}
	return out.Lessons, nil
}

type saveLessonRequest struct {
	Name string `json:"name,omitempty"`
}

// SaveLesson saves the live plan to the library. When the live plan is
// already associated with a saved lesson, that lesson is updated in
// place; otherwise a new entry is created. An empty name falls back to
// the plan's topic.
func (c *Client) SaveLesson(ctx context.Context, name string) (*SavedLesson, error) {
	var out SavedLesson
	if err := c.do(ctx, http.MethodPost, "/api/v1/library", saveLessonRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadLesson replaces the live plan with a saved lesson and returns
// the loaded entry.
func (c *Client) LoadLesson(ctx context.Context, id string) (*SavedLesson, error) {
	var out SavedLesson
	if err := c.do(ctx, http.MethodGet, "/api/v1/library/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLesson removes a saved lesson. Deleting an absent lesson is
// not an error.
func (c *Client) DeleteLesson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/library/"+id, nil, nil)
}

// do sends a JSON request and decodes the response. Error statuses are
// decoded as RFC 7807 problems and returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
