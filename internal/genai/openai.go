package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hyperengineering/fastplan/internal/types"
)

// Compile-time interface check
var _ Generator = (*OpenAI)(nil)

// ChatService defines the interface for making chat completion API
// calls. This abstraction enables testing without calling the real
// OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the generation contract using OpenAI's chat
// completions API.
type OpenAI struct {
	chat   ChatService
	model  openai.ChatModel
	hasKey bool
}

// NewOpenAI creates a new OpenAI-backed generator. An empty apiKey is
// accepted so the server can start without credentials; operations
// fail with ErrMissingAPIKey until one is configured. timeout bounds
// each provider request.
func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
	)
	return &OpenAI{
		chat:   client.Chat.Completions,
		model:  openai.ChatModel(model),
		hasKey: apiKey != "",
	}
}

// ModelName returns the chat model name.
func (o *OpenAI) ModelName() string {
	return string(o.model)
}

// complete issues one structured-output chat completion and returns
// the sanitized response text.
func (o *OpenAI) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	if !o.hasKey {
		return "", ErrMissingAPIKey
	}

	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(o.model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		}),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
		MaxTokens: openai.F(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}
	return sanitizeJSON(resp.Choices[0].Message.Content), nil
}

// GeneratePlan produces cells for the framework rows. Only rows
// present in the provider response appear in the result.
func (o *OpenAI) GeneratePlan(ctx context.Context, lessonCtx types.LessonContext) (map[types.RowKey]types.RowCells, error) {
	subject := lessonCtx.Subject
	if subject == "" {
		subject = "General"
	}
	prompt := fmt.Sprintf(
		`Create a FAST lesson plan for: Grade %s, Subject %s, Topic %s, Type %s, Objective: %s, Hook: %s.
Respond with JSON: {"rows": {"preview": {"teacherAction": string, "languageStrategy": string, "checkForUnderstanding": string}, "objective": {...}, "review": {...}, "keyIdeas": {...}, "expertThinking": {...}, "guidedPractice": {...}, "closure": {...}, "independentPractice": {...}}}.`,
		lessonCtx.Grade, subject, lessonCtx.Topic, lessonCtx.LessonType, lessonCtx.ObjectiveRaw, lessonCtx.PreviewIdea,
	)

	text, err := o.complete(ctx, prompt, 8000)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	var parsed struct {
		Rows map[string]types.RowCells `json:"rows"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("plan generation failed: invalid response: %w", err)
	}

	rows := make(map[types.RowKey]types.RowCells)
	for _, key := range types.RowKeys() {
		if cells, ok := parsed.Rows[string(key)]; ok {
			rows[key] = cells
		}
	}
	return rows, nil
}

// GenerateRandomContext synthesizes a random but complete lesson
// context. gradeHint pins the grade when non-empty.
func (o *OpenAI) GenerateRandomContext(ctx context.Context, gradeHint string) (types.LessonContext, error) {
	grade := "Random Grade K-12"
	if gradeHint != "" {
		grade = "Grade: " + gradeHint
	}
	prompt := fmt.Sprintf(
		`Generate a random creative lesson topic for FAST framework. %s.
Respond with JSON: {"grade": string, "standard": string, "topic": string, "lessonType": "DECLARATIVE" or "PROCEDURAL", "objectiveRaw": string, "previewIdea": string}.`,
		grade,
	)

	text, err := o.complete(ctx, prompt, 2000)
	if err != nil {
		return types.LessonContext{}, fmt.Errorf("random context generation failed: %w", err)
	}

	var lessonCtx types.LessonContext
	if err := json.Unmarshal([]byte(text), &lessonCtx); err != nil {
		return types.LessonContext{}, fmt.Errorf("random context generation failed: invalid response: %w", err)
	}
	if lessonCtx.Subject == "" {
		lessonCtx.Subject = "General"
	}
	if !lessonCtx.LessonType.Valid() || lessonCtx.LessonType == types.LessonUnset {
		lessonCtx.LessonType = types.LessonDeclarative
	}
	return lessonCtx, nil
}

// RefineRow rewrites one row's cells per the instruction. Any failure
// echoes the caller's current cells with Applied=false so a bad
// refinement never clobbers existing content.
func (o *OpenAI) RefineRow(ctx context.Context, rowTitle, instruction string, current types.RowCells, lessonCtx types.LessonContext) RefineResult {
	fallback := RefineResult{Applied: false, Cells: current}

	prompt := fmt.Sprintf(
		`Refine %s. Instruction: %s. Context: Grade %s, Topic %s.
Respond with JSON: {"teacherAction": string, "languageStrategy": string, "checkForUnderstanding": string}.`,
		rowTitle, instruction, lessonCtx.Grade, lessonCtx.Topic,
	)

	text, err := o.complete(ctx, prompt, 2000)
	if err != nil {
		slog.Warn("row refinement failed, keeping current cells", "row", rowTitle, "error", err)
		return fallback
	}

	var cells types.RowCells
	if err := json.Unmarshal([]byte(text), &cells); err != nil {
		slog.Warn("row refinement returned invalid JSON, keeping current cells", "row", rowTitle, "error", err)
		return fallback
	}
	return RefineResult{Applied: true, Cells: cells}
}

// GeneratePreviewHooks returns up to count non-academic hook ideas,
// or an empty list on any failure.
func (o *OpenAI) GeneratePreviewHooks(ctx context.Context, lessonCtx types.LessonContext, count int) []string {
	prompt := fmt.Sprintf(
		`Generate %d non-academic hooks for %s. Output JSON array of strings in 'hooks'.`,
		count, lessonCtx.Topic,
	)

	text, err := o.complete(ctx, prompt, 2000)
	if err != nil {
		slog.Warn("preview hook generation failed", "error", err)
		return []string{}
	}

	var parsed struct {
		Hooks []string `json:"hooks"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		slog.Warn("preview hook generation returned invalid JSON", "error", err)
		return []string{}
	}
	if parsed.Hooks == nil {
		return []string{}
	}
	if len(parsed.Hooks) > count {
		parsed.Hooks = parsed.Hooks[:count]
	}
	return parsed.Hooks
}

// GenerateActivitySuggestions returns activity proposals for one
// section, or an empty list on any failure.
func (o *OpenAI) GenerateActivitySuggestions(ctx context.Context, lessonCtx types.LessonContext, sectionTitle, currentContent string) []types.ActivitySuggestion {
	prompt := fmt.Sprintf(
		`Suggest 3 FAST activities for %s on %s. Current content: %s. Output JSON suggestions array with title, description, whyFast.`,
		sectionTitle, lessonCtx.Topic, currentContent,
	)

	text, err := o.complete(ctx, prompt, 2000)
	if err != nil {
		slog.Warn("activity suggestion generation failed", "section", sectionTitle, "error", err)
		return []types.ActivitySuggestion{}
	}

	var parsed struct {
		Suggestions []types.ActivitySuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		slog.Warn("activity suggestion generation returned invalid JSON", "section", sectionTitle, "error", err)
		return []types.ActivitySuggestion{}
	}
	if parsed.Suggestions == nil {
		return []types.ActivitySuggestion{}
	}
	return parsed.Suggestions
}

// GenerateStandards synthesizes standard categories for a grade and
// subject the local table does not cover.
func (o *OpenAI) GenerateStandards(ctx context.Context, grade, subject string) ([]types.StandardCategory, error) {
	prompt := fmt.Sprintf(
		`List 20+ representative California State Standards for Grade %s %s.
Group them by Domain/Strand (e.g., 'Geometry', 'Reading: Literature', 'Physical Science').
If Subject is Math or ELA, use Common Core State Standards (CCSS).
If Subject is Science, use Next Generation Science Standards (NGSS).
If Subject is History/Social Studies, use CA History-Social Science Framework.
Respond with JSON: {"categories": [{"domain": string, "standards": [{"code": string, "description": string}]}]}.`,
		grade, subject,
	)

	text, err := o.complete(ctx, prompt, 4000)
	if err != nil {
		return nil, fmt.Errorf("standards generation failed: %w", err)
	}

	var parsed struct {
		Categories []types.StandardCategory `json:"categories"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("standards generation failed: invalid response: %w", err)
	}
	if parsed.Categories == nil {
		return []types.StandardCategory{}, nil
	}
	return parsed.Categories, nil
}
