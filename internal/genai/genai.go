// Package genai wraps the generative text provider behind typed,
// per-operation contracts. Hard operations (full plan, random context)
// propagate failures; soft operations (refine, hooks, suggestions)
// degrade to the caller's current content so a failed enhancement never
// destroys user work.
package genai

import (
	"context"
	"errors"
	"strings"

	"github.com/hyperengineering/fastplan/internal/types"
)

var (
	// ErrMissingAPIKey indicates no provider credential is configured.
	// It is returned before any network call is attempted.
	ErrMissingAPIKey = errors.New("provider API key is missing")

	// ErrNoContent indicates the provider responded without usable text.
	ErrNoContent = errors.New("provider returned no content")
)

// RefineResult is the explicit outcome of a row refinement. Applied
// distinguishes a real refinement from the best-effort fallback that
// echoes the caller's original cells.
type RefineResult struct {
	Applied bool           `json:"applied"`
	Cells   types.RowCells `json:"cells"`
}

// Generator is the full generation contract consumed by the wizard,
// the standards resolver, and the HTTP surface.
type Generator interface {
	// GeneratePlan produces cells for the eight framework rows. Rows
	// the provider omits are absent from the result; the plan store
	// back-fills them from the template. Fails loudly.
	GeneratePlan(ctx context.Context, lessonCtx types.LessonContext) (map[types.RowKey]types.RowCells, error)

	// GenerateRandomContext synthesizes a complete random lesson
	// context ("wild card"). Fails loudly.
	GenerateRandomContext(ctx context.Context, gradeHint string) (types.LessonContext, error)

	// RefineRow rewrites one row's three cells per the instruction.
	// On any failure the result echoes current with Applied=false.
	RefineRow(ctx context.Context, rowTitle, instruction string, current types.RowCells, lessonCtx types.LessonContext) RefineResult

	// GeneratePreviewHooks returns up to count non-academic hook
	// ideas. Failures degrade to an empty list.
	GeneratePreviewHooks(ctx context.Context, lessonCtx types.LessonContext, count int) []string

	// GenerateActivitySuggestions returns activity proposals for one
	// section. Failures degrade to an empty list.
	GenerateActivitySuggestions(ctx context.Context, lessonCtx types.LessonContext, sectionTitle, currentContent string) []types.ActivitySuggestion

	// GenerateStandards synthesizes standard categories for subjects
	// the local table does not cover. Fails loudly; the resolver
	// applies its own degrade policy.
	GenerateStandards(ctx context.Context, grade, subject string) ([]types.StandardCategory, error)
}

// systemInstruction frames every request. The pedagogical rules keep
// generated rows aligned with the FAST framework stages.
const systemInstruction = `You are an expert instructional coach specializing in the FAST Framework (Focused, Adaptable, Structured, Teaching) by Gene Tavernetti.
Your goal is to generate lesson plan components that strictly adhere to the cognitive science and strategies outlined in the "Teach FAST" book.

PEDAGOGICAL RULES:
1. PREVIEW: Non-academic. Anchor to student experience.
2. OBJECTIVE: One verb, one content.
3. REVIEW: Only prerequisite skills for this lesson.
4. KEY IDEAS: Rule of 3 (Definition, Steps, Examples).
5. EXPERT THINKING: Scripted "Think Aloud" monologue.
6. GUIDED PRACTICE: Gradual release "I do/We do".
7. CLOSURE: VERBAL reiteration of Key Ideas. Students must orally summarize the "What" and "How" to prove readiness. Do not ask for written work here.
8. INDEPENDENT PRACTICE: 100% objective alignment.`

// sanitizeJSON strips markdown code fences some providers wrap around
// structured output.
func sanitizeJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
