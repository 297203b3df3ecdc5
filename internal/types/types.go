package types

import (
	"encoding/json"
)

// LessonType classifies what kind of knowledge a lesson targets.
type LessonType string

const (
	LessonDeclarative LessonType = "DECLARATIVE"
	LessonProcedural  LessonType = "PROCEDURAL"
	// LessonUnset is the explicit "not yet chosen" variant. It is part of
	// the closed set so an empty draft is never confused with a choice.
	LessonUnset LessonType = "UNSET"
)

// Valid reports whether t is one of the closed set of lesson types.
func (t LessonType) Valid() bool {
	switch t {
	case LessonDeclarative, LessonProcedural, LessonUnset:
		return true
	}
	return false
}

// LessonContext is the wizard's output and the input to plan generation.
type LessonContext struct {
	Grade        string     `json:"grade"`
	Subject      string     `json:"subject"`
	Standard     string     `json:"standard"`
	Topic        string     `json:"topic"`
	LessonType   LessonType `json:"lessonType"`
	ObjectiveRaw string     `json:"objectiveRaw"`
	PreviewIdea  string     `json:"previewIdea"`
}

// RowKey identifies one of the eight fixed pedagogical stages.
type RowKey string

const (
	RowPreview             RowKey = "preview"
	RowObjective           RowKey = "objective"
	RowReview              RowKey = "review"
	RowKeyIdeas            RowKey = "keyIdeas"
	RowExpertThinking      RowKey = "expertThinking"
	RowGuidedPractice      RowKey = "guidedPractice"
	RowClosure             RowKey = "closure"
	RowIndependentPractice RowKey = "independentPractice"
)

// rowOrder is the fixed display order of the eight stages. The set is
// closed; it is never extended or reordered at runtime.
var rowOrder = [8]RowKey{
	RowPreview,
	RowObjective,
	RowReview,
	RowKeyIdeas,
	RowExpertThinking,
	RowGuidedPractice,
	RowClosure,
	RowIndependentPractice,
}

// RowKeys returns the eight fixed row keys in display order.
func RowKeys() []RowKey {
	keys := make([]RowKey, len(rowOrder))
	copy(keys, rowOrder[:])
	return keys
}

// Valid reports whether k is one of the eight fixed row keys.
func (k RowKey) Valid() bool {
	for _, key := range rowOrder {
		if k == key {
			return true
		}
	}
	return false
}

// ColKey identifies one of the three editable cells within a row.
type ColKey string

const (
	ColTeacherAction         ColKey = "teacherAction"
	ColLanguageStrategy      ColKey = "languageStrategy"
	ColCheckForUnderstanding ColKey = "checkForUnderstanding"
)

// Valid reports whether c is one of the three cell columns.
func (c ColKey) Valid() bool {
	switch c {
	case ColTeacherAction, ColLanguageStrategy, ColCheckForUnderstanding:
		return true
	}
	return false
}

// IconID is a closed identifier resolved to a renderable icon at the
// presentation boundary. The core only ever carries the identifier.
type IconID string

const (
	IconAnchor     IconID = "Anchor"
	IconTarget     IconID = "Target"
	IconZap        IconID = "Zap"
	IconLightbulb  IconID = "Lightbulb"
	IconMonitor    IconID = "Monitor"
	IconPlayCircle IconID = "PlayCircle"
	IconGift       IconID = "Gift"
	IconCrosshair  IconID = "Crosshair"
)

// FrameworkCell is the atomic editable unit of a plan.
type FrameworkCell struct {
	Content string `json:"content"`
}

// LessonRow is one pedagogical stage with its three editable cells.
// ID, Title, Icon and Description are fixed per stage and never mutated.
type LessonRow struct {
	ID                    RowKey        `json:"id"`
	Title                 string        `json:"title"`
	Icon                  IconID        `json:"icon"`
	Description           string        `json:"description"`
	TeacherAction         FrameworkCell `json:"teacherAction"`
	LanguageStrategy      FrameworkCell `json:"languageStrategy"`
	CheckForUnderstanding FrameworkCell `json:"checkForUnderstanding"`
}

// Cell returns the cell for the given column.
func (r LessonRow) Cell(col ColKey) FrameworkCell {
	switch col {
	case ColLanguageStrategy:
		return r.LanguageStrategy
	case ColCheckForUnderstanding:
		return r.CheckForUnderstanding
	default:
		return r.TeacherAction
	}
}

// RowCells is the three-cell payload exchanged with the generation
// provider for a single row.
type RowCells struct {
	TeacherAction         string `json:"teacherAction"`
	LanguageStrategy      string `json:"languageStrategy"`
	CheckForUnderstanding string `json:"checkForUnderstanding"`
}

// LessonPlan is the canonical plan: generation context plus the eight
// fixed rows. Rows always contains exactly the eight keys.
type LessonPlan struct {
	Meta LessonContext        `json:"meta"`
	Rows map[RowKey]LessonRow `json:"rows"`
}

// Clone returns a deep copy of the plan so callers never alias shared
// row state.
func (p LessonPlan) Clone() LessonPlan {
	rows := make(map[RowKey]LessonRow, len(p.Rows))
	for k, v := range p.Rows {
		rows[k] = v
	}
	return LessonPlan{Meta: p.Meta, Rows: rows}
}

// MarshalJSON ensures a nil row map marshals as {} not null.
func (p LessonPlan) MarshalJSON() ([]byte, error) {
	if p.Rows == nil {
		p.Rows = map[RowKey]LessonRow{}
	}
	type Alias LessonPlan
	return json.Marshal(Alias(p))
}

// SavedLesson is a named, timestamped entry in the lesson library.
type SavedLesson struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Timestamp int64      `json:"timestamp"`
	Plan      LessonPlan `json:"plan"`
}

// StandardOption is a single curriculum standard.
type StandardOption struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// StandardCategory groups standards under a domain or strand.
// Categories are read-only lookup results, never mutated after return.
type StandardCategory struct {
	Domain    string           `json:"domain"`
	Standards []StandardOption `json:"standards"`
}

// MarshalJSON ensures a nil standards slice marshals as [] not null.
func (c StandardCategory) MarshalJSON() ([]byte, error) {
	if c.Standards == nil {
		c.Standards = []StandardOption{}
	}
	type Alias StandardCategory
	return json.Marshal(Alias(c))
}

// ActivitySuggestion is one "Spice Up" proposal for a row.
type ActivitySuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	WhyFast     string `json:"whyFast"`
}
