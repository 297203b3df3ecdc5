package fastplan

// LessonType classifies what kind of knowledge a lesson targets.
type LessonType string

const (
	LessonDeclarative LessonType = "DECLARATIVE"
	LessonProcedural  LessonType = "PROCEDURAL"
	LessonUnset       LessonType = "UNSET"
)

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

// ColKey identifies one of the three editable cells within a row.
type ColKey string

const (
	ColTeacherAction         ColKey = "teacherAction"
	ColLanguageStrategy      ColKey = "languageStrategy"
	ColCheckForUnderstanding ColKey = "checkForUnderstanding"
)

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

// FrameworkCell is the atomic editable unit of a plan.
type FrameworkCell struct {
	Content string `json:"content"`
}

// LessonRow is one pedagogical stage with its three editable cells.
type LessonRow struct {
	ID                    RowKey        `json:"id"`
	Title                 string        `json:"title"`
	Icon                  string        `json:"icon"`
	Description           string        `json:"description"`
	TeacherAction         FrameworkCell `json:"teacherAction"`
	LanguageStrategy      FrameworkCell `json:"languageStrategy"`
	CheckForUnderstanding FrameworkCell `json:"checkForUnderstanding"`
}

// RowCells is the three-cell payload for a single row.
type RowCells struct {
	TeacherAction         string `json:"teacherAction"`
	LanguageStrategy      string `json:"languageStrategy"`
	CheckForUnderstanding string `json:"checkForUnderstanding"`
}

// LessonPlan is the generation context plus the eight fixed rows.
type LessonPlan struct {
	Meta LessonContext        `json:"meta"`
	Rows map[RowKey]LessonRow `json:"rows"`
}

// SavedLesson is a named, timestamped entry in the lesson library.
// Timestamp is unix milliseconds.
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
type StandardCategory struct {
	Domain    string           `json:"domain"`
	Standards []StandardOption `json:"standards"`
}

// ActivitySuggestion is one "Spice Up" proposal for a row.
type ActivitySuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	WhyFast     string `json:"whyFast"`
}
