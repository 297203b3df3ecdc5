// Package plan owns the working lesson plan: the single in-memory grid
// the editor mutates. All access goes through Store, which guards the
// plan with a mutex and tags every state with a revision so slow
// asynchronous refinements can be detected and dropped instead of
// clobbering newer edits.
package plan

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hyperengineering/fastplan/internal/types"
)

var (
	// ErrUnknownRow indicates a row key outside the fixed grid.
	ErrUnknownRow = errors.New("unknown row key")

	// ErrUnknownColumn indicates a column key outside the fixed grid.
	ErrUnknownColumn = errors.New("unknown column key")

	// ErrStaleRefinement indicates the plan changed between the start
	// of a refinement and its completion. The refinement is discarded.
	ErrStaleRefinement = errors.New("plan changed during refinement")
)

// spicyMarker prefixes appended activity text so inserted activities
// stay visually distinct from the original cell content.
const spicyMarker = "[SPICY ACTIVITY]:"

// Store holds the working lesson plan. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu      sync.Mutex
	plan    types.LessonPlan
	rev     uint64
	savedID string
}

// NewStore returns a store initialized with the placeholder template.
func NewStore() *Store {
	return &Store{plan: types.TemplatePlan()}
}

// Snapshot returns a deep copy of the current plan. Mutating the
// returned value does not affect the store.
func (s *Store) Snapshot() types.LessonPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Revision returns the current plan revision. The revision advances on
// every mutation; callers capture it before starting a refinement and
// pass it to ApplyRowRefinement.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// SavedID returns the id of the library entry this plan was loaded
// from or last saved as, or empty when the plan has no association.
func (s *Store) SavedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedID
}

// ReplaceFromGeneration installs a freshly generated plan. Rows the
// generator omitted keep their template content. Any saved-lesson
// association is cleared: a regenerated plan is new, unsaved work.
func (s *Store) ReplaceFromGeneration(lessonCtx types.LessonContext, rows map[types.RowKey]types.RowCells) {
	next := types.TemplatePlan()
	next.Meta = lessonCtx
	for key, cells := range rows {
		row, ok := next.Rows[key]
		if !ok {
			continue
		}
		row.TeacherAction = types.FrameworkCell{Content: cells.TeacherAction}
		row.LanguageStrategy = types.FrameworkCell{Content: cells.LanguageStrategy}
		row.CheckForUnderstanding = types.FrameworkCell{Content: cells.CheckForUnderstanding}
		next.Rows[key] = row
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = next
	s.savedID = ""
	s.rev++
}

// Replace installs a plan wholesale, typically one loaded from the
// library, and records its saved-lesson association.
func (s *Store) Replace(p types.LessonPlan, savedID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p.Clone()
	s.savedID = savedID
	s.rev++
}

// SetSavedID records the library entry the current plan is associated
// with without touching plan content.
func (s *Store) SetSavedID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedID = id
}

// ClearSavedIDIf drops the saved-lesson association when it matches
// id. Used when that library entry is deleted.
func (s *Store) ClearSavedIDIf(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savedID == id {
		s.savedID = ""
	}
}

// SetCell writes one cell's content. Writing identical content is a
// no-op and does not advance the revision.
func (s *Store) SetCell(row types.RowKey, col types.ColKey, content string) error {
	if !row.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRow, row)
	}
	if !col.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.plan.Rows[row]
	if r.Cell(col).Content == content {
		return nil
	}
	switch col {
	case types.ColLanguageStrategy:
		r.LanguageStrategy = types.FrameworkCell{Content: content}
	case types.ColCheckForUnderstanding:
		r.CheckForUnderstanding = types.FrameworkCell{Content: content}
	default:
		r.TeacherAction = types.FrameworkCell{Content: content}
	}
	s.plan.Rows[row] = r
	s.rev++
	return nil
}

// SetMeta replaces the plan's lesson context.
func (s *Store) SetMeta(meta types.LessonContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan.Meta = meta
	s.rev++
}

// ApplyRowRefinement writes all three cells of one row atomically.
// baseRev must be the revision captured when the refinement began; if
// the plan has changed since, the result is stale and is discarded
// with ErrStaleRefinement. Static row fields (title, icon,
// description) are never touched.
func (s *Store) ApplyRowRefinement(row types.RowKey, cells types.RowCells, baseRev uint64) error {
	if !row.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRow, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rev != baseRev {
		return ErrStaleRefinement
	}

	r := s.plan.Rows[row]
	r.TeacherAction = types.FrameworkCell{Content: cells.TeacherAction}
	r.LanguageStrategy = types.FrameworkCell{Content: cells.LanguageStrategy}
	r.CheckForUnderstanding = types.FrameworkCell{Content: cells.CheckForUnderstanding}
	s.plan.Rows[row] = r
	s.rev++
	return nil
}

// RowCells returns the current content of one row's three cells.
func (s *Store) RowCells(row types.RowKey) (types.RowCells, error) {
	if !row.Valid() {
		return types.RowCells{}, fmt.Errorf("%w: %q", ErrUnknownRow, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.plan.Rows[row]
	return types.RowCells{
		TeacherAction:         r.TeacherAction.Content,
		LanguageStrategy:      r.LanguageStrategy.Content,
		CheckForUnderstanding: r.CheckForUnderstanding.Content,
	}, nil
}

// AppendActivity appends activity text to a row's teacher action cell
// under the spicy marker. The original content always stays first.
func (s *Store) AppendActivity(row types.RowKey, activity string) error {
	if !row.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRow, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.plan.Rows[row]
	r.TeacherAction.Content = r.TeacherAction.Content + "\n\n" + spicyMarker + "\n" + activity
	s.plan.Rows[row] = r
	s.rev++
	return nil
}

// Reset restores the placeholder template and clears any saved-lesson
// association.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = types.TemplatePlan()
	s.savedID = ""
	s.rev++
}
