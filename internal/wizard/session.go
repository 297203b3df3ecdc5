// Package wizard drives the step-by-step lesson setup flow: collecting
// the lesson context across four gated steps, looking up standards as
// grade and subject settle, and brainstorming preview hooks.
package wizard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/hyperengineering/fastplan/internal/types"
)

var (
	// ErrStepIncomplete indicates the current step's required fields
	// are not yet filled, so the wizard cannot advance.
	ErrStepIncomplete = errors.New("current step is incomplete")

	// ErrAtFirstStep indicates Back was called on the first step.
	ErrAtFirstStep = errors.New("already at the first step")

	// ErrNotReady indicates Complete was called before every step's
	// requirements were met.
	ErrNotReady = errors.New("wizard is not ready to complete")
)

// Step identifies one of the four wizard steps.
type Step int

const (
	StepBasics    Step = iota + 1 // grade, subject, standard, topic
	StepType                      // declarative vs procedural
	StepObjective                 // raw learning objective
	StepPreview                   // non-academic hook
)

func (s Step) String() string {
	switch s {
	case StepBasics:
		return "basics"
	case StepType:
		return "type"
	case StepObjective:
		return "objective"
	case StepPreview:
		return "preview"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// subjectOptions is the fixed subject list offered on the basics step.
var subjectOptions = []string{
	"English Language Arts (ELA)",
	"Mathematics",
	"Science (NGSS)",
	"History / Social Studies",
	"Visual & Performing Arts",
	"Physical Education",
	"World Languages",
	"Computer Science",
	"Other",
}

// SubjectOptions returns the subjects offered on the basics step.
func SubjectOptions() []string {
	out := make([]string, len(subjectOptions))
	copy(out, subjectOptions)
	return out
}

// Session holds one wizard run. All methods are safe for concurrent
// use; standards lookups are sequence-tagged so responses that arrive
// after the inputs changed are dropped.
type Session struct {
	mu   sync.Mutex
	id   string
	step Step
	data types.LessonContext

	hookIdeas []string

	standards    []types.StandardCategory
	standardsSeq uint64
	lookupActive bool
}

// NewSession returns a session at the basics step with a fresh ULID.
func NewSession() *Session {
	return &Session{
		id:   ulid.Make().String(),
		step: StepBasics,
		data: types.LessonContext{LessonType: types.LessonUnset},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Step returns the current step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Context returns a copy of the lesson context collected so far.
func (s *Session) Context() types.LessonContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// stepComplete reports whether step's gate is satisfied. Caller holds
// the lock.
func (s *Session) stepComplete(step Step) bool {
	switch step {
	case StepBasics:
		return s.data.Grade != "" && s.data.Standard != ""
	case StepType:
		return s.data.LessonType != types.LessonUnset && s.data.LessonType.Valid()
	case StepObjective:
		return s.data.ObjectiveRaw != ""
	case StepPreview:
		return s.data.PreviewIdea != ""
	default:
		return false
	}
}

// Next advances to the following step. The current step's required
// fields must be filled.
func (s *Session) Next() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step >= StepPreview {
		return s.step, nil
	}
	if !s.stepComplete(s.step) {
		return s.step, fmt.Errorf("%w: %s", ErrStepIncomplete, s.step)
	}
	s.step++
	return s.step, nil
}

// Back returns to the previous step. Collected fields are kept.
func (s *Session) Back() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step <= StepBasics {
		return s.step, ErrAtFirstStep
	}
	s.step--
	return s.step, nil
}

// Complete validates every gate and returns the finished context.
func (s *Session) Complete() (types.LessonContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, step := range []Step{StepBasics, StepType, StepObjective, StepPreview} {
		if !s.stepComplete(step) {
			return types.LessonContext{}, fmt.Errorf("%w: %s", ErrNotReady, step)
		}
	}
	return s.data, nil
}

// SetGrade updates the grade and invalidates any standards fetched or
// in flight for the previous inputs.
func (s *Session) SetGrade(grade string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Grade == grade {
		return
	}
	s.data.Grade = grade
	s.invalidateStandards()
}

// SetSubject updates the subject and invalidates standards state.
func (s *Session) SetSubject(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Subject == subject {
		return
	}
	s.data.Subject = subject
	s.invalidateStandards()
}

// SetStandard records the standard text, either composed from a
// dropdown selection or typed manually.
func (s *Session) SetStandard(standard string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Standard = standard
}

// SetTopic records the topic name.
func (s *Session) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Topic = topic
}

// SetLessonType records the declarative/procedural choice.
func (s *Session) SetLessonType(lt types.LessonType) error {
	if !lt.Valid() || lt == types.LessonUnset {
		return fmt.Errorf("invalid lesson type %q", lt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LessonType = lt
	return nil
}

// SetObjective records the raw learning objective.
func (s *Session) SetObjective(objective string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ObjectiveRaw = objective
}

// SetPreviewIdea records the preview hook text.
func (s *Session) SetPreviewIdea(idea string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PreviewIdea = idea
}

// ReplaceContext installs a complete context, as produced by the wild
// card, and marks the wizard finished.
func (s *Session) ReplaceContext(ctx types.LessonContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ctx
	s.step = StepPreview
	s.hookIdeas = nil
	s.invalidateStandards()
}

// invalidateStandards clears fetched standards and bumps the sequence
// so in-flight lookups land stale. Caller holds the lock.
func (s *Session) invalidateStandards() {
	s.standards = nil
	s.standardsSeq++
	s.lookupActive = false
}

// StandardsNeeded reports whether a lookup should run for the current
// inputs. Lookups need both grade and subject, and the "Other" subject
// has no standards catalog.
func (s *Session) StandardsNeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Grade != "" && s.data.Subject != "" && s.data.Subject != "Other"
}

// BeginStandardsLookup marks a lookup in flight and returns the
// sequence tag the eventual result must present, plus the inputs to
// resolve against.
func (s *Session) BeginStandardsLookup() (seq uint64, grade, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupActive = true
	return s.standardsSeq, s.data.Grade, s.data.Subject
}

// ApplyStandards installs a lookup result. Results tagged with a stale
// sequence are dropped and false is returned.
func (s *Session) ApplyStandards(seq uint64, categories []types.StandardCategory) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.standardsSeq {
		return false
	}
	s.standards = categories
	s.lookupActive = false
	return true
}

// Standards returns the fetched standard categories and whether a
// lookup is still in flight.
func (s *Session) Standards() ([]types.StandardCategory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.StandardCategory, len(s.standards))
	copy(out, s.standards)
	return out, s.lookupActive
}

// SetHookIdeas stores brainstormed hook candidates.
func (s *Session) SetHookIdeas(ideas []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hookIdeas = ideas
}

// HookIdeas returns the current brainstormed candidates.
func (s *Session) HookIdeas() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.hookIdeas))
	copy(out, s.hookIdeas)
	return out
}

// ChooseHook adopts one brainstormed candidate as the preview idea and
// clears the candidate list.
func (s *Session) ChooseHook(idea string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PreviewIdea = idea
	s.hookIdeas = nil
}
