package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/fastplan/internal/genai"
	"github.com/hyperengineering/fastplan/internal/standards"
	"github.com/hyperengineering/fastplan/internal/types"
)

// fakeGenerator implements genai.Generator for wizard tests.
type fakeGenerator struct {
	mu            sync.Mutex
	hooks         []string
	hookCalls     []int
	randomCtx     types.LessonContext
	randomErr     error
	standardCalls int
}

var _ genai.Generator = (*fakeGenerator)(nil)

func (f *fakeGenerator) GeneratePlan(ctx context.Context, lessonCtx types.LessonContext) (map[types.RowKey]types.RowCells, error) {
	return map[types.RowKey]types.RowCells{}, nil
}

func (f *fakeGenerator) GenerateRandomContext(ctx context.Context, gradeHint string) (types.LessonContext, error) {
	if f.randomErr != nil {
		return types.LessonContext{}, f.randomErr
	}
	out := f.randomCtx
	if gradeHint != "" {
		out.Grade = gradeHint
	}
	return out, nil
}

func (f *fakeGenerator) RefineRow(ctx context.Context, rowTitle, instruction string, current types.RowCells, lessonCtx types.LessonContext) genai.RefineResult {
	return genai.RefineResult{Applied: false, Cells: current}
}

func (f *fakeGenerator) GeneratePreviewHooks(ctx context.Context, lessonCtx types.LessonContext, count int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hookCalls = append(f.hookCalls, count)
	if len(f.hooks) > count {
		return f.hooks[:count]
	}
	return f.hooks
}

func (f *fakeGenerator) GenerateActivitySuggestions(ctx context.Context, lessonCtx types.LessonContext, sectionTitle, currentContent string) []types.ActivitySuggestion {
	return []types.ActivitySuggestion{}
}

func (f *fakeGenerator) GenerateStandards(ctx context.Context, grade, subject string) ([]types.StandardCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.standardCalls++
	return []types.StandardCategory{{Domain: "Generated", Standards: []types.StandardOption{{Code: "G.1", Description: "generated"}}}}, nil
}

func (f *fakeGenerator) hookCallCounts() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.hookCalls))
	copy(out, f.hookCalls)
	return out
}

// newTestManager builds a manager with a zero debounce so lookups run
// synchronously.
func newTestManager(gen *fakeGenerator) *Manager {
	return NewManager(gen, standards.NewResolver(gen), 0)
}

func fillBasics(s *Session) {
	s.SetGrade("5")
	s.SetSubject("Mathematics")
	s.SetStandard("5.NBT.6: Find whole-number quotients")
	s.SetTopic("Long Division")
}

func TestNewSession_StartsAtBasics(t *testing.T) {
	s := NewSession()
	if s.Step() != StepBasics {
		t.Errorf("step = %v, want basics", s.Step())
	}
	if s.ID() == "" {
		t.Error("session id should not be empty")
	}
	if s.Context().LessonType != types.LessonUnset {
		t.Errorf("lessonType = %q, want UNSET", s.Context().LessonType)
	}
}

func TestSessionIDs_AreUnique(t *testing.T) {
	a, b := NewSession(), NewSession()
	if a.ID() == b.ID() {
		t.Errorf("two sessions share id %q", a.ID())
	}
}

func TestNext_BlockedUntilBasicsComplete(t *testing.T) {
	s := NewSession()

	if _, err := s.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete, got %v", err)
	}

	// Grade alone is not enough; a standard is required too.
	s.SetGrade("5")
	if _, err := s.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete with grade only, got %v", err)
	}

	s.SetStandard("5.NBT.6: quotients")
	step, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step != StepType {
		t.Errorf("step = %v, want type", step)
	}
}

func TestNext_TypeStepRequiresChoice(t *testing.T) {
	s := NewSession()
	fillBasics(s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete before type choice, got %v", err)
	}

	if err := s.SetLessonType(types.LessonDeclarative); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	step, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step != StepObjective {
		t.Errorf("step = %v, want objective", step)
	}
}

func TestSetLessonType_RejectsUnsetAndInvalid(t *testing.T) {
	s := NewSession()
	if err := s.SetLessonType(types.LessonUnset); err == nil {
		t.Error("expected error for UNSET")
	}
	if err := s.SetLessonType(types.LessonType("HYBRID")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestBack_KeepsCollectedFields(t *testing.T) {
	s := NewSession()
	fillBasics(s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetLessonType(types.LessonProcedural); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	step, err := s.Back()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step != StepBasics {
		t.Errorf("step = %v, want basics", step)
	}
	if s.Context().LessonType != types.LessonProcedural {
		t.Error("going back must not discard the type choice")
	}
}

func TestBack_AtFirstStep(t *testing.T) {
	s := NewSession()
	if _, err := s.Back(); !errors.Is(err, ErrAtFirstStep) {
		t.Errorf("expected ErrAtFirstStep, got %v", err)
	}
}

func TestComplete_RequiresEveryGate(t *testing.T) {
	s := NewSession()
	fillBasics(s)
	if err := s.SetLessonType(types.LessonProcedural); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.SetObjective("divide multi-digit numbers")

	if _, err := s.Complete(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady without a preview idea, got %v", err)
	}

	s.SetPreviewIdea("sharing snacks fairly")
	got, err := s.Complete()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Topic != "Long Division" {
		t.Errorf("topic = %q, want Long Division", got.Topic)
	}
}

func TestSubjectOptions_FixedList(t *testing.T) {
	opts := SubjectOptions()
	if len(opts) != 9 {
		t.Fatalf("expected 9 subjects, got %d", len(opts))
	}
	if opts[0] != "English Language Arts (ELA)" || opts[len(opts)-1] != "Other" {
		t.Errorf("unexpected subject list boundaries: %q ... %q", opts[0], opts[len(opts)-1])
	}

	opts[0] = "mutated"
	if SubjectOptions()[0] == "mutated" {
		t.Error("SubjectOptions must return a copy")
	}
}

func TestStandardsNeeded(t *testing.T) {
	s := NewSession()
	if s.StandardsNeeded() {
		t.Error("empty session should not need standards")
	}

	s.SetGrade("5")
	if s.StandardsNeeded() {
		t.Error("grade alone should not trigger a lookup")
	}

	s.SetSubject("Mathematics")
	if !s.StandardsNeeded() {
		t.Error("grade + subject should trigger a lookup")
	}

	s.SetSubject("Other")
	if s.StandardsNeeded() {
		t.Error("the Other subject has no catalog to look up")
	}
}

func TestApplyStandards_DropsStaleSequence(t *testing.T) {
	s := NewSession()
	s.SetGrade("5")
	s.SetSubject("Mathematics")

	seq, _, _ := s.BeginStandardsLookup()

	// Inputs change while the lookup is in flight.
	s.SetGrade("7")

	stale := []types.StandardCategory{{Domain: "Stale"}}
	if s.ApplyStandards(seq, stale) {
		t.Fatal("stale result should be dropped")
	}
	got, _ := s.Standards()
	if len(got) != 0 {
		t.Errorf("expected no standards installed, got %d", len(got))
	}

	// The lookup for the new inputs lands normally.
	seq2, grade, _ := s.BeginStandardsLookup()
	if grade != "7" {
		t.Errorf("lookup grade = %q, want 7", grade)
	}
	fresh := []types.StandardCategory{{Domain: "Fresh"}}
	if !s.ApplyStandards(seq2, fresh) {
		t.Fatal("fresh result should apply")
	}
	got, pending := s.Standards()
	if pending {
		t.Error("lookup should no longer be pending")
	}
	if len(got) != 1 || got[0].Domain != "Fresh" {
		t.Errorf("standards = %+v, want the fresh result", got)
	}
}

func TestScheduleStandardsLookup_UsesLocalCatalog(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestManager(gen)
	s := m.Create()
	s.SetGrade("5")
	s.SetSubject("Mathematics")

	m.ScheduleStandardsLookup(s)

	got, pending := s.Standards()
	if pending {
		t.Fatal("synchronous lookup should have completed")
	}
	if len(got) == 0 {
		t.Fatal("expected local grade-5 math standards")
	}
	if gen.standardCalls != 0 {
		t.Errorf("local catalog hit must not call the generator, got %d calls", gen.standardCalls)
	}
}

func TestScheduleStandardsLookup_FallsBackToGenerator(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestManager(gen)
	s := m.Create()
	s.SetGrade("5")
	s.SetSubject("World Languages")

	m.ScheduleStandardsLookup(s)

	got, _ := s.Standards()
	if gen.standardCalls != 1 {
		t.Fatalf("expected 1 generator call, got %d", gen.standardCalls)
	}
	if len(got) != 1 || got[0].Domain != "Generated" {
		t.Errorf("standards = %+v, want the generated result", got)
	}
}

func TestScheduleStandardsLookup_SkipsOtherSubject(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestManager(gen)
	s := m.Create()
	s.SetGrade("5")
	s.SetSubject("Other")

	m.ScheduleStandardsLookup(s)

	if gen.standardCalls != 0 {
		t.Errorf("expected no lookup for Other, got %d calls", gen.standardCalls)
	}
}

func TestFindHook_AppliesSingleHook(t *testing.T) {
	gen := &fakeGenerator{hooks: []string{"sharing snacks", "unused"}}
	m := newTestManager(gen)
	s := m.Create()
	fillBasics(s)

	hook := m.FindHook(context.Background(), s)
	if hook != "sharing snacks" {
		t.Errorf("hook = %q, want sharing snacks", hook)
	}
	if s.Context().PreviewIdea != "sharing snacks" {
		t.Error("find hook should apply directly to the preview idea")
	}
	if counts := gen.hookCallCounts(); len(counts) != 1 || counts[0] != 1 {
		t.Errorf("expected one call with count 1, got %v", counts)
	}
}

func TestFindHook_EmptyKeepsPreviewIdea(t *testing.T) {
	gen := &fakeGenerator{hooks: []string{}}
	m := newTestManager(gen)
	s := m.Create()
	s.SetPreviewIdea("existing idea")

	if hook := m.FindHook(context.Background(), s); hook != "" {
		t.Errorf("hook = %q, want empty", hook)
	}
	if s.Context().PreviewIdea != "existing idea" {
		t.Error("an empty result must not clear the existing idea")
	}
}

func TestBrainstorm_ListsWithoutApplying(t *testing.T) {
	gen := &fakeGenerator{hooks: []string{"a", "b", "c", "d", "e"}}
	m := newTestManager(gen)
	s := m.Create()
	fillBasics(s)

	hooks := m.Brainstorm(context.Background(), s)
	if len(hooks) != 4 {
		t.Fatalf("expected 4 hooks, got %d", len(hooks))
	}
	if s.Context().PreviewIdea != "" {
		t.Error("brainstorm must not set the preview idea")
	}
	if got := s.HookIdeas(); len(got) != 4 {
		t.Errorf("expected 4 stored candidates, got %d", len(got))
	}
	if counts := gen.hookCallCounts(); len(counts) != 1 || counts[0] != 4 {
		t.Errorf("expected one call with count 4, got %v", counts)
	}
}

func TestChooseHook_AppliesAndClearsCandidates(t *testing.T) {
	s := NewSession()
	s.SetHookIdeas([]string{"a", "b"})

	s.ChooseHook("b")
	if s.Context().PreviewIdea != "b" {
		t.Errorf("previewIdea = %q, want b", s.Context().PreviewIdea)
	}
	if len(s.HookIdeas()) != 0 {
		t.Error("choosing a hook should clear the candidate list")
	}
}

func TestWildCard_ReplacesContextAndFinishesWizard(t *testing.T) {
	gen := &fakeGenerator{randomCtx: types.LessonContext{
		Grade:        "3",
		Subject:      "General",
		Standard:     "3.OA.1",
		Topic:        "Equal Groups",
		LessonType:   types.LessonDeclarative,
		ObjectiveRaw: "describe equal groups",
		PreviewIdea:  "sorting toys",
	}}
	m := newTestManager(gen)
	s := m.Create()

	got, err := m.WildCard(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Topic != "Equal Groups" {
		t.Errorf("topic = %q, want Equal Groups", got.Topic)
	}
	if s.Step() != StepPreview {
		t.Errorf("step = %v, want preview after wild card", s.Step())
	}
	if _, err := s.Complete(); err != nil {
		t.Errorf("wild card context should satisfy every gate: %v", err)
	}
}

func TestWildCard_HonorsGradeHint(t *testing.T) {
	gen := &fakeGenerator{randomCtx: types.LessonContext{
		Grade: "9", Subject: "General", Standard: "s", Topic: "t",
		LessonType: types.LessonProcedural, ObjectiveRaw: "o", PreviewIdea: "p",
	}}
	m := newTestManager(gen)
	s := m.Create()
	s.SetGrade("6")

	got, err := m.WildCard(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Grade != "6" {
		t.Errorf("grade = %q, want the hint 6", got.Grade)
	}
}

func TestWildCard_PropagatesFailure(t *testing.T) {
	gen := &fakeGenerator{randomErr: errors.New("api error")}
	m := newTestManager(gen)
	s := m.Create()
	s.SetGrade("6")
	before := s.Context()

	if _, err := m.WildCard(context.Background(), s); err == nil {
		t.Fatal("expected error, got nil")
	}
	if s.Context() != before {
		t.Error("a failed wild card must not modify the session")
	}
}

func TestManager_GetAndDelete(t *testing.T) {
	m := newTestManager(&fakeGenerator{})
	s := m.Create()

	got, err := m.Get(s.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Error("Get should return the created session")
	}

	m.Delete(s.ID())
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	runs := 0
	for i := 0; i < 5; i++ {
		d.Trigger(func() {
			mu.Lock()
			runs++
			mu.Unlock()
		})
	}

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if runs != 1 {
		t.Errorf("expected 1 run after rapid triggers, got %d", runs)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	runs := 0
	d.Trigger(func() {
		mu.Lock()
		runs++
		mu.Unlock()
	})
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if runs != 0 {
		t.Errorf("expected no runs after Stop, got %d", runs)
	}
}
