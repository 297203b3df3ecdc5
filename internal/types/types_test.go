package types

import (
	"encoding/json"
	"testing"
)

func TestRowKeys_OrderAndCount(t *testing.T) {
	keys := RowKeys()
	if len(keys) != 8 {
		t.Fatalf("expected 8 row keys, got %d", len(keys))
	}

	want := []RowKey{
		RowPreview, RowObjective, RowReview, RowKeyIdeas,
		RowExpertThinking, RowGuidedPractice, RowClosure, RowIndependentPractice,
	}
	for i, k := range keys {
		if k != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], k)
		}
	}
}

func TestRowKey_Valid(t *testing.T) {
	if !RowKey("keyIdeas").Valid() {
		t.Error("keyIdeas should be valid")
	}
	if RowKey("warmUp").Valid() {
		t.Error("warmUp should not be valid")
	}
}

func TestColKey_Valid(t *testing.T) {
	for _, c := range []ColKey{ColTeacherAction, ColLanguageStrategy, ColCheckForUnderstanding} {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if ColKey("notes").Valid() {
		t.Error("notes should not be valid")
	}
}

func TestTemplatePlan_Complete(t *testing.T) {
	plan := TemplatePlan()

	if len(plan.Rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(plan.Rows))
	}
	if plan.Meta.LessonType != LessonUnset {
		t.Errorf("fresh plan lesson type = %q, want UNSET", plan.Meta.LessonType)
	}

	for _, key := range RowKeys() {
		row, ok := plan.Rows[key]
		if !ok {
			t.Fatalf("row %q missing from template", key)
		}
		if row.ID != key {
			t.Errorf("row %q has id %q", key, row.ID)
		}
		if row.Title == "" || row.Description == "" || row.Icon == "" {
			t.Errorf("row %q missing static fields", key)
		}
		if row.TeacherAction.Content == "" {
			t.Errorf("row %q should carry placeholder teacher action", key)
		}
	}

	// Only keyIdeas and guidedPractice carry default language strategies.
	if plan.Rows[RowKeyIdeas].LanguageStrategy.Content == "" {
		t.Error("keyIdeas should have a default language strategy")
	}
	if plan.Rows[RowPreview].LanguageStrategy.Content != "" {
		t.Error("preview should not have a default language strategy")
	}
}

func TestTemplatePlan_Independent(t *testing.T) {
	a := TemplatePlan()
	b := TemplatePlan()

	row := a.Rows[RowPreview]
	row.TeacherAction.Content = "mutated"
	a.Rows[RowPreview] = row

	if b.Rows[RowPreview].TeacherAction.Content == "mutated" {
		t.Error("TemplatePlan copies share row state")
	}
}

func TestLessonPlan_Clone(t *testing.T) {
	a := TemplatePlan()
	b := a.Clone()

	row := b.Rows[RowReview]
	row.TeacherAction.Content = "changed"
	b.Rows[RowReview] = row

	if a.Rows[RowReview].TeacherAction.Content == "changed" {
		t.Error("Clone shares row map with original")
	}
}

func TestDemoLessons_Fixed(t *testing.T) {
	demos := DemoLessons()
	if len(demos) != 3 {
		t.Fatalf("expected 3 demo lessons, got %d", len(demos))
	}

	wantNames := []string{
		"Math: Division with Remainders",
		"ELA: Character Perspective",
		"Science: The Water Cycle",
	}
	for i, d := range demos {
		if d.Name != wantNames[i] {
			t.Errorf("demo %d name = %q, want %q", i, d.Name, wantNames[i])
		}
		if d.ID == "" {
			t.Errorf("demo %d missing id", i)
		}
		if len(d.Plan.Rows) != 8 {
			t.Errorf("demo %d has %d rows", i, len(d.Plan.Rows))
		}
	}

	// Timestamps descend: newest demo first.
	if !(demos[0].Timestamp > demos[1].Timestamp && demos[1].Timestamp > demos[2].Timestamp) {
		t.Error("demo timestamps should be strictly descending")
	}
}

func TestLessonPlan_MarshalNilRows(t *testing.T) {
	data, err := json.Marshal(LessonPlan{})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if string(decoded["rows"]) == "null" {
		t.Error("nil rows should marshal as {}, got null")
	}
}

func TestStandardCategory_MarshalNilStandards(t *testing.T) {
	data, err := json.Marshal(StandardCategory{Domain: "Geometry"})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if string(decoded["standards"]) == "null" {
		t.Error("nil standards should marshal as [], got null")
	}
}
