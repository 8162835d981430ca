package tasks

import (
	"errors"
	"fmt"
	"testing"

	"tracker/internal/storage"
)

const testKey = "stack_tracker_v2"

type fakeView struct {
	input       string
	category    string
	rendered    []Task
	progress    Progress
	highlighted Filter
	renders     int
}

func (v *fakeView) RenderList(visible []Task, p Progress) {
	v.rendered = visible
	v.progress = p
	v.renders++
}

func (v *fakeView) ReadInput() string        { return v.input }
func (v *fakeView) ReadCategory() string     { return v.category }
func (v *fakeView) HighlightFilter(f Filter) { v.highlighted = f }

type failingKV struct{ storage.Memory }

func (failingKV) Put(string, []byte) error { return errors.New("quota exceeded") }

func sequentialIDs() Option {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func newTestController(t *testing.T) (*Controller, *fakeView, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	view := &fakeView{}
	c := NewController(NewSnapshot(kv, testKey, nil), view, sequentialIDs())
	c.Load()
	return c, view, kv
}

func seed(t *testing.T, c *Controller, list []Task) {
	t.Helper()
	for i := len(list) - 1; i >= 0; i-- {
		added, err := c.Add(list[i].Text, list[i].Category)
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		if list[i].Completed {
			if err := c.Toggle(added.ID); err != nil {
				t.Fatalf("Toggle() error: %v", err)
			}
		}
	}
}

func TestAdd_PrependsNewTask(t *testing.T) {
	t.Parallel()

	c, view, _ := newTestController(t)
	for i, text := range []string{"first", "second", "  third  "} {
		before := len(c.Tasks())
		added, err := c.Add(text, "Frontend")
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		list := c.Tasks()
		if len(list) != before+1 {
			t.Fatalf("step %d: expected %d tasks, got %d", i, before+1, len(list))
		}
		if list[0].ID != added.ID {
			t.Errorf("step %d: new task should be first", i)
		}
		if list[0].Completed {
			t.Errorf("step %d: new task should not be completed", i)
		}
	}
	if got := c.Tasks()[0].Text; got != "third" {
		t.Errorf("text should be trimmed, got %q", got)
	}
	if len(view.rendered) != 3 {
		t.Errorf("expected 3 rendered rows, got %d", len(view.rendered))
	}
}

func TestAdd_BlankTextIsNoop(t *testing.T) {
	t.Parallel()

	c, view, kv := newTestController(t)
	renders := view.renders
	for _, text := range []string{"", "   ", "\t\n"} {
		added, err := c.Add(text, "General")
		if err != nil || added != nil {
			t.Errorf("Add(%q) = %v, %v; want nil, nil", text, added, err)
		}
	}
	if n := len(c.Tasks()); n != 0 {
		t.Errorf("expected no tasks, got %d", n)
	}
	if view.renders != renders {
		t.Errorf("blank add should not re-render")
	}
	if _, ok, _ := kv.Get(testKey); ok {
		t.Errorf("blank add should not write a snapshot")
	}
}

func TestAdd_DefaultsCategory(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t)
	added, _ := c.Add("no category", " ")
	if added.Category != DefaultCategory {
		t.Errorf("got category %q, want %q", added.Category, DefaultCategory)
	}
}

func TestAdd_UniqueIDsByDefault(t *testing.T) {
	t.Parallel()

	c := NewController(NewSnapshot(storage.NewMemory(), testKey, nil), &fakeView{})
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		added, err := c.Add("rapid", "")
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		if seen[added.ID] {
			t.Fatalf("duplicate id %q", added.ID)
		}
		seen[added.ID] = true
	}
}

func TestSubmit_ReadsFromView(t *testing.T) {
	t.Parallel()

	c, view, _ := newTestController(t)
	view.input = "Finalize W02-S03 Testing"
	view.category = "Frontend"
	added, err := c.Submit()
	if err != nil || added == nil {
		t.Fatalf("Submit() = %v, %v", added, err)
	}
	if added.Text != view.input || added.Category != "Frontend" {
		t.Errorf("unexpected task %+v", *added)
	}
}

func TestToggle_Involution(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t)
	added, _ := c.Add("Toggle me!", "General")

	if err := c.Toggle(added.ID); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if !c.Tasks()[0].Completed {
		t.Fatal("expected completed after first toggle")
	}
	if err := c.Toggle(added.ID); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if c.Tasks()[0].Completed {
		t.Fatal("expected pending after second toggle")
	}
}

func TestToggle_UnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestController(t)
	c.Add("a", "")
	c.Add("b", "")
	before := c.Tasks()
	if err := c.Toggle("missing"); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	after := c.Tasks()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	c, view, _ := newTestController(t)
	a, _ := c.Add("a", "")
	b, _ := c.Add("b", "")

	if err := c.Remove("missing"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if n := len(c.Tasks()); n != 2 {
		t.Fatalf("unknown id should not remove anything, have %d", n)
	}

	if err := c.Remove(a.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	list := c.Tasks()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("unexpected list after remove: %+v", list)
	}
	if len(view.rendered) != 1 {
		t.Errorf("view should show 1 row, got %d", len(view.rendered))
	}
}

func TestVisibleTasks(t *testing.T) {
	t.Parallel()

	list := []Task{
		{ID: "1", Text: "Task A (Completed)", Completed: true, Category: "Frontend"},
		{ID: "2", Text: "Task B (Active)", Category: "Frontend"},
		{ID: "3", Text: "Task C (Completed)", Completed: true, Category: "Frontend"},
		{ID: "4", Text: "Task D (Active)", Category: "Frontend"},
	}
	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"1", "2", "3", "4"}},
		{FilterActive, []string{"2", "4"}},
		{FilterCompleted, []string{"1", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			got := VisibleTasks(list, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSetFilter_RendersSubset(t *testing.T) {
	t.Parallel()

	c, view, kv := newTestController(t)
	seed(t, c, []Task{
		{Text: "Task A (Completed)", Completed: true, Category: "Frontend"},
		{Text: "Task B (Active)", Category: "Frontend"},
	})
	saved, _, _ := kv.Get(testKey)

	c.SetFilter(FilterActive)
	if view.highlighted != FilterActive {
		t.Errorf("highlighted %v, want active", view.highlighted)
	}
	if len(view.rendered) != 1 || view.rendered[0].Text != "Task B (Active)" {
		t.Errorf("unexpected rows %+v", view.rendered)
	}

	c.SetFilter(FilterCompleted)
	if len(view.rendered) != 1 || view.rendered[0].Text != "Task A (Completed)" {
		t.Errorf("unexpected rows %+v", view.rendered)
	}

	after, _, _ := kv.Get(testKey)
	if string(saved) != string(after) {
		t.Errorf("changing the filter should not rewrite the snapshot")
	}
}

func TestComputeProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list []Task
		want Progress
	}{
		{"empty", nil, Progress{0, 0, 0}},
		{"half", []Task{{Completed: true}, {Completed: true}, {}, {}}, Progress{2, 4, 50}},
		{"rounds up", []Task{{Completed: true}, {Completed: true}, {}}, Progress{2, 3, 67}},
		{"rounds down", []Task{{Completed: true}, {}, {}}, Progress{1, 3, 33}},
		{"all done", []Task{{Completed: true}}, Progress{1, 1, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeProgress(tt.list); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if s := (Progress{2, 4, 50}).String(); s != "Progress: 2/4 (50%) Mastered" {
		t.Errorf("unexpected summary %q", s)
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for _, f := range Filters() {
		got, err := ParseFilter(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFilter(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFilter("done"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if FilterCompleted.Next() != FilterAll {
		t.Error("Next should wrap to all")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	snap := NewSnapshot(kv, testKey, nil)
	want := []Task{
		{ID: "b", Text: "second", Completed: true, Category: "Backend"},
		{ID: "a", Text: "first", Category: "General"},
	}
	if err := snap.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got := snap.Load()
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSnapshot_LoadEdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []Task
	}{
		{"malformed", `{not json`, nil},
		{"object", `{"id":"1"}`, nil},
		{"null", `null`, nil},
		{"empty array", `[]`, nil},
		{
			"missing category",
			`[{"id":"1","text":"old","completed":true}]`,
			[]Task{{ID: "1", Text: "old", Completed: true, Category: DefaultCategory}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			kv.Put(testKey, []byte(tt.raw))
			got := NewSnapshot(kv, testKey, nil).Load()
			if got == nil {
				t.Fatal("Load should never return nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("task %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSnapshot_MissingKey(t *testing.T) {
	t.Parallel()

	got := NewSnapshot(storage.NewMemory(), testKey, nil).Load()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestController_SaveFailureIsReturned(t *testing.T) {
	t.Parallel()

	kv := &failingKV{Memory: *storage.NewMemory()}
	view := &fakeView{}
	c := NewController(NewSnapshot(kv, testKey, nil), view)
	if _, err := c.Add("x", ""); err == nil {
		t.Fatal("expected write error")
	}
	if len(view.rendered) != 1 {
		t.Errorf("view should still reflect memory, got %d rows", len(view.rendered))
	}
}

func TestController_ReloadResetsFilter(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	view := &fakeView{}
	c := NewController(NewSnapshot(kv, testKey, nil), view, sequentialIDs())
	c.Load()
	c.Add("persist me", "DevOps")
	c.SetFilter(FilterCompleted)

	reloaded := NewController(NewSnapshot(kv, testKey, nil), &fakeView{})
	reloaded.Load()
	if reloaded.Filter() != FilterAll {
		t.Errorf("filter should reset to all, got %v", reloaded.Filter())
	}
	list := reloaded.Tasks()
	if len(list) != 1 || list[0].Text != "persist me" || list[0].Category != "DevOps" {
		t.Errorf("unexpected reloaded list %+v", list)
	}
}

func TestScenario(t *testing.T) {
	t.Parallel()

	c, view, _ := newTestController(t)

	added, err := c.Add("Buy milk", "General")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if len(view.rendered) != 1 || view.rendered[0].Text != "Buy milk" || view.rendered[0].Completed {
		t.Fatalf("after add: %+v", view.rendered)
	}

	c.Toggle(added.ID)
	if !view.rendered[0].Completed {
		t.Fatal("item should show completed")
	}

	c.SetFilter(FilterActive)
	if len(view.rendered) != 0 {
		t.Fatalf("active filter should hide the item, got %+v", view.rendered)
	}

	c.SetFilter(FilterAll)
	if len(view.rendered) != 1 {
		t.Fatal("item should be visible again")
	}

	c.Remove(added.ID)
	if len(view.rendered) != 0 || len(c.Tasks()) != 0 {
		t.Fatal("list should be empty")
	}
	if view.progress != (Progress{}) {
		t.Errorf("progress should be zero, got %+v", view.progress)
	}
}
