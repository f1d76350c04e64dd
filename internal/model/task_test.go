package model

import (
	"errors"
	"testing"
	"time"
)

func TestDraftValidateSuccess(t *testing.T) {
	draft := Draft{
		Title: "Water the plants",
		Date:  "2026-09-01",
		Time:  "09:30",
	}
	if err := draft.Validate(); err != nil {
		t.Fatalf("expected valid draft, got error: %v", err)
	}
}

func TestDraftValidateErrors(t *testing.T) {
	cases := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"empty title", Draft{Title: "  ", Date: "2026-09-01", Time: "09:30"}, ErrEmptyTitle},
		{"bad date", Draft{Title: "x", Date: "01/09/2026", Time: "09:30"}, ErrBadDate},
		{"bad time", Draft{Title: "x", Date: "2026-09-01", Time: "9h30"}, ErrBadTime},
		{"missing time", Draft{Title: "x", Date: "2026-09-01"}, ErrBadTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if err == nil || !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTaskDueAt(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	task := Task{ID: "task-1", Date: "2026-09-01", Time: "14:45"}

	due, err := task.DueAt(loc)
	if err != nil {
		t.Fatalf("due at: %v", err)
	}
	want := time.Date(2026, 9, 1, 14, 45, 0, 0, loc)
	if !due.Equal(want) {
		t.Fatalf("unexpected due moment: got %v want %v", due, want)
	}
}

func TestTaskDueAtRejectsMalformedFields(t *testing.T) {
	task := Task{ID: "task-1", Date: "tomorrow", Time: "14:45"}
	if _, err := task.DueAt(time.UTC); err == nil {
		t.Fatal("expected error for malformed date, got nil")
	}
}

func TestTaskSameSlot(t *testing.T) {
	a := Task{ID: "a", Title: "Standup", Date: "2026-09-01", Time: "09:00"}
	b := Task{ID: "b", Title: "Standup", Date: "2026-09-01", Time: "09:00"}
	c := Task{ID: "c", Title: "Standup", Date: "2026-09-01", Time: "10:00"}

	if !a.SameSlot(b) {
		t.Fatal("expected identical slots to match")
	}
	if a.SameSlot(c) {
		t.Fatal("expected different times not to match")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := []Task{{ID: "a", Title: "one"}, {ID: "b", Title: "two"}}
	cp := Clone(orig)
	cp[0].Title = "changed"
	if orig[0].Title != "one" {
		t.Fatalf("clone leaked mutation: %q", orig[0].Title)
	}
}
