package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTaskValidate(t *testing.T) {
	cases := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{name: "valid", task: Task{Title: "Buy milk", Description: "2%"}},
		{name: "missing title", task: Task{Description: "2%"}, wantErr: "title required"},
		{name: "blank description", task: Task{Title: "Buy milk", Description: "  "}, wantErr: "description required"},
		{name: "both missing", task: Task{}, wantErr: "title and description required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestTaskPatchApplyOnlySuppliedFields(t *testing.T) {
	base := Task{Title: "Buy milk", Description: "2%", CreatedBy: "owner-1"}
	done := true
	on := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	got := TaskPatch{IsCompleted: &done, CompletedOn: &on}.Apply(base)

	if got.Title != "Buy milk" || got.Description != "2%" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.IsCompleted {
		t.Fatal("expected isCompleted = true")
	}
	if got.CompletedOn == nil || !got.CompletedOn.Equal(on) {
		t.Fatalf("completedOn = %v, want %v", got.CompletedOn, on)
	}
	if got.CreatedBy != "owner-1" {
		t.Fatalf("createdBy = %q, want owner-1", got.CreatedBy)
	}
	if base.IsCompleted {
		t.Fatal("Apply must not mutate the original task")
	}
}

func TestTaskPatchEmpty(t *testing.T) {
	if !(TaskPatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	title := "x"
	if (TaskPatch{Title: &title}).Empty() {
		t.Fatal("patch with title should not be empty")
	}
}
