package model

import (
	"errors"
	"testing"
)

func validProject() *Project {
	return &Project{
		ProjectName:   "Brand Film",
		ClientName:    "Acme",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		ContactNumber: "555-0100",
		Email:         "ada@acme.example",
		Date:          "2024-01-15",
		Progress:      NewProgress(),
	}
}

func TestValidateRequired(t *testing.T) {
	if err := validProject().ValidateRequired(); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
}

func TestValidateRequiredMissingFields(t *testing.T) {
	p := validProject()
	p.ProjectName = ""
	p.Email = "   "

	err := p.ValidateRequired()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(validationErr.Missing) != 2 {
		t.Errorf("expected 2 missing fields, got %v", validationErr.Missing)
	}
}

func TestProgressStatus(t *testing.T) {
	ongoing := Progress{Completed: 11, Total: 12}
	if !ongoing.IsOngoing() || ongoing.IsCompleted() {
		t.Error("11/12 must be ongoing, not completed")
	}

	completed := Progress{Completed: 12, Total: 12}
	if !completed.IsCompleted() || completed.IsOngoing() {
		t.Error("12/12 must be completed, not ongoing")
	}
}

func TestNewProgress(t *testing.T) {
	p := NewProgress()
	if p.Completed != 0 {
		t.Errorf("expected fresh progress at 0, got %d", p.Completed)
	}
	if p.Total != StageCount {
		t.Errorf("expected total %d, got %d", StageCount, p.Total)
	}
}
