package model

import (
	"fmt"
	"strings"
	"time"
)

// Progress is the (completed, total) pair tracking how many pipeline stages
// are done. A project is completed exactly when Completed == Total.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// IsCompleted reports whether every stage is done.
func (p Progress) IsCompleted() bool {
	return p.Completed == p.Total
}

// IsOngoing reports whether at least one stage remains.
func (p Progress) IsOngoing() bool {
	return p.Completed < p.Total
}

// NewProgress returns the initial progress value for a fresh project.
func NewProgress() Progress {
	return Progress{Completed: 0, Total: StageCount}
}

// Project is one client engagement tracked through the production pipeline.
// ClientName is a free-text copy of the client's display name, not a foreign
// key into the client store. Date is the start date as an ISO calendar-date
// string, used only for sorting.
type Project struct {
	ID            string    `json:"id"`
	ProjectName   string    `json:"projectName"`
	ClientName    string    `json:"clientName"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email"`
	Date          string    `json:"date"`
	Progress      Progress  `json:"progress"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidationError reports missing required fields on create.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("all fields are required (missing: %s)", strings.Join(e.Missing, ", "))
}

// ValidateRequired checks the fields the assignment form must supply.
func (p *Project) ValidateRequired() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"projectName", p.ProjectName},
		{"clientName", p.ClientName},
		{"contactNumber", p.ContactNumber},
		{"email", p.Email},
		{"date", p.Date},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
