package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInterview Status = "interview"
	StatusRejected  Status = "rejected"
	StatusAccepted  Status = "accepted"
)

// Statuses lists every valid status, in display order.
var Statuses = []Status{StatusPending, StatusInterview, StatusRejected, StatusAccepted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInterview, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// Active reports whether the application is still waiting on an outcome.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInterview
}

// Application is one tracked job application.
// The JSON form is the internal (camelCase) naming used by local storage.
type Application struct {
	ID              string `json:"id"`
	Company         string `json:"company"`
	Position        string `json:"position"`
	ApplicationDate string `json:"applicationDate"`
	Status          Status `json:"status"`

	Location       string `json:"location,omitempty"`
	Salary         string `json:"salary,omitempty"`
	ContactPerson  string `json:"contactPerson,omitempty"`
	ContactEmail   string `json:"contactEmail,omitempty"`
	ContactPhone   string `json:"contactPhone,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
	Notes          string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplicationInput is an application before it has an id and timestamps.
type ApplicationInput struct {
	Company         string `json:"company" validate:"required"`
	Position        string `json:"position" validate:"required"`
	ApplicationDate string `json:"applicationDate" validate:"required,calendardate"`
	Status          Status `json:"status,omitempty" validate:"omitempty,status"`

	Location       string `json:"location,omitempty"`
	Salary         string `json:"salary,omitempty"`
	ContactPerson  string `json:"contactPerson,omitempty"`
	ContactEmail   string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone   string `json:"contactPhone,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// NewApplication materializes the input. An empty status becomes pending.
func (in ApplicationInput) NewApplication(id string, now time.Time) Application {
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	return Application{
		ID:              id,
		Company:         in.Company,
		Position:        in.Position,
		ApplicationDate: in.ApplicationDate,
		Status:          status,
		Location:        in.Location,
		Salary:          in.Salary,
		ContactPerson:   in.ContactPerson,
		ContactEmail:    in.ContactEmail,
		ContactPhone:    in.ContactPhone,
		JobDescription:  in.JobDescription,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplicationPatch carries the fields of a partial update; nil means untouched.
type ApplicationPatch struct {
	Company         *string `json:"company,omitempty"`
	Position        *string `json:"position,omitempty"`
	ApplicationDate *string `json:"applicationDate,omitempty"`
	Status          *Status `json:"status,omitempty"`

	Location       *string `json:"location,omitempty"`
	Salary         *string `json:"salary,omitempty"`
	ContactPerson  *string `json:"contactPerson,omitempty"`
	ContactEmail   *string `json:"contactEmail,omitempty"`
	ContactPhone   *string `json:"contactPhone,omitempty"`
	JobDescription *string `json:"jobDescription,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// StatusPatch is the patch of a status-only change.
func StatusPatch(s Status) ApplicationPatch {
	return ApplicationPatch{Status: &s}
}

// Apply merges the patch into a. Timestamps are left to the caller.
func (p ApplicationPatch) Apply(a *Application) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.Company, p.Company)
	set(&a.Position, p.Position)
	set(&a.ApplicationDate, p.ApplicationDate)
	if p.Status != nil {
		a.Status = *p.Status
	}
	set(&a.Location, p.Location)
	set(&a.Salary, p.Salary)
	set(&a.ContactPerson, p.ContactPerson)
	set(&a.ContactEmail, p.ContactEmail)
	set(&a.ContactPhone, p.ContactPhone)
	set(&a.JobDescription, p.JobDescription)
	set(&a.Notes, p.Notes)
}

func (p ApplicationPatch) IsEmpty() bool {
	return p == ApplicationPatch{}
}

// Stats is a derived per-status snapshot of a collection.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Interview int `json:"interview"`
	Rejected  int `json:"rejected"`
	Accepted  int `json:"accepted"`
}

// Count returns the number of applications with status s.
func (s Stats) Count(status Status) int {
	switch status {
	case StatusPending:
		return s.Pending
	case StatusInterview:
		return s.Interview
	case StatusRejected:
		return s.Rejected
	case StatusAccepted:
		return s.Accepted
	}
	return 0
}

// Filters narrows and orders a listing. Zero values mean "not set".
type Filters struct {
	Status         Status
	Limit          int
	Offset         int
	OrderBy        string
	OrderDirection string
}

// Descending reports whether the listing is ordered high to low.
func (f Filters) Descending() bool {
	return strings.EqualFold(f.OrderDirection, "desc")
}

// ListResult is one page of a listing.
type ListResult struct {
	Applications []Application
	Total        int
	Page         int
	Limit        int
}
