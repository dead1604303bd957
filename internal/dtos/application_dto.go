package dtos

import (
	"time"

	"github.com/justsurfingit/brightpath/internal/models"
)

// ApplicationRequest is the POST /applications body.
type ApplicationRequest struct {
	Company         string `json:"company" binding:"required"`
	Position        string `json:"position" binding:"required"`
	ApplicationDate string `json:"application_date" binding:"required"`

	// Optional Fields
	Status         string `json:"status" binding:"omitempty,oneof=pending interview rejected accepted"` // Defaults to "pending" if empty
	Location       string `json:"location"`
	Salary         string `json:"salary"`
	ContactPerson  string `json:"contact_person"`
	ContactEmail   string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone   string `json:"contact_phone"`
	JobDescription string `json:"job_description"`
	Notes          string `json:"notes"`
}

func (r ApplicationRequest) Input() models.ApplicationInput {
	return models.ApplicationInput{
		Company:         r.Company,
		Position:        r.Position,
		ApplicationDate: r.ApplicationDate,
		Status:          models.Status(r.Status),
		Location:        r.Location,
		Salary:          r.Salary,
		ContactPerson:   r.ContactPerson,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		JobDescription:  r.JobDescription,
		Notes:           r.Notes,
	}
}

// ApplicationUpdateRequest is the PUT /applications/:id body. Absent fields are left untouched.
type ApplicationUpdateRequest struct {
	Company         *string `json:"company"`
	Position        *string `json:"position"`
	ApplicationDate *string `json:"application_date"`
	Status          *string `json:"status" binding:"omitempty,oneof=pending interview rejected accepted"`
	Location        *string `json:"location"`
	Salary          *string `json:"salary"`
	ContactPerson   *string `json:"contact_person"`
	ContactEmail    *string `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone"`
	JobDescription  *string `json:"job_description"`
	Notes           *string `json:"notes"`
}

func (r ApplicationUpdateRequest) Patch() models.ApplicationPatch {
	p := models.ApplicationPatch{
		Company:         r.Company,
		Position:        r.Position,
		ApplicationDate: r.ApplicationDate,
		Location:        r.Location,
		Salary:          r.Salary,
		ContactPerson:   r.ContactPerson,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		JobDescription:  r.JobDescription,
		Notes:           r.Notes,
	}
	if r.Status != nil {
		s := models.Status(*r.Status)
		p.Status = &s
	}
	return p
}

// ApplicationResponse is one application on the wire.
type ApplicationResponse struct {
	ID              string    `json:"id"`
	Company         string    `json:"company"`
	Position        string    `json:"position"`
	ApplicationDate string    `json:"application_date"`
	Status          string    `json:"status"`
	Location        string    `json:"location,omitempty"`
	Salary          string    `json:"salary,omitempty"`
	ContactPerson   string    `json:"contact_person,omitempty"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	ContactPhone    string    `json:"contact_phone,omitempty"`
	JobDescription  string    `json:"job_description,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewApplicationResponse(a models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		Company:         a.Company,
		Position:        a.Position,
		ApplicationDate: a.ApplicationDate,
		Status:          string(a.Status),
		Location:        a.Location,
		Salary:          a.Salary,
		ContactPerson:   a.ContactPerson,
		ContactEmail:    a.ContactEmail,
		ContactPhone:    a.ContactPhone,
		JobDescription:  a.JobDescription,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ListApplicationsQuery is the GET /applications query string.
type ListApplicationsQuery struct {
	Status         string `form:"status" binding:"omitempty,oneof=pending interview rejected accepted"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
	OrderBy        string `form:"orderBy"`
	OrderDirection string `form:"orderDirection" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (q ListApplicationsQuery) Filters() models.Filters {
	return models.Filters{
		Status:         models.Status(q.Status),
		Limit:          q.Limit,
		Offset:         q.Offset,
		OrderBy:        q.OrderBy,
		OrderDirection: q.OrderDirection,
	}
}

type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

func NewListApplicationsResponse(res models.ListResult) ListApplicationsResponse {
	out := ListApplicationsResponse{
		Applications: make([]ApplicationResponse, 0, len(res.Applications)),
		Total:        res.Total,
		Page:         res.Page,
		Limit:        res.Limit,
	}
	for _, a := range res.Applications {
		out.Applications = append(out.Applications, NewApplicationResponse(a))
	}
	return out
}

// ErrorResponse is the body of every non-success answer.
type ErrorResponse struct {
	Message string `json:"message"`
}
