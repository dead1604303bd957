package database

import (
	"time"

	"github.com/justsurfingit/brightpath/internal/models"
)

// ApplicationRow is the persisted form of an application.
type ApplicationRow struct {
	ID              string `gorm:"primaryKey;size:36"`
	Company         string `gorm:"not null;index"`
	Position        string `gorm:"not null"`
	ApplicationDate string `gorm:"size:10;not null"`
	Status          string `gorm:"size:20;not null;index"`
	Location        string
	Salary          string
	ContactPerson   string
	ContactEmail    string
	ContactPhone    string
	JobDescription  string `gorm:"type:text"`
	Notes           string `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (ApplicationRow) TableName() string {
	return "applications"
}

func rowFromModel(a models.Application) ApplicationRow {
	return ApplicationRow{
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

func (r ApplicationRow) model() models.Application {
	return models.Application{
		ID:              r.ID,
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
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}
