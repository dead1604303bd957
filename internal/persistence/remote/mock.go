package remote

import (
	"context"
	"time"

	"github.com/justsurfingit/brightpath/internal/idgen"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/stats"
)

// Mock fabricates backend answers from a fixed sample. It keeps no state:
// creations, updates and deletions are acknowledged but not remembered.
type Mock struct {
	Now   func() time.Time
	NewID func() string
}

var _ Backend = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{Now: time.Now, NewID: idgen.New}
}

// SampleApplications is the fixed collection the mock serves.
func SampleApplications() []models.Application {
	return []models.Application{
		{
			ID:              "1",
			Company:         "TechCorp",
			Position:        "Full Stack Developer",
			ApplicationDate: "2024-01-15",
			Status:          models.StatusPending,
			Location:        "Paris",
			Salary:          "45k-55k€",
			ContactPerson:   "Marie Dupont",
			ContactEmail:    "marie.dupont@techcorp.com",
			ContactPhone:    "01 23 45 67 89",
			JobDescription:  "Building modern web applications",
			Notes:           "Interview planned next week",
			CreatedAt:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:              "2",
			Company:         "StartupXYZ",
			Position:        "Lead Developer",
			ApplicationDate: "2024-01-10",
			Status:          models.StatusInterview,
			Location:        "Lyon",
			Salary:          "60k-80k€",
			ContactPerson:   "Jean Martin",
			ContactEmail:    "jean.martin@startupxyz.com",
			ContactPhone:    "04 78 90 12 34",
			JobDescription:  "Leading a team of developers",
			Notes:           "Second interview scheduled",
			CreatedAt:       time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2024, 1, 12, 16, 45, 0, 0, time.UTC),
		},
	}
}

func (m *Mock) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now().UTC()
}

func (m *Mock) List(_ context.Context, f models.Filters) (models.ListResult, error) {
	return models.Query(SampleApplications(), f), nil
}

// Get answers with the first sample under the requested id.
func (m *Mock) Get(_ context.Context, id string) (*models.Application, error) {
	app := SampleApplications()[0]
	app.ID = id
	return &app, nil
}

// Create rejects an invalid application date the way Client does.
func (m *Mock) Create(_ context.Context, in models.ApplicationInput) (*models.Application, error) {
	date, err := models.NormalizeDate(in.ApplicationDate)
	if err != nil {
		return nil, err
	}
	in.ApplicationDate = date

	newID := m.NewID
	if newID == nil {
		newID = idgen.New
	}
	app := in.NewApplication("mock-"+newID(), m.now())
	return &app, nil
}

func (m *Mock) Update(_ context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	if patch.ApplicationDate != nil {
		date, err := models.NormalizeDate(*patch.ApplicationDate)
		if err != nil {
			return nil, err
		}
		patch.ApplicationDate = &date
	}

	app := SampleApplications()[0]
	app.ID = id
	patch.Apply(&app)
	app.UpdatedAt = m.now()
	return &app, nil
}

func (m *Mock) Delete(context.Context, string) (bool, error) {
	return true, nil
}

func (m *Mock) Stats(context.Context) (models.Stats, error) {
	return stats.Calculate(SampleApplications()), nil
}
