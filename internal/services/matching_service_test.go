package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justsurfingit/brightpath/internal/models"
)

func ids(apps []models.Application) []string {
	out := []string{}
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestMatchApplications(t *testing.T) {
	apps := []models.Application{
		{ID: "stripe", Company: "Stripe", Position: "Backend Engineer", Status: models.StatusPending},
		{ID: "stripe-data", Company: "Stripe", Position: "Data Engineer", Status: models.StatusInterview},
		{ID: "go", Company: "Go", Status: models.StatusPending},
		{ID: "acme-closed", Company: "Acme", Status: models.StatusRejected},
		{ID: "globex", Company: "Globex Corporation", Status: models.StatusPending},
	}

	tests := []struct {
		name    string
		subject string
		sender  string
		want    []string
	}{
		{"subject", "Update on your application to Stripe", "noreply@greenhouse.io", []string{"stripe", "stripe-data"}},
		{"sender name", "Your application", "Stripe Recruiting <jobs@greenhouse.io>", []string{"stripe", "stripe-data"}},
		{"sender domain", "Next steps", "Jane <jane@globex.com>", []string{"globex"}},
		{"short names ignored", "Go go go", "team@go.dev", []string{}},
		{"closed applications ignored", "Acme offer", "hr@acme.com", []string{}},
		{"bare address", "Hello", "recruiting@stripe.com", []string{"stripe", "stripe-data"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(MatchApplications(apps, tt.subject, tt.sender)))
		})
	}
}

func TestNarrowByPosition(t *testing.T) {
	candidates := []models.Application{
		{ID: "a", Position: "Backend Engineer"},
		{ID: "b", Position: "Data Engineer"},
	}
	assert.Equal(t, []string{"b"}, ids(NarrowByPosition(candidates, "Your Data Engineer interview", "")))
	assert.Equal(t, []string{"a", "b"}, ids(NarrowByPosition(candidates, "Thanks for applying", "")))
}
