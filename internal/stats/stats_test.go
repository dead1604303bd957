package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justsurfingit/brightpath/internal/models"
)

func collection(statuses ...models.Status) []models.Application {
	apps := make([]models.Application, len(statuses))
	for i, s := range statuses {
		apps[i] = models.Application{ID: string(rune('a' + i)), Status: s}
	}
	return apps
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		apps     []models.Application
		expected models.Stats
	}{
		{"empty collection", nil, models.Stats{}},
		{"single pending", collection(models.StatusPending), models.Stats{Total: 1, Pending: 1}},
		{
			"one of each plus extra interviews",
			collection(models.StatusPending, models.StatusInterview, models.StatusInterview, models.StatusRejected, models.StatusAccepted),
			models.Stats{Total: 5, Pending: 1, Interview: 2, Rejected: 1, Accepted: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.apps)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len(tt.apps), got.Total)
			assert.Equal(t, got.Total, got.Pending+got.Interview+got.Rejected+got.Accepted)
		})
	}
}

func TestCalculate_OrderIndependent(t *testing.T) {
	a := collection(models.StatusRejected, models.StatusPending, models.StatusAccepted)
	b := []models.Application{a[2], a[0], a[1]}
	assert.Equal(t, Calculate(a), Calculate(b))
	assert.Equal(t, Calculate(a), Calculate(a))
}
