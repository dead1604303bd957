// Package stats derives per-status counts from a collection.
package stats

import "github.com/justsurfingit/brightpath/internal/models"

// Calculate counts apps by status. Total is len(apps); applications with a
// status outside the four known values only count towards Total.
func Calculate(apps []models.Application) models.Stats {
	s := models.Stats{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInterview:
			s.Interview++
		case models.StatusRejected:
			s.Rejected++
		case models.StatusAccepted:
			s.Accepted++
		}
	}
	return s
}
