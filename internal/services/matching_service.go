package services

import (
	"net/mail"
	"strings"

	"github.com/justsurfingit/brightpath/internal/models"
)

// minCompanyName is the shortest company name that is matched; "X" or "Go" would match everything.
const minCompanyName = 3

// MatchApplications returns the active applications an email is about, matched on company
// name in the subject, the sender display name or the sender domain.
func MatchApplications(apps []models.Application, subject, rawSender string) []models.Application {
	senderName, senderAddr := "", ""
	if parsed, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(parsed.Name)
		senderAddr = strings.ToLower(parsed.Address)
	} else {
		senderAddr = strings.ToLower(rawSender)
	}
	domain := ""
	if at := strings.LastIndex(senderAddr, "@"); at >= 0 {
		domain = senderAddr[at+1:]
	}
	subjectLower := strings.ToLower(subject)

	var matched []models.Application
	for _, app := range apps {
		if !app.Status.Active() {
			continue
		}
		company := strings.ToLower(strings.TrimSpace(app.Company))
		if len(company) < minCompanyName {
			continue
		}
		// "Stripe Inc" should still match jobs@stripe.com
		compact := strings.ReplaceAll(strings.Fields(company)[0], "-", "")

		switch {
		case strings.Contains(subjectLower, company):
		case senderName != "" && strings.Contains(senderName, company):
		case domain != "" && len(compact) >= minCompanyName && strings.Contains(domain, compact):
		default:
			continue
		}
		matched = append(matched, app)
	}
	return matched
}

// NarrowByPosition keeps the candidates whose position is named in the email.
// It returns candidates unchanged when none or all of them are.
func NarrowByPosition(candidates []models.Application, subject, body string) []models.Application {
	text := strings.ToLower(subject + "\n" + body)
	var named []models.Application
	for _, app := range candidates {
		if p := strings.ToLower(strings.TrimSpace(app.Position)); p != "" && strings.Contains(text, p) {
			named = append(named, app)
		}
	}
	if len(named) == 0 {
		return candidates
	}
	return named
}
