package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
)

// DefaultGmailQuery selects recruiting emails of the last week for a bootstrap sync.
const DefaultGmailQuery = "subject:(application OR interview OR update OR offer OR rejected OR status) newer_than:7d"

// GmailSource reads the authenticated user's mailbox.
type GmailSource struct {
	Service    *gmail.Service
	Query      string
	MaxResults int64
	// Sleep waits between retries; tests replace it.
	Sleep func(time.Duration)

	logger *zap.SugaredLogger
}

var _ MailSource = (*GmailSource)(nil)

func NewGmailSource(service *gmail.Service, l *zap.SugaredLogger) *GmailSource {
	return &GmailSource{
		Service:    service,
		Query:      DefaultGmailQuery,
		MaxResults: 50,
		Sleep:      time.Sleep,
		logger:     logger.OrNop(l),
	}
}

// Fetch runs a bootstrap sync for a zero cursor and an incremental one otherwise.
// An expired history id falls back to a bootstrap.
func (g *GmailSource) Fetch(ctx context.Context, cursor uint64) ([]Message, uint64, error) {
	if cursor == 0 {
		g.logger.Infow("First run, bootstrapping from recent mail")
		return g.fullSync(ctx)
	}
	msgs, next, err := g.incrementalSync(ctx, cursor)
	if isHistoryExpired(err) {
		g.logger.Warnw("History id expired, falling back to a full sync", "cursor", cursor)
		return g.fullSync(ctx)
	}
	return msgs, next, err
}

func (g *GmailSource) fullSync(ctx context.Context) ([]Message, uint64, error) {
	var resp *gmail.ListMessagesResponse
	err := g.retry(3, time.Second, func() error {
		var err error
		resp, err = g.Service.Users.Messages.List("me").Q(g.Query).MaxResults(g.MaxResults).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "list messages")
	}

	// the profile's history id anchors the next incremental sync
	profile, err := g.Service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, 0, errors.Wrap(err, "get profile")
	}
	return g.expand(ctx, resp.Messages), profile.HistoryId, nil
}

func (g *GmailSource) incrementalSync(ctx context.Context, start uint64) ([]Message, uint64, error) {
	var resp *gmail.ListHistoryResponse
	err := g.retry(3, time.Second, func() error {
		var err error
		resp, err = g.Service.Users.History.List("me").
			StartHistoryId(start).
			HistoryTypes("messageAdded").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	var added []*gmail.Message
	for _, h := range resp.History {
		for _, m := range h.MessagesAdded {
			if m.Message != nil {
				added = append(added, m.Message)
			}
		}
	}
	return g.expand(ctx, added), resp.HistoryId, nil
}

// expand fetches each message in full. Messages that cannot be fetched are skipped.
func (g *GmailSource) expand(ctx context.Context, refs []*gmail.Message) []Message {
	out := make([]Message, 0, len(refs))
	for _, ref := range refs {
		var full *gmail.Message
		err := g.retry(2, 500*time.Millisecond, func() error {
			var err error
			full, err = g.Service.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			return err
		})
		if err != nil {
			g.logger.Warnw("Skipping message", "id", ref.Id, "error", err)
			continue
		}
		out = append(out, toMessage(full))
	}
	return out
}

// retry calls f up to attempts times with exponential backoff.
// A 404 is returned at once so the caller can fall back to a full sync.
func (g *GmailSource) retry(attempts int, wait time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil || isHistoryExpired(err) {
			return err
		}
		if i < attempts-1 {
			g.logger.Debugw("Gmail call failed, retrying", "error", err, "wait", wait)
			g.Sleep(wait)
			wait *= 2
		}
	}
	return errors.Wrapf(err, "failed after %d attempts", attempts)
}

func isHistoryExpired(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func toMessage(m *gmail.Message) Message {
	msg := Message{ID: m.Id}
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "Subject":
			msg.Subject = h.Value
		case "From":
			msg.From = h.Value
		}
	}
	msg.Body = messageBody(m.Payload)
	return msg
}

// messageBody prefers the top-level body, then text/plain parts, then text/html parts.
func messageBody(p *gmail.MessagePart) string {
	if p.Body != nil && p.Body.Data != "" {
		return decodeBody(p.Body.Data)
	}
	for _, mime := range []string{"text/plain", "text/html"} {
		for _, part := range p.Parts {
			if part.MimeType == mime && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
	}
	return ""
}

// decodeBody accepts padded and unpadded URL-safe base64.
func decodeBody(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}
