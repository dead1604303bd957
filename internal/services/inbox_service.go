package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/persistence"
	"github.com/justsurfingit/brightpath/internal/storage"
)

const (
	cursorKey    = "brightpath_inbox_cursor"
	processedKey = "brightpath_inbox_processed"

	// maxProcessed bounds the remembered message ids; the oldest are forgotten first.
	maxProcessed = 1000

	// syncTimeout bounds one sync cycle.
	syncTimeout = 2 * time.Minute
)

// Message is one email relevant to the sync.
type Message struct {
	ID      string
	Subject string
	From    string
	Body    string
}

// MailSource fetches the messages received since cursor.
// A zero cursor asks for a bootstrap; the returned cursor is the new bookmark.
type MailSource interface {
	Fetch(ctx context.Context, cursor uint64) ([]Message, uint64, error)
}

// StatusAnalyzer reads recruiting emails.
type StatusAnalyzer interface {
	AnalyzeEmailStatus(ctx context.Context, company, subject, body string) (StatusVerdict, error)
	IdentifyPosition(ctx context.Context, positions []string, subject, body string) (int, error)
}

// SyncReport counts what one sync did.
type SyncReport struct {
	Fetched int
	Skipped int // already processed
	Matched int
	Updated int
}

// InboxService moves applications forward from the emails a candidate receives.
type InboxService struct {
	Store    persistence.Store
	Source   MailSource
	Analyzer StatusAnalyzer
	State    storage.Storage

	logger *zap.SugaredLogger
	mu     sync.Mutex
}

func NewInboxService(store persistence.Store, source MailSource, analyzer StatusAnalyzer, state storage.Storage, l *zap.SugaredLogger) *InboxService {
	return &InboxService{
		Store:    store,
		Source:   source,
		Analyzer: analyzer,
		State:    state,
		logger:   logger.OrNop(l),
	}
}

// StartWatcher syncs immediately, then every interval, until ctx is done.
func (s *InboxService) StartWatcher(ctx context.Context, interval time.Duration) error {
	if s.Source == nil {
		return errors.New("inbox watcher disabled: no mail source")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := s.Sync(ctx)
		if err != nil {
			s.logger.Warnw("Inbox sync failed", "error", err)
		} else {
			s.logger.Infow("Inbox sync finished", "fetched", report.Fetched, "updated", report.Updated)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sync runs one cycle: fetch, deduplicate, match, analyze, update.
func (s *InboxService) Sync(ctx context.Context) (SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	var report SyncReport
	cursor, err := s.cursor(ctx)
	if err != nil {
		return report, err
	}
	processed, err := s.processed(ctx)
	if err != nil {
		return report, err
	}

	messages, next, err := s.Source.Fetch(ctx, cursor)
	if err != nil {
		return report, errors.Wrap(err, "fetch messages")
	}
	report.Fetched = len(messages)

	apps, err := s.Store.Load(ctx)
	if err != nil {
		return report, errors.Wrap(err, "load applications")
	}

	seen := make(map[string]bool, len(processed))
	for _, id := range processed {
		seen[id] = true
	}
	for _, msg := range messages {
		if seen[msg.ID] {
			report.Skipped++
			continue
		}
		matched, updated := s.process(ctx, apps, msg)
		if matched {
			report.Matched++
		}
		if updated != nil {
			report.Updated++
			replace(apps, *updated)
		}
		seen[msg.ID] = true
		processed = append(processed, msg.ID)
	}

	if err := s.saveProcessed(ctx, processed); err != nil {
		return report, err
	}
	if next > cursor {
		if err := s.State.SetItem(ctx, cursorKey, strconv.FormatUint(next, 10)); err != nil {
			return report, errors.Wrap(err, "save inbox cursor")
		}
	}
	return report, nil
}

// process handles one message. It reports whether an application matched and the updated one, if any.
func (s *InboxService) process(ctx context.Context, apps []models.Application, msg Message) (bool, *models.Application) {
	log := s.logger.With("message", msg.ID, "subject", truncate(msg.Subject, 40))

	candidates := MatchApplications(apps, msg.Subject, msg.From)
	if len(candidates) == 0 {
		log.Debugw("No application matches the email")
		return false, nil
	}
	candidates = NarrowByPosition(candidates, msg.Subject, msg.Body)

	target := candidates[0]
	if len(candidates) > 1 {
		positions := make([]string, len(candidates))
		for i, c := range candidates {
			positions[i] = c.Position
		}
		idx, err := s.Analyzer.IdentifyPosition(ctx, positions, msg.Subject, msg.Body)
		if err != nil || idx < 0 || idx >= len(candidates) {
			log.Infow("Ambiguous email, skipped", "candidates", len(candidates), "error", err)
			return true, nil
		}
		target = candidates[idx]
	}

	verdict, err := s.Analyzer.AnalyzeEmailStatus(ctx, target.Company, msg.Subject, msg.Body)
	if err != nil {
		log.Warnw("Email analysis failed", "error", err)
		return true, nil
	}
	if verdict.Status == "" || verdict.Status == target.Status {
		log.Debugw("No status change", "status", target.Status, "summary", verdict.Summary)
		return true, nil
	}

	updated, err := s.Store.Update(ctx, target.ID, models.StatusPatch(verdict.Status))
	if err != nil || updated == nil {
		log.Warnw("Status update failed", "id", target.ID, "error", err)
		return true, nil
	}
	log.Infow("Application status updated from email",
		"id", target.ID, "company", target.Company, "from", target.Status, "to", updated.Status, "summary", verdict.Summary)
	return true, updated
}

func (s *InboxService) cursor(ctx context.Context) (uint64, error) {
	raw, ok, err := s.State.GetItem(ctx, cursorKey)
	if err != nil {
		return 0, errors.Wrap(err, "read inbox cursor")
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.logger.Warnw("Inbox cursor unreadable, starting over", "value", raw)
		return 0, nil
	}
	return n, nil
}

func (s *InboxService) processed(ctx context.Context) ([]string, error) {
	raw, ok, err := s.State.GetItem(ctx, processedKey)
	if err != nil {
		return nil, errors.Wrap(err, "read processed messages")
	}
	var ids []string
	if ok && json.Unmarshal([]byte(raw), &ids) != nil {
		s.logger.Warnw("Processed message list unreadable, starting over")
		ids = nil
	}
	return ids, nil
}

func (s *InboxService) saveProcessed(ctx context.Context, ids []string) error {
	if len(ids) > maxProcessed {
		ids = ids[len(ids)-maxProcessed:]
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "encode processed messages")
	}
	if err := s.State.SetItem(ctx, processedKey, string(raw)); err != nil {
		return errors.Wrap(err, "save processed messages")
	}
	return nil
}

func replace(apps []models.Application, app models.Application) {
	for i := range apps {
		if apps[i].ID == app.ID {
			apps[i] = app
			return
		}
	}
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
