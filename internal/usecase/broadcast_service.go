package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

// Notifier delivers one text message to one chat recipient. Implementations
// live at the infrastructure edge (Telegram Bot API).
type Notifier interface {
	Send(ctx context.Context, recipientID, text string) error
}

const defaultBroadcastWorkers = 8

// BroadcastReport aggregates a fan-out: how many sends were attempted and
// how many reached the platform. Per-recipient failures are logged, never
// retried, and never abort the rest of the batch.
type BroadcastReport struct {
	Attempted int
	Sent      int
}

func (r BroadcastReport) Failed() int {
	return r.Attempted - r.Sent
}

// BroadcastService fans one message out to many recipients over a bounded
// worker pool. Delivery is best-effort and per-recipient isolated.
type BroadcastService struct {
	notifier Notifier
	workers  int
	logger   *logging.Logger
}

func NewBroadcastService(notifier Notifier, workers int, logger *logging.Logger) *BroadcastService {
	if workers < 1 {
		workers = defaultBroadcastWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BroadcastService{
		notifier: notifier,
		workers:  workers,
		logger:   logger,
	}
}

// Send delivers text to every recipient, deduplicating ids, and reports
// the sent/attempted counts. A pool setup failure degrades to sequential
// delivery rather than dropping the batch.
func (s *BroadcastService) Send(ctx context.Context, recipients []string, text string) BroadcastReport {
	unique := dedupe(recipients)
	report := BroadcastReport{Attempted: len(unique)}
	if len(unique) == 0 || text == "" {
		return report
	}

	var sent atomic.Int64

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		s.logger.WarnContext(ctx, "broadcast pool unavailable, sending sequentially", "error", err)
		for _, recipient := range unique {
			if s.deliver(ctx, recipient, text) {
				sent.Add(1)
			}
		}
		report.Sent = int(sent.Load())
		return report
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, recipient := range unique {
		recipient := recipient
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if s.deliver(ctx, recipient, text) {
				sent.Add(1)
			}
		})
		if submitErr != nil {
			// Pool refused the task; deliver inline so the recipient
			// is not silently skipped.
			if s.deliver(ctx, recipient, text) {
				sent.Add(1)
			}
			wg.Done()
		}
	}
	wg.Wait()

	report.Sent = int(sent.Load())
	s.logger.InfoContext(ctx, "broadcast finished",
		"attempted", report.Attempted,
		"sent", report.Sent,
	)
	return report
}

func (s *BroadcastService) deliver(ctx context.Context, recipient, text string) bool {
	if err := s.notifier.Send(ctx, recipient, text); err != nil {
		s.logger.WarnContext(ctx, "broadcast delivery failed", "recipient", recipient, "error", err)
		return false
	}
	return true
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
