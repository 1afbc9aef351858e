package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

// ReconcileReport summarises one pass over the active tournaments.
type ReconcileReport struct {
	Scanned     int
	Transitions int
	Failures    int
}

// ReconcileService is the external trigger for time-based status
// transitions. A scheduler runs Run periodically; each pass is idempotent
// and safe to overlap with user-initiated operations, since individual
// records are reconciled through the registry's single-record updates.
// When a broadcast service is attached, participants are told about the
// transitions their tournament went through.
type ReconcileService struct {
	registry  *RegistryService
	broadcast *BroadcastService
	logger    *logging.Logger
}

func NewReconcileService(registry *RegistryService, broadcast *BroadcastService, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		registry:  registry,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Run reconciles every upcoming and live tournament. A failure on one
// record is counted and logged without stopping the pass.
func (s *ReconcileService) Run(ctx context.Context) (ReconcileReport, error) {
	active, err := s.registry.ListByStatus(ctx, tournament.ActiveStatuses...)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("list active tournaments: %w", err)
	}

	report := ReconcileReport{Scanned: len(active)}
	for _, t := range active {
		reconciled, changed, err := s.registry.ReconcileStatusByTime(ctx, t)
		if err != nil {
			report.Failures++
			s.logger.WarnContext(ctx, "reconcile failed", "tournament_id", t.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}
		report.Transitions++
		s.announce(ctx, reconciled)
	}

	if report.Transitions > 0 || report.Failures > 0 {
		s.logger.InfoContext(ctx, "reconcile pass finished",
			"scanned", report.Scanned,
			"transitions", report.Transitions,
			"failures", report.Failures,
		)
	}
	return report, nil
}

// announce fans the transition out to the roster. Delivery is best-effort;
// the transition itself is already durable.
func (s *ReconcileService) announce(ctx context.Context, t tournament.Tournament) {
	if s.broadcast == nil || len(t.Participants) == 0 {
		return
	}

	var text string
	switch t.Status {
	case tournament.StatusLive:
		text = transitionLiveMessage(t)
	case tournament.StatusCompleted:
		text = fmt.Sprintf("%s has ended. Results will be announced shortly.", t.Name)
	default:
		return
	}

	report := s.broadcast.Send(ctx, t.Participants, text)
	if report.Failed() > 0 {
		s.logger.WarnContext(ctx, "transition announcement partially delivered",
			"tournament_id", t.ID,
			"status", string(t.Status),
			"failed", report.Failed(),
		)
	}
}

func transitionLiveMessage(t tournament.Tournament) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is starting now!", t.Name)
	if t.RoomID != "" {
		fmt.Fprintf(&b, "\nRoom ID: %s", t.RoomID)
	}
	if t.RoomPassword != "" {
		fmt.Fprintf(&b, "\nPassword: %s", t.RoomPassword)
	}
	return b.String()
}
