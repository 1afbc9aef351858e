package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

func TestReconcileRun(t *testing.T) {
	f := newRegistryFixture(t)
	schedule := fixedNow.Add(-time.Minute)

	seed := []tournament.Tournament{
		{
			ID: "TOUR_READY", Name: "Ready", Type: tournament.TypeSolo,
			Schedule: schedule, Status: tournament.StatusUpcoming,
			MinParticipants: 2, MaxParticipants: 4,
			Participants: []string{"u1", "u2"},
		},
		{
			ID: "TOUR_EMPTY", Name: "Empty", Type: tournament.TypeSolo,
			Schedule: schedule, Status: tournament.StatusUpcoming,
			MinParticipants: 2, MaxParticipants: 4,
			Participants: []string{"u1"},
		},
		{
			ID: "TOUR_STALE", Name: "Stale", Type: tournament.TypeSolo,
			Schedule: fixedNow.Add(-4 * time.Hour), Status: tournament.StatusLive,
			MinParticipants: 2, MaxParticipants: 4,
			Participants: []string{"u1", "u2"}, RoomID: "777",
		},
		{
			ID: "TOUR_FUTURE", Name: "Future", Type: tournament.TypeSolo,
			Schedule: fixedNow.Add(6 * time.Hour), Status: tournament.StatusUpcoming,
			MinParticipants: 2, MaxParticipants: 4,
		},
	}
	for _, tr := range seed {
		if err := f.tournaments.Insert(context.Background(), tr); err != nil {
			t.Fatalf("seed %s: %v", tr.ID, err)
		}
	}

	notifier := newFakeNotifier()
	broadcast := NewBroadcastService(notifier, 2, logging.NewNop())
	service := NewReconcileService(f.service, broadcast, logging.NewNop())

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Scanned != 4 {
		t.Fatalf("expected 4 scanned, got %d", report.Scanned)
	}
	if report.Transitions != 3 {
		t.Fatalf("expected 3 transitions, got %d", report.Transitions)
	}
	if report.Failures != 0 {
		t.Fatalf("expected no failures, got %d", report.Failures)
	}

	assertStatus := func(id string, want tournament.Status) {
		t.Helper()
		tr, found, err := f.tournaments.GetByID(context.Background(), id)
		if err != nil || !found {
			t.Fatalf("get %s: found=%v err=%v", id, found, err)
		}
		if tr.Status != want {
			t.Fatalf("%s: expected %s, got %s", id, want, tr.Status)
		}
	}
	assertStatus("TOUR_READY", tournament.StatusLive)
	assertStatus("TOUR_EMPTY", tournament.StatusCancelled)
	assertStatus("TOUR_STALE", tournament.StatusCompleted)
	assertStatus("TOUR_FUTURE", tournament.StatusUpcoming)

	// Participants of transitioned tournaments hear about it: the live
	// start and the forced close both fan out, the cancellation does not.
	if notifier.deliveries("u1") != 2 || notifier.deliveries("u2") != 2 {
		t.Fatalf("expected live+completed announcements, got u1=%d u2=%d",
			notifier.deliveries("u1"), notifier.deliveries("u2"))
	}
}

func TestReconcileRunIsIdempotent(t *testing.T) {
	f := newRegistryFixture(t)
	if err := f.tournaments.Insert(context.Background(), tournament.Tournament{
		ID: "TOUR_READY", Name: "Ready", Type: tournament.TypeSolo,
		Schedule: fixedNow.Add(-time.Minute), Status: tournament.StatusUpcoming,
		MinParticipants: 1, MaxParticipants: 4,
		Participants: []string{"u1"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	service := NewReconcileService(f.service, nil, logging.NewNop())

	first, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Transitions != 1 {
		t.Fatalf("expected 1 transition, got %d", first.Transitions)
	}

	second, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Transitions != 0 {
		t.Fatalf("expected no transitions on second pass, got %d", second.Transitions)
	}
}

func TestTransitionLiveMessageIncludesRoom(t *testing.T) {
	msg := transitionLiveMessage(tournament.Tournament{
		Name: "Ready", RoomID: "777", RoomPassword: "pass",
	})
	if !strings.Contains(msg, "777") || !strings.Contains(msg, "pass") {
		t.Fatalf("expected room credentials in message, got %q", msg)
	}

	bare := transitionLiveMessage(tournament.Tournament{Name: "Ready"})
	if strings.Contains(bare, "Room ID") {
		t.Fatalf("expected no room line without credentials, got %q", bare)
	}
}
