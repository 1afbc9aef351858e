package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
)

// TournamentRepository is the in-memory document store used by tests and
// local runs. Roster mutations hold the lock for the whole check-and-write,
// giving the same at-most-once semantics as the Mongo set operations.
type TournamentRepository struct {
	mu    sync.RWMutex
	items map[string]tournament.Tournament
	order []string
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{
		items: make(map[string]tournament.Tournament),
	}
}

func (r *TournamentRepository) Insert(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; exists {
		return tournament.ErrDuplicateID
	}
	r.items[t.ID] = cloneTournament(t)
	r.order = append(r.order, t.ID)
	return nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[tournamentID]
	if !ok {
		return tournament.Tournament{}, false, nil
	}
	return cloneTournament(t), true, nil
}

func (r *TournamentRepository) Update(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; !exists {
		return nil
	}
	r.items[t.ID] = cloneTournament(t)
	return nil
}

func (r *TournamentRepository) ListByStatus(_ context.Context, statuses ...tournament.Status) ([]tournament.Tournament, error) {
	wanted := make(map[tournament.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.order))
	for _, id := range r.order {
		t := r.items[id]
		if _, ok := wanted[t.Status]; ok {
			out = append(out, cloneTournament(t))
		}
	}
	return out, nil
}

func (r *TournamentRepository) AddParticipant(_ context.Context, tournamentID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[tournamentID]
	if !ok {
		return false, nil
	}
	if t.Status != tournament.StatusUpcoming || t.IsFull() || t.HasParticipant(userID) {
		return false, nil
	}
	t.Participants = append(t.Participants, userID)
	t.UpdatedAt = time.Now().UTC()
	r.items[tournamentID] = t
	return true, nil
}

func (r *TournamentRepository) RemoveParticipant(_ context.Context, tournamentID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[tournamentID]
	if !ok {
		return false, nil
	}
	if t.Status != tournament.StatusUpcoming && t.Status != tournament.StatusLive {
		return false, nil
	}
	for i, id := range t.Participants {
		if id == userID {
			participants := make([]string, 0, len(t.Participants)-1)
			participants = append(participants, t.Participants[:i]...)
			participants = append(participants, t.Participants[i+1:]...)
			t.Participants = participants
			t.UpdatedAt = time.Now().UTC()
			r.items[tournamentID] = t
			return true, nil
		}
	}
	return false, nil
}

func cloneTournament(t tournament.Tournament) tournament.Tournament {
	out := t
	out.Participants = append([]string(nil), t.Participants...)
	out.Rules = append([]string(nil), t.Rules...)
	out.Winners = append([]tournament.Winner(nil), t.Winners...)
	if t.RegistrationDeadline != nil {
		deadline := *t.RegistrationDeadline
		out.RegistrationDeadline = &deadline
	}
	return out
}
