package memory

import (
	"context"
	"sync"

	"github.com/dumwala/tournament-bot/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, u := range users {
		items[u.ID] = cloneUser(u)
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) Insert(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[u.ID]; exists {
		return user.ErrDuplicateID
	}
	r.items[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}
	return cloneUser(u), true, nil
}

func (r *UserRepository) GetByReferralCode(_ context.Context, code string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.ReferralCode == code {
			return cloneUser(u), true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[u.ID]; !exists {
		return nil
	}
	r.items[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u user.User) user.User {
	out := u
	out.TournamentHistory = append([]string(nil), u.TournamentHistory...)
	return out
}
