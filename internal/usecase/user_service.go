package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/user"
	"github.com/dumwala/tournament-bot/internal/platform/id"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

// UserService manages bot accounts: registration on first contact,
// referral attribution, bans and profile reads. The registry consumes the
// paid/confirmed/banned flags it maintains.
type UserService struct {
	users  user.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewUserService(users user.Repository, logger *logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserService{
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

type RegisterUserInput struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	// ReferredBy is the referral code of the inviting user, if any.
	ReferredBy string
}

// Register creates the account on first contact and is a no-op for known
// users. The second return value reports whether a new account was
// created. Referral attribution failures never fail registration.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (user.User, bool, error) {
	userID := strings.TrimSpace(input.ID)
	if userID == "" {
		return user.User{}, false, &ValidationError{Violations: []string{"user id is required"}}
	}

	existing, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}
	if found {
		return existing, false, nil
	}

	now := s.now()
	u := user.User{
		ID:           userID,
		Username:     strings.TrimPrefix(input.Username, "@"),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		ReferralCode: id.ReferralCode(userID),
		ReferredBy:   input.ReferredBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastActive:   now,
	}
	if err := u.Validate(); err != nil {
		return user.User{}, false, &ValidationError{Violations: []string{err.Error()}}
	}

	if err := s.users.Insert(ctx, u); err != nil {
		if stderrors.Is(err, user.ErrDuplicateID) {
			// Concurrent first contact; the other writer won.
			current, found, err := s.users.GetByID(ctx, userID)
			if err != nil || !found {
				return user.User{}, false, fmt.Errorf("get user after duplicate insert: %w", err)
			}
			return current, false, nil
		}
		return user.User{}, false, fmt.Errorf("insert user: %w", err)
	}

	if input.ReferredBy != "" && input.ReferredBy != u.ReferralCode {
		s.creditReferrer(ctx, input.ReferredBy, userID)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", userID, "referred_by", input.ReferredBy)
	return u, true, nil
}

func (s *UserService) creditReferrer(ctx context.Context, code, newUserID string) {
	referrer, found, err := s.users.GetByReferralCode(ctx, code)
	if err != nil || !found {
		s.logger.WarnContext(ctx, "referral attribution skipped",
			"referral_code", code,
			"new_user_id", newUserID,
			"error", err,
		)
		return
	}
	referrer.ReferralCount++
	referrer.UpdatedAt = s.now()
	if err := s.users.Update(ctx, referrer); err != nil {
		s.logger.WarnContext(ctx, "referral attribution failed",
			"referrer_id", referrer.ID,
			"new_user_id", newUserID,
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "referral credited", "referrer_id", referrer.ID, "new_user_id", newUserID)
}

func (s *UserService) Get(ctx context.Context, userID string) (user.User, error) {
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return u, nil
}

// TouchActivity bumps the last-active timestamp; failures only log.
func (s *UserService) TouchActivity(ctx context.Context, userID string) {
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil || !found {
		return
	}
	u.LastActive = s.now()
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.DebugContext(ctx, "touch activity failed", "user_id", userID, "error", err)
	}
}

func (s *UserService) Ban(ctx context.Context, userID, reason string) error {
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	u.Ban(reason, s.now())
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.WarnContext(ctx, "user banned", "user_id", userID, "reason", reason)
	return nil
}

func (s *UserService) Unban(ctx context.Context, userID string) error {
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	u.Unban(s.now())
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user unbanned", "user_id", userID)
	return nil
}
