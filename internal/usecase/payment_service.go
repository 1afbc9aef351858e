package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dumwala/tournament-bot/internal/domain/payment"
	"github.com/dumwala/tournament-bot/internal/domain/user"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

// PaymentService handles the manual UPI flow: players transfer the entry
// fee out of band and submit the bank reference (UTR) number; an admin
// confirms it against the account statement, which unlocks tournament
// eligibility for the payer.
type PaymentService struct {
	payments payment.Repository
	users    user.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewPaymentService(payments payment.Repository, users user.Repository, logger *logging.Logger) *PaymentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PaymentService{
		payments: payments,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

type SubmitPaymentInput struct {
	UserID       string
	TournamentID string
	Amount       float64
	UTR          string
}

// Submit records a pending payment. The UTR must be a 10-16 digit bank
// reference never submitted before; duplicates fail with
// payment.ErrDuplicateUTR.
func (s *PaymentService) Submit(ctx context.Context, input SubmitPaymentInput) (payment.Payment, error) {
	utr := strings.TrimSpace(input.UTR)
	if err := payment.ValidateUTR(utr); err != nil {
		return payment.Payment{}, &ValidationError{Violations: []string{err.Error()}}
	}
	if input.Amount <= 0 {
		return payment.Payment{}, &ValidationError{Violations: []string{"payment amount must be positive"}}
	}

	_, found, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return payment.Payment{}, fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
	}

	p := payment.Payment{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		TournamentID: input.TournamentID,
		Amount:       input.Amount,
		UTR:          utr,
		Status:       payment.StatusPending,
		CreatedAt:    s.now(),
	}
	if err := p.Validate(); err != nil {
		return payment.Payment{}, &ValidationError{Violations: []string{err.Error()}}
	}

	if err := s.payments.Insert(ctx, p); err != nil {
		if stderrors.Is(err, payment.ErrDuplicateUTR) {
			return payment.Payment{}, fmt.Errorf("%w: utr=%s", payment.ErrDuplicateUTR, utr)
		}
		return payment.Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	s.logger.InfoContext(ctx, "payment submitted",
		"payment_id", p.ID,
		"user_id", p.UserID,
		"utr", p.UTR,
		"amount", p.Amount,
	)
	return p, nil
}

// Confirm approves the payment identified by its UTR and marks the payer
// paid+confirmed. Confirming an already-confirmed payment is a no-op.
func (s *PaymentService) Confirm(ctx context.Context, utr, adminID string) (payment.Payment, error) {
	p, found, err := s.payments.GetByUTR(ctx, utr)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	if !found {
		return payment.Payment{}, fmt.Errorf("%w: utr=%s", ErrNotFound, utr)
	}
	if p.Status == payment.StatusConfirmed {
		return p, nil
	}

	p.Confirm(adminID, s.now())
	if err := s.payments.Update(ctx, p); err != nil {
		return payment.Payment{}, fmt.Errorf("update payment: %w", err)
	}

	u, found, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return payment.Payment{}, fmt.Errorf("%w: user=%s", ErrNotFound, p.UserID)
	}
	u.ConfirmPayment(0, s.now())
	if err := s.users.Update(ctx, u); err != nil {
		return payment.Payment{}, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "payment confirmed",
		"payment_id", p.ID,
		"user_id", p.UserID,
		"utr", p.UTR,
		"confirmed_by", adminID,
	)
	return p, nil
}

// Reject refuses a pending payment; the payer's eligibility is untouched.
func (s *PaymentService) Reject(ctx context.Context, utr, adminID string) (payment.Payment, error) {
	p, found, err := s.payments.GetByUTR(ctx, utr)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	if !found {
		return payment.Payment{}, fmt.Errorf("%w: utr=%s", ErrNotFound, utr)
	}
	if p.Status == payment.StatusConfirmed {
		return payment.Payment{}, fmt.Errorf("%w: payment already confirmed", ErrValidation)
	}

	p.Reject(adminID, s.now())
	if err := s.payments.Update(ctx, p); err != nil {
		return payment.Payment{}, fmt.Errorf("update payment: %w", err)
	}

	s.logger.WarnContext(ctx, "payment rejected", "payment_id", p.ID, "utr", p.UTR, "rejected_by", adminID)
	return p, nil
}

func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]payment.Payment, error) {
	out, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

// CollectionToday sums confirmed payments since UTC midnight.
func (s *PaymentService) CollectionToday(ctx context.Context) (float64, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.collection(ctx, start, start.AddDate(0, 0, 1))
}

// CollectionThisWeek sums confirmed payments since Monday UTC midnight.
func (s *PaymentService) CollectionThisWeek(ctx context.Context) (float64, error) {
	now := s.now().UTC()
	weekday := int(now.Weekday()+6) % 7 // Monday = 0
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -weekday)
	return s.collection(ctx, start, now)
}

// CollectionThisMonth sums confirmed payments since the 1st UTC midnight.
func (s *PaymentService) CollectionThisMonth(ctx context.Context) (float64, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.collection(ctx, start, now)
}

func (s *PaymentService) collection(ctx context.Context, from, to time.Time) (float64, error) {
	total, err := s.payments.ConfirmedTotal(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("confirmed total: %w", err)
	}
	return total, nil
}
