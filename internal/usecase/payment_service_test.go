package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/payment"
	"github.com/dumwala/tournament-bot/internal/domain/user"
	"github.com/dumwala/tournament-bot/internal/infrastructure/repository/memory"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

func newPaymentService(seed ...user.User) (*PaymentService, *memory.PaymentRepository, *memory.UserRepository) {
	payments := memory.NewPaymentRepository()
	users := memory.NewUserRepository(seed...)
	service := NewPaymentService(payments, users, logging.NewNop())
	service.now = func() time.Time { return fixedNow }
	return service, payments, users
}

func TestSubmitPayment(t *testing.T) {
	service, _, _ := newPaymentService(user.User{ID: "7001", FirstName: "Aman"})

	p, err := service.Submit(context.Background(), SubmitPaymentInput{
		UserID: "7001",
		Amount: 50,
		UTR:    " 123456789012 ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.Status != payment.StatusPending {
		t.Fatalf("expected pending, got %s", p.Status)
	}
	if p.UTR != "123456789012" {
		t.Fatalf("expected trimmed utr, got %q", p.UTR)
	}
	if p.ID == "" {
		t.Fatal("expected generated payment id")
	}
}

func TestSubmitRejectsBadUTR(t *testing.T) {
	service, _, _ := newPaymentService(user.User{ID: "7001"})

	cases := []string{"12345", "12345678901234567", "12345abc9012"}
	for _, utr := range cases {
		if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7001", Amount: 50, UTR: utr}); !errors.Is(err, ErrValidation) {
			t.Fatalf("utr %q: expected ErrValidation, got %v", utr, err)
		}
	}
}

func TestSubmitRejectsDuplicateUTR(t *testing.T) {
	service, _, _ := newPaymentService(user.User{ID: "7001"}, user.User{ID: "7002"})

	if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7001", Amount: 50, UTR: "123456789012"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7002", Amount: 50, UTR: "123456789012"})
	if !errors.Is(err, payment.ErrDuplicateUTR) {
		t.Fatalf("expected ErrDuplicateUTR, got %v", err)
	}
}

func TestSubmitUnknownUser(t *testing.T) {
	service, _, _ := newPaymentService()

	_, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "ghost", Amount: 50, UTR: "123456789012"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmUnlocksEligibility(t *testing.T) {
	service, _, users := newPaymentService(user.User{ID: "7001", FirstName: "Aman"})

	if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7001", Amount: 50, UTR: "123456789012"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	confirmed, err := service.Confirm(context.Background(), "123456789012", "admin-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != payment.StatusConfirmed || confirmed.ConfirmedBy != "admin-1" {
		t.Fatalf("unexpected payment %+v", confirmed)
	}
	if confirmed.ConfirmedAt == nil || !confirmed.ConfirmedAt.Equal(fixedNow) {
		t.Fatalf("expected confirmation timestamp, got %v", confirmed.ConfirmedAt)
	}

	u, _, _ := users.GetByID(context.Background(), "7001")
	if !u.Paid || !u.Confirmed {
		t.Fatalf("expected paid+confirmed user, got %+v", u)
	}
	if !u.Eligible() {
		t.Fatal("expected eligible user")
	}

	// Re-confirming is a no-op.
	again, err := service.Confirm(context.Background(), "123456789012", "admin-2")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if again.ConfirmedBy != "admin-1" {
		t.Fatalf("expected original confirmation kept, got %q", again.ConfirmedBy)
	}
}

func TestRejectPayment(t *testing.T) {
	service, _, users := newPaymentService(user.User{ID: "7001"})

	if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7001", Amount: 50, UTR: "123456789012"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rejected, err := service.Reject(context.Background(), "123456789012", "admin-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != payment.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	u, _, _ := users.GetByID(context.Background(), "7001")
	if u.Paid || u.Confirmed {
		t.Fatalf("rejection must not unlock eligibility: %+v", u)
	}

	if _, err := service.Reject(context.Background(), "ghost-utr", "admin-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectConfirmedPaymentRefused(t *testing.T) {
	service, _, _ := newPaymentService(user.User{ID: "7001"})

	if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7001", Amount: 50, UTR: "123456789012"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Confirm(context.Background(), "123456789012", "admin-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := service.Reject(context.Background(), "123456789012", "admin-1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCollectionWindows(t *testing.T) {
	service, _, _ := newPaymentService(user.User{ID: "7001"}, user.User{ID: "7002"}, user.User{ID: "7003"})

	submitAndConfirm := func(userID, utr string, amount float64, confirmedAt time.Time) {
		t.Helper()
		if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: userID, Amount: amount, UTR: utr}); err != nil {
			t.Fatalf("submit %s: %v", utr, err)
		}
		service.now = func() time.Time { return confirmedAt }
		if _, err := service.Confirm(context.Background(), utr, "admin-1"); err != nil {
			t.Fatalf("confirm %s: %v", utr, err)
		}
	}

	// fixedNow is Thursday 2026-01-15 10:00 UTC; the week starts Monday
	// 2026-01-12 00:00 UTC.
	submitAndConfirm("7001", "111111111111", 100, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))  // today
	submitAndConfirm("7002", "222222222222", 200, time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC)) // this week
	submitAndConfirm("7003", "333333333333", 400, time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))  // this month only

	service.now = func() time.Time { return fixedNow }

	today, err := service.CollectionToday(context.Background())
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today != 100 {
		t.Fatalf("expected 100 today, got %v", today)
	}

	week, err := service.CollectionThisWeek(context.Background())
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if week != 300 {
		t.Fatalf("expected 300 this week, got %v", week)
	}

	month, err := service.CollectionThisMonth(context.Background())
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if month != 700 {
		t.Fatalf("expected 700 this month, got %v", month)
	}
}

func TestListByUser(t *testing.T) {
	service, _, _ := newPaymentService(user.User{ID: "7001"})

	for _, utr := range []string{"111111111111", "222222222222"} {
		if _, err := service.Submit(context.Background(), SubmitPaymentInput{UserID: "7001", Amount: 50, UTR: utr}); err != nil {
			t.Fatalf("submit %s: %v", utr, err)
		}
	}

	out, err := service.ListByUser(context.Background(), "7001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(out))
	}
}
