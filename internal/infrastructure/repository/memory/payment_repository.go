package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/payment"
)

type PaymentRepository struct {
	mu    sync.RWMutex
	byUTR map[string]payment.Payment
	order []string
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		byUTR: make(map[string]payment.Payment),
	}
}

func (r *PaymentRepository) Insert(_ context.Context, p payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUTR[p.UTR]; exists {
		return payment.ErrDuplicateUTR
	}
	r.byUTR[p.UTR] = clonePayment(p)
	r.order = append(r.order, p.UTR)
	return nil
}

func (r *PaymentRepository) GetByUTR(_ context.Context, utr string) (payment.Payment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUTR[utr]
	if !ok {
		return payment.Payment{}, false, nil
	}
	return clonePayment(p), true, nil
}

func (r *PaymentRepository) ListByUser(_ context.Context, userID string) ([]payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []payment.Payment
	for _, utr := range r.order {
		if p := r.byUTR[utr]; p.UserID == userID {
			out = append(out, clonePayment(p))
		}
	}
	return out, nil
}

func (r *PaymentRepository) Update(_ context.Context, p payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUTR[p.UTR]; !exists {
		return nil
	}
	r.byUTR[p.UTR] = clonePayment(p)
	return nil
}

func (r *PaymentRepository) ConfirmedTotal(_ context.Context, from, to time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, p := range r.byUTR {
		if p.Status != payment.StatusConfirmed || p.ConfirmedAt == nil {
			continue
		}
		at := *p.ConfirmedAt
		if !at.Before(from) && at.Before(to) {
			total += p.Amount
		}
	}
	return total, nil
}

func clonePayment(p payment.Payment) payment.Payment {
	out := p
	if p.ConfirmedAt != nil {
		at := *p.ConfirmedAt
		out.ConfirmedAt = &at
	}
	return out
}
