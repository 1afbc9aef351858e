package payment

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateUTR is returned by Insert when the UTR number was already
// submitted.
var ErrDuplicateUTR = errors.New("utr number already submitted")

// Repository describes payment persistence needs from use cases.
// ConfirmedTotal sums confirmed payment amounts whose confirmation time
// falls in [from, to).
type Repository interface {
	Insert(ctx context.Context, p Payment) error
	GetByUTR(ctx context.Context, utr string) (Payment, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Payment, error)
	Update(ctx context.Context, p Payment) error
	ConfirmedTotal(ctx context.Context, from, to time.Time) (float64, error)
}
