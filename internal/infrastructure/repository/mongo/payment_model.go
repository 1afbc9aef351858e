package mongo

import (
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/payment"
)

type paymentDocument struct {
	ID           string     `bson:"_id"`
	UserID       string     `bson:"user_id"`
	TournamentID string     `bson:"tournament_id,omitempty"`
	Amount       float64    `bson:"amount"`
	UTR          string     `bson:"utr"`
	Status       string     `bson:"status"`
	ConfirmedBy  string     `bson:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time `bson:"confirmed_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
}

func newPaymentDocument(p payment.Payment) paymentDocument {
	return paymentDocument{
		ID:           p.ID,
		UserID:       p.UserID,
		TournamentID: p.TournamentID,
		Amount:       p.Amount,
		UTR:          p.UTR,
		Status:       string(p.Status),
		ConfirmedBy:  p.ConfirmedBy,
		ConfirmedAt:  p.ConfirmedAt,
		CreatedAt:    p.CreatedAt,
	}
}

func (d paymentDocument) toDomain() payment.Payment {
	return payment.Payment{
		ID:           d.ID,
		UserID:       d.UserID,
		TournamentID: d.TournamentID,
		Amount:       d.Amount,
		UTR:          d.UTR,
		Status:       payment.Status(d.Status),
		ConfirmedBy:  d.ConfirmedBy,
		ConfirmedAt:  d.ConfirmedAt,
		CreatedAt:    d.CreatedAt,
	}
}
