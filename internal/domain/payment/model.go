package payment

import (
	"fmt"
	"time"
)

// Status of a manually submitted UPI payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// UTR length bounds for Indian bank transfer references.
const (
	utrMinDigits = 10
	utrMaxDigits = 16
)

// Payment is one manual UPI transfer, identified to admins by its UTR
// (bank reference) number. UTRs are globally unique; a resubmitted UTR is
// rejected at the persistence boundary.
type Payment struct {
	ID           string
	UserID       string
	TournamentID string
	Amount       float64
	UTR          string
	Status       Status
	ConfirmedBy  string
	ConfirmedAt  *time.Time
	CreatedAt    time.Time
}

func (p Payment) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("payment id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("payment user id is required")
	}
	if p.Amount <= 0 {
		return fmt.Errorf("payment amount must be positive")
	}
	if err := ValidateUTR(p.UTR); err != nil {
		return err
	}
	return nil
}

// ValidateUTR checks the bank reference format: digits only, 10-16 long.
func ValidateUTR(utr string) error {
	if len(utr) < utrMinDigits || len(utr) > utrMaxDigits {
		return fmt.Errorf("utr must be %d-%d digits, got %d", utrMinDigits, utrMaxDigits, len(utr))
	}
	for _, r := range utr {
		if r < '0' || r > '9' {
			return fmt.Errorf("utr must contain digits only")
		}
	}
	return nil
}

// Confirm marks the payment approved by an admin.
func (p *Payment) Confirm(adminID string, now time.Time) {
	p.Status = StatusConfirmed
	p.ConfirmedBy = adminID
	p.ConfirmedAt = &now
}

// Reject marks the payment refused by an admin.
func (p *Payment) Reject(adminID string, now time.Time) {
	p.Status = StatusRejected
	p.ConfirmedBy = adminID
	p.ConfirmedAt = &now
}
