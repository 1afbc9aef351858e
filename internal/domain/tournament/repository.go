package tournament

import (
	"context"
	"errors"
)

// ErrDuplicateID is returned by Insert when the tournament id already has a
// document.
var ErrDuplicateID = errors.New("tournament id already exists")

// Repository describes tournament persistence needs from use cases. The
// store is the authoritative copy: one document per tournament keyed by its
// natural id.
//
// AddParticipant and RemoveParticipant must execute as a single atomic
// conditional update against the document (set-add / set-remove guarded by
// status and capacity), never as a read-modify-write of the whole record.
// They report false when the document matched but the update had no effect,
// so the caller can re-read and classify the exact precondition failure.
type Repository interface {
	Insert(ctx context.Context, t Tournament) error
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	Update(ctx context.Context, t Tournament) error
	ListByStatus(ctx context.Context, statuses ...Status) ([]Tournament, error)
	AddParticipant(ctx context.Context, tournamentID, userID string) (bool, error)
	RemoveParticipant(ctx context.Context, tournamentID, userID string) (bool, error)
}
