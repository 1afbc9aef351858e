package user

import (
	"context"
	"errors"
)

// ErrDuplicateID is returned by Insert when the user already exists.
var ErrDuplicateID = errors.New("user already exists")

// Repository describes user persistence needs from use cases.
type Repository interface {
	Insert(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByReferralCode(ctx context.Context, code string) (User, bool, error)
	Update(ctx context.Context, u User) error
}
