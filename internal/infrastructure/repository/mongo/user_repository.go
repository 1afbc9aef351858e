package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dumwala/tournament-bot/internal/domain/user"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(usersCollection)}
}

func (r *UserRepository) Insert(ctx context.Context, u user.User) error {
	_, err := r.collection.InsertOne(ctx, newUserDocument(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrDuplicateID
		}
		return fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, fmt.Errorf("get user %s: %w", userID, err)
	}
	return doc.toDomain(), true, nil
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (user.User, bool, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"referral_code": code}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, fmt.Errorf("get user by referral code: %w", err)
	}
	return doc.toDomain(), true, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": u.ID}, newUserDocument(u))
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return nil
}
