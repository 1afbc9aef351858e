package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dumwala/tournament-bot/internal/domain/payment"
)

type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{collection: db.Collection(paymentsCollection)}
}

// Insert stores a submission. The unique utr index turns a resubmitted
// reference number into payment.ErrDuplicateUTR.
func (r *PaymentRepository) Insert(ctx context.Context, p payment.Payment) error {
	_, err := r.collection.InsertOne(ctx, newPaymentDocument(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return payment.ErrDuplicateUTR
		}
		return fmt.Errorf("insert payment %s: %w", p.ID, err)
	}
	return nil
}

func (r *PaymentRepository) GetByUTR(ctx context.Context, utr string) (payment.Payment, bool, error) {
	var doc paymentDocument
	err := r.collection.FindOne(ctx, bson.M{"utr": utr}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return payment.Payment{}, false, nil
	}
	if err != nil {
		return payment.Payment{}, false, fmt.Errorf("get payment by utr: %w", err)
	}
	return doc.toDomain(), true, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]payment.Payment, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list payments for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var out []payment.Payment
	for cursor.Next(ctx) {
		var doc paymentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list payments for user %s: %w", userID, err)
	}
	return out, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p payment.Payment) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, newPaymentDocument(p))
	if err != nil {
		return fmt.Errorf("update payment %s: %w", p.ID, err)
	}
	return nil
}

// ConfirmedTotal sums confirmed payment amounts with confirmed_at in
// [from, to).
func (r *PaymentRepository) ConfirmedTotal(ctx context.Context, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":       string(payment.StatusConfirmed),
			"confirmed_at": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum confirmed payments: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decode confirmed total: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("sum confirmed payments: %w", err)
	}
	return result.Total, nil
}
