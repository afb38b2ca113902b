package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nainix/marketplace-backend/internal/models"
)

// MongoLedger writes billing records to the billing_transactions collection.
type MongoLedger struct {
	col *mongo.Collection
}

func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{col: db.Collection(TransactionsCollection)}
}

func (l *MongoLedger) Append(ctx context.Context, tx *models.BillingTransaction) error {
	_, err := l.col.InsertOne(ctx, tx)
	return mapMongoErr(err)
}

func (l *MongoLedger) ListByUser(ctx context.Context, userID string) ([]models.BillingTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := l.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.BillingTransaction](ctx, cur)
}
