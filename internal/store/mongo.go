package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection        = "users"
	JobsCollection         = "jobs"
	ProposalsCollection    = "proposals"
	TransactionsCollection = "billing_transactions"
)

// EnsureIndexes creates the indexes every repository relies on. The unique
// email and username indexes are what make registration race-free.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("uniq_user_id").SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_user_email").SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("uniq_user_username").SetUnique(true)},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetName("idx_user_phone").SetSparse(true)},
		},
		JobsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("uniq_job_id").SetUnique(true)},
			{
				Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_job_client_created"),
			},
			{
				Keys:    bson.D{{Key: "isFeatured", Value: 1}, {Key: "featuredUntil", Value: 1}},
				Options: options.Index().SetName("idx_job_featured_until"),
			},
		},
		ProposalsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("uniq_proposal_id").SetUnique(true)},
			{
				Keys:    bson.D{{Key: "freelancerId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_proposal_freelancer_created"),
			},
			{
				Keys:    bson.D{{Key: "jobId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_proposal_job_created"),
			},
		},
		TransactionsCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_tx_user_created"),
			},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)
	out := make([]T, 0)
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}
