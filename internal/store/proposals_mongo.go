package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nainix/marketplace-backend/internal/models"
)

type MongoProposals struct {
	col *mongo.Collection
}

func NewMongoProposals(db *mongo.Database) *MongoProposals {
	return &MongoProposals{col: db.Collection(ProposalsCollection)}
}

func (r *MongoProposals) Create(ctx context.Context, p *models.Proposal) error {
	_, err := r.col.InsertOne(ctx, p)
	return mapMongoErr(err)
}

func (r *MongoProposals) ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"freelancerId": freelancerID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Proposal](ctx, cur)
}

func (r *MongoProposals) ListByJobs(ctx context.Context, jobIDs []string) ([]models.Proposal, error) {
	if len(jobIDs) == 0 {
		return []models.Proposal{}, nil
	}
	// _id breaks createdAt ties in insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"jobId": bson.M{"$in": jobIDs}}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Proposal](ctx, cur)
}
