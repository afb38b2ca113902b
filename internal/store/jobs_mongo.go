package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nainix/marketplace-backend/internal/models"
)

type MongoJobs struct {
	col *mongo.Collection
}

func NewMongoJobs(db *mongo.Database) *MongoJobs {
	return &MongoJobs{col: db.Collection(JobsCollection)}
}

func (r *MongoJobs) Create(ctx context.Context, j *models.Job) error {
	_, err := r.col.InsertOne(ctx, j)
	return mapMongoErr(err)
}

func (r *MongoJobs) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&j); err != nil {
		return nil, mapMongoErr(err)
	}
	return &j, nil
}

func (r *MongoJobs) List(ctx context.Context) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Job](ctx, cur)
}

func (r *MongoJobs) ListIDsByClient(ctx context.Context, clientID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"id": 1})
	cur, err := r.col.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, err
	}
	jobs, err := decodeAll[models.Job](ctx, cur)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids, nil
}

func (r *MongoJobs) SetFeatured(ctx context.Context, id string, until, at time.Time) (*models.Job, error) {
	update := bson.M{"$set": bson.M{
		"isFeatured":    true,
		"featuredUntil": until,
		"updatedAt":     at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var j models.Job
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&j); err != nil {
		return nil, mapMongoErr(err)
	}
	return &j, nil
}

func (r *MongoJobs) ExpireFeatured(ctx context.Context, now time.Time) ([]string, error) {
	filter := bson.M{
		"isFeatured":    true,
		"featuredUntil": bson.M{"$ne": nil, "$lte": now},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	expired, err := decodeAll[models.Job](ctx, cur)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(expired))
	for _, j := range expired {
		ids = append(ids, j.ID)
	}

	// Re-apply the expiry condition so a boost renewed in between is kept.
	filter["id"] = bson.M{"$in": ids}
	_, err = r.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"isFeatured": false,
		"updatedAt":  now,
	}})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
