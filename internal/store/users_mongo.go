package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nainix/marketplace-backend/internal/models"
)

type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection(UsersCollection)}
}

func (r *MongoUsers) Create(ctx context.Context, u *models.User) error {
	_, err := r.col.InsertOne(ctx, u)
	return mapMongoErr(err)
}

func (r *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapMongoErr(err)
	}
	u.Normalize()
	return &u, nil
}

func (r *MongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUsers) Exists(ctx context.Context, field UserField, value string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.col.FindOne(ctx, bson.M{string(field): value}, opts).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoUsers) ApplyUpgrade(ctx context.Context, id string, up Upgrade) (*models.User, error) {
	set := bson.M{"updatedAt": up.At}
	update := bson.M{}
	if up.ActivateVerification {
		set["monetization.verificationBadgeActive"] = true
	}
	if up.AddBadge != "" {
		update["$addToSet"] = bson.M{"verifiedBadges": up.AddBadge}
	}
	if up.ActivateAIPro {
		set["monetization.plan"] = models.PlanAIPro
		set["monetization.aiProActive"] = true
		set["monetization.aiProActivatedAt"] = up.At
	}
	update["$set"] = set

	return r.updateOne(ctx, id, update)
}

func (r *MongoUsers) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate, at time.Time) (*models.User, error) {
	set := bson.M{"updatedAt": at}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Skills != nil {
		set["skills"] = upd.Skills
	}
	if upd.SocialLinks != nil {
		set["socialLinks"] = *upd.SocialLinks
	}
	return r.updateOne(ctx, id, bson.M{"$set": set})
}

func (r *MongoUsers) SetAvatar(ctx context.Context, id, url string, at time.Time) (*models.User, error) {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"avatarUrl": url, "updatedAt": at}})
}

func (r *MongoUsers) updateOne(ctx context.Context, id string, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&u); err != nil {
		return nil, mapMongoErr(err)
	}
	u.Normalize()
	return &u, nil
}
