package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"goodtime-diagnostic/internal/model"
)

// StatusRepo handles MongoDB operations for client status checks
type StatusRepo interface {
	Create(ctx context.Context, check *model.StatusCheck) error
	List(ctx context.Context, limit int64) ([]*model.StatusCheck, error)
}

type statusRepo struct {
	collection *mongo.Collection
}

// NewStatusRepo creates a new status check repository
func NewStatusRepo(db *mongo.Database) StatusRepo {
	return &statusRepo{
		collection: db.Collection("status_checks"),
	}
}

func (r *statusRepo) Create(ctx context.Context, check *model.StatusCheck) error {
	_, err := r.collection.InsertOne(ctx, check)
	return err
}

func (r *statusRepo) List(ctx context.Context, limit int64) ([]*model.StatusCheck, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	checks := []*model.StatusCheck{}
	if err := cursor.All(ctx, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}
