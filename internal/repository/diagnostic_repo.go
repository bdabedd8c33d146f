package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"goodtime-diagnostic/internal/model"
)

// DiagnosticRepo archives analysed diagnostics in MongoDB
type DiagnosticRepo interface {
	Insert(ctx context.Context, record *model.DiagnosticRecord) error
}

type diagnosticRepo struct {
	collection *mongo.Collection
}

// NewDiagnosticRepo creates a new diagnostic repository
func NewDiagnosticRepo(db *mongo.Database) DiagnosticRepo {
	return &diagnosticRepo{
		collection: db.Collection("diagnostics"),
	}
}

func (r *diagnosticRepo) Insert(ctx context.Context, record *model.DiagnosticRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

