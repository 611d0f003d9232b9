package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"meetsync/pkg/config"
	"meetsync/pkg/model"
)

const CollectionName = "Owner_locks"

// OwnerLockRepository provides advisory locks keyed by owner scope. Insertion
// on the unique _id is the acquisition; a duplicate key error means the lock
// is held.
type OwnerLockRepository interface {
	Create(ctx context.Context, lock *model.OwnerLock) (*model.OwnerLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoOwnerLockRepository struct {
	collection *mongo.Collection
}

func NewOwnerLockRepository(cfg *config.Config) OwnerLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOwnerLockRepository{
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoOwnerLockRepository) Create(ctx context.Context, lock *model.OwnerLock) (*model.OwnerLock, error) {
	lock.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoOwnerLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
