package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	credentialserrors "meetsync/internal/credentials/errors"
	"meetsync/pkg/config"
	"meetsync/pkg/model"
)

const CollectionName = "User_credentials"

// CredentialRepository stores the per-owner calendar token binding. The
// binding itself is written by an external authorization flow; this service
// only reads it and records token refreshes.
type CredentialRepository interface {
	FindByOwner(ctx context.Context, ownerID string) (*model.UserCredentials, error)
	UpdateTokens(ctx context.Context, ownerID string, creds model.Credentials) error
}

type mongoCredentialRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCredentialRepository(cfg *config.Config) CredentialRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCredentialRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCredentialRepository) FindByOwner(ctx context.Context, ownerID string) (*model.UserCredentials, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var creds model.UserCredentials
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&creds)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", credentialserrors.ErrNotFound, ownerID)
		}
		return nil, fmt.Errorf("failed to find credentials: %w", err)
	}

	return &creds, nil
}

// UpdateTokens writes a refreshed token pair onto an existing binding. It
// never creates one; only the authorization flow may do that.
func (r *mongoCredentialRepository) UpdateTokens(ctx context.Context, ownerID string, creds model.Credentials) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": ownerID}
	update := bson.M{"$set": bson.M{
		"access_token":  creds.AccessToken,
		"refresh_token": creds.RefreshToken,
		"updated_at":    time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", credentialserrors.ErrNotFound, ownerID)
	}
	return nil
}
