package model

import "time"

// OwnerLock is an advisory lock document guarding check-then-commit sequences
// for a single owner. Uniqueness on _id makes acquisition atomic; a TTL index
// on expires_at reclaims locks abandoned by crashed workers.
type OwnerLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
