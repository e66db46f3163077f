// internal/domain/models/favorite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is the authoritative join between users and activities.
// Exactly one document per (user_id, activity_id); the unique compound
// index on the pair is the source of truth for membership, not any
// application-level check. Position carries the user's display order.
type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	ActivityID primitive.ObjectID `bson:"activity_id" json:"activity_id"`
	Position   int                `bson:"position" json:"position"`
	AddedAt    time.Time          `bson:"added_at" json:"added_at"`
}
