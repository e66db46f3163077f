// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is a listed offering (outing, tour, service) owned by the
// user who created it. Activities are never updated or deleted through
// the public surface; the owner reference is validated only at creation.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	City        string             `bson:"city" json:"city"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       int                `bson:"price" json:"price"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
