package testutil

import (
	"context"
	"testing"
	"time"

	"escapade/internal/app/system/normalize"
	"escapade/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given email and returns it.
// The password hash is a placeholder; use auth.HashPassword in tests
// that exercise sign-in.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     normalize.Email(email),
		Password:  "$2a$10$fixturefixturefixturefixturefixturefixturefixturefix",
		Role:      "user",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture user insert: %v", err)
	}
	return u
}

// CreateAdmin inserts an admin user and returns it.
func (f *Fixtures) CreateAdmin(ctx context.Context, email string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, "Admin", "Fixture", email)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"role": "admin"}}); err != nil {
		f.t.Fatalf("fixture admin promote: %v", err)
	}
	u.Role = "admin"
	return u
}

// CreateActivity inserts an activity owned by ownerID and returns it.
func (f *Fixtures) CreateActivity(ctx context.Context, name, city string, price int, ownerID primitive.ObjectID) models.Activity {
	f.t.Helper()

	a := models.Activity{
		ID:        primitive.NewObjectID(),
		Name:      name,
		City:      city,
		Price:     price,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("activities").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("fixture activity insert: %v", err)
	}
	return a
}
