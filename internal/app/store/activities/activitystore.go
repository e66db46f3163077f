package activitystore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"escapade/internal/app/system/htmlsanitize"
	"escapade/internal/app/system/normalize"
	"escapade/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLatestLimit is the listing size when the caller does not ask
// for a specific count.
const DefaultLatestLimit = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

var (
	// ErrNotFound is returned when a referenced activity does not exist.
	ErrNotFound = errors.New("activity not found")

	// ErrInvalidInput wraps every Create validation failure.
	ErrInvalidInput = errors.New("invalid activity input")

	errNameRequired = fmt.Errorf("%w: name is required", ErrInvalidInput)
	errCityRequired = fmt.Errorf("%w: city is required", ErrInvalidInput)
	errBadPrice     = fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// List returns all activities, newest first.
func (s *Store) List(ctx context.Context) ([]models.Activity, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// Latest returns the most recent activities. A non-positive limit falls
// back to DefaultLatestLimit.
func (s *Store) Latest(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	return s.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

// ListByOwner returns the activities created by ownerID, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Activity, error) {
	return s.find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(newestFirst))
}

// GetByID loads one activity. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var a models.Activity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByIDs returns the activities matching ids. Missing ids are silently
// dropped; callers that need per-id resolution should use GetByID.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// Exists reports whether an activity with the given id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Cities returns the distinct city values across all activities.
func (s *Store) Cities(ctx context.Context) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "city", bson.M{})
	if err != nil {
		return nil, err
	}
	cities := make([]string, 0, len(raw))
	for _, v := range raw {
		if city, ok := v.(string); ok {
			cities = append(cities, city)
		}
	}
	return cities, nil
}

// Search returns activities in a city, optionally narrowed by a
// case-insensitive substring match on name and an exact price.
// A nil price means no price filter.
func (s *Store) Search(ctx context.Context, city, name string, price *int) ([]models.Activity, error) {
	filter := bson.M{"city": normalize.City(city)}
	if name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}
	}
	if price != nil {
		filter["price"] = *price
	}
	return s.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// CreateInput holds the caller-supplied fields for a new activity.
type CreateInput struct {
	Name        string
	City        string
	Description string
	Price       int
}

// Create inserts an activity owned by ownerID. The owner is the
// authenticated caller and is not independently re-verified. The
// description is sanitized before persisting.
func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, in CreateInput) (models.Activity, error) {
	a := models.Activity{
		ID:          primitive.NewObjectID(),
		Name:        normalize.Name(htmlsanitize.StripAll(in.Name)),
		City:        normalize.City(htmlsanitize.StripAll(in.City)),
		Description: htmlsanitize.Sanitize(in.Description),
		Price:       in.Price,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if strings.TrimSpace(a.Name) == "" {
		return models.Activity{}, errNameRequired
	}
	if strings.TrimSpace(a.City) == "" {
		return models.Activity{}, errCityRequired
	}
	if a.Price < 0 {
		return models.Activity{}, errBadPrice
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// Count returns the number of activity documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.Activity
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
