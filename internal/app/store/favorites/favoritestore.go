// Package favoritestore owns the favorites join collection: one
// document per (user_id, activity_id) pair.
//
// The pair has exactly two states, ABSENT and PRESENT. The unique
// compound index on (user_id, activity_id) is the authoritative guard
// against concurrent duplicate inserts; the existence checks in Add and
// Toggle are advisory fast paths, and a duplicate-key error from the
// insert is always translated to ErrDuplicateFavorite.
package favoritestore

import (
	"context"
	"errors"
	"time"

	"escapade/internal/domain/models"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c          *mongo.Collection
	users      *mongo.Collection
	activities *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("favorites"),
		users:      db.Collection("users"),
		activities: db.Collection("activities"),
	}
}

var (
	// ErrDuplicateFavorite is returned when the (user, activity) pair
	// already exists.
	ErrDuplicateFavorite = errors.New("activity is already a favorite")
	// ErrUserNotFound is returned by Add when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrActivityNotFound is returned by Add when the activity does not exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrNotPermutation is returned by Reorder when the supplied ids are
	// not exactly the user's current favorite set.
	ErrNotPermutation = errors.New("ids must be a permutation of the current favorites")
)

// IsFavorite reports whether the pair exists. No side effects.
func (s *Store) IsFavorite(ctx context.Context, userID, activityID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "activity_id": activityID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add creates the favorite after verifying both references exist.
// Ordering: the new favorite is appended after the user's current last
// position. Returns ErrDuplicateFavorite if the pair already exists;
// the unique index makes this reliable under concurrent requests.
func (s *Store) Add(ctx context.Context, userID, activityID primitive.ObjectID) (models.Favorite, error) {
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Favorite{}, ErrUserNotFound
		}
		return models.Favorite{}, err
	}
	if err := s.activities.FindOne(ctx, bson.M{"_id": activityID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Favorite{}, ErrActivityNotFound
		}
		return models.Favorite{}, err
	}

	// Advisory fast path; the unique index is the real guard.
	if present, err := s.IsFavorite(ctx, userID, activityID); err != nil {
		return models.Favorite{}, err
	} else if present {
		return models.Favorite{}, ErrDuplicateFavorite
	}

	pos, err := s.nextPosition(ctx, userID)
	if err != nil {
		return models.Favorite{}, err
	}

	fav := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		ActivityID: activityID,
		Position:   pos,
		AddedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, fav); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Favorite{}, ErrDuplicateFavorite
		}
		return models.Favorite{}, err
	}
	return fav, nil
}

// Remove deletes the pair if present and reports whether a deletion
// occurred. Removing an absent pair is not an error.
func (s *Store) Remove(ctx context.Context, userID, activityID primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "activity_id": activityID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Toggle flips the pair state and returns the new state: true when the
// favorite was added, false when it was removed. If a concurrent toggle
// wins the insert race, the duplicate-key rejection is absorbed by
// removing the surviving document, keeping the two-state model intact.
func (s *Store) Toggle(ctx context.Context, userID, activityID primitive.ObjectID) (bool, error) {
	res := s.c.FindOneAndDelete(ctx, bson.M{"user_id": userID, "activity_id": activityID})
	switch err := res.Err(); err {
	case nil:
		return false, nil // was present, now removed
	case mongo.ErrNoDocuments:
		// absent: fall through to add
	default:
		return false, err
	}

	_, err := s.Add(ctx, userID, activityID)
	if err == ErrDuplicateFavorite {
		// Lost the insert race. The pair is present; complete this
		// toggle's flip by removing it.
		if _, derr := s.Remove(ctx, userID, activityID); derr != nil {
			return false, derr
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForUser resolves the user's favorites to activities, ordered by
// position (then by added_at for ties), never by storage order.
// Favorites whose activity no longer exists are dropped.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Activity, error) {
	favs, err := s.listFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ActivityID)
	}

	cur, err := s.activities.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Activity, len(ids))
	for cur.Next(ctx) {
		var a models.Activity
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		byID[a.ID] = a
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	ordered := make([]models.Activity, 0, len(favs))
	for _, f := range favs {
		if a, ok := byID[f.ActivityID]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

// Reorder replaces the user's favorite ordering. The supplied ids must
// be exactly a permutation of the current favorite set: no foreign ids,
// no omissions, no duplicates. Returns the reordered activities.
func (s *Store) Reorder(ctx context.Context, userID primitive.ObjectID, orderedIDs []primitive.ObjectID) ([]models.Activity, error) {
	favs, err := s.listFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(orderedIDs) != len(favs) {
		return nil, ErrNotPermutation
	}
	current := make(map[primitive.ObjectID]struct{}, len(favs))
	for _, f := range favs {
		current[f.ActivityID] = struct{}{}
	}
	seen := make(map[primitive.ObjectID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := current[id]; !ok {
			return nil, ErrNotPermutation
		}
		if _, dup := seen[id]; dup {
			return nil, ErrNotPermutation
		}
		seen[id] = struct{}{}
	}

	if len(orderedIDs) > 0 {
		writes := make([]mongo.WriteModel, 0, len(orderedIDs))
		for i, id := range orderedIDs {
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"user_id": userID, "activity_id": id}).
				SetUpdate(bson.M{"$set": bson.M{"position": i}}))
		}
		if _, err := s.c.BulkWrite(ctx, writes); err != nil {
			return nil, err
		}
	}

	return s.ListForUser(ctx, userID)
}

// CountForActivity returns how many users have favorited the activity.
func (s *Store) CountForActivity(ctx context.Context, activityID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"activity_id": activityID})
}

// CountForUser returns the size of the user's favorite set.
func (s *Store) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}

// RemoveAllForUser deletes every favorite held by a user.
// Returns the number of documents deleted.
func (s *Store) RemoveAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RemoveAllForActivity deletes every favorite referencing an activity.
// Returns the number of documents deleted.
func (s *Store) RemoveAllForActivity(ctx context.Context, activityID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"activity_id": activityID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// listFavorites returns the user's favorite documents in display order.
func (s *Store) listFavorites(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "added_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var favs []models.Favorite
	if err := cur.All(ctx, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// nextPosition returns one past the user's current highest position.
func (s *Store) nextPosition(ctx context.Context, userID primitive.ObjectID) (int, error) {
	var last models.Favorite
	err := s.c.FindOne(ctx,
		bson.M{"user_id": userID},
		options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}}),
	).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Position + 1, nil
}
