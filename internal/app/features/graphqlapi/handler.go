// Package graphqlapi exposes the query/mutation surface over stores.
//
// Resolvers authenticate through the bearer identity placed in the
// request context by auth.Manager, call store methods, and translate
// store sentinels into the apperr taxonomy so every failure reaches the
// client as a named extensions.code.
package graphqlapi

import (
	"context"
	"errors"

	activitystore "escapade/internal/app/store/activities"
	favoritestore "escapade/internal/app/store/favorites"
	userstore "escapade/internal/app/store/users"
	"escapade/internal/app/system/apperr"
	"escapade/internal/app/system/auth"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Activities *activitystore.Store
	Favorites  *favoritestore.Store
	AuthMgr    *auth.Manager
	Log        *zap.Logger

	schema          graphql.Schema
	activityType    *graphql.Object
	userType        *graphql.Object
	favoriteType    *graphql.Object
	authPayloadType *graphql.Object
}

// NewHandler wires the stores and assembles the schema once at startup.
func NewHandler(db *mongo.Database, authMgr *auth.Manager, logger *zap.Logger) (*Handler, error) {
	h := &Handler{
		Users:      userstore.New(db),
		Activities: activitystore.New(db),
		Favorites:  favoritestore.New(db),
		AuthMgr:    authMgr,
		Log:        logger,
	}
	h.buildTypes()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: merge(h.activityQueryFields(), h.accountQueryFields(), h.favoriteQueryFields()),
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: merge(h.activityMutationFields(), h.accountMutationFields(), h.favoriteMutationFields()),
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return nil, err
	}
	h.schema = schema
	return h, nil
}

// Schema returns the assembled schema for transport mounting.
func (h *Handler) Schema() *graphql.Schema { return &h.schema }

func merge(fieldSets ...graphql.Fields) graphql.Fields {
	out := graphql.Fields{}
	for _, fs := range fieldSets {
		for name, f := range fs {
			out[name] = f
		}
	}
	return out
}

/* -------------------------------------------------------------------------- */
/* Caller identity and id parsing                                             */
/* -------------------------------------------------------------------------- */

var errInvalidToken = apperr.New(apperr.Unauthorized, "Invalid token")

// currentUser returns the authenticated caller or the Unauthorized
// failure every guarded operation surfaces.
func (h *Handler) currentUser(ctx context.Context) (*auth.SessionUser, primitive.ObjectID, error) {
	u, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, primitive.NilObjectID, errInvalidToken
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, primitive.NilObjectID, errInvalidToken
	}
	return u, oid, nil
}

// parseID converts a caller-supplied id, failing with InvalidArgument
// on malformed input.
func parseID(raw, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Wrap(apperr.InvalidArgument, "Invalid "+what+" ID", err)
	}
	return oid, nil
}

/* -------------------------------------------------------------------------- */
/* Store error translation                                                    */
/* -------------------------------------------------------------------------- */

// translate maps store sentinels onto the caller-visible taxonomy.
// Unknown errors pass through (logged by the resolver, surfaced as
// internal errors by the transport).
func (h *Handler) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, activitystore.ErrNotFound),
		errors.Is(err, favoritestore.ErrActivityNotFound):
		return apperr.Wrap(apperr.NotFound, "Activity not found", err)
	case errors.Is(err, userstore.ErrNotFound),
		errors.Is(err, favoritestore.ErrUserNotFound):
		return apperr.Wrap(apperr.NotFound, "User not found", err)
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return apperr.Wrap(apperr.Conflict, "Email is already registered", err)
	case errors.Is(err, favoritestore.ErrDuplicateFavorite):
		return apperr.Wrap(apperr.Conflict, "Activity is already a favorite", err)
	case errors.Is(err, activitystore.ErrInvalidInput):
		return apperr.Wrap(apperr.InvalidArgument, err.Error(), err)
	case errors.Is(err, favoritestore.ErrNotPermutation):
		return apperr.Wrap(apperr.InvalidArgument, "Activity IDs must match the current favorites", err)
	default:
		h.Log.Error("resolver store call failed", zap.Error(err))
		return err
	}
}
