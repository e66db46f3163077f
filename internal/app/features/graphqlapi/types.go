package graphqlapi

import (
	"context"
	"errors"

	"escapade/internal/app/system/timeouts"
	"escapade/internal/domain/models"

	"github.com/graphql-go/graphql"
)

// buildTypes constructs the object types. Activity and User reference
// each other (owner / favoriteActivities), so the circular fields are
// attached after both objects exist.
func (h *Handler) buildTypes() {
	h.activityType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a, err := activityFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return a.ID.Hex(), nil
				},
			},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"city":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a, err := activityFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return a.CreatedAt, nil
				},
			},
			"isFavorite": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a, err := activityFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					// Anonymous callers see false rather than an error;
					// listings stay public.
					_, userID, err := h.currentUser(p.Context)
					if err != nil {
						return false, nil
					}
					ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
					defer cancel()
					return h.Favorites.IsFavorite(ctx, userID, a.ID)
				},
			},
		},
	})

	h.userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, err := userFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return u.ID.Hex(), nil
				},
			},
			"firstName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, err := userFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return u.FirstName, nil
				},
			},
			"lastName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, err := userFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return u.LastName, nil
				},
			},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"debugMode": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, err := userFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return u.DebugMode, nil
				},
			},
		},
	})

	h.favoriteType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Favorite",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, err := favoriteFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return f.ID.Hex(), nil
				},
			},
			"position": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"addedAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, err := favoriteFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return f.AddedAt, nil
				},
			},
		},
	})

	h.authPayloadType = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(h.userType)},
		},
	})

	// Circular fields.
	h.activityType.AddFieldConfig("owner", &graphql.Field{
		Type: h.userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			a, err := activityFromSource(p.Source)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
			defer cancel()
			owner, err := h.Users.GetByID(ctx, a.OwnerID)
			if err != nil {
				return nil, h.translate(err)
			}
			return *owner, nil
		},
	})
	h.userType.AddFieldConfig("favoriteActivities", &graphql.Field{
		Type: graphql.NewList(graphql.NewNonNull(h.activityType)),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, err := userFromSource(p.Source)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(p.Context, timeouts.Long())
			defer cancel()
			return h.Favorites.ListForUser(ctx, u.ID)
		},
	})
	h.favoriteType.AddFieldConfig("activity", &graphql.Field{
		Type: h.activityType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			f, err := favoriteFromSource(p.Source)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
			defer cancel()
			a, err := h.Activities.GetByID(ctx, f.ActivityID)
			if err != nil {
				return nil, h.translate(err)
			}
			return *a, nil
		},
	})
	h.favoriteType.AddFieldConfig("user", &graphql.Field{
		Type: h.userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			f, err := favoriteFromSource(p.Source)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
			defer cancel()
			u, err := h.Users.GetByID(ctx, f.UserID)
			if err != nil {
				return nil, h.translate(err)
			}
			return *u, nil
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Source coercion                                                            */
/* -------------------------------------------------------------------------- */

var errBadSource = errors.New("unexpected resolver source")

func activityFromSource(src interface{}) (models.Activity, error) {
	switch v := src.(type) {
	case models.Activity:
		return v, nil
	case *models.Activity:
		return *v, nil
	default:
		return models.Activity{}, errBadSource
	}
}

func userFromSource(src interface{}) (models.User, error) {
	switch v := src.(type) {
	case models.User:
		return v, nil
	case *models.User:
		return *v, nil
	default:
		return models.User{}, errBadSource
	}
}

func favoriteFromSource(src interface{}) (models.Favorite, error) {
	switch v := src.(type) {
	case models.Favorite:
		return v, nil
	case *models.Favorite:
		return *v, nil
	default:
		return models.Favorite{}, errBadSource
	}
}
