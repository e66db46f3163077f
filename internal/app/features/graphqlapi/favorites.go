package graphqlapi

import (
	"context"

	"escapade/internal/app/system/timeouts"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) favoriteQueryFields() graphql.Fields {
	return graphql.Fields{
		"getFavoriteActivities": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(h.activityType)),
			Description: "The caller's favorites in their saved order.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Long())
				defer cancel()
				return h.Favorites.ListForUser(ctx, userID)
			},
		},
	}
}

func (h *Handler) favoriteMutationFields() graphql.Fields {
	return graphql.Fields{
		"addFavoriteActivity": &graphql.Field{
			Type: graphql.NewNonNull(h.favoriteType),
			Args: graphql.FieldConfigArgument{
				"activityId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				activityID, err := parseID(p.Args["activityId"].(string), "activity")
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				fav, err := h.Favorites.Add(ctx, userID, activityID)
				if err != nil {
					return nil, h.translate(err)
				}
				return fav, nil
			},
		},
		"removeFavoriteActivity": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.Boolean),
			Description: "True when a favorite was removed, false when none existed.",
			Args: graphql.FieldConfigArgument{
				"activityId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				activityID, err := parseID(p.Args["activityId"].(string), "activity")
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				removed, err := h.Favorites.Remove(ctx, userID, activityID)
				if err != nil {
					return nil, h.translate(err)
				}
				return removed, nil
			},
		},
		"toggleFavoriteActivity": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.Boolean),
			Description: "Flips the favorite and returns the new state.",
			Args: graphql.FieldConfigArgument{
				"activityId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				activityID, err := parseID(p.Args["activityId"].(string), "activity")
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				nowFavorite, err := h.Favorites.Toggle(ctx, userID, activityID)
				if err != nil {
					return nil, h.translate(err)
				}
				return nowFavorite, nil
			},
		},
		"reorderFavoriteActivities": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(h.activityType)),
			Description: "Replaces the favorites order; ids must be a permutation of the current set.",
			Args: graphql.FieldConfigArgument{
				"activityIds": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
				},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				rawIDs, _ := p.Args["activityIds"].([]interface{})
				ids := make([]primitive.ObjectID, 0, len(rawIDs))
				for _, raw := range rawIDs {
					s, _ := raw.(string)
					id, err := parseID(s, "activity")
					if err != nil {
						return nil, err
					}
					ids = append(ids, id)
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Long())
				defer cancel()
				ordered, err := h.Favorites.Reorder(ctx, userID, ids)
				if err != nil {
					return nil, h.translate(err)
				}
				return ordered, nil
			},
		},
	}
}
