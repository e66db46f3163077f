package graphqlapi

import (
	"context"

	activitystore "escapade/internal/app/store/activities"
	"escapade/internal/app/system/timeouts"

	"github.com/graphql-go/graphql"
)

func (h *Handler) activityQueryFields() graphql.Fields {
	return graphql.Fields{
		"getActivities": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(h.activityType)),
			Description: "All activities, newest first.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Long())
				defer cancel()
				return h.Activities.List(ctx)
			},
		},
		"getLatestActivities": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(h.activityType)),
			Description: "The most recently created activities.",
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := activitystore.DefaultLatestLimit
				if v, ok := p.Args["limit"].(int); ok {
					limit = v
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				return h.Activities.Latest(ctx, limit)
			},
		},
		"getActivity": &graphql.Field{
			Type: h.activityType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := parseID(p.Args["id"].(string), "activity")
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
				defer cancel()
				a, err := h.Activities.GetByID(ctx, id)
				if err != nil {
					return nil, h.translate(err)
				}
				return *a, nil
			},
		},
		"getActivitiesByCity": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(h.activityType)),
			Description: "Activities in a city, optionally narrowed by name and price.",
			Args: graphql.FieldConfigArgument{
				"city":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"activity": &graphql.ArgumentConfig{Type: graphql.String},
				"price":    &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				city := p.Args["city"].(string)
				name, _ := p.Args["activity"].(string)
				var price *int
				if v, ok := p.Args["price"].(int); ok {
					price = &v
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				return h.Activities.Search(ctx, city, name, price)
			},
		},
		"getCities": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(graphql.String)),
			Description: "Every city with at least one activity.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				return h.Activities.Cities(ctx)
			},
		},
		"getActivitiesByUser": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(h.activityType)),
			Description: "Activities created by the authenticated caller.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				return h.Activities.ListByOwner(ctx, userID)
			},
		},
	}
}

func (h *Handler) activityMutationFields() graphql.Fields {
	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateActivityInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"city":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	return graphql.Fields{
		"createActivity": &graphql.Field{
			Type: graphql.NewNonNull(h.activityType),
			Args: graphql.FieldConfigArgument{
				"createActivityInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				raw := p.Args["createActivityInput"].(map[string]interface{})
				in := activitystore.CreateInput{
					Name: raw["name"].(string),
					City: raw["city"].(string),
				}
				if v, ok := raw["description"].(string); ok {
					in.Description = v
				}
				if v, ok := raw["price"].(int); ok {
					in.Price = v
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				a, err := h.Activities.Create(ctx, userID, in)
				if err != nil {
					return nil, h.translate(err)
				}
				return a, nil
			},
		},
	}
}
