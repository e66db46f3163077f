package graphqlapi

import (
	"context"

	"escapade/internal/app/system/apperr"
	"escapade/internal/app/system/auth"
	"escapade/internal/app/system/timeouts"
	"escapade/internal/domain/models"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// errBadCredentials covers both wrong-password sign-in and duplicate
// email at sign-up, so neither leaks which accounts exist.
var errBadCredentials = apperr.New(apperr.Unauthorized, "Invalid credentials")

type authPayload struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *Handler) accountQueryFields() graphql.Fields {
	return graphql.Fields{
		"getMe": &graphql.Field{
			Type:        h.userType,
			Description: "The authenticated caller's profile.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				_, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
				defer cancel()
				u, err := h.Users.GetByID(ctx, userID)
				if err != nil {
					return nil, h.translate(err)
				}
				return *u, nil
			},
		},
	}
}

func (h *Handler) accountMutationFields() graphql.Fields {
	signUpInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SignUpInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"firstName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	return graphql.Fields{
		"signUp": &graphql.Field{
			Type: graphql.NewNonNull(h.authPayloadType),
			Args: graphql.FieldConfigArgument{
				"signUpInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(signUpInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				raw := p.Args["signUpInput"].(map[string]interface{})
				password := raw["password"].(string)
				if len(password) < 8 {
					return nil, apperr.New(apperr.InvalidArgument, "Password must be at least 8 characters")
				}
				hash, err := auth.HashPassword(password)
				if err != nil {
					return nil, err
				}

				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				u, err := h.Users.Create(ctx, models.User{
					FirstName: raw["firstName"].(string),
					LastName:  raw["lastName"].(string),
					Email:     raw["email"].(string),
					Password:  hash,
				})
				if err != nil {
					if apperr.IsKind(h.translate(err), apperr.Conflict) {
						return nil, errBadCredentials
					}
					return nil, h.translate(err)
				}
				return h.issueSession(ctx, u)
			},
		},
		"signIn": &graphql.Field{
			Type: graphql.NewNonNull(h.authPayloadType),
			Args: graphql.FieldConfigArgument{
				"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Medium())
				defer cancel()
				u, err := h.Users.FindByEmail(ctx, p.Args["email"].(string))
				if err != nil {
					return nil, h.translate(err)
				}
				if u == nil {
					return nil, errBadCredentials
				}
				if err := auth.VerifyPassword(u.Password, p.Args["password"].(string)); err != nil {
					return nil, errBadCredentials
				}
				return h.issueSession(ctx, *u)
			},
		},
		"setDebugMode": &graphql.Field{
			Type:        graphql.NewNonNull(h.userType),
			Description: "Admin-only switch for the caller's debug flag.",
			Args: graphql.FieldConfigArgument{
				"enabled": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				session, userID, err := h.currentUser(p.Context)
				if err != nil {
					return nil, err
				}
				if !session.IsAdmin() {
					return nil, errInvalidToken
				}
				ctx, cancel := context.WithTimeout(p.Context, timeouts.Short())
				defer cancel()
				u, err := h.Users.SetDebugMode(ctx, userID, p.Args["enabled"].(bool))
				if err != nil {
					return nil, h.translate(err)
				}
				return *u, nil
			},
		},
	}
}

// issueSession mints a bearer token for u, records it, and returns the
// payload the sign-up/sign-in mutations share.
func (h *Handler) issueSession(ctx context.Context, u models.User) (authPayload, error) {
	token, err := h.AuthMgr.Tokens().Issue(u.ID.Hex())
	if err != nil {
		h.Log.Error("token issue failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		return authPayload{}, err
	}
	if err := h.Users.UpdateToken(ctx, u.ID, token); err != nil {
		return authPayload{}, h.translate(err)
	}
	u.Token = token
	return authPayload{Token: token, User: u}, nil
}
