package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"escapade/internal/app/system/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GraphQLRequest builds a POST /graphql request carrying the given query
// and variables.
func GraphQLRequest(t *testing.T, query string, variables map[string]any) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		t.Fatalf("marshal graphql request: %v", err)
	}
	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUser injects a caller identity into the request context, bypassing
// the bearer-token middleware.
func WithUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), u))
}

// RegularUser returns a caller identity with the user role.
func RegularUser(id primitive.ObjectID) *auth.SessionUser {
	return &auth.SessionUser{
		ID:        id.Hex(),
		Email:     "user@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      "user",
	}
}

// AdminUser returns a caller identity with the admin role.
func AdminUser(id primitive.ObjectID) *auth.SessionUser {
	return &auth.SessionUser{
		ID:        id.Hex(),
		Email:     "admin@example.com",
		FirstName: "Test",
		LastName:  "Admin",
		Role:      "admin",
	}
}

// DecodeGraphQL unmarshals a GraphQL response body into data/errors.
func DecodeGraphQL(t *testing.T, rec *httptest.ResponseRecorder) (map[string]any, []map[string]any) {
	t.Helper()

	var resp struct {
		Data   map[string]any   `json:"data"`
		Errors []map[string]any `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode graphql response: %v\nbody: %s", err, rec.Body.String())
	}
	return resp.Data, resp.Errors
}
