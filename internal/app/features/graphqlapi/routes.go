package graphqlapi

import (
	"github.com/go-chi/chi/v5"
	gqlhandler "github.com/graphql-go/handler"
)

// Routes serves the schema at the mount root. The bearer middleware
// runs here so every resolver sees the caller identity (or none).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.AuthMgr.LoadBearerUser)

	gh := gqlhandler.New(&gqlhandler.Config{
		Schema:   h.Schema(),
		Pretty:   true,
		GraphiQL: true,
	})
	r.Handle("/", gh)

	return r
}
