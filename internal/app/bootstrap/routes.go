// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	graphqlfeature "escapade/internal/app/features/graphqlapi"
	healthfeature "escapade/internal/app/features/health"
	userstore "escapade/internal/app/store/users"
	"escapade/internal/app/system/auth"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. Escapade mounts two surfaces:
// the health endpoint for load balancers and the GraphQL endpoint that
// carries every query and mutation.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	authMgr := auth.NewManager(auth.NewTokenManager(appCfg.JWTKey, appCfg.TokenTTL), logger)

	// Fetch fresh user data on each request so role changes and debug
	// flags take effect immediately.
	authMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	gqlHandler, err := graphqlfeature.NewHandler(deps.MongoDatabase, authMgr, logger)
	if err != nil {
		logger.Error("graphql schema build failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Mount("/graphql", graphqlfeature.Routes(gqlHandler))

	return r, nil
}
