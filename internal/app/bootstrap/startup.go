// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"escapade/internal/app/system/normalize"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin promotes the account with the given email to the admin
// role. Accounts sign up through the API, so nothing is created here; a
// missing account is logged and retried on the next start.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	email = normalize.Email(email)
	users := deps.MongoDatabase.Collection("users")

	res, err := users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": "admin", "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		logger.Error("admin promotion failed", zap.String("email", email), zap.Error(err))
		return err
	}

	if res.MatchedCount == 0 {
		logger.Warn("admin account not found; sign up first, promotion retries on next start",
			zap.String("email", email))
		return nil
	}
	if res.ModifiedCount > 0 {
		logger.Info("promoted account to admin", zap.String("email", email))
	}
	return nil
}
