package bootstrap

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/infra/db"
	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/infra/identity"
	"github.com/ragengine/console/internal/infra/logger"
	"github.com/ragengine/console/internal/modules/handler"
	"github.com/ragengine/console/internal/modules/repo"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/router"
	"github.com/ragengine/console/internal/session"
	"github.com/ragengine/console/internal/telemetry"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	UserConfigBackendPostgrest = "postgrest"
	UserConfigBackendPostgres  = "postgres"
)

type Options struct {
	// ConsoleLog selects the human-readable logger for interactive commands.
	ConsoleLog bool
}

func BuildContainer(opts Options) *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if opts.ConsoleLog {
			return logger.NewConsole(cfg.Log.Level)
		}
		return logger.New(cfg.Log.Level)
	})

	// identity
	do.Provide(inj, func(i *do.Injector) (session.IdentityProvider, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		return identity.NewSupabaseProvider(cfg, log)
	})

	// session store
	do.Provide(inj, func(i *do.Injector) (*session.Store, error) {
		provider := do.MustInvoke[session.IdentityProvider](i)
		log := do.MustInvoke[*zap.Logger](i)
		return session.NewStore(provider, log), nil
	})

	// backend HTTP client
	do.Provide(inj, func(i *do.Injector) (*httpclient.BackendClient, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[*session.Store](i)
		log := do.MustInvoke[*zap.Logger](i)
		return httpclient.NewBackendClient(cfg, store, log), nil
	})

	// DB, only for the postgres user config backend
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if telemetry.Enabled(cfg) {
			if err := db.RegisterOpenTelemetryPlugin(conn); err != nil {
				return nil, fmt.Errorf("register gorm tracing: %w", err)
			}
		}
		return conn, nil
	})

	do.Provide(inj, func(i *do.Injector) (repo.UserConfigRepo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		switch cfg.UserConfig.Backend {
		case UserConfigBackendPostgres:
			return repo.NewUserConfigRepo(do.MustInvoke[*gorm.DB](i)), nil
		case UserConfigBackendPostgrest, "":
			store := do.MustInvoke[*session.Store](i)
			log := do.MustInvoke[*zap.Logger](i)
			return repo.NewPostgrestUserConfigRepo(cfg, store, log), nil
		}
		return nil, fmt.Errorf("unknown userConfig.backend %q", cfg.UserConfig.Backend)
	})

	// API facade
	do.Provide(inj, func(i *do.Injector) (*service.API, error) {
		return service.NewAPI(
			do.MustInvoke[*httpclient.BackendClient](i),
			do.MustInvoke[repo.UserConfigRepo](i),
			do.MustInvoke[*session.Store](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// handlers
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		return handler.NewAuthHandler(do.MustInvoke[*session.Store](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DashboardHandler, error) {
		api := do.MustInvoke[*service.API](i)
		return handler.NewDashboardHandler(do.MustInvoke[*session.Store](i), api.Spaces, do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SpaceHandler, error) {
		return handler.NewSpaceHandler(
			do.MustInvoke[*session.Store](i),
			do.MustInvoke[*service.API](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// web router
	do.Provide(inj, func(i *do.Injector) (*gin.Engine, error) {
		return router.NewRouter(router.RouterDeps{
			Config:           do.MustInvoke[*config.Config](i),
			Log:              do.MustInvoke[*zap.Logger](i),
			Session:          do.MustInvoke[*session.Store](i),
			AuthHandler:      do.MustInvoke[*handler.AuthHandler](i),
			DashboardHandler: do.MustInvoke[*handler.DashboardHandler](i),
			SpaceHandler:     do.MustInvoke[*handler.SpaceHandler](i),
		})
	})

	return inj
}
