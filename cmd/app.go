package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ragengine/console/internal/bootstrap"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/session"
	"github.com/ragengine/console/internal/tui"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrNotLoggedIn = errors.New("not logged in, run `rag-engine login` first")

// VersionKey is the context key for storing version
type VersionKey string

const versionKey VersionKey = "version"

// SetVersion sets the version in the command context
func SetVersion(cmd *cobra.Command, v string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, versionKey, v))
}

// GetVersion gets the version from the command context
func GetVersion(cmd *cobra.Command) string {
	if ctx := cmd.Context(); ctx != nil {
		if v, ok := ctx.Value(versionKey).(string); ok {
			return v
		}
	}
	return "dev"
}

// newInjector builds the dependency container; tests replace it.
var newInjector = func(consoleLog bool) *do.Injector {
	return bootstrap.BuildContainer(bootstrap.Options{ConsoleLog: consoleLog})
}

// app is what one command run needs: the container plus an initialized session.
type app struct {
	inj   *do.Injector
	cfg   *config.Config
	log   *zap.Logger
	store *session.Store
}

func newApp(ctx context.Context) (*app, error) {
	inj := newInjector(true)
	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	store, err := do.Invoke[*session.Store](inj)
	if err != nil {
		return nil, err
	}
	store.Initialize(ctx)
	return &app{inj: inj, cfg: cfg, log: log, store: store}, nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.log.Sync()
}

// api is resolved lazily: the postgres settings backend opens a database connection.
func (a *app) api() (*service.API, error) {
	return do.Invoke[*service.API](a.inj)
}

func (a *app) requireUser() (*model.SessionUser, error) {
	if u := a.store.State().User; u != nil {
		return u, nil
	}
	return nil, ErrNotLoggedIn
}

// signedIn returns the API for a command that needs a session.
func (a *app) signedIn() (*service.API, error) {
	if _, err := a.requireUser(); err != nil {
		return nil, err
	}
	return a.api()
}

// resolveSpace accepts a space id, or an exact (case-insensitive) space name when no space
// has that id.
func (a *app) resolveSpace(ctx context.Context, api *service.API, ref string) (*pages.SpaceLayout, error) {
	sp, err := api.Spaces.Get(ctx, ref)
	if err == nil {
		return &pages.SpaceLayout{User: a.store.State().User, Space: *sp, SpaceID: sp.ID}, nil
	}
	if !httpclient.IsStatus(err, http.StatusNotFound) {
		return nil, err
	}

	spaces, err := api.Spaces.List(ctx)
	if err != nil {
		a.log.Error("failed to load spaces", zap.Error(err))
		return nil, err
	}
	for _, s := range spaces {
		if strings.EqualFold(s.Name, ref) {
			return &pages.SpaceLayout{User: a.store.State().User, Space: s, SpaceID: s.ID}, nil
		}
	}
	return nil, fmt.Errorf("space %q not found", ref)
}

func (a *app) confirmer(yes bool) pages.Confirmer {
	if yes {
		return pages.Always
	}
	return tui.Confirmer(a.log)
}

// withApp runs fn with an initialized app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}
