package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/session"
	"github.com/ragengine/console/internal/telemetry"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	serveHost string
	servePort int
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web console",
	Long: `Serve the web console (landing, login, dashboard and the space pages).

The session is restored in the background; until it is, protected pages show a
loading screen.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default app.host)")
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default app.port)")
}

func listenAddr(cfg *config.Config) string {
	host, port := cfg.App.Host, cfg.App.Port
	if serveHost != "" {
		host = serveHost
	}
	if servePort != 0 {
		port = servePort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inj := newInjector(false)
	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := telemetry.SetupTracing(cfg, GetVersion(cmd)); err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := telemetry.Shutdown(sctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := do.Invoke[*gin.Engine](inj)
	if err != nil {
		return err
	}
	store := do.MustInvoke[*session.Store](inj)
	defer store.Close()

	srv := &http.Server{
		Addr:              listenAddr(cfg),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store.Initialize(gctx)
		log.Info("session restored", zap.Bool("authenticated", store.State().Authenticated()))
		return nil
	})
	g.Go(func() error {
		log.Info("web console listening", zap.String("addr", "http://"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("web console stopped")
	return nil
}
