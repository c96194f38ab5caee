package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grapebd/g2g/internal/database"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/realtime"
	"grapebd/g2g/internal/router"
	"grapebd/g2g/internal/ws"
	"grapebd/g2g/pkg/cloudinary"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed the admin and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	log := logging.For("server")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			EnableTracing:    true,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
			Environment:      cfg.Server.Env,
		}); err != nil {
			log.WithError(err).Error("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return errors.Wrap(err, "database")
	}
	if err := database.AutoMigrate(db); err != nil {
		return errors.Wrap(err, "migrate")
	}
	if err := database.SeedAdmin(db, &cfg.Admin); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return errors.Wrap(err, "cloudinary")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := realtime.NewBus()
	defer bus.Close()
	events, err := bus.Subscribe(ctx)
	if err != nil {
		return errors.Wrap(err, "realtime subscribe")
	}
	hub := ws.NewHub()
	go hub.Run(ctx, events)

	engine := router.Setup(cfg, db, cloud, bus, hub)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("listen")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	log.Info("server stopped")
	return nil
}
