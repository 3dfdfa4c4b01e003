package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"shopadmin/internal/app"
	"shopadmin/internal/config"
	"shopadmin/pkg/log"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the console http server",
		Action: func(c *cli.Context) error {
			return withApp(c, serve)
		},
	}
}

func serve(a *app.App) error {
	cfg := a.Config
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	server := &http.Server{
		Addr:           cfg.Server.GetAddr(),
		Handler:        a.Router(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	// route table edits apply without a restart; everything else needs one
	config.WatchConfig(func(next *config.Config) {
		if err := a.ReloadRoutes(next.Routes); err != nil {
			log.WithError(err).Warn("Failed to reload routes, keeping current table")
			return
		}
		log.WithField("version", a.Routes().Version()).Info("Routes reloaded")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    server.Addr,
			"mode":    cfg.Server.Mode,
			"backend": cfg.API.BaseURL,
			"session": cfg.Session.Driver,
			"routes":  a.Routes().Version(),
			"metrics": cfg.Metrics.Enabled,
			"tracing": a.Tracer.Enabled(),
		}).Info("Starting console server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		eg.Go(func() error {
			a.Metrics.StartSystemMetricsCollection(ctx, 15*time.Second)
			return nil
		})
	}

	eg.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down console server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Console server exited")
	return nil
}
