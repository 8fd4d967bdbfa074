package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("serve: creating logger: %w", err)
			}

			app, err := newApplication(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer func() {
				if closeErr := app.Close(); closeErr != nil {
					pkgApp.LogError(context.Background(), logger, "Erro ao liberar recursos", closeErr, nil)
				}
			}()

			server := &http.Server{
				Addr:              cfg.HTTP.ListenAddr,
				Handler:           newRouter(app),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				logger.Info(ctx, "Servidor iniciando", map[string]interface{}{"addr": cfg.HTTP.ListenAddr})
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: HTTP server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info(context.Background(), "Encerrando o servidor", nil)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("serve: shutdown: %w", err)
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info(context.Background(), "Servidor encerrado", nil)
			return nil
		},
	}
}

func newRouter(app *application) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(app.metrics.Middleware)

	router.Handle("/metrics", app.metrics.Handler())
	app.persons.RegisterRoutes(router)
	app.titles.RegisterRoutes(router)
	app.complaints.RegisterRoutes(router)
	return router
}
