// Package app assembles the service: infrastructure clients, domain
// services and the HTTP router.
package app

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goShop/internal/config"
)

// App owns the HTTP server and the infrastructure it runs on.
type App struct {
	httpServer *http.Server
	cleanup    func() error
}

// New connects the infrastructure and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	return &App{
		httpServer: server,
		cleanup:    cleanup,
	}, nil
}

// Run serves until the listener fails or Shutdown is called.
func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the infrastructure.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
