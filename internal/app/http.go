package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/goShop/internal/auth"
	"github.com/MrEthical07/goShop/internal/auth/provider/google"
	"github.com/MrEthical07/goShop/internal/cart"
	"github.com/MrEthical07/goShop/internal/catalog"
	"github.com/MrEthical07/goShop/internal/config"
	"github.com/MrEthical07/goShop/internal/metrics"
	"github.com/MrEthical07/goShop/internal/middleware"
	"github.com/MrEthical07/goShop/internal/session"
	"github.com/MrEthical07/goShop/internal/token"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
	})
	if err != nil {
		infra.Close()
		return nil, nil, err
	}

	sessions := session.NewStore(infra.Redis)
	m := metrics.New()
	log := slog.Default()

	authSvc := auth.NewService(infra.DB, tokens, sessions, m)
	cookies := auth.CookieWriter{Secure: cfg.Production()}

	var googleFlow *auth.GoogleFlow
	if cfg.GoogleEnabled() {
		provider, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			infra.Close()
			return nil, nil, err
		}
		googleFlow = &auth.GoogleFlow{
			Provider:  provider,
			ClientURL: cfg.ClientURL,
			Secure:    cfg.Production(),
		}
	} else {
		log.Warn("google sign-in not configured, routes disabled")
	}

	var images catalog.ImageStore
	if infra.Images != nil {
		images = infra.Images
	}
	catalogSvc := catalog.NewService(infra.DB, images, sessions, m, log)
	cartSvc := cart.NewService(infra.DB)

	authHandler := auth.NewHandler(authSvc, cookies, googleFlow, log)
	catalogHandler := catalog.NewHandler(catalogSvc, log)
	cartHandler := cart.NewHandler(cartSvc, log)

	protect := middleware.ProtectRoute(tokens, infra.DB)
	admin := middleware.AdminRoute()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), m.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := sessions.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	authHandler.Register(api.Group("/auth"), protect)
	catalogHandler.Register(api.Group("/products"), protect, admin)
	cartHandler.Register(api.Group("/cart"), protect)

	return router, infra.Close, nil
}
