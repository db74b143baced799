// Package app wires configuration, storage, and the HTTP API together.
package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/config"
	"github.com/luckydrawhq/luckydraw/internal/db"
	"github.com/luckydrawhq/luckydraw/internal/draw"
	internalhttp "github.com/luckydrawhq/luckydraw/internal/http"
	adminhandlers "github.com/luckydrawhq/luckydraw/internal/http/api/admin/handlers"
	fronthandlers "github.com/luckydrawhq/luckydraw/internal/http/api/front/handlers"
	"github.com/luckydrawhq/luckydraw/internal/mail"
	"github.com/luckydrawhq/luckydraw/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate opens the database and runs schema migrations.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// BuildRouter assembles the gin engine with all routes registered. A nil
// rng gives the winner selector a time-seeded generator; tests pass a
// fixed-seed one.
func BuildRouter(conn *gorm.DB, cfg config.Config, notifier mail.Notifier, rng *rand.Rand) *gin.Engine {
	lifecycle := draw.NewLifecycle(conn)
	registry := draw.NewRegistry(conn)
	selector := draw.NewSelector(conn, rng)

	authHandler := fronthandlers.NewAuthHandler(conn, cfg.JWT)
	profileHandler := fronthandlers.NewProfileHandler(conn)
	drawsHandler := fronthandlers.NewDrawsHandler(lifecycle, registry)
	winnersHandler := fronthandlers.NewWinnersHandler(lifecycle)

	adminDraws := adminhandlers.NewDrawsHandler(lifecycle)
	adminWinners := adminhandlers.NewWinnersHandler(selector, lifecycle, notifier)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public surface: account creation, login, and the home listing.
	r.POST("/v0/front/auth/register", authHandler.Register)
	r.POST("/v0/front/auth/login", authHandler.Login)
	r.GET("/v0/draws", drawsHandler.List)

	front := r.Group("/v0/front", internalhttp.AuthMiddleware(cfg.JWT.Secret))
	front.GET("/profile", profileHandler.Get)
	front.PUT("/profile", profileHandler.Update)
	front.GET("/dashboard", drawsHandler.Dashboard)
	front.GET("/draws/:id/join", drawsHandler.JoinForm)
	front.POST("/draws/:id/join", drawsHandler.Join)
	front.GET("/draws/:id/participants", drawsHandler.Participants)
	front.GET("/winners", winnersHandler.List)

	admin := r.Group("/v0/admin", internalhttp.AuthMiddleware(cfg.JWT.Secret), internalhttp.AdminMiddleware())
	admin.GET("/draws", adminDraws.List)
	admin.POST("/draws", adminDraws.Create)
	admin.GET("/draws/past", adminDraws.ListPast)
	admin.PUT("/draws/:id", adminDraws.Update)
	admin.DELETE("/draws/:id", adminDraws.Delete)
	admin.POST("/draws/:id/select-winner", adminWinners.Select)
	admin.GET("/draws/:id/report", adminWinners.Report)

	return r
}

// RunServer boots the API server and blocks until ctx is cancelled or the
// listener fails.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errRefresh := settings.Refresh(ctx, conn); errRefresh != nil {
		return errRefresh
	}
	settings.NewPoller(conn).Start(ctx)

	notifier := mail.NewNotifier(cfg.SMTP)
	router := BuildRouter(conn, cfg, notifier, nil)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
