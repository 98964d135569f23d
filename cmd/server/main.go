package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/app"
	"github.com/tmaenge-dot/mystore-admin/internal/config"
	"github.com/tmaenge-dot/mystore-admin/internal/logger"
	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
	"github.com/tmaenge-dot/mystore-admin/internal/routes"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

func main() {
	config.Load()
	cfg := config.FromEnv()

	zl, err := logger.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("❌ Impossible d'initialiser les logs : %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("❌ Initialisation impossible : %v", err)
	}
	defer application.Close()

	uploadLimiter, err := application.UploadLimiter(ctx)
	if err != nil {
		zap.S().Fatalf("❌ Limiteur d'envois : %v", err)
	}
	apiLimiter, err := application.APILimiter(ctx)
	if err != nil {
		zap.S().Fatalf("❌ Limiteur API : %v", err)
	}
	loginLimiter, err := application.LoginLimiter(ctx)
	if err != nil {
		zap.S().Fatalf("❌ Limiteur de connexion : %v", err)
	}

	creds, err := utils.NewAdminCredentials(cfg.AdminUser, cfg.AdminPass)
	if err != nil {
		zap.S().Fatalf("❌ Hash du mot de passe admin : %v", err)
	}
	if cfg.AdminPass == "admin" {
		zap.S().Warn("⚠️ Mot de passe admin par défaut, définissez ADMIN_PASS")
	}

	if err := application.StartJobs(); err != nil {
		zap.S().Fatalf("❌ %v", err)
	}

	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := routes.NewEngine(cfg.TrustedProxies)
	if err != nil {
		zap.S().Fatalf("❌ %v", err)
	}

	routes.RegisterRoutes(r, routes.Dependencies{
		Store:       application.Store(),
		Images:      services.NewImagePipeline(application.Images(), uploadLimiter),
		Sessions:    middleware.NewSessionStore(cfg.SessionSecret, cfg.CookieSecure),
		Credentials: creds,
		ProductConstraints: services.UploadConstraints{
			MaxBytes: cfg.UploadMaxBytes,
			MaxWidth: cfg.ProductImageMaxWidth,
		},
		LogoConstraints: services.UploadConstraints{
			MaxBytes: cfg.LogoMaxBytes,
			MaxWidth: cfg.LogoMaxWidth,
		},
		APILimiter:   apiLimiter,
		LoginLimiter: loginLimiter,
		CORSOrigins:  cfg.CORSOrigins,
		ImagesDir:    application.LocalImagesDir(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infof("🚀 Serveur MyStore lancé sur %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("❌ Serveur HTTP : %v", err)
		}
	}()

	<-ctx.Done()
	zap.S().Info("🛑 Arrêt du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("❌ Arrêt du serveur HTTP : %v", err)
	}
	zap.S().Info("✅ Serveur arrêté")
}
