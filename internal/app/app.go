// Package app assemble les dépendances du serveur et de l'outil de nettoyage
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/cache"
	"github.com/tmaenge-dot/mystore-admin/internal/config"
	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
)

// délai minimal avant qu'une image non référencée soit supprimée par la tâche planifiée
const sweepMinAge = 24 * time.Hour

type Application struct {
	cfg    config.Config
	store  database.Store
	images services.ImageBackend
	redis  *redis.Client
	sched  *cron.Cron
}

// New ouvre la persistance et le stockage des images configurés
func New(ctx context.Context, cfg config.Config) (*Application, error) {
	store, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &Application{cfg: cfg, store: store}
	if rs, ok := store.(*database.RedisStore); ok {
		a.redis = rs.Client()
	}

	switch cfg.ImageBackend {
	case "minio":
		if a.images, err = services.ConnectMinio(ctx, cfg); err != nil {
			a.Close()
			return nil, err
		}
	case "", "local":
		if a.images, err = services.NewLocalBackend(cfg.ImagesDir); err != nil {
			a.Close()
			return nil, err
		}
		zap.S().Infof("✅ Images stockées localement (%s)", cfg.ImagesDir)
	default:
		a.Close()
		return nil, fmt.Errorf("stockage d'images inconnu: %q", cfg.ImageBackend)
	}
	return a, nil
}

func (a *Application) Store() database.Store         { return a.store }
func (a *Application) Images() services.ImageBackend { return a.images }

// LocalImagesDir renvoie le répertoire à servir sous /images, "" si les
// images sont sur MinIO
func (a *Application) LocalImagesDir() string {
	if lb, ok := a.images.(*services.LocalBackend); ok {
		return lb.Dir()
	}
	return ""
}

// Limiter crée un limiteur à fenêtre glissante sur le backend configuré.
// Sans Redis disponible on retombe sur la mémoire du processus.
func (a *Application) Limiter(ctx context.Context, scope string, limit int, window time.Duration) (cache.Limiter, error) {
	if a.cfg.RateLimitBackend != "redis" {
		return cache.NewMemoryLimiter(limit, window), nil
	}
	if a.redis == nil {
		client, err := database.ConnectRedis(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		a.redis = client
	}
	return cache.NewRedisLimiter(a.redis, "ratelimit:"+scope, limit, window), nil
}

// UploadLimiter borne les envois d'images par client
func (a *Application) UploadLimiter(ctx context.Context) (cache.Limiter, error) {
	return a.Limiter(ctx, "upload", a.cfg.UploadRateMax, a.cfg.UploadRateWindow)
}

func (a *Application) APILimiter(ctx context.Context) (cache.Limiter, error) {
	return a.Limiter(ctx, "api", middleware.APIMaxRequests, middleware.APICooldown)
}

func (a *Application) LoginLimiter(ctx context.Context) (cache.Limiter, error) {
	return a.Limiter(ctx, "login", middleware.LoginMaxAttempts, middleware.LoginCooldown)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StartJobs planifie le nettoyage des images orphelines si ORPHAN_SWEEP_SCHEDULE est défini
func (a *Application) StartJobs() error {
	if a.cfg.OrphanSweepSchedule == "" {
		return nil
	}
	sched := cron.New(cron.WithParser(cronParser))
	_, err := sched.AddFunc(a.cfg.OrphanSweepSchedule, a.SchedOrphanSweepTask)
	if err != nil {
		return fmt.Errorf("planification %q: %w", a.cfg.OrphanSweepSchedule, err)
	}
	a.sched = sched
	a.sched.Start()
	zap.S().Infof("🕒 Nettoyage des images planifié (%s)", a.cfg.OrphanSweepSchedule)
	return nil
}

// SchedOrphanSweepTask supprime les images orphelines de plus de 24h
func (a *Application) SchedOrphanSweepTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	report, err := services.SweepOrphans(ctx, a.images, a.store, services.SweepOptions{Delete: true, MinAge: sweepMinAge})
	if err != nil {
		zap.S().Errorf("❌ Nettoyage des images: %v", err)
		return
	}
	zap.S().Infow("🧹 Nettoyage des images",
		"stored", report.Stored,
		"orphans", len(report.Orphans),
		"deleted", len(report.Deleted),
		"failed", len(report.Failed))
}

// Close arrête les tâches planifiées et ferme la connexion Redis
func (a *Application) Close() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.S().Warnf("⚠️ Fermeture Redis: %v", err)
		}
	}
}
