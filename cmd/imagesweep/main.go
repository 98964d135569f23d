// imagesweep liste les images envoyées qui ne sont plus référencées et,
// avec --delete, les supprime. Sans --delete le nettoyage est un essai à blanc.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/app"
	"github.com/tmaenge-dot/mystore-admin/internal/config"
	"github.com/tmaenge-dot/mystore-admin/internal/logger"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
)

const (
	deleteFlag = "delete"
	minAgeFlag = "min-age"
)

func main() {
	doDelete := pflag.BoolP(deleteFlag, "d", false, "supprime réellement les fichiers orphelins")
	minAge := pflag.Duration(minAgeFlag, 0, "ignore les fichiers plus récents que cette durée (ex. 24h)")
	pflag.Parse()

	config.Load()
	cfg := config.FromEnv()

	zl, err := logger.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("❌ Impossible d'initialiser les logs : %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("❌ Initialisation impossible : %v", err)
	}
	defer application.Close()

	report, err := services.SweepOrphans(ctx, application.Images(), application.Store(), services.SweepOptions{
		Delete: *doDelete,
		MinAge: *minAge,
	})
	if err != nil {
		zap.S().Errorf("❌ Nettoyage impossible : %v", err)
		application.Close()
		os.Exit(1)
	}

	fmt.Printf("Images stockées : %d\n", report.Stored)
	if len(report.Orphans) == 0 {
		fmt.Println("Aucune image orpheline.")
		return
	}
	fmt.Printf("Images orphelines (%d) :\n", len(report.Orphans))
	for _, name := range report.Orphans {
		fmt.Println(" -", name)
	}
	if !*doDelete {
		fmt.Printf("Essai à blanc, relancez avec --%s pour supprimer.\n", deleteFlag)
		return
	}
	fmt.Printf("Supprimées : %d, échecs : %d\n", len(report.Deleted), len(report.Failed))
	if len(report.Failed) > 0 {
		application.Close()
		os.Exit(1)
	}
}
