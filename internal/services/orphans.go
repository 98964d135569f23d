package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/catalog"
	"github.com/tmaenge-dot/mystore-admin/internal/database"
)

type SweepOptions struct {
	Delete bool
	// MinAge protège les fichiers trop récents (envoi en cours d'enregistrement)
	MinAge time.Duration
}

type SweepReport struct {
	Stored  int
	Orphans []string
	Deleted []string
	Failed  map[string]error
}

// SweepOrphans liste les images stockées qui ne sont référencées ni par le
// catalogue statique, ni par une table d'images, ni par un logo de marque,
// et les supprime si opts.Delete est vrai.
func SweepOrphans(ctx context.Context, backend ImageBackend, store database.Store, opts SweepOptions) (SweepReport, error) {
	referenced, err := referencedImages(ctx, backend, store)
	if err != nil {
		return SweepReport{}, err
	}

	stored, err := backend.List(ctx)
	if err != nil {
		return SweepReport{}, err
	}

	report := SweepReport{Stored: len(stored), Failed: map[string]error{}}
	cutoff := time.Now().Add(-opts.MinAge)
	for _, img := range stored {
		if _, ok := referenced[img.Name]; ok {
			continue
		}
		if opts.MinAge > 0 && img.ModTime.After(cutoff) {
			continue
		}
		report.Orphans = append(report.Orphans, img.Name)
	}
	sort.Strings(report.Orphans)

	if !opts.Delete {
		return report, nil
	}
	for _, name := range report.Orphans {
		if err := backend.Delete(ctx, name); err != nil {
			zap.S().Warnf("❌ Suppression de %s impossible: %v", name, err)
			report.Failed[name] = err
			continue
		}
		report.Deleted = append(report.Deleted, name)
	}
	zap.S().Infof("🧹 %d image(s) orpheline(s) supprimée(s)", len(report.Deleted))
	return report, nil
}

func referencedImages(ctx context.Context, backend ImageBackend, store database.Store) (map[string]struct{}, error) {
	refs := map[string]struct{}{}
	add := func(ref string) {
		if name, ok := backend.NameFromRef(ref); ok {
			refs[name] = struct{}{}
		}
	}

	for _, ref := range catalog.StaticImageRefs() {
		add(ref)
	}

	extra, err := store.ImageStoreIDs(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, id := range append(catalog.StoreIDs(), extra...) {
		if seen[id] {
			continue
		}
		seen[id] = true

		images, err := store.GetImageMap(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, ref := range images {
			add(ref)
		}
		brand, found, err := store.GetBrand(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			add(brand.Logo)
		}
	}
	return refs, nil
}
