// Command migrate copies legacy schools documents into schoolProfiles.
// Schools that already have a profile are left untouched, so it is safe to rerun.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/GregMSThompson/schoolfund-backend/internal/bootstrap"
	"github.com/GregMSThompson/schoolfund-backend/internal/cache"
	"github.com/GregMSThompson/schoolfund-backend/internal/config"
	"github.com/GregMSThompson/schoolfund-backend/internal/services"
	"github.com/GregMSThompson/schoolfund-backend/internal/store"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.RunFirestore(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx := logger.ToContext(context.Background(), bs.Log.With("job", "migrate-schools"))

	ustore := store.NewUserStore(bs.Firestore)
	psstore := store.NewSchoolProfileStore(bs.Firestore)

	// owners are only consulted by request paths; migration works on school ids directly
	userv := services.NewUserService(ustore, nil)
	prserv := services.NewProfileService(psstore, userv, cache.NewSchoolLocations(cfg.SchoolCacheSize, cfg.SchoolCacheTTL))

	migrated, skipped, err := prserv.MigrateLegacy(ctx)
	exitOnError("migration failed", err, bs.Log)
	bs.Log.Info("migration complete", "migrated", migrated, "skipped", skipped)
}
