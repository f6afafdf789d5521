package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/schoolfund-backend/internal/bootstrap"
	"github.com/GregMSThompson/schoolfund-backend/internal/cache"
	"github.com/GregMSThompson/schoolfund-backend/internal/config"
	"github.com/GregMSThompson/schoolfund-backend/internal/crypto"
	"github.com/GregMSThompson/schoolfund-backend/internal/handlers"
	"github.com/GregMSThompson/schoolfund-backend/internal/middleware"
	"github.com/GregMSThompson/schoolfund-backend/internal/response"
	"github.com/GregMSThompson/schoolfund-backend/internal/router"
	"github.com/GregMSThompson/schoolfund-backend/internal/services"
	"github.com/GregMSThompson/schoolfund-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(nil, "")
	if bs.KMS != nil {
		kmsHelper = crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	}
	locations := cache.NewSchoolLocations(cfg.SchoolCacheSize, cfg.SchoolCacheTTL)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	cstore := store.NewCampaignStore(bs.Firestore)
	psstore := store.NewSchoolProfileStore(bs.Firestore)
	sdstore := store.NewSchoolDataStore(bs.Firestore)
	nstore := store.NewNotificationStore(bs.Firestore)
	pstore := store.NewPaymentStore(bs.Firestore)
	plstore := store.NewPaymentLogStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore, bs.Firebase)
	prserv := services.NewProfileService(psstore, userv, locations)
	cserv := services.NewCampaignService(cstore, prserv, locations, userv, cfg.DefaultCurrency, cfg.CampaignDuration)
	sserv := services.NewSchoolService(sdstore, userv, cserv)
	nserv := services.NewNotificationService(nstore)
	gserv := services.NewGatewayService(bs.StripeAdapter, cfg.DefaultCurrency, cfg.StripePublishableKey)
	pserv := services.NewPaymentService(pstore, plstore, cstore, bs.StripeAdapter, kmsHelper)
	aiserv := services.NewAIService(bs.VertexAdapter)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.CampaignSvc = cserv
	deps.DonationSvc = pserv
	deps.SchoolSvc = sserv
	deps.ProfileSvc = prserv
	deps.NotificationSvc = nserv
	deps.UserSvc = userv
	deps.GatewaySvc = gserv
	deps.PaymentSvc = pserv
	deps.AISvc = aiserv

	// router
	mw := middleware.NewMiddleware(bs.Firebase)
	r := router.NewRouter(deps, router.Options{
		Auth:                mw.FirebaseAuth,
		AIRequestsPerMinute: cfg.AIRequestsPerMinute,
	})

	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
