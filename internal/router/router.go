package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/GregMSThompson/schoolfund-backend/internal/handlers"
	"github.com/GregMSThompson/schoolfund-backend/internal/middleware"
)

type Options struct {
	// Auth verifies the bearer token and puts the caller's uid in the context.
	Auth                func(http.Handler) http.Handler
	AIRequestsPerMinute int
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log, "/health").LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		deps.ResponseHandler.WriteError(w, req, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		deps.ResponseHandler.WriteError(w, req, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	hh := handlers.NewHealthHandlers(deps)
	ch := handlers.NewCampaignHandlers(deps)
	sch := handlers.NewSchoolHandlers(deps)
	ush := handlers.NewUserHandlers(deps)
	ph := handlers.NewPaymentHandlers(deps)
	sth := handlers.NewStripeHandlers(deps)
	aih := handlers.NewAIHandlers(deps)

	r.Get("/health", hh.Health)
	r.Mount("/campaigns", ch.CampaignRoutes(opts.Auth))
	r.Mount("/payments", ph.PaymentRoutes())

	r.Group(func(r chi.Router) {
		r.Use(opts.Auth)
		r.Mount("/me", sch.MeRoutes())
		r.Mount("/users", ush.UserRoutes())
	})

	// browser-facing proxy endpoints
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))
		r.Mount("/stripe", sth.StripeRoutes())
		r.With(middleware.RateLimit(opts.AIRequestsPerMinute)).Mount("/", aih.AIRoutes())
	})

	logRoutes(deps.Log, r)
	return r
}

func logRoutes(log *slog.Logger, r chi.Routes) {
	if log == nil {
		return
	}
	n := 0
	_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		n++
		log.Debug("route registered", "method", method, "route", route)
		return nil
	})
	log.Info("router ready", "routes", n)
}
