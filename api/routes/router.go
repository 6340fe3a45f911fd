package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrofeira/feira-backend/api/controllers"
	"github.com/agrofeira/feira-backend/api/middleware"
	catalogsvc "github.com/agrofeira/feira-backend/internal/catalog"
	compositionsvc "github.com/agrofeira/feira-backend/internal/composition"
	cyclesvc "github.com/agrofeira/feira-backend/internal/cycles"
	"github.com/agrofeira/feira-backend/pkg/config"
	"github.com/agrofeira/feira-backend/pkg/db"
	"github.com/agrofeira/feira-backend/pkg/logger"
	"github.com/agrofeira/feira-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cycleService cyclesvc.Service,
	catalogService catalogsvc.Service,
	compositionService compositionsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Liveness())
		r.Get("/ready", controllers.Readiness(dbP, redisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cycles", func(r chi.Router) {
			r.Post("/", controllers.CreateCycle(cycleService, logg))
			r.Get("/", controllers.ListCycles(cycleService, logg))
			r.Route("/{cycleId}", func(r chi.Router) {
				r.Get("/", controllers.GetCycle(cycleService, logg))
				r.Post("/open", controllers.OpenCycle(cycleService, logg))
				r.Post("/close", controllers.CloseCycle(cycleService, logg))

				r.Route("/markets/{marketId}", func(r chi.Router) {
					r.Put("/ceiling", controllers.UpdateCeiling(cycleService, logg))

					r.Route("/offers", func(r chi.Router) {
						r.Post("/", controllers.CreateOffer(catalogService, logg))
						r.Get("/", controllers.BrowseOffers(catalogService, logg))
					})

					r.Route("/draft", func(r chi.Router) {
						r.Put("/", controllers.SaveDraft(compositionService, logg))
						r.Get("/", controllers.GetDraft(compositionService, logg))
						r.Delete("/", controllers.DiscardDraft(compositionService, logg))
					})

					r.Route("/compositions", func(r chi.Router) {
						r.Post("/", controllers.CommitComposition(compositionService, logg))
						r.Get("/", controllers.ListCompositions(compositionService, logg))
					})
				})
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.CreateSupplier(catalogService, logg))
			r.Get("/", controllers.ListSuppliers(catalogService, logg))
		})

		r.Route("/offers/{offerId}", func(r chi.Router) {
			r.Patch("/", controllers.UpdateOffer(catalogService, logg))
			r.Delete("/", controllers.DeleteOffer(catalogService, logg))
		})

		r.Get("/compositions/{compositionId}", controllers.GetComposition(compositionService, logg))
	})

	return r
}
