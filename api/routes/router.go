package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suruagyvieira/dropmasters-alpha/api/controllers"
	"github.com/suruagyvieira/dropmasters-alpha/api/middleware"
	"github.com/suruagyvieira/dropmasters-alpha/internal/catalog"
	"github.com/suruagyvieira/dropmasters-alpha/internal/discovery"
	"github.com/suruagyvieira/dropmasters-alpha/internal/events"
	"github.com/suruagyvieira/dropmasters-alpha/internal/notify"
	"github.com/suruagyvieira/dropmasters-alpha/internal/orders"
	"github.com/suruagyvieira/dropmasters-alpha/internal/repricer"
	"github.com/suruagyvieira/dropmasters-alpha/internal/support"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

type cycleRunner interface {
	Run(ctx context.Context, force bool) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    pinger
	Redis pinger

	Catalog     *catalog.Service
	CatalogRepo *catalog.Repository
	Orders      *orders.Service
	Support     *support.Engine
	Discovery   *discovery.Client
	State       *repricer.State
	Job         cycleRunner
	Events      *events.Recorder
	Composer    *notify.Composer
	Messenger   notify.Dispatcher

	MetricsRegistry *prometheus.Registry
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.Healthz(deps.Config, deps.DB, deps.Redis))
	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/products", controllers.Products(deps.Catalog))
		r.Post("/payments/callback", controllers.PaymentCallback(deps.Orders, deps.Logger))
		r.Post("/support/chat", controllers.SupportChat(deps.Support, deps.Logger))
		r.Post("/sourcing", controllers.Sourcing(deps.Discovery, nil, deps.Logger))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(deps.Config.Admin.Secret, deps.Logger))
			r.Post("/pivot", controllers.ForcePivot(deps.Job, deps.Logger))
			r.Get("/state", controllers.AutonomyState(deps.State, deps.Events, deps.Logger))
			r.Post("/sourcing", controllers.Sourcing(deps.Discovery, deps.CatalogRepo, deps.Logger))
			if deps.Composer != nil && deps.Messenger != nil {
				r.Post("/recovery", controllers.Recovery(deps.Composer, deps.Messenger, deps.Logger))
			}
		})
	})

	return r
}
