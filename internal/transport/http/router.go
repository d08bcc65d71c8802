// Package httptransport assembles the public HTTP surface.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"venuebook/internal/bookings/handler"
	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/service"
	"venuebook/internal/platform/health"
	request "venuebook/pkg/platform/middleware/request"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 1 << 20
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Service  *service.Service
	Health   *health.Handler
	Gatherer prometheus.Gatherer
	Latency  *request.Metrics
	Logger   *slog.Logger
}

// NewRouter wires all public endpoints with middleware. The bookings API
// lives under /api; health and metrics sit at the root.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(request.Actor)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Latency(d.Latency, routePattern))

	if d.Health != nil {
		d.Health.Register(r)
	}
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	svc := d.Service
	bookings := handler.New(svc, d.Logger,
		handler.Collection[models.Table]("tables", svc.Tables()),
		handler.Collection[models.BookingType]("booking-types", svc.BookingTypes()),
		handler.Collection[models.BookingStatus]("statuses", svc.Statuses()),
		handler.Collection[models.Customer]("customers", svc.Customers()),
		handler.Collection[models.WaitlistEntry]("waitlist", svc.Waitlist()),
		handler.Collection[models.FloorPlan]("floor-plans", svc.FloorPlans()),
		handler.Collection[models.BookingTag]("tags", svc.Tags()),
		handler.Collection[models.PreorderProfile]("preorder-profiles", svc.PreorderProfiles()),
	)
	r.Route("/api", func(r chi.Router) {
		r.Use(request.Timeout(DefaultRequestTimeout))
		r.Use(request.BodyLimit(DefaultMaxBodyBytes))
		r.Use(request.ContentTypeJSON)
		bookings.Register(r)
	})

	return r
}

// routePattern labels latency by the matched chi pattern so ids do not
// explode the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
