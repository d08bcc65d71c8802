// Package handler exposes the bookings service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/state"
	"venuebook/internal/bookings/stats"
	"venuebook/pkg/platform/httputil"
	"venuebook/pkg/requestcontext"
)

// Service is the part of the bookings service the routes use.
type Service interface {
	State() state.BookingsState
	SelectTenant(t models.TenantContext)
	Refresh(ctx context.Context) error
	Reset()
	Stats(r *stats.Range) models.BookingStats
	RecalculateStats(r *stats.Range) models.BookingStats
	BookingsOn(date string) []models.Booking
	LoadBookings(ctx context.Context, bypass bool) ([]models.Booking, error)
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	UpdateBooking(ctx context.Context, id string, patch models.Patch) error
	UpdateBookingStatus(ctx context.Context, id, status string) error
	DeleteBooking(ctx context.Context, id string) error
	LoadSettings(ctx context.Context) (models.BookingSettings, error)
	SaveSettings(ctx context.Context, settings models.BookingSettings) (models.BookingSettings, error)
}

// Entities is one collection with plain CRUD semantics.
type Entities[T any] interface {
	Load(ctx context.Context, bypass bool) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, patch models.Patch) error
	Delete(ctx context.Context, id string) error
}

// Mount registers extra routes on the handler's router.
type Mount func(h *Handler, r chi.Router)

// Collection mounts list, create, update and delete routes for e under
// /{name}.
func Collection[T any](name string, e Entities[T]) Mount {
	return func(h *Handler, r chi.Router) {
		r.Route("/"+name, func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				items, err := e.Load(r.Context(), bypassCache(r))
				h.respond(w, r, "load "+name, http.StatusOK, items, err)
			})
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				item, ok := decode[T](h, w, r)
				if !ok {
					return
				}
				created, err := e.Create(r.Context(), *item)
				h.respond(w, r, "create "+name, http.StatusCreated, created, err)
			})
			r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
				patch, ok := decodePatch(h, w, r)
				if !ok {
					return
				}
				err := e.Update(r.Context(), chi.URLParam(r, "id"), patch)
				h.respond(w, r, "update "+name, http.StatusNoContent, nil, err)
			})
			r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
				err := e.Delete(r.Context(), chi.URLParam(r, "id"))
				h.respond(w, r, "delete "+name, http.StatusNoContent, nil, err)
			})
		})
	}
}

type Handler struct {
	service Service
	logger  *slog.Logger
	mounts  []Mount
}

func New(service Service, logger *slog.Logger, mounts ...Mount) *Handler {
	return &Handler{service: service, logger: logger, mounts: mounts}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/state", h.HandleState)
	r.Put("/tenant", h.HandleSelectTenant)
	r.Post("/refresh", h.HandleRefresh)
	r.Post("/reset", h.HandleReset)
	r.Get("/stats", h.HandleStats)
	r.Post("/stats", h.HandleRecalculateStats)

	r.Get("/bookings", h.HandleListBookings)
	r.Post("/bookings", h.HandleCreateBooking)
	r.Get("/bookings/day/{date}", h.HandleBookingsOn)
	r.Patch("/bookings/{id}", h.HandleUpdateBooking)
	r.Put("/bookings/{id}/status", h.HandleUpdateBookingStatus)
	r.Delete("/bookings/{id}", h.HandleDeleteBooking)

	r.Get("/settings", h.HandleGetSettings)
	r.Put("/settings", h.HandleSaveSettings)

	for _, m := range h.mounts {
		m(h, r)
	}
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.State())
}

// HandleSelectTenant changes the selection. Loading runs in the background,
// so the response only acknowledges the request.
func (h *Handler) HandleSelectTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[SelectTenantRequest](h, w, r)
	if !ok {
		return
	}
	h.service.SelectTenant(req.Tenant())
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	err := h.service.Refresh(r.Context())
	h.respond(w, r, "refresh", http.StatusOK, h.service.State(), err)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.statsRange(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Stats(rng))
}

func (h *Handler) HandleRecalculateStats(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.statsRange(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.RecalculateStats(rng))
}

// HandleListBookings returns the bookings in state, or reloads them when
// fresh=true.
func (h *Handler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	if !bypassCache(r) {
		httputil.WriteJSON(w, http.StatusOK, h.service.State().Bookings)
		return
	}
	bookings, err := h.service.LoadBookings(r.Context(), true)
	h.respond(w, r, "load bookings", http.StatusOK, bookings, err)
}

func (h *Handler) HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[models.Booking](h, w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateBooking(r.Context(), *req)
	h.respond(w, r, "create booking", http.StatusCreated, created, err)
}

func (h *Handler) HandleBookingsOn(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.BookingsOn(date))
}

func (h *Handler) HandleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	patch, ok := decodePatch(h, w, r)
	if !ok {
		return
	}
	err := h.service.UpdateBooking(r.Context(), chi.URLParam(r, "id"), patch)
	h.respond(w, r, "update booking", http.StatusNoContent, nil, err)
}

func (h *Handler) HandleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[UpdateStatusRequest](h, w, r)
	if !ok {
		return
	}
	err := h.service.UpdateBookingStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	h.respond(w, r, "update booking status", http.StatusNoContent, nil, err)
}

func (h *Handler) HandleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteBooking(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, "delete booking", http.StatusNoContent, nil, err)
}

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.LoadSettings(r.Context())
	h.respond(w, r, "load settings", http.StatusOK, settings, err)
}

func (h *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[models.BookingSettings](h, w, r)
	if !ok {
		return
	}
	saved, err := h.service.SaveSettings(r.Context(), *req)
	h.respond(w, r, "save settings", http.StatusOK, saved, err)
}

func (h *Handler) statsRange(w http.ResponseWriter, r *http.Request) (*stats.Range, bool) {
	rng, err := parseRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return rng, true
}

// respond writes body with status, or the translated error.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, status int, body any, err error) {
	if err != nil {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, op+" failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	httputil.WriteJSON(w, status, body)
}

func decode[T any](h *Handler, w http.ResponseWriter, r *http.Request) (*T, bool) {
	ctx := r.Context()
	return httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
}

func decodePatch(h *Handler, w http.ResponseWriter, r *http.Request) (models.Patch, bool) {
	patch, ok := decode[models.Patch](h, w, r)
	if !ok {
		return nil, false
	}
	return *patch, true
}

func bypassCache(r *http.Request) bool {
	return r.URL.Query().Get("fresh") == "true"
}
