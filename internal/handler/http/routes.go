package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)
	if h.timeout > 0 {
		router.Use(middleware.Timeout(h.timeout))
	}
	router.Use(h.withOptions)
	router.Use(h.withDecompress)
	router.Use(middleware.GetHead)

	router.Get("/api/version", h.getServerVersion)

	router.Get("/api/appointments", h.listAppointments)
	router.Post("/api/appointments", h.createAppointment)
	router.Get("/api/appointments/{id}", h.getAppointment)
	router.Put("/api/appointments/{id}", h.updateAppointment)
	router.Delete("/api/appointments/{id}", h.deleteAppointment)

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.methodNotAllowed)

	return router
}
