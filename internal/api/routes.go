package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/book/enter", s.handleBookEnter)
		r.Post("/book/{session}/more", s.handleBookMore)
		r.Post("/book/{session}/refresh", s.handleBookRefresh)
		r.Post("/book/{session}/filter", s.handleBookFilter)
		r.Post("/book/{session}/select", s.handleBookSelect)
		r.Post("/book/{session}/leave", s.handleBookLeave)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/calendar/{year}/{month}", s.handleCalendarMonth)
	})

	return r
}
