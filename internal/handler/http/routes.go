package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withCompression)
	router.Use(middleware.Recoverer)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/eds/login", h.edsLogin)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Put("/api/auth/complete", h.completeRegistration)
		r.Get("/api/auth/me", h.getProfile)
		r.Put("/api/auth/me", h.updateProfile)

		r.Get("/api/departments", h.listDepartments)
		r.Post("/api/departments", h.createDepartment)
		r.Get("/api/departments/{id}", h.getDepartment)

		r.Post("/api/users", h.createUser)
		r.Get("/api/users", h.listUsers)
		r.Get("/api/users/{id}", h.getUser)

		r.Post("/api/requests", h.createRequest)
		r.Get("/api/requests", h.listRequests)
		r.Get("/api/requests/{id}", h.getRequest)
		r.Put("/api/requests/{id}", h.updateRequest)
		r.Delete("/api/requests/{id}", h.deleteRequest)

		r.Post("/api/requests/{id}/comments", h.addComment)
		r.Get("/api/requests/{id}/comments", h.listComments)

		r.Post("/api/requests/{id}/attachments", h.uploadAttachment)
		r.Get("/api/requests/{id}/attachments", h.listAttachments)
		r.Get("/api/requests/{id}/attachments/{attachmentID}", h.downloadAttachment)

		r.Get("/api/statistics", h.getStatistics)
	})

	return router
}
