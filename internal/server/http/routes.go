package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint. Only /healthz, /auth/signup and
// /auth/login are reachable without a bearer token.
func NewRouter(h *Handler, accessLog *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(WithRequestLogging(accessLog))
	r.Use(h.Recover)

	r.Get("/healthz", h.Health)
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Route("/auth/2fa", func(r chi.Router) {
			r.Post("/setup", h.SetupTOTP)
			r.Post("/enable", h.EnableTOTP)
			r.Post("/disable", h.DisableTOTP)
		})

		r.Get("/users/me", h.Me)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Put("/", h.UpdateUser)
			r.Delete("/", h.DeleteUser)
			r.Post("/avatar", h.UploadAvatar)
			r.Get("/avatar", h.GetAvatar)
		})

		r.Route("/vaults", func(r chi.Router) {
			r.Post("/", h.CreateVault)
			r.Get("/", h.ListVaults)
			r.Get("/{id}", h.GetVault)
			r.Put("/{id}", h.UpdateVault)
			r.Delete("/{id}", h.DeleteVault)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.CreateAccount)
			r.Get("/", h.ListAccounts)
			r.Get("/{id}", h.GetAccount)
			r.Put("/{id}", h.UpdateAccount)
			r.Delete("/{id}", h.DeleteAccount)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", h.CreateCard)
			r.Get("/", h.ListCards)
			r.Get("/{id}", h.GetCard)
			r.Put("/{id}", h.UpdateCard)
			r.Delete("/{id}", h.DeleteCard)
		})
	})

	return r
}
