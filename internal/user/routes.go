package user

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/aizzler/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware)

	r.Get("/me", h.GetUser)
	return r
}
