package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wastezero/wastezero/internal/forms"
)

// RegisterFormRoutes wires the submit endpoints of every form.
func RegisterFormRoutes(r fiber.Router, h *forms.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/login", rateLimiter, h.Login)
	} else {
		r.Post("/login", h.Login)
	}
	r.Post("/register", h.Register)
	r.Put("/profile", h.UpdateProfile)
	r.Post("/profile/password", h.ChangePassword)
}
