package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wastezero/wastezero/internal/profile"
)

// RegisterProfileRoutes wires the profile and theme reads.
func RegisterProfileRoutes(r fiber.Router, h *profile.Handler) {
	r.Get("/profile", h.Get)
	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.PutTheme)
}
