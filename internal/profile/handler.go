package profile

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes read access to the stored profile and the theme preference.
type Handler struct {
	store *Store
}

// NewHandler constructs a profile HTTP handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type profileResponse struct {
	UserProfile
	SkillsDisplay string `json:"skills_display"`
}

// Get returns the stored profile, or the empty one.
func (h *Handler) Get(c *fiber.Ctx) error {
	p := h.store.Load(c.UserContext())
	return c.Status(http.StatusOK).JSON(profileResponse{UserProfile: p, SkillsDisplay: p.SkillsDisplay()})
}

type themeBody struct {
	Theme string `json:"theme" form:"theme"`
}

// GetTheme returns the saved theme; an empty theme means the system default.
func (h *Handler) GetTheme(c *fiber.Ctx) error {
	t, _ := h.store.LoadTheme(c.UserContext())
	return c.Status(http.StatusOK).JSON(themeBody{Theme: string(t)})
}

// PutTheme saves the theme preference.
func (h *Handler) PutTheme(c *fiber.Ctx) error {
	var req themeBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, ok := ParseTheme(req.Theme)
	if !ok {
		return fiber.NewError(http.StatusUnprocessableEntity, "theme must be light or dark")
	}
	if err := h.store.SaveTheme(c.UserContext(), t); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(themeBody{Theme: string(t)})
}
