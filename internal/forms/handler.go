package forms

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wastezero/wastezero/internal/validation"
)

// Handler exposes the form controllers over HTTP. Each controller is a single
// form instance shared by all requests, so concurrent submits of the same
// form get 409 while one is in flight.
type Handler struct {
	login    *Login
	register *Register
	profile  *Profile
	password *Password
}

// NewHandler constructs the forms HTTP handler.
func NewHandler(login *Login, register *Register, profile *Profile, password *Password) *Handler {
	return &Handler{login: login, register: register, profile: profile, password: password}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
	Role     string `json:"role" form:"role"`
	Location string `json:"location" form:"location"`
}

type profileRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Location string `json:"location" form:"location"`
	Skills   string `json:"skills" form:"skills"`
	Bio      string `json:"bio" form:"bio"`
}

type passwordRequest struct {
	Current string `json:"current" form:"current"`
	New     string `json:"new" form:"new"`
	Confirm string `json:"confirm" form:"confirm"`
}

// Login handles the login form.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.login.Submit(c.UserContext(), validation.Input{
		"username": req.Username,
		"password": req.Password,
	})
	return respond(c, res, err)
}

// Register handles the registration form.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.register.Submit(c.UserContext(), validation.Input{
		"name":     req.Name,
		"email":    req.Email,
		"username": req.Username,
		"password": req.Password,
		"confirm":  req.Confirm,
		"role":     req.Role,
		"location": req.Location,
	})
	return respond(c, res, err)
}

// UpdateProfile handles the profile form.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.profile.Submit(c.UserContext(), validation.Input{
		"name":     req.Name,
		"email":    req.Email,
		"location": req.Location,
		"skills":   req.Skills,
		"bio":      req.Bio,
	})
	return respond(c, res, err)
}

// ChangePassword handles the password form.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.password.Submit(c.UserContext(), validation.Input{
		"current": req.Current,
		"new":     req.New,
		"confirm": req.Confirm,
	})
	return respond(c, res, err)
}

func respond(c *fiber.Ctx, res Result, err error) error {
	var (
		fe validation.FieldErrors
		re *validation.RuleError
	)
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, ErrSubmitInProgress):
		status = http.StatusConflict
	case errors.As(err, &fe):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &re):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	return c.Status(status).JSON(res)
}
