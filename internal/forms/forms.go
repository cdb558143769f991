package forms

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wastezero/wastezero/internal/notification"
	"github.com/wastezero/wastezero/internal/profile"
	"github.com/wastezero/wastezero/internal/validation"
)

// Login accepts any credentials that pass validation; there is no server to
// reject them. A session marker is written on success.
type Login struct {
	*machine
}

// NewLogin builds the login form controller.
func NewLogin(deps Deps, latency time.Duration) *Login {
	return &Login{machine: newMachine(notification.KindLogin, latency, deps)}
}

// Submit runs one login attempt.
func (c *Login) Submit(ctx context.Context, in validation.Input) (Result, error) {
	form, err := validation.ValidateLogin(in)
	return c.submit(ctx, err, func(ctx context.Context) (outcome, error) {
		sess := profile.Session{ID: uuid.NewString(), Username: form.Username}
		if err := c.deps.Store.SaveSession(ctx, sess); err != nil {
			return outcome{}, err
		}
		return outcome{notice: "Logged in", redirect: RedirectHome}, nil
	})
}

// Register creates the local profile and credential. Either both are
// written or neither is.
type Register struct {
	*machine
}

// NewRegister builds the registration form controller.
func NewRegister(deps Deps, latency time.Duration) *Register {
	return &Register{machine: newMachine(notification.KindRegister, latency, deps)}
}

// Submit runs one registration attempt.
func (c *Register) Submit(ctx context.Context, in validation.Input) (Result, error) {
	form, err := validation.ValidateRegistration(in)
	return c.submit(ctx, err, func(ctx context.Context) (outcome, error) {
		cred, err := c.deps.Store.HashCredential(form.Password)
		if err != nil {
			return outcome{}, err
		}
		p := profile.Empty()
		p.Name = form.Name
		p.Email = form.Email
		p.Location = form.Location
		p.Role = form.Role
		if err := c.deps.Store.CreateAccount(ctx, p, cred); err != nil {
			return outcome{}, err
		}
		return outcome{notice: "Account created", redirect: RedirectLogin}, nil
	})
}

// Profile replaces the stored profile with the submitted form.
type Profile struct {
	*machine
}

// NewProfile builds the profile form controller.
func NewProfile(deps Deps, latency time.Duration) *Profile {
	return &Profile{machine: newMachine(notification.KindProfileUpdate, latency, deps)}
}

// Submit runs one profile update. The role is not editable here and is
// carried over from the stored profile.
func (c *Profile) Submit(ctx context.Context, in validation.Input) (Result, error) {
	form, err := validation.ValidateProfile(in)
	return c.submit(ctx, err, func(ctx context.Context) (outcome, error) {
		current := c.deps.Store.Load(ctx)
		next := profile.UserProfile{
			Name:     form.Name,
			Email:    form.Email,
			Location: form.Location,
			Skills:   form.Skills,
			Bio:      form.Bio,
			Role:     current.Role,
		}
		if err := c.deps.Store.Save(ctx, next); err != nil {
			return outcome{}, err
		}
		return outcome{notice: "Profile updated"}, nil
	})
}

// Password changes the stored credential.
type Password struct {
	*machine
}

// NewPassword builds the password change form controller.
func NewPassword(deps Deps, latency time.Duration) *Password {
	return &Password{machine: newMachine(notification.KindPasswordChange, latency, deps)}
}

// Submit runs one password change. Rule violations resolve as Failed and
// leave the stored credential untouched.
func (c *Password) Submit(ctx context.Context, in validation.Input) (Result, error) {
	return c.submit(ctx, nil, func(ctx context.Context) (outcome, error) {
		var stored validation.Verifier
		if cred, ok := c.deps.Store.LoadCredential(ctx); ok {
			stored = cred
		}
		change, err := validation.ValidatePasswordChange(in, stored)
		if err != nil {
			return outcome{}, err
		}
		if err := c.deps.Store.SaveCredential(ctx, change.New); err != nil {
			return outcome{}, err
		}
		return outcome{notice: "Password changed"}, nil
	})
}
