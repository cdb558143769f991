package validation

import (
	"unicode/utf8"

	"github.com/wastezero/wastezero/internal/profile"
)

// Login is a validated login submission.
type Login struct {
	Username string
	Password string
}

// ValidateLogin checks the login form.
func ValidateLogin(in Input) (Login, error) {
	r := result{}
	out := Login{
		Username: r.minLength(in, "username", minUsernameLength, msgUsernameRequired),
		Password: r.minLength(in, "password", minPasswordLength, msgPasswordLength),
	}
	if err := r.err(); err != nil {
		return Login{}, err
	}
	return out, nil
}

// Registration is a validated sign-up submission.
type Registration struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     profile.Role
	Location string
}

// ValidateRegistration checks the registration form. A mismatched
// confirmation is reported on the confirm field.
func ValidateRegistration(in Input) (Registration, error) {
	r := result{}
	out := Registration{
		Name:     r.minLength(in, "name", minNameLength, msgNameRequired),
		Email:    r.email(in, "email"),
		Username: r.minLength(in, "username", minUsernameLength, msgUsernameRequired),
		Password: r.minLength(in, "password", minPasswordLength, msgPasswordLength),
		Location: in["location"],
	}

	confirm := r.minLength(in, "confirm", minPasswordLength, msgConfirmRequired)
	if confirm != out.Password {
		r["confirm"] = msgPasswordMismatch
	}

	role, ok := profile.ParseRole(in["role"])
	if !ok {
		r["role"] = msgRoleInvalid
	}
	out.Role = role

	if err := r.err(); err != nil {
		return Registration{}, err
	}
	return out, nil
}

// ProfileEdit is a validated profile form.
type ProfileEdit struct {
	Name     string
	Email    string
	Location string
	Skills   []string
	Bio      string
}

// ValidateProfile checks the profile form. skills is the comma separated
// display string.
func ValidateProfile(in Input) (ProfileEdit, error) {
	r := result{}
	out := ProfileEdit{
		Name:     r.minLength(in, "name", minNameLength, msgNameRequired),
		Email:    r.email(in, "email"),
		Location: in["location"],
		Skills:   profile.ParseSkills(in["skills"]),
		Bio:      in["bio"],
	}
	if err := r.err(); err != nil {
		return ProfileEdit{}, err
	}
	return out, nil
}

// Verifier checks a candidate password against a stored one.
type Verifier interface {
	Matches(plain string) bool
}

// PasswordChange is a validated password change; New is the password to store.
type PasswordChange struct {
	New string
}

// ValidatePasswordChange applies the password change rules in order and
// returns the first violation. stored is nil when no password has been set,
// in which case current is ignored.
func ValidatePasswordChange(in Input, stored Verifier) (PasswordChange, error) {
	if stored != nil && !stored.Matches(in["current"]) {
		return PasswordChange{}, ErrCurrentPasswordIncorrect
	}
	next := in["new"]
	if utf8.RuneCountInString(next) < minPasswordLength {
		return PasswordChange{}, ErrPasswordTooShort
	}
	if next != in["confirm"] {
		return PasswordChange{}, ErrPasswordMismatch
	}
	return PasswordChange{New: next}, nil
}
