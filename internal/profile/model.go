package profile

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the account type chosen at registration.
type Role string

const (
	RoleVolunteer Role = "Volunteer"
	RoleNGO       Role = "NGO"
	RoleAdmin     Role = "Admin"
)

// ParseRole maps a form value to a Role. An empty value yields Volunteer.
func ParseRole(v string) (Role, bool) {
	switch Role(v) {
	case "":
		return RoleVolunteer, true
	case RoleVolunteer, RoleNGO, RoleAdmin:
		return Role(v), true
	default:
		return "", false
	}
}

// UserProfile is the editable personal record of the local user.
type UserProfile struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills"`
	Bio      string   `json:"bio,omitempty"`
	Role     Role     `json:"role"`
}

// Empty returns the profile used before anything has been saved.
func Empty() UserProfile {
	return UserProfile{Skills: []string{}, Role: RoleVolunteer}
}

// SkillsDisplay joins skills the way the profile form shows them.
func (p UserProfile) SkillsDisplay() string {
	return strings.Join(p.Skills, ", ")
}

// ParseSkills splits a comma separated list, trimming entries and dropping
// empty ones. The result is never nil.
func ParseSkills(display string) []string {
	skills := []string{}
	for _, s := range strings.Split(display, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// Credential is the stored password hash.
type Credential struct {
	Hash      string    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at"`

	// plaintext written by the old web client; replaced on the next change
	legacy string
}

// HashPassword builds a credential for plain. The password is reduced to a
// fixed-size digest first, so bcrypt's 72 byte input limit never applies.
func HashPassword(plain string, cost int, now time.Time) (Credential, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(plain), cost)
	if err != nil {
		return Credential{}, fmt.Errorf("hash password: %w", err)
	}
	return Credential{Hash: string(hash), UpdatedAt: now}, nil
}

// Matches reports whether plain is the stored password.
func (c Credential) Matches(plain string) bool {
	if c.legacy != "" {
		return subtle.ConstantTimeCompare([]byte(c.legacy), []byte(plain)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Hash), digest(plain)) == nil
}

// Legacy reports whether the credential is a plaintext record awaiting rehash.
func (c Credential) Legacy() bool { return c.legacy != "" }

func digest(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Session marks the last successful login.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

// Theme is the persisted colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(v string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(v))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	default:
		return "", false
	}
}
